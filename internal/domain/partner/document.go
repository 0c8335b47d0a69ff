package partner

import (
	"strings"

	"github.com/siscom/backend/internal/domain/shared"
)

// DocumentType identifies the Brazilian taxpayer document kind
type DocumentType string

const (
	DocumentTypeCPF  DocumentType = "CPF"  // Individual (11 digits)
	DocumentTypeCNPJ DocumentType = "CNPJ" // Company (14 digits)
)

// NormalizeDocument strips formatting characters from a CPF/CNPJ
func NormalizeDocument(doc string) string {
	var b strings.Builder
	for _, r := range doc {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateCPF validates a CPF number including its check digits
func ValidateCPF(cpf string) error {
	digits := NormalizeDocument(cpf)
	if len(digits) != 11 {
		return shared.NewDomainError("INVALID_CPF", "CPF deve ter 11 dígitos")
	}
	if allSameDigit(digits) {
		return shared.NewDomainError("INVALID_CPF", "CPF inválido")
	}

	if checkDigit(digits[:9], []int{10, 9, 8, 7, 6, 5, 4, 3, 2}) != int(digits[9]-'0') {
		return shared.NewDomainError("INVALID_CPF", "CPF inválido")
	}
	if checkDigit(digits[:10], []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}) != int(digits[10]-'0') {
		return shared.NewDomainError("INVALID_CPF", "CPF inválido")
	}

	return nil
}

// ValidateCNPJ validates a CNPJ number including its check digits
func ValidateCNPJ(cnpj string) error {
	digits := NormalizeDocument(cnpj)
	if len(digits) != 14 {
		return shared.NewDomainError("INVALID_CNPJ", "CNPJ deve ter 14 dígitos")
	}
	if allSameDigit(digits) {
		return shared.NewDomainError("INVALID_CNPJ", "CNPJ inválido")
	}

	if checkDigit(digits[:12], []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}) != int(digits[12]-'0') {
		return shared.NewDomainError("INVALID_CNPJ", "CNPJ inválido")
	}
	if checkDigit(digits[:13], []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}) != int(digits[13]-'0') {
		return shared.NewDomainError("INVALID_CNPJ", "CNPJ inválido")
	}

	return nil
}

// ValidateDocument validates a document against its declared type
func ValidateDocument(docType DocumentType, doc string) error {
	switch docType {
	case DocumentTypeCPF:
		return ValidateCPF(doc)
	case DocumentTypeCNPJ:
		return ValidateCNPJ(doc)
	default:
		return shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Tipo de documento inválido")
	}
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

// checkDigit computes a mod-11 check digit over the given digits and weights
func checkDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}
