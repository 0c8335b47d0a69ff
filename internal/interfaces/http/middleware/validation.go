package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/siscom/backend/internal/domain/partner"
	"github.com/siscom/backend/internal/interfaces/http/dto"
)

// SetupValidator configures gin's validator with JSON field names and the
// Brazilian taxpayer document tags (cpf, cnpj, cpfcnpj).
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	_ = v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return partner.ValidateCPF(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("cnpj", func(fl validator.FieldLevel) bool {
		return partner.ValidateCNPJ(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("cpfcnpj", func(fl validator.FieldLevel) bool {
		digits := partner.NormalizeDocument(fl.Field().String())
		switch len(digits) {
		case 11:
			return partner.ValidateCPF(digits) == nil
		case 14:
			return partner.ValidateCNPJ(digits) == nil
		default:
			return false
		}
	})
}

// FormatValidationErrors builds a field-by-field validation response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: validationMessage(e),
			})
		}
	}

	return dto.NewValidationErrorResponse("Falha na validação da requisição", requestID, details)
}

// validationMessage returns a readable message for a failed rule
func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "Campo obrigatório"
	case "email":
		return "E-mail inválido"
	case "uuid":
		return "Identificador inválido"
	case "cpf":
		return "CPF inválido"
	case "cnpj":
		return "CNPJ inválido"
	case "cpfcnpj":
		return "CPF ou CNPJ inválido"
	case "min":
		return "Valor abaixo do mínimo permitido (" + e.Param() + ")"
	case "max":
		return "Valor acima do máximo permitido (" + e.Param() + ")"
	case "oneof":
		return "Valor deve ser um de: " + e.Param()
	case "gt":
		return "Valor deve ser maior que " + e.Param()
	case "gte":
		return "Valor deve ser maior ou igual a " + e.Param()
	default:
		return "Valor inválido"
	}
}
