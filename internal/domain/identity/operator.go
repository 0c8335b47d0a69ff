package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/siscom/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// OperatorStatus represents the status of an operator account
type OperatorStatus string

const (
	OperatorStatusActive      OperatorStatus = "active"
	OperatorStatusLocked      OperatorStatus = "locked"
	OperatorStatusDeactivated OperatorStatus = "deactivated"
)

// String returns the string representation of OperatorStatus
func (s OperatorStatus) String() string {
	return string(s)
}

// OperatorRole controls what an operator may do
type OperatorRole string

const (
	// OperatorRoleAdmin has full access including configuration
	OperatorRoleAdmin OperatorRole = "admin"
	// OperatorRoleManager approves purchases and authorizes sangria
	OperatorRoleManager OperatorRole = "manager"
	// OperatorRoleCashier operates the PDV
	OperatorRoleCashier OperatorRole = "cashier"
)

// IsValid returns true if the role is valid
func (r OperatorRole) IsValid() bool {
	switch r {
	case OperatorRoleAdmin, OperatorRoleManager, OperatorRoleCashier:
		return true
	}
	return false
}

// Password cost for bcrypt
const bcryptCost = 12

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

// Operator represents a system user, the person behind a cash session
// or a back-office operation. It is the aggregate root for
// authentication and account lifecycle.
type Operator struct {
	shared.BaseAggregateRoot
	Username       string         `gorm:"type:varchar(100);uniqueIndex;not null"`
	Name           string         `gorm:"type:varchar(200);not null"`
	PasswordHash   string         `gorm:"type:varchar(100);not null"`
	Role           OperatorRole   `gorm:"type:varchar(20);not null"`
	Status         OperatorStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt    *time.Time
	FailedAttempts int `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

// TableName returns the table name for GORM
func (Operator) TableName() string {
	return "operators"
}

// NewOperator creates an active operator with a hashed password
func NewOperator(username, name, password string, role OperatorRole) (*Operator, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("MISSING_NAME", "Nome do operador é obrigatório")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Perfil de operador inválido")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Falha ao gerar hash da senha")
	}

	operator := &Operator{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.ToLower(strings.TrimSpace(username)),
		Name:              name,
		PasswordHash:      passwordHash,
		Role:              role,
		Status:            OperatorStatusActive,
	}

	operator.AddDomainEvent(NewOperatorCreatedEvent(operator))
	return operator, nil
}

// VerifyPassword verifies if the provided password matches
func (o *Operator) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(password))
	return err == nil
}

// ChangePassword changes the password after verifying the current one
func (o *Operator) ChangePassword(oldPassword, newPassword string) error {
	if !o.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Senha atual incorreta")
	}
	return o.SetPassword(newPassword)
}

// SetPassword sets a new password without checking the old one (admin reset)
func (o *Operator) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Falha ao gerar hash da senha")
	}

	o.PasswordHash = passwordHash
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// SetRole changes the operator's role
func (o *Operator) SetRole(role OperatorRole) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Perfil de operador inválido")
	}
	o.Role = role
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// RecordLoginSuccess records a successful login
func (o *Operator) RecordLoginSuccess() {
	now := time.Now()
	o.LastLoginAt = &now
	o.FailedAttempts = 0
	o.UpdatedAt = now
	o.IncrementVersion()
}

// RecordLoginFailure records a failed attempt and locks the account
// once maxAttempts is reached. Returns true when the account was locked.
func (o *Operator) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	o.FailedAttempts++
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	if o.FailedAttempts >= maxAttempts {
		o.Status = OperatorStatusLocked
		if lockDuration > 0 {
			lockedUntil := time.Now().Add(lockDuration)
			o.LockedUntil = &lockedUntil
		}
		return true
	}
	return false
}

// Unlock clears a lock and resets the failure counter
func (o *Operator) Unlock() error {
	if o.Status != OperatorStatusLocked {
		return shared.NewDomainError("NOT_LOCKED", "Operador não está bloqueado")
	}
	o.Status = OperatorStatusActive
	o.FailedAttempts = 0
	o.LockedUntil = nil
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// Deactivate disables the account permanently
func (o *Operator) Deactivate() error {
	if o.Status == OperatorStatusDeactivated {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "Operador já está desativado")
	}
	o.Status = OperatorStatusDeactivated
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// Activate re-enables a deactivated account
func (o *Operator) Activate() error {
	if o.Status == OperatorStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Operador já está ativo")
	}
	o.Status = OperatorStatusActive
	o.FailedAttempts = 0
	o.LockedUntil = nil
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// IsLocked returns true while the lock is in effect
func (o *Operator) IsLocked() bool {
	if o.Status != OperatorStatusLocked {
		return false
	}
	if o.LockedUntil != nil && time.Now().After(*o.LockedUntil) {
		return false
	}
	return true
}

// CanLogin returns true if the operator may authenticate
func (o *Operator) CanLogin() bool {
	if o.Status == OperatorStatusDeactivated {
		return false
	}
	return !o.IsLocked()
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Nome de usuário é obrigatório")
	}
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Nome de usuário deve ter ao menos 3 caracteres")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Nome de usuário não pode exceder 100 caracteres")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Nome de usuário contém caracteres inválidos")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return shared.NewDomainError("INVALID_PASSWORD", "Senha deve ter ao menos 6 caracteres")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Senha não pode exceder 72 caracteres")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
