// Package apperrors define a taxonomia de erros do core de atribuição.
// ValidationError e InvariantViolation sempre sobem para o caller;
// conflitos de chave única são absorvidos nos fluxos idempotentes.
package apperrors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ValidationError indica campo obrigatório ausente ou malformado (erro do caller)
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// InvariantViolation indica estado impossível detectado em leitura
// (ex: mais de um is_first_touch para a mesma identidade). Nunca é
// "corrigido" adivinhando qual linha está certa.
type InvariantViolation struct {
	Detail string
}

func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Detail
}

func NewInvariant(format string, args ...any) *InvariantViolation {
	return &InvariantViolation{Detail: fmt.Sprintf(format, args...)}
}

// StoreUnavailable embrulha falha de transporte/transação do banco.
// O core não faz retry interno; a política de retry é do caller.
type StoreUnavailable struct {
	Op  string
	Err error
}

func (e *StoreUnavailable) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailable) Unwrap() error { return e.Err }

func WrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreUnavailable{Op: op, Err: err}
}

// IsDuplicateKey detecta violação de unique constraint (código 23505 do
// Postgres ou a tradução do GORM), usada nos caminhos ConflictRecovered.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
