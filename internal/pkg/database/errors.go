package database

import (
	"errors"

	"github.com/lib/pq"
)

// Código SQLSTATE de violação de restrição UNIQUE.
const uniqueViolation = "23505"

// IsUniqueViolation informa se o erro do driver é uma violação de chave única.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
