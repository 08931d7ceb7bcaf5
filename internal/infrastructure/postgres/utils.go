package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// violatedConstraint nombre del constraint violado ("" si no es un error de Postgres).
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// encodeTotals serializa totales por medio de pago a JSONB; nil -> NULL.
func encodeTotals(m map[entity.PaymentMethod]decimal.Decimal) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode totals: %w", err)
	}
	return raw, nil
}

func decodeTotals(raw []byte) (map[entity.PaymentMethod]decimal.Decimal, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var m map[entity.PaymentMethod]decimal.Decimal
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode totals: %w", err)
	}
	return m, nil
}

// pageArgs aplica el límite por defecto.
func pageArgs(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
