package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ventas/internal/domain"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.CashRegisterRepository = (*CashRegisterRepo)(nil)

// openingLockKey clave del advisory lock que serializa las aperturas de caja.
const openingLockKey = 7_410_001

const registerColumns = `id, state, opened_at, opened_by, opening_cash, closed_at, closed_by,
	counted_cash, counted_totals, expected_totals, expected_cash, variance`

// CashRegisterRepo cajas sobre PostgreSQL. El índice parcial ux_cash_registers_one_open
// garantiza una sola caja abierta.
type CashRegisterRepo struct {
	q Querier
}

// NewCashRegisterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashRegisterRepository(q Querier) *CashRegisterRepo {
	return &CashRegisterRepo{q: q}
}

// LockOpening toma un advisory lock de transacción; se libera en Commit/Rollback.
func (r *CashRegisterRepo) LockOpening(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, openingLockKey); err != nil {
		return fmt.Errorf("lock register opening: %w", err)
	}
	return nil
}

func (r *CashRegisterRepo) Create(ctx context.Context, reg *entity.CashRegister) error {
	if reg.ID == "" {
		reg.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO cash_registers (id, state, opened_at, opened_by, opening_cash)
		VALUES ($1, $2, $3, $4, $5)`,
		reg.ID, reg.State, reg.OpenedAt, reg.OpenedBy, reg.OpeningCash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cash register: %w", err)
	}
	return nil
}

func (r *CashRegisterRepo) GetByID(ctx context.Context, id string) (*entity.CashRegister, error) {
	return r.getOne(ctx, `SELECT `+registerColumns+` FROM cash_registers WHERE id = $1`, id)
}

func (r *CashRegisterRepo) GetOpen(ctx context.Context) (*entity.CashRegister, error) {
	return r.getOne(ctx, `SELECT `+registerColumns+` FROM cash_registers WHERE state = 'OPEN'`)
}

// GetOpenForShare impide el cierre concurrente mientras la venta se registra.
func (r *CashRegisterRepo) GetOpenForShare(ctx context.Context) (*entity.CashRegister, error) {
	return r.getOne(ctx, `SELECT `+registerColumns+` FROM cash_registers WHERE state = 'OPEN' FOR SHARE`)
}

func (r *CashRegisterRepo) GetOpenForUpdate(ctx context.Context) (*entity.CashRegister, error) {
	return r.getOne(ctx, `SELECT `+registerColumns+` FROM cash_registers WHERE state = 'OPEN' FOR UPDATE`)
}

// Close persiste el cierre solo si la caja sigue abierta; si no, domain.ErrConflict.
func (r *CashRegisterRepo) Close(ctx context.Context, reg *entity.CashRegister) error {
	counted, err := encodeTotals(reg.CountedTotals)
	if err != nil {
		return err
	}
	expected, err := encodeTotals(reg.ExpectedTotals)
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE cash_registers
		SET state = 'CLOSED', closed_at = $2, closed_by = $3, counted_cash = $4,
			counted_totals = $5, expected_totals = $6, expected_cash = $7, variance = $8
		WHERE id = $1 AND state = 'OPEN'`,
		reg.ID, reg.ClosedAt, reg.ClosedBy, reg.CountedCash, counted, expected, reg.ExpectedCash, reg.Variance,
	)
	if err != nil {
		return fmt.Errorf("close cash register: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	reg.State = entity.RegisterClosed
	return nil
}

// List cajas, más recientes primero.
func (r *CashRegisterRepo) List(ctx context.Context, limit, offset int) ([]*entity.CashRegister, error) {
	limit, offset = pageArgs(limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+registerColumns+` FROM cash_registers
		ORDER BY opened_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cash registers: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashRegister
	for rows.Next() {
		reg, err := scanRegister(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cash register: %w", err)
		}
		list = append(list, reg)
	}
	return list, rows.Err()
}

// PaymentTotals suma por medio de pago de las ventas de la caja.
func (r *CashRegisterRepo) PaymentTotals(ctx context.Context, registerID string) (map[entity.PaymentMethod]decimal.Decimal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.method, SUM(p.amount)
		FROM payments p
		JOIN sales s ON s.id = p.sale_id
		WHERE s.cash_register_id = $1
		GROUP BY p.method`, registerID)
	if err != nil {
		return nil, fmt.Errorf("register payment totals: %w", err)
	}
	defer rows.Close()
	totals := map[entity.PaymentMethod]decimal.Decimal{}
	for rows.Next() {
		var (
			method entity.PaymentMethod
			amount decimal.Decimal
		)
		if err := rows.Scan(&method, &amount); err != nil {
			return nil, fmt.Errorf("scan payment total: %w", err)
		}
		totals[method] = amount
	}
	return totals, rows.Err()
}

func (r *CashRegisterRepo) getOne(ctx context.Context, query string, args ...any) (*entity.CashRegister, error) {
	reg, err := scanRegister(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash register: %w", err)
	}
	return reg, nil
}

func scanRegister(row pgx.Row) (*entity.CashRegister, error) {
	var (
		reg               entity.CashRegister
		counted, expected []byte
	)
	err := row.Scan(&reg.ID, &reg.State, &reg.OpenedAt, &reg.OpenedBy, &reg.OpeningCash,
		&reg.ClosedAt, &reg.ClosedBy, &reg.CountedCash, &counted, &expected, &reg.ExpectedCash, &reg.Variance)
	if err != nil {
		return nil, err
	}
	if reg.CountedTotals, err = decodeTotals(counted); err != nil {
		return nil, err
	}
	if reg.ExpectedTotals, err = decodeTotals(expected); err != nil {
		return nil, err
	}
	return &reg, nil
}
