package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

const movementColumns = `id, product_id, user_id, direction, reason, quantity, stock_before, stock_after, reference_id, note, date`

const insertMovement = `INSERT INTO inventory_movements (` + movementColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// InventoryMovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx). Solo inserta y lee.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if _, err := r.q.Exec(ctx, insertMovement, movementArgs(m)...); err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// CreateBatch inserta varios movimientos en un solo viaje (pgx.Batch).
func (r *InventoryMovementRepo) CreateBatch(ctx context.Context, movements []*entity.InventoryMovement) error {
	if len(movements) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, m := range movements {
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		batch.Queue(insertMovement, movementArgs(m)...)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range movements {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("create inventory movements: %w", err)
		}
	}
	return nil
}

// ListByProduct lista movimientos de un producto en un rango de fechas (inclusive), más recientes primero.
func (r *InventoryMovementRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	limit, offset = pageArgs(limit, offset)
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC, id LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.list(ctx, query, args...)
}

// ListByReference movimientos asociados a una venta, en orden cronológico.
func (r *InventoryMovementRepo) ListByReference(ctx context.Context, referenceID string) ([]*entity.InventoryMovement, error) {
	return r.list(ctx, `SELECT `+movementColumns+` FROM inventory_movements
		WHERE reference_id = $1 ORDER BY date, id`, referenceID)
}

// SumByProduct neto firmado (IN suma, OUT resta) y cantidad de movimientos.
func (r *InventoryMovementRepo) SumByProduct(ctx context.Context, productID string) (int, int, error) {
	var net, count int
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN direction = 'IN' THEN quantity ELSE -quantity END), 0), COUNT(*)
		FROM inventory_movements WHERE product_id = $1`, productID).Scan(&net, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("sum movements: %w", err)
	}
	return net, count, nil
}

func (r *InventoryMovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.UserID, &m.Direction, &m.Reason, &m.Quantity,
			&m.StockBefore, &m.StockAfter, &m.ReferenceID, &m.Note, &m.Date); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func movementArgs(m *entity.InventoryMovement) []any {
	return []any{
		m.ID, m.ProductID, m.UserID, m.Direction, m.Reason, m.Quantity,
		m.StockBefore, m.StockAfter, m.ReferenceID, m.Note, m.Date,
	}
}
