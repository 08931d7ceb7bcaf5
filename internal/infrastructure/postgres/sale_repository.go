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

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, date, tier, gross_total, global_discount_value, global_discount_kind,
	global_discount_amount, line_discount_total, total_discount, net_total, document_type,
	document_number, change_amount, cash_register_id, customer_id, user_id, state, created_at`

// SaleRepo ventas sobre PostgreSQL: cabecera en sales, detalle en sale_lines y payments.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera y luego líneas y pagos en un batch.
// Un documento repetido (ux_sales_document) -> domain.ErrExistsRegister.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	gdValue, gdKind := splitDiscount(s.GlobalDiscount)
	_, err := r.q.Exec(ctx, `INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		s.ID, s.Date, s.Tier, s.GrossTotal, gdValue, gdKind,
		s.GlobalDiscountAmount, s.LineDiscountTotal, s.TotalDiscount, s.NetTotal, docTypeArg(s.DocumentType),
		s.DocumentNumber, s.Change, s.CashRegisterID, s.CustomerID, s.UserID, s.State, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) && violatedConstraint(err) != "sales_pkey" {
			return domain.ErrExistsRegister
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	batch := &pgx.Batch{}
	for i := range s.Lines {
		l := &s.Lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.SaleID = s.ID
		dValue, dKind := splitDiscount(l.Discount)
		batch.Queue(`INSERT INTO sale_lines (id, sale_id, position, product_id, product_name, quantity,
			unit_price, discount_value, discount_kind, discount_amount, gross_subtotal, net_subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			l.ID, l.SaleID, l.Position, l.ProductID, l.ProductName, l.Quantity,
			l.UnitPrice, dValue, dKind, l.DiscountAmount, l.GrossSubtotal, l.NetSubtotal,
		)
	}
	for i := range s.Payments {
		p := &s.Payments[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		p.SaleID = s.ID
		batch.Queue(`INSERT INTO payments (id, sale_id, position, method, amount) VALUES ($1, $2, $3, $4, $5)`,
			p.ID, p.SaleID, p.Position, p.Method, p.Amount)
	}
	if batch.Len() == 0 {
		return nil
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert sale detail: %w", err)
		}
	}
	return nil
}

// GetByID venta completa (cabecera, líneas y pagos) o (nil, nil).
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if s.Lines, err = r.lines(ctx, id); err != nil {
		return nil, err
	}
	payments, err := r.payments(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	s.Payments = payments[id]
	return s, nil
}

// List cabeceras con pagos, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	limit, offset := pageArgs(f.Limit, f.Offset)
	query := `SELECT ` + saleColumns + ` FROM sales WHERE 1=1`
	args := []any{}
	pos := 1
	if f.CashRegisterID != "" {
		query += fmt.Sprintf(" AND cash_register_id = $%d", pos)
		args = append(args, f.CashRegisterID)
		pos++
	}
	if f.CustomerID != "" {
		query += fmt.Sprintf(" AND customer_id = $%d", pos)
		args = append(args, f.CustomerID)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC, id LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	var (
		list []*entity.Sale
		ids  []string
	)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
		ids = append(ids, s.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if len(ids) == 0 {
		return list, nil
	}
	payments, err := r.payments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		s.Payments = payments[s.ID]
	}
	return list, nil
}

// ExistsDocument indica si otra venta (distinta de excludeSaleID) ya usa el documento.
func (r *SaleRepo) ExistsDocument(ctx context.Context, docType entity.DocumentType, number, excludeSaleID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM sales
			WHERE document_type = $1 AND document_number = $2 AND id::TEXT <> $3
		)`, string(docType), number, excludeSaleID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists document: %w", err)
	}
	return exists, nil
}

func (r *SaleRepo) UpdateDocument(ctx context.Context, id string, docType entity.DocumentType, number string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE sales SET document_type = $2, document_number = $3 WHERE id = $1`,
		id, string(docType), number)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrExistsRegister
		}
		return fmt.Errorf("update sale document: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SaleRepo) UpdateCustomer(ctx context.Context, id string, customerID *string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE sales SET customer_id = $2 WHERE id = $1`, id, customerID)
	if err != nil {
		return fmt.Errorf("update sale customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SaleRepo) DeletePayments(ctx context.Context, saleID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM payments WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("delete payments: %w", err)
	}
	return nil
}

func (r *SaleRepo) DeleteLines(ctx context.Context, saleID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sale_lines WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("delete sale lines: %w", err)
	}
	return nil
}

func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SaleRepo) lines(ctx context.Context, saleID string) ([]entity.SaleLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, position, product_id, product_name, quantity, unit_price,
			discount_value, discount_kind, discount_amount, gross_subtotal, net_subtotal
		FROM sale_lines WHERE sale_id = $1 ORDER BY position`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.SaleLine
	for rows.Next() {
		var (
			l      entity.SaleLine
			dValue *decimal.Decimal
			dKind  *string
		)
		if err := rows.Scan(&l.ID, &l.SaleID, &l.Position, &l.ProductID, &l.ProductName, &l.Quantity,
			&l.UnitPrice, &dValue, &dKind, &l.DiscountAmount, &l.GrossSubtotal, &l.NetSubtotal); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		l.Discount = joinDiscount(dValue, dKind)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// payments pagos de las ventas indicadas, agrupados por venta y ordenados por posición.
func (r *SaleRepo) payments(ctx context.Context, saleIDs []string) (map[string][]entity.Payment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, position, method, amount
		FROM payments WHERE sale_id::TEXT = ANY($1) ORDER BY sale_id, position`, saleIDs)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.Payment, len(saleIDs))
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.Position, &p.Method, &p.Amount); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out[p.SaleID] = append(out[p.SaleID], p)
	}
	return out, rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var (
		s       entity.Sale
		gdValue *decimal.Decimal
		gdKind  *string
		docType *string
	)
	err := row.Scan(&s.ID, &s.Date, &s.Tier, &s.GrossTotal, &gdValue, &gdKind,
		&s.GlobalDiscountAmount, &s.LineDiscountTotal, &s.TotalDiscount, &s.NetTotal, &docType,
		&s.DocumentNumber, &s.Change, &s.CashRegisterID, &s.CustomerID, &s.UserID, &s.State, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.GlobalDiscount = joinDiscount(gdValue, gdKind)
	if docType != nil {
		dt := entity.DocumentType(*docType)
		s.DocumentType = &dt
	}
	return &s, nil
}

func splitDiscount(d *entity.Discount) (*decimal.Decimal, *string) {
	if d == nil {
		return nil, nil
	}
	value, kind := d.Value, string(d.Kind)
	return &value, &kind
}

func joinDiscount(value *decimal.Decimal, kind *string) *entity.Discount {
	if value == nil || kind == nil {
		return nil
	}
	return &entity.Discount{Value: *value, Kind: entity.DiscountKind(*kind)}
}

func docTypeArg(dt *entity.DocumentType) *string {
	if dt == nil {
		return nil
	}
	s := string(*dt)
	return &s
}
