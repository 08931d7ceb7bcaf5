package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ventas/internal/application/ports"
	"github.com/jhoicas/pos-ventas/internal/domain"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
	"github.com/rs/zerolog"
)

// Ledger es el libro de inventario: todo cambio de stock queda como un movimiento inmutable.
// El stock cacheado del producto solo se escribe aquí, con la fila bloqueada (SELECT FOR UPDATE)
// y en la misma transacción que el movimiento.
type Ledger struct {
	txRunner  TxRunner
	products  repository.ProductRepository
	movements repository.InventoryMovementRepository
	log       zerolog.Logger
	metrics   ports.MetricsRecorder
	now       func() time.Time
}

// Option configura el Ledger.
type Option func(*Ledger)

// WithLogger asigna el logger.
func WithLogger(l zerolog.Logger) Option { return func(g *Ledger) { g.log = l } }

// WithMetrics asigna el registrador de métricas.
func WithMetrics(m ports.MetricsRecorder) Option { return func(g *Ledger) { g.metrics = m } }

// WithClock reemplaza time.Now (tests).
func WithClock(now func() time.Time) Option { return func(g *Ledger) { g.now = now } }

// NewLedger construye el libro de inventario.
func NewLedger(
	txRunner TxRunner,
	products repository.ProductRepository,
	movements repository.InventoryMovementRepository,
	opts ...Option,
) *Ledger {
	l := &Ledger{
		txRunner:  txRunner,
		products:  products,
		movements: movements,
		log:       zerolog.Nop(),
		metrics:   ports.NopMetrics{},
		now:       time.Now,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// StockRequest cantidad solicitada de un producto.
type StockRequest struct {
	ProductID string
	Quantity  int
}

// ManualMovementInput entrada de un movimiento manual.
type ManualMovementInput struct {
	ProductID string
	Quantity  int
	Direction entity.MovementDirection
	Reason    entity.MovementReason
	ActorID   string
	Note      string
}

// StockAudit comparación entre stock cacheado y suma del libro.
type StockAudit struct {
	ProductID   string
	CachedStock int
	LedgerStock int
	Movements   int
}

// Consistent indica si el stock cacheado coincide con el libro.
func (a StockAudit) Consistent() bool { return a.CachedStock == a.LedgerStock }

// ── Validación de disponibilidad ─────────────────────────────────────────────

// ValidateAvailability verifica stock sin mutar nada (fuera de transacción).
func (l *Ledger) ValidateAvailability(ctx context.Context, lines []StockRequest) error {
	totals, ids, err := aggregate(lines)
	if err != nil {
		return err
	}
	for _, id := range ids {
		p, err := l.products.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("availability: get product: %w", err)
		}
		if err := checkAvailable(p, id, totals[id]); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAvailabilityInTx igual que ValidateAvailability pero bloqueando las filas
// (en orden de id para evitar deadlocks). Devuelve los productos bloqueados.
func (l *Ledger) ValidateAvailabilityInTx(ctx context.Context, repos repository.TxRepos, lines []StockRequest) (map[string]*entity.Product, error) {
	totals, ids, err := aggregate(lines)
	if err != nil {
		return nil, err
	}
	locked := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		p, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("availability: lock product: %w", err)
		}
		if err := checkAvailable(p, id, totals[id]); err != nil {
			return nil, err
		}
		locked[id] = p
	}
	return locked, nil
}

// aggregate suma cantidades por producto (un producto puede repetirse en varias líneas).
func aggregate(lines []StockRequest) (map[string]int, []string, error) {
	totals := make(map[string]int, len(lines))
	for _, ln := range lines {
		if ln.ProductID == "" || ln.Quantity <= 0 {
			return nil, nil, domain.InvalidInput("Cada línea requiere producto y cantidad mayor que cero.")
		}
		totals[ln.ProductID] += ln.Quantity
	}
	ids := make([]string, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return totals, ids, nil
}

func checkAvailable(p *entity.Product, id string, requested int) error {
	if p == nil {
		return domain.NotFound(fmt.Sprintf("Producto %s no encontrado.", id))
	}
	if requested > p.Stock {
		return domain.InsufficientStock(p.Name, requested, p.Stock)
	}
	return nil
}

// ── Escrituras dentro de la transacción del caller ───────────────────────────

// RecordInitialStockInTx registra el stock inicial de un producto recién creado (IN/PRODUCTION).
// qty == 0 no hace nada.
func (l *Ledger) RecordInitialStockInTx(ctx context.Context, repos repository.TxRepos, product *entity.Product, qty int, actorID string) error {
	if qty < 0 {
		return domain.InvalidInput("El stock inicial no puede ser negativo.")
	}
	if qty == 0 {
		return nil
	}
	p, err := l.lock(ctx, repos, product.ID)
	if err != nil {
		return err
	}
	mov, err := l.apply(ctx, repos, p, entity.DirectionIN, entity.ReasonProduction, qty, actorID, nil, "Stock inicial", l.now())
	if err != nil {
		return err
	}
	product.Stock = mov.StockAfter
	return nil
}

// RecordExitInTx descuenta stock por venta (OUT/SALE). referenceID suele ser el ID de la venta.
func (l *Ledger) RecordExitInTx(ctx context.Context, repos repository.TxRepos, productID string, qty int, actorID, referenceID string) (*entity.InventoryMovement, error) {
	if qty <= 0 {
		return nil, domain.InvalidInput("La cantidad debe ser mayor que cero.")
	}
	p, err := l.lock(ctx, repos, productID)
	if err != nil {
		return nil, err
	}
	if qty > p.Stock {
		return nil, domain.InsufficientStock(p.Name, qty, p.Stock)
	}
	ref := referenceID
	return l.apply(ctx, repos, p, entity.DirectionOUT, entity.ReasonSale, qty, actorID, &ref, "", l.now())
}

// PersistMovementsInTx aplica un lote de movimientos ya construidos (p. ej. compensaciones
// por anulación de venta): bloquea cada producto una vez, recalcula StockBefore/StockAfter
// en orden, actualiza el stock cacheado y los inserta en un solo batch.
func (l *Ledger) PersistMovementsInTx(ctx context.Context, repos repository.TxRepos, movs []*entity.InventoryMovement) error {
	if len(movs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(movs))
	seen := map[string]bool{}
	for _, m := range movs {
		if m.Quantity <= 0 || !m.Direction.Valid() || !m.Reason.Valid() || m.ProductID == "" {
			return domain.InvalidInput("Movimiento de inventario inválido.")
		}
		if !seen[m.ProductID] {
			seen[m.ProductID] = true
			ids = append(ids, m.ProductID)
		}
	}
	sort.Strings(ids)

	current := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		p, err := l.lock(ctx, repos, id)
		if err != nil {
			return err
		}
		current[id] = p
	}

	now := l.now()
	for _, m := range movs {
		p := current[m.ProductID]
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		if m.Date.IsZero() {
			m.Date = now
		}
		m.StockBefore = p.Stock
		m.StockAfter = p.Stock + m.Signed()
		if m.StockAfter < 0 {
			return domain.InsufficientStock(p.Name, m.Quantity, p.Stock)
		}
		p.Stock = m.StockAfter
	}
	for _, id := range ids {
		if err := repos.Products.SetStock(ctx, id, current[id].Stock, now); err != nil {
			return fmt.Errorf("persist movements: set stock: %w", err)
		}
	}
	if err := repos.Movements.CreateBatch(ctx, movs); err != nil {
		return fmt.Errorf("persist movements: insert: %w", err)
	}
	for _, m := range movs {
		l.metrics.MovementRecorded(string(m.Direction), string(m.Reason))
	}
	return nil
}

// ── Operaciones con transacción propia ──────────────────────────────────────

// PersistMovements versión con transacción propia de PersistMovementsInTx.
func (l *Ledger) PersistMovements(ctx context.Context, movs []*entity.InventoryMovement) error {
	return l.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		return l.PersistMovementsInTx(ctx, repos, movs)
	})
}

// ReconcileAbsolute fija el stock a newQty (conteo físico) con un movimiento CORRECTION por la diferencia.
// Si no hay diferencia no se crea movimiento.
func (l *Ledger) ReconcileAbsolute(ctx context.Context, productID string, newQty int, actorID string) (*entity.Product, error) {
	if newQty < 0 {
		return nil, domain.InvalidInput("El stock no puede ser negativo.")
	}
	var out *entity.Product
	err := l.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		p, err := l.lock(ctx, repos, productID)
		if err != nil {
			return err
		}
		delta := newQty - p.Stock
		if delta != 0 {
			dir := entity.DirectionIN
			if delta < 0 {
				dir = entity.DirectionOUT
				delta = -delta
			}
			mov, err := l.apply(ctx, repos, p, dir, entity.ReasonCorrection, delta, actorID, nil, "Ajuste por conteo", l.now())
			if err != nil {
				return err
			}
			p.Stock = mov.StockAfter
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().Str("product_id", productID).Int("stock", newQty).Str("actor", actorID).Msg("stock reconciliado")
	return out, nil
}

// RecordManual registra una entrada o salida manual. OUT requiere stock suficiente.
func (l *Ledger) RecordManual(ctx context.Context, in ManualMovementInput) (*entity.Product, error) {
	if in.ProductID == "" || in.Quantity <= 0 || !in.Direction.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if !in.Reason.Valid() {
		return nil, domain.Newf(domain.ErrInvalidInput, "Motivo de movimiento desconocido: %s.", in.Reason)
	}
	var out *entity.Product
	err := l.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		p, err := l.lock(ctx, repos, in.ProductID)
		if err != nil {
			return err
		}
		if in.Direction == entity.DirectionOUT && in.Quantity > p.Stock {
			return domain.InsufficientStock(p.Name, in.Quantity, p.Stock)
		}
		mov, err := l.apply(ctx, repos, p, in.Direction, in.Reason, in.Quantity, in.ActorID, nil, in.Note, l.now())
		if err != nil {
			return err
		}
		p.Stock = mov.StockAfter
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ── Lecturas ────────────────────────────────────────────────────────────────

// ListMovements kardex de un producto (más recientes primero).
func (l *Ledger) ListMovements(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	p, err := l.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return l.movements.ListByProduct(ctx, productID, from, to, limit, offset)
}

// AuditStock compara el stock cacheado con la suma firmada del libro.
func (l *Ledger) AuditStock(ctx context.Context, productID string) (*StockAudit, error) {
	p, err := l.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	net, count, err := l.movements.SumByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("audit: sum movements: %w", err)
	}
	audit := &StockAudit{ProductID: productID, CachedStock: p.Stock, LedgerStock: net, Movements: count}
	if !audit.Consistent() {
		l.log.Warn().Str("product_id", productID).Int("cached", p.Stock).Int("ledger", net).Msg("stock cacheado no coincide con el libro")
	}
	return audit, nil
}

// ── Internos ────────────────────────────────────────────────────────────────

func (l *Ledger) lock(ctx context.Context, repos repository.TxRepos, productID string) (*entity.Product, error) {
	p, err := repos.Products.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("lock product: %w", err)
	}
	if p == nil {
		return nil, domain.NotFound(fmt.Sprintf("Producto %s no encontrado.", productID))
	}
	return p, nil
}

// apply escribe stock cacheado + movimiento. El caller ya tiene la fila bloqueada y validó el stock.
func (l *Ledger) apply(
	ctx context.Context,
	repos repository.TxRepos,
	p *entity.Product,
	dir entity.MovementDirection,
	reason entity.MovementReason,
	qty int,
	actorID string,
	referenceID *string,
	note string,
	at time.Time,
) (*entity.InventoryMovement, error) {
	mov := &entity.InventoryMovement{
		ID:          uuid.New().String(),
		ProductID:   p.ID,
		UserID:      actorID,
		Direction:   dir,
		Reason:      reason,
		Quantity:    qty,
		StockBefore: p.Stock,
		ReferenceID: referenceID,
		Note:        note,
		Date:        at,
	}
	mov.StockAfter = p.Stock + mov.Signed()
	if mov.StockAfter < 0 {
		return nil, domain.InsufficientStock(p.Name, qty, p.Stock)
	}
	if err := repos.Products.SetStock(ctx, p.ID, mov.StockAfter, at); err != nil {
		return nil, fmt.Errorf("set stock: %w", err)
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, fmt.Errorf("create movement: %w", err)
	}
	l.metrics.MovementRecorded(string(dir), string(reason))
	return mov, nil
}
