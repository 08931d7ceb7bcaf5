// Package sales orquesta el ciclo de vida de una venta: precios, disponibilidad, pagos,
// caja abierta, persistencia y movimientos de inventario, todo en una sola transacción.
package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ventas/internal/application/dto"
	"github.com/jhoicas/pos-ventas/internal/application/inventory"
	"github.com/jhoicas/pos-ventas/internal/application/ports"
	"github.com/jhoicas/pos-ventas/internal/domain"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/payment"
	"github.com/jhoicas/pos-ventas/internal/domain/pricing"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Mensajes de reglas de negocio de la venta.
const (
	MsgLineDiscountExceeds   = "El descuento de la línea no puede superar su subtotal."
	MsgGlobalDiscountExceeds = "El descuento global no puede superar el total después de descuentos por línea."
	MsgDeleteClosedRegister  = "Solo se pueden eliminar ventas de la caja abierta."
	MsgDocumentTaken         = "Ya existe una venta con ese tipo y número de documento."
)

// compensationGap separación mínima entre la última salida y su compensación.
const compensationGap = time.Microsecond

// Orchestrator caso de uso de ventas.
type Orchestrator struct {
	txRunner  TxRunner
	sales     repository.SaleRepository
	ledger    StockLedger
	registers RegisterResolver
	log       zerolog.Logger
	metrics   ports.MetricsRecorder
	now       func() time.Time
}

// Option configura el Orchestrator.
type Option func(*Orchestrator)

// WithLogger asigna el logger.
func WithLogger(l zerolog.Logger) Option { return func(o *Orchestrator) { o.log = l } }

// WithMetrics asigna el registrador de métricas.
func WithMetrics(m ports.MetricsRecorder) Option { return func(o *Orchestrator) { o.metrics = m } }

// WithClock reemplaza time.Now (tests).
func WithClock(now func() time.Time) Option { return func(o *Orchestrator) { o.now = now } }

// NewOrchestrator construye el orquestador de ventas.
func NewOrchestrator(
	txRunner TxRunner,
	sales repository.SaleRepository,
	ledger StockLedger,
	registers RegisterResolver,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		txRunner:  txRunner,
		sales:     sales,
		ledger:    ledger,
		registers: registers,
		log:       zerolog.Nop(),
		metrics:   ports.NopMetrics{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ── Creación ─────────────────────────────────────────────────────────────────

// CreateSale ejecuta el pipeline completo. Cualquier fallo aborta la transacción entera:
// no quedan ventas, pagos ni movimientos parciales.
func (o *Orchestrator) CreateSale(ctx context.Context, actorID string, in dto.CreateSaleRequest) (*entity.Sale, error) {
	tier, err := parseTier(in.Tier)
	if err != nil {
		return nil, err
	}
	if len(in.Lines) == 0 {
		return nil, domain.InvalidInput("La venta debe tener al menos una línea.")
	}
	globalDiscount, err := parseDiscount(in.GlobalDiscountValue, in.GlobalDiscountKind)
	if err != nil {
		return nil, err
	}
	docType, docNumber, err := parseDocument(in.DocumentType, in.DocumentNumber)
	if err != nil {
		return nil, err
	}
	requested := make([]entity.Payment, 0, len(in.Payments))
	for _, p := range in.Payments {
		requested = append(requested, entity.Payment{Method: entity.PaymentMethod(strings.ToUpper(p.Method)), Amount: p.Amount})
	}

	now := o.now()
	sale := &entity.Sale{
		ID:             uuid.New().String(),
		Date:           now,
		Tier:           tier,
		GlobalDiscount: globalDiscount,
		DocumentType:   docType,
		DocumentNumber: docNumber,
		UserID:         actorID,
		State:          entity.SaleDraft,
		CreatedAt:      now,
	}

	err = o.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		// 1. Caja abierta
		reg, err := o.registers.CurrentOpenInTx(ctx, repos)
		if err != nil {
			return err
		}
		sale.CashRegisterID = reg.ID

		// 2. Actor y cliente
		user, err := repos.Users.GetByID(ctx, actorID)
		if err != nil {
			return fmt.Errorf("create sale: get user: %w", err)
		}
		if user == nil {
			return domain.NotFound("Usuario no encontrado.")
		}
		if in.CustomerID != nil && *in.CustomerID != "" {
			c, err := repos.Customers.GetByID(ctx, *in.CustomerID)
			if err != nil {
				return fmt.Errorf("create sale: get customer: %w", err)
			}
			if c == nil {
				return domain.NotFound("Cliente no encontrado.")
			}
			id := c.ID
			sale.CustomerID = &id
		}

		// 3. Disponibilidad (bloquea los productos en orden de id)
		stockReq := make([]inventory.StockRequest, 0, len(in.Lines))
		for _, ln := range in.Lines {
			if ln.Quantity <= 0 {
				return domain.InvalidInput("La cantidad de cada línea debe ser mayor que cero.")
			}
			stockReq = append(stockReq, inventory.StockRequest{ProductID: ln.ProductID, Quantity: ln.Quantity})
		}
		products, err := o.ledger.ValidateAvailabilityInTx(ctx, repos, stockReq)
		if err != nil {
			return err
		}

		// 4. Precios por línea y totales
		if err := priceSale(sale, in.Lines, products); err != nil {
			return err
		}

		// 5. Pagos
		accepted, change, err := payment.Process(requested, sale.NetTotal)
		if err != nil {
			return err
		}
		sale.Payments = accepted
		sale.Change = change

		// 6. Documento
		if sale.DocumentType != nil {
			taken, err := repos.Sales.ExistsDocument(ctx, *sale.DocumentType, *sale.DocumentNumber, "")
			if err != nil {
				return fmt.Errorf("create sale: check document: %w", err)
			}
			if taken {
				return domain.Newf(domain.ErrExistsRegister, MsgDocumentTaken)
			}
		}

		// 7. Persistencia + salidas de inventario
		sale.State = entity.SalePersisted
		if err := repos.Sales.Create(ctx, sale); err != nil {
			if errors.Is(err, domain.ErrExistsRegister) {
				return domain.Newf(domain.ErrExistsRegister, MsgDocumentTaken)
			}
			return fmt.Errorf("create sale: insert: %w", err)
		}
		for _, ln := range sale.Lines {
			if _, err := o.ledger.RecordExitInTx(ctx, repos, ln.ProductID, ln.Quantity, actorID, sale.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.metrics.SaleCreated(sale.NetTotal)
	o.log.Info().
		Str("sale_id", sale.ID).
		Str("cash_register_id", sale.CashRegisterID).
		Str("actor", actorID).
		Int("lines", len(sale.Lines)).
		Str("net_total", sale.NetTotal.StringFixed(2)).
		Str("change", sale.Change.StringFixed(2)).
		Msg("venta registrada")
	return sale, nil
}

// priceSale calcula líneas y totales. netTotal = gross - (Σ descuentos de línea + descuento global).
func priceSale(sale *entity.Sale, lines []dto.SaleLineRequest, products map[string]*entity.Product) error {
	gross := decimal.Zero
	lineDiscounts := decimal.Zero
	sale.Lines = make([]entity.SaleLine, 0, len(lines))
	for i, ln := range lines {
		p := products[ln.ProductID]
		if !p.Active {
			return domain.Newf(domain.ErrBusinessRule, "El producto %s está inactivo.", p.Name)
		}
		d, err := parseDiscount(ln.DiscountValue, ln.DiscountKind)
		if err != nil {
			return err
		}
		unit := pricing.UnitPrice(p, sale.Tier)
		g, disc, net, err := pricing.LineAmounts(unit, ln.Quantity, d, MsgLineDiscountExceeds)
		if err != nil {
			return err
		}
		sale.Lines = append(sale.Lines, entity.SaleLine{
			ID:             uuid.New().String(),
			SaleID:         sale.ID,
			Position:       i + 1,
			ProductID:      p.ID,
			ProductName:    p.Name,
			Quantity:       ln.Quantity,
			UnitPrice:      unit,
			Discount:       d,
			DiscountAmount: disc,
			GrossSubtotal:  g,
			NetSubtotal:    net,
		})
		gross = gross.Add(g)
		lineDiscounts = lineDiscounts.Add(disc)
	}

	globalAmount, err := pricing.DiscountAmount(gross, sale.GlobalDiscount)
	if err != nil {
		return err
	}
	if err := pricing.ValidateDiscountNotExceedingBase(globalAmount, gross.Sub(lineDiscounts), MsgGlobalDiscountExceeds); err != nil {
		return err
	}
	sale.GrossTotal = gross
	sale.LineDiscountTotal = lineDiscounts
	sale.GlobalDiscountAmount = globalAmount
	sale.TotalDiscount = lineDiscounts.Add(globalAmount)
	sale.NetTotal = gross.Sub(sale.TotalDiscount)
	return nil
}

// ── Eliminación ──────────────────────────────────────────────────────────────

// DeleteSale anula una venta de la caja abierta. Primero emite un IN/SALE_ADJUSTMENT por línea
// (fechado después de la última salida de la venta) y recién después borra pagos, líneas y cabecera.
func (o *Orchestrator) DeleteSale(ctx context.Context, actorID, saleID string) error {
	var lines int
	err := o.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		sale, err := repos.Sales.GetByID(ctx, saleID)
		if err != nil {
			return fmt.Errorf("delete sale: get: %w", err)
		}
		if sale == nil {
			return domain.NotFound("Venta no encontrada.")
		}
		reg, err := o.registers.CurrentOpenInTx(ctx, repos)
		if err != nil {
			if errors.Is(err, domain.ErrBusinessRule) {
				return domain.BusinessRule(MsgDeleteClosedRegister)
			}
			return err
		}
		if reg.ID != sale.CashRegisterID {
			return domain.BusinessRule(MsgDeleteClosedRegister)
		}

		at, err := o.compensationDate(ctx, repos, sale.ID)
		if err != nil {
			return err
		}
		ref := sale.ID
		movs := make([]*entity.InventoryMovement, 0, len(sale.Lines))
		for _, ln := range sale.Lines {
			movs = append(movs, &entity.InventoryMovement{
				ProductID:   ln.ProductID,
				UserID:      actorID,
				Direction:   entity.DirectionIN,
				Reason:      entity.ReasonSaleAdjustment,
				Quantity:    ln.Quantity,
				ReferenceID: &ref,
				Note:        "Anulación de venta",
				Date:        at,
			})
		}
		if err := o.ledger.PersistMovementsInTx(ctx, repos, movs); err != nil {
			return err
		}

		if err := repos.Sales.DeletePayments(ctx, sale.ID); err != nil {
			return fmt.Errorf("delete sale: payments: %w", err)
		}
		if err := repos.Sales.DeleteLines(ctx, sale.ID); err != nil {
			return fmt.Errorf("delete sale: lines: %w", err)
		}
		if err := repos.Sales.Delete(ctx, sale.ID); err != nil {
			return fmt.Errorf("delete sale: header: %w", err)
		}
		lines = len(sale.Lines)
		return nil
	})
	if err != nil {
		return err
	}
	o.metrics.SaleDeleted()
	o.log.Info().Str("sale_id", saleID).Str("actor", actorID).Int("compensations", lines).Msg("venta eliminada")
	return nil
}

// compensationDate devuelve un instante estrictamente posterior a la última salida de la venta.
func (o *Orchestrator) compensationDate(ctx context.Context, repos repository.TxRepos, saleID string) (time.Time, error) {
	at := o.now()
	exits, err := repos.Movements.ListByReference(ctx, saleID)
	if err != nil {
		return time.Time{}, fmt.Errorf("delete sale: list exits: %w", err)
	}
	for _, m := range exits {
		if m.Direction != entity.DirectionOUT {
			continue
		}
		if floor := m.Date.Add(compensationGap); at.Before(floor) {
			at = floor
		}
	}
	return at, nil
}

// ── Actualizaciones puntuales ────────────────────────────────────────────────

// UpdateDocument asigna tipo y número de documento, validando unicidad del par.
func (o *Orchestrator) UpdateDocument(ctx context.Context, saleID string, in dto.UpdateDocumentRequest) (*entity.Sale, error) {
	docType, docNumber, err := parseDocument(&in.DocumentType, &in.DocumentNumber)
	if err != nil {
		return nil, err
	}
	if docType == nil {
		return nil, domain.InvalidInput("Debe indicar tipo y número de documento.")
	}
	var out *entity.Sale
	err = o.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		sale, err := repos.Sales.GetByID(ctx, saleID)
		if err != nil {
			return fmt.Errorf("update document: get: %w", err)
		}
		if sale == nil {
			return domain.NotFound("Venta no encontrada.")
		}
		taken, err := repos.Sales.ExistsDocument(ctx, *docType, *docNumber, sale.ID)
		if err != nil {
			return fmt.Errorf("update document: check: %w", err)
		}
		if taken {
			return domain.Newf(domain.ErrExistsRegister, MsgDocumentTaken)
		}
		if err := repos.Sales.UpdateDocument(ctx, sale.ID, *docType, *docNumber); err != nil {
			if errors.Is(err, domain.ErrExistsRegister) {
				return domain.Newf(domain.ErrExistsRegister, MsgDocumentTaken)
			}
			return fmt.Errorf("update document: %w", err)
		}
		sale.DocumentType = docType
		sale.DocumentNumber = docNumber
		out = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateCustomer reasigna el cliente de la venta; nil lo quita.
func (o *Orchestrator) UpdateCustomer(ctx context.Context, saleID string, customerID *string) (*entity.Sale, error) {
	if customerID != nil && strings.TrimSpace(*customerID) == "" {
		customerID = nil
	}
	var out *entity.Sale
	err := o.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		sale, err := repos.Sales.GetByID(ctx, saleID)
		if err != nil {
			return fmt.Errorf("update customer: get sale: %w", err)
		}
		if sale == nil {
			return domain.NotFound("Venta no encontrada.")
		}
		if customerID != nil {
			c, err := repos.Customers.GetByID(ctx, *customerID)
			if err != nil {
				return fmt.Errorf("update customer: get customer: %w", err)
			}
			if c == nil {
				return domain.NotFound("Cliente no encontrado.")
			}
		}
		if err := repos.Sales.UpdateCustomer(ctx, sale.ID, customerID); err != nil {
			return fmt.Errorf("update customer: %w", err)
		}
		sale.CustomerID = customerID
		out = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ── Lecturas ────────────────────────────────────────────────────────────────

// GetSale devuelve la venta con líneas y pagos.
func (o *Orchestrator) GetSale(ctx context.Context, saleID string) (*entity.Sale, error) {
	sale, err := o.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

// ListSales lista cabeceras con sus pagos.
func (o *Orchestrator) ListSales(ctx context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return o.sales.List(ctx, filter)
}

// ── Parsing de entrada ───────────────────────────────────────────────────────

func parseTier(raw string) (entity.CustomerTier, error) {
	switch entity.CustomerTier(strings.ToUpper(strings.TrimSpace(raw))) {
	case "", entity.TierRetail:
		return entity.TierRetail, nil
	case entity.TierWholesale:
		return entity.TierWholesale, nil
	}
	return "", domain.Newf(domain.ErrInvalidInput, "Tipo de cliente desconocido: %s.", raw)
}

// parseDiscount sin valor o sin tipo = sin descuento.
func parseDiscount(value *decimal.Decimal, kind *string) (*entity.Discount, error) {
	if value == nil || kind == nil || strings.TrimSpace(*kind) == "" {
		return nil, nil
	}
	k := entity.DiscountKind(strings.ToUpper(strings.TrimSpace(*kind)))
	if k != entity.DiscountPercent && k != entity.DiscountFixed {
		return nil, domain.Newf(domain.ErrInvalidDiscount, "Tipo de descuento desconocido: %s.", *kind)
	}
	return &entity.Discount{Value: *value, Kind: k}, nil
}

// parseDocument tipo y número van juntos: ambos o ninguno.
func parseDocument(rawType, rawNumber *string) (*entity.DocumentType, *string, error) {
	var t, n string
	if rawType != nil {
		t = strings.ToUpper(strings.TrimSpace(*rawType))
	}
	if rawNumber != nil {
		n = strings.TrimSpace(*rawNumber)
	}
	if t == "" && n == "" {
		return nil, nil, nil
	}
	if t == "" || n == "" {
		return nil, nil, domain.InvalidInput("El tipo y el número de documento deben indicarse juntos.")
	}
	dt := entity.DocumentType(t)
	if !dt.Valid() {
		return nil, nil, domain.Newf(domain.ErrInvalidInput, "Tipo de documento desconocido: %s.", t)
	}
	return &dt, &n, nil
}
