// Package cashregister gestiona el ciclo de vida de la caja (OPEN → CLOSED) y su cuadratura.
package cashregister

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ventas/internal/application/ports"
	"github.com/jhoicas/pos-ventas/internal/domain"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/pricing"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Mensajes de reglas de negocio de caja.
const (
	MsgAlreadyOpen   = "Ya existe una caja abierta. Debe cerrarla antes de abrir una nueva."
	MsgNoOpen        = "No hay ninguna caja abierta."
	MsgCountedNeeded = "Debe informar el efectivo contado para cerrar la caja."
)

// Manager máquina de estados de la caja. Como máximo una caja OPEN a la vez:
// lo garantizan un advisory lock y un índice único parcial, no solo la verificación en aplicación.
type Manager struct {
	txRunner  TxRunner
	registers repository.CashRegisterRepository
	log       zerolog.Logger
	metrics   ports.MetricsRecorder
	now       func() time.Time
}

// Option configura el Manager.
type Option func(*Manager)

// WithLogger asigna el logger.
func WithLogger(l zerolog.Logger) Option { return func(m *Manager) { m.log = l } }

// WithMetrics asigna el registrador de métricas.
func WithMetrics(r ports.MetricsRecorder) Option { return func(m *Manager) { m.metrics = r } }

// WithClock reemplaza time.Now (tests).
func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

// NewManager construye el gestor de cajas.
func NewManager(txRunner TxRunner, registers repository.CashRegisterRepository, opts ...Option) *Manager {
	m := &Manager{
		txRunner:  txRunner,
		registers: registers,
		log:       zerolog.Nop(),
		metrics:   ports.NopMetrics{},
		now:       time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Open abre una caja con el fondo inicial indicado.
func (m *Manager) Open(ctx context.Context, openingCash decimal.Decimal, actorID string) (*entity.CashRegister, error) {
	if openingCash.IsNegative() {
		return nil, domain.InvalidInput("El fondo inicial no puede ser negativo.")
	}
	reg := &entity.CashRegister{
		ID:          uuid.New().String(),
		State:       entity.RegisterOpen,
		OpenedAt:    m.now(),
		OpenedBy:    actorID,
		OpeningCash: pricing.RoundMoney(openingCash),
	}
	err := m.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Registers.LockOpening(ctx); err != nil {
			return fmt.Errorf("open register: lock: %w", err)
		}
		open, err := repos.Registers.GetOpen(ctx)
		if err != nil {
			return fmt.Errorf("open register: get open: %w", err)
		}
		if open != nil {
			return domain.BusinessRule(MsgAlreadyOpen)
		}
		if err := repos.Registers.Create(ctx, reg); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return domain.BusinessRule(MsgAlreadyOpen)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.metrics.RegisterEvent("open")
	m.log.Info().Str("cash_register_id", reg.ID).Str("actor", actorID).
		Str("opening_cash", reg.OpeningCash.StringFixed(2)).Msg("caja abierta")
	return reg, nil
}

// CurrentOpen devuelve la caja abierta o ErrNotFound.
func (m *Manager) CurrentOpen(ctx context.Context) (*entity.CashRegister, error) {
	reg, err := m.registers.GetOpen(ctx)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, domain.NotFound(MsgNoOpen)
	}
	return reg, nil
}

// CurrentOpenInTx resuelve la caja abierta dentro de la transacción del caller, con lock compartido
// para que no pueda cerrarse mientras se registra la venta.
func (m *Manager) CurrentOpenInTx(ctx context.Context, repos repository.TxRepos) (*entity.CashRegister, error) {
	reg, err := repos.Registers.GetOpenForShare(ctx)
	if err != nil {
		return nil, fmt.Errorf("current register: %w", err)
	}
	if reg == nil {
		return nil, domain.BusinessRule(MsgNoOpen)
	}
	return reg, nil
}

// GetByID obtiene una caja.
func (m *Manager) GetByID(ctx context.Context, id string) (*entity.CashRegister, error) {
	reg, err := m.registers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, domain.ErrNotFound
	}
	return reg, nil
}

// List lista cajas, más recientes primero.
func (m *Manager) List(ctx context.Context, limit, offset int) ([]*entity.CashRegister, error) {
	return m.registers.List(ctx, limit, offset)
}

// Summarize suma los pagos por medio de las ventas de la caja. Todos los medios aparecen (0 si no hay).
func (m *Manager) Summarize(ctx context.Context, registerID string) (map[entity.PaymentMethod]decimal.Decimal, error) {
	reg, err := m.registers.GetByID(ctx, registerID)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, domain.ErrNotFound
	}
	return summarize(ctx, m.registers, registerID)
}

func summarize(ctx context.Context, registers repository.CashRegisterRepository, registerID string) (map[entity.PaymentMethod]decimal.Decimal, error) {
	raw, err := registers.PaymentTotals(ctx, registerID)
	if err != nil {
		return nil, fmt.Errorf("summarize register: %w", err)
	}
	totals := make(map[entity.PaymentMethod]decimal.Decimal, len(entity.PaymentMethods))
	for _, pm := range entity.PaymentMethods {
		totals[pm] = pricing.RoundMoney(raw[pm])
	}
	return totals, nil
}

// Close cierra la caja abierta. counted debe incluir CASH; el resto de medios es opcional.
// variance = efectivo contado - Σ pagos CASH de la caja.
func (m *Manager) Close(ctx context.Context, counted map[entity.PaymentMethod]decimal.Decimal, actorID string) (*entity.CashRegister, error) {
	countedCash, ok := counted[entity.PaymentCash]
	if !ok {
		return nil, domain.BusinessRule(MsgCountedNeeded)
	}
	countedTotals := make(map[entity.PaymentMethod]decimal.Decimal, len(counted))
	for pm, v := range counted {
		if !pm.Valid() {
			return nil, domain.Newf(domain.ErrInvalidInput, "Medio de pago desconocido: %s.", pm)
		}
		if v.IsNegative() {
			return nil, domain.InvalidInput("Los montos contados no pueden ser negativos.")
		}
		countedTotals[pm] = pricing.RoundMoney(v)
	}
	countedCash = pricing.RoundMoney(countedCash)

	var out *entity.CashRegister
	err := m.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		reg, err := repos.Registers.GetOpenForUpdate(ctx)
		if err != nil {
			return fmt.Errorf("close register: get open: %w", err)
		}
		if reg == nil {
			return domain.NotFound(MsgNoOpen)
		}
		expected, err := summarize(ctx, repos.Registers, reg.ID)
		if err != nil {
			return err
		}
		expectedCash := expected[entity.PaymentCash]
		variance := countedCash.Sub(expectedCash)
		closedAt := m.now()
		closedBy := actorID

		reg.State = entity.RegisterClosed
		reg.ClosedAt = &closedAt
		reg.ClosedBy = &closedBy
		reg.CountedCash = &countedCash
		reg.CountedTotals = countedTotals
		reg.ExpectedTotals = expected
		reg.ExpectedCash = &expectedCash
		reg.Variance = &variance
		if err := repos.Registers.Close(ctx, reg); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return domain.BusinessRule(MsgNoOpen)
			}
			return err
		}
		out = reg
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.metrics.RegisterEvent("close")
	ev := m.log.Info()
	if !out.Variance.IsZero() {
		ev = m.log.Warn()
	}
	ev.Str("cash_register_id", out.ID).Str("actor", actorID).
		Str("expected_cash", out.ExpectedCash.StringFixed(2)).
		Str("counted_cash", out.CountedCash.StringFixed(2)).
		Str("variance", out.Variance.StringFixed(2)).
		Msg("caja cerrada")
	return out, nil
}
