package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ventas/internal/domain"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.CashRegisterRepository = (*CashRegisterRepo)(nil)

// CashRegisterRepo cajas en memoria.
type CashRegisterRepo struct{ v view }

// LockOpening no hace nada: el mutex de la transacción ya serializa.
func (r *CashRegisterRepo) LockOpening(context.Context) error { return nil }

func (r *CashRegisterRepo) Create(_ context.Context, reg *entity.CashRegister) error {
	defer r.v.lock()()
	if reg.ID == "" {
		reg.ID = uuid.New().String()
	}
	if reg.State == entity.RegisterOpen {
		for _, existing := range r.v.data().registers {
			if existing.State == entity.RegisterOpen {
				return domain.ErrDuplicate
			}
		}
	}
	r.v.data().registers[reg.ID] = copyRegister(*reg)
	return nil
}

func (r *CashRegisterRepo) GetByID(_ context.Context, id string) (*entity.CashRegister, error) {
	defer r.v.lock()()
	reg, ok := r.v.data().registers[id]
	if !ok {
		return nil, nil
	}
	out := copyRegister(reg)
	return &out, nil
}

func (r *CashRegisterRepo) GetOpen(_ context.Context) (*entity.CashRegister, error) {
	defer r.v.lock()()
	for _, reg := range r.v.data().registers {
		if reg.State == entity.RegisterOpen {
			out := copyRegister(reg)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *CashRegisterRepo) GetOpenForShare(ctx context.Context) (*entity.CashRegister, error) {
	return r.GetOpen(ctx)
}

func (r *CashRegisterRepo) GetOpenForUpdate(ctx context.Context) (*entity.CashRegister, error) {
	return r.GetOpen(ctx)
}

func (r *CashRegisterRepo) Close(_ context.Context, reg *entity.CashRegister) error {
	defer r.v.lock()()
	cur, ok := r.v.data().registers[reg.ID]
	if !ok || cur.State != entity.RegisterOpen {
		return domain.ErrConflict
	}
	r.v.data().registers[reg.ID] = copyRegister(*reg)
	return nil
}

func (r *CashRegisterRepo) List(_ context.Context, limit, offset int) ([]*entity.CashRegister, error) {
	defer r.v.lock()()
	var list []*entity.CashRegister
	for _, reg := range r.v.data().registers {
		out := copyRegister(reg)
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].OpenedAt.After(list[j].OpenedAt) })
	return paginate(list, limit, offset), nil
}

func (r *CashRegisterRepo) PaymentTotals(_ context.Context, registerID string) (map[entity.PaymentMethod]decimal.Decimal, error) {
	defer r.v.lock()()
	totals := map[entity.PaymentMethod]decimal.Decimal{}
	for _, s := range r.v.data().sales {
		if s.CashRegisterID != registerID {
			continue
		}
		for _, p := range s.Payments {
			totals[p.Method] = totals[p.Method].Add(p.Amount)
		}
	}
	return totals, nil
}

func copyTotals(in map[entity.PaymentMethod]decimal.Decimal) map[entity.PaymentMethod]decimal.Decimal {
	if in == nil {
		return nil
	}
	out := make(map[entity.PaymentMethod]decimal.Decimal, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
