package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos en memoria (append-only).
type MovementRepo struct{ v view }

func (r *MovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	return r.CreateBatch(ctx, []*entity.InventoryMovement{m})
}

func (r *MovementRepo) CreateBatch(_ context.Context, ms []*entity.InventoryMovement) error {
	defer r.v.lock()()
	for _, m := range ms {
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		r.v.data().movements = append(r.v.data().movements, *m)
	}
	return nil
}

func (r *MovementRepo) ListByProduct(_ context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	defer r.v.lock()()
	var list []*entity.InventoryMovement
	for i := len(r.v.data().movements) - 1; i >= 0; i-- {
		m := r.v.data().movements[i]
		if m.ProductID != productID || !inRange(m.Date, from, to) {
			continue
		}
		list = append(list, &m)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return paginate(list, limit, offset), nil
}

func (r *MovementRepo) ListByReference(_ context.Context, referenceID string) ([]*entity.InventoryMovement, error) {
	defer r.v.lock()()
	var list []*entity.InventoryMovement
	for _, m := range r.v.data().movements {
		if m.ReferenceID != nil && *m.ReferenceID == referenceID {
			mv := m
			list = append(list, &mv)
		}
	}
	return list, nil
}

func (r *MovementRepo) SumByProduct(_ context.Context, productID string) (int, int, error) {
	defer r.v.lock()()
	net, count := 0, 0
	for _, m := range r.v.data().movements {
		if m.ProductID == productID {
			net += m.Signed()
			count++
		}
	}
	return net, count, nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
