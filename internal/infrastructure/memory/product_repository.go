package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ventas/internal/domain"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct{ v view }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.v.lock()()
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	for _, existing := range r.v.data().products {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	r.v.data().products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.v.lock()()
	p, ok := r.v.data().products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	defer r.v.lock()()
	for _, p := range r.v.data().products {
		if p.SKU == sku {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

// GetForUpdate equivale a GetByID: la transacción en memoria ya es exclusiva.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.v.lock()()
	cur, ok := r.v.data().products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stock := cur.Stock
	cur = *p
	cur.Stock = stock
	r.v.data().products[p.ID] = cur
	return nil
}

func (r *ProductRepo) SetStock(_ context.Context, id string, stock int, at time.Time) error {
	defer r.v.lock()()
	cur, ok := r.v.data().products[id]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Stock = stock
	cur.UpdatedAt = at
	r.v.data().products[id] = cur
	return nil
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	defer r.v.lock()()
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var list []*entity.Product
	for _, p := range r.v.data().products {
		if f.OnlyActive && !p.Active {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.SKU+" "+p.Barcode+" "+p.Name), search) {
			continue
		}
		out := p
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].SKU < list[j].SKU
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return paginate(list, f.Limit, f.Offset), nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
