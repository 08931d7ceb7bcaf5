package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ventas/internal/domain"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ v view }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	defer r.v.lock()()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if r.taxIDTaken(c.TaxID, c.ID) {
		return domain.ErrDuplicate
	}
	r.v.data().customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	defer r.v.lock()()
	c, ok := r.v.data().customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CustomerRepo) GetByTaxID(_ context.Context, taxID string) (*entity.Customer, error) {
	defer r.v.lock()()
	for _, c := range r.v.data().customers {
		if c.TaxID == taxID {
			out := c
			return &out, nil
		}
	}
	return nil, nil
}

func (r *CustomerRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Customer, error) {
	defer r.v.lock()()
	search = strings.ToLower(strings.TrimSpace(search))
	var list []*entity.Customer
	for _, c := range r.v.data().customers {
		if search != "" && !strings.Contains(strings.ToLower(c.Name+" "+c.TaxID), search) {
			continue
		}
		out := c
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	defer r.v.lock()()
	if _, ok := r.v.data().customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.taxIDTaken(c.TaxID, c.ID) {
		return domain.ErrDuplicate
	}
	r.v.data().customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) taxIDTaken(taxID, excludeID string) bool {
	for id, c := range r.v.data().customers {
		if id != excludeID && c.TaxID == taxID {
			return true
		}
	}
	return false
}
