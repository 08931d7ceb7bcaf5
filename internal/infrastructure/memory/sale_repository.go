package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ventas/internal/domain"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria.
type SaleRepo struct{ v view }

func (r *SaleRepo) Create(_ context.Context, s *entity.Sale) error {
	defer r.v.lock()()
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.DocumentType != nil && s.DocumentNumber != nil &&
		r.documentTaken(*s.DocumentType, *s.DocumentNumber, s.ID) {
		return domain.ErrExistsRegister
	}
	for i := range s.Lines {
		if s.Lines[i].ID == "" {
			s.Lines[i].ID = uuid.New().String()
		}
		s.Lines[i].SaleID = s.ID
	}
	for i := range s.Payments {
		if s.Payments[i].ID == "" {
			s.Payments[i].ID = uuid.New().String()
		}
		s.Payments[i].SaleID = s.ID
	}
	r.v.data().sales[s.ID] = copySale(*s)
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	defer r.v.lock()()
	s, ok := r.v.data().sales[id]
	if !ok {
		return nil, nil
	}
	out := copySale(s)
	return &out, nil
}

func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	defer r.v.lock()()
	var list []*entity.Sale
	for _, s := range r.v.data().sales {
		if f.CashRegisterID != "" && s.CashRegisterID != f.CashRegisterID {
			continue
		}
		if f.CustomerID != "" && (s.CustomerID == nil || *s.CustomerID != f.CustomerID) {
			continue
		}
		if !inRange(s.Date, f.From, f.To) {
			continue
		}
		out := copySale(s)
		out.Lines = nil
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Date.Equal(list[j].Date) {
			return list[i].ID < list[j].ID
		}
		return list[i].Date.After(list[j].Date)
	})
	return paginate(list, f.Limit, f.Offset), nil
}

func (r *SaleRepo) ExistsDocument(_ context.Context, docType entity.DocumentType, number, excludeSaleID string) (bool, error) {
	defer r.v.lock()()
	return r.documentTaken(docType, number, excludeSaleID), nil
}

func (r *SaleRepo) documentTaken(docType entity.DocumentType, number, excludeSaleID string) bool {
	for id, s := range r.v.data().sales {
		if id == excludeSaleID || s.DocumentType == nil || s.DocumentNumber == nil {
			continue
		}
		if *s.DocumentType == docType && *s.DocumentNumber == number {
			return true
		}
	}
	return false
}

func (r *SaleRepo) UpdateDocument(_ context.Context, id string, docType entity.DocumentType, number string) error {
	defer r.v.lock()()
	s, ok := r.v.data().sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	if r.documentTaken(docType, number, id) {
		return domain.ErrExistsRegister
	}
	s.DocumentType = &docType
	s.DocumentNumber = &number
	r.v.data().sales[id] = s
	return nil
}

func (r *SaleRepo) UpdateCustomer(_ context.Context, id string, customerID *string) error {
	defer r.v.lock()()
	s, ok := r.v.data().sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.CustomerID = customerID
	r.v.data().sales[id] = s
	return nil
}

func (r *SaleRepo) DeletePayments(_ context.Context, saleID string) error {
	defer r.v.lock()()
	if s, ok := r.v.data().sales[saleID]; ok {
		s.Payments = nil
		r.v.data().sales[saleID] = s
	}
	return nil
}

func (r *SaleRepo) DeleteLines(_ context.Context, saleID string) error {
	defer r.v.lock()()
	if s, ok := r.v.data().sales[saleID]; ok {
		s.Lines = nil
		r.v.data().sales[saleID] = s
	}
	return nil
}

func (r *SaleRepo) Delete(_ context.Context, id string) error {
	defer r.v.lock()()
	delete(r.v.data().sales, id)
	return nil
}
