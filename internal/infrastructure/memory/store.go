// Package memory implementa los puertos de persistencia en memoria.
// Las transacciones se serializan con un mutex y se revierten restaurando una copia del estado.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
)

type state struct {
	products  map[string]entity.Product
	movements []entity.InventoryMovement
	sales     map[string]entity.Sale
	registers map[string]entity.CashRegister
	customers map[string]entity.Customer
	users     map[string]entity.User
}

func newState() *state {
	return &state{
		products:  map[string]entity.Product{},
		sales:     map[string]entity.Sale{},
		registers: map[string]entity.CashRegister{},
		customers: map[string]entity.Customer{},
		users:     map[string]entity.User{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	c.movements = append([]entity.InventoryMovement(nil), s.movements...)
	for k, v := range s.sales {
		c.sales[k] = copySale(v)
	}
	for k, v := range s.registers {
		c.registers[k] = copyRegister(v)
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// Store almacén en memoria.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// view acceso al estado; dentro de una transacción el mutex ya está tomado.
type view struct {
	s    *Store
	inTx bool
}

func (v view) lock() func() {
	if v.inTx {
		return func() {}
	}
	v.s.mu.Lock()
	return v.s.mu.Unlock
}

func (v view) data() *state { return v.s.st }

func (s *Store) repos(inTx bool) repository.TxRepos {
	v := view{s: s, inTx: inTx}
	return repository.TxRepos{
		Products:  &ProductRepo{v},
		Movements: &MovementRepo{v},
		Sales:     &SaleRepo{v},
		Registers: &CashRegisterRepo{v},
		Customers: &CustomerRepo{v},
		Users:     &UserRepo{v},
	}
}

// Repos devuelve repositorios fuera de transacción.
func (s *Store) Repos() repository.TxRepos { return s.repos(false) }

// Analytics devuelve el repositorio de lectura para reportes.
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{view{s: s}} }

// TxRunner ejecuta callbacks de forma atómica sobre el Store.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner { return &TxRunner{s: s} }

// Run toma el mutex, ejecuta fn y restaura la copia previa si fn falla.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snapshot := r.s.st.clone()
	if err := fn(r.s.repos(true)); err != nil {
		r.s.st = snapshot
		return err
	}
	return nil
}

func copySale(s entity.Sale) entity.Sale {
	s.Lines = append([]entity.SaleLine(nil), s.Lines...)
	s.Payments = append([]entity.Payment(nil), s.Payments...)
	return s
}

func copyRegister(r entity.CashRegister) entity.CashRegister {
	r.CountedTotals = copyTotals(r.CountedTotals)
	r.ExpectedTotals = copyTotals(r.ExpectedTotals)
	return r
}
