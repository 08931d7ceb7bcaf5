package entity

import "time"

// Customer representa un cliente al que se le puede asociar una venta.
type Customer struct {
	ID        string
	Name      string
	TaxID     string // RUT / NIT
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
