package dto

import (
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductFromEntity convierte un producto de dominio a su respuesta.
func ProductFromEntity(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		SKU:            p.SKU,
		Barcode:        p.Barcode,
		Name:           p.Name,
		Description:    p.Description,
		RetailPrice:    p.RetailPrice,
		WholesalePrice: p.WholesalePrice,
		Stock:          p.Stock,
		Active:         p.Active,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// CustomerFromEntity convierte un cliente de dominio a su respuesta.
func CustomerFromEntity(c *entity.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// MovementFromEntity convierte un movimiento a su respuesta.
func MovementFromEntity(m *entity.InventoryMovement) MovementResponse {
	return MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		UserID:      m.UserID,
		Direction:   string(m.Direction),
		Reason:      string(m.Reason),
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		ReferenceID: m.ReferenceID,
		Note:        m.Note,
		Date:        m.Date,
	}
}

// SaleFromEntity convierte una venta (con líneas y pagos si vienen cargados) a su respuesta.
func SaleFromEntity(s *entity.Sale) SaleResponse {
	out := SaleResponse{
		ID:                   s.ID,
		Date:                 s.Date,
		Tier:                 string(s.Tier),
		GrossTotal:           s.GrossTotal,
		GlobalDiscountAmount: s.GlobalDiscountAmount,
		LineDiscountTotal:    s.LineDiscountTotal,
		TotalDiscount:        s.TotalDiscount,
		NetTotal:             s.NetTotal,
		Change:               s.Change,
		DocumentNumber:       s.DocumentNumber,
		CashRegisterID:       s.CashRegisterID,
		CustomerID:           s.CustomerID,
		UserID:               s.UserID,
		Payments:             make([]PaymentResponse, 0, len(s.Payments)),
	}
	out.GlobalDiscountValue, out.GlobalDiscountKind = discountFields(s.GlobalDiscount)
	if s.DocumentType != nil {
		dt := string(*s.DocumentType)
		out.DocumentType = &dt
	}
	for _, l := range s.Lines {
		lr := SaleLineResponse{
			Position:       l.Position,
			ProductID:      l.ProductID,
			ProductName:    l.ProductName,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			DiscountAmount: l.DiscountAmount,
			GrossSubtotal:  l.GrossSubtotal,
			NetSubtotal:    l.NetSubtotal,
		}
		lr.DiscountValue, lr.DiscountKind = discountFields(l.Discount)
		out.Lines = append(out.Lines, lr)
	}
	for _, p := range s.Payments {
		out.Payments = append(out.Payments, PaymentResponse{Method: string(p.Method), Amount: p.Amount})
	}
	return out
}

// CashRegisterFromEntity convierte una caja a su respuesta.
func CashRegisterFromEntity(r *entity.CashRegister) CashRegisterResponse {
	return CashRegisterResponse{
		ID:             r.ID,
		State:          string(r.State),
		OpenedAt:       r.OpenedAt,
		OpenedBy:       r.OpenedBy,
		OpeningCash:    r.OpeningCash,
		ClosedAt:       r.ClosedAt,
		ClosedBy:       r.ClosedBy,
		CountedCash:    r.CountedCash,
		CountedTotals:  MethodTotals(r.CountedTotals),
		ExpectedTotals: MethodTotals(r.ExpectedTotals),
		ExpectedCash:   r.ExpectedCash,
		Variance:       r.Variance,
	}
}

// MethodTotals convierte un mapa por medio de pago a claves string para JSON.
func MethodTotals(in map[entity.PaymentMethod]decimal.Decimal) map[string]decimal.Decimal {
	if in == nil {
		return nil
	}
	out := make(map[string]decimal.Decimal, len(in))
	for k, v := range in {
		out[string(k)] = v
	}
	return out
}

func discountFields(d *entity.Discount) (*decimal.Decimal, *string) {
	if d == nil {
		return nil, nil
	}
	v := d.Value
	k := string(d.Kind)
	return &v, &k
}

// UserFromEntity convierte un usuario a su respuesta (sin hash).
func UserFromEntity(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
