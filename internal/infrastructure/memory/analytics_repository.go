package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agregados de lectura sobre el estado en memoria.
type AnalyticsRepo struct{ v view }

func (r *AnalyticsRepo) SalesTotals(_ context.Context, from, to time.Time) (decimal.Decimal, int, error) {
	defer r.v.lock()()
	net, count := decimal.Zero, 0
	for _, s := range r.v.data().sales {
		if inRange(s.Date, &from, &to) {
			net = net.Add(s.NetTotal)
			count++
		}
	}
	return net, count, nil
}

func (r *AnalyticsRepo) PaymentsByMethod(_ context.Context, from, to time.Time) (map[entity.PaymentMethod]decimal.Decimal, error) {
	defer r.v.lock()()
	totals := map[entity.PaymentMethod]decimal.Decimal{}
	for _, s := range r.v.data().sales {
		if !inRange(s.Date, &from, &to) {
			continue
		}
		for _, p := range s.Payments {
			totals[p.Method] = totals[p.Method].Add(p.Amount)
		}
	}
	return totals, nil
}

func (r *AnalyticsRepo) TopProducts(_ context.Context, from, to time.Time, limit int) ([]repository.ProductSales, error) {
	defer r.v.lock()()
	agg := map[string]*repository.ProductSales{}
	for _, s := range r.v.data().sales {
		if !inRange(s.Date, &from, &to) {
			continue
		}
		for _, l := range s.Lines {
			ps, ok := agg[l.ProductID]
			if !ok {
				p := r.v.data().products[l.ProductID]
				ps = &repository.ProductSales{ProductID: l.ProductID, SKU: p.SKU, Name: p.Name}
				agg[l.ProductID] = ps
			}
			ps.Units += l.Quantity
			ps.Revenue = ps.Revenue.Add(l.NetSubtotal)
		}
	}
	list := make([]repository.ProductSales, 0, len(agg))
	for _, ps := range agg {
		list = append(list, *ps)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Revenue.Equal(list[j].Revenue) {
			return list[i].SKU < list[j].SKU
		}
		return list[i].Revenue.GreaterThan(list[j].Revenue)
	})
	return paginate(list, limit, 0), nil
}
