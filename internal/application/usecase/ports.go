package usecase

import (
	"context"

	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con repositorios atados a la tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepos) error) error
}

// InitialStockRecorder registra el stock inicial de un producto por el libro de inventario.
type InitialStockRecorder interface {
	RecordInitialStockInTx(ctx context.Context, repos repository.TxRepos, product *entity.Product, qty int, actorID string) error
}
