package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ventas/internal/application/dto"
	"github.com/jhoicas/pos-ventas/internal/domain"
	"github.com/jhoicas/pos-ventas/internal/domain/entity"
	"github.com/jhoicas/pos-ventas/internal/domain/pricing"
	"github.com/jhoicas/pos-ventas/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ProductUseCase casos de uso CRUD para productos. El stock se maneja solo vía movimientos.
type ProductUseCase struct {
	txRunner TxRunner
	repo     repository.ProductRepository
	stock    InitialStockRecorder
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner TxRunner, repo repository.ProductRepository, stock InitialStockRecorder) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo, stock: stock}
}

// Create crea un producto y, si InitialStock > 0, registra el movimiento IN/PRODUCTION en la misma tx.
func (uc *ProductUseCase) Create(ctx context.Context, actorID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.SKU == "" || in.Name == "" || in.InitialStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := validatePrices(in.RetailPrice, in.WholesalePrice); err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		SKU:            in.SKU,
		Barcode:        strings.TrimSpace(in.Barcode),
		Name:           in.Name,
		Description:    in.Description,
		RetailPrice:    pricing.RoundMoney(in.RetailPrice),
		WholesalePrice: pricing.RoundMoney(in.WholesalePrice),
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		existing, err := repos.Products.GetBySKU(ctx, product.SKU)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		return uc.stock.RecordInitialStockInTx(ctx, repos, product, in.InitialStock, actorID)
	})
	if err != nil {
		return nil, err
	}
	out := dto.ProductFromEntity(product)
	return &out, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ProductFromEntity(product)
	return &out, nil
}

// Update actualiza datos de catálogo. No permite modificar el stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Barcode != nil {
		product.Barcode = strings.TrimSpace(*in.Barcode)
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.RetailPrice != nil {
		product.RetailPrice = pricing.RoundMoney(*in.RetailPrice)
	}
	if in.WholesalePrice != nil {
		product.WholesalePrice = pricing.RoundMoney(*in.WholesalePrice)
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	if err := validatePrices(product.RetailPrice, product.WholesalePrice); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	out := dto.ProductFromEntity(product)
	return &out, nil
}

// List lista productos con búsqueda y paginación.
func (uc *ProductUseCase) List(ctx context.Context, search string, onlyActive bool, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Search:     search,
		OnlyActive: onlyActive,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.ProductFromEntity(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func validatePrices(retail, wholesale decimal.Decimal) error {
	if retail.IsNegative() || wholesale.IsNegative() {
		return domain.InvalidInput("Los precios no pueden ser negativos.")
	}
	return nil
}

