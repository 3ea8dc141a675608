package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/stockledger/internal/application/dto"
	"github.com/jhoicas/stockledger/internal/application/inventory"
	"github.com/jhoicas/stockledger/internal/domain"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/repository"
)

// DeletePolicy decide qué pasa con el libro de stock al borrar un producto.
type DeletePolicy string

// Políticas de borrado de productos.
const (
	DeleteOrphan   DeletePolicy = "orphan"   // borra el producto, los movimientos quedan huérfanos
	DeleteCascade  DeletePolicy = "cascade"  // borra producto y movimientos en la misma transacción
	DeleteRestrict DeletePolicy = "restrict" // rechaza el borrado si hay movimientos
)

// ParseDeletePolicy valida el valor configurado.
func ParseDeletePolicy(s string) (DeletePolicy, bool) {
	switch p := DeletePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case DeleteOrphan, DeleteCascade, DeleteRestrict:
		return p, true
	}
	return "", false
}

// ProductUseCase casos de uso CRUD para productos. Quantity solo se maneja vía movimientos.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner inventory.TxRunner
	policy   DeletePolicy
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner inventory.TxRunner, policy DeletePolicy) *ProductUseCase {
	if policy == "" {
		policy = DeleteOrphan
	}
	return &ProductUseCase{repo: repo, txRunner: txRunner, policy: policy}
}

// Policy devuelve la política de borrado activa.
func (uc *ProductUseCase) Policy() DeletePolicy { return uc.policy }

// Create crea un nuevo producto. Quantity inicia en 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductRequest) (*dto.ProductResponse, error) {
	name, price, category, err := parseProductRequest(in)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Name:      name,
		Price:     price,
		Category:  category,
		Quantity:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID o domain.ErrNotFound.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza nombre, precio y categoría. No permite modificar Quantity (se maneja vía movimientos).
// Un producto inexistente responde ErrNotFound antes de validar el formulario.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	name, price, category, err := parseProductRequest(in)
	if err != nil {
		return nil, err
	}
	product.Name = name
	product.Price = price
	product.Category = category
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista todos los productos en orden de creación.
func (uc *ProductUseCase) List(ctx context.Context) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}, nil
}

// Delete elimina un producto según la política configurada.
// Con DeleteRestrict devuelve domain.ErrConflict si el producto tiene movimientos.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.MovementRepository) error {
		// Bloquea la fila: un movimiento concurrente espera y luego ve el producto borrado
		product, err := productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		switch uc.policy {
		case DeleteCascade:
			if err := movRepo.DeleteByProduct(ctx, id); err != nil {
				return err
			}
		case DeleteRestrict:
			n, err := movRepo.CountByProduct(ctx, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return domain.ErrConflict
			}
		}
		return productRepo.Delete(ctx, id)
	})
}

// parseProductRequest valida el formulario: nombre obligatorio, precio numérico no negativo.
// Acepta coma decimal ("9,99") cuando no hay punto.
func parseProductRequest(in dto.ProductRequest) (string, decimal.Decimal, string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", decimal.Zero, "", domain.Invalid("name", "es requerido")
	}
	raw := strings.TrimSpace(string(in.Price))
	if !strings.Contains(raw, ".") {
		raw = strings.Replace(raw, ",", ".", 1)
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return "", decimal.Zero, "", domain.Invalid("price", "debe ser un número")
	}
	if price.IsNegative() {
		return "", decimal.Zero, "", domain.Invalid("price", "no puede ser negativo")
	}
	return name, price, strings.TrimSpace(in.Category), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Category:  p.Category,
		Quantity:  p.Quantity,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
