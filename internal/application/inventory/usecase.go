package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stockledger/internal/application/dto"
	"github.com/jhoicas/stockledger/internal/domain"
	"github.com/jhoicas/stockledger/internal/domain/entity"
	"github.com/jhoicas/stockledger/internal/domain/ledger"
	"github.com/jhoicas/stockledger/internal/domain/repository"
)

// LedgerUseCase es el único punto de escritura del libro de stock.
// Cada movimiento bloquea la fila del producto (SELECT FOR UPDATE), valida contra la cantidad
// actual, anexa el movimiento y actualiza la cantidad cacheada en la misma transacción.
type LedgerUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	now         func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, productRepo repository.ProductRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, productRepo: productRepo, now: time.Now}
}

// MovementInputDTO entrada para registrar un movimiento ya parseado.
type MovementInputDTO struct {
	UserID    string
	ProductID string
	Magnitude int64
	Direction entity.Direction
}

// RegisterMovement valida la entrada y aplica el movimiento de forma atómica.
// Una salida mayor que el stock devuelve *domain.InsufficientStockError y no deja rastro:
// ni movimiento nuevo ni cambio de cantidad.
func (uc *LedgerUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*dto.RegisterMovementResponse, error) {
	if input.ProductID == "" {
		return nil, domain.ErrNotFound
	}
	if input.Magnitude <= 0 {
		return nil, domain.Invalid("magnitude", "debe ser un entero positivo")
	}
	if input.Direction != entity.DirectionIn && input.Direction != entity.DirectionOut {
		return nil, domain.Invalid("direction", "debe ser in u out")
	}

	var (
		mov    *entity.Movement
		newQty int64
	)
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.MovementRepository) error {
		// Bloquea la fila del producto para serializar movimientos concurrentes
		product, err := productRepo.GetForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		qty, err := ledger.Apply(product.Quantity, input.Magnitude, input.Direction)
		if err != nil {
			return err
		}
		m := &entity.Movement{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Magnitude: input.Magnitude,
			Direction: input.Direction,
			CreatedBy: input.UserID,
			CreatedAt: uc.now(),
		}
		if err := movRepo.Append(ctx, m); err != nil {
			return err
		}
		if err := productRepo.UpdateQuantity(ctx, product.ID, qty); err != nil {
			return err
		}
		mov, newQty = m, qty
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toMovementResponse(mov, newQty)
	return &dto.RegisterMovementResponse{Movement: out, Quantity: newQty}, nil
}

// Snapshot lee el producto y su libro completo dentro de una transacción con la fila bloqueada,
// de modo que la cantidad cacheada y los movimientos corresponden al mismo instante.
func (uc *LedgerUseCase) Snapshot(ctx context.Context, productID string) (*entity.Product, []*entity.Movement, error) {
	var (
		product   *entity.Product
		movements []*entity.Movement
	)
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.MovementRepository) error {
		p, err := productRepo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		list, err := movRepo.ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		product, movements = p, list
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return product, movements, nil
}

// History devuelve todos los movimientos del producto en orden de inserción, con saldo acumulado.
func (uc *LedgerUseCase) History(ctx context.Context, productID string) (*dto.HistoryResponse, error) {
	product, movements, err := uc.Snapshot(ctx, productID)
	if err != nil {
		return nil, err
	}
	entries := ledger.RunningBalance(movements)
	items := make([]dto.MovementResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toMovementResponse(e.Movement, e.Balance))
	}
	in, out := ledger.Totals(movements)
	replayed := ledger.Replay(movements)
	return &dto.HistoryResponse{
		Product:    toProductResponse(product),
		Movements:  items,
		TotalIn:    in,
		TotalOut:   out,
		Replayed:   replayed,
		Consistent: replayed == product.Quantity,
	}, nil
}

// Verify compara la cantidad cacheada de un producto con la reconstruida desde su libro.
func (uc *LedgerUseCase) Verify(ctx context.Context, productID string) (dto.LedgerCheck, error) {
	product, movements, err := uc.Snapshot(ctx, productID)
	if err != nil {
		return dto.LedgerCheck{}, err
	}
	return dto.LedgerCheck{
		ProductID: product.ID,
		Name:      product.Name,
		Cached:    product.Quantity,
		Replayed:  ledger.Replay(movements),
		Movements: len(movements),
	}, nil
}

// VerifyAll verifica todos los productos. Un producto borrado entre el listado y la
// verificación se omite.
func (uc *LedgerUseCase) VerifyAll(ctx context.Context) ([]dto.LedgerCheck, error) {
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	checks := make([]dto.LedgerCheck, 0, len(products))
	for _, p := range products {
		c, err := uc.Verify(ctx, p.ID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		checks = append(checks, c)
	}
	return checks, nil
}

func toMovementResponse(m *entity.Movement, balance int64) dto.MovementResponse {
	return dto.MovementResponse{
		ID:        m.ID,
		Seq:       m.Seq,
		ProductID: m.ProductID,
		Magnitude: m.Magnitude,
		Direction: string(m.Direction),
		Balance:   balance,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Category:  p.Category,
		Quantity:  p.Quantity,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
