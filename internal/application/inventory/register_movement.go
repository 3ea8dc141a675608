package inventory

import (
	"context"
	"strconv"
	"strings"

	"github.com/jhoicas/stockledger/internal/application/dto"
	"github.com/jhoicas/stockledger/internal/domain"
	"github.com/jhoicas/stockledger/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInputDTO).
// La magnitud debe ser un entero positivo escrito en base 10; la dirección acepta los alias de ParseDirection.
func (uc *LedgerUseCase) RegisterMovementFromRequest(ctx context.Context, userID, productID string, in dto.RegisterMovementRequest) (*dto.RegisterMovementResponse, error) {
	magnitude, err := strconv.ParseInt(strings.TrimSpace(string(in.Magnitude)), 10, 64)
	if err != nil || magnitude <= 0 {
		return nil, domain.Invalid("magnitude", "debe ser un entero positivo")
	}
	dir, ok := entity.ParseDirection(in.Direction)
	if !ok {
		return nil, domain.Invalid("direction", "debe ser in u out")
	}
	return uc.RegisterMovement(ctx, MovementInputDTO{
		UserID:    userID,
		ProductID: productID,
		Magnitude: magnitude,
		Direction: dir,
	})
}
