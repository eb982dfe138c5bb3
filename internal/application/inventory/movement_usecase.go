package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/Taller-api/internal/application/ledger"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/audit"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// MovementUseCase registra entradas, salidas y bajas de un repuesto de forma transaccional.
// Todas pasan por el libro de stock, que bloquea la fila del repuesto (SELECT FOR UPDATE).
type MovementUseCase struct {
	txRunner TxRunner
	repos    repository.Repos
	ledger   *ledger.Ledger
	log      *logger.Logger
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(txRunner TxRunner, repos repository.Repos, ledger *ledger.Ledger, log *logger.Logger) *MovementUseCase {
	return &MovementUseCase{txRunner: txRunner, repos: repos, ledger: ledger, log: log}
}

// MovementInput entrada de un movimiento. Quantity siempre positiva; el signo lo da el tipo.
// AllowNegative solo se respeta en WRITE_OFF (baja autorizada).
type MovementInput struct {
	PartID        string
	Type          string // INBOUND | OUTBOUND | WRITE_OFF
	Quantity      int
	EmployeeID    string
	Notes         string
	AllowNegative bool
}

// RegisterMovement valida, abre la transacción y publica el movimiento en el libro.
func (uc *MovementUseCase) RegisterMovement(ctx context.Context, actor audit.Actor, in MovementInput) (*entity.StockTransaction, error) {
	if in.Quantity <= 0 {
		return nil, domain.Validationf("quantity debe ser positiva")
	}
	delta := in.Quantity
	allowNegative := false
	switch in.Type {
	case entity.TransactionTypeInbound:
	case entity.TransactionTypeOutbound:
		delta = -in.Quantity
	case entity.TransactionTypeWriteOff:
		delta = -in.Quantity
		allowNegative = in.AllowNegative
	default:
		return nil, domain.Validationf("tipo de movimiento no permitido %q", in.Type)
	}

	var tx *entity.StockTransaction
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if _, err := requireEmployee(ctx, repos, in.EmployeeID); err != nil {
			return err
		}
		var err error
		tx, err = uc.ledger.Post(ctx, repos, actor, ledger.PostInput{
			PartID:        in.PartID,
			Delta:         delta,
			Type:          in.Type,
			ReferenceType: entity.ReferenceTypeMovement,
			ReferenceID:   uuid.New().String(),
			EmployeeID:    in.EmployeeID,
			Notes:         strings.TrimSpace(in.Notes),
			AllowNegative: allowNegative,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("part_id", tx.PartID).
		Str("type", tx.TransactionType).
		Int("quantity", tx.Quantity).
		Int("quantity_after", tx.QuantityAfter).
		Msg("movimiento de inventario registrado")
	return tx, nil
}

// History movimientos del repuesto, más recientes primero.
func (uc *MovementUseCase) History(ctx context.Context, partID string, limit, offset int) ([]*entity.StockTransaction, error) {
	return uc.ledger.History(ctx, uc.repos, partID, pageLimit(limit), offset)
}

// Reconcile compara la existencia del repuesto con la suma de su libro.
func (uc *MovementUseCase) Reconcile(ctx context.Context, partID string) (*ledger.Reconciliation, error) {
	return uc.ledger.Reconcile(ctx, uc.repos, partID)
}
