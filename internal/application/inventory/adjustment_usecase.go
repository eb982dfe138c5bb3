package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Taller-api/internal/application/ledger"
	"github.com/jhoicas/Taller-api/internal/application/sequence"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/audit"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/pkg/logger"
	"github.com/jhoicas/Taller-api/pkg/metrics"
)

// AdjustmentUseCase flujo de ajustes de inventario: Pending -> Approved | Rejected.
// Solo Approve toca existencias; lo hace a través del libro de stock en una única transacción.
type AdjustmentUseCase struct {
	txRunner TxRunner
	repos    repository.Repos
	codes    *sequence.Generator
	ledger   *ledger.Ledger
	log      *logger.Logger
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(
	txRunner TxRunner,
	repos repository.Repos,
	codes *sequence.Generator,
	ledger *ledger.Ledger,
	log *logger.Logger,
) *AdjustmentUseCase {
	return &AdjustmentUseCase{
		txRunner: txRunner,
		repos:    repos,
		codes:    codes,
		ledger:   ledger,
		log:      log,
	}
}

// AdjustmentItemInput línea propuesta.
type AdjustmentItemInput struct {
	PartID         string
	QuantityChange int
	CheckItemID    *string
}

// CreateAdjustmentInput entrada para crear un ajuste manual o generado desde un conteo.
type CreateAdjustmentInput struct {
	Reason  string
	CheckID *string
	Items   []AdjustmentItemInput
}

// ApproveInput entrada de aprobación. AllowNegativeStock es la autorización explícita
// para dejar existencias en negativo (bajas).
type ApproveInput struct {
	AdjustmentID       string
	ApproverID         string
	Notes              string
	AllowNegativeStock bool
}

// RejectInput entrada de rechazo.
type RejectInput struct {
	AdjustmentID string
	ApproverID   string
	Reason       string
}

// ListAdjustmentsFilter filtros del listado.
type ListAdjustmentsFilter struct {
	Status  string
	CheckID string
	Limit   int
	Offset  int
}

// Create crea un ajuste Pending con código ADJ. No toca existencias.
func (uc *AdjustmentUseCase) Create(ctx context.Context, actor audit.Actor, in CreateAdjustmentInput) (*entity.InventoryAdjustment, error) {
	var adj *entity.InventoryAdjustment
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		adj, err = uc.createInTx(ctx, repos, actor, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.InventoryAdjustments.WithLabelValues(entity.AdjustmentStatusPending).Inc()
	uc.log.Info().
		Str("adjustment_id", adj.ID).
		Str("adjustment_number", adj.AdjustmentNumber).
		Int("items", len(adj.Items)).
		Msg("ajuste de inventario creado")
	return adj, nil
}

// createInTx valida y persiste cabecera y líneas con los repos de la transacción del llamador.
func (uc *AdjustmentUseCase) createInTx(ctx context.Context, repos repository.Repos, actor audit.Actor, in CreateAdjustmentInput) (*entity.InventoryAdjustment, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, domain.Validationf("reason requerido")
	}
	if len(in.Items) == 0 {
		return nil, domain.Validationf("el ajuste debe tener al menos una línea")
	}
	if in.CheckID != nil {
		if _, err := repos.Checks().GetByID(ctx, *in.CheckID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.Validationf("el conteo %s no existe", *in.CheckID)
			}
			return nil, err
		}
	}

	seen := make(map[string]struct{}, len(in.Items))
	parts := make([]*entity.Part, len(in.Items))
	for i, item := range in.Items {
		if item.QuantityChange == 0 {
			return nil, domain.Validationf("línea %d: quantity_change no puede ser cero", i+1)
		}
		if _, dup := seen[item.PartID]; dup {
			return nil, domain.Validationf("línea %d: repuesto %s repetido", i+1, item.PartID)
		}
		seen[item.PartID] = struct{}{}
		part, err := requirePart(ctx, repos, item.PartID)
		if err != nil {
			return nil, err
		}
		parts[i] = part
	}

	number, err := uc.codes.NextCode(ctx, repos.Sequences(),
		sequence.CodeExists(repos.Adjustments(), repository.ColNumber),
		sequence.PrefixAdjustment, actor.At)
	if err != nil {
		return nil, err
	}

	adj := &entity.InventoryAdjustment{
		AdjustmentNumber: number,
		CheckID:          in.CheckID,
		Status:           entity.AdjustmentStatusPending,
		Reason:           reason,
	}
	if err := repos.Adjustments().Create(ctx, actor, adj); err != nil {
		return nil, fmt.Errorf("crear ajuste: %w", err)
	}
	for i, item := range in.Items {
		before := parts[i].QuantityInStock
		line := &entity.InventoryAdjustmentItem{
			AdjustmentID:         adj.ID,
			PartID:               item.PartID,
			QuantityChange:       item.QuantityChange,
			SystemQuantityBefore: before,
			SystemQuantityAfter:  before + item.QuantityChange,
			CheckItemID:          item.CheckItemID,
		}
		if err := repos.AdjustmentItems().Create(ctx, actor, line); err != nil {
			return nil, fmt.Errorf("crear línea de ajuste: %w", err)
		}
		adj.Items = append(adj.Items, line)
	}
	return adj, nil
}

// Approve publica cada línea en el libro de stock y marca el ajuste como Approved.
// Todo ocurre en una transacción: si una línea falla (p. ej. stock negativo sin autorización)
// no se aplica ninguna y el ajuste sigue Pending.
func (uc *AdjustmentUseCase) Approve(ctx context.Context, actor audit.Actor, in ApproveInput) (*entity.InventoryAdjustment, error) {
	start := time.Now()
	var adj *entity.InventoryAdjustment
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		// Bloquea la cabecera: dos aprobaciones concurrentes se serializan y la segunda ve Approved.
		adj, err = repos.Adjustments().GetForUpdate(ctx, in.AdjustmentID)
		if err != nil {
			return err
		}
		if !adj.IsPending() {
			return domain.InvalidStatef("el ajuste %s está %s", adj.AdjustmentNumber, adj.Status)
		}
		if _, err := requireApprover(ctx, repos, in.ApproverID); err != nil {
			return err
		}
		items, err := loadAdjustmentItems(ctx, repos, adj.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.Validationf("el ajuste %s no tiene líneas", adj.AdjustmentNumber)
		}

		// Todos los repuestos quedan bloqueados, en orden de id, antes de tomar el contador ST.
		partIDs := make([]string, 0, len(items))
		for _, item := range items {
			partIDs = append(partIDs, item.PartID)
		}
		if err := uc.ledger.LockParts(ctx, repos, partIDs); err != nil {
			return fmt.Errorf("ajuste %s: %w", adj.AdjustmentNumber, err)
		}
		ordered := append([]*entity.InventoryAdjustmentItem(nil), items...)
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].PartID < ordered[j].PartID })
		for _, item := range ordered {
			// La validación de negativos usa la existencia actual, no SystemQuantityAfter.
			_, err := uc.ledger.Post(ctx, repos, actor, ledger.PostInput{
				PartID:        item.PartID,
				Delta:         item.QuantityChange,
				Type:          entity.TransactionTypeAdjustment,
				ReferenceType: entity.ReferenceTypeAdjustment,
				ReferenceID:   adj.ID,
				EmployeeID:    in.ApproverID,
				Notes:         adj.AdjustmentNumber,
				AllowNegative: in.AllowNegativeStock,
			})
			if err != nil {
				return fmt.Errorf("ajuste %s, repuesto %s: %w", adj.AdjustmentNumber, item.PartID, err)
			}
		}

		adj.Status = entity.AdjustmentStatusApproved
		adj.ApprovedByEmployeeID = in.ApproverID
		adj.ApprovedAt = ptr(actor.At)
		adj.ApprovalNotes = strings.TrimSpace(in.Notes)
		if err := repos.Adjustments().Update(ctx, actor, adj); err != nil {
			return fmt.Errorf("actualizar ajuste: %w", err)
		}
		adj.Items = items
		return nil
	})
	if err != nil {
		metrics.ApprovalFailures.WithLabelValues(errorKind(err)).Inc()
		metrics.TxDuration.WithLabelValues("rollback").Observe(time.Since(start).Seconds())
		uc.log.Warn().Err(err).Str("adjustment_id", in.AdjustmentID).Msg("aprobación de ajuste revertida")
		return nil, err
	}
	metrics.TxDuration.WithLabelValues("commit").Observe(time.Since(start).Seconds())
	metrics.InventoryAdjustments.WithLabelValues(entity.AdjustmentStatusApproved).Inc()
	uc.log.Info().
		Str("adjustment_id", adj.ID).
		Str("adjustment_number", adj.AdjustmentNumber).
		Str("approved_by", in.ApproverID).
		Msg("ajuste de inventario aprobado")
	return adj, nil
}

// Reject cierra el ajuste sin efecto sobre existencias.
func (uc *AdjustmentUseCase) Reject(ctx context.Context, actor audit.Actor, in RejectInput) (*entity.InventoryAdjustment, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, domain.Validationf("reason requerido para rechazar")
	}
	var adj *entity.InventoryAdjustment
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		adj, err = repos.Adjustments().GetForUpdate(ctx, in.AdjustmentID)
		if err != nil {
			return err
		}
		if !adj.IsPending() {
			return domain.InvalidStatef("el ajuste %s está %s", adj.AdjustmentNumber, adj.Status)
		}
		if _, err := requireApprover(ctx, repos, in.ApproverID); err != nil {
			return err
		}
		adj.Status = entity.AdjustmentStatusRejected
		adj.RejectionReason = reason
		adj.RejectedByEmployeeID = in.ApproverID
		adj.RejectedAt = ptr(actor.At)
		if err := repos.Adjustments().Update(ctx, actor, adj); err != nil {
			return err
		}
		adj.Items, err = loadAdjustmentItems(ctx, repos, adj.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.InventoryAdjustments.WithLabelValues(entity.AdjustmentStatusRejected).Inc()
	uc.log.Info().
		Str("adjustment_id", adj.ID).
		Str("adjustment_number", adj.AdjustmentNumber).
		Msg("ajuste de inventario rechazado")
	return adj, nil
}

// Get devuelve el ajuste con sus líneas.
func (uc *AdjustmentUseCase) Get(ctx context.Context, id string) (*entity.InventoryAdjustment, error) {
	adj, err := uc.repos.Adjustments().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	adj.Items, err = loadAdjustmentItems(ctx, uc.repos, adj.ID)
	if err != nil {
		return nil, err
	}
	return adj, nil
}

// List lista ajustes, más recientes primero.
func (uc *AdjustmentUseCase) List(ctx context.Context, f ListAdjustmentsFilter) ([]*entity.InventoryAdjustment, error) {
	q := audit.Query{}.Order(repository.ColCreatedAt, true).Page(pageLimit(f.Limit), f.Offset)
	if f.Status != "" {
		q = q.And(repository.ColStatus, f.Status)
	}
	if f.CheckID != "" {
		q = q.And(repository.ColCheckID, f.CheckID)
	}
	return uc.repos.Adjustments().List(ctx, q)
}

func loadAdjustmentItems(ctx context.Context, repos repository.Repos, adjustmentID string) ([]*entity.InventoryAdjustmentItem, error) {
	q := audit.Where(repository.ColAdjustmentID, adjustmentID).Order(repository.ColCreatedAt, false)
	items, err := repos.AdjustmentItems().List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("leer líneas del ajuste: %w", err)
	}
	return items, nil
}

func pageLimit(limit int) int {
	switch {
	case limit <= 0:
		return 20
	case limit > 100:
		return 100
	}
	return limit
}

// errorKind etiqueta de métrica para un error de dominio.
func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidOperation):
		return "invalid_operation"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	}
	return "internal"
}
