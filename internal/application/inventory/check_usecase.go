package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/Taller-api/internal/application/sequence"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/audit"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/pkg/logger"
	"github.com/jhoicas/Taller-api/pkg/metrics"
)

// CheckUseCase flujo de conteo físico: Draft -> InProgress -> Completed, con Cancelled desde Draft o InProgress.
// Completar un conteo no modifica existencias; las diferencias se corrigen con un ajuste aprobado.
type CheckUseCase struct {
	txRunner    TxRunner
	repos       repository.Repos
	codes       *sequence.Generator
	adjustments *AdjustmentUseCase
	log         *logger.Logger
}

// NewCheckUseCase construye el caso de uso.
func NewCheckUseCase(
	txRunner TxRunner,
	repos repository.Repos,
	codes *sequence.Generator,
	adjustments *AdjustmentUseCase,
	log *logger.Logger,
) *CheckUseCase {
	return &CheckUseCase{
		txRunner:    txRunner,
		repos:       repos,
		codes:       codes,
		adjustments: adjustments,
		log:         log,
	}
}

// CreateCheckInput entrada de creación.
type CreateCheckInput struct {
	Name  string
	Notes string
	Scope entity.CheckScope
}

// RecordCountInput cantidad contada de un repuesto.
type RecordCountInput struct {
	CheckID        string
	PartID         string
	ActualQuantity int
	Notes          string
}

// ListChecksFilter filtros del listado.
type ListChecksFilter struct {
	Status string
	Limit  int
	Offset int
}

// Create crea el conteo en Draft con código IK.
func (uc *CheckUseCase) Create(ctx context.Context, actor audit.Actor, in CreateCheckInput) (*entity.InventoryCheck, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Validationf("name requerido")
	}
	if err := validateScope(in.Scope); err != nil {
		return nil, err
	}
	var check *entity.InventoryCheck
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		code, err := uc.codes.NextCode(ctx, repos.Sequences(),
			sequence.CodeExists(repos.Checks(), repository.ColCode),
			sequence.PrefixInventoryCheck, actor.At)
		if err != nil {
			return err
		}
		check = &entity.InventoryCheck{
			Code:   code,
			Name:   name,
			Notes:  strings.TrimSpace(in.Notes),
			Scope:  in.Scope,
			Status: entity.CheckStatusDraft,
		}
		return repos.Checks().Create(ctx, actor, check)
	})
	if err != nil {
		return nil, err
	}
	metrics.InventoryChecks.WithLabelValues(entity.CheckStatusDraft).Inc()
	uc.log.Info().Str("check_id", check.ID).Str("code", check.Code).Msg("conteo de inventario creado")
	return check, nil
}

// Start Draft -> InProgress.
func (uc *CheckUseCase) Start(ctx context.Context, actor audit.Actor, checkID, employeeID string) (*entity.InventoryCheck, error) {
	return uc.transition(ctx, actor, checkID, employeeID, entity.CheckStatusInProgress, func(_ repository.Repos, c *entity.InventoryCheck) error {
		c.StartedByEmployeeID = employeeID
		c.StartedAt = ptr(actor.At)
		return nil
	})
}

// Complete InProgress -> Completed. Requiere al menos un ítem contado; no toca existencias.
func (uc *CheckUseCase) Complete(ctx context.Context, actor audit.Actor, checkID, employeeID string) (*entity.InventoryCheck, error) {
	return uc.transition(ctx, actor, checkID, employeeID, entity.CheckStatusCompleted, func(repos repository.Repos, c *entity.InventoryCheck) error {
		n, err := repos.CheckItems().Count(ctx, audit.Where(repository.ColCheckID, c.ID))
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.Validationf("el conteo %s no tiene ítems registrados", c.Code)
		}
		c.CompletedByEmployeeID = employeeID
		c.CompletedDate = ptr(actor.At)
		return nil
	})
}

// Cancel Draft|InProgress -> Cancelled. Los ítems ya registrados se conservan.
func (uc *CheckUseCase) Cancel(ctx context.Context, actor audit.Actor, checkID, employeeID string) (*entity.InventoryCheck, error) {
	return uc.transition(ctx, actor, checkID, employeeID, entity.CheckStatusCancelled, func(_ repository.Repos, c *entity.InventoryCheck) error {
		c.CancelledByEmployeeID = employeeID
		c.CancelledAt = ptr(actor.At)
		return nil
	})
}

func (uc *CheckUseCase) transition(
	ctx context.Context,
	actor audit.Actor,
	checkID, employeeID, to string,
	apply func(repos repository.Repos, c *entity.InventoryCheck) error,
) (*entity.InventoryCheck, error) {
	var check *entity.InventoryCheck
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		check, err = repos.Checks().GetForUpdate(ctx, checkID)
		if err != nil {
			return err
		}
		if !check.CanTransition(to) {
			return domain.InvalidStatef("el conteo %s está %s, no puede pasar a %s", check.Code, check.Status, to)
		}
		if _, err := requireEmployee(ctx, repos, employeeID); err != nil {
			return err
		}
		if err := apply(repos, check); err != nil {
			return err
		}
		from := check.Status
		check.Status = to
		if err := repos.Checks().Update(ctx, actor, check); err != nil {
			return err
		}
		uc.log.Info().
			Str("check_id", check.ID).
			Str("code", check.Code).
			Str("from", from).
			Str("to", to).
			Str("employee_id", employeeID).
			Msg("conteo de inventario actualizado")
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.InventoryChecks.WithLabelValues(to).Inc()
	return check, nil
}

// RecordCount crea o actualiza el ítem del repuesto dentro del conteo.
// SystemQuantity se toma de la existencia actual solo en el primer registro; las correcciones
// posteriores conservan esa foto y recalculan la diferencia.
func (uc *CheckUseCase) RecordCount(ctx context.Context, actor audit.Actor, in RecordCountInput) (*entity.InventoryCheckItem, error) {
	if in.ActualQuantity < 0 {
		return nil, domain.Validationf("actual_quantity no puede ser negativa")
	}
	var item *entity.InventoryCheckItem
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		// Bloquear la cabecera serializa registros concurrentes del mismo conteo.
		check, err := repos.Checks().GetForUpdate(ctx, in.CheckID)
		if err != nil {
			return err
		}
		if check.Status != entity.CheckStatusInProgress {
			return domain.InvalidStatef("el conteo %s está %s; solo se registra en %s",
				check.Code, check.Status, entity.CheckStatusInProgress)
		}
		part, err := requirePart(ctx, repos, in.PartID)
		if err != nil {
			return err
		}
		if !part.InScope(check.Scope) {
			return domain.Validationf("el repuesto %s está fuera del alcance del conteo %s", part.PartNumber, check.Code)
		}

		q := audit.Where(repository.ColCheckID, check.ID).And(repository.ColPartID, part.ID)
		item, err = repos.CheckItems().FirstWhere(ctx, q)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			item = &entity.InventoryCheckItem{
				CheckID:        check.ID,
				PartID:         part.ID,
				SystemQuantity: part.QuantityInStock,
				Notes:          strings.TrimSpace(in.Notes),
			}
			item.SetActualQuantity(in.ActualQuantity)
			return repos.CheckItems().Create(ctx, actor, item)
		case err != nil:
			return err
		}
		item.SetActualQuantity(in.ActualQuantity)
		if notes := strings.TrimSpace(in.Notes); notes != "" {
			item.Notes = notes
		}
		return repos.CheckItems().Update(ctx, actor, item)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().
		Str("check_id", item.CheckID).
		Str("part_id", item.PartID).
		Int("system", item.SystemQuantity).
		Int("actual", item.ActualQuantity).
		Msg("conteo registrado")
	return item, nil
}

// GenerateAdjustmentFromDiscrepancies crea un ajuste Pending con una línea por ítem con diferencia.
// Los ítems ya ligados a un ajuste Pending o Approved se omiten; si no queda ninguno nuevo
// se devuelve el ajuste existente. Los ligados a un ajuste rechazado vuelven a proponerse.
func (uc *CheckUseCase) GenerateAdjustmentFromDiscrepancies(ctx context.Context, actor audit.Actor, checkID string) (*entity.InventoryAdjustment, error) {
	var (
		adj     *entity.InventoryAdjustment
		created bool
	)
	err := uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		check, err := repos.Checks().GetForUpdate(ctx, checkID)
		if err != nil {
			return err
		}
		if check.Status != entity.CheckStatusCompleted {
			return domain.InvalidStatef("el conteo %s está %s; se requiere %s",
				check.Code, check.Status, entity.CheckStatusCompleted)
		}
		items, err := loadCheckItems(ctx, repos, check.ID)
		if err != nil {
			return err
		}

		var (
			pending  []*entity.InventoryCheckItem
			existing string
		)
		for _, it := range items {
			if !it.IsDiscrepancy {
				continue
			}
			linked, err := liveAdjustmentFor(ctx, repos, it)
			if err != nil {
				return err
			}
			if linked != "" {
				existing = linked
				continue
			}
			pending = append(pending, it)
		}

		if len(pending) == 0 {
			if existing == "" {
				return domain.Validationf("el conteo %s no tiene diferencias", check.Code)
			}
			adj, err = repos.Adjustments().GetByID(ctx, existing)
			if err != nil {
				return err
			}
			adj.Items, err = loadAdjustmentItems(ctx, repos, adj.ID)
			return err
		}

		in := CreateAdjustmentInput{
			Reason:  fmt.Sprintf("Diferencias del conteo %s", check.Code),
			CheckID: ptr(check.ID),
		}
		for _, it := range pending {
			in.Items = append(in.Items, AdjustmentItemInput{
				PartID:         it.PartID,
				QuantityChange: it.DiscrepancyQuantity,
				CheckItemID:    ptr(it.ID),
			})
		}
		adj, err = uc.adjustments.createInTx(ctx, repos, actor, in)
		if err != nil {
			return err
		}
		for i, line := range adj.Items {
			pending[i].AdjustmentItemID = ptr(line.ID)
			if err := repos.CheckItems().Update(ctx, actor, pending[i]); err != nil {
				return fmt.Errorf("ligar ítem de conteo: %w", err)
			}
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if created {
		metrics.InventoryAdjustments.WithLabelValues(entity.AdjustmentStatusPending).Inc()
		uc.log.Info().
			Str("check_id", checkID).
			Str("adjustment_id", adj.ID).
			Str("adjustment_number", adj.AdjustmentNumber).
			Int("items", len(adj.Items)).
			Msg("ajuste generado desde diferencias del conteo")
	}
	return adj, nil
}

// liveAdjustmentFor devuelve el id del ajuste Pending o Approved al que está ligado el ítem, o "".
func liveAdjustmentFor(ctx context.Context, repos repository.Repos, it *entity.InventoryCheckItem) (string, error) {
	if it.AdjustmentItemID == nil {
		return "", nil
	}
	line, err := repos.AdjustmentItems().GetByID(ctx, *it.AdjustmentItemID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	adj, err := repos.Adjustments().GetByID(ctx, line.AdjustmentID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if adj.Status == entity.AdjustmentStatusRejected {
		return "", nil
	}
	return adj.ID, nil
}

// Get devuelve el conteo con sus ítems.
func (uc *CheckUseCase) Get(ctx context.Context, id string) (*entity.InventoryCheck, error) {
	check, err := uc.repos.Checks().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	check.Items, err = loadCheckItems(ctx, uc.repos, check.ID)
	if err != nil {
		return nil, err
	}
	return check, nil
}

// List lista conteos, más recientes primero.
func (uc *CheckUseCase) List(ctx context.Context, f ListChecksFilter) ([]*entity.InventoryCheck, error) {
	q := audit.Query{}.Order(repository.ColCreatedAt, true).Page(pageLimit(f.Limit), f.Offset)
	if f.Status != "" {
		q = q.And(repository.ColStatus, f.Status)
	}
	return uc.repos.Checks().List(ctx, q)
}

func loadCheckItems(ctx context.Context, repos repository.Repos, checkID string) ([]*entity.InventoryCheckItem, error) {
	q := audit.Where(repository.ColCheckID, checkID).Order(repository.ColCreatedAt, false)
	items, err := repos.CheckItems().List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("leer ítems del conteo: %w", err)
	}
	return items, nil
}

func validateScope(s entity.CheckScope) error {
	if s.ZoneID != "" && s.WarehouseID == "" {
		return domain.Validationf("zone_id requiere warehouse_id")
	}
	if s.BinID != "" && s.ZoneID == "" {
		return domain.Validationf("bin_id requiere zone_id")
	}
	return nil
}
