package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/application/ledger"
	"github.com/jhoicas/Taller-api/internal/application/sequence"
	"github.com/jhoicas/Taller-api/internal/domain/audit"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

var t0 = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

// env casos de uso conectados a un backend en memoria con reloj controlado.
type env struct {
	db            *memory.DB
	checks        *inventory.CheckUseCase
	adjustments   *inventory.AdjustmentUseCase
	comments      *inventory.CommentUseCase
	movements     *inventory.MovementUseCase
	replenishment *inventory.ReplenishmentUseCase

	mu    sync.Mutex
	clock time.Time

	clerk   *entity.Employee // bodeguero
	manager *entity.Employee // jefe de taller
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := memory.New()
	repos := db.Repos()
	log := logger.Nop()
	codes := sequence.NewGenerator(sequence.DefaultConfig())
	stock := ledger.New(codes, log)
	adjustments := inventory.NewAdjustmentUseCase(db, repos, codes, stock, log)

	e := &env{
		db:            db,
		adjustments:   adjustments,
		checks:        inventory.NewCheckUseCase(db, repos, codes, adjustments, log),
		comments:      inventory.NewCommentUseCase(repos, log),
		movements:     inventory.NewMovementUseCase(db, repos, stock, log),
		replenishment: inventory.NewReplenishmentUseCase(repos),
		clock:         t0,
	}
	e.clerk = e.employee(t, "E-100", "bodeguero", true)
	e.manager = e.employee(t, "E-200", "jefe_taller", true)
	return e
}

// actor devuelve un actor con marca de tiempo creciente.
func (e *env) actor() audit.Actor {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock = e.clock.Add(time.Second)
	return audit.Actor{ID: "tester", At: e.clock}
}

func (e *env) repos() repository.Repos {
	return e.db.Repos()
}

func (e *env) employee(t *testing.T, code, role string, active bool) *entity.Employee {
	t.Helper()
	emp := &entity.Employee{Code: code, FullName: "Empleado " + code, Role: role, IsActive: active}
	require.NoError(t, e.repos().Employees().Create(context.Background(), e.actor(), emp))
	return emp
}

// part crea un repuesto y carga su existencia inicial con un movimiento INBOUND.
func (e *env) part(t *testing.T, number string, stock int, scope entity.CheckScope) *entity.Part {
	t.Helper()
	ctx := context.Background()
	p := &entity.Part{
		PartNumber:  number,
		Name:        "Repuesto " + number,
		WarehouseID: scope.WarehouseID,
		ZoneID:      scope.ZoneID,
		BinID:       scope.BinID,
	}
	require.NoError(t, e.repos().Parts().Create(ctx, e.actor(), p))
	if stock > 0 {
		_, err := e.movements.RegisterMovement(ctx, e.actor(), inventory.MovementInput{
			PartID:     p.ID,
			Type:       entity.TransactionTypeInbound,
			Quantity:   stock,
			EmployeeID: e.clerk.ID,
		})
		require.NoError(t, err)
	}
	return p
}

func (e *env) stock(t *testing.T, partID string) int {
	t.Helper()
	p, err := e.repos().Parts().GetByID(context.Background(), partID)
	require.NoError(t, err)
	return p.QuantityInStock
}

// adjustmentRows filas del libro originadas por el ajuste.
func (e *env) adjustmentRows(t *testing.T, adjustmentID string) []*entity.StockTransaction {
	t.Helper()
	rows, err := e.repos().StockTransactions().List(context.Background(),
		audit.Where(repository.ColReferenceType, entity.ReferenceTypeAdjustment).And(repository.ColReferenceID, adjustmentID))
	require.NoError(t, err)
	return rows
}

// completedCheck crea, inicia, registra los conteos indicados y completa un conteo.
func (e *env) completedCheck(t *testing.T, counts map[string]int) *entity.InventoryCheck {
	t.Helper()
	ctx := context.Background()
	check, err := e.checks.Create(ctx, e.actor(), inventory.CreateCheckInput{Name: "Conteo mensual"})
	require.NoError(t, err)
	_, err = e.checks.Start(ctx, e.actor(), check.ID, e.clerk.ID)
	require.NoError(t, err)
	for partID, qty := range counts {
		_, err := e.checks.RecordCount(ctx, e.actor(), inventory.RecordCountInput{CheckID: check.ID, PartID: partID, ActualQuantity: qty})
		require.NoError(t, err)
	}
	check, err = e.checks.Complete(ctx, e.actor(), check.ID, e.clerk.ID)
	require.NoError(t, err)
	return check
}
