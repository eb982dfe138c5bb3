package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

func TestCheck_CreateAsignaCodigoYBorrador(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first, err := e.checks.Create(ctx, e.actor(), inventory.CreateCheckInput{Name: "  Conteo bodega 1  "})
	require.NoError(t, err)
	second, err := e.checks.Create(ctx, e.actor(), inventory.CreateCheckInput{Name: "Conteo bodega 2"})
	require.NoError(t, err)

	assert.Equal(t, "IK-20260504-0001", first.Code)
	assert.Equal(t, "IK-20260504-0002", second.Code)
	assert.Equal(t, entity.CheckStatusDraft, first.Status)
	assert.Equal(t, "Conteo bodega 1", first.Name)
}

func TestCheck_CreateValidaEntrada(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.checks.Create(ctx, e.actor(), inventory.CreateCheckInput{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.checks.Create(ctx, e.actor(), inventory.CreateCheckInput{Name: "x", Scope: entity.CheckScope{ZoneID: "A"}})
	assert.ErrorIs(t, err, domain.ErrValidation, "zona sin bodega")

	_, err = e.checks.Create(ctx, e.actor(), inventory.CreateCheckInput{Name: "x", Scope: entity.CheckScope{WarehouseID: "B", BinID: "A-1"}})
	assert.ErrorIs(t, err, domain.ErrValidation, "ubicación sin zona")
}

func TestCheck_Transiciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	part := e.part(t, "P-1", 10, entity.CheckScope{})

	check, err := e.checks.Create(ctx, e.actor(), inventory.CreateCheckInput{Name: "c"})
	require.NoError(t, err)

	_, err = e.checks.Complete(ctx, e.actor(), check.ID, e.clerk.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "Draft no pasa directo a Completed")

	started, err := e.checks.Start(ctx, e.actor(), check.ID, e.clerk.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CheckStatusInProgress, started.Status)
	assert.Equal(t, e.clerk.ID, started.StartedByEmployeeID)
	require.NotNil(t, started.StartedAt)

	_, err = e.checks.Start(ctx, e.actor(), check.ID, e.clerk.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = e.checks.Complete(ctx, e.actor(), check.ID, e.clerk.ID)
	assert.ErrorIs(t, err, domain.ErrValidation, "no se completa un conteo sin ítems")

	_, err = e.checks.RecordCount(ctx, e.actor(), inventory.RecordCountInput{CheckID: check.ID, PartID: part.ID, ActualQuantity: 10})
	require.NoError(t, err)

	done, err := e.checks.Complete(ctx, e.actor(), check.ID, e.manager.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CheckStatusCompleted, done.Status)
	assert.Equal(t, e.manager.ID, done.CompletedByEmployeeID)
	require.NotNil(t, done.CompletedDate)

	_, err = e.checks.Cancel(ctx, e.actor(), check.ID, e.manager.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "Completed es terminal")
}

func TestCheck_CancelConservaItems(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	part := e.part(t, "P-1", 10, entity.CheckScope{})

	check, err := e.checks.Create(ctx, e.actor(), inventory.CreateCheckInput{Name: "c"})
	require.NoError(t, err)
	_, err = e.checks.Start(ctx, e.actor(), check.ID, e.clerk.ID)
	require.NoError(t, err)
	_, err = e.checks.RecordCount(ctx, e.actor(), inventory.RecordCountInput{CheckID: check.ID, PartID: part.ID, ActualQuantity: 8})
	require.NoError(t, err)

	cancelled, err := e.checks.Cancel(ctx, e.actor(), check.ID, e.manager.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CheckStatusCancelled, cancelled.Status)
	assert.Equal(t, e.manager.ID, cancelled.CancelledByEmployeeID)

	got, err := e.checks.Get(ctx, check.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)

	_, err = e.checks.RecordCount(ctx, e.actor(), inventory.RecordCountInput{CheckID: check.ID, PartID: part.ID, ActualQuantity: 9})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = e.checks.Start(ctx, e.actor(), check.ID, e.clerk.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "no hay reapertura")
	assert.Equal(t, 10, e.stock(t, part.ID), "cancelar no toca existencias")
}

func TestCheck_TransicionValidaEmpleado(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	inactive := e.employee(t, "E-900", "bodeguero", false)

	check, err := e.checks.Create(ctx, e.actor(), inventory.CreateCheckInput{Name: "c"})
	require.NoError(t, err)

	_, err = e.checks.Start(ctx, e.actor(), check.ID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.checks.Start(ctx, e.actor(), check.ID, inactive.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.checks.Start(ctx, e.actor(), check.ID, "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := e.checks.Get(ctx, check.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CheckStatusDraft, got.Status, "un fallo no cambia el estado")

	_, err = e.checks.Start(ctx, e.actor(), "no-existe", e.clerk.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordCount_ConservaLaFotoDelSistema(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	part := e.part(t, "P-1", 50, entity.CheckScope{})

	check, err := e.checks.Create(ctx, e.actor(), inventory.CreateCheckInput{Name: "c"})
	require.NoError(t, err)
	_, err = e.checks.Start(ctx, e.actor(), check.ID, e.clerk.ID)
	require.NoError(t, err)

	item, err := e.checks.RecordCount(ctx, e.actor(), inventory.RecordCountInput{CheckID: check.ID, PartID: part.ID, ActualQuantity: 45, Notes: "estante lleno"})
	require.NoError(t, err)
	assert.Equal(t, 50, item.SystemQuantity)
	assert.Equal(t, 45, item.ActualQuantity)
	assert.Equal(t, -5, item.DiscrepancyQuantity)
	assert.True(t, item.IsDiscrepancy)

	// Una salida entre registros no cambia la foto del primer registro.
	_, err = e.movements.RegisterMovement(ctx, e.actor(), inventory.MovementInput{
		PartID: part.ID, Type: entity.TransactionTypeOutbound, Quantity: 2, EmployeeID: e.clerk.ID,
	})
	require.NoError(t, err)

	again, err := e.checks.RecordCount(ctx, e.actor(), inventory.RecordCountInput{CheckID: check.ID, PartID: part.ID, ActualQuantity: 50})
	require.NoError(t, err)
	assert.Equal(t, item.ID, again.ID, "se actualiza el mismo ítem")
	assert.Equal(t, 50, again.SystemQuantity)
	assert.Zero(t, again.DiscrepancyQuantity)
	assert.False(t, again.IsDiscrepancy)
	assert.Equal(t, "estante lleno", again.Notes, "notas vacías no borran las anteriores")

	got, err := e.checks.Get(ctx, check.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
}

func TestRecordCount_Validaciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	inScope := e.part(t, "P-1", 5, entity.CheckScope{WarehouseID: "BOD-1", ZoneID: "A"})
	outOfScope := e.part(t, "P-2", 5, entity.CheckScope{WarehouseID: "BOD-2"})

	check, err := e.checks.Create(ctx, e.actor(), inventory.CreateCheckInput{Name: "c", Scope: entity.CheckScope{WarehouseID: "BOD-1"}})
	require.NoError(t, err)

	_, err = e.checks.RecordCount(ctx, e.actor(), inventory.RecordCountInput{CheckID: check.ID, PartID: inScope.ID, ActualQuantity: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "solo se registra en InProgress")

	_, err = e.checks.Start(ctx, e.actor(), check.ID, e.clerk.ID)
	require.NoError(t, err)

	_, err = e.checks.RecordCount(ctx, e.actor(), inventory.RecordCountInput{CheckID: check.ID, PartID: inScope.ID, ActualQuantity: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.checks.RecordCount(ctx, e.actor(), inventory.RecordCountInput{CheckID: check.ID, PartID: outOfScope.ID, ActualQuantity: 5})
	assert.ErrorIs(t, err, domain.ErrValidation, "fuera del alcance")

	_, err = e.checks.RecordCount(ctx, e.actor(), inventory.RecordCountInput{CheckID: check.ID, PartID: "no-existe", ActualQuantity: 5})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.checks.RecordCount(ctx, e.actor(), inventory.RecordCountInput{CheckID: "no-existe", PartID: inScope.ID, ActualQuantity: 5})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	item, err := e.checks.RecordCount(ctx, e.actor(), inventory.RecordCountInput{CheckID: check.ID, PartID: inScope.ID, ActualQuantity: 0})
	require.NoError(t, err, "contar cero es válido")
	assert.Equal(t, -5, item.DiscrepancyQuantity)
}

// Escenario: existencia 50, se cuentan 45, se genera y aprueba el ajuste; queda 45 con una fila en el libro.
func TestCheck_FlujoCompletoDiferenciaAprobada(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	part := e.part(t, "FLT-ACE-001", 50, entity.CheckScope{})

	check := e.completedCheck(t, map[string]int{part.ID: 45})
	assert.Equal(t, 50, e.stock(t, part.ID), "completar no toca existencias")

	adj, err := e.checks.GenerateAdjustmentFromDiscrepancies(ctx, e.actor(), check.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentStatusPending, adj.Status)
	assert.Equal(t, "ADJ-20260504-0001", adj.AdjustmentNumber)
	require.NotNil(t, adj.CheckID)
	assert.Equal(t, check.ID, *adj.CheckID)
	require.Len(t, adj.Items, 1)
	line := adj.Items[0]
	assert.Equal(t, -5, line.QuantityChange)
	assert.Equal(t, 50, line.SystemQuantityBefore)
	assert.Equal(t, 45, line.SystemQuantityAfter)
	require.NotNil(t, line.CheckItemID)
	assert.Equal(t, 50, e.stock(t, part.ID), "generar no toca existencias")

	got, err := e.checks.Get(ctx, check.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].AdjustmentItemID)
	assert.Equal(t, line.ID, *got.Items[0].AdjustmentItemID)
	assert.Equal(t, got.Items[0].ID, *line.CheckItemID)

	approved, err := e.adjustments.Approve(ctx, e.actor(), inventory.ApproveInput{AdjustmentID: adj.ID, ApproverID: e.manager.ID, Notes: "ok"})
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentStatusApproved, approved.Status)
	assert.Equal(t, e.manager.ID, approved.ApprovedByEmployeeID)
	assert.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, "ok", approved.ApprovalNotes)

	assert.Equal(t, 45, e.stock(t, part.ID))
	rows := e.adjustmentRows(t, adj.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, -5, rows[0].Quantity)
	assert.Equal(t, 45, rows[0].QuantityAfter)
	assert.Equal(t, entity.TransactionTypeAdjustment, rows[0].TransactionType)
	assert.Equal(t, e.manager.ID, rows[0].ProcessedByEmployeeID)
	assert.Equal(t, adj.AdjustmentNumber, rows[0].Notes)

	r, err := e.movements.Reconcile(ctx, part.ID)
	require.NoError(t, err)
	assert.True(t, r.Consistent)
}

func TestGenerateAdjustment_Idempotente(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.part(t, "P-A", 10, entity.CheckScope{})
	b := e.part(t, "P-B", 4, entity.CheckScope{})
	c := e.part(t, "P-C", 7, entity.CheckScope{})
	check := e.completedCheck(t, map[string]int{a.ID: 8, b.ID: 6, c.ID: 7})

	first, err := e.checks.GenerateAdjustmentFromDiscrepancies(ctx, e.actor(), check.ID)
	require.NoError(t, err)
	assert.Len(t, first.Items, 2, "solo los ítems con diferencia")

	second, err := e.checks.GenerateAdjustmentFromDiscrepancies(ctx, e.actor(), check.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "se devuelve el ajuste vivo existente")
	assert.Len(t, second.Items, 2)

	list, err := e.adjustments.List(ctx, inventory.ListAdjustmentsFilter{CheckID: check.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// Aprobado sigue contando como vivo.
	_, err = e.adjustments.Approve(ctx, e.actor(), inventory.ApproveInput{AdjustmentID: first.ID, ApproverID: e.manager.ID})
	require.NoError(t, err)
	third, err := e.checks.GenerateAdjustmentFromDiscrepancies(ctx, e.actor(), check.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, third.ID)
	assert.Equal(t, entity.AdjustmentStatusApproved, third.Status)
}

func TestGenerateAdjustment_TrasRechazoSeProponeDeNuevo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	part := e.part(t, "P-1", 10, entity.CheckScope{})
	check := e.completedCheck(t, map[string]int{part.ID: 7})

	first, err := e.checks.GenerateAdjustmentFromDiscrepancies(ctx, e.actor(), check.ID)
	require.NoError(t, err)
	_, err = e.adjustments.Reject(ctx, e.actor(), inventory.RejectInput{AdjustmentID: first.ID, ApproverID: e.manager.ID, Reason: "recontar"})
	require.NoError(t, err)

	second, err := e.checks.GenerateAdjustmentFromDiscrepancies(ctx, e.actor(), check.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "ADJ-20260504-0002", second.AdjustmentNumber)
	require.Len(t, second.Items, 1)
	assert.Equal(t, -3, second.Items[0].QuantityChange)
	assert.Equal(t, 10, e.stock(t, part.ID))
}

func TestGenerateAdjustment_Precondiciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	part := e.part(t, "P-1", 10, entity.CheckScope{})

	draft, err := e.checks.Create(ctx, e.actor(), inventory.CreateCheckInput{Name: "c"})
	require.NoError(t, err)
	_, err = e.checks.GenerateAdjustmentFromDiscrepancies(ctx, e.actor(), draft.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	clean := e.completedCheck(t, map[string]int{part.ID: 10})
	_, err = e.checks.GenerateAdjustmentFromDiscrepancies(ctx, e.actor(), clean.ID)
	assert.ErrorIs(t, err, domain.ErrValidation, "sin diferencias no hay ajuste")

	_, err = e.checks.GenerateAdjustmentFromDiscrepancies(ctx, e.actor(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheck_ListPorEstado(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	part := e.part(t, "P-1", 10, entity.CheckScope{})

	_, err := e.checks.Create(ctx, e.actor(), inventory.CreateCheckInput{Name: "borrador"})
	require.NoError(t, err)
	done := e.completedCheck(t, map[string]int{part.ID: 10})

	all, err := e.checks.List(ctx, inventory.ListChecksFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, done.ID, all[0].ID, "más recientes primero")

	completed, err := e.checks.List(ctx, inventory.ListChecksFilter{Status: entity.CheckStatusCompleted})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, done.ID, completed[0].ID)
}
