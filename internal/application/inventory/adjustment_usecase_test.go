package inventory_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/application/ledger"
	"github.com/jhoicas/Taller-api/internal/application/sequence"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

func TestAdjustment_CreateNoTocaExistencias(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.part(t, "P-A", 10, entity.CheckScope{})
	b := e.part(t, "P-B", 3, entity.CheckScope{})

	adj, err := e.adjustments.Create(ctx, e.actor(), inventory.CreateAdjustmentInput{
		Reason: "Daño en bodega",
		Items: []inventory.AdjustmentItemInput{
			{PartID: b.ID, QuantityChange: -1},
			{PartID: a.ID, QuantityChange: 4},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentStatusPending, adj.Status)
	assert.Equal(t, "ADJ-20260504-0001", adj.AdjustmentNumber)
	assert.Nil(t, adj.CheckID)
	require.Len(t, adj.Items, 2)
	assert.Equal(t, b.ID, adj.Items[0].PartID, "las líneas conservan el orden de entrada")
	assert.Equal(t, 3, adj.Items[0].SystemQuantityBefore)
	assert.Equal(t, 2, adj.Items[0].SystemQuantityAfter)
	assert.Equal(t, 14, adj.Items[1].SystemQuantityAfter)

	assert.Equal(t, 10, e.stock(t, a.ID))
	assert.Equal(t, 3, e.stock(t, b.ID))

	got, err := e.adjustments.Get(ctx, adj.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
}

func TestAdjustment_CreateValidaciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	part := e.part(t, "P-1", 5, entity.CheckScope{})
	missing := "no-existe"

	tests := []struct {
		name string
		in   inventory.CreateAdjustmentInput
	}{
		{name: "sin motivo", in: inventory.CreateAdjustmentInput{Reason: " ", Items: []inventory.AdjustmentItemInput{{PartID: part.ID, QuantityChange: 1}}}},
		{name: "sin líneas", in: inventory.CreateAdjustmentInput{Reason: "r"}},
		{name: "cambio cero", in: inventory.CreateAdjustmentInput{Reason: "r", Items: []inventory.AdjustmentItemInput{{PartID: part.ID, QuantityChange: 0}}}},
		{name: "repuesto repetido", in: inventory.CreateAdjustmentInput{Reason: "r", Items: []inventory.AdjustmentItemInput{
			{PartID: part.ID, QuantityChange: 1}, {PartID: part.ID, QuantityChange: 2},
		}}},
		{name: "repuesto inexistente", in: inventory.CreateAdjustmentInput{Reason: "r", Items: []inventory.AdjustmentItemInput{{PartID: missing, QuantityChange: 1}}}},
		{name: "conteo inexistente", in: inventory.CreateAdjustmentInput{Reason: "r", CheckID: &missing, Items: []inventory.AdjustmentItemInput{{PartID: part.ID, QuantityChange: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.adjustments.Create(ctx, e.actor(), tt.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	list, err := e.adjustments.List(ctx, inventory.ListAdjustmentsFilter{})
	require.NoError(t, err)
	assert.Empty(t, list, "ningún intento fallido deja cabeceras")
}

// Escenario: existencia 2 y ajuste de -5; sin autorización la aprobación falla sin cambiar nada.
func TestApprove_RechazaExistenciaNegativaSinAutorizacion(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	part := e.part(t, "P-1", 2, entity.CheckScope{})

	adj, err := e.adjustments.Create(ctx, e.actor(), inventory.CreateAdjustmentInput{
		Reason: "Pérdida", Items: []inventory.AdjustmentItemInput{{PartID: part.ID, QuantityChange: -5}},
	})
	require.NoError(t, err)

	_, err = e.adjustments.Approve(ctx, e.actor(), inventory.ApproveInput{AdjustmentID: adj.ID, ApproverID: e.manager.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	var stockErr *domain.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, part.ID, stockErr.PartID)

	got, err := e.adjustments.Get(ctx, adj.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentStatusPending, got.Status)
	assert.Empty(t, got.ApprovedByEmployeeID)
	assert.Equal(t, 2, e.stock(t, part.ID))
	assert.Empty(t, e.adjustmentRows(t, adj.ID))

	approved, err := e.adjustments.Approve(ctx, e.actor(), inventory.ApproveInput{
		AdjustmentID: adj.ID, ApproverID: e.manager.ID, AllowNegativeStock: true, Notes: "baja autorizada",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentStatusApproved, approved.Status)
	assert.Equal(t, -3, e.stock(t, part.ID))
	assert.Len(t, e.adjustmentRows(t, adj.ID), 1)
}

func TestApprove_EsAtomico(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ok := e.part(t, "P-A", 10, entity.CheckScope{})
	short := e.part(t, "P-B", 1, entity.CheckScope{})

	adj, err := e.adjustments.Create(ctx, e.actor(), inventory.CreateAdjustmentInput{
		Reason: "r",
		Items: []inventory.AdjustmentItemInput{
			{PartID: ok.ID, QuantityChange: 5},
			{PartID: short.ID, QuantityChange: -2},
		},
	})
	require.NoError(t, err)

	_, err = e.adjustments.Approve(ctx, e.actor(), inventory.ApproveInput{AdjustmentID: adj.ID, ApproverID: e.manager.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	assert.Equal(t, 10, e.stock(t, ok.ID), "la línea válida tampoco se aplica")
	assert.Equal(t, 1, e.stock(t, short.ID))
	assert.Empty(t, e.adjustmentRows(t, adj.ID))
}

func TestApprove_UsaExistenciaActual(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	part := e.part(t, "P-1", 10, entity.CheckScope{})

	adj, err := e.adjustments.Create(ctx, e.actor(), inventory.CreateAdjustmentInput{
		Reason: "r", Items: []inventory.AdjustmentItemInput{{PartID: part.ID, QuantityChange: -4}},
	})
	require.NoError(t, err)

	_, err = e.movements.RegisterMovement(ctx, e.actor(), inventory.MovementInput{
		PartID: part.ID, Type: entity.TransactionTypeOutbound, Quantity: 8, EmployeeID: e.clerk.ID,
	})
	require.NoError(t, err)

	_, err = e.adjustments.Approve(ctx, e.actor(), inventory.ApproveInput{AdjustmentID: adj.ID, ApproverID: e.manager.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation, "2 - 4 dejaría negativo aunque la foto decía 6")
}

func TestApprove_EstadosTerminales(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	part := e.part(t, "P-1", 10, entity.CheckScope{})
	newAdj := func() *entity.InventoryAdjustment {
		adj, err := e.adjustments.Create(ctx, e.actor(), inventory.CreateAdjustmentInput{
			Reason: "r", Items: []inventory.AdjustmentItemInput{{PartID: part.ID, QuantityChange: 1}},
		})
		require.NoError(t, err)
		return adj
	}

	approved := newAdj()
	_, err := e.adjustments.Approve(ctx, e.actor(), inventory.ApproveInput{AdjustmentID: approved.ID, ApproverID: e.manager.ID})
	require.NoError(t, err)
	_, err = e.adjustments.Approve(ctx, e.actor(), inventory.ApproveInput{AdjustmentID: approved.ID, ApproverID: e.manager.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "no se aprueba dos veces")
	_, err = e.adjustments.Reject(ctx, e.actor(), inventory.RejectInput{AdjustmentID: approved.ID, ApproverID: e.manager.ID, Reason: "tarde"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 11, e.stock(t, part.ID))
	assert.Len(t, e.adjustmentRows(t, approved.ID), 1)

	rejected := newAdj()
	_, err = e.adjustments.Reject(ctx, e.actor(), inventory.RejectInput{AdjustmentID: rejected.ID, ApproverID: e.manager.ID, Reason: " "})
	assert.ErrorIs(t, err, domain.ErrValidation, "el rechazo requiere motivo")
	out, err := e.adjustments.Reject(ctx, e.actor(), inventory.RejectInput{AdjustmentID: rejected.ID, ApproverID: e.manager.ID, Reason: "mal contado"})
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentStatusRejected, out.Status)
	assert.Equal(t, "mal contado", out.RejectionReason)
	assert.Equal(t, e.manager.ID, out.RejectedByEmployeeID)
	assert.NotNil(t, out.RejectedAt)
	_, err = e.adjustments.Approve(ctx, e.actor(), inventory.ApproveInput{AdjustmentID: rejected.ID, ApproverID: e.manager.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 11, e.stock(t, part.ID), "rechazar no toca existencias")
}

func TestApprove_ValidaAprobador(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	part := e.part(t, "P-1", 10, entity.CheckScope{})
	inactive := e.employee(t, "E-900", "jefe_taller", false)
	adj, err := e.adjustments.Create(ctx, e.actor(), inventory.CreateAdjustmentInput{
		Reason: "r", Items: []inventory.AdjustmentItemInput{{PartID: part.ID, QuantityChange: 1}},
	})
	require.NoError(t, err)

	_, err = e.adjustments.Approve(ctx, e.actor(), inventory.ApproveInput{AdjustmentID: adj.ID, ApproverID: inactive.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = e.adjustments.Approve(ctx, e.actor(), inventory.ApproveInput{AdjustmentID: adj.ID, ApproverID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = e.adjustments.Approve(ctx, e.actor(), inventory.ApproveInput{AdjustmentID: "no-existe", ApproverID: e.manager.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 10, e.stock(t, part.ID))

	_, err = e.adjustments.Approve(ctx, e.actor(), inventory.ApproveInput{AdjustmentID: adj.ID, ApproverID: e.clerk.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden, "un bodeguero no aprueba")
	_, err = e.adjustments.Reject(ctx, e.actor(), inventory.RejectInput{AdjustmentID: adj.ID, ApproverID: e.clerk.ID, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "ni rechaza")
	got, err := e.adjustments.Get(ctx, adj.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentStatusPending, got.Status)
	assert.Equal(t, 10, e.stock(t, part.ID))

	admin := e.employee(t, "E-300", entity.RoleAdmin, true)
	_, err = e.adjustments.Approve(ctx, e.actor(), inventory.ApproveInput{AdjustmentID: adj.ID, ApproverID: admin.ID})
	require.NoError(t, err)
	assert.Equal(t, 11, e.stock(t, part.ID))
}

func TestApprove_ConcurrenteSoloUnaGana(t *testing.T) {
	const approvers = 8
	e := newEnv(t)
	ctx := context.Background()
	part := e.part(t, "P-1", 10, entity.CheckScope{})
	adj, err := e.adjustments.Create(ctx, e.actor(), inventory.CreateAdjustmentInput{
		Reason: "r", Items: []inventory.AdjustmentItemInput{{PartID: part.ID, QuantityChange: -3}},
	})
	require.NoError(t, err)

	results := make([]error, approvers)
	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			_, results[i] = e.adjustments.Approve(ctx, e.actor(), inventory.ApproveInput{AdjustmentID: adj.ID, ApproverID: e.manager.ID})
			return nil
		})
	}
	require.NoError(t, g.Wait())

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 7, e.stock(t, part.ID), "el delta se aplica una sola vez")
	assert.Len(t, e.adjustmentRows(t, adj.ID), 1)
}

func TestAdjustment_ListFiltros(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	part := e.part(t, "P-1", 10, entity.CheckScope{})
	for i := 0; i < 3; i++ {
		_, err := e.adjustments.Create(ctx, e.actor(), inventory.CreateAdjustmentInput{
			Reason: "r", Items: []inventory.AdjustmentItemInput{{PartID: part.ID, QuantityChange: 1}},
		})
		require.NoError(t, err)
	}
	list, err := e.adjustments.List(ctx, inventory.ListAdjustmentsFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "ADJ-20260504-0003", list[0].AdjustmentNumber, "más recientes primero")

	_, err = e.adjustments.Reject(ctx, e.actor(), inventory.RejectInput{AdjustmentID: list[0].ID, ApproverID: e.manager.ID, Reason: "x"})
	require.NoError(t, err)

	pending, err := e.adjustments.List(ctx, inventory.ListAdjustmentsFilter{Status: entity.AdjustmentStatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	page, err := e.adjustments.List(ctx, inventory.ListAdjustmentsFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "ADJ-20260504-0002", page[0].AdjustmentNumber)
}

// lockRecorder TxRunner que anota, en orden, los bloqueos de repuestos y las reservas de contador.
type lockRecorder struct {
	db     *memory.DB
	mu     sync.Mutex
	events []string
}

func (r *lockRecorder) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	return r.db.Run(ctx, func(repos repository.Repos) error {
		return fn(recordingRepos{Repos: repos, rec: r})
	})
}

func (r *lockRecorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *lockRecorder) reset() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

type recordingRepos struct {
	repository.Repos
	rec *lockRecorder
}

func (r recordingRepos) Parts() repository.Store[*entity.Part] {
	return recordingParts{Store: r.Repos.Parts(), rec: r.rec}
}

func (r recordingRepos) Sequences() repository.SequenceRepository {
	return recordingSequences{SequenceRepository: r.Repos.Sequences(), rec: r.rec}
}

type recordingParts struct {
	repository.Store[*entity.Part]
	rec *lockRecorder
}

func (p recordingParts) GetForUpdate(ctx context.Context, id string) (*entity.Part, error) {
	p.rec.add("part:" + id)
	return p.Store.GetForUpdate(ctx, id)
}

type recordingSequences struct {
	repository.SequenceRepository
	rec *lockRecorder
}

func (s recordingSequences) Next(ctx context.Context, prefix, day string) (int, error) {
	s.rec.add("seq:" + prefix)
	return s.SequenceRepository.Next(ctx, prefix, day)
}

// Todos los repuestos del ajuste se bloquean en orden de id antes de reservar el primer código ST.
func TestApprove_BloqueaRepuestosAntesDelContador(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.part(t, "P-A", 10, entity.CheckScope{})
	b := e.part(t, "P-B", 10, entity.CheckScope{})
	c := e.part(t, "P-C", 10, entity.CheckScope{})

	rec := &lockRecorder{db: e.db}
	log := logger.Nop()
	codes := sequence.NewGenerator(sequence.DefaultConfig())
	uc := inventory.NewAdjustmentUseCase(rec, e.repos(), codes, ledger.New(codes, log), log)

	adj, err := uc.Create(ctx, e.actor(), inventory.CreateAdjustmentInput{
		Reason: "r",
		Items: []inventory.AdjustmentItemInput{
			{PartID: c.ID, QuantityChange: -1},
			{PartID: a.ID, QuantityChange: 2},
			{PartID: b.ID, QuantityChange: -3},
		},
	})
	require.NoError(t, err)
	rec.reset()

	_, err = uc.Approve(ctx, e.actor(), inventory.ApproveInput{AdjustmentID: adj.ID, ApproverID: e.manager.ID})
	require.NoError(t, err)

	events := rec.reset()
	first := -1
	for i, ev := range events {
		if strings.HasPrefix(ev, "seq:") {
			first = i
			break
		}
	}
	require.Positive(t, first, "se reservan códigos ST después de bloquear")

	want := []string{a.ID, b.ID, c.ID}
	sort.Strings(want)
	var locked []string
	for _, ev := range events[:first] {
		locked = append(locked, strings.TrimPrefix(ev, "part:"))
	}
	require.GreaterOrEqual(t, len(locked), len(want))
	assert.Equal(t, want, locked[:len(want)], "bloqueo inicial ordenado por id")
	assert.Equal(t, "seq:"+sequence.PrefixStockTransaction, events[first])
}

// Ajustes distintos sobre el mismo repuesto aprobados a la vez: todos aplican y el libro cuadra.
func TestApprove_ConcurrenteAjustesDistintosMismoRepuesto(t *testing.T) {
	const n = 6
	e := newEnv(t)
	ctx := context.Background()
	shared := e.part(t, "P-COMUN", 20, entity.CheckScope{})
	other := e.part(t, "P-OTRO", 0, entity.CheckScope{})

	ids := make([]string, n)
	for i := range ids {
		adj, err := e.adjustments.Create(ctx, e.actor(), inventory.CreateAdjustmentInput{
			Reason: "r",
			Items: []inventory.AdjustmentItemInput{
				{PartID: other.ID, QuantityChange: 1},
				{PartID: shared.ID, QuantityChange: -2},
			},
		})
		require.NoError(t, err)
		ids[i] = adj.ID
	}

	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			_, err := e.adjustments.Approve(ctx, e.actor(), inventory.ApproveInput{AdjustmentID: id, ApproverID: e.manager.ID})
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 8, e.stock(t, shared.ID))
	assert.Equal(t, n, e.stock(t, other.ID))
	for _, p := range []*entity.Part{shared, other} {
		rec, err := e.movements.Reconcile(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, rec.Consistent, p.PartNumber)
	}
	codes := map[string]bool{}
	for _, id := range ids {
		for _, row := range e.adjustmentRows(t, id) {
			assert.False(t, codes[row.TransactionCode], "código ST repetido %s", row.TransactionCode)
			codes[row.TransactionCode] = true
		}
	}
	assert.Len(t, codes, 2*n)
}
