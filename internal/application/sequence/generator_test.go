package sequence_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Taller-api/internal/application/sequence"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/audit"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/infrastructure/memory"
)

var day = time.Date(2026, 5, 4, 15, 30, 0, 0, time.UTC)

func TestFormat(t *testing.T) {
	assert.Equal(t, "IK-20260504-0007", sequence.Format("IK", day, 7, 4))
	assert.Equal(t, "ADJ-20260504-0123", sequence.Format("ADJ", day, 123, 4))
	assert.Equal(t, "ST-20260504-12345", sequence.Format("ST", day, 12345, 4), "si el número excede el ancho no se trunca")
	assert.Equal(t, "ST-20260504-000001", sequence.Format("ST", day, 1, 6))
}

func TestNextCode_IncrementaPorPrefijoYDia(t *testing.T) {
	ctx := context.Background()
	seq := memory.New().Repos().Sequences()
	gen := sequence.NewGenerator(sequence.DefaultConfig())

	next := func(prefix string, date time.Time) string {
		code, err := gen.NextCode(ctx, seq, nil, prefix, date)
		require.NoError(t, err)
		return code
	}

	assert.Equal(t, "IK-20260504-0001", next("IK", day))
	assert.Equal(t, "IK-20260504-0002", next("IK", day))
	assert.Equal(t, "ADJ-20260504-0001", next("ADJ", day), "cada prefijo tiene su contador")
	assert.Equal(t, "IK-20260505-0001", next("IK", day.AddDate(0, 0, 1)), "el contador reinicia cada día")
	assert.Equal(t, "IK-20260504-0003", next("IK", day))
}

func TestNextCode_AnchoPorPrefijo(t *testing.T) {
	gen := sequence.NewGenerator(sequence.Config{DefaultWidth: 4, Widths: map[string]int{"ST": 6}})
	code, err := gen.NextCode(context.Background(), memory.New().Repos().Sequences(), nil, "ST", day)
	require.NoError(t, err)
	assert.Equal(t, "ST-20260504-000001", code)
	assert.Equal(t, 4, gen.Width("IK"))
}

func TestNextCode_DiaEnZonaConfigurada(t *testing.T) {
	bogota := time.FixedZone("COT", -5*60*60)
	// 21:30 del 4 de mayo en Bogotá; en UTC ya es 5 de mayo.
	noche := time.Date(2026, 5, 5, 2, 30, 0, 0, time.UTC)

	local := sequence.NewGenerator(sequence.Config{DefaultWidth: 4, Location: bogota})
	code, err := local.NextCode(context.Background(), memory.New().Repos().Sequences(), nil, "ADJ", noche)
	require.NoError(t, err)
	assert.Equal(t, "ADJ-20260504-0001", code)

	utc := sequence.NewGenerator(sequence.Config{DefaultWidth: 4})
	code, err = utc.NextCode(context.Background(), memory.New().Repos().Sequences(), nil, "ADJ", noche.In(bogota))
	require.NoError(t, err)
	assert.Equal(t, "ADJ-20260505-0001", code, "sin zona se usa UTC aunque la fecha venga en otra zona")
}

func TestNextCode_PrefijoVacio(t *testing.T) {
	gen := sequence.NewGenerator(sequence.DefaultConfig())
	_, err := gen.NextCode(context.Background(), memory.New().Repos().Sequences(), nil, "", day)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNextCode_ConcurrenteSinDuplicados(t *testing.T) {
	const workers = 64
	ctx := context.Background()
	db := memory.New()
	gen := sequence.NewGenerator(sequence.DefaultConfig())

	var (
		mu    sync.Mutex
		codes = map[string]bool{}
	)
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			return db.Run(ctx, func(repos repository.Repos) error {
				code, err := gen.NextCode(ctx, repos.Sequences(), nil, sequence.PrefixAdjustment, day)
				if err != nil {
					return err
				}
				mu.Lock()
				defer mu.Unlock()
				if codes[code] {
					return errors.New("código duplicado " + code)
				}
				codes[code] = true
				return nil
			})
		})
	}
	require.NoError(t, g.Wait())
	assert.Len(t, codes, workers)
	assert.True(t, codes["ADJ-20260504-0001"])
	assert.True(t, codes["ADJ-20260504-0064"])
}

func TestNextCode_SaltaCodigosExistentes(t *testing.T) {
	ctx := context.Background()
	repos := memory.New().Repos()
	gen := sequence.NewGenerator(sequence.DefaultConfig())
	actor := audit.Actor{ID: "alice", At: day}

	// Fila escrita sin pasar por el contador, incluso eliminada.
	taken := &entity.InventoryCheck{Code: "IK-20260504-0001", Name: "importado", Status: entity.CheckStatusDraft}
	require.NoError(t, repos.Checks().Create(ctx, actor, taken))
	require.NoError(t, repos.Checks().Delete(ctx, actor, taken.ID))

	code, err := gen.NextCode(ctx, repos.Sequences(), sequence.CodeExists(repos.Checks(), repository.ColCode), sequence.PrefixInventoryCheck, day)
	require.NoError(t, err)
	assert.Equal(t, "IK-20260504-0002", code)
}

func TestNextCode_AgotaIntentos(t *testing.T) {
	ctx := context.Background()
	seq := memory.New().Repos().Sequences()
	gen := sequence.NewGenerator(sequence.Config{DefaultWidth: 4, MaxAttempts: 3})

	calls := 0
	alwaysTaken := func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	}
	_, err := gen.NextCode(ctx, seq, alwaysTaken, "IK", day)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 3, calls)

	code, err := gen.NextCode(ctx, seq, nil, "IK", day)
	require.NoError(t, err)
	assert.Equal(t, "IK-20260504-0004", code, "los intentos fallidos consumen números")
}

func TestNextCode_ErrorDeExistencia(t *testing.T) {
	boom := errors.New("boom")
	gen := sequence.NewGenerator(sequence.DefaultConfig())
	_, err := gen.NextCode(context.Background(), memory.New().Repos().Sequences(),
		func(context.Context, string) (bool, error) { return false, boom }, "IK", day)
	assert.ErrorIs(t, err, boom)
}

func TestNextCode_RollbackLiberaElNumero(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	gen := sequence.NewGenerator(sequence.DefaultConfig())
	boom := errors.New("fallo posterior")

	err := db.Run(ctx, func(repos repository.Repos) error {
		_, err := gen.NextCode(ctx, repos.Sequences(), nil, "IK", day)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	code, err := gen.NextCode(ctx, db.Repos().Sequences(), nil, "IK", day)
	require.NoError(t, err)
	assert.Equal(t, "IK-20260504-0001", code)
}
