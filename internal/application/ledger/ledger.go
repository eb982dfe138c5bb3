package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jhoicas/Taller-api/internal/application/sequence"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/audit"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/pkg/logger"
	"github.com/jhoicas/Taller-api/pkg/metrics"
)

const balancePageSize = 500

// Ledger libro de stock: única vía para modificar Part.QuantityInStock.
// No abre transacciones; opera con los repositorios de la transacción del llamador.
type Ledger struct {
	codes *sequence.Generator
	log   *logger.Logger
}

// New construye el libro.
func New(codes *sequence.Generator, log *logger.Logger) *Ledger {
	return &Ledger{codes: codes, log: log}
}

// PostInput datos de un movimiento.
type PostInput struct {
	PartID        string
	Delta         int
	Type          string
	ReferenceType string
	ReferenceID   string
	EmployeeID    string
	Notes         string
	AllowNegative bool // baja autorizada: permite dejar la existencia en negativo
}

// Post bloquea la fila del repuesto (SELECT FOR UPDATE), valida que la existencia no quede
// negativa, actualiza QuantityInStock y agrega la fila al libro, todo en la tx de repos.
// Generar el código toma el contador ST del día; quien publica varias líneas en una misma tx
// debe llamar antes a LockParts para que ningún repuesto se bloquee después del contador.
func (l *Ledger) Post(ctx context.Context, repos repository.Repos, actor audit.Actor, in PostInput) (*entity.StockTransaction, error) {
	if in.PartID == "" {
		return nil, domain.Validationf("part_id requerido")
	}
	if in.Delta == 0 {
		return nil, domain.Validationf("el movimiento no puede ser cero")
	}
	if !entity.IsValidTransactionType(in.Type) {
		return nil, domain.Validationf("tipo de transacción desconocido %q", in.Type)
	}

	part, err := repos.Parts().GetForUpdate(ctx, in.PartID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("repuesto %s: %w", in.PartID, domain.ErrNotFound)
		}
		return nil, err
	}

	after := part.QuantityInStock + in.Delta
	if after < 0 && !in.AllowNegative {
		metrics.StockRejections.WithLabelValues(in.Type).Inc()
		return nil, &domain.StockError{
			PartID:     part.ID,
			PartNumber: part.PartNumber,
			OnHand:     part.QuantityInStock,
			Delta:      in.Delta,
		}
	}

	code, err := l.codes.NextCode(ctx, repos.Sequences(),
		sequence.CodeExists(repos.StockTransactions(), repository.ColTransactionCode),
		sequence.PrefixStockTransaction, actor.At)
	if err != nil {
		return nil, err
	}

	part.QuantityInStock = after
	if err := repos.Parts().Update(ctx, actor, part); err != nil {
		return nil, fmt.Errorf("actualizar existencia: %w", err)
	}

	tx := &entity.StockTransaction{
		TransactionCode:       code,
		PartID:                part.ID,
		Quantity:              in.Delta,
		QuantityAfter:         after,
		TransactionType:       in.Type,
		ReferenceType:         in.ReferenceType,
		ReferenceID:           in.ReferenceID,
		ProcessedByEmployeeID: in.EmployeeID,
		Notes:                 in.Notes,
		TransactionDate:       actor.At,
	}
	if err := repos.StockTransactions().Create(ctx, actor, tx); err != nil {
		return nil, fmt.Errorf("registrar transacción de stock: %w", err)
	}

	metrics.StockTransactions.WithLabelValues(in.Type).Inc()
	l.log.Debug().
		Str("part_id", part.ID).
		Int("delta", in.Delta).
		Int("quantity_after", after).
		Str("type", in.Type).
		Str("code", code).
		Msg("movimiento de stock registrado")
	return tx, nil
}

// LockParts bloquea los repuestos en orden de id. Orden de bloqueo en toda publicación:
// repuestos ordenados, después el contador de códigos.
func (l *Ledger) LockParts(ctx context.Context, repos repository.Repos, partIDs []string) error {
	ids := slices.Clone(partIDs)
	slices.Sort(ids)
	for _, id := range slices.Compact(ids) {
		if _, err := repos.Parts().GetForUpdate(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("repuesto %s: %w", id, domain.ErrNotFound)
			}
			return err
		}
	}
	return nil
}

// Balance suma todos los deltas del libro para el repuesto (reproducción desde cero).
func (l *Ledger) Balance(ctx context.Context, repos repository.Repos, partID string) (int, error) {
	sum := 0
	q := audit.Where(repository.ColPartID, partID).Order(repository.ColCreatedAt, false)
	for offset := 0; ; offset += balancePageSize {
		page, err := repos.StockTransactions().List(ctx, q.Page(balancePageSize, offset))
		if err != nil {
			return 0, fmt.Errorf("leer libro de stock: %w", err)
		}
		for _, t := range page {
			sum += t.Quantity
		}
		if len(page) < balancePageSize {
			return sum, nil
		}
	}
}

// Reconciliation resultado de comparar el libro con la existencia del repuesto.
type Reconciliation struct {
	PartID          string
	PartNumber      string
	QuantityInStock int
	LedgerBalance   int
	Difference      int
	Consistent      bool
}

// Reconcile compara QuantityInStock con la suma del libro. No corrige nada.
func (l *Ledger) Reconcile(ctx context.Context, repos repository.Repos, partID string) (*Reconciliation, error) {
	part, err := repos.Parts().GetByID(ctx, partID)
	if err != nil {
		return nil, err
	}
	balance, err := l.Balance(ctx, repos, partID)
	if err != nil {
		return nil, err
	}
	r := &Reconciliation{
		PartID:          part.ID,
		PartNumber:      part.PartNumber,
		QuantityInStock: part.QuantityInStock,
		LedgerBalance:   balance,
		Difference:      part.QuantityInStock - balance,
	}
	r.Consistent = r.Difference == 0
	if !r.Consistent {
		l.log.Warn().
			Str("part_id", part.ID).
			Int("quantity_in_stock", part.QuantityInStock).
			Int("ledger_balance", balance).
			Msg("existencia no coincide con el libro de stock")
	}
	return r, nil
}

// History lista las transacciones de un repuesto, más recientes primero.
func (l *Ledger) History(ctx context.Context, repos repository.Repos, partID string, limit, offset int) ([]*entity.StockTransaction, error) {
	if _, err := repos.Parts().GetByID(ctx, partID); err != nil {
		return nil, err
	}
	q := audit.Where(repository.ColPartID, partID).Order(repository.ColCreatedAt, true).Page(limit, offset)
	return repos.StockTransactions().List(ctx, q)
}
