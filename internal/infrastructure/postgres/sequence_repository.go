package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contador atómico por prefijo y día en code_sequences.
// El upsert bloquea la fila del contador hasta el fin de la transacción, así que dos
// transacciones concurrentes nunca reciben el mismo valor.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

const nextSequenceSQL = `
	INSERT INTO code_sequences (prefix, day, last_value) VALUES ($1, $2, 1)
	ON CONFLICT (prefix, day) DO UPDATE SET last_value = code_sequences.last_value + 1
	RETURNING last_value`

// Next incrementa y devuelve el contador de prefix/day.
func (r *SequenceRepo) Next(ctx context.Context, prefix, day string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, nextSequenceSQL, prefix, day).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return n, nil
}
