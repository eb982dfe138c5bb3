package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// Table backend crudo de una entidad (PostgreSQL o memoria). No conoce reglas de auditoría:
// escribe lo que recibe y filtra según Query.Visibility.
// Get y Update devuelven domain.ErrNotFound si no hay fila; las violaciones de unicidad
// se traducen a domain.ErrConflict.
type Table[T entity.Auditable] interface {
	Insert(ctx context.Context, e T) error
	Update(ctx context.Context, e T) error
	Get(ctx context.Context, id string, vis Visibility, forUpdate bool) (T, error)
	Find(ctx context.Context, q Query) ([]T, error)
	Count(ctx context.Context, q Query) (int, error)
}

// Store decorador de auditoría y borrado lógico sobre un Table.
// Toda escritura estampa al actor; Delete nunca borra la fila.
type Store[T entity.Auditable] struct {
	table Table[T]
}

// NewStore envuelve el backend.
func NewStore[T entity.Auditable](table Table[T]) *Store[T] {
	return &Store[T]{table: table}
}

func requireActor(actor Actor) error {
	if !actor.Valid() {
		return fmt.Errorf("%w: escritura auditada sin actor (id %q)", domain.ErrValidation, actor.ID)
	}
	return nil
}

// Create asigna ID (si falta) y los campos de creación.
func (s *Store[T]) Create(ctx context.Context, actor Actor, e T) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if e.GetID() == "" {
		e.SetID(uuid.New().String())
	}
	e.AuditFields().StampCreate(actor.ID, actor.At)
	return s.table.Insert(ctx, e)
}

// Update estampa UpdatedAt/UpdatedBy. Los campos de creación y de lápida se toman
// siempre de la fila almacenada, así que el llamador no puede alterarlos.
func (s *Store[T]) Update(ctx context.Context, actor Actor, e T) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	current, err := s.table.Get(ctx, e.GetID(), Active, false)
	if err != nil {
		return err
	}
	stored := current.AuditFields()
	a := e.AuditFields()
	a.CreatedAt = stored.CreatedAt
	a.CreatedBy = stored.CreatedBy
	a.ClearDeleted()
	a.StampUpdate(actor.ID, actor.At)
	return s.table.Update(ctx, e)
}

// Delete marca la lápida (IsDeleted, DeletedAt, DeletedBy).
func (s *Store[T]) Delete(ctx context.Context, actor Actor, id string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	current, err := s.table.Get(ctx, id, Active, true)
	if err != nil {
		return err
	}
	current.AuditFields().MarkDeleted(actor.ID, actor.At)
	return s.table.Update(ctx, current)
}

// Restore limpia la lápida conservando identidad y CreatedAt; cuenta como actualización.
func (s *Store[T]) Restore(ctx context.Context, actor Actor, id string) (T, error) {
	if err := requireActor(actor); err != nil {
		var zero T
		return zero, err
	}
	current, err := s.table.Get(ctx, id, Deleted, true)
	if err != nil {
		var zero T
		return zero, err
	}
	a := current.AuditFields()
	a.ClearDeleted()
	a.StampUpdate(actor.ID, actor.At)
	if err := s.table.Update(ctx, current); err != nil {
		var zero T
		return zero, err
	}
	return current, nil
}

// GetByID devuelve el registro activo o domain.ErrNotFound.
func (s *Store[T]) GetByID(ctx context.Context, id string) (T, error) {
	return s.table.Get(ctx, id, Active, false)
}

// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
func (s *Store[T]) GetForUpdate(ctx context.Context, id string) (T, error) {
	return s.table.Get(ctx, id, Active, true)
}

// GetDeleted devuelve un registro eliminado (vista administrativa).
func (s *Store[T]) GetDeleted(ctx context.Context, id string) (T, error) {
	return s.table.Get(ctx, id, Deleted, false)
}

// List lista registros activos.
func (s *Store[T]) List(ctx context.Context, q Query) ([]T, error) {
	q.Visibility = Active
	return s.table.Find(ctx, q)
}

// ListDeleted lista solo registros eliminados.
func (s *Store[T]) ListDeleted(ctx context.Context, q Query) ([]T, error) {
	q.Visibility = Deleted
	q.ForUpdate = false
	return s.table.Find(ctx, q)
}

// Count cuenta registros activos.
func (s *Store[T]) Count(ctx context.Context, q Query) (int, error) {
	q.Visibility = Active
	return s.table.Count(ctx, q)
}

// Exists indica si algún registro, activo o eliminado, cumple la consulta.
// Pensado para verificar unicidad de códigos.
func (s *Store[T]) Exists(ctx context.Context, q Query) (bool, error) {
	q.Visibility = All
	q.ForUpdate = false
	n, err := s.table.Count(ctx, q)
	if err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return n > 0, nil
}

// FirstWhere devuelve el primer registro activo que cumple la consulta o domain.ErrNotFound.
func (s *Store[T]) FirstWhere(ctx context.Context, q Query) (T, error) {
	q.Limit = 1
	list, err := s.List(ctx, q)
	if err != nil {
		var zero T
		return zero, err
	}
	if len(list) == 0 {
		var zero T
		return zero, domain.ErrNotFound
	}
	return list[0], nil
}
