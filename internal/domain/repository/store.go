package repository

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/audit"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// Reader lecturas sobre registros activos (IsDeleted = false).
type Reader[T entity.Auditable] interface {
	GetByID(ctx context.Context, id string) (T, error)
	List(ctx context.Context, q audit.Query) ([]T, error)
	Count(ctx context.Context, q audit.Query) (int, error)
	Exists(ctx context.Context, q audit.Query) (bool, error)
	FirstWhere(ctx context.Context, q audit.Query) (T, error)
}

// AppendOnly registros inmutables: solo se crean (libro de stock, comentarios).
type AppendOnly[T entity.Auditable] interface {
	Reader[T]
	Create(ctx context.Context, actor audit.Actor, e T) error
}

// Store contrato completo del almacén auditado con borrado lógico.
type Store[T entity.Auditable] interface {
	AppendOnly[T]
	Update(ctx context.Context, actor audit.Actor, e T) error
	Delete(ctx context.Context, actor audit.Actor, id string) error
	Restore(ctx context.Context, actor audit.Actor, id string) (T, error)
	GetForUpdate(ctx context.Context, id string) (T, error)
	GetDeleted(ctx context.Context, id string) (T, error)
	ListDeleted(ctx context.Context, q audit.Query) ([]T, error)
}

var (
	_ Store[*entity.Part]                  = (*audit.Store[*entity.Part])(nil)
	_ AppendOnly[*entity.StockTransaction] = (*audit.Store[*entity.StockTransaction])(nil)
)

// SequenceRepository contador atómico por prefijo y día. Next incrementa y devuelve el nuevo valor
// dentro de la transacción del llamador; la fila queda bloqueada hasta el commit.
type SequenceRepository interface {
	Next(ctx context.Context, prefix, day string) (int, error)
}

// Repos repositorios atados a una misma conexión o transacción.
type Repos interface {
	Parts() Store[*entity.Part]
	Employees() Store[*entity.Employee]
	Checks() Store[*entity.InventoryCheck]
	CheckItems() Store[*entity.InventoryCheckItem]
	Adjustments() Store[*entity.InventoryAdjustment]
	AdjustmentItems() Store[*entity.InventoryAdjustmentItem]
	StockTransactions() AppendOnly[*entity.StockTransaction]
	Comments() AppendOnly[*entity.Comment]
	Sequences() SequenceRepository
}
