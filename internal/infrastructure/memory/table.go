package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/audit"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// UniqueKey restricción de unicidad. ActiveOnly equivale a un índice parcial WHERE NOT is_deleted.
type UniqueKey[T entity.Auditable] struct {
	Name       string
	Key        func(T) string // "" no participa
	ActiveOnly bool
}

// Spec describe una tabla: cómo copiar la entidad, qué columnas se pueden filtrar u ordenar
// y sus restricciones de unicidad.
type Spec[T entity.Auditable] struct {
	Name    string
	Clone   func(T) T
	Columns map[string]func(T) any
	Unique  []UniqueKey[T]
}

func (s *Spec[T]) column(name string) (func(T) any, error) {
	switch name {
	case repository.ColID:
		return func(e T) any { return e.GetID() }, nil
	case repository.ColCreatedAt:
		return func(e T) any { return e.AuditFields().CreatedAt }, nil
	}
	if f, ok := s.Columns[name]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("memory: columna desconocida %s.%s", s.Name, name)
}

// Table implementa audit.Table sobre una sesión.
type Table[T entity.Auditable] struct {
	spec *Spec[T]
	sess *session
}

var _ audit.Table[*entity.Part] = (*Table[*entity.Part])(nil)

func newTable[T entity.Auditable](spec *Spec[T], sess *session) *Table[T] {
	return &Table[T]{spec: spec, sess: sess}
}

func (t *Table[T]) Insert(ctx context.Context, e T) error {
	return t.sess.write(ctx, func(st *state) error {
		if _, ok := st.table(t.spec.Name)[e.GetID()]; ok {
			return fmt.Errorf("%w: %s %s ya existe", domain.ErrConflict, t.spec.Name, e.GetID())
		}
		if err := t.checkUnique(st, e); err != nil {
			return err
		}
		st.mutable(t.spec.Name)[e.GetID()] = record{seq: st.nextSeq(), val: t.spec.Clone(e)}
		return nil
	})
}

func (t *Table[T]) Update(ctx context.Context, e T) error {
	return t.sess.write(ctx, func(st *state) error {
		cur, ok := st.table(t.spec.Name)[e.GetID()]
		if !ok {
			return domain.ErrNotFound
		}
		if err := t.checkUnique(st, e); err != nil {
			return err
		}
		st.mutable(t.spec.Name)[e.GetID()] = record{seq: cur.seq, val: t.spec.Clone(e)}
		return nil
	})
}

// Get forUpdate no tiene efecto: las transacciones ya están serializadas.
func (t *Table[T]) Get(ctx context.Context, id string, vis audit.Visibility, _ bool) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	rec, ok := t.sess.read().table(t.spec.Name)[id]
	if !ok {
		return zero, domain.ErrNotFound
	}
	e := rec.val.(T)
	if !visible(e, vis) {
		return zero, domain.ErrNotFound
	}
	return t.spec.Clone(e), nil
}

func (t *Table[T]) Find(ctx context.Context, q audit.Query) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	recs, err := t.match(q)
	if err != nil {
		return nil, err
	}
	if q.OrderBy != "" {
		col, err := t.spec.column(q.OrderBy)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(recs, func(i, j int) bool {
			c := compare(col(recs[i].val.(T)), col(recs[j].val.(T)))
			if c == 0 {
				return recs[i].seq < recs[j].seq
			}
			if q.Desc {
				return c > 0
			}
			return c < 0
		})
	}
	if q.Offset > 0 {
		if q.Offset >= len(recs) {
			recs = nil
		} else {
			recs = recs[q.Offset:]
		}
	}
	if q.Limit > 0 && len(recs) > q.Limit {
		recs = recs[:q.Limit]
	}
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		out = append(out, t.spec.Clone(r.val.(T)))
	}
	return out, nil
}

func (t *Table[T]) Count(ctx context.Context, q audit.Query) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	recs, err := t.match(q)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

// match filtra por visibilidad y filtros; el resultado sale en orden de inserción.
func (t *Table[T]) match(q audit.Query) ([]record, error) {
	type filter struct {
		col   func(T) any
		value any
	}
	filters := make([]filter, 0, len(q.Filters))
	for _, f := range q.Filters {
		col, err := t.spec.column(f.Column)
		if err != nil {
			return nil, err
		}
		filters = append(filters, filter{col: col, value: f.Value})
	}

	var out []record
	for _, rec := range t.sess.read().table(t.spec.Name) {
		e := rec.val.(T)
		if !visible(e, q.Visibility) {
			continue
		}
		ok := true
		for _, f := range filters {
			if compare(f.col(e), f.value) != 0 {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out, nil
}

func (t *Table[T]) checkUnique(st *state, e T) error {
	for _, u := range t.spec.Unique {
		if u.ActiveOnly && e.AuditFields().IsDeleted {
			continue
		}
		key := u.Key(e)
		if key == "" {
			continue
		}
		for id, rec := range st.table(t.spec.Name) {
			if id == e.GetID() {
				continue
			}
			other := rec.val.(T)
			if u.ActiveOnly && other.AuditFields().IsDeleted {
				continue
			}
			if u.Key(other) == key {
				return fmt.Errorf("%w: %s duplicado (%s)", domain.ErrConflict, u.Name, key)
			}
		}
	}
	return nil
}

func visible[T entity.Auditable](e T, vis audit.Visibility) bool {
	switch vis {
	case audit.Deleted:
		return e.AuditFields().IsDeleted
	case audit.All:
		return true
	}
	return !e.AuditFields().IsDeleted
}

// compare ordena los tipos de columna que usan las entidades. Los punteros nil van primero.
func compare(a, b any) int {
	a, b = deref(a), deref(b)
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case int:
		if y, ok := b.(int); ok {
			return x - y
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	}
	// Tipos distintos nunca son iguales.
	if fmt.Sprintf("%T", a) < fmt.Sprintf("%T", b) {
		return -1
	}
	return 1
}

func deref(v any) any {
	switch p := v.(type) {
	case *string:
		if p == nil {
			return nil
		}
		return *p
	case *time.Time:
		if p == nil {
			return nil
		}
		return *p
	}
	return v
}
