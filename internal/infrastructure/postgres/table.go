package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/audit"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// auditColumns columnas comunes, siempre al final de cada fila.
var auditColumns = []string{
	"created_at", "created_by", "updated_at", "updated_by", "deleted_at", "deleted_by", "is_deleted",
}

// Mapping describe cómo una entidad se guarda en su tabla. Columns excluye id y auditoría;
// Values y Dest deben seguir el mismo orden que Columns.
type Mapping[T entity.Auditable] struct {
	Table   string
	Columns []string
	Values  func(T) []any
	Dest    func(T) []any
	New     func() T
}

func (m *Mapping[T]) allColumns() []string {
	cols := make([]string, 0, len(m.Columns)+len(auditColumns)+1)
	cols = append(cols, "id")
	cols = append(cols, m.Columns...)
	return append(cols, auditColumns...)
}

func (m *Mapping[T]) values(e T) []any {
	a := e.AuditFields()
	vals := append([]any{e.GetID()}, m.Values(e)...)
	return append(vals, a.CreatedAt, a.CreatedBy, a.UpdatedAt, a.UpdatedBy, a.DeletedAt, a.DeletedBy, a.IsDeleted)
}

func (m *Mapping[T]) known(col string) bool {
	if col == repository.ColID || col == repository.ColCreatedAt {
		return true
	}
	for _, c := range m.Columns {
		if c == col {
			return true
		}
	}
	return false
}

func (m *Mapping[T]) scan(row pgx.Row) (T, error) {
	e := m.New()
	var id string
	a := e.AuditFields()
	dest := append([]any{&id}, m.Dest(e)...)
	dest = append(dest, &a.CreatedAt, &a.CreatedBy, &a.UpdatedAt, &a.UpdatedBy, &a.DeletedAt, &a.DeletedBy, &a.IsDeleted)
	if err := row.Scan(dest...); err != nil {
		var zero T
		return zero, err
	}
	e.SetID(id)
	return e, nil
}

// uuidColumns columnas UUID del esquema. Un valor que no parsea como UUID no coincide con ninguna
// fila; se resuelve antes de consultar porque el 22P02 abortaría la transacción en curso.
var uuidColumns = map[string]bool{
	repository.ColID:           true,
	repository.ColPartID:       true,
	repository.ColCheckID:      true,
	repository.ColAdjustmentID: true,
	repository.ColParentID:     true,
	"check_item_id":            true,
	"adjustment_item_id":       true,
}

// matchesNothing indica si algún filtro sobre una columna UUID trae un valor mal formado.
func matchesNothing(q audit.Query) bool {
	for _, f := range q.Filters {
		s, ok := f.Value.(string)
		if !ok || !uuidColumns[f.Column] {
			continue
		}
		if _, err := uuid.Parse(s); err != nil {
			return true
		}
	}
	return false
}

// buildWhere arma WHERE con la visibilidad y los filtros de igualdad. Las columnas se validan
// contra el mapeo; nunca se interpolan valores.
func buildWhere[T entity.Auditable](m *Mapping[T], q audit.Query, args []any) (string, []any, error) {
	var conds []string
	switch q.Visibility {
	case audit.Active:
		conds = append(conds, "is_deleted = false")
	case audit.Deleted:
		conds = append(conds, "is_deleted = true")
	}
	for _, f := range q.Filters {
		if !m.known(f.Column) {
			return "", nil, fmt.Errorf("postgres: columna desconocida %s.%s", m.Table, f.Column)
		}
		args = append(args, f.Value)
		conds = append(conds, fmt.Sprintf("%s = $%d", f.Column, len(args)))
	}
	if len(conds) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

// buildSelect SELECT con filtros, orden estable (desempate por id), paginación y bloqueo opcional.
func buildSelect[T entity.Auditable](m *Mapping[T], q audit.Query) (string, []any, error) {
	where, args, err := buildWhere(m, q, nil)
	if err != nil {
		return "", nil, err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s%s", strings.Join(m.allColumns(), ", "), m.Table, where)
	if q.OrderBy != "" {
		if !m.known(q.OrderBy) {
			return "", nil, fmt.Errorf("postgres: columna de orden desconocida %s.%s", m.Table, q.OrderBy)
		}
		dir := "ASC"
		if q.Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&sb, " ORDER BY %s %s, id %s", q.OrderBy, dir, dir)
	}
	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}
	if q.ForUpdate {
		sb.WriteString(" FOR UPDATE")
	}
	return sb.String(), args, nil
}

func buildCount[T entity.Auditable](m *Mapping[T], q audit.Query) (string, []any, error) {
	where, args, err := buildWhere(m, q, nil)
	if err != nil {
		return "", nil, err
	}
	return "SELECT COUNT(*) FROM " + m.Table + where, args, nil
}

func buildInsert[T entity.Auditable](m *Mapping[T]) string {
	cols := m.allColumns()
	ph := make([]string, len(cols))
	for i := range cols {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", m.Table, strings.Join(cols, ", "), strings.Join(ph, ", "))
}

func buildUpdate[T entity.Auditable](m *Mapping[T]) string {
	cols := m.allColumns()[1:]
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+2)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $1", m.Table, strings.Join(sets, ", "))
}

// Table implementa audit.Table para un mapeo. Usable con pool o tx (Querier).
type Table[T entity.Auditable] struct {
	m *Mapping[T]
	q Querier
}

var _ audit.Table[*entity.Part] = (*Table[*entity.Part])(nil)

// NewTable construye el adaptador de persistencia genérico.
func NewTable[T entity.Auditable](m *Mapping[T], q Querier) *Table[T] {
	return &Table[T]{m: m, q: q}
}

func (t *Table[T]) Insert(ctx context.Context, e T) error {
	if _, err := t.q.Exec(ctx, buildInsert(t.m), t.m.values(e)...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s: %v", domain.ErrConflict, t.m.Table, err)
		}
		return fmt.Errorf("insert %s: %w", t.m.Table, err)
	}
	return nil
}

func (t *Table[T]) Update(ctx context.Context, e T) error {
	cmd, err := t.q.Exec(ctx, buildUpdate(t.m), t.m.values(e)...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s: %v", domain.ErrConflict, t.m.Table, err)
		}
		return fmt.Errorf("update %s: %w", t.m.Table, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *Table[T]) Get(ctx context.Context, id string, vis audit.Visibility, forUpdate bool) (T, error) {
	q := audit.Where(repository.ColID, id)
	q.Visibility = vis
	q.ForUpdate = forUpdate
	if matchesNothing(q) {
		var zero T
		return zero, domain.ErrNotFound
	}
	sql, args, err := buildSelect(t.m, q)
	if err != nil {
		var zero T
		return zero, err
	}
	e, err := t.m.scan(t.q.QueryRow(ctx, sql, args...))
	if err != nil {
		var zero T
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, domain.ErrNotFound
		}
		return zero, fmt.Errorf("get %s: %w", t.m.Table, err)
	}
	return e, nil
}

func (t *Table[T]) Find(ctx context.Context, q audit.Query) ([]T, error) {
	if matchesNothing(q) {
		return nil, nil
	}
	sql, args, err := buildSelect(t.m, q)
	if err != nil {
		return nil, err
	}
	rows, err := t.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.m.Table, err)
	}
	defer rows.Close()
	var list []T
	for rows.Next() {
		e, err := t.m.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.m.Table, err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (t *Table[T]) Count(ctx context.Context, q audit.Query) (int, error) {
	if matchesNothing(q) {
		return 0, nil
	}
	sql, args, err := buildCount(t.m, q)
	if err != nil {
		return 0, err
	}
	var n int
	if err := t.q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", t.m.Table, err)
	}
	return n, nil
}
