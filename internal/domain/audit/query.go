package audit

// Visibility qué registros considera una lectura según la lápida.
type Visibility int

const (
	Active  Visibility = iota // IsDeleted = false (por defecto)
	Deleted                   // solo eliminados (vista administrativa)
	All                       // ambos; solo para verificaciones de unicidad
)

// Filter igualdad sobre una columna.
type Filter struct {
	Column string
	Value  any
}

// Query consulta simple que entienden todos los backends.
type Query struct {
	Filters    []Filter
	OrderBy    string
	Desc       bool
	Limit      int
	Offset     int
	Visibility Visibility
	ForUpdate  bool
}

// Where arma una consulta con un filtro inicial.
func Where(column string, value any) Query {
	return Query{Filters: []Filter{{Column: column, Value: value}}}
}

// And agrega un filtro de igualdad.
func (q Query) And(column string, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Column: column, Value: value})
	return q
}

// Order fija la columna de ordenamiento.
func (q Query) Order(column string, desc bool) Query {
	q.OrderBy = column
	q.Desc = desc
	return q
}

// Page fija limit/offset.
func (q Query) Page(limit, offset int) Query {
	q.Limit = limit
	q.Offset = offset
	return q
}

// Locked pide bloqueo de filas (SELECT ... FOR UPDATE).
func (q Query) Locked() Query {
	q.ForUpdate = true
	return q
}
