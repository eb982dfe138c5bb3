package entity

// Tipos de documento que admiten comentarios.
const (
	CommentParentCheck      = "CHECK"
	CommentParentAdjustment = "ADJUSTMENT"
)

// Comment nota inmutable de la línea de tiempo de un conteo o ajuste.
type Comment struct {
	ID          string
	ParentType  string
	ParentID    string
	AuthorID    string
	CommentText string
	Audit
}

func (c *Comment) GetID() string       { return c.ID }
func (c *Comment) SetID(id string)     { c.ID = id }
func (c *Comment) AuditFields() *Audit { return &c.Audit }
