package entity

import "time"

// Audit campos de auditoría y borrado lógico compartidos por todas las entidades persistentes.
// Solo audit.Store los modifica; el resto del código los trata como lectura.
type Audit struct {
	CreatedAt time.Time
	CreatedBy string
	UpdatedAt *time.Time
	UpdatedBy string
	DeletedAt *time.Time
	DeletedBy string
	IsDeleted bool
}

// Auditable lo implementan las entidades (receptor puntero) que pasan por audit.Store.
type Auditable interface {
	GetID() string
	SetID(id string)
	AuditFields() *Audit
}

// StampCreate inicializa los campos de creación.
func (a *Audit) StampCreate(by string, at time.Time) {
	a.CreatedAt = at
	a.CreatedBy = by
	a.UpdatedAt = nil
	a.UpdatedBy = ""
	a.DeletedAt = nil
	a.DeletedBy = ""
	a.IsDeleted = false
}

// StampUpdate marca la última modificación. No toca CreatedAt/CreatedBy.
func (a *Audit) StampUpdate(by string, at time.Time) {
	t := at
	a.UpdatedAt = &t
	a.UpdatedBy = by
}

// MarkDeleted convierte el registro en lápida.
func (a *Audit) MarkDeleted(by string, at time.Time) {
	t := at
	a.IsDeleted = true
	a.DeletedAt = &t
	a.DeletedBy = by
}

// ClearDeleted revierte la lápida conservando la identidad.
func (a *Audit) ClearDeleted() {
	a.IsDeleted = false
	a.DeletedAt = nil
	a.DeletedBy = ""
}
