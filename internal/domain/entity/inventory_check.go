package entity

import "time"

// Estados de una sesión de conteo.
const (
	CheckStatusDraft      = "DRAFT"
	CheckStatusInProgress = "IN_PROGRESS"
	CheckStatusCompleted  = "COMPLETED"
	CheckStatusCancelled  = "CANCELLED"
)

// CheckScope restringe el conteo a una bodega, zona o ubicación. Todos opcionales.
type CheckScope struct {
	WarehouseID string
	ZoneID      string
	BinID       string
}

// InventoryCheck sesión de conteo físico (Draft -> InProgress -> Completed | Cancelled).
type InventoryCheck struct {
	ID                    string
	Code                  string // IK-YYYYMMDD-NNNN
	Name                  string
	Notes                 string
	Scope                 CheckScope
	Status                string
	StartedByEmployeeID   string
	StartedAt             *time.Time
	CompletedByEmployeeID string
	CompletedDate         *time.Time
	CancelledByEmployeeID string
	CancelledAt           *time.Time
	Audit

	Items []*InventoryCheckItem // se carga aparte; no se persiste con la cabecera
}

func (c *InventoryCheck) GetID() string       { return c.ID }
func (c *InventoryCheck) SetID(id string)     { c.ID = id }
func (c *InventoryCheck) AuditFields() *Audit { return &c.Audit }

// CanTransition valida las transiciones del flujo de conteo. No hay reapertura.
func (c *InventoryCheck) CanTransition(to string) bool {
	switch c.Status {
	case CheckStatusDraft:
		return to == CheckStatusInProgress || to == CheckStatusCancelled
	case CheckStatusInProgress:
		return to == CheckStatusCompleted || to == CheckStatusCancelled
	}
	return false
}

// InventoryCheckItem resultado del conteo de un repuesto dentro de una sesión.
type InventoryCheckItem struct {
	ID                  string
	CheckID             string
	PartID              string
	SystemQuantity      int // existencia al momento del primer registro
	ActualQuantity      int
	DiscrepancyQuantity int  // ActualQuantity - SystemQuantity
	IsDiscrepancy       bool // ActualQuantity != SystemQuantity
	AdjustmentItemID    *string
	Notes               string
	Audit
}

func (i *InventoryCheckItem) GetID() string       { return i.ID }
func (i *InventoryCheckItem) SetID(id string)     { i.ID = id }
func (i *InventoryCheckItem) AuditFields() *Audit { return &i.Audit }

// SetActualQuantity asigna la cantidad contada y recalcula los campos derivados.
// Es la única forma de cambiar ActualQuantity.
func (i *InventoryCheckItem) SetActualQuantity(actual int) {
	i.ActualQuantity = actual
	i.DiscrepancyQuantity = actual - i.SystemQuantity
	i.IsDiscrepancy = actual != i.SystemQuantity
}
