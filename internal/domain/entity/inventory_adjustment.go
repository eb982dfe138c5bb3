package entity

import "time"

// Estados de un ajuste de inventario. Approved y Rejected son terminales.
const (
	AdjustmentStatusPending  = "PENDING"
	AdjustmentStatusApproved = "APPROVED"
	AdjustmentStatusRejected = "REJECTED"
)

// InventoryAdjustment corrección de stock propuesta; solo mueve stock al aprobarse.
type InventoryAdjustment struct {
	ID                   string
	AdjustmentNumber     string // ADJ-YYYYMMDD-NNNN
	CheckID              *string
	Status               string
	Reason               string
	RejectionReason      string
	ApprovalNotes        string
	ApprovedByEmployeeID string
	ApprovedAt           *time.Time
	RejectedByEmployeeID string
	RejectedAt           *time.Time
	Audit

	Items []*InventoryAdjustmentItem
}

func (a *InventoryAdjustment) GetID() string       { return a.ID }
func (a *InventoryAdjustment) SetID(id string)     { a.ID = id }
func (a *InventoryAdjustment) AuditFields() *Audit { return &a.Audit }

// IsPending indica si el ajuste aún admite aprobación o rechazo.
func (a *InventoryAdjustment) IsPending() bool {
	return a.Status == AdjustmentStatusPending
}

// InventoryAdjustmentItem línea del ajuste: delta firmado para un repuesto.
// SystemQuantityBefore/After son una foto al momento de la propuesta, no del momento de aprobación.
type InventoryAdjustmentItem struct {
	ID                   string
	AdjustmentID         string
	PartID               string
	QuantityChange       int
	SystemQuantityBefore int
	SystemQuantityAfter  int
	CheckItemID          *string
	Audit
}

func (i *InventoryAdjustmentItem) GetID() string       { return i.ID }
func (i *InventoryAdjustmentItem) SetID(id string)     { i.ID = id }
func (i *InventoryAdjustmentItem) AuditFields() *Audit { return &i.Audit }
