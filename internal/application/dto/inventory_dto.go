package dto

import (
	"time"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// ── Conteos ────────────────────────────────────────────────────────────────

// CreateCheckRequest body para POST /api/inventory-checks.
type CreateCheckRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Notes       string `json:"notes" validate:"max=2000"`
	WarehouseID string `json:"warehouse_id"`
	ZoneID      string `json:"zone_id"`
	BinID       string `json:"bin_id"`
}

// CheckTransitionRequest body para start/complete/cancel.
type CheckTransitionRequest struct {
	EmployeeID string `json:"employee_id,omitempty"`
}

// RecordCountRequest body para POST /api/inventory-checks/:id/items.
type RecordCountRequest struct {
	PartID         string `json:"part_id" validate:"required"`
	ActualQuantity *int   `json:"actual_quantity" validate:"required,min=0"`
	Notes          string `json:"notes" validate:"max=2000"`
}

// CheckItemResponse ítem contado.
type CheckItemResponse struct {
	ID                  string  `json:"id"`
	PartID              string  `json:"part_id"`
	SystemQuantity      int     `json:"system_quantity"`
	ActualQuantity      int     `json:"actual_quantity"`
	DiscrepancyQuantity int     `json:"discrepancy_quantity"`
	IsDiscrepancy       bool    `json:"is_discrepancy"`
	AdjustmentItemID    *string `json:"adjustment_item_id,omitempty"`
	Notes               string  `json:"notes,omitempty"`
}

// CheckResponse sesión de conteo.
type CheckResponse struct {
	ID                    string              `json:"id"`
	Code                  string              `json:"code"`
	Name                  string              `json:"name"`
	Notes                 string              `json:"notes,omitempty"`
	WarehouseID           string              `json:"warehouse_id,omitempty"`
	ZoneID                string              `json:"zone_id,omitempty"`
	BinID                 string              `json:"bin_id,omitempty"`
	Status                string              `json:"status"`
	StartedByEmployeeID   string              `json:"started_by_employee_id,omitempty"`
	StartedAt             *time.Time          `json:"started_at,omitempty"`
	CompletedByEmployeeID string              `json:"completed_by_employee_id,omitempty"`
	CompletedDate         *time.Time          `json:"completed_date,omitempty"`
	CancelledByEmployeeID string              `json:"cancelled_by_employee_id,omitempty"`
	CancelledAt           *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt             time.Time           `json:"created_at"`
	CreatedBy             string              `json:"created_by"`
	Items                 []CheckItemResponse `json:"items,omitempty"`
}

// ── Ajustes ────────────────────────────────────────────────────────────────

// AdjustmentItemRequest línea propuesta.
type AdjustmentItemRequest struct {
	PartID         string `json:"part_id" validate:"required"`
	QuantityChange int    `json:"quantity_change" validate:"nonzero"`
}

// CreateAdjustmentRequest body para POST /api/inventory-adjustments.
type CreateAdjustmentRequest struct {
	Reason  string                  `json:"reason" validate:"required,max=500"`
	CheckID *string                 `json:"check_id,omitempty"`
	Items   []AdjustmentItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ApproveAdjustmentRequest body para POST /api/inventory-adjustments/:id/approve.
type ApproveAdjustmentRequest struct {
	ApproverID         string `json:"approver_id,omitempty"`
	Notes              string `json:"notes" validate:"max=2000"`
	AllowNegativeStock bool   `json:"allow_negative_stock"`
}

// RejectAdjustmentRequest body para POST /api/inventory-adjustments/:id/reject.
type RejectAdjustmentRequest struct {
	ApproverID string `json:"approver_id,omitempty"`
	Reason     string `json:"reason" validate:"required,max=500"`
}

// AdjustmentItemResponse línea de ajuste.
type AdjustmentItemResponse struct {
	ID                   string  `json:"id"`
	PartID               string  `json:"part_id"`
	QuantityChange       int     `json:"quantity_change"`
	SystemQuantityBefore int     `json:"system_quantity_before"`
	SystemQuantityAfter  int     `json:"system_quantity_after"`
	CheckItemID          *string `json:"check_item_id,omitempty"`
}

// AdjustmentResponse ajuste de inventario.
type AdjustmentResponse struct {
	ID                   string                   `json:"id"`
	AdjustmentNumber     string                   `json:"adjustment_number"`
	CheckID              *string                  `json:"check_id,omitempty"`
	Status               string                   `json:"status"`
	Reason               string                   `json:"reason"`
	RejectionReason      string                   `json:"rejection_reason,omitempty"`
	ApprovalNotes        string                   `json:"approval_notes,omitempty"`
	ApprovedByEmployeeID string                   `json:"approved_by_employee_id,omitempty"`
	ApprovedAt           *time.Time               `json:"approved_at,omitempty"`
	RejectedByEmployeeID string                   `json:"rejected_by_employee_id,omitempty"`
	RejectedAt           *time.Time               `json:"rejected_at,omitempty"`
	CreatedAt            time.Time                `json:"created_at"`
	CreatedBy            string                   `json:"created_by"`
	Items                []AdjustmentItemResponse `json:"items,omitempty"`
}

// ── Comentarios ────────────────────────────────────────────────────────────

// AddCommentRequest body para POST .../comments.
type AddCommentRequest struct {
	AuthorID    string `json:"author_id,omitempty"`
	CommentText string `json:"comment_text" validate:"required,max=2000"`
}

// CommentResponse nota de la bitácora.
type CommentResponse struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	CommentText string    `json:"comment_text"`
	CreatedAt   time.Time `json:"created_at"`
}

// ── Movimientos ────────────────────────────────────────────────────────────

// RegisterMovementRequest body para POST /api/parts/:id/movements.
type RegisterMovementRequest struct {
	Type          string `json:"type" validate:"required,tx_type,ne=ADJUSTMENT"`
	Quantity      int    `json:"quantity" validate:"required,min=1"`
	EmployeeID    string `json:"employee_id,omitempty"`
	Notes         string `json:"notes" validate:"max=2000"`
	AllowNegative bool   `json:"allow_negative"`
}

// StockTransactionResponse fila del libro de stock.
type StockTransactionResponse struct {
	ID                    string    `json:"id"`
	TransactionCode       string    `json:"transaction_code"`
	PartID                string    `json:"part_id"`
	Quantity              int       `json:"quantity"`
	QuantityAfter         int       `json:"quantity_after"`
	TransactionType       string    `json:"transaction_type"`
	ReferenceType         string    `json:"reference_type"`
	ReferenceID           string    `json:"reference_id"`
	ProcessedByEmployeeID string    `json:"processed_by_employee_id"`
	Notes                 string    `json:"notes,omitempty"`
	TransactionDate       time.Time `json:"transaction_date"`
}

// ReconciliationResponse comparación entre existencia y libro.
type ReconciliationResponse struct {
	PartID          string `json:"part_id"`
	PartNumber      string `json:"part_number"`
	QuantityInStock int    `json:"quantity_in_stock"`
	LedgerBalance   int    `json:"ledger_balance"`
	Difference      int    `json:"difference"`
	Consistent      bool   `json:"consistent"`
}

// ReplenishmentSuggestionDTO repuesto en o bajo su nivel de reorden.
type ReplenishmentSuggestionDTO struct {
	PartID            string `json:"part_id"`
	PartNumber        string `json:"part_number"`
	Name              string `json:"name"`
	QuantityInStock   int    `json:"quantity_in_stock"`
	MinimumStock      int    `json:"minimum_stock"`
	ReorderLevel      int    `json:"reorder_level"`
	SuggestedOrderQty int    `json:"suggested_order_qty"`
	BelowMinimum      bool   `json:"below_minimum"`
	Priority          int    `json:"priority"` // 1 = más urgente
}

// ── Mapeos ─────────────────────────────────────────────────────────────────

// NewCheckResponse mapea un conteo (con sus ítems si están cargados).
func NewCheckResponse(c *entity.InventoryCheck) *CheckResponse {
	out := &CheckResponse{
		ID:                    c.ID,
		Code:                  c.Code,
		Name:                  c.Name,
		Notes:                 c.Notes,
		WarehouseID:           c.Scope.WarehouseID,
		ZoneID:                c.Scope.ZoneID,
		BinID:                 c.Scope.BinID,
		Status:                c.Status,
		StartedByEmployeeID:   c.StartedByEmployeeID,
		StartedAt:             c.StartedAt,
		CompletedByEmployeeID: c.CompletedByEmployeeID,
		CompletedDate:         c.CompletedDate,
		CancelledByEmployeeID: c.CancelledByEmployeeID,
		CancelledAt:           c.CancelledAt,
		CreatedAt:             c.CreatedAt,
		CreatedBy:             c.CreatedBy,
	}
	for _, it := range c.Items {
		out.Items = append(out.Items, *NewCheckItemResponse(it))
	}
	return out
}

// NewCheckItemResponse mapea un ítem de conteo.
func NewCheckItemResponse(it *entity.InventoryCheckItem) *CheckItemResponse {
	return &CheckItemResponse{
		ID:                  it.ID,
		PartID:              it.PartID,
		SystemQuantity:      it.SystemQuantity,
		ActualQuantity:      it.ActualQuantity,
		DiscrepancyQuantity: it.DiscrepancyQuantity,
		IsDiscrepancy:       it.IsDiscrepancy,
		AdjustmentItemID:    it.AdjustmentItemID,
		Notes:               it.Notes,
	}
}

// NewAdjustmentResponse mapea un ajuste (con sus líneas si están cargadas).
func NewAdjustmentResponse(a *entity.InventoryAdjustment) *AdjustmentResponse {
	out := &AdjustmentResponse{
		ID:                   a.ID,
		AdjustmentNumber:     a.AdjustmentNumber,
		CheckID:              a.CheckID,
		Status:               a.Status,
		Reason:               a.Reason,
		RejectionReason:      a.RejectionReason,
		ApprovalNotes:        a.ApprovalNotes,
		ApprovedByEmployeeID: a.ApprovedByEmployeeID,
		ApprovedAt:           a.ApprovedAt,
		RejectedByEmployeeID: a.RejectedByEmployeeID,
		RejectedAt:           a.RejectedAt,
		CreatedAt:            a.CreatedAt,
		CreatedBy:            a.CreatedBy,
	}
	for _, it := range a.Items {
		out.Items = append(out.Items, AdjustmentItemResponse{
			ID:                   it.ID,
			PartID:               it.PartID,
			QuantityChange:       it.QuantityChange,
			SystemQuantityBefore: it.SystemQuantityBefore,
			SystemQuantityAfter:  it.SystemQuantityAfter,
			CheckItemID:          it.CheckItemID,
		})
	}
	return out
}

// NewCommentResponse mapea un comentario.
func NewCommentResponse(c *entity.Comment) CommentResponse {
	return CommentResponse{
		ID:          c.ID,
		AuthorID:    c.AuthorID,
		CommentText: c.CommentText,
		CreatedAt:   c.CreatedAt,
	}
}

// NewStockTransactionResponse mapea una fila del libro.
func NewStockTransactionResponse(t *entity.StockTransaction) StockTransactionResponse {
	return StockTransactionResponse{
		ID:                    t.ID,
		TransactionCode:       t.TransactionCode,
		PartID:                t.PartID,
		Quantity:              t.Quantity,
		QuantityAfter:         t.QuantityAfter,
		TransactionType:       t.TransactionType,
		ReferenceType:         t.ReferenceType,
		ReferenceID:           t.ReferenceID,
		ProcessedByEmployeeID: t.ProcessedByEmployeeID,
		Notes:                 t.Notes,
		TransactionDate:       t.TransactionDate,
	}
}
