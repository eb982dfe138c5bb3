package dto

import "time"

// CreatePartRequest entrada para crear un repuesto. La existencia inicia en 0 y solo cambia por movimientos.
type CreatePartRequest struct {
	PartNumber   string `json:"part_number" validate:"required,min=1,max=100"`
	Name         string `json:"name" validate:"required,min=1,max=200"`
	Unit         string `json:"unit" validate:"omitempty,max=20"`
	MinimumStock int    `json:"minimum_stock" validate:"min=0"`
	ReorderLevel int    `json:"reorder_level" validate:"min=0"`
	WarehouseID  string `json:"warehouse_id"`
	ZoneID       string `json:"zone_id"`
	BinID        string `json:"bin_id"`
}

// UpdatePartRequest entrada para actualizar un repuesto (sin existencia).
type UpdatePartRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	Unit         *string `json:"unit" validate:"omitempty,max=20"`
	MinimumStock *int    `json:"minimum_stock" validate:"omitempty,min=0"`
	ReorderLevel *int    `json:"reorder_level" validate:"omitempty,min=0"`
	WarehouseID  *string `json:"warehouse_id"`
	ZoneID       *string `json:"zone_id"`
	BinID        *string `json:"bin_id"`
}

// PartResponse salida de un repuesto.
type PartResponse struct {
	ID              string     `json:"id"`
	PartNumber      string     `json:"part_number"`
	Name            string     `json:"name"`
	Unit            string     `json:"unit"`
	QuantityInStock int        `json:"quantity_in_stock"`
	MinimumStock    int        `json:"minimum_stock"`
	ReorderLevel    int        `json:"reorder_level"`
	WarehouseID     string     `json:"warehouse_id,omitempty"`
	ZoneID          string     `json:"zone_id,omitempty"`
	BinID           string     `json:"bin_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	CreatedBy       string     `json:"created_by"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
	UpdatedBy       string     `json:"updated_by,omitempty"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
	DeletedBy       string     `json:"deleted_by,omitempty"`
	IsDeleted       bool       `json:"is_deleted"`
}

// PartListResponse lista paginada de repuestos.
type PartListResponse struct {
	Items []PartResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
