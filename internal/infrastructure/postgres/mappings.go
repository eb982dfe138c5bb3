package postgres

import "github.com/jhoicas/Taller-api/internal/domain/entity"

var partMapping = &Mapping[*entity.Part]{
	Table: "parts",
	Columns: []string{
		"part_number", "name", "unit", "quantity_in_stock", "minimum_stock", "reorder_level",
		"warehouse_id", "zone_id", "bin_id",
	},
	Values: func(p *entity.Part) []any {
		return []any{p.PartNumber, p.Name, p.Unit, p.QuantityInStock, p.MinimumStock, p.ReorderLevel,
			p.WarehouseID, p.ZoneID, p.BinID}
	},
	Dest: func(p *entity.Part) []any {
		return []any{&p.PartNumber, &p.Name, &p.Unit, &p.QuantityInStock, &p.MinimumStock, &p.ReorderLevel,
			&p.WarehouseID, &p.ZoneID, &p.BinID}
	},
	New: func() *entity.Part { return &entity.Part{} },
}

var employeeMapping = &Mapping[*entity.Employee]{
	Table:   "employees",
	Columns: []string{"code", "full_name", "role", "is_active", "password_hash"},
	Values: func(e *entity.Employee) []any {
		return []any{e.Code, e.FullName, e.Role, e.IsActive, e.PasswordHash}
	},
	Dest: func(e *entity.Employee) []any {
		return []any{&e.Code, &e.FullName, &e.Role, &e.IsActive, &e.PasswordHash}
	},
	New: func() *entity.Employee { return &entity.Employee{} },
}

var checkMapping = &Mapping[*entity.InventoryCheck]{
	Table: "inventory_checks",
	Columns: []string{
		"code", "name", "notes", "warehouse_id", "zone_id", "bin_id", "status",
		"started_by_employee_id", "started_at", "completed_by_employee_id", "completed_date",
		"cancelled_by_employee_id", "cancelled_at",
	},
	Values: func(c *entity.InventoryCheck) []any {
		return []any{c.Code, c.Name, c.Notes, c.Scope.WarehouseID, c.Scope.ZoneID, c.Scope.BinID, c.Status,
			c.StartedByEmployeeID, c.StartedAt, c.CompletedByEmployeeID, c.CompletedDate,
			c.CancelledByEmployeeID, c.CancelledAt}
	},
	Dest: func(c *entity.InventoryCheck) []any {
		return []any{&c.Code, &c.Name, &c.Notes, &c.Scope.WarehouseID, &c.Scope.ZoneID, &c.Scope.BinID, &c.Status,
			&c.StartedByEmployeeID, &c.StartedAt, &c.CompletedByEmployeeID, &c.CompletedDate,
			&c.CancelledByEmployeeID, &c.CancelledAt}
	},
	New: func() *entity.InventoryCheck { return &entity.InventoryCheck{} },
}

var checkItemMapping = &Mapping[*entity.InventoryCheckItem]{
	Table: "inventory_check_items",
	Columns: []string{
		"check_id", "part_id", "system_quantity", "actual_quantity", "discrepancy_quantity",
		"is_discrepancy", "adjustment_item_id", "notes",
	},
	Values: func(i *entity.InventoryCheckItem) []any {
		return []any{i.CheckID, i.PartID, i.SystemQuantity, i.ActualQuantity, i.DiscrepancyQuantity,
			i.IsDiscrepancy, i.AdjustmentItemID, i.Notes}
	},
	Dest: func(i *entity.InventoryCheckItem) []any {
		return []any{&i.CheckID, &i.PartID, &i.SystemQuantity, &i.ActualQuantity, &i.DiscrepancyQuantity,
			&i.IsDiscrepancy, &i.AdjustmentItemID, &i.Notes}
	},
	New: func() *entity.InventoryCheckItem { return &entity.InventoryCheckItem{} },
}

var adjustmentMapping = &Mapping[*entity.InventoryAdjustment]{
	Table: "inventory_adjustments",
	Columns: []string{
		"adjustment_number", "check_id", "status", "reason", "rejection_reason", "approval_notes",
		"approved_by_employee_id", "approved_at", "rejected_by_employee_id", "rejected_at",
	},
	Values: func(a *entity.InventoryAdjustment) []any {
		return []any{a.AdjustmentNumber, a.CheckID, a.Status, a.Reason, a.RejectionReason, a.ApprovalNotes,
			a.ApprovedByEmployeeID, a.ApprovedAt, a.RejectedByEmployeeID, a.RejectedAt}
	},
	Dest: func(a *entity.InventoryAdjustment) []any {
		return []any{&a.AdjustmentNumber, &a.CheckID, &a.Status, &a.Reason, &a.RejectionReason, &a.ApprovalNotes,
			&a.ApprovedByEmployeeID, &a.ApprovedAt, &a.RejectedByEmployeeID, &a.RejectedAt}
	},
	New: func() *entity.InventoryAdjustment { return &entity.InventoryAdjustment{} },
}

var adjustmentItemMapping = &Mapping[*entity.InventoryAdjustmentItem]{
	Table: "inventory_adjustment_items",
	Columns: []string{
		"adjustment_id", "part_id", "quantity_change", "system_quantity_before", "system_quantity_after",
		"check_item_id",
	},
	Values: func(i *entity.InventoryAdjustmentItem) []any {
		return []any{i.AdjustmentID, i.PartID, i.QuantityChange, i.SystemQuantityBefore, i.SystemQuantityAfter,
			i.CheckItemID}
	},
	Dest: func(i *entity.InventoryAdjustmentItem) []any {
		return []any{&i.AdjustmentID, &i.PartID, &i.QuantityChange, &i.SystemQuantityBefore, &i.SystemQuantityAfter,
			&i.CheckItemID}
	},
	New: func() *entity.InventoryAdjustmentItem { return &entity.InventoryAdjustmentItem{} },
}

var stockTransactionMapping = &Mapping[*entity.StockTransaction]{
	Table: "stock_transactions",
	Columns: []string{
		"transaction_code", "part_id", "quantity", "quantity_after", "transaction_type",
		"reference_type", "reference_id", "processed_by_employee_id", "notes", "transaction_date",
	},
	Values: func(t *entity.StockTransaction) []any {
		return []any{t.TransactionCode, t.PartID, t.Quantity, t.QuantityAfter, t.TransactionType,
			t.ReferenceType, t.ReferenceID, t.ProcessedByEmployeeID, t.Notes, t.TransactionDate}
	},
	Dest: func(t *entity.StockTransaction) []any {
		return []any{&t.TransactionCode, &t.PartID, &t.Quantity, &t.QuantityAfter, &t.TransactionType,
			&t.ReferenceType, &t.ReferenceID, &t.ProcessedByEmployeeID, &t.Notes, &t.TransactionDate}
	},
	New: func() *entity.StockTransaction { return &entity.StockTransaction{} },
}

var commentMapping = &Mapping[*entity.Comment]{
	Table:   "comments",
	Columns: []string{"parent_type", "parent_id", "author_id", "comment_text"},
	Values: func(c *entity.Comment) []any {
		return []any{c.ParentType, c.ParentID, c.AuthorID, c.CommentText}
	},
	Dest: func(c *entity.Comment) []any {
		return []any{&c.ParentType, &c.ParentID, &c.AuthorID, &c.CommentText}
	},
	New: func() *entity.Comment { return &entity.Comment{} },
}
