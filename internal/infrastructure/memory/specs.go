package memory

import (
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// Los campos puntero de las entidades se reemplazan, nunca se modifican en sitio,
// así que una copia superficial basta para aislar lo almacenado.
func shallow[T any](p *T) *T {
	c := *p
	return &c
}

var partSpec = &Spec[*entity.Part]{
	Name:  "parts",
	Clone: shallow[entity.Part],
	Columns: map[string]func(*entity.Part) any{
		repository.ColPartNumber: func(p *entity.Part) any { return p.PartNumber },
		"warehouse_id":           func(p *entity.Part) any { return p.WarehouseID },
	},
	Unique: []UniqueKey[*entity.Part]{
		{Name: "part_number", Key: func(p *entity.Part) string { return p.PartNumber }, ActiveOnly: true},
	},
}

var employeeSpec = &Spec[*entity.Employee]{
	Name:  "employees",
	Clone: shallow[entity.Employee],
	Columns: map[string]func(*entity.Employee) any{
		repository.ColCode: func(e *entity.Employee) any { return e.Code },
	},
	Unique: []UniqueKey[*entity.Employee]{
		{Name: "code", Key: func(e *entity.Employee) string { return e.Code }},
	},
}

var checkSpec = &Spec[*entity.InventoryCheck]{
	Name: "inventory_checks",
	Clone: func(c *entity.InventoryCheck) *entity.InventoryCheck {
		cp := shallow(c)
		cp.Items = nil
		return cp
	},
	Columns: map[string]func(*entity.InventoryCheck) any{
		repository.ColCode:   func(c *entity.InventoryCheck) any { return c.Code },
		repository.ColStatus: func(c *entity.InventoryCheck) any { return c.Status },
	},
	Unique: []UniqueKey[*entity.InventoryCheck]{
		{Name: "code", Key: func(c *entity.InventoryCheck) string { return c.Code }},
	},
}

var checkItemSpec = &Spec[*entity.InventoryCheckItem]{
	Name:  "inventory_check_items",
	Clone: shallow[entity.InventoryCheckItem],
	Columns: map[string]func(*entity.InventoryCheckItem) any{
		repository.ColCheckID: func(i *entity.InventoryCheckItem) any { return i.CheckID },
		repository.ColPartID:  func(i *entity.InventoryCheckItem) any { return i.PartID },
	},
	Unique: []UniqueKey[*entity.InventoryCheckItem]{
		{
			Name:       "check_part",
			Key:        func(i *entity.InventoryCheckItem) string { return i.CheckID + "/" + i.PartID },
			ActiveOnly: true,
		},
	},
}

var adjustmentSpec = &Spec[*entity.InventoryAdjustment]{
	Name: "inventory_adjustments",
	Clone: func(a *entity.InventoryAdjustment) *entity.InventoryAdjustment {
		cp := shallow(a)
		cp.Items = nil
		return cp
	},
	Columns: map[string]func(*entity.InventoryAdjustment) any{
		repository.ColNumber:  func(a *entity.InventoryAdjustment) any { return a.AdjustmentNumber },
		repository.ColStatus:  func(a *entity.InventoryAdjustment) any { return a.Status },
		repository.ColCheckID: func(a *entity.InventoryAdjustment) any { return a.CheckID },
	},
	Unique: []UniqueKey[*entity.InventoryAdjustment]{
		{Name: "adjustment_number", Key: func(a *entity.InventoryAdjustment) string { return a.AdjustmentNumber }},
	},
}

var adjustmentItemSpec = &Spec[*entity.InventoryAdjustmentItem]{
	Name:  "inventory_adjustment_items",
	Clone: shallow[entity.InventoryAdjustmentItem],
	Columns: map[string]func(*entity.InventoryAdjustmentItem) any{
		repository.ColAdjustmentID: func(i *entity.InventoryAdjustmentItem) any { return i.AdjustmentID },
		repository.ColPartID:       func(i *entity.InventoryAdjustmentItem) any { return i.PartID },
	},
}

var stockTransactionSpec = &Spec[*entity.StockTransaction]{
	Name:  "stock_transactions",
	Clone: shallow[entity.StockTransaction],
	Columns: map[string]func(*entity.StockTransaction) any{
		repository.ColTransactionCode: func(t *entity.StockTransaction) any { return t.TransactionCode },
		repository.ColPartID:          func(t *entity.StockTransaction) any { return t.PartID },
		repository.ColReferenceType:   func(t *entity.StockTransaction) any { return t.ReferenceType },
		repository.ColReferenceID:     func(t *entity.StockTransaction) any { return t.ReferenceID },
	},
	Unique: []UniqueKey[*entity.StockTransaction]{
		{Name: "transaction_code", Key: func(t *entity.StockTransaction) string { return t.TransactionCode }},
	},
}

var commentSpec = &Spec[*entity.Comment]{
	Name:  "comments",
	Clone: shallow[entity.Comment],
	Columns: map[string]func(*entity.Comment) any{
		repository.ColParentType: func(c *entity.Comment) any { return c.ParentType },
		repository.ColParentID:   func(c *entity.Comment) any { return c.ParentID },
	},
}
