package entity

// Part representa un repuesto del catálogo del taller (SKU).
// QuantityInStock solo cambia a través del libro de stock (ledger.Ledger.Post).
type Part struct {
	ID              string
	PartNumber      string // único entre registros no eliminados
	Name            string
	Unit            string
	QuantityInStock int
	MinimumStock    int // umbral informativo
	ReorderLevel    int // umbral informativo
	WarehouseID     string
	ZoneID          string
	BinID           string
	Audit
}

func (p *Part) GetID() string       { return p.ID }
func (p *Part) SetID(id string)     { p.ID = id }
func (p *Part) AuditFields() *Audit { return &p.Audit }

// BelowMinimum indica si la existencia está por debajo del mínimo configurado.
func (p *Part) BelowMinimum() bool {
	return p.MinimumStock > 0 && p.QuantityInStock < p.MinimumStock
}

// NeedsReorder indica si se alcanzó el nivel de reorden.
func (p *Part) NeedsReorder() bool {
	return p.ReorderLevel > 0 && p.QuantityInStock <= p.ReorderLevel
}

// InScope indica si la ubicación del repuesto cae dentro del alcance de un conteo.
// Un campo vacío del alcance no restringe.
func (p *Part) InScope(s CheckScope) bool {
	if s.WarehouseID != "" && p.WarehouseID != s.WarehouseID {
		return false
	}
	if s.ZoneID != "" && p.ZoneID != s.ZoneID {
		return false
	}
	if s.BinID != "" && p.BinID != s.BinID {
		return false
	}
	return true
}
