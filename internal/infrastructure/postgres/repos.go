package postgres

import (
	"github.com/jhoicas/Taller-api/internal/domain/audit"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.Repos = (*Repos)(nil)

// Repos agrupa los repositorios sobre un mismo Querier (pool o tx).
type Repos struct {
	parts           *audit.Store[*entity.Part]
	employees       *audit.Store[*entity.Employee]
	checks          *audit.Store[*entity.InventoryCheck]
	checkItems      *audit.Store[*entity.InventoryCheckItem]
	adjustments     *audit.Store[*entity.InventoryAdjustment]
	adjustmentItems *audit.Store[*entity.InventoryAdjustmentItem]
	transactions    *audit.Store[*entity.StockTransaction]
	comments        *audit.Store[*entity.Comment]
	sequences       *SequenceRepo
}

// NewRepos construye los repositorios atados a q.
func NewRepos(q Querier) *Repos {
	return &Repos{
		parts:           audit.NewStore[*entity.Part](NewTable(partMapping, q)),
		employees:       audit.NewStore[*entity.Employee](NewTable(employeeMapping, q)),
		checks:          audit.NewStore[*entity.InventoryCheck](NewTable(checkMapping, q)),
		checkItems:      audit.NewStore[*entity.InventoryCheckItem](NewTable(checkItemMapping, q)),
		adjustments:     audit.NewStore[*entity.InventoryAdjustment](NewTable(adjustmentMapping, q)),
		adjustmentItems: audit.NewStore[*entity.InventoryAdjustmentItem](NewTable(adjustmentItemMapping, q)),
		transactions:    audit.NewStore[*entity.StockTransaction](NewTable(stockTransactionMapping, q)),
		comments:        audit.NewStore[*entity.Comment](NewTable(commentMapping, q)),
		sequences:       NewSequenceRepository(q),
	}
}

func (r *Repos) Parts() repository.Store[*entity.Part] { return r.parts }

func (r *Repos) Employees() repository.Store[*entity.Employee] { return r.employees }

func (r *Repos) Checks() repository.Store[*entity.InventoryCheck] { return r.checks }

func (r *Repos) CheckItems() repository.Store[*entity.InventoryCheckItem] { return r.checkItems }

func (r *Repos) Adjustments() repository.Store[*entity.InventoryAdjustment] { return r.adjustments }

func (r *Repos) AdjustmentItems() repository.Store[*entity.InventoryAdjustmentItem] {
	return r.adjustmentItems
}

func (r *Repos) StockTransactions() repository.AppendOnly[*entity.StockTransaction] {
	return r.transactions
}

func (r *Repos) Comments() repository.AppendOnly[*entity.Comment] { return r.comments }

func (r *Repos) Sequences() repository.SequenceRepository { return r.sequences }
