package memory

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/audit"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

type repos struct {
	parts           *audit.Store[*entity.Part]
	employees       *audit.Store[*entity.Employee]
	checks          *audit.Store[*entity.InventoryCheck]
	checkItems      *audit.Store[*entity.InventoryCheckItem]
	adjustments     *audit.Store[*entity.InventoryAdjustment]
	adjustmentItems *audit.Store[*entity.InventoryAdjustmentItem]
	transactions    *audit.Store[*entity.StockTransaction]
	comments        *audit.Store[*entity.Comment]
	sequences       *sequences
}

func newRepos(s *session) *repos {
	return &repos{
		parts:           audit.NewStore[*entity.Part](newTable(partSpec, s)),
		employees:       audit.NewStore[*entity.Employee](newTable(employeeSpec, s)),
		checks:          audit.NewStore[*entity.InventoryCheck](newTable(checkSpec, s)),
		checkItems:      audit.NewStore[*entity.InventoryCheckItem](newTable(checkItemSpec, s)),
		adjustments:     audit.NewStore[*entity.InventoryAdjustment](newTable(adjustmentSpec, s)),
		adjustmentItems: audit.NewStore[*entity.InventoryAdjustmentItem](newTable(adjustmentItemSpec, s)),
		transactions:    audit.NewStore[*entity.StockTransaction](newTable(stockTransactionSpec, s)),
		comments:        audit.NewStore[*entity.Comment](newTable(commentSpec, s)),
		sequences:       &sequences{sess: s},
	}
}

func (r *repos) Parts() repository.Store[*entity.Part] { return r.parts }

func (r *repos) Employees() repository.Store[*entity.Employee] { return r.employees }

func (r *repos) Checks() repository.Store[*entity.InventoryCheck] { return r.checks }

func (r *repos) CheckItems() repository.Store[*entity.InventoryCheckItem] { return r.checkItems }

func (r *repos) Adjustments() repository.Store[*entity.InventoryAdjustment] { return r.adjustments }

func (r *repos) AdjustmentItems() repository.Store[*entity.InventoryAdjustmentItem] {
	return r.adjustmentItems
}

func (r *repos) StockTransactions() repository.AppendOnly[*entity.StockTransaction] {
	return r.transactions
}

func (r *repos) Comments() repository.AppendOnly[*entity.Comment] { return r.comments }

func (r *repos) Sequences() repository.SequenceRepository { return r.sequences }

// sequences contador por prefijo y día.
type sequences struct {
	sess *session
}

func (s *sequences) Next(ctx context.Context, prefix, day string) (int, error) {
	var n int
	err := s.sess.write(ctx, func(st *state) error {
		key := prefix + "/" + day
		st.counters[key]++
		n = st.counters[key]
		return nil
	})
	return n, err
}
