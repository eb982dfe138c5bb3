package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/Taller-api/internal/domain/audit"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

const replenishmentScanPage = 500

// ReplenishmentUseCase genera la lista de reposición de repuestos.
type ReplenishmentUseCase struct {
	repos repository.Repos
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(repos repository.Repos) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{repos: repos}
}

// ReplenishmentSuggestion repuesto en o bajo su nivel de reorden.
type ReplenishmentSuggestion struct {
	PartID            string
	PartNumber        string
	Name              string
	QuantityInStock   int
	MinimumStock      int
	ReorderLevel      int
	SuggestedOrderQty int
	BelowMinimum      bool
	Priority          int
}

// GenerateReplenishmentList devuelve los repuestos que alcanzaron su nivel de reorden con la cantidad
// sugerida de pedido. Los umbrales son orientativos: nada aquí modifica existencias.
// scope vacío considera todas las bodegas.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, scope entity.CheckScope) ([]ReplenishmentSuggestion, error) {
	if err := validateScope(scope); err != nil {
		return nil, err
	}
	suggestions := []ReplenishmentSuggestion{}
	q := audit.Query{}.Order(repository.ColPartNumber, false)
	for offset := 0; ; offset += replenishmentScanPage {
		page, err := uc.repos.Parts().List(ctx, q.Page(replenishmentScanPage, offset))
		if err != nil {
			return nil, err
		}
		for _, p := range page {
			if !p.InScope(scope) || !p.NeedsReorder() {
				continue
			}
			// Stock ideal: 1.5 veces el nivel de reorden (mínimo el stock mínimo).
			ideal := p.ReorderLevel * 3 / 2
			if ideal < p.MinimumStock {
				ideal = p.MinimumStock
			}
			suggested := ideal - p.QuantityInStock
			if suggested < 0 {
				suggested = 0
			}
			suggestions = append(suggestions, ReplenishmentSuggestion{
				PartID:            p.ID,
				PartNumber:        p.PartNumber,
				Name:              p.Name,
				QuantityInStock:   p.QuantityInStock,
				MinimumStock:      p.MinimumStock,
				ReorderLevel:      p.ReorderLevel,
				SuggestedOrderQty: suggested,
				BelowMinimum:      p.BelowMinimum(),
			})
		}
		if len(page) < replenishmentScanPage {
			break
		}
	}

	// Primero los que están bajo el mínimo, luego mayor déficit respecto al reorden.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.BelowMinimum != b.BelowMinimum {
			return a.BelowMinimum
		}
		return a.ReorderLevel-a.QuantityInStock > b.ReorderLevel-b.QuantityInStock
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
