package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/audit"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// PartUseCase catálogo de repuestos. La existencia no se edita aquí: se maneja vía movimientos y ajustes.
type PartUseCase struct {
	repo repository.Store[*entity.Part]
}

// NewPartUseCase construye el caso de uso.
func NewPartUseCase(repo repository.Store[*entity.Part]) *PartUseCase {
	return &PartUseCase{repo: repo}
}

// Create crea un repuesto con existencia 0. PartNumber es único entre registros activos.
func (uc *PartUseCase) Create(ctx context.Context, actor audit.Actor, in dto.CreatePartRequest) (*dto.PartResponse, error) {
	number := strings.TrimSpace(in.PartNumber)
	if number == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := checkLocation(in.WarehouseID, in.ZoneID, in.BinID); err != nil {
		return nil, err
	}
	_, err := uc.repo.FirstWhere(ctx, audit.Where(repository.ColPartNumber, number))
	switch {
	case err == nil:
		return nil, domain.ErrConflict
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}
	if in.Unit == "" {
		in.Unit = "UND"
	}
	part := &entity.Part{
		PartNumber:   number,
		Name:         strings.TrimSpace(in.Name),
		Unit:         in.Unit,
		MinimumStock: in.MinimumStock,
		ReorderLevel: in.ReorderLevel,
		WarehouseID:  in.WarehouseID,
		ZoneID:       in.ZoneID,
		BinID:        in.BinID,
	}
	if err := uc.repo.Create(ctx, actor, part); err != nil {
		return nil, err
	}
	return toPartResponse(part), nil
}

// GetByID obtiene un repuesto activo.
func (uc *PartUseCase) GetByID(ctx context.Context, id string) (*dto.PartResponse, error) {
	part, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPartResponse(part), nil
}

// Update actualiza datos de catálogo y ubicación. No toca QuantityInStock.
func (uc *PartUseCase) Update(ctx context.Context, actor audit.Actor, id string, in dto.UpdatePartRequest) (*dto.PartResponse, error) {
	part, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		part.Name = strings.TrimSpace(*in.Name)
	}
	if in.Unit != nil {
		part.Unit = *in.Unit
	}
	if in.MinimumStock != nil {
		part.MinimumStock = *in.MinimumStock
	}
	if in.ReorderLevel != nil {
		part.ReorderLevel = *in.ReorderLevel
	}
	if in.WarehouseID != nil {
		part.WarehouseID = *in.WarehouseID
	}
	if in.ZoneID != nil {
		part.ZoneID = *in.ZoneID
	}
	if in.BinID != nil {
		part.BinID = *in.BinID
	}
	if err := checkLocation(part.WarehouseID, part.ZoneID, part.BinID); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, actor, part); err != nil {
		return nil, err
	}
	return toPartResponse(part), nil
}

// List lista repuestos activos ordenados por número de parte.
func (uc *PartUseCase) List(ctx context.Context, limit, offset int) (*dto.PartListResponse, error) {
	q := audit.Query{}.Order(repository.ColPartNumber, false).Page(limit, offset)
	list, err := uc.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx, audit.Query{})
	if err != nil {
		return nil, err
	}
	return toPartList(list, limit, offset, total), nil
}

// Delete borrado lógico: el repuesto deja de aparecer en lecturas normales.
func (uc *PartUseCase) Delete(ctx context.Context, actor audit.Actor, id string) error {
	return uc.repo.Delete(ctx, actor, id)
}

// Restore recupera un repuesto eliminado. Falla con ErrConflict si otro activo tomó su número de parte.
func (uc *PartUseCase) Restore(ctx context.Context, actor audit.Actor, id string) (*dto.PartResponse, error) {
	deleted, err := uc.repo.GetDeleted(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := uc.repo.FirstWhere(ctx, audit.Where(repository.ColPartNumber, deleted.PartNumber)); err == nil {
		return nil, domain.ErrConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	part, err := uc.repo.Restore(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toPartResponse(part), nil
}

// ListDeleted vista administrativa de repuestos eliminados.
func (uc *PartUseCase) ListDeleted(ctx context.Context, limit, offset int) (*dto.PartListResponse, error) {
	q := audit.Query{}.Order(repository.ColPartNumber, false).Page(limit, offset)
	list, err := uc.repo.ListDeleted(ctx, q)
	if err != nil {
		return nil, err
	}
	return toPartList(list, limit, offset, 0), nil
}

func checkLocation(warehouseID, zoneID, binID string) error {
	if zoneID != "" && warehouseID == "" {
		return domain.Validationf("zone_id requiere warehouse_id")
	}
	if binID != "" && zoneID == "" {
		return domain.Validationf("bin_id requiere zone_id")
	}
	return nil
}

func toPartList(list []*entity.Part, limit, offset, total int) *dto.PartListResponse {
	items := make([]dto.PartResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPartResponse(p))
	}
	return &dto.PartListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}
}

func toPartResponse(p *entity.Part) *dto.PartResponse {
	if p == nil {
		return nil
	}
	return &dto.PartResponse{
		ID:              p.ID,
		PartNumber:      p.PartNumber,
		Name:            p.Name,
		Unit:            p.Unit,
		QuantityInStock: p.QuantityInStock,
		MinimumStock:    p.MinimumStock,
		ReorderLevel:    p.ReorderLevel,
		WarehouseID:     p.WarehouseID,
		ZoneID:          p.ZoneID,
		BinID:           p.BinID,
		CreatedAt:       p.CreatedAt,
		CreatedBy:       p.CreatedBy,
		UpdatedAt:       p.UpdatedAt,
		UpdatedBy:       p.UpdatedBy,
		DeletedAt:       p.DeletedAt,
		DeletedBy:       p.DeletedBy,
		IsDeleted:       p.IsDeleted,
	}
}
