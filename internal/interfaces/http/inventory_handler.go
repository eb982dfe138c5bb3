package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/domain/audit"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// InventoryHandler movimientos de stock, libro y reposición (protegido).
type InventoryHandler struct {
	movements     *inventory.MovementUseCase
	replenishment *inventory.ReplenishmentUseCase
	actors        audit.ActorResolver
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(movements *inventory.MovementUseCase, replenishment *inventory.ReplenishmentUseCase, actors audit.ActorResolver) *InventoryHandler {
	return &InventoryHandler{movements: movements, replenishment: replenishment, actors: actors}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  INBOUND suma, OUTBOUND y WRITE_OFF restan. allow_negative solo aplica a WRITE_OFF.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                       true  "ID del repuesto"
// @Param        body  body      dto.RegisterMovementRequest  true  "type y quantity; employee_id opcional, debe ser el usuario del token"
// @Success      201   {object}  dto.StockTransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/parts/{id}/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	employeeID, err := actingEmployee(c, in.EmployeeID)
	if err != nil {
		return writeError(c, err)
	}
	ctx := c.UserContext()
	tx, err := h.movements.RegisterMovement(ctx, h.actors.Resolve(ctx), inventory.MovementInput{
		PartID:        c.Params("id"),
		Type:          in.Type,
		Quantity:      in.Quantity,
		EmployeeID:    employeeID,
		Notes:         in.Notes,
		AllowNegative: in.AllowNegative,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewStockTransactionResponse(tx))
}

// GetLedger godoc
// @Summary      Historial del libro de stock de un repuesto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path      string  true   "ID del repuesto"
// @Param        limit   query     int     false  "Límite (default 20, máx 100)"
// @Param        offset  query     int     false  "Desplazamiento"
// @Success      200     {array}   dto.StockTransactionResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/parts/{id}/ledger [get]
func (h *InventoryHandler) GetLedger(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	list, err := h.movements.History(c.UserContext(), c.Params("id"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.StockTransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.NewStockTransactionResponse(t))
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliar existencia con el libro
// @Description  Compara quantity_in_stock con la suma de movimientos. Solo lectura.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del repuesto"
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parts/{id}/reconciliation [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	r, err := h.movements.Reconcile(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReconciliationResponse{
		PartID:          r.PartID,
		PartNumber:      r.PartNumber,
		QuantityInStock: r.QuantityInStock,
		LedgerBalance:   r.LedgerBalance,
		Difference:      r.Difference,
		Consistent:      r.Consistent,
	})
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Repuestos en o bajo su nivel de reorden con la cantidad sugerida de pedido.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query     string  false  "Bodega. Vacío = todas."
// @Param        zone_id       query     string  false  "Zona (requiere warehouse_id)"
// @Param        bin_id        query     string  false  "Ubicación (requiere zone_id)"
// @Success      200           {array}   dto.ReplenishmentSuggestionDTO
// @Failure      400           {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), entity.CheckScope{
		WarehouseID: c.Query("warehouse_id"),
		ZoneID:      c.Query("zone_id"),
		BinID:       c.Query("bin_id"),
	})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ReplenishmentSuggestionDTO, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ReplenishmentSuggestionDTO{
			PartID:            s.PartID,
			PartNumber:        s.PartNumber,
			Name:              s.Name,
			QuantityInStock:   s.QuantityInStock,
			MinimumStock:      s.MinimumStock,
			ReorderLevel:      s.ReorderLevel,
			SuggestedOrderQty: s.SuggestedOrderQty,
			BelowMinimum:      s.BelowMinimum,
			Priority:          s.Priority,
		})
	}
	return c.JSON(out)
}
