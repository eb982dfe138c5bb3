package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/domain/audit"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// CheckHandler sesiones de conteo físico (protegido).
type CheckHandler struct {
	uc     *inventory.CheckUseCase
	actors audit.ActorResolver
}

// NewCheckHandler construye el handler.
func NewCheckHandler(uc *inventory.CheckUseCase, actors audit.ActorResolver) *CheckHandler {
	return &CheckHandler{uc: uc, actors: actors}
}

// Create godoc
// @Summary      Crear sesión de conteo
// @Tags         inventory-checks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateCheckRequest  true  "Nombre y alcance (bodega, zona, ubicación)"
// @Success      201   {object}  dto.CheckResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory-checks [post]
func (h *CheckHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCheckRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	ctx := c.UserContext()
	check, err := h.uc.Create(ctx, h.actors.Resolve(ctx), inventory.CreateCheckInput{
		Name:  in.Name,
		Notes: in.Notes,
		Scope: entity.CheckScope{WarehouseID: in.WarehouseID, ZoneID: in.ZoneID, BinID: in.BinID},
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCheckResponse(check))
}

// Get godoc
// @Summary      Obtener sesión de conteo con sus ítems
// @Tags         inventory-checks
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del conteo"
// @Success      200  {object}  dto.CheckResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory-checks/{id} [get]
func (h *CheckHandler) Get(c *fiber.Ctx) error {
	check, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewCheckResponse(check))
}

// List godoc
// @Summary      Listar sesiones de conteo
// @Tags         inventory-checks
// @Security     Bearer
// @Produce      json
// @Param        status  query     string  false  "DRAFT, IN_PROGRESS, COMPLETED o CANCELLED"
// @Param        limit   query     int     false  "Límite (default 20, máx 100)"
// @Param        offset  query     int     false  "Desplazamiento"
// @Success      200     {array}   dto.CheckResponse
// @Router       /api/inventory-checks [get]
func (h *CheckHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	list, err := h.uc.List(c.UserContext(), inventory.ListChecksFilter{Status: c.Query("status"), Limit: limit, Offset: offset})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]*dto.CheckResponse, 0, len(list))
	for _, ch := range list {
		out = append(out, dto.NewCheckResponse(ch))
	}
	return c.JSON(out)
}

// Start godoc
// @Summary      Iniciar conteo
// @Tags         inventory-checks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "ID del conteo"
// @Param        body  body      dto.CheckTransitionRequest  false "employee_id opcional, debe ser el usuario del token"
// @Success      200   {object}  dto.CheckResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory-checks/{id}/start [post]
func (h *CheckHandler) Start(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Start)
}

// Complete godoc
// @Summary      Completar conteo
// @Tags         inventory-checks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "ID del conteo"
// @Param        body  body      dto.CheckTransitionRequest  false "employee_id opcional, debe ser el usuario del token"
// @Success      200   {object}  dto.CheckResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory-checks/{id}/complete [post]
func (h *CheckHandler) Complete(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Complete)
}

// Cancel godoc
// @Summary      Cancelar conteo
// @Tags         inventory-checks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "ID del conteo"
// @Param        body  body      dto.CheckTransitionRequest  false "employee_id opcional, debe ser el usuario del token"
// @Success      200   {object}  dto.CheckResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory-checks/{id}/cancel [post]
func (h *CheckHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Cancel)
}

type checkTransition func(ctx context.Context, actor audit.Actor, checkID, employeeID string) (*entity.InventoryCheck, error)

func (h *CheckHandler) transition(c *fiber.Ctx, apply checkTransition) error {
	var in dto.CheckTransitionRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	employeeID, err := actingEmployee(c, in.EmployeeID)
	if err != nil {
		return writeError(c, err)
	}
	ctx := c.UserContext()
	check, err := apply(ctx, h.actors.Resolve(ctx), c.Params("id"), employeeID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewCheckResponse(check))
}

// RecordCount godoc
// @Summary      Registrar cantidad contada
// @Description  Crea el ítem con la existencia del sistema como referencia, o actualiza la cantidad contada.
// @Tags         inventory-checks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "ID del conteo"
// @Param        body  body      dto.RecordCountRequest  true  "Repuesto y cantidad contada"
// @Success      200   {object}  dto.CheckItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory-checks/{id}/items [post]
func (h *CheckHandler) RecordCount(c *fiber.Ctx) error {
	var in dto.RecordCountRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	ctx := c.UserContext()
	item, err := h.uc.RecordCount(ctx, h.actors.Resolve(ctx), inventory.RecordCountInput{
		CheckID:        c.Params("id"),
		PartID:         in.PartID,
		ActualQuantity: *in.ActualQuantity,
		Notes:          in.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewCheckItemResponse(item))
}

// GenerateAdjustment godoc
// @Summary      Generar ajuste desde las diferencias del conteo
// @Description  Idempotente: si ya existe un ajuste vivo para las diferencias, lo devuelve.
// @Tags         inventory-checks
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del conteo"
// @Success      201  {object}  dto.AdjustmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory-checks/{id}/adjustment [post]
func (h *CheckHandler) GenerateAdjustment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	adj, err := h.uc.GenerateAdjustmentFromDiscrepancies(ctx, h.actors.Resolve(ctx), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewAdjustmentResponse(adj))
}
