package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/domain/audit"
)

// AdjustmentHandler ajustes de inventario (protegido). Aprobar y rechazar requieren rol de jefe.
type AdjustmentHandler struct {
	uc     *inventory.AdjustmentUseCase
	actors audit.ActorResolver
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(uc *inventory.AdjustmentUseCase, actors audit.ActorResolver) *AdjustmentHandler {
	return &AdjustmentHandler{uc: uc, actors: actors}
}

// Create godoc
// @Summary      Crear ajuste manual
// @Tags         inventory-adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateAdjustmentRequest  true  "Motivo y líneas (cambio distinto de cero)"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory-adjustments [post]
func (h *AdjustmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAdjustmentRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	items := make([]inventory.AdjustmentItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, inventory.AdjustmentItemInput{PartID: it.PartID, QuantityChange: it.QuantityChange})
	}
	ctx := c.UserContext()
	adj, err := h.uc.Create(ctx, h.actors.Resolve(ctx), inventory.CreateAdjustmentInput{
		Reason:  in.Reason,
		CheckID: in.CheckID,
		Items:   items,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewAdjustmentResponse(adj))
}

// Get godoc
// @Summary      Obtener ajuste con sus líneas
// @Tags         inventory-adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del ajuste"
// @Success      200  {object}  dto.AdjustmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory-adjustments/{id} [get]
func (h *AdjustmentHandler) Get(c *fiber.Ctx) error {
	adj, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewAdjustmentResponse(adj))
}

// List godoc
// @Summary      Listar ajustes
// @Tags         inventory-adjustments
// @Security     Bearer
// @Produce      json
// @Param        status    query     string  false  "PENDING, APPROVED o REJECTED"
// @Param        check_id  query     string  false  "Conteo de origen"
// @Param        limit     query     int     false  "Límite (default 20, máx 100)"
// @Param        offset    query     int     false  "Desplazamiento"
// @Success      200       {array}   dto.AdjustmentResponse
// @Router       /api/inventory-adjustments [get]
func (h *AdjustmentHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	list, err := h.uc.List(c.UserContext(), inventory.ListAdjustmentsFilter{
		Status:  c.Query("status"),
		CheckID: c.Query("check_id"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]*dto.AdjustmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.NewAdjustmentResponse(a))
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar ajuste
// @Description  Aplica todas las líneas al stock en una sola transacción. Sin allow_negative_stock,
//
//	cualquier línea que deje existencia negativa revierte todo.
//
// @Tags         inventory-adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                        true  "ID del ajuste"
// @Param        body  body      dto.ApproveAdjustmentRequest  true  "Notas y autorización de negativos; approver_id opcional, debe ser el usuario del token"
// @Success      200   {object}  dto.AdjustmentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory-adjustments/{id}/approve [post]
func (h *AdjustmentHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveAdjustmentRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	approverID, err := actingEmployee(c, in.ApproverID)
	if err != nil {
		return writeError(c, err)
	}
	ctx := c.UserContext()
	adj, err := h.uc.Approve(ctx, h.actors.Resolve(ctx), inventory.ApproveInput{
		AdjustmentID:       c.Params("id"),
		ApproverID:         approverID,
		Notes:              in.Notes,
		AllowNegativeStock: in.AllowNegativeStock,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewAdjustmentResponse(adj))
}

// Reject godoc
// @Summary      Rechazar ajuste
// @Tags         inventory-adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                       true  "ID del ajuste"
// @Param        body  body      dto.RejectAdjustmentRequest  true  "Motivo; approver_id opcional, debe ser el usuario del token"
// @Success      200   {object}  dto.AdjustmentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory-adjustments/{id}/reject [post]
func (h *AdjustmentHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectAdjustmentRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	approverID, err := actingEmployee(c, in.ApproverID)
	if err != nil {
		return writeError(c, err)
	}
	ctx := c.UserContext()
	adj, err := h.uc.Reject(ctx, h.actors.Resolve(ctx), inventory.RejectInput{
		AdjustmentID: c.Params("id"),
		ApproverID:   approverID,
		Reason:       in.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewAdjustmentResponse(adj))
}
