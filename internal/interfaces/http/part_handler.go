package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
	"github.com/jhoicas/Taller-api/internal/domain/audit"
)

// PartHandler catálogo de repuestos (protegido). Borrar, restaurar y ver borrados es solo de admin.
type PartHandler struct {
	uc     *usecase.PartUseCase
	actors audit.ActorResolver
}

// NewPartHandler construye el handler.
func NewPartHandler(uc *usecase.PartUseCase, actors audit.ActorResolver) *PartHandler {
	return &PartHandler{uc: uc, actors: actors}
}

// Create godoc
// @Summary      Crear repuesto
// @Description  La existencia inicia en 0; se carga con movimientos INBOUND.
// @Tags         parts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreatePartRequest  true  "Datos del repuesto"
// @Success      201   {object}  dto.PartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/parts [post]
func (h *PartHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePartRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	ctx := c.UserContext()
	out, err := h.uc.Create(ctx, h.actors.Resolve(ctx), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener repuesto
// @Tags         parts
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del repuesto"
// @Success      200  {object}  dto.PartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parts/{id} [get]
func (h *PartHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar repuesto
// @Tags         parts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "ID del repuesto"
// @Param        body  body      dto.UpdatePartRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.PartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/parts/{id} [put]
func (h *PartHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePartRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	ctx := c.UserContext()
	out, err := h.uc.Update(ctx, h.actors.Resolve(ctx), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar repuestos
// @Tags         parts
// @Security     Bearer
// @Produce      json
// @Param        limit   query     int  false  "Límite (default 20, máx 100)"
// @Param        offset  query     int  false  "Desplazamiento"
// @Success      200     {object}  dto.PartListResponse
// @Router       /api/parts [get]
func (h *PartHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.UserContext(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar repuesto (borrado lógico)
// @Tags         parts
// @Security     Bearer
// @Param        id   path  string  true  "ID del repuesto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/parts/{id} [delete]
func (h *PartHandler) Delete(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := h.uc.Delete(ctx, h.actors.Resolve(ctx), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Restore godoc
// @Summary      Restaurar repuesto borrado
// @Tags         parts
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del repuesto"
// @Success      200  {object}  dto.PartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/parts/{id}/restore [post]
func (h *PartHandler) Restore(c *fiber.Ctx) error {
	ctx := c.UserContext()
	out, err := h.uc.Restore(ctx, h.actors.Resolve(ctx), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListDeleted godoc
// @Summary      Listar repuestos borrados
// @Tags         parts
// @Security     Bearer
// @Produce      json
// @Param        limit   query     int  false  "Límite (default 20, máx 100)"
// @Param        offset  query     int  false  "Desplazamiento"
// @Success      200     {object}  dto.PartListResponse
// @Router       /api/admin/parts/deleted [get]
func (h *PartHandler) ListDeleted(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.ListDeleted(c.UserContext(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
