package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/domain/audit"
)

// CommentHandler bitácora de notas; se monta bajo conteos y ajustes.
type CommentHandler struct {
	uc     *inventory.CommentUseCase
	actors audit.ActorResolver
}

// NewCommentHandler construye el handler.
func NewCommentHandler(uc *inventory.CommentUseCase, actors audit.ActorResolver) *CommentHandler {
	return &CommentHandler{uc: uc, actors: actors}
}

// Add godoc
// @Summary      Agregar nota a un conteo o ajuste
// @Tags         comments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "ID del conteo o ajuste"
// @Param        body  body      dto.AddCommentRequest  true  "Texto; el autor es el usuario del token"
// @Success      201   {object}  dto.CommentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory-checks/{id}/comments [post]
// @Router       /api/inventory-adjustments/{id}/comments [post]
func (h *CommentHandler) Add(parentType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in dto.AddCommentRequest
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		authorID, err := actingEmployee(c, in.AuthorID)
		if err != nil {
			return writeError(c, err)
		}
		ctx := c.UserContext()
		cm, err := h.uc.AddComment(ctx, h.actors.Resolve(ctx), inventory.AddCommentInput{
			ParentType: parentType,
			ParentID:   c.Params("id"),
			AuthorID:   authorID,
			Text:       in.CommentText,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(dto.NewCommentResponse(cm))
	}
}

// List godoc
// @Summary      Listar notas en orden cronológico
// @Tags         comments
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del conteo o ajuste"
// @Success      200  {array}   dto.CommentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory-checks/{id}/comments [get]
// @Router       /api/inventory-adjustments/{id}/comments [get]
func (h *CommentHandler) List(parentType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out := []dto.CommentResponse{}
		for cm, err := range h.uc.ListComments(c.UserContext(), parentType, c.Params("id")) {
			if err != nil {
				return writeError(c, err)
			}
			out = append(out, dto.NewCommentResponse(cm))
		}
		return c.JSON(out)
	}
}
