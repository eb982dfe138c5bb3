package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
	"github.com/jhoicas/Taller-api/internal/domain/audit"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	PartUC          *usecase.PartUseCase
	EmployeeUC      *usecase.EmployeeUseCase
	CheckUC         *inventory.CheckUseCase
	AdjustmentUC    *inventory.AdjustmentUseCase
	CommentUC       *inventory.CommentUseCase
	MovementUC      *inventory.MovementUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	Actors          audit.ActorResolver
	JWTSecret       string
}

// Router registra las rutas de la API. Salvo el login, todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	actors := deps.Actors
	if actors == nil {
		actors = RequestActorResolver{}
	}

	api := app.Group("/api")
	if deps.AuthUC != nil {
		api.Post("/auth/login", NewAuthHandler(deps.AuthUC).Login)
	}
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	managers := RequireRole(RoleAdmin, RoleJefeTaller)

	// Repuestos
	parts := protected.Group("/parts")
	partHandler := NewPartHandler(deps.PartUC, actors)
	inventoryHandler := NewInventoryHandler(deps.MovementUC, deps.ReplenishmentUC, actors)
	parts.Post("/", managers, partHandler.Create)
	parts.Get("/", partHandler.List)
	parts.Get("/:id", partHandler.GetByID)
	parts.Put("/:id", managers, partHandler.Update)
	parts.Post("/:id/movements", inventoryHandler.RegisterMovement)
	parts.Get("/:id/ledger", inventoryHandler.GetLedger)
	parts.Get("/:id/reconciliation", inventoryHandler.Reconcile)

	protected.Get("/inventory/replenishment-list", inventoryHandler.GetReplenishmentList)

	comments := NewCommentHandler(deps.CommentUC, actors)

	// Conteos
	checks := protected.Group("/inventory-checks")
	checkHandler := NewCheckHandler(deps.CheckUC, actors)
	checks.Post("/", checkHandler.Create)
	checks.Get("/", checkHandler.List)
	checks.Get("/:id", checkHandler.Get)
	checks.Post("/:id/start", checkHandler.Start)
	checks.Post("/:id/items", checkHandler.RecordCount)
	checks.Post("/:id/complete", checkHandler.Complete)
	checks.Post("/:id/cancel", managers, checkHandler.Cancel)
	checks.Post("/:id/adjustment", checkHandler.GenerateAdjustment)
	checks.Post("/:id/comments", comments.Add(entity.CommentParentCheck))
	checks.Get("/:id/comments", comments.List(entity.CommentParentCheck))

	// Ajustes
	adjustments := protected.Group("/inventory-adjustments")
	adjustmentHandler := NewAdjustmentHandler(deps.AdjustmentUC, actors)
	adjustments.Post("/", adjustmentHandler.Create)
	adjustments.Get("/", adjustmentHandler.List)
	adjustments.Get("/:id", adjustmentHandler.Get)
	adjustments.Post("/:id/approve", managers, adjustmentHandler.Approve)
	adjustments.Post("/:id/reject", managers, adjustmentHandler.Reject)
	adjustments.Post("/:id/comments", comments.Add(entity.CommentParentAdjustment))
	adjustments.Get("/:id/comments", comments.List(entity.CommentParentAdjustment))

	// Administración
	admin := protected.Group("/admin", RequireRole(RoleAdmin))
	admin.Get("/parts/deleted", partHandler.ListDeleted)
	admin.Delete("/parts/:id", partHandler.Delete)
	admin.Post("/parts/:id/restore", partHandler.Restore)

	employeeHandler := NewEmployeeHandler(deps.EmployeeUC, actors)
	admin.Post("/employees", employeeHandler.Create)
	admin.Get("/employees/by-code/:code", employeeHandler.GetByCode)
	admin.Get("/employees/:id", employeeHandler.GetByID)
	admin.Post("/employees/:id/deactivate", employeeHandler.Deactivate)
}
