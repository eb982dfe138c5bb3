package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/audit"
)

type userIDKey struct{}

func withUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// actingEmployee el empleado que actúa es el del token. El id del cuerpo es opcional y, si viene,
// debe coincidir: nadie firma aprobaciones ni conteos en nombre de otro.
func actingEmployee(c *fiber.Ctx, claimed string) (string, error) {
	userID := GetUserID(c)
	if userID == "" {
		return "", fmt.Errorf("%w: petición sin usuario autenticado", domain.ErrUnauthorized)
	}
	if claimed != "" && claimed != userID {
		return "", fmt.Errorf("%w: no se puede actuar en nombre del empleado %s", domain.ErrForbidden, claimed)
	}
	return userID, nil
}

// RequestActorResolver toma el actor del usuario autenticado; sin usuario usa el actor de sistema.
type RequestActorResolver struct {
	Now func() time.Time
}

// Resolve implementa audit.ActorResolver.
func (r RequestActorResolver) Resolve(ctx context.Context) audit.Actor {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	at := now().UTC()
	if id, _ := ctx.Value(userIDKey{}).(string); id != "" {
		return audit.Actor{ID: id, At: at}
	}
	return audit.System(at)
}
