package audit

import (
	"context"
	"time"
)

// SystemActorID identifica al actor cuando no hay un usuario autenticado (jobs, CLI, seeds).
const SystemActorID = "System"

// Actor quién y cuándo. Se resuelve una sola vez en el borde de la llamada y se pasa
// explícitamente a cada escritura auditada.
type Actor struct {
	ID string
	At time.Time
}

// System devuelve el actor centinela para el instante indicado.
func System(at time.Time) Actor {
	return Actor{ID: SystemActorID, At: at}
}

// Valid indica si el actor tiene identidad y marca de tiempo.
func (a Actor) Valid() bool {
	return a.ID != "" && !a.At.IsZero()
}

// ActorResolver política intercambiable para obtener el actor de una llamada.
// Las peticiones HTTP lo derivan del token; los procesos en segundo plano usan SystemResolver.
type ActorResolver interface {
	Resolve(ctx context.Context) Actor
}

// SystemResolver resuelve siempre al actor de sistema.
type SystemResolver struct {
	Now func() time.Time
}

func (r SystemResolver) Resolve(_ context.Context) Actor {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return System(now().UTC())
}
