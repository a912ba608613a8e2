package shared

import (
	"context"

	"github.com/google/uuid"
)

type actorKey struct{}

// ContextWithActor records the user a request acts on behalf of
func ContextWithActor(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFromContext returns the user stored by ContextWithActor
func ActorFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(actorKey{}).(uuid.UUID)
	return id, ok && id != uuid.Nil
}
