package utils

import (
	"context"
)

type contextKey string

const ContextUserIDKey contextKey = "userID"

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID := ctx.Value(ContextUserIDKey)
	userIDStr, ok := userID.(string)
	return userIDStr, ok
}

// OwnedBy reports whether callerID matches the owner stamped on a resource.
// A record with no recorded owner matches nobody.
func OwnedBy(ownerID, callerID string) bool {
	return ownerID != "" && ownerID == callerID
}
