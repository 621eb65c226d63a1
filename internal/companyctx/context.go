package companyctx

import (
	"context"
	"strconv"
	"strings"
)

// CompanyKey is the request context key for the active company ID.
type CompanyKey struct{}

// ActorKey is the request context key for the authenticated caller.
type ActorKey struct{}

// Actor identifies the authenticated caller the upstream gateway resolved.
type Actor struct {
	UserID int64
	Role   string
}

// WithCompanyID stores the company ID in the context.
func WithCompanyID(ctx context.Context, companyID int64) context.Context {
	return context.WithValue(ctx, CompanyKey{}, companyID)
}

// CompanyIDFromContext returns the company ID from context, if set.
func CompanyIDFromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}

	switch typed := ctx.Value(CompanyKey{}).(type) {
	case int64:
		return typed, typed != 0
	case int:
		return int64(typed), typed != 0
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err == nil && parsed != 0 {
			return parsed, true
		}
	}
	return 0, false
}

// WithActor stores the caller identity in the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, ActorKey{}, actor)
}

// ActorFromContext returns the caller identity from context, if set.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(ActorKey{}).(Actor)
	return actor, ok
}
