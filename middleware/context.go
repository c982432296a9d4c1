package middleware

import (
	"context"
	"strings"
)

// Context key type to avoid collisions
type contextKey string

// PrincipalKey is the context key for the authenticated principal
const PrincipalKey contextKey = "principal"

// Principal is the identity established by authentication for one request
type Principal struct {
	Login string   `json:"login"`
	Roles []string `json:"roles"`
}

// NewPrincipal copies roles so later changes to the source slice are not observed
func NewPrincipal(login string, roles []string) *Principal {
	return &Principal{
		Login: login,
		Roles: append([]string(nil), roles...),
	}
}

// HasRole reports whether the principal holds role. The required role is
// trimmed and upper-cased before comparison.
func (p *Principal) HasRole(role string) bool {
	want := strings.ToUpper(strings.TrimSpace(role))
	for _, r := range p.Roles {
		if r == want {
			return true
		}
	}
	return false
}

// GetPrincipalFromContext retrieves the principal from context, or nil
func GetPrincipalFromContext(ctx context.Context) *Principal {
	if val := ctx.Value(PrincipalKey); val != nil {
		if p, ok := val.(*Principal); ok {
			return p
		}
	}
	return nil
}

// WithPrincipal adds the principal to the context
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}
