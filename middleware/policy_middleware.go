package middleware

import (
	"context"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/upb/forum-backend/internal/observability"
	"github.com/upb/forum-backend/models"
	"github.com/upb/forum-backend/services"
	"github.com/upb/forum-backend/utils"
	"go.uber.org/zap"
)

// errAuthenticationRequired is returned by every policy evaluated without a principal
var errAuthenticationRequired = services.NewDomainError(services.ErrorTypeUnauthorized, "Authentication required", nil)

// PostLookup fetches a post by its path identifier. A missing post must be
// reported as a not found domain error.
type PostLookup interface {
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
}

// Input is what a policy may inspect: the principal and the route parameters
type Input struct {
	Principal *Principal
	Param     func(name string) string
}

// Policy is one authorization check bound to a route. Decide returns nil to allow.
type Policy interface {
	Name() string
	Decide(ctx context.Context, in Input) error
	// FetchesResource reports whether Decide performs a store lookup
	FetchesResource() bool
}

// RoleCheck allows principals holding Role
type RoleCheck struct {
	Role string
}

func (RoleCheck) Name() string          { return "role" }
func (RoleCheck) FetchesResource() bool { return false }

func (c RoleCheck) Decide(_ context.Context, in Input) error {
	if in.Principal == nil {
		return errAuthenticationRequired
	}
	if in.Principal.HasRole(c.Role) {
		return nil
	}
	return services.ErrAccessDenied
}

// OwnerCheck allows the principal whose login equals the Param route parameter
type OwnerCheck struct {
	Param string
}

func (OwnerCheck) Name() string          { return "owner" }
func (OwnerCheck) FetchesResource() bool { return false }

func (c OwnerCheck) Decide(_ context.Context, in Input) error {
	if in.Principal == nil {
		return errAuthenticationRequired
	}
	if in.Param(c.Param) == in.Principal.Login {
		return nil
	}
	return services.ErrAccessDenied
}

// OwnerOrRoleCheck allows the owner named by Param or any holder of Role
type OwnerOrRoleCheck struct {
	Param string
	Role  string
}

func (OwnerOrRoleCheck) Name() string          { return "owner_or_role" }
func (OwnerOrRoleCheck) FetchesResource() bool { return false }

func (c OwnerOrRoleCheck) Decide(_ context.Context, in Input) error {
	if in.Principal == nil {
		return errAuthenticationRequired
	}
	if in.Param(c.Param) == in.Principal.Login || in.Principal.HasRole(c.Role) {
		return nil
	}
	return services.ErrAccessDenied
}

// PostAuthorCheck allows the author of the post identified by Param.
// A missing post fails the request with not found.
type PostAuthorCheck struct {
	Param string
	Posts PostLookup
}

func (PostAuthorCheck) Name() string          { return "post_author" }
func (PostAuthorCheck) FetchesResource() bool { return true }

func (c PostAuthorCheck) Decide(ctx context.Context, in Input) error {
	if in.Principal == nil {
		return errAuthenticationRequired
	}
	post, err := c.Posts.GetPostByID(ctx, in.Param(c.Param))
	if err != nil {
		return err
	}
	if post.Author == in.Principal.Login {
		return nil
	}
	return services.ErrAccessDenied
}

// PostAuthorOrRoleCheck allows the post author or any holder of Role. The
// post is always fetched first, so a missing post is not found even for
// principals holding Role.
type PostAuthorOrRoleCheck struct {
	Param string
	Role  string
	Posts PostLookup
}

func (PostAuthorOrRoleCheck) Name() string          { return "post_author_or_role" }
func (PostAuthorOrRoleCheck) FetchesResource() bool { return true }

func (c PostAuthorOrRoleCheck) Decide(ctx context.Context, in Input) error {
	if in.Principal == nil {
		return errAuthenticationRequired
	}
	post, err := c.Posts.GetPostByID(ctx, in.Param(c.Param))
	if err != nil {
		return err
	}
	if post.Author == in.Principal.Login || in.Principal.HasRole(c.Role) {
		return nil
	}
	return services.ErrAccessDenied
}

// Authorizer builds route middleware from policies
type Authorizer struct {
	logger *zap.Logger
}

// NewAuthorizer creates a new Authorizer
func NewAuthorizer(logger *zap.Logger) *Authorizer {
	return &Authorizer{logger: logger}
}

// Require returns middleware that allows a request only if every policy
// allows it. Checks that need no store lookup run first; evaluation stops
// at the first failure, which is written as the response.
func (a *Authorizer) Require(policies ...Policy) func(http.Handler) http.Handler {
	ordered := append([]Policy(nil), policies...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return !ordered[i].FetchesResource() && ordered[j].FetchesResource()
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			in := Input{
				Principal: GetPrincipalFromContext(ctx),
				Param:     func(name string) string { return chi.URLParam(r, name) },
			}

			for _, p := range ordered {
				if err := p.Decide(ctx, in); err != nil {
					logger := observability.ForRequest(a.logger, r)
					decision := observability.DecisionError
					if services.IsForbiddenError(err) {
						decision = observability.DecisionDeny
						logger.Info("access denied",
							zap.String("policy", p.Name()),
							zap.String("login", principalLogin(in.Principal)))
					}
					observability.RecordAuthzDecision(p.Name(), decision)
					utils.WriteServiceError(w, r, err, logger)
					return
				}
				observability.RecordAuthzDecision(p.Name(), observability.DecisionAllow)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func principalLogin(p *Principal) string {
	if p == nil {
		return ""
	}
	return p.Login
}
