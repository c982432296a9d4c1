package routes

import (
	"net/http"

	"github.com/upb/forum-backend/handlers"
	"github.com/upb/forum-backend/middleware"
	"github.com/upb/forum-backend/models"
)

// PermitAll lists the requests served without credentials
var PermitAll = []middleware.PermitRule{
	{Method: http.MethodPost, Path: "/account/register"},
	{Method: http.MethodGet, Path: "/forum/posts", Prefix: true},
}

// Binding ties a route to its authorization policies and handler
type Binding struct {
	Method   string
	Pattern  string
	Policies []middleware.Policy
	Handler  http.HandlerFunc
}

// Bindings returns the route table of the API. posts resolves the author of
// a post for the resource-author checks.
func Bindings(accounts *handlers.AccountHandler, postHandler *handlers.PostHandler, posts middleware.PostLookup) []Binding {
	admin := string(models.RoleAdmin)
	moderator := string(models.RoleModerator)

	return []Binding{
		// Accounts
		{http.MethodPost, "/account/register", nil, accounts.HandleRegister},
		{http.MethodPost, "/account/login", nil, accounts.HandleLogin},
		{http.MethodGet, "/account/user/{login}", nil, accounts.HandleGetUser},
		{http.MethodPatch, "/account/user/{login}",
			[]middleware.Policy{middleware.OwnerCheck{Param: "login"}},
			accounts.HandleUpdateUser},
		{http.MethodDelete, "/account/user/{login}",
			[]middleware.Policy{middleware.OwnerOrRoleCheck{Param: "login", Role: admin}},
			accounts.HandleDeleteUser},
		{http.MethodPatch, "/account/user/{login}/role/{role}",
			[]middleware.Policy{middleware.RoleCheck{Role: admin}},
			accounts.HandleAddRole},
		{http.MethodDelete, "/account/user/{login}/role/{role}",
			[]middleware.Policy{middleware.RoleCheck{Role: admin}},
			accounts.HandleDeleteRole},
		{http.MethodPatch, "/account/password", nil, accounts.HandleChangePassword},

		// Posts
		{http.MethodPost, "/forum/post/{author}",
			[]middleware.Policy{middleware.OwnerCheck{Param: "author"}},
			postHandler.HandleCreatePost},
		{http.MethodGet, "/forum/post/{id}", nil, postHandler.HandleGetPost},
		{http.MethodPatch, "/forum/post/{id}",
			[]middleware.Policy{middleware.PostAuthorCheck{Param: "id", Posts: posts}},
			postHandler.HandleUpdatePost},
		{http.MethodDelete, "/forum/post/{id}",
			[]middleware.Policy{middleware.PostAuthorOrRoleCheck{Param: "id", Role: moderator, Posts: posts}},
			postHandler.HandleDeletePost},
		{http.MethodPatch, "/forum/post/{id}/like", nil, postHandler.HandleAddLike},
		{http.MethodPatch, "/forum/post/{id}/comment/{login}",
			[]middleware.Policy{middleware.OwnerCheck{Param: "login"}},
			postHandler.HandleAddComment},
		{http.MethodGet, "/forum/posts/author/{author}", nil, postHandler.HandlePostsByAuthor},
		{http.MethodGet, "/forum/posts/tags", nil, postHandler.HandlePostsByTags},
		{http.MethodGet, "/forum/posts/period", nil, postHandler.HandlePostsByPeriod},
	}
}
