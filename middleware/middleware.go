// Package middleware provides HTTP authorization middleware for Aegis.
package middleware

import (
	"encoding/json"

	"github.com/xraph/forge"

	"github.com/xraph/aegis"
	"github.com/xraph/aegis/id"
)

// Operations maps named API operations to the permission keys they require.
// Routes declare the operation; the table owns the permission mapping, so
// permission changes never touch route registrations.
var Operations = map[string][]string{
	"invoice.read":    {"invoice:read"},
	"invoice.create":  {"invoice:create"},
	"invoice.approve": {"invoice:approve"},
	"invoice.delete":  {"invoice:delete"},
	"report.view":     {"report:view"},
	"report.export":   {"report:view", "report:export"},
	"user.manage":     {"user:read", "user:write"},
}

// ContextFunc builds the policy context for a request. The default pulls the
// resource ID from the "id" path parameter; callers with richer request
// knowledge (body amounts, resource owners) install their own.
type ContextFunc func(ctx forge.Context) *aegis.PolicyContext

// Option configures middleware behavior.
type Option func(*config)

type config struct {
	contextFn ContextFunc
}

// WithContextFunc sets the policy context builder.
func WithContextFunc(fn ContextFunc) Option {
	return func(c *config) { c.contextFn = fn }
}

func defaultContext(ctx forge.Context) *aegis.PolicyContext {
	return &aegis.PolicyContext{
		ResourceID: ctx.Param("id"),
	}
}

// Require enforces the given permissions. The principal is resolved from the
// request context, the organization from the tenant scope. Missing
// permissions or a matching deny policy produce a 403; an unauthenticated
// request produces a 401.
func Require(eng *aegis.Engine, permissions []string, opts ...Option) forge.Middleware {
	cfg := &config{contextFn: defaultContext}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			principal, ok := resolvePrincipal(ctx)
			if !ok {
				return unauthenticatedResponse(ctx)
			}

			err := eng.Enforce(ctx.Context(), &aegis.CheckRequest{
				Principal:   principal,
				Permissions: permissions,
				Context:     cfg.contextFn(ctx),
			})
			if err != nil {
				return denyResponse(ctx, err)
			}
			return next(ctx)
		}
	}
}

// RequireOperation enforces the permissions the Operations table declares
// for the named operation. Unknown operations deny every request rather
// than silently allowing.
func RequireOperation(eng *aegis.Engine, operation string, opts ...Option) forge.Middleware {
	permissions, known := Operations[operation]
	if !known {
		return func(forge.Handler) forge.Handler {
			return func(ctx forge.Context) error {
				return denyResponse(ctx, aegis.ErrAccessDenied)
			}
		}
	}
	return Require(eng, permissions, opts...)
}

// resolvePrincipal extracts the acting user from the request context.
func resolvePrincipal(ctx forge.Context) (*aegis.Principal, bool) {
	raw := forge.UserIDFromContext(ctx.Context())
	if raw == "" {
		return nil, false
	}
	userID, err := id.ParseUserID(raw)
	if err != nil {
		return nil, false
	}
	return &aegis.Principal{ID: userID}, true
}

func unauthenticatedResponse(ctx forge.Context) error {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.Response().WriteHeader(401)
	return json.NewEncoder(ctx.Response()).Encode(map[string]string{"error": "authentication required"})
}

func denyResponse(ctx forge.Context, err error) error {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.Response().WriteHeader(403)
	return json.NewEncoder(ctx.Response()).Encode(map[string]string{"error": err.Error()})
}
