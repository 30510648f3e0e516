package aegis

import "context"

type contextKey int

const ctxKeyOrgID contextKey = iota

// WithOrganization returns a context carrying the given organization ID.
// Use this for standalone mode (without Forge).
func WithOrganization(ctx context.Context, orgID string) context.Context {
	return context.WithValue(ctx, ctxKeyOrgID, orgID)
}

func organizationFromContext(ctx context.Context) string {
	v, ok := ctx.Value(ctxKeyOrgID).(string)
	if !ok {
		return ""
	}
	return v
}
