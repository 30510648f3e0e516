package aegis

import (
	"context"

	"github.com/xraph/forge"
)

type orgScope struct {
	orgID string
}

// scopeFromContext extracts the tenant organization from forge.Scope or the
// standalone context fallback. Used only when a request does not name an
// organization explicitly.
func scopeFromContext(ctx context.Context) orgScope {
	if s, ok := forge.ScopeFrom(ctx); ok {
		return orgScope{orgID: s.OrgID()}
	}
	return orgScope{orgID: organizationFromContext(ctx)}
}
