package aegis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xraph/aegis/auditlog"
	"github.com/xraph/aegis/id"
	"github.com/xraph/aegis/permission"
	"github.com/xraph/aegis/plugin"
	"github.com/xraph/aegis/store"
)

// Engine is the central authorization engine: the RBAC gate, the ABAC
// policy override, the permission-set cache, and the async audit trail.
type Engine struct {
	store     store.Store
	resolver  *Resolver
	evaluator Evaluator
	auditor   *Auditor
	cache     Cache
	plugins   *plugin.Registry
	logger    *slog.Logger
	config    Config
}

// NewEngine creates a new Aegis engine with the given options.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		evaluator: DefaultEvaluator(),
		logger:    slog.Default(),
		config:    DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		return nil, errors.New("aegis: store is required")
	}
	e.resolver = NewResolver(e.store, e.cache, e.config.cacheTTL(), e.logger)
	if e.config.auditEnabled() {
		e.auditor = NewAuditor(e.store, e.config.auditBufferSize(), e.logger)
	}
	return e, nil
}

// Store returns the underlying composite store.
func (e *Engine) Store() store.Store { return e.store }

// Resolver returns the RBAC permission resolver.
func (e *Engine) Resolver() *Resolver { return e.resolver }

// Plugins returns the plugin registry (may be nil).
func (e *Engine) Plugins() *plugin.Registry { return e.plugins }

// Start performs any startup initialization.
func (e *Engine) Start(_ context.Context) error { return nil }

// Stop performs graceful shutdown: notifies plugins and drains the audit
// buffer.
func (e *Engine) Stop(ctx context.Context) error {
	if e.plugins != nil {
		e.plugins.EmitShutdown(ctx)
	}
	if e.auditor != nil {
		e.auditor.Close()
	}
	return nil
}

// Check performs an authorization check. This is the hot path.
//
// An empty required-permission list allows unconditionally, before the
// principal is even looked at. A missing principal fails with
// ErrUnauthenticated. The RBAC gate then requires every permission in the
// principal's resolved set; a shortfall denies with an access:denied audit
// event. Permissions that pass the gate are policy-checked in caller order,
// stopping at the first deny with a policy:deny audit event. Pure allows
// emit no audit event.
func (e *Engine) Check(ctx context.Context, req *CheckRequest) (*CheckResult, error) {
	start := time.Now()

	// No-op guard: nothing required, nothing to deny. Deliberately checked
	// before authentication.
	if len(req.Permissions) == 0 {
		return &CheckResult{
			Allowed:    true,
			Decision:   DecisionAllow,
			Reason:     "no permissions required",
			EvalTimeNs: time.Since(start).Nanoseconds(),
		}, nil
	}

	if req.Principal == nil || req.Principal.ID.IsNil() {
		return nil, ErrUnauthenticated
	}

	orgID := e.resolveOrg(ctx, req)

	if e.plugins != nil {
		e.plugins.EmitBeforeCheck(ctx, req)
	}

	perms, err := e.resolver.PermissionsFor(ctx, req.Principal.ID, orgID)
	if err != nil {
		return nil, fmt.Errorf("aegis: resolve permissions: %w", err)
	}

	var missing []string
	for _, p := range req.Permissions {
		if !perms.Has(p) {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		result := &CheckResult{
			Decision:           DecisionDenyNoPerms,
			Reason:             "missing permissions: " + strings.Join(missing, ", "),
			MissingPermissions: missing,
			EvalTimeNs:         time.Since(start).Nanoseconds(),
		}
		e.audit(req, orgID, "access:denied", result.Reason, map[string]any{
			"missing_permissions": missing,
		})
		if e.plugins != nil {
			e.plugins.EmitAfterCheck(ctx, req, result)
		}
		return result, nil
	}

	// Policies are organization-scoped; without an organization there is
	// nothing to evaluate and the RBAC grant stands.
	if e.config.policiesEnabled() && orgID != nil {
		pctx := e.policyContext(req, orgID)
		for _, key := range req.Permissions {
			dec, err := e.evaluatePolicies(ctx, key, *orgID, pctx)
			if err != nil {
				return nil, fmt.Errorf("aegis: evaluate policies for %q: %w", key, err)
			}
			if !dec.Allowed {
				result := &CheckResult{
					Decision:         DecisionDenyPolicy,
					Reason:           dec.Reason,
					DeniedPermission: key,
					MatchedPolicy:    dec.MatchedPolicy,
					EvalTimeNs:       time.Since(start).Nanoseconds(),
				}
				meta := map[string]any{"permission": key}
				if dec.MatchedPolicy != nil {
					meta["policy_id"] = dec.MatchedPolicy.ID.String()
					meta["policy_name"] = dec.MatchedPolicy.Name
				}
				e.audit(req, orgID, "policy:deny", dec.Reason, meta)
				if e.plugins != nil {
					e.plugins.EmitAfterCheck(ctx, req, result)
				}
				// First policy denial short-circuits the remaining
				// permissions.
				return result, nil
			}
		}
	}

	result := &CheckResult{
		Allowed:    true,
		Decision:   DecisionAllow,
		EvalTimeNs: time.Since(start).Nanoseconds(),
	}
	if e.plugins != nil {
		e.plugins.EmitAfterCheck(ctx, req, result)
	}
	return result, nil
}

// Enforce returns a typed error if the authorization check is denied.
func (e *Engine) Enforce(ctx context.Context, req *CheckRequest) error {
	result, err := e.Check(ctx, req)
	if err != nil {
		return err
	}
	if result.Allowed {
		return nil
	}
	switch result.Decision {
	case DecisionDenyNoPerms:
		return &MissingPermissionsError{Missing: result.MissingPermissions}
	case DecisionDenyPolicy:
		return &PolicyDeniedError{
			Permission: result.DeniedPermission,
			Policy:     result.MatchedPolicy,
			Reason:     result.Reason,
		}
	default:
		return fmt.Errorf("%w: %s", ErrAccessDenied, result.Reason)
	}
}

// Can is a shorthand for a simple boolean authorization check.
func (e *Engine) Can(ctx context.Context, principal *Principal, orgID *id.OrganizationID, permissions ...string) (bool, error) {
	result, err := e.Check(ctx, &CheckRequest{
		Principal:      principal,
		OrganizationID: orgID,
		Permissions:    permissions,
	})
	if err != nil {
		return false, err
	}
	return result.Allowed, nil
}

// evaluatePolicies runs the ABAC phase for one permission key. A permission
// record that no longer exists fail-opens: policies cannot attach to a
// permission that is not registered.
func (e *Engine) evaluatePolicies(ctx context.Context, key string, orgID id.OrganizationID, pctx *PolicyContext) (*PolicyDecision, error) {
	resource, action := permission.SplitKey(key)
	perm, err := e.store.GetPermissionByKey(ctx, resource, action)
	if err != nil {
		if errors.Is(err, permission.ErrNotFound) {
			return &PolicyDecision{Allowed: true, Reason: "permission not registered"}, nil
		}
		return nil, err
	}

	policies, err := e.store.ListActivePolicies(ctx, perm.ID, orgID)
	if err != nil {
		return nil, err
	}
	if len(policies) == 0 {
		return &PolicyDecision{Allowed: true, Reason: "no policies defined"}, nil
	}

	return e.evaluator.Evaluate(ctx, policies, pctx)
}

// resolveOrg picks the organization for a check: explicit request value
// first, then the ambient tenant scope.
func (e *Engine) resolveOrg(ctx context.Context, req *CheckRequest) *id.OrganizationID {
	if req.OrganizationID != nil {
		return req.OrganizationID
	}
	if raw := scopeFromContext(ctx).orgID; raw != "" {
		if orgID, err := id.ParseOrganizationID(raw); err == nil {
			return &orgID
		}
	}
	return nil
}

// policyContext fills a request's policy context with principal-derived
// defaults. The caller's values win where both are set.
func (e *Engine) policyContext(req *CheckRequest, orgID *id.OrganizationID) *PolicyContext {
	pctx := &PolicyContext{}
	if req.Context != nil {
		clone := *req.Context
		pctx = &clone
	}
	if pctx.UserID == "" {
		pctx.UserID = req.Principal.ID.String()
	}
	if pctx.OrganizationID == "" && orgID != nil {
		pctx.OrganizationID = orgID.String()
	}
	if pctx.UserDepartment == "" {
		pctx.UserDepartment = req.Principal.Department
	}
	if pctx.Timestamp.IsZero() {
		pctx.Timestamp = time.Now()
	}
	return pctx
}

func (e *Engine) audit(req *CheckRequest, orgID *id.OrganizationID, action, reason string, metadata map[string]any) {
	if e.auditor == nil {
		return
	}
	ev := &auditlog.Event{
		UserID:         req.Principal.ID,
		UserEmail:      req.Principal.Email,
		OrganizationID: orgID,
		Action:         action,
		Result:         auditlog.ResultFailure,
		Reason:         reason,
		Metadata:       metadata,
	}
	if req.Context != nil {
		ev.ResourceType = req.Context.ResourceType
		ev.ResourceID = req.Context.ResourceID
	}
	e.auditor.Record(ev)
}
