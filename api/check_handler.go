package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/aegis"
	"github.com/xraph/aegis/id"
)

func (a *API) registerCheckRoutes(router forge.Router) error {
	g := router.Group("/v1/authz", forge.WithGroupTags("authorization"))

	if err := g.POST("/check", a.check,
		forge.WithSummary("Authorization check"),
		forge.WithDescription("Evaluates whether the principal holds the required permissions, subject to policy overrides."),
		forge.WithOperationID("authzCheck"),
		forge.WithRequestSchema(CheckRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Check result", CheckResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.POST("/enforce", a.enforce,
		forge.WithSummary("Enforce authorization"),
		forge.WithDescription("Returns 200 if allowed, 403 if denied."),
		forge.WithOperationID("authzEnforce"),
		forge.WithRequestSchema(CheckRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Allowed", CheckResponse{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) check(ctx forge.Context, req *CheckRequest) (*CheckResponse, error) {
	in, err := toCheckRequest(req)
	if err != nil {
		return nil, err
	}

	result, err := a.eng.Check(ctx.Context(), in)
	if err != nil {
		return nil, mapError(err)
	}

	resp := toCheckResponse(result)
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) enforce(ctx forge.Context, req *CheckRequest) (*CheckResponse, error) {
	in, err := toCheckRequest(req)
	if err != nil {
		return nil, err
	}

	result, err := a.eng.Check(ctx.Context(), in)
	if err != nil {
		return nil, mapError(err)
	}

	resp := toCheckResponse(result)
	if !result.Allowed {
		return resp, ctx.JSON(http.StatusForbidden, resp)
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func toCheckRequest(r *CheckRequest) (*aegis.CheckRequest, error) {
	if r.PrincipalID == "" {
		return nil, forge.BadRequest("principal_id is required")
	}
	userID, err := id.ParseUserID(r.PrincipalID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid principal_id: %v", err))
	}

	in := &aegis.CheckRequest{
		Principal: &aegis.Principal{
			ID:         userID,
			Email:      r.PrincipalEmail,
			Department: r.Department,
		},
		Permissions: r.Permissions,
	}

	if r.OrganizationID != "" {
		orgID, err := id.ParseOrganizationID(r.OrganizationID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid organization_id: %v", err))
		}
		in.OrganizationID = &orgID
	}

	if r.Context != nil {
		in.Context = &aegis.PolicyContext{
			ResourceType:    r.Context.ResourceType,
			ResourceID:      r.Context.ResourceID,
			ResourceOwnerID: r.Context.ResourceOwnerID,
			Amount:          r.Context.Amount,
			Metadata:        r.Context.Metadata,
		}
	}

	return in, nil
}

func toCheckResponse(r *aegis.CheckResult) *CheckResponse {
	resp := &CheckResponse{
		Allowed:            r.Allowed,
		Decision:           string(r.Decision),
		Reason:             r.Reason,
		MissingPermissions: r.MissingPermissions,
		DeniedPermission:   r.DeniedPermission,
		EvalTimeNs:         r.EvalTimeNs,
	}
	if r.MatchedPolicy != nil {
		resp.MatchedPolicy = &MatchedPolicyInfo{
			ID:     r.MatchedPolicy.ID.String(),
			Name:   r.MatchedPolicy.Name,
			Effect: string(r.MatchedPolicy.Effect),
		}
	}
	return resp
}
