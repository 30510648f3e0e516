package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/aegis/id"
	"github.com/xraph/aegis/policy"
)

func (a *API) registerPolicyRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("policies"))

	if err := g.POST("/policies", a.createPolicy,
		forge.WithSummary("Create policy"),
		forge.WithDescription("Creates an ABAC policy attached to a permission within an organization."),
		forge.WithOperationID("createPolicy"),
		forge.WithRequestSchema(CreatePolicyRequest{}),
		forge.WithCreatedResponse(&policy.Policy{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/policies/:policyId", a.getPolicy,
		forge.WithSummary("Get policy"),
		forge.WithDescription("Returns details of a specific policy."),
		forge.WithOperationID("getPolicy"),
		forge.WithResponseSchema(http.StatusOK, "Policy details", &policy.Policy{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/policies/:policyId", a.updatePolicy,
		forge.WithSummary("Update policy"),
		forge.WithDescription("Updates an existing policy."),
		forge.WithOperationID("updatePolicy"),
		forge.WithRequestSchema(UpdatePolicyRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Updated policy", &policy.Policy{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/policies/:policyId", a.deletePolicy,
		forge.WithSummary("Delete policy"),
		forge.WithDescription("Deletes a policy."),
		forge.WithOperationID("deletePolicy"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/policies", a.listPolicies,
		forge.WithSummary("List policies"),
		forge.WithDescription("Lists policies ordered by priority, with optional filters."),
		forge.WithOperationID("listPolicies"),
		forge.WithRequestSchema(ListPoliciesRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Policy list", []*policy.Policy{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) createPolicy(ctx forge.Context, req *CreatePolicyRequest) (*policy.Policy, error) {
	if req.Name == "" {
		return nil, forge.BadRequest("name is required")
	}
	orgID, err := id.ParseOrganizationID(req.OrganizationID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid organization_id: %v", err))
	}
	permID, err := id.ParsePermissionID(req.PermissionID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid permission_id: %v", err))
	}

	p := &policy.Policy{
		OrganizationID: orgID,
		PermissionID:   permID,
		Name:           req.Name,
		Description:    req.Description,
		Conditions:     toConditions(&req.Conditions),
		Effect:         policy.Effect(req.Effect),
		Priority:       req.Priority,
		IsActive:       req.IsActive,
	}

	if err := a.eng.CreatePolicy(ctx.Context(), p); err != nil {
		return nil, mapError(err)
	}

	return p, ctx.JSON(http.StatusCreated, p)
}

func (a *API) getPolicy(ctx forge.Context, _ *GetPolicyRequest) (*policy.Policy, error) {
	polID, err := id.ParsePolicyID(ctx.Param("policyId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid policy ID: %v", err))
	}

	p, err := a.eng.Store().GetPolicy(ctx.Context(), polID)
	if err != nil {
		return nil, mapError(err)
	}

	return p, ctx.JSON(http.StatusOK, p)
}

func (a *API) updatePolicy(ctx forge.Context, req *UpdatePolicyRequest) (*policy.Policy, error) {
	polID, err := id.ParsePolicyID(ctx.Param("policyId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid policy ID: %v", err))
	}

	p, err := a.eng.Store().GetPolicy(ctx.Context(), polID)
	if err != nil {
		return nil, mapError(err)
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.Conditions != nil {
		p.Conditions = toConditions(req.Conditions)
	}
	if req.Effect != "" {
		p.Effect = policy.Effect(req.Effect)
	}
	if req.Priority != nil {
		p.Priority = *req.Priority
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := a.eng.UpdatePolicy(ctx.Context(), p); err != nil {
		return nil, mapError(err)
	}

	return p, ctx.JSON(http.StatusOK, p)
}

func (a *API) deletePolicy(ctx forge.Context, _ *GetPolicyRequest) (*struct{}, error) {
	polID, err := id.ParsePolicyID(ctx.Param("policyId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid policy ID: %v", err))
	}

	if err := a.eng.DeletePolicy(ctx.Context(), polID); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listPolicies(ctx forge.Context, req *ListPoliciesRequest) ([]*policy.Policy, error) {
	filter := &policy.ListFilter{
		Effect: policy.Effect(req.Effect),
		Search: req.Search,
		Limit:  defaultLimit(req.Limit),
		Offset: req.Offset,
	}
	if req.OrganizationID != "" {
		orgID, err := id.ParseOrganizationID(req.OrganizationID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid organization_id: %v", err))
		}
		filter.OrganizationID = &orgID
	}
	if req.PermissionID != "" {
		permID, err := id.ParsePermissionID(req.PermissionID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid permission_id: %v", err))
		}
		filter.PermissionID = &permID
	}
	switch req.Active {
	case "":
	case "true":
		active := true
		filter.IsActive = &active
	case "false":
		active := false
		filter.IsActive = &active
	default:
		return nil, forge.BadRequest("active must be true or false")
	}

	policies, err := a.eng.Store().ListPolicies(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	return policies, ctx.JSON(http.StatusOK, policies)
}

func toConditions(in *ConditionsInput) policy.Conditions {
	return policy.Conditions{
		AmountLimit:        in.AmountLimit,
		TimeRestriction:    policy.TimeRestriction(in.TimeRestriction),
		ResourceOwnerOnly:  in.ResourceOwnerOnly,
		AllowedDepartments: in.AllowedDepartments,
	}
}
