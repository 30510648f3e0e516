package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/aegis/assignment"
	"github.com/xraph/aegis/id"
)

func (a *API) registerAssignmentRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("assignments"))

	if err := g.POST("/assignments", a.assignRole,
		forge.WithSummary("Assign role"),
		forge.WithDescription("Grants a role to a user within an organization and invalidates the user's cached permissions."),
		forge.WithOperationID("assignRole"),
		forge.WithRequestSchema(AssignRoleRequest{}),
		forge.WithCreatedResponse(&assignment.Assignment{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/assignments/revoke", a.revokeRole,
		forge.WithSummary("Revoke role"),
		forge.WithDescription("Removes a user's role within an organization and invalidates the user's cached permissions."),
		forge.WithOperationID("revokeRole"),
		forge.WithRequestSchema(RevokeRoleRequest{}),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/assignments", a.listAssignments,
		forge.WithSummary("List assignments"),
		forge.WithDescription("Lists role assignments with optional filters."),
		forge.WithOperationID("listAssignments"),
		forge.WithRequestSchema(ListAssignmentsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Assignment list", []*assignment.Assignment{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) assignRole(ctx forge.Context, req *AssignRoleRequest) (*assignment.Assignment, error) {
	userID, err := id.ParseUserID(req.UserID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid user_id: %v", err))
	}
	roleID, err := id.ParseRoleID(req.RoleID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid role_id: %v", err))
	}
	orgID, err := id.ParseOrganizationID(req.OrganizationID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid organization_id: %v", err))
	}

	var assignedBy *id.UserID
	if req.AssignedBy != "" {
		by, err := id.ParseUserID(req.AssignedBy)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid assigned_by: %v", err))
		}
		assignedBy = &by
	}

	asgn, err := a.eng.AssignRole(ctx.Context(), userID, roleID, orgID, assignedBy)
	if err != nil {
		return nil, mapError(err)
	}

	return asgn, ctx.JSON(http.StatusCreated, asgn)
}

func (a *API) revokeRole(ctx forge.Context, req *RevokeRoleRequest) (*struct{}, error) {
	userID, err := id.ParseUserID(req.UserID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid user_id: %v", err))
	}
	roleID, err := id.ParseRoleID(req.RoleID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid role_id: %v", err))
	}
	orgID, err := id.ParseOrganizationID(req.OrganizationID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid organization_id: %v", err))
	}

	if err := a.eng.RevokeRole(ctx.Context(), userID, roleID, orgID); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listAssignments(ctx forge.Context, req *ListAssignmentsRequest) ([]*assignment.Assignment, error) {
	filter := &assignment.ListFilter{
		Limit:  defaultLimit(req.Limit),
		Offset: req.Offset,
	}
	if req.UserID != "" {
		userID, err := id.ParseUserID(req.UserID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid user_id: %v", err))
		}
		filter.UserID = &userID
	}
	if req.RoleID != "" {
		roleID, err := id.ParseRoleID(req.RoleID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid role_id: %v", err))
		}
		filter.RoleID = &roleID
	}
	if req.OrganizationID != "" {
		orgID, err := id.ParseOrganizationID(req.OrganizationID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid organization_id: %v", err))
		}
		filter.OrganizationID = &orgID
	}

	assignments, err := a.eng.Store().ListAssignments(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	return assignments, ctx.JSON(http.StatusOK, assignments)
}
