package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xraph/forge"

	"github.com/xraph/aegis/auditlog"
	"github.com/xraph/aegis/id"
)

func (a *API) registerAuditRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("audit"))

	if err := g.GET("/audit-events", a.listAuditEvents,
		forge.WithSummary("List audit events"),
		forge.WithDescription("Queries audit events with filters and pagination, newest first."),
		forge.WithOperationID("listAuditEvents"),
		forge.WithRequestSchema(ListAuditEventsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Audit events", ListResponse[*auditlog.Event]{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/audit-events/:eventId", a.getAuditEvent,
		forge.WithSummary("Get audit event"),
		forge.WithDescription("Returns a single audit event."),
		forge.WithOperationID("getAuditEvent"),
		forge.WithResponseSchema(http.StatusOK, "Audit event", &auditlog.Event{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) listAuditEvents(ctx forge.Context, req *ListAuditEventsRequest) (*ListResponse[*auditlog.Event], error) {
	filter := &auditlog.QueryFilter{
		Action:       req.Action,
		ResourceType: req.ResourceType,
		Result:       auditlog.Result(req.Result),
		Limit:        defaultLimit(req.Limit),
		Offset:       req.Offset,
	}
	if req.UserID != "" {
		userID, err := id.ParseUserID(req.UserID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid user_id: %v", err))
		}
		filter.UserID = &userID
	}
	if req.OrganizationID != "" {
		orgID, err := id.ParseOrganizationID(req.OrganizationID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid organization_id: %v", err))
		}
		filter.OrganizationID = &orgID
	}
	if req.Since != "" {
		since, err := time.Parse(time.RFC3339, req.Since)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid since: %v", err))
		}
		filter.Since = &since
	}
	if req.Until != "" {
		until, err := time.Parse(time.RFC3339, req.Until)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid until: %v", err))
		}
		filter.Until = &until
	}

	events, err := a.eng.Store().ListEvents(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}
	total, err := a.eng.Store().CountEvents(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListResponse[*auditlog.Event]{
		Items:  events,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) getAuditEvent(ctx forge.Context, _ *struct{}) (*auditlog.Event, error) {
	eventID, err := id.ParseAuditEventID(ctx.Param("eventId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid event ID: %v", err))
	}

	e, err := a.eng.Store().GetEvent(ctx.Context(), eventID)
	if err != nil {
		return nil, mapError(err)
	}

	return e, ctx.JSON(http.StatusOK, e)
}
