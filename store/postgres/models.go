package postgres

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/aegis/assignment"
	"github.com/xraph/aegis/auditlog"
	"github.com/xraph/aegis/id"
	"github.com/xraph/aegis/organization"
	"github.com/xraph/aegis/permission"
	"github.com/xraph/aegis/policy"
	"github.com/xraph/aegis/role"
	"github.com/xraph/aegis/user"
)

// ──────────────────────────────────────────────────
// Organization model
// ──────────────────────────────────────────────────

type organizationModel struct {
	grove.BaseModel `grove:"table:aegis_organizations"`
	ID              string    `grove:"id,pk"`
	Name            string    `grove:"name,notnull"`
	Slug            string    `grove:"slug,notnull"`
	IsActive        bool      `grove:"is_active,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func organizationToModel(o *organization.Organization) *organizationModel {
	return &organizationModel{
		ID:        o.ID.String(),
		Name:      o.Name,
		Slug:      o.Slug,
		IsActive:  o.IsActive,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func organizationFromModel(m *organizationModel) *organization.Organization {
	oid, _ := id.ParseOrganizationID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &organization.Organization{
		ID:        oid,
		Name:      m.Name,
		Slug:      m.Slug,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// User model
// ──────────────────────────────────────────────────

type userModel struct {
	grove.BaseModel `grove:"table:aegis_users"`
	ID              string    `grove:"id,pk"`
	Email           string    `grove:"email,notnull"`
	Name            string    `grove:"name"`
	Department      string    `grove:"department"`
	IsActive        bool      `grove:"is_active,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func userToModel(u *user.User) *userModel {
	return &userModel{
		ID:         u.ID.String(),
		Email:      u.Email,
		Name:       u.Name,
		Department: u.Department,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func userFromModel(m *userModel) *user.User {
	uid, _ := id.ParseUserID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &user.User{
		ID:         uid,
		Email:      m.Email,
		Name:       m.Name,
		Department: m.Department,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Role model
// ──────────────────────────────────────────────────

type roleModel struct {
	grove.BaseModel `grove:"table:aegis_roles"`
	ID              string    `grove:"id,pk"`
	Name            string    `grove:"name,notnull"`
	Description     string    `grove:"description"`
	OrganizationID  *string   `grove:"organization_id"`
	IsSystemRole    bool      `grove:"is_system_role,notnull"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
	UpdatedAt       time.Time `grove:"updated_at,notnull"`
}

func roleToModel(r *role.Role) *roleModel {
	m := &roleModel{
		ID:           r.ID.String(),
		Name:         r.Name,
		Description:  r.Description,
		IsSystemRole: r.IsSystemRole,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.OrganizationID != nil {
		s := r.OrganizationID.String()
		m.OrganizationID = &s
	}
	return m
}

func roleFromModel(m *roleModel) *role.Role {
	rid, _ := id.ParseRoleID(m.ID) //nolint:errcheck // stored IDs are always valid
	r := &role.Role{
		ID:           rid,
		Name:         m.Name,
		Description:  m.Description,
		IsSystemRole: m.IsSystemRole,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.OrganizationID != nil {
		oid, err := id.ParseOrganizationID(*m.OrganizationID)
		if err == nil {
			r.OrganizationID = &oid
		}
	}
	return r
}

// ──────────────────────────────────────────────────
// Permission model
// ──────────────────────────────────────────────────

type permissionModel struct {
	grove.BaseModel `grove:"table:aegis_permissions"`
	ID              string    `grove:"id,pk"`
	Resource        string    `grove:"resource,notnull"`
	Action          string    `grove:"action,notnull"`
	Description     string    `grove:"description"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
}

func permissionToModel(p *permission.Permission) *permissionModel {
	return &permissionModel{
		ID:          p.ID.String(),
		Resource:    p.Resource,
		Action:      p.Action,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}

func permissionFromModel(m *permissionModel) *permission.Permission {
	pid, _ := id.ParsePermissionID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &permission.Permission{
		ID:          pid,
		Resource:    m.Resource,
		Action:      m.Action,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

// ──────────────────────────────────────────────────
// Role-Permission junction model
// ──────────────────────────────────────────────────

type rolePermissionModel struct {
	grove.BaseModel `grove:"table:aegis_role_permissions"`
	RoleID          string `grove:"role_id,pk"`
	PermissionID    string `grove:"permission_id,pk"`
}

// ──────────────────────────────────────────────────
// Assignment model
// ──────────────────────────────────────────────────

type assignmentModel struct {
	grove.BaseModel `grove:"table:aegis_assignments"`
	ID              string    `grove:"id,pk"`
	UserID          string    `grove:"user_id,notnull"`
	RoleID          string    `grove:"role_id,notnull"`
	OrganizationID  string    `grove:"organization_id,notnull"`
	AssignedBy      *string   `grove:"assigned_by"`
	CreatedAt       time.Time `grove:"created_at,notnull"`
}

func assignmentToModel(a *assignment.Assignment) *assignmentModel {
	m := &assignmentModel{
		ID:             a.ID.String(),
		UserID:         a.UserID.String(),
		RoleID:         a.RoleID.String(),
		OrganizationID: a.OrganizationID.String(),
		CreatedAt:      a.CreatedAt,
	}
	if a.AssignedBy != nil {
		s := a.AssignedBy.String()
		m.AssignedBy = &s
	}
	return m
}

func assignmentFromModel(m *assignmentModel) *assignment.Assignment {
	aid, _ := id.ParseAssignmentID(m.ID)      //nolint:errcheck // stored IDs are always valid
	uid, _ := id.ParseUserID(m.UserID)        //nolint:errcheck // stored IDs are always valid
	rid, _ := id.ParseRoleID(m.RoleID)        //nolint:errcheck // stored IDs are always valid
	oid, _ := id.ParseOrganizationID(m.OrganizationID) //nolint:errcheck // stored IDs are always valid
	a := &assignment.Assignment{
		ID:             aid,
		UserID:         uid,
		RoleID:         rid,
		OrganizationID: oid,
		CreatedAt:      m.CreatedAt,
	}
	if m.AssignedBy != nil {
		by, err := id.ParseUserID(*m.AssignedBy)
		if err == nil {
			a.AssignedBy = &by
		}
	}
	return a
}

// ──────────────────────────────────────────────────
// Policy model
// ──────────────────────────────────────────────────

type policyModel struct {
	grove.BaseModel `grove:"table:aegis_policies"`
	ID              string            `grove:"id,pk"`
	OrganizationID  string            `grove:"organization_id,notnull"`
	PermissionID    string            `grove:"permission_id,notnull"`
	Name            string            `grove:"name,notnull"`
	Description     string            `grove:"description"`
	Conditions      policy.Conditions `grove:"conditions,type:jsonb"`
	Effect          string            `grove:"effect,notnull"`
	Priority        int               `grove:"priority,notnull"`
	IsActive        bool              `grove:"is_active,notnull"`
	CreatedAt       time.Time         `grove:"created_at,notnull"`
	UpdatedAt       time.Time         `grove:"updated_at,notnull"`
}

func policyToModel(p *policy.Policy) *policyModel {
	return &policyModel{
		ID:             p.ID.String(),
		OrganizationID: p.OrganizationID.String(),
		PermissionID:   p.PermissionID.String(),
		Name:           p.Name,
		Description:    p.Description,
		Conditions:     p.Conditions,
		Effect:         string(p.Effect),
		Priority:       p.Priority,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func policyFromModel(m *policyModel) *policy.Policy {
	pid, _ := id.ParsePolicyID(m.ID)                   //nolint:errcheck // stored IDs are always valid
	oid, _ := id.ParseOrganizationID(m.OrganizationID) //nolint:errcheck // stored IDs are always valid
	permID, _ := id.ParsePermissionID(m.PermissionID)  //nolint:errcheck // stored IDs are always valid
	return &policy.Policy{
		ID:             pid,
		OrganizationID: oid,
		PermissionID:   permID,
		Name:           m.Name,
		Description:    m.Description,
		Conditions:     m.Conditions,
		Effect:         policy.Effect(m.Effect),
		Priority:       m.Priority,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Audit event model
// ──────────────────────────────────────────────────

type auditEventModel struct {
	grove.BaseModel `grove:"table:aegis_audit_events"`
	ID              string         `grove:"id,pk"`
	UserID          string         `grove:"user_id,notnull"`
	UserEmail       string         `grove:"user_email"`
	OrganizationID  *string        `grove:"organization_id"`
	Action          string         `grove:"action,notnull"`
	ResourceType    string         `grove:"resource_type"`
	ResourceID      string         `grove:"resource_id"`
	Result          string         `grove:"result,notnull"`
	Reason          string         `grove:"reason"`
	Metadata        map[string]any `grove:"metadata,type:jsonb"`
	CreatedAt       time.Time      `grove:"created_at,notnull"`
}

func auditEventToModel(e *auditlog.Event) *auditEventModel {
	m := &auditEventModel{
		ID:           e.ID.String(),
		UserID:       e.UserID.String(),
		UserEmail:    e.UserEmail,
		Action:       e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		Result:       string(e.Result),
		Reason:       e.Reason,
		Metadata:     e.Metadata,
		CreatedAt:    e.CreatedAt,
	}
	if e.OrganizationID != nil {
		s := e.OrganizationID.String()
		m.OrganizationID = &s
	}
	return m
}

func auditEventFromModel(m *auditEventModel) *auditlog.Event {
	eid, _ := id.ParseAuditEventID(m.ID) //nolint:errcheck // stored IDs are always valid
	uid, _ := id.ParseUserID(m.UserID)   //nolint:errcheck // stored IDs are always valid
	e := &auditlog.Event{
		ID:           eid,
		UserID:       uid,
		UserEmail:    m.UserEmail,
		Action:       m.Action,
		ResourceType: m.ResourceType,
		ResourceID:   m.ResourceID,
		Result:       auditlog.Result(m.Result),
		Reason:       m.Reason,
		Metadata:     m.Metadata,
		CreatedAt:    m.CreatedAt,
	}
	if m.OrganizationID != nil {
		oid, err := id.ParseOrganizationID(*m.OrganizationID)
		if err == nil {
			e.OrganizationID = &oid
		}
	}
	return e
}
