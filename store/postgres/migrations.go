package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Aegis store (PostgreSQL).
var Migrations = migrate.NewGroup("aegis")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_organizations",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS aegis_organizations (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    slug            TEXT NOT NULL,
    is_active       BOOLEAN NOT NULL DEFAULT TRUE,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),

    UNIQUE(slug)
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS aegis_organizations`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_users",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS aegis_users (
    id              TEXT PRIMARY KEY,
    email           TEXT NOT NULL,
    name            TEXT NOT NULL DEFAULT '',
    department      TEXT NOT NULL DEFAULT '',
    is_active       BOOLEAN NOT NULL DEFAULT TRUE,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_aegis_users_email ON aegis_users (LOWER(email));
CREATE INDEX IF NOT EXISTS idx_aegis_users_department ON aegis_users (department);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS aegis_users`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_roles",
			Version: "20240101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS aegis_roles (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    organization_id TEXT REFERENCES aegis_organizations(id) ON DELETE CASCADE,
    is_system_role  BOOLEAN NOT NULL DEFAULT FALSE,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),

    UNIQUE(organization_id, name)
);

-- System roles have no organization; NULLs never collide in the unique
-- constraint above, so enforce their name uniqueness separately.
CREATE UNIQUE INDEX IF NOT EXISTS idx_aegis_roles_system_name ON aegis_roles (name) WHERE organization_id IS NULL;
CREATE INDEX IF NOT EXISTS idx_aegis_roles_org ON aegis_roles (organization_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS aegis_roles`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_permissions",
			Version: "20240101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS aegis_permissions (
    id              TEXT PRIMARY KEY,
    resource        TEXT NOT NULL,
    action          TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),

    UNIQUE(resource, action)
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS aegis_permissions`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_role_permissions",
			Version: "20240101000005",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS aegis_role_permissions (
    role_id         TEXT NOT NULL REFERENCES aegis_roles(id) ON DELETE CASCADE,
    permission_id   TEXT NOT NULL REFERENCES aegis_permissions(id) ON DELETE CASCADE,

    PRIMARY KEY (role_id, permission_id)
);

CREATE INDEX IF NOT EXISTS idx_aegis_role_perms_role ON aegis_role_permissions (role_id);
CREATE INDEX IF NOT EXISTS idx_aegis_role_perms_perm ON aegis_role_permissions (permission_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS aegis_role_permissions`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_assignments",
			Version: "20240101000006",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS aegis_assignments (
    id              TEXT PRIMARY KEY,
    user_id         TEXT NOT NULL REFERENCES aegis_users(id) ON DELETE CASCADE,
    role_id         TEXT NOT NULL REFERENCES aegis_roles(id) ON DELETE CASCADE,
    organization_id TEXT NOT NULL REFERENCES aegis_organizations(id) ON DELETE CASCADE,
    assigned_by     TEXT,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),

    UNIQUE(user_id, role_id, organization_id)
);

CREATE INDEX IF NOT EXISTS idx_aegis_assign_user ON aegis_assignments (user_id, organization_id);
CREATE INDEX IF NOT EXISTS idx_aegis_assign_role ON aegis_assignments (role_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS aegis_assignments`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_policies",
			Version: "20240101000007",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS aegis_policies (
    id              TEXT PRIMARY KEY,
    organization_id TEXT NOT NULL REFERENCES aegis_organizations(id) ON DELETE CASCADE,
    permission_id   TEXT NOT NULL REFERENCES aegis_permissions(id) ON DELETE CASCADE,
    name            TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    conditions      JSONB NOT NULL DEFAULT '{}',
    effect          TEXT NOT NULL DEFAULT 'deny',
    priority        INTEGER NOT NULL DEFAULT 0,
    is_active       BOOLEAN NOT NULL DEFAULT TRUE,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_aegis_policies_lookup ON aegis_policies (organization_id, permission_id, is_active, priority DESC, created_at DESC);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS aegis_policies`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_audit_events",
			Version: "20240101000008",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS aegis_audit_events (
    id              TEXT PRIMARY KEY,
    user_id         TEXT NOT NULL,
    user_email      TEXT NOT NULL DEFAULT '',
    organization_id TEXT,
    action          TEXT NOT NULL,
    resource_type   TEXT NOT NULL DEFAULT '',
    resource_id     TEXT NOT NULL DEFAULT '',
    result          TEXT NOT NULL,
    reason          TEXT NOT NULL DEFAULT '',
    metadata        JSONB NOT NULL DEFAULT '{}',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_aegis_audit_user ON aegis_audit_events (user_id);
CREATE INDEX IF NOT EXISTS idx_aegis_audit_org ON aegis_audit_events (organization_id);
CREATE INDEX IF NOT EXISTS idx_aegis_audit_created ON aegis_audit_events (created_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS aegis_audit_events`)
				return err
			},
		},
	)
}
