package api

import (
	"errors"

	"github.com/xraph/forge"

	"github.com/xraph/aegis"
	"github.com/xraph/aegis/assignment"
	"github.com/xraph/aegis/auditlog"
	"github.com/xraph/aegis/organization"
	"github.com/xraph/aegis/permission"
	"github.com/xraph/aegis/policy"
	"github.com/xraph/aegis/role"
	"github.com/xraph/aegis/user"
)

// mapError maps domain errors to Forge HTTP errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return forge.NotFound(err.Error())
	}
	if isDuplicate(err) {
		return forge.BadRequest(err.Error())
	}
	if errors.Is(err, aegis.ErrUnauthenticated) || errors.Is(err, aegis.ErrAccessDenied) {
		return forge.Forbidden(err.Error())
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, organization.ErrNotFound) ||
		errors.Is(err, user.ErrNotFound) ||
		errors.Is(err, role.ErrNotFound) ||
		errors.Is(err, permission.ErrNotFound) ||
		errors.Is(err, assignment.ErrNotFound) ||
		errors.Is(err, policy.ErrNotFound) ||
		errors.Is(err, auditlog.ErrNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, organization.ErrDuplicate) ||
		errors.Is(err, user.ErrDuplicate) ||
		errors.Is(err, role.ErrDuplicate) ||
		errors.Is(err, permission.ErrDuplicate) ||
		errors.Is(err, assignment.ErrDuplicate)
}

func defaultLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}
