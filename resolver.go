package aegis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xraph/aegis/assignment"
	"github.com/xraph/aegis/id"
	"github.com/xraph/aegis/permission"
	"github.com/xraph/aegis/store"
)

// PermissionSet is the resolved set of permission keys a user holds.
// It serializes as a sorted JSON array so cache blobs are stable.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from the given keys.
func NewPermissionSet(keys ...string) PermissionSet {
	s := make(PermissionSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether the set contains key.
func (s PermissionSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Add inserts key into the set.
func (s PermissionSet) Add(key string) { s[key] = struct{}{} }

// Keys returns the sorted permission keys.
func (s PermissionSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON encodes the set as a sorted string array.
func (s PermissionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Keys())
}

// UnmarshalJSON decodes a string array into the set.
func (s *PermissionSet) UnmarshalJSON(data []byte) error {
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*s = NewPermissionSet(keys...)
	return nil
}

// cacheKeyAllOrgs is the organization slot for org-agnostic resolution.
const cacheKeyAllOrgs = "all"

// permissionCacheKey builds the cache key for a (user, organization) pair.
// The key shape is part of the invalidation contract.
func permissionCacheKey(userID id.UserID, orgID *id.OrganizationID) string {
	org := cacheKeyAllOrgs
	if orgID != nil {
		org = orgID.String()
	}
	return "perm:" + userID.String() + ":" + org
}

// Resolver computes effective permission sets by unioning permissions across
// a user's role assignments, with whole-blob TTL caching in front. Cache
// failures degrade to misses; the store remains authoritative and its errors
// propagate.
type Resolver struct {
	store  store.Store
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewResolver creates a resolver. A nil cache disables caching entirely.
func NewResolver(s store.Store, c Cache, ttl time.Duration, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: s, cache: c, ttl: ttl, logger: logger}
}

// PermissionsFor returns the permission keys userID holds within orgID, or
// across all organizations when orgID is nil. Results are cached for the
// configured TTL; concurrent misses repopulate redundantly, last write wins.
func (r *Resolver) PermissionsFor(ctx context.Context, userID id.UserID, orgID *id.OrganizationID) (PermissionSet, error) {
	key := permissionCacheKey(userID, orgID)

	if r.cache != nil {
		if blob, ok := r.cache.Get(ctx, key); ok {
			var set PermissionSet
			if err := json.Unmarshal(blob, &set); err == nil {
				return set, nil
			}
			// Undecodable entry: treat as a miss and overwrite below.
			r.logger.Warn("dropping undecodable cached permission set",
				slog.String("key", key))
		}
	}

	set, err := r.resolve(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		blob, err := json.Marshal(set)
		if err == nil {
			if err := r.cache.Set(ctx, key, blob, r.ttl); err != nil {
				r.logger.Warn("permission cache write failed",
					slog.String("key", key),
					slog.String("error", err.Error()))
			}
		}
	}

	return set, nil
}

func (r *Resolver) resolve(ctx context.Context, userID id.UserID, orgID *id.OrganizationID) (PermissionSet, error) {
	assignments, err := r.store.ListAssignmentsForUser(ctx, userID, orgID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	set := make(PermissionSet)
	for _, a := range assignments {
		permIDs, err := r.store.ListRolePermissions(ctx, a.RoleID)
		if err != nil {
			return nil, fmt.Errorf("list permissions for role %s: %w", a.RoleID, err)
		}
		for _, permID := range permIDs {
			p, err := r.store.GetPermission(ctx, permID)
			if err != nil {
				if errors.Is(err, permission.ErrNotFound) {
					continue
				}
				return nil, fmt.Errorf("get permission %s: %w", permID, err)
			}
			set.Add(p.Key())
		}
	}
	return set, nil
}

// InvalidateUser drops the user's cached permission sets for the given
// organization and the org-agnostic slot. Errors are logged and swallowed:
// a stale read bounded by the TTL beats a blocked write.
func (r *Resolver) InvalidateUser(ctx context.Context, userID id.UserID, orgID id.OrganizationID) {
	if r.cache == nil {
		return
	}
	keys := []string{
		permissionCacheKey(userID, &orgID),
		permissionCacheKey(userID, nil),
	}
	if err := r.cache.Delete(ctx, keys...); err != nil {
		r.logger.Warn("permission cache invalidation failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
	}
}

// InvalidateRole drops cached permission sets for every user holding the
// role, covering each holder's organization entry and org-agnostic entry.
func (r *Resolver) InvalidateRole(ctx context.Context, roleID id.RoleID) {
	assignments, err := r.store.ListAssignmentsForRole(ctx, roleID)
	if err != nil {
		r.logger.Warn("permission cache invalidation skipped: listing role holders failed",
			slog.String("role_id", roleID.String()),
			slog.String("error", err.Error()))
		return
	}
	r.InvalidateAssignments(ctx, assignments)
}

// InvalidateAssignments drops cached permission sets for the users named by
// the given assignments. Used when the assignments were captured before a
// mutation removed them.
func (r *Resolver) InvalidateAssignments(ctx context.Context, assignments []*assignment.Assignment) {
	if r.cache == nil || len(assignments) == 0 {
		return
	}
	keys := make([]string, 0, len(assignments)*2)
	for _, a := range assignments {
		keys = append(keys, permissionCacheKey(a.UserID, &a.OrganizationID))
		keys = append(keys, permissionCacheKey(a.UserID, nil))
	}
	if err := r.cache.Delete(ctx, keys...); err != nil {
		r.logger.Warn("permission cache invalidation failed",
			slog.Int("keys", len(keys)),
			slog.String("error", err.Error()))
	}
}
