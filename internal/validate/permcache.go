package validate

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/crawford/tailor/internal/provider"
)

// permissionLookup is the subset of provider.Client a PermissionCache
// needs; narrowing to an interface keeps the cache unit-testable without
// a live provider.
type permissionLookup interface {
	GetPermissionLevel(ctx context.Context, owner, repo, username string) (string, error)
}

var _ permissionLookup = (*provider.Client)(nil)

// PermissionCache deduplicates concurrent identical collaborator
// permission lookups within a single validation run via singleflight; it
// is not meant to outlive one driver invocation.
type PermissionCache struct {
	client permissionLookup
	group  singleflight.Group
}

// NewPermissionCache builds a cache over client.
func NewPermissionCache(client permissionLookup) *PermissionCache {
	return &PermissionCache{client: client}
}

// Get returns username's collaborator permission on owner/repo, making at
// most one in-flight provider request per distinct (owner, repo,
// username) triple even under concurrent callers.
func (c *PermissionCache) Get(ctx context.Context, owner, repo, username string) (string, error) {
	key := fmt.Sprintf("%s/%s/%s", owner, repo, username)
	v, err, _ := c.group.Do(key, func() (any, error) {
		return c.client.GetPermissionLevel(ctx, owner, repo, username)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
