// Package seed installs the base access-control records: an ADMIN role
// holding every CRUD permission on the managed resources.
package seed

import (
	"fmt"
	"time"

	"manuals-go/internal/model"
)

// AdminRole is the role that receives every seeded permission.
const AdminRole = "ADMIN"

// Resources and Actions are crossed to build the seeded permissions.
var (
	Resources = []string{"explorers", "commanders"}
	Actions   = []string{"create", "read", "update", "delete"}
)

// PermissionType is the type stamped on seeded permissions.
const PermissionType = 0

// AccessStore is the storage capability the seeder needs. Every call is idempotent.
type AccessStore interface {
	UpsertRole(name string, now time.Time) (*model.Role, error)
	UpsertPermission(resource, action string, permType int, now time.Time) (*model.Permission, error)
	GrantPermission(roleID, permissionID int64) error
}

// Result reports what the seeder touched.
type Result struct {
	Role        *model.Role
	Permissions int
}

// Run upserts the ADMIN role and grants it every resource/action permission.
func Run(store AccessStore, now time.Time) (*Result, error) {
	role, err := store.UpsertRole(AdminRole, now)
	if err != nil {
		return nil, fmt.Errorf("upserting role %s: %w", AdminRole, err)
	}

	res := &Result{Role: role}
	for _, resource := range Resources {
		for _, action := range Actions {
			perm, err := store.UpsertPermission(resource, action, PermissionType, now)
			if err != nil {
				return res, fmt.Errorf("upserting permission %s:%s: %w", resource, action, err)
			}
			if err := store.GrantPermission(role.ID, perm.ID); err != nil {
				return res, fmt.Errorf("granting %s:%s to %s: %w", resource, action, AdminRole, err)
			}
			res.Permissions++
		}
	}
	return res, nil
}
