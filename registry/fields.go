/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"

	"github.com/suparena/entitydao/errors"
)

// FieldRole identifies the bookkeeping role a storage attribute plays.
type FieldRole int

const (
	RoleID FieldRole = iota
	RoleCreatedAt
	RoleCreatedBy
	RoleUpdatedAt
	RoleUpdatedBy
)

var roleNames = [...]string{"id", "createdAt", "createdBy", "updatedAt", "updatedBy"}

func (r FieldRole) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return fmt.Sprintf("FieldRole(%d)", int(r))
	}
	return roleNames[r]
}

// Field binds a storage attribute name to a role.
type Field struct {
	StorageName string
	Role        FieldRole
}

// FieldDescriptor is the per-entity declaration of special fields.
// An empty name means the entity does not carry that role.
//
//	var userFields = registry.FieldDescriptor{
//	    ID:        "id",
//	    CreatedAt: "createdAt",
//	    UpdatedAt: "updatedAt",
//	}
type FieldDescriptor struct {
	ID        string
	CreatedAt string
	CreatedBy string
	UpdatedAt string
	UpdatedBy string
}

// Fields is the resolved, read-only view of a FieldDescriptor.
type Fields struct {
	names [len(roleNames)]string
}

// Resolve validates a descriptor and freezes it. A storage name may back
// at most one role.
func Resolve(desc FieldDescriptor) (*Fields, error) {
	f := &Fields{}
	f.names[RoleID] = desc.ID
	f.names[RoleCreatedAt] = desc.CreatedAt
	f.names[RoleCreatedBy] = desc.CreatedBy
	f.names[RoleUpdatedAt] = desc.UpdatedAt
	f.names[RoleUpdatedBy] = desc.UpdatedBy

	seen := make(map[string]FieldRole, len(f.names))
	for role, name := range f.names {
		if name == "" {
			continue
		}
		if prev, ok := seen[name]; ok {
			return nil, errors.NewValidationError(name,
				fmt.Sprintf("attribute bound to both %s and %s", prev, FieldRole(role)))
		}
		seen[name] = FieldRole(role)
	}
	return f, nil
}

// Name returns the storage name for role and whether the role is declared.
func (f *Fields) Name(role FieldRole) (string, bool) {
	if f == nil || role < 0 || int(role) >= len(f.names) {
		return "", false
	}
	name := f.names[role]
	return name, name != ""
}

// ID returns the identity attribute name, or "" if none is declared.
func (f *Fields) ID() string {
	name, _ := f.Name(RoleID)
	return name
}

// All lists the declared fields in role order.
func (f *Fields) All() []Field {
	if f == nil {
		return nil
	}
	out := make([]Field, 0, len(f.names))
	for role, name := range f.names {
		if name != "" {
			out = append(out, Field{StorageName: name, Role: FieldRole(role)})
		}
	}
	return out
}
