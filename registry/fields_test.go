/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entitydao/errors"
)

func TestResolve(t *testing.T) {
	t.Run("all roles", func(t *testing.T) {
		f, err := Resolve(FieldDescriptor{
			ID:        "id",
			CreatedAt: "createdAt",
			CreatedBy: "createdBy",
			UpdatedAt: "updatedAt",
			UpdatedBy: "updatedBy",
		})
		require.NoError(t, err)

		assert.Equal(t, "id", f.ID())
		name, ok := f.Name(RoleUpdatedBy)
		assert.True(t, ok)
		assert.Equal(t, "updatedBy", name)
		assert.Len(t, f.All(), 5)
	})

	t.Run("audit roles optional", func(t *testing.T) {
		f, err := Resolve(FieldDescriptor{ID: "pk"})
		require.NoError(t, err)

		_, ok := f.Name(RoleCreatedAt)
		assert.False(t, ok)
		assert.Equal(t, []Field{{StorageName: "pk", Role: RoleID}}, f.All())
	})

	t.Run("no identity", func(t *testing.T) {
		f, err := Resolve(FieldDescriptor{CreatedAt: "ts"})
		require.NoError(t, err)
		assert.Equal(t, "", f.ID())
	})

	t.Run("shared storage name rejected", func(t *testing.T) {
		_, err := Resolve(FieldDescriptor{ID: "id", CreatedAt: "ts", UpdatedAt: "ts"})
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
		assert.Contains(t, err.Error(), "createdAt and updatedAt")
	})
}

func TestFieldRoleString(t *testing.T) {
	assert.Equal(t, "id", RoleID.String())
	assert.Equal(t, "updatedBy", RoleUpdatedBy.String())
	assert.Equal(t, "FieldRole(9)", FieldRole(9).String())
}

func TestNilFields(t *testing.T) {
	var f *Fields
	_, ok := f.Name(RoleID)
	assert.False(t, ok)
	assert.Nil(t, f.All())
}

type account struct{}
type invoice struct{}

func TestFieldRegistry(t *testing.T) {
	require.NoError(t, RegisterFields[account](FieldDescriptor{ID: "accountId", CreatedAt: "openedAt"}))

	desc, ok := GetFields[account]()
	require.True(t, ok)
	assert.Equal(t, "accountId", desc.ID)

	_, ok = GetFields[invoice]()
	assert.False(t, ok)

	err := RegisterFields[invoice](FieldDescriptor{ID: "n", CreatedBy: "n"})
	assert.True(t, errors.IsValidationError(err))
	_, ok = GetFields[invoice]()
	assert.False(t, ok, "invalid descriptor must not be registered")

	assert.Panics(t, func() {
		MustRegisterFields[invoice](FieldDescriptor{UpdatedAt: "x", UpdatedBy: "x"})
	})
}
