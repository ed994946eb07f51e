/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package testmodels

import (
	"github.com/google/uuid"

	"github.com/suparena/entitydao/registry"
)

// Account is keyed by a uuid.UUID and carries non-string attributes.
type Account struct {
	ID      uuid.UUID      `json:"id"`
	Owner   string         `json:"owner,omitempty"`
	Active  bool           `json:"active"`
	Address *Address       `json:"address,omitempty"`
	Limits  map[string]int `json:"limits,omitempty"`
}

// Address is stored as a nested map attribute.
type Address struct {
	Street string `json:"street,omitempty"`
	City   string `json:"city"`
}

var AccountFields = registry.FieldDescriptor{ID: "id"}

// Memo declares no identity role; its table is keyed on body.
type Memo struct {
	Body   string `json:"body"`
	Author string `json:"author,omitempty"`
}

func init() {
	registry.MustRegisterFields[Account](AccountFields)
}
