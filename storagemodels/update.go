/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"sort"

	"github.com/suparena/entitydao/errors"
)

// Update is a sparse change: attributes to set and attributes to remove.
// A nil *Update is an empty change.
type Update struct {
	set    map[string]any
	remove map[string]struct{}
}

// NewUpdate returns an empty Update.
func NewUpdate() *Update {
	return &Update{
		set:    make(map[string]any),
		remove: make(map[string]struct{}),
	}
}

// Set records a new value for the attribute name.
func (u *Update) Set(name string, value any) *Update {
	if u.set == nil {
		u.set = make(map[string]any)
	}
	u.set[name] = value
	return u
}

// Remove records attributes to delete from the item.
func (u *Update) Remove(names ...string) *Update {
	if u.remove == nil {
		u.remove = make(map[string]struct{})
	}
	for _, name := range names {
		u.remove[name] = struct{}{}
	}
	return u
}

// SetFields returns a copy of the attributes to set.
func (u *Update) SetFields() map[string]any {
	if u == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(u.set))
	for k, v := range u.set {
		out[k] = v
	}
	return out
}

// RemoveFields returns the attributes to remove in sorted order.
func (u *Update) RemoveFields() []string {
	if u == nil {
		return nil
	}
	out := make([]string, 0, len(u.remove))
	for k := range u.remove {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsEmpty reports whether the update changes nothing.
func (u *Update) IsEmpty() bool {
	return u == nil || (len(u.set) == 0 && len(u.remove) == 0)
}

// Validate rejects an attribute that is both set and removed, and
// removal of the identity attribute.
func (u *Update) Validate(idField string) error {
	if u == nil {
		return nil
	}
	for _, name := range u.RemoveFields() {
		if _, ok := u.set[name]; ok {
			return errors.NewValidationError(name, "attribute is both set and removed")
		}
		if idField != "" && name == idField {
			return errors.NewValidationError(name, "identity attribute cannot be removed")
		}
	}
	return nil
}
