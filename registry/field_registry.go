/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"sync"
)

// fieldRegistry maps Go model types to their field descriptors.

var (
	fieldRegistry = make(map[reflect.Type]FieldDescriptor)
	mu            sync.RWMutex
)

// RegisterFields associates model type M with its field descriptor.
// The descriptor is validated here so a bad declaration fails at init time.
func RegisterFields[M any](desc FieldDescriptor) error {
	if _, err := Resolve(desc); err != nil {
		return err
	}

	t := reflect.TypeFor[M]()

	mu.Lock()
	defer mu.Unlock()
	fieldRegistry[t] = desc
	return nil
}

// MustRegisterFields is RegisterFields for init blocks.
func MustRegisterFields[M any](desc FieldDescriptor) {
	if err := RegisterFields[M](desc); err != nil {
		panic(err)
	}
}

// GetFields retrieves the descriptor for type M, if any.
func GetFields[M any]() (FieldDescriptor, bool) {
	t := reflect.TypeFor[M]()

	mu.RLock()
	defer mu.RUnlock()
	d, ok := fieldRegistry[t]
	return d, ok
}
