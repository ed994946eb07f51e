/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entitydao

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/suparena/entitydao/datastore"
	"github.com/suparena/entitydao/errors"
)

// Storage is a registry of table managers keyed by name, typically one per
// entity. It drives table setup at service startup.
type Storage interface {
	// Register adds a table manager (usually a DAO) under name.
	Register(name string, tm datastore.TableManager) error
	// Get returns the table manager registered under name.
	Get(name string) (datastore.TableManager, error)
	// Names lists registered names in sorted order.
	Names() []string
	// InitTables runs InitTable for every registered manager in name
	// order and stops at the first failure.
	InitTables(ctx context.Context) error
}

// storageManager is a thread-safe implementation of the Storage interface.
type storageManager struct {
	mu     sync.RWMutex
	tables map[string]datastore.TableManager
	log    zerolog.Logger
}

// StorageOption configures a Storage.
type StorageOption func(*storageManager)

// WithStorageLogger sets the logger used by InitTables.
func WithStorageLogger(l zerolog.Logger) StorageOption {
	return func(sm *storageManager) {
		sm.log = l
	}
}

// NewStorageManager creates and returns a new Storage implementation.
func NewStorageManager(opts ...StorageOption) Storage {
	sm := &storageManager{
		tables: make(map[string]datastore.TableManager),
		log:    log.Logger,
	}
	for _, opt := range opts {
		opt(sm)
	}
	return sm
}

func (sm *storageManager) Register(name string, tm datastore.TableManager) error {
	if tm == nil {
		return errors.NewValidationError("tableManager", "table manager is required")
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.tables[name]; exists {
		return errors.NewAlreadyExistsError("table manager", name)
	}
	sm.tables[name] = tm
	return nil
}

func (sm *storageManager) Get(name string) (datastore.TableManager, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	tm, exists := sm.tables[name]
	if !exists {
		return nil, errors.NewNotFoundError("table manager", name)
	}
	return tm, nil
}

func (sm *storageManager) Names() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	names := make([]string, 0, len(sm.tables))
	for name := range sm.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (sm *storageManager) InitTables(ctx context.Context) error {
	for _, name := range sm.Names() {
		tm, err := sm.Get(name)
		if err != nil {
			return err
		}
		sm.log.Info().Str("name", name).Str("table", tm.TableName()).Msg("initializing table")
		if err := tm.InitTable(ctx); err != nil {
			return err
		}
	}
	return nil
}
