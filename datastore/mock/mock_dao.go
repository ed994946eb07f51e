/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of datastore.DAO for testing
package mock

import (
	"context"
	"fmt"
	"iter"
	"reflect"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/suparena/entitydao/datastore"
	"github.com/suparena/entitydao/errors"
	"github.com/suparena/entitydao/mapper"
	"github.com/suparena/entitydao/registry"
	"github.com/suparena/entitydao/storagemodels"
	"github.com/suparena/entitydao/storagevalue"
)

var _ datastore.DAO[struct{}] = (*DAO[struct{}])(nil)

type item = map[string]types.AttributeValue

// QueryFunc answers FindByIndex.
type QueryFunc[M any] func(ctx context.Context, indexName string, params *storagemodels.QueryParams) (storagemodels.Results[M], error)

// DAO is an in-memory datastore.DAO[M]. Items are stored in their mapped
// form, so identity generation, audit attributes, value normalization and
// conditional create behave like the DynamoDB implementation. Expressions
// are not evaluated: FindByIndex returns every item unless a QueryFunc is
// set, and Scan ignores its filter.
type DAO[M any] struct {
	mu        sync.RWMutex
	tableName string
	items     map[string]item
	fields    *registry.Fields
	mapper    mapper.Mapper[M]
	newID     func() any
	queryFunc QueryFunc[M]

	loadError   error
	createError error
	updateError error
	deleteError error
}

// New creates an empty DAO. Bookkeeping attributes come from the registry;
// a type without a registered descriptor is stored under the "id" attribute.
func New[M any](tableName string) *DAO[M] {
	desc, ok := registry.GetFields[M]()
	if !ok {
		desc = registry.FieldDescriptor{ID: "id"}
	}
	fields, err := registry.Resolve(desc)
	if err != nil {
		panic(fmt.Sprintf("mock: invalid field descriptor for %s: %v", reflect.TypeFor[M](), err))
	}
	return &DAO[M]{
		tableName: tableName,
		items:     make(map[string]item),
		fields:    fields,
		mapper:    mapper.New[M](),
		newID:     func() any { return uuid.NewString() },
	}
}

// WithFields overrides the registered field descriptor.
func (m *DAO[M]) WithFields(desc registry.FieldDescriptor) *DAO[M] {
	fields, err := registry.Resolve(desc)
	if err != nil {
		panic(fmt.Sprintf("mock: invalid field descriptor: %v", err))
	}
	m.fields = fields
	return m
}

// WithIDGenerator sets the generator used for items created without an id
func (m *DAO[M]) WithIDGenerator(f func() any) *DAO[M] {
	m.newID = f
	return m
}

// WithQueryFunc sets a custom query function for testing
func (m *DAO[M]) WithQueryFunc(f QueryFunc[M]) *DAO[M] {
	m.queryFunc = f
	return m
}

// WithLoadError makes Load and LoadByIndex return an error
func (m *DAO[M]) WithLoadError(err error) *DAO[M] {
	m.loadError = err
	return m
}

// WithCreateError makes Create return an error
func (m *DAO[M]) WithCreateError(err error) *DAO[M] {
	m.createError = err
	return m
}

// WithUpdateError makes Update and UpdateAndReturn return an error
func (m *DAO[M]) WithUpdateError(err error) *DAO[M] {
	m.updateError = err
	return m
}

// WithDeleteError makes Delete return an error
func (m *DAO[M]) WithDeleteError(err error) *DAO[M] {
	m.deleteError = err
	return m
}

func (m *DAO[M]) TableName() string { return m.tableName }

func (m *DAO[M]) InitTable(context.Context) error { return nil }

func (m *DAO[M]) EnsureIndexes(context.Context) error { return nil }

// DropTable removes every item.
func (m *DAO[M]) DropTable(context.Context) error {
	m.Clear()
	return nil
}

func (m *DAO[M]) key(id any) (string, error) {
	if storagevalue.Classify(id) == storagevalue.KindNull {
		return "", errors.NewValidationError(m.fields.ID(), "id is required")
	}
	av, err := storagevalue.Marshal(id)
	if err != nil {
		return "", err
	}
	return keyString(av), nil
}

func keyString(av types.AttributeValue) string {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	default:
		return fmt.Sprint(av)
	}
}

func (m *DAO[M]) Load(_ context.Context, id any) (*M, error) {
	if m.loadError != nil {
		return nil, m.loadError
	}
	k, err := m.key(id)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[k]
	if !ok {
		return nil, nil
	}
	return m.mapper.ToModel(it)
}

// LoadByIndex returns the item with the lowest id whose key attribute
// equals value. The index name is not checked.
func (m *DAO[M]) LoadByIndex(_ context.Context, indexName, key string, value any) (*M, error) {
	if m.loadError != nil {
		return nil, m.loadError
	}
	matches, err := m.matching(key, value)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, errors.NewNotFoundError(reflect.TypeFor[M]().Name(), fmt.Sprintf("%s=%v", key, storagevalue.Normalize(value)))
	}
	return m.mapper.ToModel(matches[0])
}

// matching returns the items whose attr equals value, ordered by id.
func (m *DAO[M]) matching(attr string, value any) ([]item, error) {
	if storagevalue.Classify(value) == storagevalue.KindNull {
		return nil, errors.NewValidationError(attr, "index key value is required")
	}
	want, err := storagevalue.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out []item
	for _, it := range m.sorted() {
		if storagevalue.Equal(it[attr], want) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *DAO[M]) sorted() []item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]item, 0, len(keys))
	for _, k := range keys {
		out = append(out, m.items[k])
	}
	return out
}

func (m *DAO[M]) Create(_ context.Context, model M, createdAt time.Time, creatorID any) (*M, error) {
	if m.createError != nil {
		return nil, m.createError
	}
	it, err := m.mapper.ToItem(model)
	if err != nil {
		return nil, err
	}
	idName := m.fields.ID()
	if idName != "" && undefined(it[idName]) {
		if it[idName], err = storagevalue.Marshal(m.newID()); err != nil {
			return nil, err
		}
	}
	if err := m.fill(it, registry.RoleCreatedBy, creatorID, false); err != nil {
		return nil, err
	}
	if err := m.fill(it, registry.RoleCreatedAt, createdAt, false); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if idName == "" {
		// Without an identity every create is a new item.
		m.items[uuid.NewString()] = it
		return m.mapper.ToModel(it)
	}
	k := keyString(it[idName])
	if _, exists := m.items[k]; exists {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}
	m.items[k] = it
	return m.mapper.ToModel(it)
}

// fill sets a role attribute from value when value is not null. Without
// overwrite an attribute already present is kept.
func (m *DAO[M]) fill(it item, role registry.FieldRole, value any, overwrite bool) error {
	name, ok := m.fields.Name(role)
	if !ok || storagevalue.Classify(value) == storagevalue.KindNull {
		return nil
	}
	if !overwrite && !undefined(it[name]) {
		return nil
	}
	av, err := mapper.EncodeValue(m.mapper, value)
	if err != nil {
		return err
	}
	it[name] = av
	return nil
}

func undefined(av types.AttributeValue) bool {
	switch v := av.(type) {
	case nil, *types.AttributeValueMemberNULL:
		return true
	case *types.AttributeValueMemberS:
		return v.Value == ""
	}
	return false
}

func (m *DAO[M]) Update(ctx context.Context, id any, update *storagemodels.Update, updatedAt time.Time, updaterID any) error {
	_, err := m.UpdateAndReturn(ctx, id, update, updatedAt, updaterID)
	return err
}

// UpdateAndReturn upserts like UpdateItem and returns the prior item.
func (m *DAO[M]) UpdateAndReturn(_ context.Context, id any, update *storagemodels.Update, updatedAt time.Time, updaterID any) (*M, error) {
	if m.updateError != nil {
		return nil, m.updateError
	}
	k, err := m.key(id)
	if err != nil {
		return nil, err
	}
	if err := update.Validate(m.fields.ID()); err != nil {
		return nil, err
	}
	removes := update.RemoveFields()
	changed := !update.IsEmpty()
	for _, role := range []registry.FieldRole{registry.RoleUpdatedAt, registry.RoleUpdatedBy} {
		name, ok := m.fields.Name(role)
		if !ok || storagevalue.Classify(auditValue(role, updatedAt, updaterID)) == storagevalue.KindNull {
			continue
		}
		if slices.Contains(removes, name) {
			return nil, errors.NewValidationError(name, "audit attribute cannot be removed")
		}
		changed = true
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	prior := m.items[k]
	next := make(item, len(prior)+len(update.SetFields()))
	for name, av := range prior {
		next[name] = av
	}
	if prior == nil {
		if next[m.fields.ID()], err = storagevalue.Marshal(id); err != nil {
			return nil, err
		}
	}
	for name, v := range update.SetFields() {
		if storagevalue.Classify(v) == storagevalue.KindNull {
			delete(next, name)
			continue
		}
		if next[name], err = mapper.EncodeValue(m.mapper, v); err != nil {
			return nil, err
		}
	}
	for _, name := range removes {
		delete(next, name)
	}
	if err := m.fill(next, registry.RoleUpdatedBy, updaterID, true); err != nil {
		return nil, err
	}
	if err := m.fill(next, registry.RoleUpdatedAt, updatedAt, true); err != nil {
		return nil, err
	}

	if changed {
		m.items[k] = next
	}
	if prior == nil {
		prior = item{}
	}
	return m.mapper.ToModel(prior)
}

func auditValue(role registry.FieldRole, updatedAt time.Time, updaterID any) any {
	if role == registry.RoleUpdatedAt {
		return updatedAt
	}
	return updaterID
}

// Delete removes the item. Missing items are not an error.
func (m *DAO[M]) Delete(_ context.Context, id any) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	k, err := m.key(id)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, k)
	return nil
}

// FindByIndex delegates to the QueryFunc, or returns every item.
func (m *DAO[M]) FindByIndex(ctx context.Context, indexName string, params *storagemodels.QueryParams) (storagemodels.Results[M], error) {
	if m.queryFunc != nil {
		return m.queryFunc(ctx, indexName, params)
	}
	return m.ScanAll(ctx)
}

func (m *DAO[M]) CheckUniqueField(_ context.Context, indexName, field string, value, excludeID any) (bool, error) {
	matches, err := m.matching(field, value)
	if err != nil {
		return false, err
	}
	exclude, err := storagevalue.Marshal(excludeID)
	if err != nil {
		return false, err
	}
	for _, it := range matches {
		if !storagevalue.Equal(it[m.fields.ID()], exclude) {
			return false, nil
		}
	}
	return true, nil
}

func (m *DAO[M]) ScanAll(ctx context.Context) (storagemodels.Results[M], error) {
	return m.Scan(ctx, nil)
}

// Scan returns every item ordered by id. Filters are not applied.
func (m *DAO[M]) Scan(context.Context, *storagemodels.ScanParams) (storagemodels.Results[M], error) {
	models := make([]M, 0)
	for _, it := range m.sorted() {
		model, err := m.mapper.ToModel(it)
		if err != nil {
			return storagemodels.Results[M]{}, err
		}
		models = append(models, *model)
	}
	return storagemodels.Results[M]{Items: models}, nil
}

// IterateAll yields a snapshot of the items ordered by id.
func (m *DAO[M]) IterateAll(ctx context.Context, _ ...storagemodels.IterateOption) iter.Seq2[M, error] {
	return func(yield func(M, error) bool) {
		for _, it := range m.sorted() {
			if err := ctx.Err(); err != nil {
				var zero M
				yield(zero, err)
				return
			}
			model, err := m.mapper.ToModel(it)
			if err != nil {
				var zero M
				yield(zero, err)
				return
			}
			if !yield(*model, nil) {
				return
			}
		}
	}
}

// CopyTable stores every item scanned from sourceTable, overwriting.
func (m *DAO[M]) CopyTable(ctx context.Context, source dynamodb.ScanAPIClient, sourceTable string) error {
	p := dynamodb.NewScanPaginator(source, &dynamodb.ScanInput{TableName: aws.String(sourceTable)})
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return err
		}
		m.mu.Lock()
		for _, it := range out.Items {
			m.items[keyString(it[m.fields.ID()])] = it
		}
		m.mu.Unlock()
	}
	return nil
}

// Helper methods for testing

// Put stores model as is, replacing any item with the same id.
func (m *DAO[M]) Put(model M) error {
	it, err := m.mapper.ToItem(model)
	if err != nil {
		return err
	}
	av, ok := it[m.fields.ID()]
	if !ok || undefined(av) {
		return errors.NewValidationError(m.fields.ID(), "id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[keyString(av)] = it
	return nil
}

// Count returns the number of stored items
func (m *DAO[M]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Clear removes all items
func (m *DAO[M]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]item)
}
