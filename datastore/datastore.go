/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"iter"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/suparena/entitydao/storagemodels"
)

// DAO is the typed data-access contract for model M.
//
// Ids are normalized before use, so any value whose stored form matches the
// identity attribute may be passed. A nil creator or updater id and a zero
// timestamp leave the corresponding audit attribute untouched.
type DAO[M any] interface {
	TableManager

	// Load returns nil, nil when no item has the id.
	Load(ctx context.Context, id any) (*M, error)

	// LoadByIndex returns the first item whose key attribute equals value,
	// or a NotFound error.
	LoadByIndex(ctx context.Context, indexName, key string, value any) (*M, error)

	// Create writes a new item, generating the identity when the model has
	// none. It fails with the store's conditional-check error when the
	// identity is taken.
	Create(ctx context.Context, model M, createdAt time.Time, creatorID any) (*M, error)

	Update(ctx context.Context, id any, update *storagemodels.Update, updatedAt time.Time, updaterID any) error

	// UpdateAndReturn applies the update and returns the item as it was
	// before. An absent item yields a zero-valued model.
	UpdateAndReturn(ctx context.Context, id any, update *storagemodels.Update, updatedAt time.Time, updaterID any) (*M, error)

	// Delete is idempotent.
	Delete(ctx context.Context, id any) error

	FindByIndex(ctx context.Context, indexName string, params *storagemodels.QueryParams) (storagemodels.Results[M], error)

	// CheckUniqueField reports whether no item other than excludeID holds
	// value in field.
	CheckUniqueField(ctx context.Context, indexName, field string, value, excludeID any) (bool, error)

	// ScanAll and Scan read the whole table into memory. Small tables only.
	ScanAll(ctx context.Context) (storagemodels.Results[M], error)
	Scan(ctx context.Context, params *storagemodels.ScanParams) (storagemodels.Results[M], error)

	// IterateAll starts a fresh lazy pass over the table on every call.
	IterateAll(ctx context.Context, opts ...storagemodels.IterateOption) iter.Seq2[M, error]

	// CopyTable puts every item of the source table into this one.
	CopyTable(ctx context.Context, source dynamodb.ScanAPIClient, sourceTable string) error
}

// TableManager is the schema side of a DAO.
type TableManager interface {
	TableName() string

	// InitTable creates the table if needed, waits for it and reconciles
	// its secondary indexes.
	InitTable(ctx context.Context) error

	DropTable(ctx context.Context) error

	// EnsureIndexes creates declared secondary indexes missing from the
	// live table. Existing indexes are never altered or removed.
	EnsureIndexes(ctx context.Context) error
}
