/*
Package datastore defines the core interfaces for entitydao's data access layer.

The main interface is DAO[M], which provides typed CRUD, indexed lookup and
table management for any model type M:

	type DAO[M any] interface {
	    TableManager
	    Load(ctx context.Context, id any) (*M, error)
	    LoadByIndex(ctx context.Context, indexName, key string, value any) (*M, error)
	    Create(ctx context.Context, model M, createdAt time.Time, creatorID any) (*M, error)
	    Update(ctx context.Context, id any, update *storagemodels.Update, updatedAt time.Time, updaterID any) error
	    UpdateAndReturn(ctx context.Context, id any, update *storagemodels.Update, updatedAt time.Time, updaterID any) (*M, error)
	    Delete(ctx context.Context, id any) error
	    FindByIndex(ctx context.Context, indexName string, params *storagemodels.QueryParams) (storagemodels.Results[M], error)
	    CheckUniqueField(ctx context.Context, indexName, field string, value, excludeID any) (bool, error)
	    ScanAll(ctx context.Context) (storagemodels.Results[M], error)
	    Scan(ctx context.Context, params *storagemodels.ScanParams) (storagemodels.Results[M], error)
	    IterateAll(ctx context.Context, opts ...storagemodels.IterateOption) iter.Seq2[M, error]
	    CopyTable(ctx context.Context, source dynamodb.ScanAPIClient, sourceTable string) error
	}

Implementations:
  - ddb: DynamoDB implementation
  - mock: In-memory implementation for testing

Note the asymmetry between Load, which reports a missing item as nil, and
LoadByIndex, which returns errors.ErrNotFound.
*/
package datastore
