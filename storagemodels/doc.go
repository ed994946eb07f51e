/*
Package storagemodels defines the data structures shared by DAO
implementations.

Update:
A sparse change applied by Update and UpdateAndReturn:

	upd := storagemodels.NewUpdate().
	    Set("status", "active").
	    Remove("suspendedReason")

TableSchema:
What an entity declares about its table. Indexes lists the global
secondary indexes that table initialization creates when they are missing:

	schema := storagemodels.TableSchema{
	    KeySchema: []types.KeySchemaElement{
	        {AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
	    },
	    AttributeDefinitions: []types.AttributeDefinition{
	        {AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
	        {AttributeName: aws.String("email"), AttributeType: types.ScalarAttributeTypeS},
	    },
	    Indexes: []storagemodels.IndexDefinition{{
	        Name: "email-index",
	        KeySchema: []types.KeySchemaElement{
	            {AttributeName: aws.String("email"), KeyType: types.KeyTypeHash},
	        },
	    }},
	}

QueryParams and ScanParams:
Raw expression parameters for index queries and scans. Results holds the
materialized output.

IterateOptions:
Page size and progress reporting for lazy full-table iteration:

	for user, err := range dao.IterateAll(ctx, storagemodels.WithPageSize(25)) {
	    ...
	}
*/
package storagemodels
