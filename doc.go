/*
Package entitydao provides typed data-access objects over Amazon DynamoDB.

Each DAO is bound to one table and one model type. Models declare which of
their attributes hold the identity and the created/updated audit values,
and optionally the table's key schema and secondary indexes; the DAO
normalizes values, compiles partial updates into a single UpdateItem call,
answers indexed lookups and uniqueness checks, and creates the table and
any missing indexes on startup.

Key Features:
  - Type-safe operations using Go generics
  - Partial updates with automatic updated-at/updated-by stamping
  - Fluent index and time-range queries
  - Lazy iteration with iter.Seq2
  - Additive, name-matched secondary index reconciliation
  - Semantic error types
  - An in-memory DAO for consumers' unit tests

Basic Usage:

	registry.MustRegisterFields[User](registry.FieldDescriptor{
	    ID:        "id",
	    CreatedAt: "createdAt",
	    UpdatedAt: "updatedAt",
	})

	users, _ := ddb.New(client, ddb.Config[User]{TableName: "users", Schema: userSchema})

	storage := entitydao.NewStorageManager()
	storage.Register("users", users)
	if err := storage.InitTables(ctx); err != nil {
	    return err
	}

	user, err := users.Create(ctx, User{Email: "ada@example.com"}, time.Now(), nil)
*/
package entitydao
