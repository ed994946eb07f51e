/*
Package ddb implements the DAO contract on Amazon DynamoDB.

A DynamodbDAO is bound to one table and one model type. It resolves the
model's bookkeeping attributes (identity, created/updated at and by) from
the registry or from Config.Fields, and normalizes every value it writes
or compares through the storagevalue package:

	dao, err := ddb.New(client, ddb.Config[User]{
	    TableName: "users",
	    Schema:    userSchema,
	}, ddb.WithLogger(logger))

	user, err := dao.Create(ctx, User{Email: "ada@example.com"}, time.Now(), adminID)
	err = dao.Update(ctx, user.ID, storagemodels.NewUpdate().
	    Set("status", "active").
	    Remove("inviteToken"), time.Now(), adminID)

Partial updates compile to a single UpdateItem call with placeholder
names and values. An update with nothing to change makes no request.

Index queries:

	users, err := dao.QueryIndex("org-created-index").
	    Where("org", "acme").
	    SortGreaterThan("createdAt", since).
	    Descending().
	    Execute(ctx)

	recent, err := dao.QueryByTimeRange("org-created-index", "org", "acme").
	    InLastDays(7).
	    Execute(ctx)

Table management:

InitTable creates the table if needed and then calls EnsureIndexes, which
adds every declared secondary index the live table lacks and waits for it
to become active. Indexes are matched by name and never altered or
removed; WithStrictIndexes turns a key schema difference into an
IndexMismatchError. A wait that times out is logged and ignored.
*/
package ddb
