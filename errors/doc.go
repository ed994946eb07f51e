/*
Package errors provides semantic error types for the entitydao library.

Store errors (throttling, timeouts, malformed requests) are returned to the
caller unchanged. The package adds the few domain errors the DAO raises on
top of them, checkable with errors.Is or the helper functions.

Common Errors:

	var (
	    ErrNotFound        = errors.New("entity not found")
	    ErrAlreadyExists   = errors.New("entity already exists")
	    ErrInvalidInput    = errors.New("invalid input")
	    ErrConditionFailed = errors.New("condition check failed")
	    ErrIndexMismatch   = errors.New("secondary index mismatch")
	)

Usage:

	// Indexed lookups report absence as an error, key lookups do not
	user, err := dao.LoadByIndex(ctx, "email-index", "email", "a@b.c")
	if errors.IsNotFound(err) {
	    // no user with that email
	}

	// Duplicate identities surface the store's own exception
	_, err = dao.Create(ctx, user, time.Now(), actorID)
	if errors.IsConditionFailed(err) {
	    // identity already taken
	}
*/
package errors
