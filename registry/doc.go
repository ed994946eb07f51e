/*
Package registry holds the static field metadata of model types.

Each entity declares, once, which storage attributes carry its identity and
audit roles. The declaration is a plain struct; nothing is discovered by
scanning struct tags at runtime.

	func init() {
	    registry.MustRegisterFields[User](registry.FieldDescriptor{
	        ID:        "id",
	        CreatedAt: "createdAt",
	        CreatedBy: "createdBy",
	        UpdatedAt: "updatedAt",
	        UpdatedBy: "updatedBy",
	    })
	}

A DAO resolves the descriptor into an immutable Fields value at
construction. Resolve rejects a storage name bound to more than one role.

The registry is thread-safe and should be populated during initialization.
*/
package registry
