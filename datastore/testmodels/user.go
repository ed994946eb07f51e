/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package testmodels

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/entitydao/registry"
	"github.com/suparena/entitydao/storagemodels"
)

const (
	UserEmailIndex = "email-index"
	UserOrgIndex   = "org-created-index"
)

// User is a model carrying every bookkeeping role.
type User struct {
	// Unique identifier, generated on create when empty.
	ID string `json:"id,omitempty"`

	Email string `json:"email,omitempty"`

	Name string `json:"name,omitempty"`

	// Organisation the user belongs to.
	Org string `json:"org,omitempty"`

	Status string `json:"status,omitempty"`

	Tags []string `json:"tags,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
}

// UserFields declares the bookkeeping attributes of User.
var UserFields = registry.FieldDescriptor{
	ID:        "id",
	CreatedAt: "createdAt",
	CreatedBy: "createdBy",
	UpdatedAt: "updatedAt",
	UpdatedBy: "updatedBy",
}

func init() {
	registry.MustRegisterFields[User](UserFields)
}

// UserSchema is the table schema of User: an id hash key, a unique email
// index and an org index sorted by creation time.
func UserSchema() storagemodels.TableSchema {
	return storagemodels.TableSchema{
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("email"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("org"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("createdAt"), AttributeType: types.ScalarAttributeTypeN},
		},
		Indexes: []storagemodels.IndexDefinition{
			{
				Name: UserEmailIndex,
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("email"), KeyType: types.KeyTypeHash},
				},
			},
			{
				Name: UserOrgIndex,
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("org"), KeyType: types.KeyTypeHash},
					{AttributeName: aws.String("createdAt"), KeyType: types.KeyTypeRange},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
	}
}

// Note has an identity only, no audit roles.
type Note struct {
	NoteID int64  `json:"noteId"`
	Body   string `json:"body"`
}

var NoteFields = registry.FieldDescriptor{ID: "noteId"}
