/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package tabledef

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	daoerrors "github.com/suparena/entitydao/errors"
)

const usersYAML = `
users:
  AttributeDefinitions:
    - {AttributeName: id, AttributeType: S}
    - {AttributeName: org, AttributeType: S}
    - {AttributeName: createdAt, AttributeType: N}
  KeySchema:
    - {AttributeName: id, KeyType: HASH}
  ProvisionedThroughput: {ReadCapacityUnits: 5, WriteCapacityUnits: 2}
  GlobalSecondaryIndexes:
    - IndexName: org-created-index
      KeySchema:
        - {AttributeName: org, KeyType: HASH}
        - {AttributeName: createdAt, KeyType: RANGE}
      Projection:
        ProjectionType: INCLUDE
        NonKeyAttributes: [email]
      ProvisionedThroughput: {ReadCapacityUnits: 3, WriteCapacityUnits: 1}
audit:
  AttributeDefinitions:
    - {AttributeName: entityId, AttributeType: S}
    - {AttributeName: at, AttributeType: N}
  KeySchema:
    - {AttributeName: entityId, KeyType: HASH}
    - {AttributeName: at, KeyType: RANGE}
`

const tablesJSON = `{
  "users": {
    "AttributeDefinitions": [
      {"AttributeName": "id", "AttributeType": "S"},
      {"AttributeName": "email", "AttributeType": "S"}
    ],
    "KeySchema": [{"AttributeName": "id", "KeyType": "HASH"}],
    "GlobalSecondaryIndexes": [
      {
        "IndexName": "email-index",
        "KeySchema": [{"AttributeName": "email", "KeyType": "HASH"}],
        "Projection": {"ProjectionType": "ALL"}
      }
    ]
  },
  "orders.v2": {
    "AttributeDefinitions": [{"AttributeName": "orderId", "AttributeType": "S"}],
    "KeySchema": [{"AttributeName": "orderId", "KeyType": "HASH"}]
  }
}`

func TestParseYAML(t *testing.T) {
	doc, err := ParseYAML([]byte(usersYAML))
	require.NoError(t, err)
	assert.Equal(t, []string{"audit", "users"}, doc.Names())

	users, err := doc.Table("users")
	require.NoError(t, err)
	schema := users.Schema()

	hash, ok := schema.HashKey()
	require.True(t, ok)
	assert.Equal(t, "id", hash)
	assert.Len(t, schema.AttributeDefinitions, 3)

	require.Len(t, schema.Indexes, 1)
	idx := schema.Indexes[0]
	assert.Equal(t, "org-created-index", idx.Name)
	rangeKey, ok := idx.RangeKey()
	require.True(t, ok)
	assert.Equal(t, "createdAt", rangeKey)
	assert.Equal(t, types.ProjectionTypeInclude, idx.Projection.ProjectionType)
	assert.Equal(t, []string{"email"}, idx.Projection.NonKeyAttributes)
	assert.Equal(t, int64(3), aws.ToInt64(idx.Throughput.ReadCapacityUnits))

	assert.Equal(t, int64(5), aws.ToInt64(users.Throughput().ReadCapacityUnits))

	audit, err := doc.Table("audit")
	require.NoError(t, err)
	assert.Nil(t, audit.Throughput())
	assert.Empty(t, audit.Schema().Indexes)

	_, err = doc.Table("missing")
	assert.True(t, daoerrors.IsNotFound(err))
}

func TestParseJSON(t *testing.T) {
	doc, err := ParseJSON([]byte(tablesJSON))
	require.NoError(t, err)
	assert.Equal(t, []string{"orders.v2", "users"}, doc.Names())

	users := doc["users"].Schema()
	require.Len(t, users.Indexes, 1)
	assert.Equal(t, types.ProjectionTypeAll, users.Indexes[0].Projection.ProjectionType)
	assert.Nil(t, users.Indexes[0].Throughput)

	_, err = ParseJSON([]byte(`[1, 2]`))
	assert.True(t, daoerrors.IsValidationError(err))
}

func TestExtractJSON(t *testing.T) {
	orders, err := ExtractJSON([]byte(tablesJSON), "orders.v2")
	require.NoError(t, err)
	hash, _ := orders.Schema().HashKey()
	assert.Equal(t, "orderId", hash)

	_, err = ExtractJSON([]byte(tablesJSON), "payments")
	assert.True(t, daoerrors.IsNotFound(err))
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty document", ``},
		{"unknown attribute type", `
t:
  AttributeDefinitions: [{AttributeName: id, AttributeType: STRING}]
  KeySchema: [{AttributeName: id, KeyType: HASH}]
`},
		{"unknown key type", `
t:
  AttributeDefinitions: [{AttributeName: id, AttributeType: S}]
  KeySchema: [{AttributeName: id, KeyType: PARTITION}]
`},
		{"missing key schema", `
t:
  AttributeDefinitions: [{AttributeName: id, AttributeType: S}]
`},
		{"undefined key attribute", `
t:
  AttributeDefinitions: [{AttributeName: id, AttributeType: S}]
  KeySchema: [{AttributeName: id, KeyType: HASH}]
  GlobalSecondaryIndexes:
    - IndexName: by-email
      KeySchema: [{AttributeName: email, KeyType: HASH}]
`},
		{"two hash keys", `
t:
  AttributeDefinitions: [{AttributeName: a, AttributeType: S}, {AttributeName: b, AttributeType: S}]
  KeySchema: [{AttributeName: a, KeyType: HASH}, {AttributeName: b, KeyType: HASH}]
`},
		{"bad projection", `
t:
  AttributeDefinitions: [{AttributeName: id, AttributeType: S}]
  KeySchema: [{AttributeName: id, KeyType: HASH}]
  GlobalSecondaryIndexes:
    - IndexName: by-id
      KeySchema: [{AttributeName: id, KeyType: HASH}]
      Projection: {ProjectionType: SOME}
`},
		{"zero throughput", `
t:
  AttributeDefinitions: [{AttributeName: id, AttributeType: S}]
  KeySchema: [{AttributeName: id, KeyType: HASH}]
  ProvisionedThroughput: {ReadCapacityUnits: 0, WriteCapacityUnits: 1}
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, daoerrors.IsValidationError(err), err.Error())
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "tables.yml")
	jsonPath := filepath.Join(dir, "tables.json")
	require.NoError(t, os.WriteFile(yamlPath, []byte(usersYAML), 0o600))
	require.NoError(t, os.WriteFile(jsonPath, []byte(tablesJSON), 0o600))

	doc, err := LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Len(t, doc, 2)

	doc, err = LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, doc, "orders.v2")

	_, err = LoadFile(filepath.Join(dir, "tables.toml"))
	assert.Error(t, err)

	txt := filepath.Join(dir, "tables.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o600))
	_, err = LoadFile(txt)
	assert.True(t, daoerrors.IsValidationError(err))
}
