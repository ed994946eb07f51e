/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/entitydao/errors"
)

// IndexDefinition declares a global secondary index.
type IndexDefinition struct {
	Name      string
	KeySchema []types.KeySchemaElement
	// Projection defaults to ALL.
	Projection *types.Projection
	// Throughput is required for provisioned tables and ignored on-demand.
	Throughput *types.ProvisionedThroughput
}

// HashKey returns the partition key attribute of the index.
func (d IndexDefinition) HashKey() (string, bool) {
	return keyOf(d.KeySchema, types.KeyTypeHash)
}

// RangeKey returns the sort key attribute of the index, if it has one.
func (d IndexDefinition) RangeKey() (string, bool) {
	return keyOf(d.KeySchema, types.KeyTypeRange)
}

// TableSchema is what an entity declares about its table: the primary key,
// the types of key attributes, and the desired secondary indexes.
type TableSchema struct {
	KeySchema            []types.KeySchemaElement
	AttributeDefinitions []types.AttributeDefinition
	Indexes              []IndexDefinition
}

// AttributeDefinition looks up the declared type of an attribute.
func (s TableSchema) AttributeDefinition(name string) (types.AttributeDefinition, bool) {
	for _, def := range s.AttributeDefinitions {
		if def.AttributeName != nil && *def.AttributeName == name {
			return def, true
		}
	}
	return types.AttributeDefinition{}, false
}

// HashKey returns the table's partition key attribute.
func (s TableSchema) HashKey() (string, bool) {
	return keyOf(s.KeySchema, types.KeyTypeHash)
}

// Validate checks that every key has exactly one hash attribute, every key
// attribute has a declared type, and index names are unique.
func (s TableSchema) Validate() error {
	if err := s.validateKeys("table", s.KeySchema); err != nil {
		return err
	}
	seen := make(map[string]bool, len(s.Indexes))
	for _, idx := range s.Indexes {
		if idx.Name == "" {
			return errors.NewValidationError("indexes", "index name is required")
		}
		if seen[idx.Name] {
			return errors.NewValidationError(idx.Name, "duplicate index name")
		}
		seen[idx.Name] = true
		if err := s.validateKeys(idx.Name, idx.KeySchema); err != nil {
			return err
		}
	}
	return nil
}

func (s TableSchema) validateKeys(owner string, keys []types.KeySchemaElement) error {
	var hashes, ranges int
	for _, k := range keys {
		switch k.KeyType {
		case types.KeyTypeHash:
			hashes++
		case types.KeyTypeRange:
			ranges++
		default:
			return errors.NewValidationError(owner, fmt.Sprintf("unknown key type %q", k.KeyType))
		}
		if k.AttributeName == nil {
			return errors.NewValidationError(owner, "key attribute name is required")
		}
		if _, ok := s.AttributeDefinition(*k.AttributeName); !ok {
			return errors.NewValidationError(*k.AttributeName,
				fmt.Sprintf("key attribute of %s has no attribute definition", owner))
		}
	}
	if hashes != 1 || ranges > 1 {
		return errors.NewValidationError(owner, "key schema needs one HASH and at most one RANGE attribute")
	}
	return nil
}

// DescribeKeySchema renders a key schema as "a(HASH),b(RANGE)".
func DescribeKeySchema(keys []types.KeySchemaElement) string {
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ","
		}
		name := ""
		if k.AttributeName != nil {
			name = *k.AttributeName
		}
		out += fmt.Sprintf("%s(%s)", name, k.KeyType)
	}
	return out
}

func keyOf(keys []types.KeySchemaElement, kt types.KeyType) (string, bool) {
	for _, k := range keys {
		if k.KeyType == kt && k.AttributeName != nil {
			return *k.AttributeName, true
		}
	}
	return "", false
}
