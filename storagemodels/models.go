/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// QueryParams defines an index query. Expressions use the placeholder maps;
// the expression builder output can be copied in directly.
type QueryParams struct {
	// KeyConditionExpression is the primary condition for the query.
	KeyConditionExpression string
	// FilterExpression is an optional filter expression.
	FilterExpression *string
	// ExpressionAttributeNames contains the names for expression placeholders.
	ExpressionAttributeNames map[string]string
	// ExpressionAttributeValues contains the values for expression placeholders.
	ExpressionAttributeValues map[string]types.AttributeValue
	// Limit caps the result to a single page of at most Limit items.
	// Without it every page is read.
	Limit *int32
	// ExclusiveStartKey for pagination
	ExclusiveStartKey map[string]types.AttributeValue
	// ScanIndexForward specifies the order for index traversal.
	// If true (default), traversal is in ascending order.
	// If false, traversal is in descending order.
	ScanIndexForward *bool
}

// ScanParams defines a full-table scan.
type ScanParams struct {
	FilterExpression          *string
	ProjectionExpression      *string
	ExpressionAttributeNames  map[string]string
	ExpressionAttributeValues map[string]types.AttributeValue
	// Limit is the page size; all pages are always read.
	Limit          *int32
	ConsistentRead *bool
}

// Results is a materialized, ordered query or scan result.
type Results[M any] struct {
	Items []M
	// LastEvaluatedKey is set when a limited query stopped before the end.
	LastEvaluatedKey map[string]types.AttributeValue
}

// Len returns the number of items.
func (r Results[M]) Len() int {
	return len(r.Items)
}

// First returns the first item, or nil when empty.
func (r Results[M]) First() *M {
	if len(r.Items) == 0 {
		return nil
	}
	return &r.Items[0]
}
