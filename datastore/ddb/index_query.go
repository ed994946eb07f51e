/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"iter"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/entitydao/storagemodels"
	"github.com/suparena/entitydao/storagevalue"
)

// IndexQueryBuilder provides a fluent interface for building index queries.
// Every value passes through the storage normalizer, so timestamps and ids
// compare equal to what Create and Update wrote.
type IndexQueryBuilder[M any] struct {
	dao       *DynamodbDAO[M]
	indexName string

	partition    *expression.KeyConditionBuilder
	sort         *expression.KeyConditionBuilder
	filter       *expression.ConditionBuilder
	limit        *int32
	forward      *bool
	startKey     map[string]types.AttributeValue
	partitionKey string
}

// QueryIndex starts a query on the named index. An empty name queries the
// base table.
func (d *DynamodbDAO[M]) QueryIndex(indexName string) *IndexQueryBuilder[M] {
	return &IndexQueryBuilder[M]{dao: d, indexName: indexName}
}

func value(v any) expression.ValueBuilder {
	return expression.Value(storagevalue.Normalize(v))
}

// Where sets the partition key condition attr = v
func (q *IndexQueryBuilder[M]) Where(attr string, v any) *IndexQueryBuilder[M] {
	kc := expression.Key(attr).Equal(value(v))
	q.partition = &kc
	q.partitionKey = attr
	return q
}

func (q *IndexQueryBuilder[M]) setSort(kc expression.KeyConditionBuilder) *IndexQueryBuilder[M] {
	q.sort = &kc
	return q
}

// SortEquals sets the sort key condition attr = v
func (q *IndexQueryBuilder[M]) SortEquals(attr string, v any) *IndexQueryBuilder[M] {
	return q.setSort(expression.Key(attr).Equal(value(v)))
}

// SortBeginsWith sets the sort key to use begins_with
func (q *IndexQueryBuilder[M]) SortBeginsWith(attr, prefix string) *IndexQueryBuilder[M] {
	return q.setSort(expression.Key(attr).BeginsWith(prefix))
}

// SortGreaterThan sets the sort key condition attr > v
func (q *IndexQueryBuilder[M]) SortGreaterThan(attr string, v any) *IndexQueryBuilder[M] {
	return q.setSort(expression.Key(attr).GreaterThan(value(v)))
}

// SortGreaterThanEqual sets the sort key condition attr >= v
func (q *IndexQueryBuilder[M]) SortGreaterThanEqual(attr string, v any) *IndexQueryBuilder[M] {
	return q.setSort(expression.Key(attr).GreaterThanEqual(value(v)))
}

// SortLessThan sets the sort key condition attr < v
func (q *IndexQueryBuilder[M]) SortLessThan(attr string, v any) *IndexQueryBuilder[M] {
	return q.setSort(expression.Key(attr).LessThan(value(v)))
}

// SortLessThanEqual sets the sort key condition attr <= v
func (q *IndexQueryBuilder[M]) SortLessThanEqual(attr string, v any) *IndexQueryBuilder[M] {
	return q.setSort(expression.Key(attr).LessThanEqual(value(v)))
}

// SortBetween sets the sort key condition lo <= attr <= hi
func (q *IndexQueryBuilder[M]) SortBetween(attr string, lo, hi any) *IndexQueryBuilder[M] {
	return q.setSort(expression.Key(attr).Between(value(lo), value(hi)))
}

// Filter adds a filter condition. Repeated calls are combined with AND.
func (q *IndexQueryBuilder[M]) Filter(cond expression.ConditionBuilder) *IndexQueryBuilder[M] {
	if q.filter != nil {
		cond = q.filter.And(cond)
	}
	q.filter = &cond
	return q
}

// Limit reads a single page of at most n items.
func (q *IndexQueryBuilder[M]) Limit(n int32) *IndexQueryBuilder[M] {
	q.limit = aws.Int32(n)
	return q
}

// Descending returns items in descending sort key order.
func (q *IndexQueryBuilder[M]) Descending() *IndexQueryBuilder[M] {
	q.forward = aws.Bool(false)
	return q
}

// Ascending returns items in ascending sort key order (the default).
func (q *IndexQueryBuilder[M]) Ascending() *IndexQueryBuilder[M] {
	q.forward = aws.Bool(true)
	return q
}

// StartFrom resumes after a LastEvaluatedKey of a previous result.
func (q *IndexQueryBuilder[M]) StartFrom(key map[string]types.AttributeValue) *IndexQueryBuilder[M] {
	q.startKey = key
	return q
}

// Build constructs the final query parameters
func (q *IndexQueryBuilder[M]) Build() (*storagemodels.QueryParams, error) {
	if q.partition == nil {
		return nil, fmt.Errorf("partition key condition is required")
	}

	kc := *q.partition
	if q.sort != nil {
		kc = expression.KeyAnd(kc, *q.sort)
	}
	b := expression.NewBuilder().WithKeyCondition(kc)
	if q.filter != nil {
		b = b.WithFilter(*q.filter)
	}
	expr, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query on %s: %w", q.partitionKey, err)
	}

	return &storagemodels.QueryParams{
		KeyConditionExpression:    aws.ToString(expr.KeyCondition()),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     q.limit,
		ExclusiveStartKey:         q.startKey,
		ScanIndexForward:          q.forward,
	}, nil
}

// Execute runs the query and returns the materialized results
func (q *IndexQueryBuilder[M]) Execute(ctx context.Context) (storagemodels.Results[M], error) {
	params, err := q.Build()
	if err != nil {
		return storagemodels.Results[M]{}, err
	}
	return q.dao.FindByIndex(ctx, q.indexName, params)
}

// First returns the first matching item or a NotFound error.
func (q *IndexQueryBuilder[M]) First(ctx context.Context) (*M, error) {
	params, err := q.Build()
	if err != nil {
		return nil, err
	}
	return q.dao.first(ctx, q.indexName, params, fmt.Sprintf("index %s", q.indexName))
}

// Iterate runs the query lazily, page by page
func (q *IndexQueryBuilder[M]) Iterate(ctx context.Context, opts ...storagemodels.IterateOption) iter.Seq2[M, error] {
	params, err := q.Build()
	if err != nil {
		return func(yield func(M, error) bool) {
			var zero M
			yield(zero, err)
		}
	}
	return q.dao.IterateIndex(ctx, q.indexName, params, opts...)
}
