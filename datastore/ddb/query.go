/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	daoerrors "github.com/suparena/entitydao/errors"
	"github.com/suparena/entitydao/storagemodels"
	"github.com/suparena/entitydao/storagevalue"
)

// equalityQuery builds a key condition "key = value" on an index.
func equalityQuery(key string, value any) (*storagemodels.QueryParams, error) {
	if storagevalue.Classify(value) == storagevalue.KindNull {
		return nil, daoerrors.NewValidationError(key, "index key value is required")
	}
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key(key).Equal(expression.Value(storagevalue.Normalize(value)))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build key condition: %w", err)
	}
	return &storagemodels.QueryParams{
		KeyConditionExpression:    aws.ToString(expr.KeyCondition()),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}, nil
}

func (d *DynamodbDAO[M]) queryInput(indexName string, params *storagemodels.QueryParams) (*sdk.QueryInput, error) {
	if params == nil || params.KeyConditionExpression == "" {
		return nil, daoerrors.NewValidationError("keyConditionExpression", "key condition is required")
	}
	input := &sdk.QueryInput{
		TableName:                 aws.String(d.tableName),
		KeyConditionExpression:    aws.String(params.KeyConditionExpression),
		FilterExpression:          params.FilterExpression,
		ExpressionAttributeNames:  params.ExpressionAttributeNames,
		ExpressionAttributeValues: params.ExpressionAttributeValues,
		Limit:                     params.Limit,
		ExclusiveStartKey:         params.ExclusiveStartKey,
		ScanIndexForward:          params.ScanIndexForward,
	}
	if indexName != "" {
		input.IndexName = aws.String(indexName)
	}
	return input, nil
}

// LoadByIndex returns the first item of the index whose key equals value.
// Lookups through this path are expected to be unique; further matches are
// ignored. No match is a NotFound error.
func (d *DynamodbDAO[M]) LoadByIndex(ctx context.Context, indexName, key string, value any) (*M, error) {
	params, err := equalityQuery(key, value)
	if err != nil {
		return nil, err
	}
	params.Limit = aws.Int32(1)
	return d.first(ctx, indexName, params, fmt.Sprintf("%s=%v", key, storagevalue.Normalize(value)))
}

// first runs a query until one item is found.
func (d *DynamodbDAO[M]) first(ctx context.Context, indexName string, params *storagemodels.QueryParams, desc string) (*M, error) {
	input, err := d.queryInput(indexName, params)
	if err != nil {
		return nil, err
	}

	var found *M
	// A filtered page may be empty while more pages remain.
	err = eachItem(ctx, queryPager{sdk.NewQueryPaginator(d.client, input)}, func(it rawItem) (bool, error) {
		m, mapErr := d.mapper.ToModel(it)
		found = m
		return false, mapErr
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, daoerrors.NewNotFoundError(d.entityName, desc)
	}
	return found, nil
}

// FindByIndex runs a query and materializes the result. With params.Limit
// set a single page is read and LastEvaluatedKey allows resuming; otherwise
// every page is read.
func (d *DynamodbDAO[M]) FindByIndex(ctx context.Context, indexName string, params *storagemodels.QueryParams) (storagemodels.Results[M], error) {
	input, err := d.queryInput(indexName, params)
	if err != nil {
		return storagemodels.Results[M]{}, err
	}

	if params.Limit != nil {
		out, err := d.client.Query(ctx, input)
		if err != nil {
			return storagemodels.Results[M]{}, err
		}
		models := make([]M, 0, len(out.Items))
		for _, it := range out.Items {
			m, err := d.mapper.ToModel(it)
			if err != nil {
				return storagemodels.Results[M]{}, err
			}
			models = append(models, *m)
		}
		return storagemodels.Results[M]{Items: models, LastEvaluatedKey: out.LastEvaluatedKey}, nil
	}

	models, err := d.collect(ctx, queryPager{sdk.NewQueryPaginator(d.client, input)})
	if err != nil {
		return storagemodels.Results[M]{}, err
	}
	return storagemodels.Results[M]{Items: models}, nil
}

// CheckUniqueField reports whether value is free in field, ignoring the
// item whose identity is excludeID. A nil excludeID excludes nothing.
func (d *DynamodbDAO[M]) CheckUniqueField(ctx context.Context, indexName, field string, value, excludeID any) (bool, error) {
	idName := d.fields.ID()
	if idName == "" {
		return false, daoerrors.NewValidationError("id", d.entityName+" declares no identity field")
	}

	params, err := equalityQuery(field, value)
	if err != nil {
		return false, err
	}
	input, err := d.queryInput(indexName, params)
	if err != nil {
		return false, err
	}
	exclude, err := storagevalue.Marshal(excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to marshal excluded id: %w", err)
	}

	unique := true
	err = eachItem(ctx, queryPager{sdk.NewQueryPaginator(d.client, input)}, func(it rawItem) (bool, error) {
		if !storagevalue.Equal(it[idName], exclude) {
			unique = false
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return unique, nil
}

// ScanAll reads the whole table into memory. Small tables only.
func (d *DynamodbDAO[M]) ScanAll(ctx context.Context) (storagemodels.Results[M], error) {
	return d.Scan(ctx, nil)
}

// Scan reads every page of a filtered scan into memory.
func (d *DynamodbDAO[M]) Scan(ctx context.Context, params *storagemodels.ScanParams) (storagemodels.Results[M], error) {
	input := &sdk.ScanInput{TableName: aws.String(d.tableName)}
	if params != nil {
		input.FilterExpression = params.FilterExpression
		input.ProjectionExpression = params.ProjectionExpression
		input.ExpressionAttributeNames = params.ExpressionAttributeNames
		input.ExpressionAttributeValues = params.ExpressionAttributeValues
		input.Limit = params.Limit
		input.ConsistentRead = params.ConsistentRead
	}

	models, err := d.collect(ctx, scanPager{sdk.NewScanPaginator(d.client, input)})
	if err != nil {
		return storagemodels.Results[M]{}, err
	}
	return storagemodels.Results[M]{Items: models}, nil
}

// ScanFilter builds ScanParams from a condition, e.g.
//
//	params, err := ddb.ScanFilter(expression.Name("status").Equal(expression.Value("active")))
func ScanFilter(cond expression.ConditionBuilder) (*storagemodels.ScanParams, error) {
	expr, err := expression.NewBuilder().WithFilter(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build scan filter: %w", err)
	}
	return &storagemodels.ScanParams{
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}, nil
}
