/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"iter"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/entitydao/storagemodels"
)

type rawItem = map[string]types.AttributeValue

// pager is the common shape of the SDK scan and query paginators.
type pager interface {
	HasMorePages() bool
	next(ctx context.Context) (items []rawItem, lastKey rawItem, err error)
}

type scanPager struct{ p *sdk.ScanPaginator }

func (s scanPager) HasMorePages() bool { return s.p.HasMorePages() }

func (s scanPager) next(ctx context.Context) ([]rawItem, rawItem, error) {
	out, err := s.p.NextPage(ctx)
	if err != nil {
		return nil, nil, err
	}
	return out.Items, out.LastEvaluatedKey, nil
}

type queryPager struct{ p *sdk.QueryPaginator }

func (q queryPager) HasMorePages() bool { return q.p.HasMorePages() }

func (q queryPager) next(ctx context.Context) ([]rawItem, rawItem, error) {
	out, err := q.p.NextPage(ctx)
	if err != nil {
		return nil, nil, err
	}
	return out.Items, out.LastEvaluatedKey, nil
}

// eachItem walks every item of every page until fn returns false.
func eachItem(ctx context.Context, p pager, fn func(rawItem) (bool, error)) error {
	for p.HasMorePages() {
		items, _, err := p.next(ctx)
		if err != nil {
			return err
		}
		for _, it := range items {
			more, err := fn(it)
			if err != nil || !more {
				return err
			}
		}
	}
	return nil
}

// collect maps every item the pager yields.
func (d *DynamodbDAO[M]) collect(ctx context.Context, p pager) ([]M, error) {
	models := make([]M, 0)
	err := eachItem(ctx, p, func(it rawItem) (bool, error) {
		m, err := d.mapper.ToModel(it)
		if err != nil {
			return false, err
		}
		models = append(models, *m)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return models, nil
}

// IterateAll returns a lazy pass over the whole table. Pages are read as
// the sequence is consumed; each call starts a new scan. A read or mapping
// error is yielded once and ends the pass.
//
//	for user, err := range dao.IterateAll(ctx) {
//	    if err != nil {
//	        return err
//	    }
//	    ...
//	}
func (d *DynamodbDAO[M]) IterateAll(ctx context.Context, opts ...storagemodels.IterateOption) iter.Seq2[M, error] {
	o := applyIterateOptions(opts)
	return func(yield func(M, error) bool) {
		input := &sdk.ScanInput{TableName: aws.String(d.tableName)}
		if o.PageSize > 0 {
			input.Limit = aws.Int32(o.PageSize)
		}
		d.iterate(ctx, scanPager{sdk.NewScanPaginator(d.client, input)}, o, yield)
	}
}

// IterateIndex is the lazy counterpart of FindByIndex. params.Limit is
// ignored in favour of the page size.
func (d *DynamodbDAO[M]) IterateIndex(ctx context.Context, indexName string, params *storagemodels.QueryParams, opts ...storagemodels.IterateOption) iter.Seq2[M, error] {
	o := applyIterateOptions(opts)
	return func(yield func(M, error) bool) {
		input, err := d.queryInput(indexName, params)
		if err != nil {
			var zero M
			yield(zero, err)
			return
		}
		input.Limit = nil
		if o.PageSize > 0 {
			input.Limit = aws.Int32(o.PageSize)
		}
		d.iterate(ctx, queryPager{sdk.NewQueryPaginator(d.client, input)}, o, yield)
	}
}

func (d *DynamodbDAO[M]) iterate(ctx context.Context, p pager, o storagemodels.IterateOptions, yield func(M, error) bool) {
	var zero M
	progress := storagemodels.IterateProgress{StartTime: time.Now()}

	for p.HasMorePages() {
		items, lastKey, err := p.next(ctx)
		if err != nil {
			yield(zero, err)
			return
		}
		progress.PagesProcessed++
		progress.LastKey = lastKey

		for _, it := range items {
			m, err := d.mapper.ToModel(it)
			if err != nil {
				yield(zero, err)
				return
			}
			progress.ItemsProcessed++
			if !yield(*m, nil) {
				return
			}
		}

		if o.ProgressHandler != nil {
			o.ProgressHandler(progress)
		}
	}
}

func applyIterateOptions(opts []storagemodels.IterateOption) storagemodels.IterateOptions {
	o := storagemodels.DefaultIterateOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
