/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"time"

	"github.com/suparena/entitydao/registry"
	"github.com/suparena/entitydao/storagemodels"
)

// TimeRangeQueryBuilder provides time-window queries on an index whose sort
// key is a timestamp attribute. Bounds are written as epoch milliseconds,
// the same form timestamps are stored in.
type TimeRangeQueryBuilder[M any] struct {
	*IndexQueryBuilder[M]
	timeField string
	now       func() time.Time
}

// QueryByTimeRange starts a time query on indexName for the partition
// hashAttr = hashValue. The sort attribute defaults to the entity's
// created-at field, or "createdAt".
func (d *DynamodbDAO[M]) QueryByTimeRange(indexName, hashAttr string, hashValue any) *TimeRangeQueryBuilder[M] {
	field, ok := d.fields.Name(registry.RoleCreatedAt)
	if !ok {
		field = "createdAt"
	}
	return &TimeRangeQueryBuilder[M]{
		IndexQueryBuilder: d.QueryIndex(indexName).Where(hashAttr, hashValue),
		timeField:         field,
		now:               time.Now,
	}
}

// WithTimeField specifies the timestamp sort attribute
func (q *TimeRangeQueryBuilder[M]) WithTimeField(field string) *TimeRangeQueryBuilder[M] {
	q.timeField = field
	return q
}

// InLastHours queries items stamped in the last n hours
func (q *TimeRangeQueryBuilder[M]) InLastHours(n int) *TimeRangeQueryBuilder[M] {
	return q.After(q.now().Add(-time.Duration(n) * time.Hour))
}

// InLastDays queries items stamped in the last n days
func (q *TimeRangeQueryBuilder[M]) InLastDays(n int) *TimeRangeQueryBuilder[M] {
	return q.After(q.now().AddDate(0, 0, -n))
}

// Between queries items stamped between start and end, inclusive
func (q *TimeRangeQueryBuilder[M]) Between(start, end time.Time) *TimeRangeQueryBuilder[M] {
	q.SortBetween(q.timeField, start, end)
	return q
}

// After queries items stamped after t
func (q *TimeRangeQueryBuilder[M]) After(t time.Time) *TimeRangeQueryBuilder[M] {
	q.SortGreaterThan(q.timeField, t)
	return q
}

// Before queries items stamped before t
func (q *TimeRangeQueryBuilder[M]) Before(t time.Time) *TimeRangeQueryBuilder[M] {
	q.SortLessThan(q.timeField, t)
	return q
}

// Today queries items stamped since local midnight
func (q *TimeRangeQueryBuilder[M]) Today() *TimeRangeQueryBuilder[M] {
	now := q.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return q.Between(start, start.Add(24*time.Hour))
}

// Latest returns results newest first
func (q *TimeRangeQueryBuilder[M]) Latest() *TimeRangeQueryBuilder[M] {
	q.Descending()
	return q
}

// Oldest returns results oldest first
func (q *TimeRangeQueryBuilder[M]) Oldest() *TimeRangeQueryBuilder[M] {
	q.Ascending()
	return q
}

// Limit sets the query limit
func (q *TimeRangeQueryBuilder[M]) Limit(n int32) *TimeRangeQueryBuilder[M] {
	q.IndexQueryBuilder.Limit(n)
	return q
}

// QueryLatestItems returns the n most recent items of a partition
func (d *DynamodbDAO[M]) QueryLatestItems(ctx context.Context, indexName, hashAttr string, hashValue any, n int32) (storagemodels.Results[M], error) {
	return d.QueryByTimeRange(indexName, hashAttr, hashValue).
		Latest().
		Limit(n).
		Execute(ctx)
}

// QueryItemsSince returns every item of a partition stamped after since, oldest first
func (d *DynamodbDAO[M]) QueryItemsSince(ctx context.Context, indexName, hashAttr string, hashValue any, since time.Time) (storagemodels.Results[M], error) {
	return d.QueryByTimeRange(indexName, hashAttr, hashValue).
		After(since).
		Oldest().
		Execute(ctx)
}
