/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"

	daoerrors "github.com/suparena/entitydao/errors"
	"github.com/suparena/entitydao/storagemodels"
)

// maxWaiterDelay caps the backoff of the SDK table waiters.
const maxWaiterDelay = 2 * time.Minute

// tableLocks serializes index reconciliation per table name within the
// process. Separate processes are not coordinated.
var tableLocks sync.Map

func lockTable(name string) func() {
	v, _ := tableLocks.LoadOrStore(name, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// InitTable creates the table with its declared secondary indexes when it
// does not exist, waits until it is active and then creates indexes the
// live table still lacks. A wait that times out or is cancelled is logged
// and initialization carries on.
func (d *DynamodbDAO[M]) InitTable(ctx context.Context) error {
	if err := d.createTable(ctx); err != nil {
		return err
	}
	d.waitForTable(ctx)
	return d.EnsureIndexes(ctx)
}

func (d *DynamodbDAO[M]) createTable(ctx context.Context) error {
	input := &sdk.CreateTableInput{
		TableName:            aws.String(d.tableName),
		KeySchema:            d.schema.KeySchema,
		AttributeDefinitions: d.keyAttributes(d.schema.KeySchema),
		BillingMode:          d.opts.billingMode,
	}
	if d.opts.provisioned() {
		tp := d.opts.throughput
		input.ProvisionedThroughput = &tp
	}
	for _, idx := range d.schema.Indexes {
		gsi, defs, err := d.globalIndex(idx)
		if err != nil {
			return err
		}
		input.GlobalSecondaryIndexes = append(input.GlobalSecondaryIndexes, gsi)
		input.AttributeDefinitions = mergeAttributes(input.AttributeDefinitions, defs)
	}

	_, err := d.client.CreateTable(ctx, input)
	var inUse *types.ResourceInUseException
	switch {
	case err == nil:
		d.log.Info().Int("indexes", len(input.GlobalSecondaryIndexes)).Msg("table created")
		return nil
	case errors.As(err, &inUse):
		d.log.Debug().Msg("table already exists")
		return nil
	default:
		logAPIError(d.log.Error(), err).Msg("create table failed")
		return fmt.Errorf("failed to create table %s: %w", d.tableName, err)
	}
}

// keyAttributes returns the attribute definitions the key schema uses.
// DynamoDB rejects definitions that no key references.
func (d *DynamodbDAO[M]) keyAttributes(keys []types.KeySchemaElement) []types.AttributeDefinition {
	defs := make([]types.AttributeDefinition, 0, len(keys))
	for _, k := range keys {
		if def, ok := d.schema.AttributeDefinition(aws.ToString(k.AttributeName)); ok {
			defs = append(defs, def)
		}
	}
	return defs
}

// globalIndex builds the index description sent to DynamoDB together with
// the definitions of its hash and range key attributes. Indexes without a
// projection project all attributes.
func (d *DynamodbDAO[M]) globalIndex(idx storagemodels.IndexDefinition) (types.GlobalSecondaryIndex, []types.AttributeDefinition, error) {
	var defs []types.AttributeDefinition
	for _, key := range []func() (string, bool){idx.HashKey, idx.RangeKey} {
		name, ok := key()
		if !ok {
			continue
		}
		def, ok := d.schema.AttributeDefinition(name)
		if !ok {
			return types.GlobalSecondaryIndex{}, nil,
				daoerrors.NewValidationError(name, "index key attribute of "+idx.Name+" has no attribute definition")
		}
		defs = append(defs, def)
	}

	gsi := types.GlobalSecondaryIndex{
		IndexName:  aws.String(idx.Name),
		KeySchema:  idx.KeySchema,
		Projection: idx.Projection,
	}
	if gsi.Projection == nil {
		gsi.Projection = &types.Projection{ProjectionType: types.ProjectionTypeAll}
	}
	if d.opts.provisioned() {
		tp := d.opts.throughput
		if idx.Throughput != nil {
			tp = *idx.Throughput
		}
		gsi.ProvisionedThroughput = &tp
	}
	return gsi, defs, nil
}

// mergeAttributes appends the definitions not yet present by name.
func mergeAttributes(defs, more []types.AttributeDefinition) []types.AttributeDefinition {
	for _, def := range more {
		if !slices.ContainsFunc(defs, func(d types.AttributeDefinition) bool {
			return aws.ToString(d.AttributeName) == aws.ToString(def.AttributeName)
		}) {
			defs = append(defs, def)
		}
	}
	return defs
}

func (d *DynamodbDAO[M]) waitForTable(ctx context.Context) {
	w := sdk.NewTableExistsWaiter(d.client, d.waiterDelays)
	err := w.Wait(ctx, &sdk.DescribeTableInput{TableName: aws.String(d.tableName)}, d.opts.waitTimeout)
	if err != nil {
		d.log.Warn().Err(err).Msg("wait for active table interrupted, proceeding")
	}
}

func (d *DynamodbDAO[M]) waiterDelays(o *sdk.TableExistsWaiterOptions) {
	o.MinDelay = d.opts.pollInterval
	o.MaxDelay = max(d.opts.pollInterval, maxWaiterDelay)
}

// DropTable deletes the table and waits until it is gone. A missing table
// is not an error.
func (d *DynamodbDAO[M]) DropTable(ctx context.Context) error {
	_, err := d.client.DeleteTable(ctx, &sdk.DeleteTableInput{TableName: aws.String(d.tableName)})
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		d.log.Debug().Msg("table does not exist")
		return nil
	}
	if err != nil {
		logAPIError(d.log.Error(), err).Msg("delete table failed")
		return fmt.Errorf("failed to delete table %s: %w", d.tableName, err)
	}

	w := sdk.NewTableNotExistsWaiter(d.client, func(o *sdk.TableNotExistsWaiterOptions) {
		o.MinDelay = d.opts.pollInterval
		o.MaxDelay = max(d.opts.pollInterval, maxWaiterDelay)
	})
	if err := w.Wait(ctx, &sdk.DescribeTableInput{TableName: aws.String(d.tableName)}, d.opts.waitTimeout); err != nil {
		d.log.Warn().Err(err).Msg("wait for table deletion interrupted, proceeding")
		return nil
	}
	d.log.Info().Msg("table deleted")
	return nil
}

// CopyTable puts every item of sourceTable, read through source, into this
// table. Items are written one at a time and overwrite existing ones.
func (d *DynamodbDAO[M]) CopyTable(ctx context.Context, source sdk.ScanAPIClient, sourceTable string) error {
	p := scanPager{sdk.NewScanPaginator(source, &sdk.ScanInput{TableName: aws.String(sourceTable)})}

	var copied int
	err := eachItem(ctx, p, func(it rawItem) (bool, error) {
		if _, err := d.client.PutItem(ctx, &sdk.PutItemInput{
			TableName: aws.String(d.tableName),
			Item:      it,
		}); err != nil {
			return false, err
		}
		copied++
		return true, nil
	})
	d.log.Info().Str("source", sourceTable).Int("items", copied).Msg("table copied")
	return err
}

// EnsureIndexes creates every declared secondary index that the live
// table lacks and waits for each to become active. Indexes are matched by
// name; existing ones are never changed or removed. With WithStrictIndexes
// a same-named index with another key schema fails the call before any
// index is created.
func (d *DynamodbDAO[M]) EnsureIndexes(ctx context.Context) error {
	if len(d.schema.Indexes) == 0 {
		return nil
	}

	unlock := lockTable(d.tableName)
	defer unlock()

	out, err := d.client.DescribeTable(ctx, &sdk.DescribeTableInput{TableName: aws.String(d.tableName)})
	if err != nil {
		return fmt.Errorf("failed to describe table %s: %w", d.tableName, err)
	}

	live := make(map[string]types.GlobalSecondaryIndexDescription)
	if out.Table != nil {
		for _, gsi := range out.Table.GlobalSecondaryIndexes {
			live[aws.ToString(gsi.IndexName)] = gsi
		}
	}

	var missing []storagemodels.IndexDefinition
	for _, idx := range d.schema.Indexes {
		existing, ok := live[idx.Name]
		if !ok {
			missing = append(missing, idx)
			continue
		}
		if d.opts.strictIndexes && !sameKeySchema(idx.KeySchema, existing.KeySchema) {
			return daoerrors.NewIndexMismatchError(d.tableName, idx.Name,
				storagemodels.DescribeKeySchema(idx.KeySchema),
				storagemodels.DescribeKeySchema(existing.KeySchema))
		}
	}

	for _, idx := range missing {
		if err := d.createIndex(ctx, idx); err != nil {
			return err
		}
		d.waitForIndex(ctx, idx.Name)
	}
	return nil
}

func (d *DynamodbDAO[M]) createIndex(ctx context.Context, idx storagemodels.IndexDefinition) error {
	gsi, defs, err := d.globalIndex(idx)
	if err != nil {
		return err
	}
	action := &types.CreateGlobalSecondaryIndexAction{
		IndexName:             gsi.IndexName,
		KeySchema:             gsi.KeySchema,
		Projection:            gsi.Projection,
		ProvisionedThroughput: gsi.ProvisionedThroughput,
	}

	_, err = d.client.UpdateTable(ctx, &sdk.UpdateTableInput{
		TableName:            aws.String(d.tableName),
		AttributeDefinitions: defs,
		GlobalSecondaryIndexUpdates: []types.GlobalSecondaryIndexUpdate{
			{Create: action},
		},
	})
	if err != nil {
		logAPIError(d.log.Error(), err).Str("index", idx.Name).Msg("create index failed")
		return fmt.Errorf("failed to create index %s on %s: %w", idx.Name, d.tableName, err)
	}
	d.log.Info().Str("index", idx.Name).Msg("index creation started")
	return nil
}

// waitForIndex polls until the index is ACTIVE. There is no SDK waiter
// for index status.
func (d *DynamodbDAO[M]) waitForIndex(ctx context.Context, name string) {
	ctx, cancel := context.WithTimeout(ctx, d.opts.waitTimeout)
	defer cancel()

	ticker := time.NewTicker(d.opts.pollInterval)
	defer ticker.Stop()

	for {
		status, err := d.indexStatus(ctx, name)
		if err != nil {
			d.log.Warn().Err(err).Str("index", name).Msg("wait for active index interrupted, proceeding")
			return
		}
		if status == types.IndexStatusActive {
			d.log.Info().Str("index", name).Msg("index active")
			return
		}

		select {
		case <-ctx.Done():
			d.log.Warn().Err(ctx.Err()).Str("index", name).Str("status", string(status)).
				Msg("wait for active index interrupted, proceeding")
			return
		case <-ticker.C:
		}
	}
}

func (d *DynamodbDAO[M]) indexStatus(ctx context.Context, name string) (types.IndexStatus, error) {
	out, err := d.client.DescribeTable(ctx, &sdk.DescribeTableInput{TableName: aws.String(d.tableName)})
	if err != nil {
		return "", err
	}
	if out.Table != nil {
		for _, gsi := range out.Table.GlobalSecondaryIndexes {
			if aws.ToString(gsi.IndexName) == name {
				return gsi.IndexStatus, nil
			}
		}
	}
	return "", fmt.Errorf("index %s not found on %s", name, d.tableName)
}

func sameKeySchema(a, b []types.KeySchemaElement) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if aws.ToString(a[i].AttributeName) != aws.ToString(b[i].AttributeName) || a[i].KeyType != b[i].KeyType {
			return false
		}
	}
	return true
}

// logAPIError adds the service error code when err carries one.
func logAPIError(ev *zerolog.Event, err error) *zerolog.Event {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		ev = ev.Str("code", apiErr.ErrorCode())
	}
	return ev.Err(err)
}
