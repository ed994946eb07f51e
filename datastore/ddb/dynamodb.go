/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"github.com/suparena/entitydao/config"
	"github.com/suparena/entitydao/datastore"
	daoerrors "github.com/suparena/entitydao/errors"
	"github.com/suparena/entitydao/mapper"
	"github.com/suparena/entitydao/registry"
	"github.com/suparena/entitydao/storagemodels"
	"github.com/suparena/entitydao/storagevalue"
)

// Client is the part of the DynamoDB API the DAO uses. *dynamodb.Client
// satisfies it.
type Client interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *sdk.UpdateItemInput, optFns ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
	Scan(ctx context.Context, params *sdk.ScanInput, optFns ...func(*sdk.Options)) (*sdk.ScanOutput, error)
	CreateTable(ctx context.Context, params *sdk.CreateTableInput, optFns ...func(*sdk.Options)) (*sdk.CreateTableOutput, error)
	DeleteTable(ctx context.Context, params *sdk.DeleteTableInput, optFns ...func(*sdk.Options)) (*sdk.DeleteTableOutput, error)
	DescribeTable(ctx context.Context, params *sdk.DescribeTableInput, optFns ...func(*sdk.Options)) (*sdk.DescribeTableOutput, error)
	UpdateTable(ctx context.Context, params *sdk.UpdateTableInput, optFns ...func(*sdk.Options)) (*sdk.UpdateTableOutput, error)
}

var _ datastore.DAO[struct{}] = (*DynamodbDAO[struct{}])(nil)

// Config describes the entity a DAO serves.
type Config[M any] struct {
	TableName string
	// Schema is the key schema, attribute types and desired indexes. When
	// KeySchema is empty the identity field becomes a string hash key.
	Schema storagemodels.TableSchema
	// Fields overrides the descriptor registered with registry.RegisterFields.
	Fields *registry.FieldDescriptor
	// Mapper defaults to mapper.New[M]().
	Mapper mapper.Mapper[M]
	// EntityName is used in NotFound errors; defaults to the Go type name.
	EntityName string
}

// DynamodbDAO implements datastore.DAO[M] on a single DynamoDB table.
// It is safe for concurrent use.
type DynamodbDAO[M any] struct {
	client     Client
	tableName  string
	schema     storagemodels.TableSchema
	fields     *registry.Fields
	mapper     mapper.Mapper[M]
	entityName string
	opts       options
	log        zerolog.Logger
}

// NewDynamoDBClient initializes a DynamoDB client from configuration.
// Static credentials are used when both keys are set, otherwise the default
// AWS credential chain applies. A non-empty endpoint targets DynamoDB Local.
func NewDynamoDBClient(ctx context.Context, cfg *config.Config) (*sdk.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWS.Region),
	}
	if cfg.AWS.AccessKeyID != "" && cfg.AWS.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWS.AccessKeyID, cfg.AWS.SecretAccessKey, cfg.AWS.SessionToken),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(awsCfg, func(o *sdk.Options) {
		if cfg.AWS.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
		}
	}), nil
}

// New constructs a DAO for model M.
func New[M any](client Client, cfg Config[M], opts ...Option) (*DynamodbDAO[M], error) {
	if client == nil {
		return nil, daoerrors.NewValidationError("client", "client is required")
	}
	if cfg.TableName == "" {
		return nil, daoerrors.NewValidationError("tableName", "table name is required")
	}

	desc := cfg.Fields
	if desc == nil {
		registered, ok := registry.GetFields[M]()
		if !ok {
			return nil, daoerrors.NewValidationError("fields",
				fmt.Sprintf("no field descriptor for %s", reflect.TypeFor[M]()))
		}
		desc = &registered
	}
	fields, err := registry.Resolve(*desc)
	if err != nil {
		return nil, err
	}

	schema := withDefaultKey(cfg.Schema, fields.ID())
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if id := fields.ID(); id != "" {
		if hash, _ := schema.HashKey(); hash != id {
			return nil, daoerrors.NewValidationError(id,
				fmt.Sprintf("identity field must be the table hash key, got %q", hash))
		}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	m := cfg.Mapper
	if m == nil {
		m = mapper.New[M]()
	}
	name := cfg.EntityName
	if name == "" {
		name = reflect.TypeFor[M]().Name()
	}

	return &DynamodbDAO[M]{
		client:     client,
		tableName:  cfg.TableName,
		schema:     schema,
		fields:     fields,
		mapper:     m,
		entityName: name,
		opts:       o,
		log:        o.logger.With().Str("table", cfg.TableName).Logger(),
	}, nil
}

// withDefaultKey fills in a string hash key on the identity field when the
// schema declares no key.
func withDefaultKey(s storagemodels.TableSchema, id string) storagemodels.TableSchema {
	if len(s.KeySchema) > 0 || id == "" {
		return s
	}
	s.KeySchema = []types.KeySchemaElement{
		{AttributeName: aws.String(id), KeyType: types.KeyTypeHash},
	}
	if _, ok := s.AttributeDefinition(id); !ok {
		s.AttributeDefinitions = append([]types.AttributeDefinition{
			{AttributeName: aws.String(id), AttributeType: types.ScalarAttributeTypeS},
		}, s.AttributeDefinitions...)
	}
	return s
}

// TableName returns the table the DAO is bound to.
func (d *DynamodbDAO[M]) TableName() string {
	return d.tableName
}

// Schema returns the resolved table schema.
func (d *DynamodbDAO[M]) Schema() storagemodels.TableSchema {
	return d.schema
}

// PrimaryKey pairs the identity attribute with the normalized id.
func (d *DynamodbDAO[M]) PrimaryKey(id any) (map[string]types.AttributeValue, error) {
	name := d.fields.ID()
	if name == "" {
		return nil, daoerrors.NewValidationError("id", d.entityName+" declares no identity field")
	}
	if storagevalue.Classify(id) == storagevalue.KindNull {
		return nil, daoerrors.NewValidationError(name, "id is required")
	}
	av, err := storagevalue.Marshal(id)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal id: %w", err)
	}
	return map[string]types.AttributeValue{name: av}, nil
}

// Load retrieves a single item by id.
// It returns nil, nil if no item is found.
func (d *DynamodbDAO[M]) Load(ctx context.Context, id any) (*M, error) {
	key, err := d.PrimaryKey(id)
	if err != nil {
		return nil, err
	}

	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: aws.String(d.tableName),
		Key:       key,
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	return d.mapper.ToModel(out.Item)
}

// Create writes model as a new item. A missing identity is generated and
// declared created-at/created-by attributes are filled from the arguments
// unless the model already carries them. The write fails with
// *types.ConditionalCheckFailedException if the identity exists. An entity
// without an identity role is written with a plain put.
func (d *DynamodbDAO[M]) Create(ctx context.Context, model M, createdAt time.Time, creatorID any) (*M, error) {
	item, err := d.mapper.ToItem(model)
	if err != nil {
		return nil, err
	}

	idName := d.fields.ID()
	if idName != "" && undefined(item[idName]) {
		if item[idName], err = storagevalue.Marshal(d.opts.idGenerator()); err != nil {
			return nil, fmt.Errorf("failed to marshal generated id: %w", err)
		}
	}
	if err := d.fillAudit(item, registry.RoleCreatedBy, creatorID); err != nil {
		return nil, err
	}
	if err := d.fillAudit(item, registry.RoleCreatedAt, createdAt); err != nil {
		return nil, err
	}

	input := &sdk.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      item,
	}
	if idName != "" {
		expr, err := expression.NewBuilder().
			WithCondition(expression.AttributeNotExists(expression.Name(idName))).
			Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build create condition: %w", err)
		}
		input.ConditionExpression = expr.Condition()
		input.ExpressionAttributeNames = expr.Names()
	}

	if _, err := d.client.PutItem(ctx, input); err != nil {
		return nil, err
	}
	return d.mapper.ToModel(item)
}

// fillAudit sets a declared role attribute from value when the item lacks
// it and value is not null.
func (d *DynamodbDAO[M]) fillAudit(item map[string]types.AttributeValue, role registry.FieldRole, value any) error {
	name, ok := d.fields.Name(role)
	if !ok || !undefined(item[name]) || storagevalue.Classify(value) == storagevalue.KindNull {
		return nil
	}
	av, err := mapper.EncodeValue(d.mapper, value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", role, err)
	}
	item[name] = av
	return nil
}

// Delete removes the item with id. Missing items are not an error.
func (d *DynamodbDAO[M]) Delete(ctx context.Context, id any) error {
	key, err := d.PrimaryKey(id)
	if err != nil {
		return err
	}
	_, err = d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: aws.String(d.tableName),
		Key:       key,
	})
	return err
}

func undefined(av types.AttributeValue) bool {
	switch v := av.(type) {
	case nil:
		return true
	case *types.AttributeValueMemberNULL:
		return true
	case *types.AttributeValueMemberS:
		return v.Value == ""
	default:
		return false
	}
}
