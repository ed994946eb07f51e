/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/suparena/entitydao/config"
	daoerrors "github.com/suparena/entitydao/errors"
)

const (
	defaultWaitTimeout  = 10 * time.Minute
	defaultPollInterval = 5 * time.Second
)

type options struct {
	logger        zerolog.Logger
	idGenerator   func() any
	waitTimeout   time.Duration
	pollInterval  time.Duration
	strictIndexes bool
	billingMode   types.BillingMode
	throughput    types.ProvisionedThroughput
}

func defaultOptions() options {
	return options{
		logger:       log.Logger,
		idGenerator:  func() any { return uuid.NewString() },
		waitTimeout:  defaultWaitTimeout,
		pollInterval: defaultPollInterval,
		billingMode:  types.BillingModeProvisioned,
		throughput: types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(1),
			WriteCapacityUnits: aws.Int64(1),
		},
	}
}

func (o options) validate() error {
	if o.waitTimeout <= 0 {
		return daoerrors.NewValidationError("waitTimeout", "must be positive")
	}
	if o.pollInterval <= 0 {
		return daoerrors.NewValidationError("pollInterval", "must be positive")
	}
	if o.idGenerator == nil {
		return daoerrors.NewValidationError("idGenerator", "must not be nil")
	}
	switch o.billingMode {
	case types.BillingModeProvisioned, types.BillingModePayPerRequest:
	default:
		return daoerrors.NewValidationError("billingMode", "unknown billing mode "+string(o.billingMode))
	}
	return nil
}

// Option configures a DynamodbDAO.
type Option func(*options)

// WithLogger sets the logger. The global zerolog logger is used otherwise.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithIDGenerator replaces the random UUID identity policy.
func WithIDGenerator(gen func() any) Option {
	return func(o *options) {
		o.idGenerator = gen
	}
}

// WithWaitTimeout bounds each wait for a table or index state change.
func WithWaitTimeout(d time.Duration) Option {
	return func(o *options) {
		o.waitTimeout = d
	}
}

// WithPollInterval sets how often table and index status is checked.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		o.pollInterval = d
	}
}

// WithStrictIndexes makes EnsureIndexes fail when a live index has the
// declared name but a different key schema.
func WithStrictIndexes() Option {
	return func(o *options) {
		o.strictIndexes = true
	}
}

// WithBillingMode selects provisioned or on-demand capacity for new tables
// and indexes.
func WithBillingMode(mode types.BillingMode) Option {
	return func(o *options) {
		o.billingMode = mode
	}
}

// WithThroughput sets the provisioned capacity of new tables and of
// indexes that declare none.
func WithThroughput(read, write int64) Option {
	return func(o *options) {
		o.throughput = types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(read),
			WriteCapacityUnits: aws.Int64(write),
		}
	}
}

// OptionsFromConfig translates the table section of the configuration.
func OptionsFromConfig(cfg *config.Config) []Option {
	opts := []Option{
		WithWaitTimeout(cfg.Tables.WaitTimeout),
		WithPollInterval(cfg.Tables.PollInterval),
		WithBillingMode(types.BillingMode(cfg.Tables.BillingMode)),
		WithThroughput(cfg.Tables.ReadCapacity, cfg.Tables.WriteCapacity),
	}
	if cfg.Tables.StrictIndexes {
		opts = append(opts, WithStrictIndexes())
	}
	return opts
}

func (o options) provisioned() bool {
	return o.billingMode != types.BillingModePayPerRequest
}
