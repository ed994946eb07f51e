/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// IterateOptions configures a lazy full-table pass
type IterateOptions struct {
	PageSize        int32                 // Items per DynamoDB page (default: 100)
	ProgressHandler func(IterateProgress) // Called after each page
}

// IterateProgress tracks a pass
type IterateProgress struct {
	ItemsProcessed int64                           // Total items yielded so far
	PagesProcessed int                             // Total pages read
	LastKey        map[string]types.AttributeValue // Last evaluated key
	StartTime      time.Time                       // When the pass started
}

// IterateOption is a functional option for configuring iteration
type IterateOption func(*IterateOptions)

// DefaultIterateOptions returns default iteration options
func DefaultIterateOptions() IterateOptions {
	return IterateOptions{
		PageSize: 100,
	}
}

// WithPageSize sets the DynamoDB page size
func WithPageSize(size int32) IterateOption {
	return func(opts *IterateOptions) {
		opts.PageSize = size
	}
}

// WithProgressHandler sets a progress callback
func WithProgressHandler(handler func(IterateProgress)) IterateOption {
	return func(opts *IterateOptions) {
		opts.ProgressHandler = handler
	}
}
