/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	daoerrors "github.com/suparena/entitydao/errors"
	"github.com/suparena/entitydao/mapper"
	"github.com/suparena/entitydao/registry"
	"github.com/suparena/entitydao/storagemodels"
	"github.com/suparena/entitydao/storagevalue"
)

// UpdateVerb is the action of an update clause.
type UpdateVerb string

const (
	VerbSet    UpdateVerb = "SET"
	VerbRemove UpdateVerb = "REMOVE"
)

// UpdateClause is one action on one attribute. Value is empty for REMOVE.
type UpdateClause struct {
	Verb  UpdateVerb
	Name  string
	Value string
}

// UpdateStatement is a compiled partial update.
type UpdateStatement struct {
	Key        map[string]types.AttributeValue
	Clauses    []UpdateClause
	Expression string
	Names      map[string]string
	Values     map[string]types.AttributeValue
}

// IsNoop reports whether the statement changes nothing.
func (s *UpdateStatement) IsNoop() bool {
	return len(s.Clauses) == 0
}

// clauseBuilder allocates placeholders and collects clauses.
type clauseBuilder struct {
	names   map[string]string
	values  map[string]types.AttributeValue
	clauses []UpdateClause
}

func newClauseBuilder() *clauseBuilder {
	return &clauseBuilder{
		names:  make(map[string]string),
		values: make(map[string]types.AttributeValue),
	}
}

func (b *clauseBuilder) set(attr string, av types.AttributeValue) {
	name := fmt.Sprintf("#f%d", len(b.names))
	b.names[name] = attr
	value := fmt.Sprintf(":v%d", len(b.values))
	b.values[value] = av
	b.clauses = append(b.clauses, UpdateClause{Verb: VerbSet, Name: name, Value: value})
}

func (b *clauseBuilder) remove(attr string) {
	name := fmt.Sprintf("#f%d", len(b.names))
	b.names[name] = attr
	b.clauses = append(b.clauses, UpdateClause{Verb: VerbRemove, Name: name})
}

// render joins clauses as "SET #f0 = :v0, #f1 = :v1 REMOVE #f2".
func (b *clauseBuilder) render() string {
	var sets, removes []string
	for _, c := range b.clauses {
		switch c.Verb {
		case VerbSet:
			sets = append(sets, c.Name+" = "+c.Value)
		case VerbRemove:
			removes = append(removes, c.Name)
		}
	}

	parts := make([]string, 0, 2)
	if len(sets) > 0 {
		parts = append(parts, string(VerbSet)+" "+strings.Join(sets, ", "))
	}
	if len(removes) > 0 {
		parts = append(parts, string(VerbRemove)+" "+strings.Join(removes, ", "))
	}
	return strings.Join(parts, " ")
}

// CompileUpdate turns update into a statement on the item with id. The
// declared updated-by and updated-at attributes are set from updaterID and
// updatedAt when those are not null. Values are encoded like the mapper
// encodes model fields and a null value is removed instead of set.
// Attributes are emitted in name order.
func (d *DynamodbDAO[M]) CompileUpdate(id any, update *storagemodels.Update, updatedAt time.Time, updaterID any) (*UpdateStatement, error) {
	key, err := d.PrimaryKey(id)
	if err != nil {
		return nil, err
	}
	if err := update.Validate(d.fields.ID()); err != nil {
		return nil, err
	}

	set := update.SetFields()
	removes := update.RemoveFields()
	for _, audit := range []struct {
		role  registry.FieldRole
		value any
	}{
		{registry.RoleUpdatedBy, updaterID},
		{registry.RoleUpdatedAt, updatedAt},
	} {
		name, ok := d.fields.Name(audit.role)
		if !ok || storagevalue.Classify(audit.value) == storagevalue.KindNull {
			continue
		}
		if slices.Contains(removes, name) {
			return nil, daoerrors.NewValidationError(name, "audit attribute cannot be removed")
		}
		set[name] = audit.value
	}

	attrs := make([]string, 0, len(set))
	for name := range set {
		attrs = append(attrs, name)
	}
	sort.Strings(attrs)

	b := newClauseBuilder()
	for _, name := range attrs {
		// Setting null removes the attribute, as a create would omit it.
		if storagevalue.Classify(set[name]) == storagevalue.KindNull {
			removes = append(removes, name)
			continue
		}
		av, err := mapper.EncodeValue(d.mapper, set[name])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal value for %q: %w", name, err)
		}
		b.set(name, av)
	}
	sort.Strings(removes)
	for _, name := range removes {
		b.remove(name)
	}

	stmt := &UpdateStatement{
		Key:        key,
		Clauses:    b.clauses,
		Expression: b.render(),
	}
	// DynamoDB rejects empty placeholder maps.
	if len(b.names) > 0 {
		stmt.Names = b.names
	}
	if len(b.values) > 0 {
		stmt.Values = b.values
	}
	return stmt, nil
}

func (s *UpdateStatement) input(table string, rv types.ReturnValue) *sdk.UpdateItemInput {
	return &sdk.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       s.Key,
		UpdateExpression:          aws.String(s.Expression),
		ExpressionAttributeNames:  s.Names,
		ExpressionAttributeValues: s.Values,
		ReturnValues:              rv,
	}
}

// Update applies a partial update to the item with id. An update with
// nothing to change makes no request.
func (d *DynamodbDAO[M]) Update(ctx context.Context, id any, update *storagemodels.Update, updatedAt time.Time, updaterID any) error {
	stmt, err := d.CompileUpdate(id, update, updatedAt, updaterID)
	if err != nil {
		return err
	}
	if stmt.IsNoop() {
		return nil
	}
	_, err = d.client.UpdateItem(ctx, stmt.input(d.tableName, types.ReturnValueNone))
	return err
}

// UpdateAndReturn applies a partial update and returns the item as it was
// before the update. A missing item maps to a zero-valued model.
func (d *DynamodbDAO[M]) UpdateAndReturn(ctx context.Context, id any, update *storagemodels.Update, updatedAt time.Time, updaterID any) (*M, error) {
	stmt, err := d.CompileUpdate(id, update, updatedAt, updaterID)
	if err != nil {
		return nil, err
	}

	var prior map[string]types.AttributeValue
	if stmt.IsNoop() {
		out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
			TableName: aws.String(d.tableName),
			Key:       stmt.Key,
		})
		if err != nil {
			return nil, err
		}
		prior = out.Item
	} else {
		out, err := d.client.UpdateItem(ctx, stmt.input(d.tableName, types.ReturnValueAllOld))
		if err != nil {
			return nil, err
		}
		prior = out.Attributes
	}

	if prior == nil {
		prior = map[string]types.AttributeValue{}
	}
	return d.mapper.ToModel(prior)
}
