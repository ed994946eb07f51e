/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapper

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/entitydao/storagevalue"
)

// Mapper converts a model to and from a DynamoDB item.
type Mapper[M any] interface {
	ToItem(model M) (map[string]types.AttributeValue, error)
	// ToModel returns nil for a nil item.
	ToModel(item map[string]types.AttributeValue) (*M, error)
}

// ValueEncoder is implemented by mappers that encode a single attribute
// value the way they encode a model field. Update set-values use it.
type ValueEncoder interface {
	EncodeValue(v any) (types.AttributeValue, error)
}

// EncodeValue encodes v through m when m is a ValueEncoder and with
// storagevalue.Encode otherwise.
func EncodeValue[M any](m Mapper[M], v any) (types.AttributeValue, error) {
	if enc, ok := m.(ValueEncoder); ok {
		return enc.EncodeValue(v)
	}
	return storagevalue.Encode(v)
}

// AttributeValueMapper maps models through struct tags with the
// attributevalue package. Timestamps are stored as epoch milliseconds,
// top-level identifiers such as uuid.UUID in their string form (as keys
// and queries see them), and NULL attributes are dropped from the item.
type AttributeValueMapper[M any] struct {
	tagKey string
}

// New returns a mapper reading `json` tags.
func New[M any]() *AttributeValueMapper[M] {
	return &AttributeValueMapper[M]{tagKey: "json"}
}

// NewWithTagKey returns a mapper reading the given struct tag, e.g. "dynamodbav".
func NewWithTagKey[M any](tagKey string) *AttributeValueMapper[M] {
	return &AttributeValueMapper[M]{tagKey: tagKey}
}

func (m *AttributeValueMapper[M]) ToItem(model M) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMapWithOptions(model, storagevalue.EncoderOptions, m.encoderTag)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", model, err)
	}
	if err := m.identifiers(item, reflect.ValueOf(model)); err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", model, err)
	}
	for name, av := range item {
		if _, isNull := av.(*types.AttributeValueMemberNULL); isNull {
			delete(item, name)
		}
	}
	return item, nil
}

// EncodeValue encodes v with storagevalue.Encode and the mapper's tag key,
// so a struct value set by an update matches the same field written on
// create.
func (m *AttributeValueMapper[M]) EncodeValue(v any) (types.AttributeValue, error) {
	return storagevalue.Encode(v, m.encoderTag)
}

func (m *AttributeValueMapper[M]) encoderTag(o *attributevalue.EncoderOptions) {
	o.TagKey = m.tagKey
}

func (m *AttributeValueMapper[M]) ToModel(item map[string]types.AttributeValue) (*M, error) {
	if item == nil {
		return nil, nil
	}
	var model M
	err := attributevalue.UnmarshalMapWithOptions(item, &model, func(o *attributevalue.DecoderOptions) {
		storagevalue.DecoderOptions(o)
		o.TagKey = m.tagKey
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal item into %T: %w", model, err)
	}
	return &model, nil
}

// identifiers rewrites the top-level attributes of v that hold identifier
// values to their normalized string form. A zero identifier is dropped so
// Create treats it as undefined.
func (m *AttributeValueMapper[M]) identifiers(item map[string]types.AttributeValue, v reflect.Value) error {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			f := t.Field(i)
			name, _, _ := strings.Cut(f.Tag.Get(m.tagKey), ",")
			if name == "-" {
				continue
			}
			if f.Anonymous && name == "" {
				if err := m.identifiers(item, v.Field(i)); err != nil {
					return err
				}
				continue
			}
			if !f.IsExported() {
				continue
			}
			if name == "" {
				name = f.Name
			}
			if err := replaceIdentifier(item, name, v.Field(i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil
		}
		iter := v.MapRange()
		for iter.Next() {
			if err := replaceIdentifier(item, iter.Key().String(), iter.Value()); err != nil {
				return err
			}
		}
	}
	return nil
}

func replaceIdentifier(item map[string]types.AttributeValue, name string, fv reflect.Value) error {
	av, ok := item[name]
	if !ok || !fv.CanInterface() {
		return nil
	}
	if _, isNull := av.(*types.AttributeValueMemberNULL); isNull {
		return nil
	}
	value := fv.Interface()
	if !storagevalue.IsIdentifier(value) {
		return nil
	}
	if reflect.Indirect(reflect.ValueOf(value)).IsZero() {
		delete(item, name)
		return nil
	}
	normalized, err := storagevalue.Marshal(value)
	if err != nil {
		return fmt.Errorf("attribute %q: %w", name, err)
	}
	item[name] = normalized
	return nil
}
