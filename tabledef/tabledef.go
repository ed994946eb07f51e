/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package tabledef

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	daoerrors "github.com/suparena/entitydao/errors"
	"github.com/suparena/entitydao/storagemodels"
)

// Document maps table names to their definitions. The layout follows the
// DynamoDB CreateTable request, one entry per table:
//
//	users:
//	  AttributeDefinitions:
//	    - {AttributeName: id, AttributeType: S}
//	  KeySchema:
//	    - {AttributeName: id, KeyType: HASH}
//	  GlobalSecondaryIndexes:
//	    - IndexName: email-index
//	      KeySchema:
//	        - {AttributeName: email, KeyType: HASH}
type Document map[string]Table

// Table is the definition of one table.
type Table struct {
	AttributeDefinitions   []AttributeDefinition `json:"AttributeDefinitions" yaml:"AttributeDefinitions" validate:"required,min=1,dive"`
	KeySchema              []KeySchemaElement    `json:"KeySchema" yaml:"KeySchema" validate:"required,min=1,max=2,dive"`
	ProvisionedThroughput  *Throughput           `json:"ProvisionedThroughput,omitempty" yaml:"ProvisionedThroughput,omitempty"`
	GlobalSecondaryIndexes []Index               `json:"GlobalSecondaryIndexes,omitempty" yaml:"GlobalSecondaryIndexes,omitempty" validate:"dive"`
}

type AttributeDefinition struct {
	AttributeName string `json:"AttributeName" yaml:"AttributeName" validate:"required"`
	AttributeType string `json:"AttributeType" yaml:"AttributeType" validate:"oneof=S N B"`
}

type KeySchemaElement struct {
	AttributeName string `json:"AttributeName" yaml:"AttributeName" validate:"required"`
	KeyType       string `json:"KeyType" yaml:"KeyType" validate:"oneof=HASH RANGE"`
}

type Throughput struct {
	ReadCapacityUnits  int64 `json:"ReadCapacityUnits" yaml:"ReadCapacityUnits" validate:"min=1"`
	WriteCapacityUnits int64 `json:"WriteCapacityUnits" yaml:"WriteCapacityUnits" validate:"min=1"`
}

type Projection struct {
	ProjectionType   string   `json:"ProjectionType" yaml:"ProjectionType" validate:"omitempty,oneof=ALL KEYS_ONLY INCLUDE"`
	NonKeyAttributes []string `json:"NonKeyAttributes,omitempty" yaml:"NonKeyAttributes,omitempty"`
}

type Index struct {
	IndexName             string             `json:"IndexName" yaml:"IndexName" validate:"required"`
	KeySchema             []KeySchemaElement `json:"KeySchema" yaml:"KeySchema" validate:"required,min=1,max=2,dive"`
	Projection            *Projection        `json:"Projection,omitempty" yaml:"Projection,omitempty"`
	ProvisionedThroughput *Throughput        `json:"ProvisionedThroughput,omitempty" yaml:"ProvisionedThroughput,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadFile reads a YAML (.yaml, .yml) or JSON (.json) document.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read table definitions: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".json":
		return ParseJSON(data)
	default:
		return nil, daoerrors.NewValidationError("path", "unsupported table definition format "+filepath.Ext(path))
	}
}

// ParseYAML decodes and validates a YAML document.
func ParseYAML(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse table definitions: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseJSON decodes and validates every table of a JSON document.
func ParseJSON(data []byte) (Document, error) {
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, daoerrors.NewValidationError("document", "table definitions must be a JSON object")
	}
	doc := make(Document)
	var err error
	root.ForEach(func(key, value gjson.Result) bool {
		var t Table
		if err = json.Unmarshal([]byte(value.Raw), &t); err != nil {
			err = fmt.Errorf("failed to parse table %s: %w", key.String(), err)
			return false
		}
		doc[key.String()] = t
		return true
	})
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// ExtractJSON decodes the single table name from a JSON document without
// parsing the other entries.
func ExtractJSON(data []byte, name string) (Table, error) {
	value := gjson.GetBytes(data, gjson.Escape(name))
	if !value.Exists() {
		return Table{}, daoerrors.NewNotFoundError("table definition", name)
	}
	var t Table
	if err := json.Unmarshal([]byte(value.Raw), &t); err != nil {
		return Table{}, fmt.Errorf("failed to parse table %s: %w", name, err)
	}
	if err := t.validate(name); err != nil {
		return Table{}, err
	}
	return t, nil
}

// Names returns the table names in sorted order.
func (d Document) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Table looks up a definition by name.
func (d Document) Table(name string) (Table, error) {
	t, ok := d[name]
	if !ok {
		return Table{}, daoerrors.NewNotFoundError("table definition", name)
	}
	return t, nil
}

// Validate checks every table in name order.
func (d Document) Validate() error {
	if len(d) == 0 {
		return daoerrors.NewValidationError("document", "no tables defined")
	}
	for _, name := range d.Names() {
		if err := d[name].validate(name); err != nil {
			return err
		}
	}
	return nil
}

func (t Table) validate(name string) error {
	if err := validate.Struct(t); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			fe := fieldErrs[0]
			return daoerrors.NewValidationError(name+"."+strings.TrimPrefix(fe.Namespace(), "Table."),
				fmt.Sprintf("failed on the '%s' rule", fe.Tag()))
		}
		return fmt.Errorf("failed to validate table %s: %w", name, err)
	}
	return t.Schema().Validate()
}

// Schema converts the definition into the schema a DAO is configured with.
func (t Table) Schema() storagemodels.TableSchema {
	s := storagemodels.TableSchema{
		KeySchema:            keySchema(t.KeySchema),
		AttributeDefinitions: make([]types.AttributeDefinition, 0, len(t.AttributeDefinitions)),
	}
	for _, a := range t.AttributeDefinitions {
		s.AttributeDefinitions = append(s.AttributeDefinitions, types.AttributeDefinition{
			AttributeName: aws.String(a.AttributeName),
			AttributeType: types.ScalarAttributeType(a.AttributeType),
		})
	}
	for _, g := range t.GlobalSecondaryIndexes {
		idx := storagemodels.IndexDefinition{
			Name:       g.IndexName,
			KeySchema:  keySchema(g.KeySchema),
			Throughput: g.ProvisionedThroughput.sdk(),
		}
		if g.Projection != nil && g.Projection.ProjectionType != "" {
			idx.Projection = &types.Projection{
				ProjectionType:   types.ProjectionType(g.Projection.ProjectionType),
				NonKeyAttributes: g.Projection.NonKeyAttributes,
			}
		}
		s.Indexes = append(s.Indexes, idx)
	}
	return s
}

// Throughput returns the table's provisioned capacity, or nil.
func (t Table) Throughput() *types.ProvisionedThroughput {
	return t.ProvisionedThroughput.sdk()
}

func (tp *Throughput) sdk() *types.ProvisionedThroughput {
	if tp == nil {
		return nil
	}
	return &types.ProvisionedThroughput{
		ReadCapacityUnits:  aws.Int64(tp.ReadCapacityUnits),
		WriteCapacityUnits: aws.Int64(tp.WriteCapacityUnits),
	}
}

func keySchema(keys []KeySchemaElement) []types.KeySchemaElement {
	out := make([]types.KeySchemaElement, 0, len(keys))
	for _, k := range keys {
		out = append(out, types.KeySchemaElement{
			AttributeName: aws.String(k.AttributeName),
			KeyType:       types.KeyType(k.KeyType),
		})
	}
	return out
}
