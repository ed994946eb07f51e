/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeClient is an in-memory DynamoDB substitute. It evaluates the key,
// condition, filter and update expressions the DAO produces, pages with
// Limit and ExclusiveStartKey, and tracks table and index status.
type fakeClient struct {
	mu     sync.Mutex
	tables map[string]*fakeTable
	calls  map[string]int
	errs   map[string]error
	// indexPolls is how many DescribeTable calls a new index stays CREATING.
	indexPolls int

	creates []*sdk.CreateTableInput
	updates []*sdk.UpdateTableInput
}

type fakeTable struct {
	keySchema []types.KeySchemaElement
	attrDefs  []types.AttributeDefinition
	items     map[string]rawItem
	indexes   []*fakeIndex
}

type fakeIndex struct {
	name      string
	keySchema []types.KeySchemaElement
	status    types.IndexStatus
	pending   int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		tables: make(map[string]*fakeTable),
		calls:  make(map[string]int),
		errs:   make(map[string]error),
	}
}

// withTable registers an active table keyed by hash (and optional range).
func (f *fakeClient) withTable(name, hash string, rangeKey ...string) *fakeClient {
	keys := []types.KeySchemaElement{{AttributeName: aws.String(hash), KeyType: types.KeyTypeHash}}
	if len(rangeKey) > 0 {
		keys = append(keys, types.KeySchemaElement{AttributeName: aws.String(rangeKey[0]), KeyType: types.KeyTypeRange})
	}
	f.tables[name] = &fakeTable{keySchema: keys, items: make(map[string]rawItem)}
	return f
}

// withIndex registers an active index on an existing table.
func (f *fakeClient) withIndex(table, name, hash string, rangeKey ...string) *fakeClient {
	keys := []types.KeySchemaElement{{AttributeName: aws.String(hash), KeyType: types.KeyTypeHash}}
	if len(rangeKey) > 0 {
		keys = append(keys, types.KeySchemaElement{AttributeName: aws.String(rangeKey[0]), KeyType: types.KeyTypeRange})
	}
	t := f.tables[table]
	t.indexes = append(t.indexes, &fakeIndex{name: name, keySchema: keys, status: types.IndexStatusActive})
	return f
}

func (f *fakeClient) failOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[op] = err
}

func (f *fakeClient) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeClient) put(table string, it rawItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.tables[table]
	t.items[t.primaryKey(it)] = it
}

func (f *fakeClient) get(table string, key rawItem) rawItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.tables[table]
	return t.items[t.primaryKey(key)]
}

func (f *fakeClient) itemCount(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tables[table].items)
}

func describe(table string) *sdk.DescribeTableInput {
	return &sdk.DescribeTableInput{TableName: aws.String(table)}
}

// begin records a call and returns an injected error, if any.
func (f *fakeClient) begin(op string) error {
	f.calls[op]++
	return f.errs[op]
}

func (f *fakeClient) table(name *string) (*fakeTable, error) {
	t, ok := f.tables[aws.ToString(name)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("Requested resource not found: Table: " + aws.ToString(name) + " not found")}
	}
	return t, nil
}

func (t *fakeTable) primaryKey(it rawItem) string {
	return keyString(t.keySchema, it)
}

func keyString(keys []types.KeySchemaElement, it rawItem) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, avString(it[aws.ToString(k.AttributeName)]))
	}
	return strings.Join(parts, "|")
}

func avString(av types.AttributeValue) string {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return "S:" + v.Value
	case *types.AttributeValueMemberN:
		return "N:" + v.Value
	case *types.AttributeValueMemberB:
		return "B:" + string(v.Value)
	default:
		return ""
	}
}

func copyItem(it rawItem) rawItem {
	if it == nil {
		return nil
	}
	out := make(rawItem, len(it))
	for k, v := range it {
		out[k] = v
	}
	return out
}

func (f *fakeClient) GetItem(_ context.Context, p *sdk.GetItemInput, _ ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("GetItem"); err != nil {
		return nil, err
	}
	t, err := f.table(p.TableName)
	if err != nil {
		return nil, err
	}
	return &sdk.GetItemOutput{Item: copyItem(t.items[t.primaryKey(p.Key)])}, nil
}

func (f *fakeClient) PutItem(_ context.Context, p *sdk.PutItemInput, _ ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("PutItem"); err != nil {
		return nil, err
	}
	t, err := f.table(p.TableName)
	if err != nil {
		return nil, err
	}
	k := t.primaryKey(p.Item)
	if cond := aws.ToString(p.ConditionExpression); cond != "" {
		ok, err := evalCondition(cond, p.ExpressionAttributeNames, p.ExpressionAttributeValues, t.items[k])
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
		}
	}
	t.items[k] = copyItem(p.Item)
	return &sdk.PutItemOutput{}, nil
}

func (f *fakeClient) DeleteItem(_ context.Context, p *sdk.DeleteItemInput, _ ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("DeleteItem"); err != nil {
		return nil, err
	}
	t, err := f.table(p.TableName)
	if err != nil {
		return nil, err
	}
	delete(t.items, t.primaryKey(p.Key))
	return &sdk.DeleteItemOutput{}, nil
}

func (f *fakeClient) UpdateItem(_ context.Context, p *sdk.UpdateItemInput, _ ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("UpdateItem"); err != nil {
		return nil, err
	}
	t, err := f.table(p.TableName)
	if err != nil {
		return nil, err
	}
	k := t.primaryKey(p.Key)
	prior := t.items[k]

	next := copyItem(prior)
	if next == nil {
		next = copyItem(p.Key)
	}
	if err := applyUpdate(aws.ToString(p.UpdateExpression), p.ExpressionAttributeNames, p.ExpressionAttributeValues, next); err != nil {
		return nil, err
	}
	t.items[k] = next

	out := &sdk.UpdateItemOutput{}
	switch p.ReturnValues {
	case types.ReturnValueAllOld:
		out.Attributes = copyItem(prior)
	case types.ReturnValueAllNew:
		out.Attributes = copyItem(next)
	}
	return out, nil
}

func (f *fakeClient) Query(_ context.Context, p *sdk.QueryInput, _ ...func(*sdk.Options)) (*sdk.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("Query"); err != nil {
		return nil, err
	}
	t, err := f.table(p.TableName)
	if err != nil {
		return nil, err
	}

	keys := t.keySchema
	if name := aws.ToString(p.IndexName); name != "" {
		idx := t.index(name)
		if idx == nil {
			return nil, fmt.Errorf("ValidationException: index %s not found", name)
		}
		keys = idx.keySchema
	}

	var candidates []rawItem
	for _, it := range t.items {
		if !hasKeys(keys, it) {
			continue
		}
		ok, err := evalCondition(aws.ToString(p.KeyConditionExpression), p.ExpressionAttributeNames, p.ExpressionAttributeValues, it)
		if err != nil {
			return nil, err
		}
		if ok {
			candidates = append(candidates, it)
		}
	}
	sortItems(candidates, keys, t.keySchema, p.ScanIndexForward == nil || *p.ScanIndexForward)

	page, last := t.page(candidates, p.ExclusiveStartKey, p.Limit)
	items, err := filter(page, p.FilterExpression, p.ExpressionAttributeNames, p.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}
	return &sdk.QueryOutput{Items: items, Count: int32(len(items)), ScannedCount: int32(len(page)), LastEvaluatedKey: last}, nil
}

func (f *fakeClient) Scan(_ context.Context, p *sdk.ScanInput, _ ...func(*sdk.Options)) (*sdk.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("Scan"); err != nil {
		return nil, err
	}
	t, err := f.table(p.TableName)
	if err != nil {
		return nil, err
	}

	all := make([]rawItem, 0, len(t.items))
	for _, it := range t.items {
		all = append(all, it)
	}
	sortItems(all, t.keySchema, t.keySchema, true)

	page, last := t.page(all, p.ExclusiveStartKey, p.Limit)
	items, err := filter(page, p.FilterExpression, p.ExpressionAttributeNames, p.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}
	return &sdk.ScanOutput{Items: items, Count: int32(len(items)), ScannedCount: int32(len(page)), LastEvaluatedKey: last}, nil
}

// page applies ExclusiveStartKey and Limit to ordered items.
func (t *fakeTable) page(items []rawItem, start rawItem, limit *int32) ([]rawItem, rawItem) {
	if start != nil {
		startKey := t.primaryKey(start)
		for i, it := range items {
			if t.primaryKey(it) == startKey {
				items = items[i+1:]
				break
			}
		}
	}
	if limit == nil || int(*limit) >= len(items) {
		return items, nil
	}
	page := items[:*limit]
	last := make(rawItem)
	for _, k := range t.keySchema {
		name := aws.ToString(k.AttributeName)
		last[name] = page[len(page)-1][name]
	}
	return page, last
}

func filter(items []rawItem, expr *string, names map[string]string, values map[string]types.AttributeValue) ([]rawItem, error) {
	out := make([]rawItem, 0, len(items))
	for _, it := range items {
		if aws.ToString(expr) != "" {
			ok, err := evalCondition(*expr, names, values, it)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, copyItem(it))
	}
	return out, nil
}

func hasKeys(keys []types.KeySchemaElement, it rawItem) bool {
	for _, k := range keys {
		if _, ok := it[aws.ToString(k.AttributeName)]; !ok {
			return false
		}
	}
	return true
}

// sortItems orders by the range key of keys, then by table key.
func sortItems(items []rawItem, keys, tableKeys []types.KeySchemaElement, forward bool) {
	var rangeAttr string
	for _, k := range keys {
		if k.KeyType == types.KeyTypeRange {
			rangeAttr = aws.ToString(k.AttributeName)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if rangeAttr != "" {
			if c, ok := compareAV(items[i][rangeAttr], items[j][rangeAttr]); ok && c != 0 {
				return (c < 0) == forward
			}
		}
		return keyString(tableKeys, items[i]) < keyString(tableKeys, items[j])
	})
}

func (t *fakeTable) index(name string) *fakeIndex {
	for _, idx := range t.indexes {
		if idx.name == name {
			return idx
		}
	}
	return nil
}

func (f *fakeClient) CreateTable(_ context.Context, p *sdk.CreateTableInput, _ ...func(*sdk.Options)) (*sdk.CreateTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("CreateTable"); err != nil {
		return nil, err
	}
	f.creates = append(f.creates, p)
	name := aws.ToString(p.TableName)
	if _, ok := f.tables[name]; ok {
		return nil, &types.ResourceInUseException{Message: aws.String("Table already exists: " + name)}
	}
	keys := slices.Clone(p.KeySchema)
	for _, gsi := range p.GlobalSecondaryIndexes {
		keys = append(keys, gsi.KeySchema...)
	}
	for _, k := range keys {
		if !definesAttribute(p.AttributeDefinitions, aws.ToString(k.AttributeName)) {
			return nil, fmt.Errorf("ValidationException: attribute %s has no definition", aws.ToString(k.AttributeName))
		}
	}
	for _, d := range p.AttributeDefinitions {
		if !slices.ContainsFunc(keys, func(k types.KeySchemaElement) bool {
			return aws.ToString(k.AttributeName) == aws.ToString(d.AttributeName)
		}) {
			return nil, fmt.Errorf("ValidationException: attribute %s is defined but no key uses it", aws.ToString(d.AttributeName))
		}
	}
	if p.BillingMode != types.BillingModePayPerRequest && p.ProvisionedThroughput == nil {
		return nil, fmt.Errorf("ValidationException: no provisioned throughput specified")
	}
	t := &fakeTable{keySchema: p.KeySchema, attrDefs: p.AttributeDefinitions, items: make(map[string]rawItem)}
	for _, gsi := range p.GlobalSecondaryIndexes {
		if gsi.Projection == nil {
			return nil, fmt.Errorf("ValidationException: projection is required")
		}
		if p.BillingMode != types.BillingModePayPerRequest && gsi.ProvisionedThroughput == nil {
			return nil, fmt.Errorf("ValidationException: no provisioned throughput specified for index %s", aws.ToString(gsi.IndexName))
		}
		// Indexes created with the table are active once the table is.
		t.indexes = append(t.indexes, &fakeIndex{
			name:      aws.ToString(gsi.IndexName),
			keySchema: gsi.KeySchema,
			status:    types.IndexStatusActive,
		})
	}
	f.tables[name] = t
	return &sdk.CreateTableOutput{}, nil
}

func (f *fakeClient) DeleteTable(_ context.Context, p *sdk.DeleteTableInput, _ ...func(*sdk.Options)) (*sdk.DeleteTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("DeleteTable"); err != nil {
		return nil, err
	}
	if _, err := f.table(p.TableName); err != nil {
		return nil, err
	}
	delete(f.tables, aws.ToString(p.TableName))
	return &sdk.DeleteTableOutput{}, nil
}

func (f *fakeClient) DescribeTable(_ context.Context, p *sdk.DescribeTableInput, _ ...func(*sdk.Options)) (*sdk.DescribeTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("DescribeTable"); err != nil {
		return nil, err
	}
	t, err := f.table(p.TableName)
	if err != nil {
		return nil, err
	}

	desc := &types.TableDescription{
		TableName:            p.TableName,
		TableStatus:          types.TableStatusActive,
		KeySchema:            t.keySchema,
		AttributeDefinitions: t.attrDefs,
	}
	for _, idx := range t.indexes {
		if idx.status == types.IndexStatusCreating {
			if idx.pending <= 0 {
				idx.status = types.IndexStatusActive
			}
			idx.pending--
		}
		desc.GlobalSecondaryIndexes = append(desc.GlobalSecondaryIndexes, types.GlobalSecondaryIndexDescription{
			IndexName:   aws.String(idx.name),
			KeySchema:   idx.keySchema,
			IndexStatus: idx.status,
		})
	}
	return &sdk.DescribeTableOutput{Table: desc}, nil
}

func (f *fakeClient) UpdateTable(_ context.Context, p *sdk.UpdateTableInput, _ ...func(*sdk.Options)) (*sdk.UpdateTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("UpdateTable"); err != nil {
		return nil, err
	}
	f.updates = append(f.updates, p)
	t, err := f.table(p.TableName)
	if err != nil {
		return nil, err
	}
	for _, u := range p.GlobalSecondaryIndexUpdates {
		if u.Create == nil {
			continue
		}
		name := aws.ToString(u.Create.IndexName)
		if t.index(name) != nil {
			return nil, fmt.Errorf("ValidationException: attempting to create an index which already exists: %s", name)
		}
		for _, k := range u.Create.KeySchema {
			if !definesAttribute(p.AttributeDefinitions, aws.ToString(k.AttributeName)) {
				return nil, fmt.Errorf("ValidationException: attribute %s has no definition", aws.ToString(k.AttributeName))
			}
		}
		if u.Create.Projection == nil {
			return nil, fmt.Errorf("ValidationException: projection is required")
		}
		t.attrDefs = append(t.attrDefs, p.AttributeDefinitions...)
		t.indexes = append(t.indexes, &fakeIndex{
			name:      name,
			keySchema: u.Create.KeySchema,
			status:    types.IndexStatusCreating,
			pending:   f.indexPolls,
		})
	}
	return &sdk.UpdateTableOutput{}, nil
}

func definesAttribute(defs []types.AttributeDefinition, name string) bool {
	for _, d := range defs {
		if aws.ToString(d.AttributeName) == name {
			return true
		}
	}
	return false
}

// applyUpdate handles "SET a = :v, b = :w REMOVE c, d" with placeholders.
func applyUpdate(expr string, names map[string]string, values map[string]types.AttributeValue, it rawItem) error {
	if strings.TrimSpace(expr) == "" {
		return fmt.Errorf("ValidationException: update expression is empty")
	}
	resolve := func(tok string) string {
		if n, ok := names[tok]; ok {
			return n
		}
		return tok
	}

	sections := splitSections(expr)
	for verb, body := range sections {
		for _, clause := range strings.Split(body, ",") {
			clause = strings.TrimSpace(clause)
			if clause == "" {
				return fmt.Errorf("ValidationException: dangling separator in %q", expr)
			}
			switch verb {
			case "SET":
				lhs, rhs, ok := strings.Cut(clause, "=")
				if !ok {
					return fmt.Errorf("ValidationException: bad SET clause %q", clause)
				}
				v, ok := values[strings.TrimSpace(rhs)]
				if !ok {
					return fmt.Errorf("ValidationException: undefined value %s", rhs)
				}
				it[resolve(strings.TrimSpace(lhs))] = v
			case "REMOVE":
				delete(it, resolve(clause))
			}
		}
	}
	return nil
}

func splitSections(expr string) map[string]string {
	out := make(map[string]string)
	fields := strings.Fields(expr)
	var verb string
	var body []string
	flush := func() {
		if verb != "" {
			out[verb] = strings.Join(body, " ")
		}
	}
	for _, f := range fields {
		if f == "SET" || f == "REMOVE" {
			flush()
			verb, body = f, nil
			continue
		}
		body = append(body, f)
	}
	flush()
	return out
}

// evalCondition evaluates a condition or key condition expression against
// an item. A nil item has no attributes.
func evalCondition(expr string, names map[string]string, values map[string]types.AttributeValue, it rawItem) (bool, error) {
	p := &condParser{toks: tokenize(expr), names: names, values: values, item: it}
	ok, err := p.or()
	if err != nil {
		return false, err
	}
	if p.pos != len(p.toks) {
		return false, fmt.Errorf("ValidationException: unexpected %q in %q", p.toks[p.pos], expr)
	}
	return ok, nil
}

func tokenize(s string) []string {
	var toks []string
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ':
			i++
		case c == '(' || c == ')' || c == ',':
			toks = append(toks, string(c))
			i++
		case c == '<' || c == '>' || c == '=':
			j := i + 1
			if j < len(s) && (s[j] == '=' || (c == '<' && s[j] == '>')) {
				j++
			}
			toks = append(toks, s[i:j])
			i = j
		default:
			j := i
			for j < len(s) && !strings.ContainsRune(" (),<>=", rune(s[j])) {
				j++
			}
			toks = append(toks, s[i:j])
			i = j
		}
	}
	return toks
}

type condParser struct {
	toks   []string
	pos    int
	names  map[string]string
	values map[string]types.AttributeValue
	item   rawItem
}

func (p *condParser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *condParser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *condParser) expect(tok string) error {
	if got := p.next(); !strings.EqualFold(got, tok) {
		return fmt.Errorf("ValidationException: expected %q, got %q", tok, got)
	}
	return nil
}

func (p *condParser) or() (bool, error) {
	left, err := p.and()
	if err != nil {
		return false, err
	}
	for strings.EqualFold(p.peek(), "OR") {
		p.next()
		right, err := p.and()
		if err != nil {
			return false, err
		}
		left = left || right
	}
	return left, nil
}

func (p *condParser) and() (bool, error) {
	left, err := p.not()
	if err != nil {
		return false, err
	}
	for strings.EqualFold(p.peek(), "AND") {
		p.next()
		right, err := p.not()
		if err != nil {
			return false, err
		}
		left = left && right
	}
	return left, nil
}

func (p *condParser) not() (bool, error) {
	if strings.EqualFold(p.peek(), "NOT") {
		p.next()
		v, err := p.not()
		return !v, err
	}
	return p.primary()
}

func (p *condParser) primary() (bool, error) {
	tok := p.next()
	if tok == "(" {
		v, err := p.or()
		if err != nil {
			return false, err
		}
		return v, p.expect(")")
	}

	if fn := strings.ToLower(tok); p.peek() == "(" {
		p.next()
		var args []string
		for p.peek() != ")" && p.peek() != "" {
			args = append(args, p.next())
			if p.peek() == "," {
				p.next()
			}
		}
		if err := p.expect(")"); err != nil {
			return false, err
		}
		return p.call(fn, args)
	}

	left := p.operand(tok)
	op := p.next()
	if strings.EqualFold(op, "BETWEEN") {
		lo := p.operand(p.next())
		if err := p.expect("AND"); err != nil {
			return false, err
		}
		hi := p.operand(p.next())
		c1, ok1 := compareAV(left, lo)
		c2, ok2 := compareAV(left, hi)
		return ok1 && ok2 && c1 >= 0 && c2 <= 0, nil
	}

	right := p.operand(p.next())
	c, ok := compareAV(left, right)
	switch op {
	case "=":
		return ok && c == 0, nil
	case "<>":
		return !ok || c != 0, nil
	case "<":
		return ok && c < 0, nil
	case "<=":
		return ok && c <= 0, nil
	case ">":
		return ok && c > 0, nil
	case ">=":
		return ok && c >= 0, nil
	default:
		return false, fmt.Errorf("ValidationException: unknown operator %q", op)
	}
}

func (p *condParser) call(fn string, args []string) (bool, error) {
	switch fn {
	case "attribute_exists", "attribute_not_exists":
		if len(args) != 1 {
			return false, fmt.Errorf("ValidationException: %s takes one argument", fn)
		}
		_, present := p.item[p.name(args[0])]
		return present == (fn == "attribute_exists"), nil
	case "begins_with", "contains":
		if len(args) != 2 {
			return false, fmt.Errorf("ValidationException: %s takes two arguments", fn)
		}
		s, ok1 := p.operand(args[0]).(*types.AttributeValueMemberS)
		sub, ok2 := p.operand(args[1]).(*types.AttributeValueMemberS)
		if !ok1 || !ok2 {
			return false, nil
		}
		if fn == "begins_with" {
			return strings.HasPrefix(s.Value, sub.Value), nil
		}
		return strings.Contains(s.Value, sub.Value), nil
	default:
		return false, fmt.Errorf("ValidationException: unsupported function %s", fn)
	}
}

func (p *condParser) name(tok string) string {
	if n, ok := p.names[tok]; ok {
		return n
	}
	return tok
}

func (p *condParser) operand(tok string) types.AttributeValue {
	if strings.HasPrefix(tok, ":") {
		return p.values[tok]
	}
	return p.item[p.name(tok)]
}

// compareAV orders two scalar values of the same type.
func compareAV(a, b types.AttributeValue) (int, bool) {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		if !ok {
			return 0, false
		}
		return strings.Compare(av.Value, bv.Value), true
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		if !ok {
			return 0, false
		}
		x, okx := new(big.Rat).SetString(av.Value)
		y, oky := new(big.Rat).SetString(bv.Value)
		if !okx || !oky {
			return 0, false
		}
		return x.Cmp(y), true
	case *types.AttributeValueMemberB:
		bv, ok := b.(*types.AttributeValueMemberB)
		if !ok {
			return 0, false
		}
		return bytes.Compare(av.Value, bv.Value), true
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		if !ok || av.Value != bv.Value {
			return 1, ok
		}
		return 0, true
	default:
		return 0, false
	}
}
