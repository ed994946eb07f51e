/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagevalue

import (
	"bytes"
	"math/big"
	"reflect"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Equal reports whether two stored attribute values hold the same value.
// Numbers compare by value, so "1.0" equals "1".
func Equal(a, b types.AttributeValue) bool {
	if isNull(a) || isNull(b) {
		return isNull(a) && isNull(b)
	}
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		return ok && numberEqual(av.Value, bv.Value)
	case *types.AttributeValueMemberB:
		bv, ok := b.(*types.AttributeValueMemberB)
		return ok && bytes.Equal(av.Value, bv.Value)
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	default:
		return reflect.DeepEqual(a, b)
	}
}

func isNull(v types.AttributeValue) bool {
	if v == nil {
		return true
	}
	_, ok := v.(*types.AttributeValueMemberNULL)
	return ok
}

func numberEqual(a, b string) bool {
	if a == b {
		return true
	}
	ra, ok := new(big.Rat).SetString(a)
	if !ok {
		return false
	}
	rb, ok := new(big.Rat).SetString(b)
	if !ok {
		return false
	}
	return ra.Cmp(rb) == 0
}
