/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagevalue

import (
	"encoding"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"
)

// Normalize converts v into the value that is written to, or compared
// against, the store:
//
//	null        -> nil
//	number      -> unchanged
//	collection  -> unchanged
//	timestamp   -> int64 milliseconds since the epoch
//	anything    -> its string form (fmt.Stringer, encoding.TextMarshaler,
//	               then fmt.Sprint)
//
// Keys, index query values and uniqueness comparisons go through here.
// Attribute writes use Encode, which agrees with Normalize on every value
// a key or index can hold.
func Normalize(v any) any {
	v = indirect(v)
	switch Classify(v) {
	case KindNull:
		return nil
	case KindNumber, KindCollection:
		return v
	case KindTimestamp:
		return Millis(v)
	default:
		switch tv := v.(type) {
		case fmt.Stringer:
			return tv.String()
		case encoding.TextMarshaler:
			if text, err := tv.MarshalText(); err == nil {
				return string(text)
			}
		}
		return fmt.Sprint(v)
	}
}

// Millis returns the epoch milliseconds of a timestamp value.
func Millis(v any) int64 {
	switch tv := indirect(v).(type) {
	case time.Time:
		return tv.UnixMilli()
	case strfmt.DateTime:
		return time.Time(tv).UnixMilli()
	default:
		return 0
	}
}

// Marshal normalizes v and encodes it as an attribute value. An
// attribute value passed in is returned unchanged.
func Marshal(v any) (types.AttributeValue, error) {
	if av, ok := v.(types.AttributeValue); ok {
		return av, nil
	}
	return attributevalue.MarshalWithOptions(Normalize(v), EncoderOptions)
}

// Encode converts v into the attribute value a model field holding v is
// written as. Nulls, numbers, timestamps and identifiers follow Normalize;
// booleans, strings, structs and collections keep their native encoding.
// optFns apply after EncoderOptions, e.g. to select the struct tag key.
func Encode(v any, optFns ...func(*attributevalue.EncoderOptions)) (types.AttributeValue, error) {
	if av, ok := v.(types.AttributeValue); ok {
		return av, nil
	}
	switch Classify(v) {
	case KindNull, KindNumber, KindTimestamp:
		return Marshal(v)
	case KindOpaque:
		if IsIdentifier(v) {
			return Marshal(v)
		}
	}
	return attributevalue.MarshalWithOptions(indirect(v), append([]func(*attributevalue.EncoderOptions){EncoderOptions}, optFns...)...)
}

// EncoderOptions configures an attributevalue encoder to write nested
// timestamps the same way Normalize does.
func EncoderOptions(o *attributevalue.EncoderOptions) {
	o.EncodeTime = EncodeTime
}

// DecoderOptions is the reading counterpart of EncoderOptions.
func DecoderOptions(o *attributevalue.DecoderOptions) {
	o.DecodeTime = attributevalue.DecodeTimeAttributes{
		S: decodeTimeString,
		N: DecodeTime,
	}
	// Identifiers are written in their text form.
	o.UseEncodingUnmarshalers = true
}

// EncodeTime writes t as epoch milliseconds; the zero time is NULL.
func EncodeTime(t time.Time) (types.AttributeValue, error) {
	if t.IsZero() {
		return &types.AttributeValueMemberNULL{Value: true}, nil
	}
	return &types.AttributeValueMemberN{Value: fmt.Sprint(t.UnixMilli())}, nil
}

// DecodeTime parses epoch milliseconds.
func DecodeTime(n string) (time.Time, error) {
	var ms int64
	if _, err := fmt.Sscan(n, &ms); err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch millis %q: %w", n, err)
	}
	return time.UnixMilli(ms).UTC(), nil
}

// decodeTimeString accepts RFC 3339 for items written by other tools.
func decodeTimeString(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
