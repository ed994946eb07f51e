/*
Package storagevalue normalizes Go values into their DynamoDB storage form.

Values fall into one closed set of kinds (null, number, collection,
timestamp, opaque) and each kind has exactly one rule. Keys, index query
values, uniqueness comparisons and update values all use the same rules,
so a timestamp written on create compares equal to the same timestamp used
in a query.

	av, _ := storagevalue.Marshal(time.UnixMilli(1700000000000))
	// &types.AttributeValueMemberN{Value: "1700000000000"}
*/
package storagevalue
