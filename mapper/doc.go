// Package mapper converts typed models to and from DynamoDB items.
package mapper
