// Package config loads settings for DynamoDB access and table management
// from a file, a .env file and ENTITYDAO_* environment variables.
package config
