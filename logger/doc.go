// Package logger configures zerolog for the CLI and for services that hand
// a logger to the DAOs.
package logger
