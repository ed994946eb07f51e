// Package tabledef reads table key schemas, attribute types and secondary
// indexes from YAML or JSON files and converts them to
// storagemodels.TableSchema.
package tabledef
