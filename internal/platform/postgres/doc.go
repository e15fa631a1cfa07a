// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package.
// It handles query execution, mapping of driver errors onto store errors,
// and the embedded goose migrations that define the schema.
package postgres
