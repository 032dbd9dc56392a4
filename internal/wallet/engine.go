package wallet

import "context"

// Supported SQL dialects.
const (
	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
)

// Querier is a handle that can run single statements, either on a pool or
// inside an open transaction.
type Querier interface {
	// ReadOne scans the first row into dest and reports whether a row matched.
	// No match is not an error.
	ReadOne(ctx context.Context, dest any, query string, args ...any) (bool, error)
	// Write runs a statement and returns the number of affected rows.
	Write(ctx context.Context, query string, args ...any) (int64, error)
}

// Engine is the persistence collaborator the ledger runs against.
type Engine interface {
	Querier
	// RunTransaction commits when work returns nil and rolls back otherwise.
	// Only the error leaves the transaction boundary.
	RunTransaction(ctx context.Context, work func(tx Querier) error) error
	Dialect() string
}
