// Package mocks provides centralized mock implementations for testing.
//
// Each mock has function fields that override a single method, and an
// in-memory default so that tests which only care about one behavior do not
// need to stub the rest. WithTx returns the receiver, so mocks work inside
// store.RunInTransaction against a sqlmock database.
//
// Usage:
//
//	users := mocks.NewMockUserStore()
//	users.CreateFn = func(ctx context.Context, u *domain.User) error {
//	    return store.ErrEmailExists
//	}
package mocks
