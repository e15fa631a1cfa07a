// Package service contains the application use cases. It orchestrates the
// domain entities and the store interfaces (defined in internal/store) to
// implement identity (AuthService) and content management (DeckService).
//
// Services receive their dependencies through constructor injection and never
// depend on a concrete storage implementation. Operations spanning more than
// one statement run through store.RunInTransaction with the stores rebound
// via WithTx.
//
// Every failure leaves the package as a *Error whose Kind is one of the
// sentinel errors in errors.go; the API layer maps kinds to HTTP status codes.
package service
