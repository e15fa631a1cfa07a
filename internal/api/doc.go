// Package api exposes the user and deck operations over HTTP. Handlers decode
// and validate JSON requests, call the services with the caller identity taken
// from the verified token, and answer with the success/error envelope defined
// in package shared.
package api
