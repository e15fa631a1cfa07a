// Package domain contains the core business entities, value objects, and
// domain logic of the application. It represents the heart of the system,
// independent of any specific infrastructure or delivery mechanism.
//
// The ownership graph is a tree: a User owns Decks, a Deck owns Cards.
// Parent references are immutable once an entity is created.
package domain
