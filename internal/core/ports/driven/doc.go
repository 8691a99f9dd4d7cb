// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): embedding and generation collaborators,
// the index store, and the entity recognizer.
package driven
