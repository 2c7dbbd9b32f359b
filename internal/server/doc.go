// Package server exposes the stateless query builder operations over
// HTTP: validation, pruning, batch actions and the drag legality check.
//
// Every request builds its own Builder, so requests share nothing but the
// metrics registry.
package server
