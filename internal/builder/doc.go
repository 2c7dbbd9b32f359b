// Package builder is the root of a query builder: it owns the value and
// configuration a caller supplies, hands out group and rule controllers
// addressed by tree.Path, settles drag gestures once per tick, and reports
// every new tree to its listeners.
//
// Mutations never touch the value the caller passed in. A listener sees
// a fresh tree and decides whether to feed it back through SetValue, or
// the builder can be created WithModel to do that itself.
package builder
