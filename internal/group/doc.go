// Package group provides the per-RuleSet controller and the leaf rule
// binding a renderer attaches to.
//
// Controllers form a chain that mirrors the tree. A nested controller's
// emit callback is its parent's UpdateChild, so a change anywhere bubbles
// up, each level splicing the new subtree into a fresh copy of its own
// child list, until the root controller's emit hands the whole tree to the
// builder. No controller mutates the RuleSet it was built from.
package group
