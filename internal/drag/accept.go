package drag

import "github.com/roach88/querybuilder/internal/tree"

// CanAccept reports whether dragged may land at targetDepth, the depth it
// would occupy once dropped (the receiving group's depth plus one).
//
// Rules are always accepted, and so is anything when maxDepth is nil.
// A RuleSet is accepted when its own deepest descendant set would still
// sit at or above maxDepth.
//
// CanAccept is pure; the drag capability calls it for every candidate
// target while a gesture is in flight.
func CanAccept(dragged tree.Node, targetDepth int, maxDepth *int) bool {
	if maxDepth == nil {
		return true
	}
	switch dragged.(type) {
	case tree.RuleSet:
		return targetDepth+tree.Height(dragged) <= *maxDepth
	case tree.Rule:
		return true
	default:
		return false
	}
}

// Options is what a group hands to the drag capability.
type Options struct {
	// Settings is the configuration's dragging block, passed through.
	Settings map[string]any

	// GroupName ties every group of one builder into a single shared
	// sortable group so nodes can cross between them.
	GroupName string

	// Put decides whether the group accepts dragged.
	Put func(dragged tree.Node) bool
}
