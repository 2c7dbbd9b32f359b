package tree

// Prune returns n with every RuleSet deeper than remaining levels below it
// removed. Call it on the root with the configured maximum depth.
//
// At remaining == 0 a set is at the boundary: its rules survive and its
// RuleSet children are dropped. A set reached with remaining < 0 is past
// the boundary and loses all of its children. Subtrees that need no change
// are returned as is, so pruning a tree that already fits allocates
// nothing.
func Prune(n Node, remaining int) Node {
	out, _ := PruneChanged(n, remaining)
	return out
}

// PruneChanged is Prune that also reports whether anything was removed.
// It never inspects rule values, so it works for values that have no JSON
// form.
func PruneChanged(n Node, remaining int) (Node, bool) {
	out := prune(n, remaining)
	return out, !sameNode(out, n)
}

func prune(n Node, remaining int) Node {
	rs, ok := n.(RuleSet)
	if !ok {
		return n
	}
	if remaining < 0 {
		if len(rs.Children) == 0 {
			return rs
		}
		return RuleSet{Comparator: rs.Comparator, Children: []Node{}}
	}

	var children []Node // nil until the first child differs
	for i, c := range rs.Children {
		next := c
		if sub, ok := c.(RuleSet); ok {
			if remaining == 0 {
				next = nil
			} else {
				next = prune(sub, remaining-1)
			}
		}
		if children == nil && !sameNode(next, c) {
			children = make([]Node, i, len(rs.Children))
			copy(children, rs.Children[:i])
		}
		if children != nil && next != nil {
			children = append(children, next)
		}
	}
	if children == nil {
		return rs
	}
	return RuleSet{Comparator: rs.Comparator, Children: children}
}

// sameNode reports whether prune returned its input unchanged. Pruning
// only ever shrinks child lists, so an unchanged length all the way down
// means an unchanged node.
func sameNode(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ar, aok := a.(RuleSet)
	br, bok := b.(RuleSet)
	if !aok || !bok {
		return aok == bok
	}
	if len(ar.Children) != len(br.Children) {
		return false
	}
	if len(ar.Children) == 0 {
		return true
	}
	return &ar.Children[0] == &br.Children[0]
}
