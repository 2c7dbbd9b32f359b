package tree

import (
	"strconv"
	"strings"
)

// Path addresses a node by the sequence of child indices leading to it from
// the root. The empty path is the root.
type Path []int

// Child returns a new path extending p with index i. The result never
// aliases p's backing array.
func (p Path) Child(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// Parent returns the path without its last index. The root is its own
// parent.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	return p[:len(p)-1:len(p)-1]
}

// Last returns the final index, or -1 for the root.
func (p Path) Last() int {
	if len(p) == 0 {
		return -1
	}
	return p[len(p)-1]
}

// HasPrefix reports whether prefix addresses p itself or an ancestor of p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Equal reports whether p and q address the same node.
func (p Path) Equal(q Path) bool {
	return len(p) == len(q) && p.HasPrefix(q)
}

// String renders the path as "/" for the root and "/0/2/1" otherwise.
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, i := range p {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}

// ParsePath is the inverse of Path.String. Empty strings and "/" parse to
// the root.
func ParsePath(s string) (Path, error) {
	s = strings.Trim(s, "/")
	if s == "" {
		return Path{}, nil
	}
	parts := strings.Split(s, "/")
	p := make(Path, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, &ParseError{Path: s, Reason: "path segment " + strconv.Quote(part) + " is not a child index"}
		}
		p[i] = n
	}
	return p, nil
}

// At returns the node at p, or false when p leaves the tree.
func At(root Node, p Path) (Node, bool) {
	n := root
	for _, i := range p {
		rs, ok := n.(RuleSet)
		if !ok || i < 0 || i >= len(rs.Children) {
			return nil, false
		}
		n = rs.Children[i]
	}
	return n, n != nil
}

// Update returns a new root where the node at p is replaced by fn(node).
// Only the RuleSets along p are rebuilt, every other subtree is shared with
// root. It returns false, and root unchanged, when p leaves the tree.
func Update(root Node, p Path, fn func(Node) Node) (Node, bool) {
	if len(p) == 0 {
		if root == nil {
			return root, false
		}
		return fn(root), true
	}
	rs, ok := root.(RuleSet)
	if !ok {
		return root, false
	}
	i := p[0]
	if i < 0 || i >= len(rs.Children) {
		return root, false
	}
	child, ok := Update(rs.Children[i], p[1:], fn)
	if !ok {
		return root, false
	}
	return ReplaceChild(rs, i, child), true
}

// ReplaceChild returns a copy of rs with child i replaced. It panics when i
// is out of range.
func ReplaceChild(rs RuleSet, i int, n Node) RuleSet {
	children := make([]Node, len(rs.Children))
	copy(children, rs.Children)
	children[i] = n
	return RuleSet{Comparator: rs.Comparator, Children: children}
}

// InsertChild returns a copy of rs with n inserted at i. An index outside
// [0, len] is clamped.
func InsertChild(rs RuleSet, i int, n Node) RuleSet {
	i = max(0, min(i, len(rs.Children)))
	children := make([]Node, 0, len(rs.Children)+1)
	children = append(children, rs.Children[:i]...)
	children = append(children, n)
	children = append(children, rs.Children[i:]...)
	return RuleSet{Comparator: rs.Comparator, Children: children}
}

// RemoveChild returns a copy of rs without child i, preserving the order of
// the rest. It panics when i is out of range.
func RemoveChild(rs RuleSet, i int) RuleSet {
	children := make([]Node, 0, len(rs.Children)-1)
	children = append(children, rs.Children[:i]...)
	children = append(children, rs.Children[i+1:]...)
	return RuleSet{Comparator: rs.Comparator, Children: children}
}

// AppendChild returns a copy of rs with n appended.
func AppendChild(rs RuleSet, n Node) RuleSet {
	return InsertChild(rs, len(rs.Children), n)
}
