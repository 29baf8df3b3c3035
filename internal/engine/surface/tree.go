package surface

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Node is a node in a structured surface. A node with no children is a
// text-bearing leaf; a node with children is a container and its own Text
// is ignored.
type Node struct {
	Text     string
	Children []*Node
}

// NewTextNode creates a text leaf.
func NewTextNode(text string) *Node {
	return &Node{Text: text}
}

// NewContainerNode creates a container with the given children.
func NewContainerNode(children ...*Node) *Node {
	return &Node{Children: children}
}

// IsLeaf returns true if the node carries text directly.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Tree is a structured surface: a tree of text-bearing leaf nodes addressed
// by cumulative character offset in document order (pre-order over leaves).
// The root is always a container. All methods are safe for concurrent use.
type Tree struct {
	mu       sync.RWMutex
	id       string
	root     *Node
	cursor   int
	detached bool
}

// NewTree creates a structured surface around the given root container.
// A nil root creates an empty surface.
func NewTree(root *Node) *Tree {
	if root == nil {
		root = &Node{Children: []*Node{}}
	}
	return &Tree{
		id:   uuid.NewString(),
		root: root,
	}
}

// leafRef locates one leaf within the tree.
type leafRef struct {
	node   *Node
	parent *Node
	index  int // position within parent.Children
	start  int // cumulative start offset of this leaf
}

// leafRefs walks the tree in document order collecting leaf locations.
// Must be called with the lock held.
func (t *Tree) leafRefs() []leafRef {
	var refs []leafRef
	cum := 0

	var walk func(n *Node)
	walk = func(n *Node) {
		for i, child := range n.Children {
			if child.IsLeaf() {
				refs = append(refs, leafRef{node: child, parent: n, index: i, start: cum})
				cum += len(child.Text)
				continue
			}
			walk(child)
		}
	}
	walk(t.root)

	return refs
}

// ID returns the surface identifier.
func (t *Tree) ID() string {
	return t.id
}

// PlainText returns the concatenation of all leaf text in document order.
func (t *Tree) PlainText() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var sb strings.Builder
	for _, ref := range t.leafRefs() {
		sb.WriteString(ref.node.Text)
	}
	return sb.String()
}

// Len returns the total text length in bytes.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	total := 0
	for _, ref := range t.leafRefs() {
		total += len(ref.node.Text)
	}
	return total
}

// Selection returns the collapsed cursor as a range.
func (t *Tree) Selection() (int, int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cursor, t.cursor
}

// SetCursor moves the cursor to the given offset.
func (t *Tree) SetCursor(offset int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.detached {
		return ErrDetached
	}
	if offset < 0 || offset > t.lenLocked() {
		return ErrRangeInvalid
	}

	t.cursor = offset
	return nil
}

// lenLocked computes total length with the lock held.
func (t *Tree) lenLocked() int {
	total := 0
	for _, ref := range t.leafRefs() {
		total += len(ref.node.Text)
	}
	return total
}

// Splice replaces [start, end) with text. The covered range is deleted
// from the leaves it spans, text is inserted as a new leaf at the deletion
// point, and the cursor collapses to immediately after the inserted leaf.
//
// The insertion leaf is the first leaf whose cumulative end offset is >=
// start; an offset exactly at a leaf boundary resolves to that leaf, not
// the next one.
func (t *Tree) Splice(start, end int, text string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.detached {
		return 0, ErrDetached
	}
	if err := validateRange(start, end, t.lenLocked()); err != nil {
		return 0, err
	}

	if end > start {
		t.deleteRangeLocked(start, end)
	}
	t.insertLeafLocked(start, text)

	t.cursor = start + len(text)
	return t.cursor, nil
}

// deleteRangeLocked removes [start, end) from the leaves spanning it.
// Leaves emptied by the deletion are removed from their parents.
func (t *Tree) deleteRangeLocked(start, end int) {
	var emptied []leafRef

	for _, ref := range t.leafRefs() {
		leafStart := ref.start
		leafEnd := ref.start + len(ref.node.Text)

		os := max(start, leafStart)
		oe := min(end, leafEnd)
		if os >= oe {
			continue
		}

		wasEmpty := ref.node.Text == ""
		ref.node.Text = ref.node.Text[:os-leafStart] + ref.node.Text[oe-leafStart:]
		if ref.node.Text == "" && !wasEmpty {
			emptied = append(emptied, ref)
		}
	}

	// Remove emptied leaves in reverse so earlier indices stay valid.
	for i := len(emptied) - 1; i >= 0; i-- {
		ref := emptied[i]
		ref.parent.Children = append(ref.parent.Children[:ref.index], ref.parent.Children[ref.index+1:]...)
	}
}

// insertLeafLocked inserts text as a new leaf at the given offset.
func (t *Tree) insertLeafLocked(offset int, text string) {
	leaf := NewTextNode(text)
	refs := t.leafRefs()

	if len(refs) == 0 {
		t.root.Children = append(t.root.Children, leaf)
		return
	}

	// First leaf whose cumulative end covers the offset; boundary ties
	// resolve to that leaf.
	target := refs[len(refs)-1]
	for _, ref := range refs {
		if ref.start+len(ref.node.Text) >= offset {
			target = ref
			break
		}
	}

	local := offset - target.start
	parent := target.parent

	switch {
	case local <= 0:
		parent.Children = insertChild(parent.Children, target.index, leaf)
	case local >= len(target.node.Text):
		parent.Children = insertChild(parent.Children, target.index+1, leaf)
	default:
		// Split the covering leaf around the insertion point.
		suffix := NewTextNode(target.node.Text[local:])
		target.node.Text = target.node.Text[:local]
		parent.Children = insertChild(parent.Children, target.index+1, leaf, suffix)
	}
}

// insertChild inserts nodes into a child slice at the given index.
func insertChild(children []*Node, index int, nodes ...*Node) []*Node {
	out := make([]*Node, 0, len(children)+len(nodes))
	out = append(out, children[:index]...)
	out = append(out, nodes...)
	out = append(out, children[index:]...)
	return out
}

// Attached reports whether the surface is still live.
func (t *Tree) Attached() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return !t.detached
}

// Detach marks the surface as removed from its document.
func (t *Tree) Detach() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.detached = true
}
