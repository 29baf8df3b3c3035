package surface

import (
	"errors"
	"testing"
)

// buildTree assembles root -> [leaf "hello ", container [leaf ":sig"], leaf " end"].
func buildTree() *Tree {
	return NewTree(NewContainerNode(
		NewTextNode("hello "),
		NewContainerNode(NewTextNode(":sig")),
		NewTextNode(" end"),
	))
}

func TestTreePlainText(t *testing.T) {
	tr := buildTree()

	if got := tr.PlainText(); got != "hello :sig end" {
		t.Errorf("text = %q, want %q", got, "hello :sig end")
	}
	if tr.Len() != len("hello :sig end") {
		t.Errorf("len = %d, want %d", tr.Len(), len("hello :sig end"))
	}
}

func TestTreeSpliceWithinLeaf(t *testing.T) {
	tr := buildTree()

	// Replace ":sig" (offsets 6..10), which lives in the nested leaf.
	cursor, err := tr.Splice(6, 10, "EXPANDED")
	if err != nil {
		t.Fatalf("splice: %v", err)
	}

	if got := tr.PlainText(); got != "hello EXPANDED end" {
		t.Errorf("text = %q, want %q", got, "hello EXPANDED end")
	}
	if cursor != 6+len("EXPANDED") {
		t.Errorf("cursor = %d, want %d", cursor, 6+len("EXPANDED"))
	}
}

func TestTreeSpliceAcrossLeaves(t *testing.T) {
	tr := buildTree()

	// Delete from inside the first leaf through the nested leaf.
	if _, err := tr.Splice(4, 12, "-"); err != nil {
		t.Fatalf("splice: %v", err)
	}
	if got := tr.PlainText(); got != "hell-nd" {
		t.Errorf("text = %q, want %q", got, "hell-nd")
	}
}

func TestTreeSpliceMidLeafSplits(t *testing.T) {
	tr := NewTree(NewContainerNode(NewTextNode("abcdef")))

	if _, err := tr.Splice(3, 3, "XY"); err != nil {
		t.Fatalf("splice: %v", err)
	}
	if got := tr.PlainText(); got != "abcXYdef" {
		t.Errorf("text = %q, want %q", got, "abcXYdef")
	}

	// The covering leaf was split around the inserted leaf.
	if n := len(tr.root.Children); n != 3 {
		t.Errorf("child count = %d, want 3", n)
	}
}

func TestTreeSpliceBoundaryTieResolvesToEarlierLeaf(t *testing.T) {
	tr := NewTree(NewContainerNode(NewTextNode("ab"), NewTextNode("cd")))

	// Offset 2 is the boundary between the leaves; the insertion must
	// attach to the first leaf (after it), not split or precede "cd".
	if _, err := tr.Splice(2, 2, "X"); err != nil {
		t.Fatalf("splice: %v", err)
	}
	if got := tr.PlainText(); got != "abXcd" {
		t.Errorf("text = %q, want %q", got, "abXcd")
	}

	children := tr.root.Children
	if len(children) != 3 {
		t.Fatalf("child count = %d, want 3", len(children))
	}
	if children[0].Text != "ab" || children[1].Text != "X" || children[2].Text != "cd" {
		t.Errorf("children = %q,%q,%q", children[0].Text, children[1].Text, children[2].Text)
	}
}

func TestTreeSpliceAtStartAndEnd(t *testing.T) {
	tr := NewTree(NewContainerNode(NewTextNode("mid")))

	if _, err := tr.Splice(0, 0, "pre-"); err != nil {
		t.Fatalf("splice at start: %v", err)
	}
	if _, err := tr.Splice(tr.Len(), tr.Len(), "-post"); err != nil {
		t.Fatalf("splice at end: %v", err)
	}
	if got := tr.PlainText(); got != "pre-mid-post" {
		t.Errorf("text = %q, want %q", got, "pre-mid-post")
	}
}

func TestTreeSpliceEmptyTree(t *testing.T) {
	tr := NewTree(nil)

	cursor, err := tr.Splice(0, 0, "first")
	if err != nil {
		t.Fatalf("splice: %v", err)
	}
	if got := tr.PlainText(); got != "first" {
		t.Errorf("text = %q, want %q", got, "first")
	}
	if cursor != 5 {
		t.Errorf("cursor = %d, want 5", cursor)
	}
}

func TestTreeDeletionDropsEmptiedLeaves(t *testing.T) {
	tr := NewTree(NewContainerNode(
		NewTextNode("aa"),
		NewTextNode("bb"),
		NewTextNode("cc"),
	))

	// Deleting "bb" entirely removes its leaf; the insertion leaf takes
	// its place.
	if _, err := tr.Splice(2, 4, "Z"); err != nil {
		t.Fatalf("splice: %v", err)
	}
	if got := tr.PlainText(); got != "aaZcc" {
		t.Errorf("text = %q, want %q", got, "aaZcc")
	}
}

func TestTreeFullReplaceRestoresText(t *testing.T) {
	tr := buildTree()
	original := tr.PlainText()

	if _, err := tr.Splice(6, 10, "BIG EXPANSION"); err != nil {
		t.Fatalf("splice: %v", err)
	}
	if _, err := tr.Splice(0, tr.Len(), original); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := tr.PlainText(); got != original {
		t.Errorf("text = %q, want %q", got, original)
	}
}

func TestTreeDetached(t *testing.T) {
	tr := buildTree()
	tr.Detach()

	if tr.Attached() {
		t.Error("expected detached")
	}
	if _, err := tr.Splice(0, 0, "x"); !errors.Is(err, ErrDetached) {
		t.Errorf("splice err = %v, want ErrDetached", err)
	}
}

func TestTreeSetCursor(t *testing.T) {
	tr := buildTree()

	if err := tr.SetCursor(3); err != nil {
		t.Fatalf("set cursor: %v", err)
	}
	if start, end := tr.Selection(); start != 3 || end != 3 {
		t.Errorf("selection = [%d,%d], want collapsed at 3", start, end)
	}
	if err := tr.SetCursor(tr.Len() + 1); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("err = %v, want ErrRangeInvalid", err)
	}
}
