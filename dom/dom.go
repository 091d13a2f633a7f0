// Package dom models the feed container: one node per rendered item index,
// each either a placeholder waiting for a player, a live player mount point or
// a static embed.
package dom

import (
	"errors"
	"fmt"

	"github.com/reelfeed/reelfeed/constant"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"golang.org/x/exp/slices"
)

var (
	// ErrDuplicateIndex is returned when a node for the index already exists.
	ErrDuplicateIndex = errors.New("node already exists")
	// ErrUnknownIndex is returned when no node exists for the index.
	ErrUnknownIndex = errors.New("no node for index")
)

// Kind is the type marker of a node.
type Kind int

const (
	KindPlaceholder Kind = iota
	KindPlayer
	KindEmbed
)

// Marker returns the type marker string carried by nodes of this kind.
func (k Kind) Marker() string {
	switch k {
	case KindPlaceholder:
		return constant.MarkerPlaceholder
	case KindPlayer:
		return constant.MarkerPlayer
	case KindEmbed:
		return constant.MarkerEmbed
	default:
		return fmt.Sprintf("kind-%d", int(k))
	}
}

func (k Kind) String() string {
	return k.Marker()
}

// Node is a value snapshot of a container child.
type Node struct {
	Index int
	// ID is unique across replacements, so a player bound to an old node
	// can be told apart from one bound to the current node.
	ID   string
	Kind Kind
	Ref  string
}

// Document is the index-keyed container. It is owned by the event loop.
type Document struct {
	nodes map[int]Node
	seq   uint64
}

// New returns an empty document.
func New() *Document {
	return &Document{nodes: make(map[int]Node)}
}

func (d *Document) id(index int, kind Kind) string {
	d.seq++
	return fmt.Sprintf("%s-%d-%d", kind.Marker(), index, d.seq)
}

// Append adds the node for index.
func (d *Document) Append(index int, kind Kind, ref string) (Node, error) {
	if _, ok := d.nodes[index]; ok {
		return Node{}, fmt.Errorf("%w: %d", ErrDuplicateIndex, index)
	}

	n := Node{Index: index, ID: d.id(index, kind), Kind: kind, Ref: ref}
	d.nodes[index] = n
	return n, nil
}

// Replace swaps the node at index for a fresh node of the given kind,
// keeping its media reference.
func (d *Document) Replace(index int, kind Kind) (Node, error) {
	old, ok := d.nodes[index]
	if !ok {
		return Node{}, fmt.Errorf("%w: %d", ErrUnknownIndex, index)
	}

	n := Node{Index: index, ID: d.id(index, kind), Kind: kind, Ref: old.Ref}
	d.nodes[index] = n
	return n, nil
}

// Node returns the node at index.
func (d *Document) Node(index int) mo.Option[Node] {
	n, ok := d.nodes[index]
	if !ok {
		return mo.None[Node]()
	}
	return mo.Some(n)
}

// Has reports whether index has been rendered.
func (d *Document) Has(index int) bool {
	_, ok := d.nodes[index]
	return ok
}

// Len returns the number of rendered nodes.
func (d *Document) Len() int {
	return len(d.nodes)
}

// Indices returns rendered indices in ascending order.
func (d *Document) Indices() []int {
	indices := lo.Keys(d.nodes)
	slices.Sort(indices)
	return indices
}

// Count returns how many nodes have the given kind.
func (d *Document) Count(kind Kind) int {
	return lo.CountBy(lo.Values(d.nodes), func(n Node) bool {
		return n.Kind == kind
	})
}

// Clear removes every node.
func (d *Document) Clear() {
	d.nodes = make(map[int]Node)
}
