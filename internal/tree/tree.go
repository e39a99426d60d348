// Package tree builds and renders a hierarchical view of retained file paths.
package tree

import (
	"sort"
	"strings"
)

const (
	branchConnector = "├── "
	lastConnector   = "└── "
	branchPadding   = "│   "
	lastPadding     = "    "
	// directorySuffix visually distinguishes directory nodes from leaf files.
	directorySuffix  = "/"
	segmentSeparator = "/"
)

// Node is a path-segment trie node. A node with no children is a leaf file;
// otherwise it is a directory. Children stay sorted lexicographically by
// segment name.
type Node struct {
	children map[string]*Node
	order    []string
}

// NewNode returns an empty trie node.
func NewNode() *Node {
	return &Node{children: make(map[string]*Node)}
}

// Insert adds every segment of the forward-slash relative path to the trie.
func (node *Node) Insert(relativePath string) {
	segments := strings.Split(relativePath, segmentSeparator)
	current := node
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		child, exists := current.children[segment]
		if !exists {
			child = NewNode()
			current.children[segment] = child
			insertIndex := sort.SearchStrings(current.order, segment)
			current.order = append(current.order, "")
			copy(current.order[insertIndex+1:], current.order[insertIndex:])
			current.order[insertIndex] = segment
		}
		current = child
	}
}

// render walks the trie depth-first writing one line per child. The last
// child at each level uses the terminating connector.
func (node *Node) render(builder *strings.Builder, prefix string) {
	childCount := len(node.order)
	for index, segment := range node.order {
		child := node.children[segment]
		isLast := index == childCount-1
		connector := branchConnector
		childPrefix := prefix + branchPadding
		if isLast {
			connector = lastConnector
			childPrefix = prefix + lastPadding
		}
		displayName := segment
		if len(child.children) > 0 {
			displayName += directorySuffix
		}
		builder.WriteString(prefix)
		builder.WriteString(connector)
		builder.WriteString(displayName)
		builder.WriteString("\n")
		child.render(builder, childPrefix)
	}
}

// Render builds a trie from the relative paths and returns the rendered view
// with rootLabel printed once above it.
func Render(rootLabel string, relativePaths []string) string {
	root := NewNode()
	for _, relativePath := range relativePaths {
		root.Insert(relativePath)
	}

	var builder strings.Builder
	builder.WriteString(rootLabel)
	builder.WriteString("\n")
	root.render(&builder, "")
	return builder.String()
}
