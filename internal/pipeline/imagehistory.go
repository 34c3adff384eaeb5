package pipeline

import (
	"sort"
	"strings"

	"github.com/ataluts/photo-scan-tools/internal/tags"
)

// FoldImageHistory renders the ImageHistory:* and Scanner:* tag groups
// into the ImageHistory text. A "^" in the current value marks where
// the rendered block is inserted; without one the block is appended.
// Marker-valued group members are left out.
func FoldImageHistory(s *tags.Store) {
	current, _ := s.Value("ImageHistory").Str()
	parts := strings.SplitN(current, "^", 3)
	head := parts[0]
	tail := ""
	if len(parts) > 1 {
		tail = parts[1]
	}

	flat := make(map[string]string)
	for _, name := range s.Names() {
		v := s.Value(name)
		if _, isMarker := v.Marker(); isMarker {
			continue
		}
		if rest, ok := strings.CutPrefix(name, "ImageHistory:"); ok {
			flat[rest] = historyValue(v)
		} else if strings.HasPrefix(name, "Scanner:") {
			flat[name] = historyValue(v)
		}
	}

	s.Set("ImageHistory", tags.String(head+renderNested(flat)+tail))
}

// historyValue renders a value for the history text. Booleans keep
// their capitalized spelling to match history blocks written by earlier
// tool versions.
func historyValue(v tags.Value) string {
	if b, ok := v.Bool(); ok {
		if b {
			return "True"
		}
		return "False"
	}
	return v.Format()
}

// node is one level of the colon-grouped key tree.
type node struct {
	value    string
	children map[string]*node
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

func (n *node) insert(parts []string, value string) {
	if len(parts) == 1 {
		child, ok := n.children[parts[0]]
		if !ok {
			child = newNode()
			n.children[parts[0]] = child
		}
		child.value = value
		return
	}
	child, ok := n.children[parts[0]]
	if !ok {
		child = newNode()
		n.children[parts[0]] = child
	}
	child.insert(parts[1:], value)
}

// renderNested formats a flat colon-keyed map as an indented block
// structure: "key: value;" entries and "key: { ... };" groups, one per
// line, keys sorted.
func renderNested(flat map[string]string) string {
	root := newNode()
	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		root.insert(strings.Split(key, ":"), flat[key])
	}

	var lines []string
	renderNode(root, "", &lines)
	return strings.Join(lines, "\n")
}

func renderNode(n *node, indent string, lines *[]string) {
	keys := make([]string, 0, len(n.children))
	for key := range n.children {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		child := n.children[key]
		if len(child.children) > 0 {
			*lines = append(*lines, indent+key+": {")
			renderNode(child, indent+"    ", lines)
			*lines = append(*lines, indent+"};")
		} else {
			*lines = append(*lines, indent+key+": "+child.value+";")
		}
	}
}
