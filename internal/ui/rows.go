package ui

import (
	"fmt"
	"strings"

	"github.com/dastanaron/favorites/internal/document"
	"github.com/dastanaron/favorites/internal/models"
	"github.com/dastanaron/favorites/internal/tree"
)

// row is one line of the tree list. The first row is always the top level
// container with a nil node.
type row struct {
	addr  models.Address
	node  models.Node
	depth int
}

func (r row) isRoot() bool { return r.node == nil }

// buildRows flattens the store in display order
func buildRows(store *tree.Store) []row {
	rows := []row{{addr: models.Root}}
	store.Walk(func(addr models.Address, n models.Node, depth int) bool {
		rows = append(rows, row{addr: addr, node: n, depth: depth + 1})
		return true
	})
	return rows
}

// rowLabel renders the main text of a row
func rowLabel(r row, rootName string) string {
	if r.isRoot() {
		return "📁 " + rootName
	}
	indent := strings.Repeat("  ", r.depth-1)
	switch n := r.node.(type) {
	case *models.Folder:
		name := n.Name
		if name == "" {
			name = tree.UnnamedFolderLabel
		}
		return fmt.Sprintf("%s└─ 📁 %s", indent, name)
	case *models.Link:
		name := n.Name
		if name == "" {
			name = "(unnamed link)"
		}
		return fmt.Sprintf("%s└─ %s", indent, name)
	}
	return indent
}

// parentFor returns the folder new nodes go into when r is selected: the
// folder itself, or the parent of a link
func parentFor(r row) models.Address {
	if r.isRoot() {
		return models.Root
	}
	if _, ok := r.node.(*models.Folder); ok {
		return r.addr
	}
	return r.addr.Parent()
}

// indexOf returns the row index of addr, or 0 (the root row) when absent
func indexOf(rows []row, addr models.Address) int {
	for i, r := range rows {
		if !r.isRoot() && r.addr.Equal(addr) {
			return i
		}
	}
	return 0
}

// folderChoices is the parent drop-down content derived from ListFolders
func folderChoices(store *tree.Store) ([]string, []models.Address) {
	opts := store.ListFolders()
	labels := make([]string, len(opts))
	addrs := make([]models.Address, len(opts))
	for i, o := range opts {
		labels[i] = strings.Repeat("  ", o.Depth) + o.Name
		addrs[i] = o.Address
	}
	return labels, addrs
}

// moveTargets lists the rows a node at src may be placed against. Rows inside
// src itself are left out.
func moveTargets(rows []row, src models.Address, rootName string) ([]string, []models.Address) {
	var labels []string
	var addrs []models.Address
	for _, r := range rows {
		if r.isRoot() || r.addr.HasPrefix(src) {
			continue
		}
		labels = append(labels, fmt.Sprintf("%s  %s", r.addr, strings.TrimSpace(rowLabel(r, rootName))))
		addrs = append(addrs, r.addr)
	}
	return labels, addrs
}

func displayURL(l *models.Link) string {
	return document.NormalizeURL(l.URL)
}
