// Package tree holds the favorites forest of one editing session and the
// address based operations on it.
//
// Nodes are located by models.Address, a path of sibling indices from the
// forest root. Every mutation may shift the addresses of later siblings and
// their descendants, so an address is only good until the next mutation:
// callers re-resolve (or re-list with ListFolders / Walk) after each change
// and never keep node references across one.
//
// A Store is not safe for concurrent use and its methods must not be called
// from inside a Walk callback that mutates.
package tree

import (
	"fmt"
	"strings"

	"github.com/dastanaron/favorites/internal/document"
	"github.com/dastanaron/favorites/internal/models"
)

const (
	// DefaultRootName labels the top level entry of ListFolders
	DefaultRootName = "Company Resources"
	// UnnamedFolderLabel is shown in ListFolders for folders without a name
	UnnamedFolderLabel = "(unnamed folder)"
)

// Store owns the forest and the names carried by the implicit root
type Store struct {
	forest        []models.Node
	containerName string
	rootName      string
}

// NewStore creates an empty store
func NewStore(containerName, rootName string) *Store {
	return &Store{
		forest:        []models.Node{},
		containerName: containerName,
		rootName:      rootName,
	}
}

// ContainerName returns the exported top level container name
func (s *Store) ContainerName() string { return s.containerName }

// SetContainerName sets the exported top level container name
func (s *Store) SetContainerName(name string) { s.containerName = name }

// RootName returns the display name of the top level folder entry
func (s *Store) RootName() string { return s.rootName }

// SetRootName sets the display name of the top level folder entry
func (s *Store) SetRootName(name string) { s.rootName = name }

// Forest returns the top level nodes. The slice is owned by the store and is
// only valid until the next mutation.
func (s *Store) Forest() []models.Node { return s.forest }

// Len returns the number of top level nodes
func (s *Store) Len() int { return len(s.forest) }

// AddFolder appends an empty folder to the folder at parent, or to the
// forest root when parent is empty, and returns its address.
func (s *Store) AddFolder(parent models.Address) (models.Address, error) {
	return s.add(parent, models.NewFolder(""))
}

// AddLink appends a link to the folder at parent. Name and url are stored
// verbatim; normalization happens on export.
func (s *Store) AddLink(parent models.Address, name, url string) (models.Address, error) {
	return s.add(parent, models.NewLink(name, url))
}

func (s *Store) add(parent models.Address, n models.Node) (models.Address, error) {
	children, err := s.childrenOf(parent)
	if err != nil {
		return nil, err
	}
	*children = append(*children, n)
	return parent.Child(len(*children) - 1), nil
}

// Rename sets the name of the node at addr
func (s *Store) Rename(addr models.Address, name string) error {
	n, err := s.Resolve(addr)
	if err != nil {
		return err
	}
	switch n := n.(type) {
	case *models.Folder:
		n.Name = name
	case *models.Link:
		n.Name = name
	}
	return nil
}

// SetURL sets the URL of the link at addr
func (s *Store) SetURL(addr models.Address, url string) error {
	n, err := s.Resolve(addr)
	if err != nil {
		return err
	}
	link, ok := n.(*models.Link)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotALink, addr)
	}
	link.URL = url
	return nil
}

// Remove deletes the node at addr. A folder is removed together with all of
// its descendants; see RemoveWithReparentToRoot for the alternative.
func (s *Store) Remove(addr models.Address) error {
	_, err := s.detach(addr)
	return err
}

func (s *Store) detach(addr models.Address) (models.Node, error) {
	children, index, err := s.ParentAndIndex(addr)
	if err != nil {
		return nil, err
	}
	n := (*children)[index]
	*children = append((*children)[:index:index], (*children)[index+1:]...)
	return n, nil
}

// ListFolders returns every folder in depth first pre-order, preceded by a
// synthetic entry for the top level.
func (s *Store) ListFolders() []models.FolderOption {
	rootName := strings.TrimSpace(s.rootName)
	if rootName == "" {
		rootName = DefaultRootName
	}
	out := []models.FolderOption{{Address: models.Root, Name: rootName, Depth: 0}}
	s.Walk(func(addr models.Address, n models.Node, depth int) bool {
		if f, ok := n.(*models.Folder); ok {
			name := f.Name
			if name == "" {
				name = UnnamedFolderLabel
			}
			out = append(out, models.FolderOption{Address: addr, Name: name, Depth: depth + 1})
		}
		return true
	})
	return out
}

// Walk visits every node in depth first pre-order with its address and depth
// (0 for top level nodes). Returning false stops the walk. The address passed
// to fn is a fresh copy.
func (s *Store) Walk(fn func(addr models.Address, n models.Node, depth int) bool) {
	walk(s.forest, models.Root, fn)
}

func walk(nodes []models.Node, parent models.Address, fn func(models.Address, models.Node, int) bool) bool {
	for i, n := range nodes {
		addr := parent.Child(i)
		if !fn(addr, n, len(parent)) {
			return false
		}
		if f, ok := n.(*models.Folder); ok {
			if !walk(f.Children, addr, fn) {
				return false
			}
		}
	}
	return true
}

// Document serializes the current state
func (s *Store) Document() ([]byte, error) {
	return document.Serialize(s.forest, s.containerName)
}

// Snapshot encodes the current state losslessly for draft storage. It loads
// back with LoadDocument.
func (s *Store) Snapshot() ([]byte, error) {
	return document.Encode(s.forest, s.containerName)
}

// LoadDocument replaces the forest and container name with the content of
// data. The store is left untouched when data does not parse.
func (s *Store) LoadDocument(data []byte) error {
	name, forest, err := document.Deserialize(data)
	if err != nil {
		return err
	}
	s.Replace(name, forest)
	return nil
}

// Replace swaps in a new forest and container name. The root name is kept.
func (s *Store) Replace(containerName string, forest []models.Node) {
	if forest == nil {
		forest = []models.Node{}
	}
	s.containerName = containerName
	s.forest = forest
}
