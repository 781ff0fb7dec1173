package tree

import (
	"fmt"
	"strings"

	"github.com/dastanaron/favorites/internal/models"
)

// Placement says where MoveNode puts the node relative to the target
type Placement int

const (
	// Before inserts in front of the target, within the target's parent
	Before Placement = iota
	// After inserts behind the target, within the target's parent
	After
	// IntoFolder appends as the last child of the target folder
	IntoFolder
	// AppendToRoot appends to the forest root; the target is ignored
	AppendToRoot
)

var placementNames = map[Placement]string{
	Before:       "before",
	After:        "after",
	IntoFolder:   "into",
	AppendToRoot: "root",
}

func (p Placement) String() string {
	if name, ok := placementNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Placement(%d)", int(p))
}

// ParsePlacement accepts the String form of a placement
func ParsePlacement(s string) (Placement, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range placementNames {
		if s == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown placement %q (want before, after, into or root)", s)
}

// MoveNode detaches the node at src and reinserts it according to p,
// returning its new address. Both addresses are interpreted against the tree
// as it is before the move.
//
// A target equal to src or below it fails with ErrCyclicMove, as does any
// destination folder that lies inside the moved node. All checks run before
// the tree is touched, so a failed move changes nothing.
func (s *Store) MoveNode(src, target models.Address, p Placement) (models.Address, error) {
	if src.IsRoot() {
		return nil, fmt.Errorf("%w: cannot move the root", ErrInvalidAddress)
	}
	if p != AppendToRoot && target.HasPrefix(src) {
		return nil, fmt.Errorf("%w: %s onto %s", ErrCyclicMove, src, target)
	}

	moved, err := s.Resolve(src)
	if err != nil {
		return nil, err
	}

	// Destination is captured by reference: detaching src may shift the
	// target's address but never its identity.
	var (
		dest   *[]models.Node
		anchor models.Node
		folder *models.Folder
	)
	switch p {
	case AppendToRoot:
		dest = &s.forest
	case IntoFolder:
		n, err := s.Resolve(target)
		if err != nil {
			return nil, err
		}
		f, ok := n.(*models.Folder)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a folder", ErrInvalidAddress, target)
		}
		folder = f
		dest = &f.Children
	case Before, After:
		if anchor, err = s.Resolve(target); err != nil {
			return nil, err
		}
		if dest, err = s.childrenOf(target.Parent()); err != nil {
			return nil, err
		}
		if folder, err = s.folderAt(target.Parent()); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown placement %d", int(p))
	}

	if mf, ok := moved.(*models.Folder); ok && folder != nil && mf.Contains(folder) {
		return nil, fmt.Errorf("%w: %s into its own subtree", ErrCyclicMove, src)
	}

	if _, err := s.detach(src); err != nil {
		return nil, err
	}

	index := len(*dest)
	if anchor != nil {
		for i, n := range *dest {
			if n == anchor {
				index = i
				break
			}
		}
		if p == After {
			index++
		}
	}
	*dest = insertAt(*dest, index, moved)

	addr, _ := s.AddressOf(moved)
	return addr, nil
}

// folderAt returns the folder at addr, or nil for the root
func (s *Store) folderAt(addr models.Address) (*models.Folder, error) {
	if addr.IsRoot() {
		return nil, nil
	}
	n, err := s.Resolve(addr)
	if err != nil {
		return nil, err
	}
	f, ok := n.(*models.Folder)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a folder", ErrInvalidAddress, addr)
	}
	return f, nil
}

func insertAt(nodes []models.Node, index int, n models.Node) []models.Node {
	out := make([]models.Node, 0, len(nodes)+1)
	out = append(out, nodes[:index]...)
	out = append(out, n)
	return append(out, nodes[index:]...)
}

// RemoveWithReparentToRoot deletes the node at addr. If it is a folder its
// direct children are appended to the forest root in their original order
// instead of being discarded.
func (s *Store) RemoveWithReparentToRoot(addr models.Address) error {
	n, err := s.detach(addr)
	if err != nil {
		return err
	}
	if f, ok := n.(*models.Folder); ok {
		s.forest = append(s.forest, f.Children...)
	}
	return nil
}
