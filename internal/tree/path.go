package tree

import (
	"errors"
	"fmt"

	"github.com/dastanaron/favorites/internal/models"
)

var (
	// ErrInvalidAddress is returned when an address does not resolve, or
	// resolves through a link.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrNotALink is returned when a URL is set on a folder
	ErrNotALink = errors.New("node is not a link")
	// ErrCyclicMove is returned when a move would nest a node under itself
	ErrCyclicMove = errors.New("cannot move a node into itself")
)

// Resolve walks the forest using each address component as a child index.
// Every node passed on the way must be a folder. The empty address does not
// name a node and fails.
func (s *Store) Resolve(addr models.Address) (models.Node, error) {
	if addr.IsRoot() {
		return nil, fmt.Errorf("%w: root is not a node", ErrInvalidAddress)
	}
	children, index, err := s.ParentAndIndex(addr)
	if err != nil {
		return nil, err
	}
	return (*children)[index], nil
}

// ParentAndIndex resolves the parent container of addr and returns a pointer
// to its children slice together with the terminal index, so callers can
// splice without walking twice. The index is checked against the slice.
func (s *Store) ParentAndIndex(addr models.Address) (*[]models.Node, int, error) {
	if addr.IsRoot() {
		return nil, 0, fmt.Errorf("%w: root has no parent", ErrInvalidAddress)
	}
	children, err := s.childrenOf(addr.Parent())
	if err != nil {
		return nil, 0, err
	}
	index := addr.Last()
	if index < 0 || index >= len(*children) {
		return nil, 0, fmt.Errorf("%w: %s: index %d out of range", ErrInvalidAddress, addr, index)
	}
	return children, index, nil
}

// childrenOf returns the children slice of the folder at addr, or of the
// forest root for the empty address.
func (s *Store) childrenOf(addr models.Address) (*[]models.Node, error) {
	children := &s.forest
	for depth, index := range addr {
		if index < 0 || index >= len(*children) {
			return nil, fmt.Errorf("%w: %s: index %d out of range at depth %d", ErrInvalidAddress, addr, index, depth)
		}
		folder, ok := (*children)[index].(*models.Folder)
		if !ok {
			return nil, fmt.Errorf("%w: %s: depth %d is not a folder", ErrInvalidAddress, addr, depth)
		}
		children = &folder.Children
	}
	return children, nil
}

// AddressOf finds the current address of n by identity. It returns false if
// n is not in the store.
func (s *Store) AddressOf(n models.Node) (models.Address, bool) {
	var found models.Address
	s.Walk(func(addr models.Address, node models.Node, _ int) bool {
		if node == n {
			found = addr
			return false
		}
		return true
	})
	return found, found != nil
}
