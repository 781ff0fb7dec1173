package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Address locates a node by the sibling index taken at each depth, starting
// at the forest root. The empty address denotes the root itself.
//
// Addresses are positional, not identities: inserting, removing or moving a
// sibling shifts every later sibling and all of their descendants. Callers
// must re-resolve after any mutation and never hold an Address across one.
type Address []int

// Root is the address of the implicit top level container
var Root = Address{}

// IsRoot reports whether a points at the implicit root
func (a Address) IsRoot() bool {
	return len(a) == 0
}

// Equal compares two addresses by value
func (a Address) Equal(b Address) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is a (non-strict) ancestor path of a.
func (a Address) HasPrefix(prefix Address) bool {
	if len(prefix) > len(a) {
		return false
	}
	return a[:len(prefix)].Equal(prefix)
}

// Parent returns the address of the containing folder. Parent of the root is
// the root.
func (a Address) Parent() Address {
	if len(a) == 0 {
		return Root
	}
	return a.clone()[:len(a)-1]
}

// Last returns the terminal index, or -1 for the root
func (a Address) Last() int {
	if len(a) == 0 {
		return -1
	}
	return a[len(a)-1]
}

// Child returns a new address one level below a
func (a Address) Child(index int) Address {
	out := make(Address, len(a), len(a)+1)
	copy(out, a)
	return append(out, index)
}

func (a Address) clone() Address {
	out := make(Address, len(a))
	copy(out, a)
	return out
}

// String renders the address as dotted indices, "/" for the root
func (a Address) String() string {
	if len(a) == 0 {
		return "/"
	}
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ".")
}

// ParseAddress parses the String form. "", "/" and "root" parse to the root.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "/" || strings.EqualFold(s, "root") {
		return Root, nil
	}
	parts := strings.Split(s, ".")
	out := make(Address, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid address component %q in %q", p, s)
		}
		out = append(out, v)
	}
	return out, nil
}
