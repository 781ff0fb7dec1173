package models

import "github.com/google/uuid"

// NodeKind represents the type of a node (folder or link)
type NodeKind string

const (
	NodeKindFolder NodeKind = "folder"
	NodeKindLink   NodeKind = "link"
)

// Node is either a *Folder or a *Link. The set of implementations is closed:
// the unexported marker method keeps other packages from adding cases, so a
// type switch over Folder and Link is exhaustive.
type Node interface {
	// NodeID returns the session-local stable id. It is never exported.
	NodeID() string
	NodeName() string
	Kind() NodeKind
	node()
}

// Folder represents a favorites folder. It owns its children; slice order is
// display order.
type Folder struct {
	ID       string
	Name     string
	Children []Node
}

// Link represents a single favorite
type Link struct {
	ID   string
	Name string
	URL  string
}

// NewFolder creates a folder with a fresh id and no children
func NewFolder(name string) *Folder {
	return &Folder{ID: uuid.NewString(), Name: name, Children: []Node{}}
}

// NewLink creates a link with a fresh id
func NewLink(name, url string) *Link {
	return &Link{ID: uuid.NewString(), Name: name, URL: url}
}

func (f *Folder) NodeID() string   { return f.ID }
func (f *Folder) NodeName() string { return f.Name }
func (f *Folder) Kind() NodeKind   { return NodeKindFolder }
func (*Folder) node()              {}

func (l *Link) NodeID() string   { return l.ID }
func (l *Link) NodeName() string { return l.Name }
func (l *Link) Kind() NodeKind   { return NodeKindLink }
func (*Link) node()              {}

// Contains reports whether target is f itself or any node below f.
func (f *Folder) Contains(target Node) bool {
	if Node(f) == target {
		return true
	}
	for _, c := range f.Children {
		if c == target {
			return true
		}
		if sub, ok := c.(*Folder); ok && sub.Contains(target) {
			return true
		}
	}
	return false
}

// FolderOption is one entry of the "choose a parent" list
type FolderOption struct {
	Address Address
	Name    string
	Depth   int // 0 for the synthetic top level entry
}
