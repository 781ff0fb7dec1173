// Package document converts a favorites forest to and from the managed
// favorites JSON schema:
//
//	[
//	  {"toplevel_name": "Managed Favorites"},
//	  {"name": "Docs", "children": [{"name": "Go", "url": "https://go.dev"}]},
//	  {"name": "Search", "url": "https://example.com"}
//	]
//
// A folder is recognised by its "children" key and a link by its "url" key;
// the schema carries no version field.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/dastanaron/favorites/internal/models"
)

const (
	// DefaultContainerName is exported when the container name is blank
	DefaultContainerName = "Managed Favorites"
	// UnnamedFolder replaces empty folder names on export
	UnnamedFolder = "Unnamed folder"
	// UnnamedLink replaces empty link names on export
	UnnamedLink = "Unnamed link"
	// InvalidURL marks a link exported without a URL so consumers can spot it
	InvalidURL = "about:invalid"

	// PolicyKey is the browser policy name holding the document
	PolicyKey = "ManagedFavorites"
)

// ErrInvalidDocument is returned when the payload does not have the
// [{"toplevel_name": ...}, ...] shape.
var ErrInvalidDocument = errors.New("invalid favorites document")

type header struct {
	ToplevelName string `json:"toplevel_name"`
}

// Field order of these structs is the key order of the output.
type folderEntry struct {
	Name     string `json:"name"`
	Children []any  `json:"children"`
}

type linkEntry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// NormalizeURL prepends https:// when url has no http or https scheme. An
// empty url becomes InvalidURL.
func NormalizeURL(url string) string {
	if url == "" {
		return InvalidURL
	}
	if url == InvalidURL || strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return "https://" + url
}

// Build returns the document elements for forest: the header record followed
// by one entry per top level node.
func Build(forest []models.Node, containerName string) []any {
	name := strings.TrimSpace(containerName)
	if name == "" {
		name = DefaultContainerName
	}
	out := make([]any, 0, len(forest)+1)
	out = append(out, header{ToplevelName: name})
	return append(out, entries(forest, true)...)
}

// entries renders nodes. Unless export is set, names and URLs are written
// as stored.
func entries(nodes []models.Node, export bool) []any {
	out := make([]any, 0, len(nodes))
	for _, n := range nodes {
		switch n := n.(type) {
		case *models.Folder:
			name := n.Name
			if export {
				name = orDefault(name, UnnamedFolder)
			}
			out = append(out, folderEntry{Name: name, Children: entries(n.Children, export)})
		case *models.Link:
			name, url := n.Name, n.URL
			if export {
				name, url = orDefault(name, UnnamedLink), NormalizeURL(url)
			}
			out = append(out, linkEntry{Name: name, URL: url})
		}
	}
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Serialize renders forest as a pretty printed document with two space
// indentation. URLs are not HTML-escaped.
func Serialize(forest []models.Node, containerName string) ([]byte, error) {
	return encode(Build(forest, containerName))
}

// Encode renders forest in the document schema without placeholders or URL
// normalization, so Deserialize gives back exactly the stored names, URLs and
// container name. Drafts are kept in this form; Serialize is for export.
func Encode(forest []models.Node, containerName string) ([]byte, error) {
	out := make([]any, 0, len(forest)+1)
	out = append(out, header{ToplevelName: containerName})
	return encode(append(out, entries(forest, false)...))
}

// WrapPolicy wraps a serialized document into a policy file object
// {"ManagedFavorites": [...]}, the form read from the browser's managed
// policy directory.
func WrapPolicy(doc []byte) ([]byte, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(doc, &elems); err != nil {
		return nil, errors.Join(ErrInvalidDocument, err)
	}
	return encode(map[string][]json.RawMessage{PolicyKey: elems})
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
