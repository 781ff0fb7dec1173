package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dastanaron/favorites/internal/models"
)

// Deserialize parses a document and returns its container name and forest.
//
// Besides the bare element array it accepts the forms the document takes
// inside browser policy files: {"ManagedFavorites": [...]}, the same object
// with the array encoded as a JSON string (registry and GPO exports), and a
// top level JSON string holding the array.
//
// Only a missing or malformed header is an error. Fields of the wrong type
// degrade to empty values, elements that are neither folder nor link are
// skipped, and URLs are taken verbatim.
func Deserialize(data []byte) (string, []models.Node, error) {
	elems, err := unwrap(data, 0)
	if err != nil {
		return "", nil, err
	}
	if len(elems) == 0 {
		return "", nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
	}

	var head map[string]json.RawMessage
	if err := json.Unmarshal(elems[0], &head); err != nil {
		return "", nil, fmt.Errorf("%w: first element is not an object", ErrInvalidDocument)
	}
	raw, ok := head["toplevel_name"]
	if !ok {
		return "", nil, fmt.Errorf("%w: missing toplevel_name", ErrInvalidDocument)
	}
	var name string
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", nil, fmt.Errorf("%w: toplevel_name is null", ErrInvalidDocument)
	}
	if err := json.Unmarshal(raw, &name); err != nil {
		return "", nil, fmt.Errorf("%w: toplevel_name is not a string", ErrInvalidDocument)
	}

	return name, parseNodes(elems[1:]), nil
}

// unwrap peels policy wrappers until it reaches the element array.
func unwrap(data []byte, depth int) ([]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || depth > 2 {
		return nil, fmt.Errorf("%w: not an array", ErrInvalidDocument)
	}

	switch data[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(data, &elems); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		return elems, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		inner, ok := obj[PolicyKey]
		if !ok {
			return nil, fmt.Errorf("%w: object without %s", ErrInvalidDocument, PolicyKey)
		}
		return unwrap(inner, depth+1)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		return unwrap([]byte(s), depth+1)
	}
	return nil, fmt.Errorf("%w: not an array", ErrInvalidDocument)
}

func parseNodes(elems []json.RawMessage) []models.Node {
	out := make([]models.Node, 0, len(elems))
	for _, e := range elems {
		if n := parseNode(e); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func parseNode(raw json.RawMessage) models.Node {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil
	}
	name := stringField(obj, "name")

	if children, ok := obj["children"]; ok {
		f := models.NewFolder(name)
		var elems []json.RawMessage
		if err := json.Unmarshal(children, &elems); err == nil {
			f.Children = parseNodes(elems)
		}
		return f
	}
	if _, ok := obj["url"]; ok {
		return models.NewLink(name, stringField(obj, "url"))
	}
	return nil
}

func stringField(obj map[string]json.RawMessage, key string) string {
	var s string
	if raw, ok := obj[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}
