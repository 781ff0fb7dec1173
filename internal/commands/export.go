package commands

import (
	"fmt"
	"html"
	"io"
	"os"
	"strings"

	"github.com/dastanaron/favorites/internal/document"
	"github.com/dastanaron/favorites/internal/models"
	"github.com/dastanaron/favorites/internal/service"
)

// Export formats
const (
	FormatJSON   = "json"
	FormatPolicy = "policy"
	FormatHTML   = "html"
)

// ExportCommand handles export of the session to a file
type ExportCommand struct {
	editor *service.EditorService
	out    io.Writer
}

// NewExportCommand creates a new export command
func NewExportCommand(editor *service.EditorService, out io.Writer) *ExportCommand {
	return &ExportCommand{editor: editor, out: out}
}

// Execute writes the session in format to filePath. An empty path or "-"
// writes to the command output.
func (c *ExportCommand) Execute(filePath, format string) error {
	var data []byte
	var err error
	switch format {
	case FormatJSON, "":
		data, err = c.editor.Document()
	case FormatPolicy:
		data, err = c.editor.PolicyDocument()
	case FormatHTML:
		var b strings.Builder
		c.writeHTML(&b)
		data = []byte(b.String())
	default:
		return fmt.Errorf("unknown export format %q (want %s, %s or %s)", format, FormatJSON, FormatPolicy, FormatHTML)
	}
	if err != nil {
		return fmt.Errorf("failed to build document: %w", err)
	}

	if filePath == "" || filePath == "-" {
		_, err := fmt.Fprintln(c.out, string(data))
		return err
	}

	// Create file
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("cannot create file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("cannot write file: %w", err)
	}

	fmt.Fprintln(c.out, success(fmt.Sprintf("Exported draft %q to %s", c.editor.DraftName(), filePath)))
	return nil
}

// writeHTML writes the forest as a Netscape bookmark file
func (c *ExportCommand) writeHTML(w io.Writer) {
	store := c.editor.Store()

	// Write HTML header
	fmt.Fprintf(w, "<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	fmt.Fprintf(w, "<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	fmt.Fprintf(w, "<TITLE>Bookmarks</TITLE>\n")
	fmt.Fprintf(w, "<H1>%s</H1>\n", html.EscapeString(orDefault(store.ContainerName(), document.DefaultContainerName)))
	fmt.Fprintf(w, "<DL><p>\n")

	for _, n := range store.Forest() {
		c.writeNode(w, n, 1)
	}

	// Write HTML footer
	fmt.Fprintf(w, "</DL><p>\n")
}

func (c *ExportCommand) writeNode(w io.Writer, n models.Node, depth int) {
	indent := strings.Repeat("    ", depth)
	switch n := n.(type) {
	case *models.Folder:
		// Write folder header
		fmt.Fprintf(w, "%s<DT><H3>%s</H3>\n", indent, html.EscapeString(orDefault(n.Name, document.UnnamedFolder)))
		fmt.Fprintf(w, "%s<DL><p>\n", indent)
		for _, child := range n.Children {
			c.writeNode(w, child, depth+1)
		}
		// Close folder
		fmt.Fprintf(w, "%s</DL><p>\n", indent)
	case *models.Link:
		fmt.Fprintf(w, "%s<DT><A HREF=\"%s\">%s</A>\n", indent,
			html.EscapeString(document.NormalizeURL(n.URL)),
			html.EscapeString(orDefault(n.Name, document.UnnamedLink)))
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
