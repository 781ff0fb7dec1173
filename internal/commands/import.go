package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/dastanaron/favorites/internal/parser"
	"github.com/dastanaron/favorites/internal/service"
)

// ImportCommand handles bookmark import from a Netscape HTML file
type ImportCommand struct {
	editor *service.EditorService
	parser *parser.Parser
	out    io.Writer
}

// NewImportCommand creates a new import command
func NewImportCommand(editor *service.EditorService, out io.Writer) *ImportCommand {
	return &ImportCommand{
		editor: editor,
		parser: parser.NewParser(),
		out:    out,
	}
}

// Execute imports bookmarks from an HTML file into the session and saves it.
// With replace the draft's current content is dropped.
func (c *ImportCommand) Execute(filePath string, replace bool) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("cannot open file: %w", err)
	}
	defer file.Close()

	forest, err := c.parser.ParseBookmarksHTML(file)
	if err != nil {
		return fmt.Errorf("failed to parse HTML: %w", err)
	}

	c.editor.Import(forest, replace)
	if err := c.editor.Save(); err != nil {
		return err
	}

	fmt.Fprintln(c.out, success(fmt.Sprintf("Imported %d top level items into draft %q.", len(forest), c.editor.DraftName())))
	return nil
}

// LoadCommand handles import of a managed favorites JSON document
type LoadCommand struct {
	editor *service.EditorService
	out    io.Writer
}

// NewLoadCommand creates a new load command
func NewLoadCommand(editor *service.EditorService, out io.Writer) *LoadCommand {
	return &LoadCommand{editor: editor, out: out}
}

// Execute replaces the draft content with the document read from filePath
// ("-" reads stdin) and saves it
func (c *LoadCommand) Execute(filePath string, stdin io.Reader) error {
	var (
		data []byte
		err  error
	)
	if filePath == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(filePath)
	}
	if err != nil {
		return fmt.Errorf("cannot read document: %w", err)
	}

	if err := c.editor.LoadDocument(data); err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	if err := c.editor.Save(); err != nil {
		return err
	}

	fmt.Fprintln(c.out, success(fmt.Sprintf("Loaded %q into draft %q.", c.editor.Store().ContainerName(), c.editor.DraftName())))
	return nil
}
