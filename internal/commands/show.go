package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/dastanaron/favorites/internal/document"
	"github.com/dastanaron/favorites/internal/models"
	"github.com/dastanaron/favorites/internal/service"
)

// ShowCommand prints the session as an indented tree with node addresses
type ShowCommand struct {
	editor *service.EditorService
	out    io.Writer
}

// NewShowCommand creates a new show command
func NewShowCommand(editor *service.EditorService, out io.Writer) *ShowCommand {
	return &ShowCommand{editor: editor, out: out}
}

// Execute prints the tree. With foldersOnly it prints the parent choices
// returned by ListFolders instead.
func (c *ShowCommand) Execute(foldersOnly bool) error {
	store := c.editor.Store()
	fmt.Fprintln(c.out, styleTitle.Render(orDefault(store.ContainerName(), document.DefaultContainerName))+
		" "+styleDim.Render(fmt.Sprintf("(draft %s)", c.editor.DraftName())))

	if foldersOnly {
		for _, opt := range store.ListFolders() {
			fmt.Fprintf(c.out, "%s%s %s\n", strings.Repeat("  ", opt.Depth),
				styleDim.Render(opt.Address.String()), styleFolder.Render(opt.Name))
		}
		return nil
	}

	if store.Len() == 0 {
		fmt.Fprintln(c.out, styleDim.Render("  (empty)"))
		return nil
	}

	store.Walk(func(addr models.Address, n models.Node, depth int) bool {
		indent := strings.Repeat("  ", depth+1)
		switch n := n.(type) {
		case *models.Folder:
			fmt.Fprintf(c.out, "%s%s %s/\n", indent, styleDim.Render(addr.String()),
				styleFolder.Render(orDefault(n.Name, document.UnnamedFolder)))
		case *models.Link:
			fmt.Fprintf(c.out, "%s%s %s %s\n", indent, styleDim.Render(addr.String()),
				orDefault(n.Name, document.UnnamedLink), styleLink.Render(document.NormalizeURL(n.URL)))
		}
		return true
	})
	return nil
}

// DraftsCommand lists saved drafts
type DraftsCommand struct {
	drafts *service.DraftService
	out    io.Writer
}

// NewDraftsCommand creates a new drafts command
func NewDraftsCommand(drafts *service.DraftService, out io.Writer) *DraftsCommand {
	return &DraftsCommand{drafts: drafts, out: out}
}

// Execute prints every draft, most recent first
func (c *DraftsCommand) Execute() error {
	list, err := c.drafts.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list drafts: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(c.out, "No drafts saved.")
		return nil
	}
	for _, d := range list {
		name, forest, err := document.Deserialize(d.Document)
		summary := fmt.Sprintf("%s, %d top level items", orDefault(name, document.DefaultContainerName), len(forest))
		if err != nil {
			summary = "unreadable: " + err.Error()
		}
		fmt.Fprintf(c.out, "%s %s %s\n", styleFolder.Render(d.Name),
			styleDim.Render(d.UpdatedAt.Format("2006-01-02 15:04")), summary)
	}
	return nil
}

// Remove deletes a draft
func (c *DraftsCommand) Remove(name string) error {
	if err := c.drafts.Delete(name); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	fmt.Fprintln(c.out, success(fmt.Sprintf("Deleted draft %q.", name)))
	return nil
}
