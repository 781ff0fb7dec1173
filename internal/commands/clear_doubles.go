package commands

import (
	"fmt"
	"io"

	"github.com/dastanaron/favorites/internal/config"
	"github.com/dastanaron/favorites/internal/document"
	"github.com/dastanaron/favorites/internal/models"
	"github.com/dastanaron/favorites/internal/service"
)

// ClearDoublesCommand handles removal of duplicate links
type ClearDoublesCommand struct {
	editor *service.EditorService
	out    io.Writer
}

// NewClearDoublesCommand creates a new clear doubles command
func NewClearDoublesCommand(editor *service.EditorService, out io.Writer) *ClearDoublesCommand {
	return &ClearDoublesCommand{editor: editor, out: out}
}

// Execute removes links whose exported URL repeats an earlier one (keeps the
// first in display order) and saves the draft. With dryRun nothing changes.
func (c *ClearDoublesCommand) Execute(dryRun bool) error {
	type dup struct {
		addr models.Address
		name string
		kept models.Address
	}

	// Track seen URLs and duplicates to delete
	seenURLs := make(map[string]models.Address)
	var duplicates []dup

	c.editor.Store().Walk(func(addr models.Address, n models.Node, _ int) bool {
		link, ok := n.(*models.Link)
		if !ok || link.URL == "" {
			return true
		}
		url := document.NormalizeURL(link.URL)
		if kept, exists := seenURLs[url]; exists {
			duplicates = append(duplicates, dup{addr: addr, name: link.Name, kept: kept})
		} else {
			seenURLs[url] = addr
		}
		return true
	})

	if len(duplicates) == 0 {
		fmt.Fprintln(c.out, "No duplicate links found.")
		return nil
	}

	for _, d := range duplicates {
		fmt.Fprintf(c.out, "%s Found duplicate: '%s' at %s (keeping %s)\n", styleDim.Render(iconInfo), d.name, d.addr, d.kept)
	}
	if dryRun {
		return nil
	}

	// Removal runs in reverse pre-order: a removal only shifts nodes that
	// come later in pre-order, so the remaining addresses stay valid.
	for i := len(duplicates) - 1; i >= 0; i-- {
		if err := c.editor.Delete(duplicates[i].addr, config.DeleteDiscard); err != nil {
			return fmt.Errorf("failed to delete %s: %w", duplicates[i].addr, err)
		}
	}
	if err := c.editor.Save(); err != nil {
		return err
	}

	fmt.Fprintln(c.out, success(fmt.Sprintf("Deleted %d duplicate link(s).", len(duplicates))))
	return nil
}
