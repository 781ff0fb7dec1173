package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dastanaron/favorites/internal/config"
	"github.com/dastanaron/favorites/internal/document"
	"github.com/dastanaron/favorites/internal/models"
	"github.com/dastanaron/favorites/internal/service"
	"github.com/dastanaron/favorites/internal/tree"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	ModeNormal = 1
	ModeForm   = 2
	ModeModal  = 3
)

var placementOptions = []tree.Placement{tree.Before, tree.After, tree.IntoFolder, tree.AppendToRoot}

// App represents the TUI editor. It keeps only addresses of the current
// rows and rebuilds them after every mutation.
type App struct {
	app       *tview.Application
	list      *tview.List
	detail    *tview.TextView
	preview   *tview.TextView
	status    *tview.TextView
	pages     *tview.Pages
	mode      uint8
	rows      []row
	editor    *service.EditorService
	cfg       *config.Config
	onPreview bool // true = focus on the document preview
}

// NewApp creates a new application instance
func NewApp(editor *service.EditorService, cfg *config.Config) *App {
	return &App{
		app:     tview.NewApplication(),
		list:    tview.NewList().ShowSecondaryText(false),
		detail:  tview.NewTextView().SetDynamicColors(true).SetWrap(true),
		preview: tview.NewTextView().SetScrollable(true).SetWrap(false),
		status:  tview.NewTextView().SetDynamicColors(true),
		pages:   tview.NewPages(),
		mode:    ModeNormal,
		editor:  editor,
		cfg:     cfg,
	}
}

// Run starts the application
func (a *App) Run() error {
	a.list.SetBorder(true).SetTitle("Favorites")
	a.detail.SetBorder(true).SetTitle("Details")
	a.preview.SetBorder(true).SetTitle("Document")

	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.detail, 8, 0, false).
		AddItem(a.preview, 0, 1, false)

	cols := tview.NewFlex().
		AddItem(a.list, 0, 1, true).
		AddItem(right, 0, 1, false)

	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(cols, 0, 1, true).
		AddItem(a.status, 1, 0, false)

	a.pages.AddPage("main", main, true, true)

	a.list.SetChangedFunc(a.onSelect)
	a.editor.OnChange(a.updatePreview)

	a.refresh(models.Root)
	a.updatePreview()

	a.app.SetRoot(a.pages, true)
	a.app.SetInputCapture(a.globalInput)
	a.updateStatus()
	a.app.SetFocus(a.list)
	return a.app.Run()
}

func (a *App) updateStatus() {
	dirty := ""
	if a.editor.Dirty() {
		dirty = " [::b]*[::-]"
	}
	var links, folders int
	for _, r := range a.rows {
		switch r.node.(type) {
		case *models.Folder:
			folders++
		case *models.Link:
			links++
		}
	}
	countText := fmt.Sprintf("  %s%s: %d folders, %d links", tview.Escape(a.editor.DraftName()), dirty, folders, links)

	statusText := "[::b]f[::-] folder  [::b]a[::-] link  [::b]e[::-] edit  [::b]m[::-] move  [::b]d[::-]/[::b]D[::-] del  [::b]n[::-] names  [::b]s[::-] save  [::b]Tab[::-] preview  [::b]q[::-] quit"
	if a.onPreview {
		statusText = "[::b]Tab[::-] back to tree  [::b]q[::-] quit"
	}
	a.status.SetText(statusText + countText)
}

// refresh rebuilds the rows from the store and selects addr
func (a *App) refresh(selectAddr models.Address) {
	a.rows = buildRows(a.editor.Store())
	rootName := a.rootLabel()

	a.list.Clear()
	for _, r := range a.rows {
		a.list.AddItem(tview.Escape(rowLabel(r, rootName)), "", 0, nil)
	}
	a.list.SetTitle(fmt.Sprintf("Favorites (%s)", tview.Escape(a.editor.DraftName())))

	index := 0
	if selectAddr != nil && !selectAddr.IsRoot() {
		index = indexOf(a.rows, selectAddr)
	}
	a.list.SetCurrentItem(index)
	a.showDetails()
	a.updateStatus()
}

func (a *App) rootLabel() string {
	return a.editor.Store().ListFolders()[0].Name
}

func (a *App) updatePreview() {
	doc, err := a.editor.Document()
	if err != nil {
		a.preview.SetText("error: " + err.Error())
		return
	}
	a.preview.SetText(string(doc))
}

// current returns the selected row
func (a *App) current() (row, bool) {
	index := a.list.GetCurrentItem()
	if index < 0 || index >= len(a.rows) {
		return row{}, false
	}
	return a.rows[index], true
}

func (a *App) onSelect(index int, mainText, secondaryText string, shortcut rune) {
	a.showDetails()
}

func (a *App) showDetails() {
	r, ok := a.current()
	if !ok {
		a.detail.SetText("")
		return
	}

	store := a.editor.Store()
	var text string
	switch n := r.node.(type) {
	case nil:
		text = fmt.Sprintf(
			"[::b]Container:[::-] %s\n[::b]Top level:[::-] %s\n[::b]Items:[::-] %d",
			tview.Escape(nonEmpty(store.ContainerName(), document.DefaultContainerName)),
			tview.Escape(a.rootLabel()), store.Len())
	case *models.Folder:
		text = fmt.Sprintf(
			"[::b]Type:[::-] Folder\n[::b]Name:[::-] %s\n[::b]Address:[::-] %s\n[::b]Children:[::-] %d",
			tview.Escape(n.Name), r.addr, len(n.Children))
	case *models.Link:
		text = fmt.Sprintf(
			"[::b]Type:[::-] Link\n[::b]Name:[::-] %s\n[::b]URL:[::-] %s\n[::b]Exported as:[::-] %s\n[::b]Address:[::-] %s",
			tview.Escape(n.Name), tview.Escape(n.URL), tview.Escape(displayURL(n)), r.addr)
	}
	a.detail.SetText(text)
}

func nonEmpty(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func (a *App) setMode(m uint8) {
	a.mode = m
	if m == ModeNormal {
		if a.onPreview {
			a.app.SetFocus(a.preview)
		} else {
			a.app.SetFocus(a.list)
		}
	}
}

// toggleFocus switches focus between the tree and the document preview
func (a *App) toggleFocus() {
	a.onPreview = !a.onPreview
	if a.onPreview {
		a.app.SetFocus(a.preview)
	} else {
		a.app.SetFocus(a.list)
	}
	a.updateStatus()
}

func (a *App) globalInput(event *tcell.EventKey) *tcell.EventKey {
	// Modals handle their own keys
	if a.pages.HasPage("confirm") || a.pages.HasPage("error") {
		return event
	}

	switch a.mode {
	case ModeNormal:
		if event.Key() == tcell.KeyTab {
			a.toggleFocus()
			return nil
		}
		if event.Key() != tcell.KeyRune {
			return event
		}
		if event.Rune() == 'q' {
			a.quit()
			return nil
		}
		if a.onPreview {
			return event
		}

		r, ok := a.current()
		if !ok {
			return event
		}
		switch event.Rune() {
		case 'f':
			a.showFolderForm(parentFor(r))
			return nil
		case 'a':
			a.showLinkForm(parentFor(r))
			return nil
		case 'e':
			if r.isRoot() {
				a.showNamesForm()
			} else {
				a.showEditForm(r)
			}
			return nil
		case 'n':
			a.showNamesForm()
			return nil
		case 'm':
			if !r.isRoot() {
				a.showMoveForm(r)
			}
			return nil
		case 'd':
			if !r.isRoot() {
				a.confirmDelete(r, a.cfg.DeletePolicy)
			}
			return nil
		case 'D':
			if !r.isRoot() {
				a.confirmDelete(r, otherPolicy(a.cfg.DeletePolicy))
			}
			return nil
		case 's':
			if err := a.editor.Save(); err != nil {
				a.showError(fmt.Sprintf("Error saving draft: %v", err))
			}
			a.updateStatus()
			return nil
		}
	case ModeForm:
		if event.Key() == tcell.KeyEscape {
			a.closeForm()
			return nil
		}
	}
	return event
}

func otherPolicy(p config.DeletePolicy) config.DeletePolicy {
	if p == config.DeleteReparent {
		return config.DeleteDiscard
	}
	return config.DeleteReparent
}

func (a *App) quit() {
	if !a.editor.Dirty() {
		a.app.Stop()
		return
	}
	a.showConfirm("Quit without saving?", func() { a.app.Stop() })
}

func (a *App) openForm(form *tview.Form, title string) {
	form.SetBorder(true).SetTitle(title)
	a.pages.AddPage("form", form, true, true)
	a.app.SetFocus(form)
	a.mode = ModeForm
}

func (a *App) closeForm() {
	a.pages.RemovePage("form")
	a.setMode(ModeNormal)
}

// parentDropDown adds the parent folder selector, preselecting parent
func (a *App) parentDropDown(form *tview.Form, parent *models.Address) {
	labels, addrs := folderChoices(a.editor.Store())
	selected := 0
	for i, addr := range addrs {
		if addr.Equal(*parent) {
			selected = i
			break
		}
	}
	form.AddDropDown("Parent", labels, selected, func(option string, index int) {
		if index >= 0 && index < len(addrs) {
			*parent = addrs[index]
		}
	})
}

// showFolderForm shows the form for a new folder
func (a *App) showFolderForm(parent models.Address) {
	name := ""
	form := tview.NewForm()
	form.AddInputField("Name", "", 60, nil, func(t string) { name = t })
	a.parentDropDown(form, &parent)

	form.AddButton("Save", func() {
		addr, err := a.editor.AddFolder(parent, name)
		if err != nil {
			a.showError(fmt.Sprintf("Error adding folder: %v", err))
			return
		}
		a.closeForm()
		a.refresh(addr)
	})
	form.AddButton("Cancel", a.closeForm)
	a.openForm(form, "New Folder")
}

// showLinkForm shows the form for a new link
func (a *App) showLinkForm(parent models.Address) {
	var name, url string
	form := tview.NewForm()
	form.AddInputField("Name", "", 60, nil, func(t string) { name = t })
	form.AddInputField("URL", "", 60, nil, func(t string) { url = t })
	a.parentDropDown(form, &parent)

	form.AddButton("Save", func() {
		addr, err := a.editor.AddLink(parent, name, url)
		if err != nil {
			a.showError(fmt.Sprintf("Error adding link: %v", err))
			return
		}
		a.closeForm()
		a.refresh(addr)
	})
	form.AddButton("Cancel", a.closeForm)
	a.openForm(form, "New Link")
}

// showEditForm edits the selected node in place
func (a *App) showEditForm(r row) {
	addr := r.addr
	name := r.node.NodeName()
	link, isLink := r.node.(*models.Link)
	url := ""
	if isLink {
		url = link.URL
	}

	form := tview.NewForm()
	form.AddInputField("Name", name, 60, nil, func(t string) { name = t })
	if isLink {
		form.AddInputField("URL", url, 60, nil, func(t string) { url = t })
	}

	form.AddButton("Save", func() {
		// addr was captured when the form opened and nothing has mutated
		// the tree since: forms are modal.
		if err := a.editor.Rename(addr, name); err != nil {
			a.showError(fmt.Sprintf("Error renaming: %v", err))
			return
		}
		if isLink {
			if err := a.editor.SetURL(addr, url); err != nil {
				a.showError(fmt.Sprintf("Error setting URL: %v", err))
				return
			}
		}
		a.closeForm()
		a.refresh(addr)
	})
	form.AddButton("Cancel", a.closeForm)

	title := "Edit Folder"
	if isLink {
		title = "Edit Link"
	}
	a.openForm(form, title)
}

// showNamesForm edits the container name and the top level label
func (a *App) showNamesForm() {
	store := a.editor.Store()
	container := store.ContainerName()
	root := store.RootName()

	form := tview.NewForm()
	form.AddInputField("Container name", container, 60, nil, func(t string) { container = t })
	form.AddInputField("Top level label", root, 60, nil, func(t string) { root = t })
	form.AddButton("Save", func() {
		a.editor.SetContainerName(container)
		a.editor.SetRootName(root)
		a.closeForm()
		a.refresh(models.Root)
	})
	form.AddButton("Cancel", a.closeForm)
	a.openForm(form, "Names")
}

// showMoveForm picks a target and placement for the selected node
func (a *App) showMoveForm(r row) {
	src := r.addr
	labels, addrs := moveTargets(a.rows, src, a.rootLabel())
	placement := tree.AppendToRoot
	var target models.Address
	if len(addrs) > 0 {
		target = addrs[0]
		placement = tree.Before
	}

	placementLabels := make([]string, len(placementOptions))
	selectedPlacement := 0
	for i, p := range placementOptions {
		placementLabels[i] = p.String()
		if p == placement {
			selectedPlacement = i
		}
	}

	form := tview.NewForm()
	if len(addrs) > 0 {
		form.AddDropDown("Target", labels, 0, func(option string, index int) {
			if index >= 0 && index < len(addrs) {
				target = addrs[index]
			}
		})
	}
	form.AddDropDown("Placement", placementLabels, selectedPlacement, func(option string, index int) {
		if index >= 0 && index < len(placementOptions) {
			placement = placementOptions[index]
		}
	})

	form.AddButton("Move", func() {
		addr, err := a.editor.Move(src, target, placement)
		if err != nil {
			a.showError(moveErrorText(err))
			return
		}
		a.closeForm()
		a.refresh(addr)
	})
	form.AddButton("Cancel", a.closeForm)
	a.openForm(form, fmt.Sprintf("Move %s", src))
}

func moveErrorText(err error) string {
	switch {
	case errors.Is(err, tree.ErrCyclicMove):
		return "A folder cannot be moved into itself."
	case errors.Is(err, tree.ErrInvalidAddress):
		return fmt.Sprintf("That target cannot hold the node: %v", err)
	}
	return fmt.Sprintf("Error moving: %v", err)
}

func (a *App) confirmDelete(r row, policy config.DeletePolicy) {
	addr := r.addr
	label := nonEmpty(r.node.NodeName(), "(unnamed)")
	message := fmt.Sprintf("Are you sure you want to delete '%s'?", label)
	if f, ok := r.node.(*models.Folder); ok && len(f.Children) > 0 {
		if policy == config.DeleteReparent {
			message = fmt.Sprintf("Delete folder '%s' and move its %d items to the top level?", label, len(f.Children))
		} else {
			message = fmt.Sprintf("Delete folder '%s' and everything in it?", label)
		}
	}
	a.showConfirm(message, func() {
		if err := a.editor.Delete(addr, policy); err != nil {
			a.showError(fmt.Sprintf("Error deleting: %v", err))
			return
		}
		a.refresh(addr.Parent())
	})
}

// showError shows a modal with an error
func (a *App) showError(message string) {
	modal := tview.NewModal().
		SetText(message).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			a.pages.RemovePage("error")
			a.restoreFocus()
		})

	modal.SetBorder(true).SetTitle("Error")
	a.pages.AddPage("error", modal, true, true)
	a.mode = ModeModal
	a.app.SetFocus(modal)
}

func (a *App) showConfirm(message string, onConfirm func()) {
	modal := tview.NewModal().
		SetText(message).
		AddButtons([]string{"Cancel", "OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			a.pages.RemovePage("confirm")
			a.restoreFocus()
			if buttonIndex == 1 && onConfirm != nil {
				onConfirm()
			}
		})

	modal.SetBorder(true).SetTitle("Confirm")
	a.pages.AddPage("confirm", modal, true, true)
	a.mode = ModeModal
	a.app.SetFocus(modal)
}

// restoreFocus returns to the open form, or to normal mode
func (a *App) restoreFocus() {
	if a.pages.HasPage("form") {
		a.mode = ModeForm
		if _, p := a.pages.GetFrontPage(); p != nil {
			a.app.SetFocus(p)
		}
		return
	}
	a.setMode(ModeNormal)
}
