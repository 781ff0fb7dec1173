package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/dastanaron/favorites/internal/config"
	"github.com/dastanaron/favorites/internal/models"
	"github.com/dastanaron/favorites/internal/parser"
	"github.com/dastanaron/favorites/internal/repository"
	"github.com/dastanaron/favorites/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEditor(t *testing.T) (*service.EditorService, repository.Repository) {
	t.Helper()
	repo, err := repository.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	editor := service.NewEditorService(repo, config.NewConfig(), log.New(io.Discard))
	_, err = editor.Open("test")
	require.NoError(t, err)
	return editor, repo
}

const bookmarksHTML = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3>Work</H3>
    <DL><p>
        <DT><A HREF="https://jira.example">Jira</A>
    </DL><p>
    <DT><A HREF="https://news.example">News</A>
</DL><p>
`

func TestImportCommand(t *testing.T) {
	editor, repo := newEditor(t)
	path := filepath.Join(t.TempDir(), "bookmarks.html")
	require.NoError(t, os.WriteFile(path, []byte(bookmarksHTML), 0o644))

	var out bytes.Buffer
	require.NoError(t, NewImportCommand(editor, &out).Execute(path, false))
	assert.Contains(t, out.String(), "Imported 2 top level items")
	assert.Equal(t, 2, editor.Store().Len())

	require.NoError(t, NewImportCommand(editor, &out).Execute(path, false))
	assert.Equal(t, 4, editor.Store().Len(), "append keeps existing content")

	require.NoError(t, NewImportCommand(editor, &out).Execute(path, true))
	assert.Equal(t, 2, editor.Store().Len())

	d, err := repo.Drafts().GetByName("test")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Contains(t, string(d.Document), `"name": "Jira"`)

	assert.Error(t, NewImportCommand(editor, &out).Execute(filepath.Join(t.TempDir(), "missing.html"), false))
}

func TestLoadCommand(t *testing.T) {
	editor, _ := newEditor(t)
	var out bytes.Buffer
	cmd := NewLoadCommand(editor, &out)

	require.NoError(t, cmd.Execute("-", strings.NewReader(`[{"toplevel_name":"T"},{"name":"A","url":"http://a.com"}]`)))
	assert.Equal(t, "T", editor.Store().ContainerName())
	assert.Equal(t, 1, editor.Store().Len())

	err := cmd.Execute("-", strings.NewReader(`{"broken": true}`))
	assert.Error(t, err)
	assert.Equal(t, "T", editor.Store().ContainerName(), "failed load leaves the session intact")
}

func TestExportCommand(t *testing.T) {
	editor, _ := newEditor(t)
	f, err := editor.AddFolder(nil, "Tools & Co")
	require.NoError(t, err)
	_, err = editor.AddLink(f, "CI", "ci.example/?a=1&b=2")
	require.NoError(t, err)
	_, err = editor.AddLink(nil, "", "")
	require.NoError(t, err)
	editor.SetContainerName("Corp")

	dir := t.TempDir()
	var out bytes.Buffer
	cmd := NewExportCommand(editor, &out)

	t.Run("json to stdout", func(t *testing.T) {
		out.Reset()
		require.NoError(t, cmd.Execute("-", FormatJSON))
		var elems []map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &elems))
		assert.Equal(t, "Corp", elems[0]["toplevel_name"])
		assert.Len(t, elems, 3)
	})

	t.Run("policy file", func(t *testing.T) {
		path := filepath.Join(dir, "policy.json")
		require.NoError(t, cmd.Execute(path, FormatPolicy))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var obj map[string][]json.RawMessage
		require.NoError(t, json.Unmarshal(data, &obj))
		assert.Len(t, obj["ManagedFavorites"], 3)
	})

	t.Run("html re-imports", func(t *testing.T) {
		path := filepath.Join(dir, "bookmarks.html")
		require.NoError(t, cmd.Execute(path, FormatHTML))
		file, err := os.Open(path)
		require.NoError(t, err)
		defer file.Close()

		forest, err := parser.NewParser().ParseBookmarksHTML(file)
		require.NoError(t, err)
		require.Len(t, forest, 2)
		folder := forest[0].(*models.Folder)
		assert.Equal(t, "Tools & Co", folder.Name)
		assert.Equal(t, "https://ci.example/?a=1&b=2", folder.Children[0].(*models.Link).URL)
		assert.Equal(t, "Unnamed link", forest[1].NodeName())
	})

	t.Run("unknown format", func(t *testing.T) {
		assert.Error(t, cmd.Execute("-", "yaml"))
	})
}

func TestClearDoublesCommand(t *testing.T) {
	editor, _ := newEditor(t)
	f, err := editor.AddFolder(nil, "F")
	require.NoError(t, err)
	_, err = editor.AddLink(f, "first", "https://dup.example")
	require.NoError(t, err)
	_, err = editor.AddLink(f, "second", "dup.example")
	require.NoError(t, err)
	_, err = editor.AddLink(nil, "third", "https://dup.example")
	require.NoError(t, err)
	_, err = editor.AddLink(nil, "unique", "https://unique.example")
	require.NoError(t, err)

	var out bytes.Buffer
	cmd := NewClearDoublesCommand(editor, &out)

	require.NoError(t, cmd.Execute(true))
	assert.Contains(t, out.String(), "'second' at 0.1")
	assert.Contains(t, out.String(), "'third' at 1")
	assert.Equal(t, 3, editor.Store().Len(), "dry run changes nothing")

	require.NoError(t, cmd.Execute(false))
	assert.Contains(t, out.String(), "Deleted 2 duplicate link(s).")
	require.Equal(t, 2, editor.Store().Len())
	assert.Len(t, editor.Store().Forest()[0].(*models.Folder).Children, 1)
	assert.Equal(t, "unique", editor.Store().Forest()[1].NodeName())

	out.Reset()
	require.NoError(t, cmd.Execute(false))
	assert.Contains(t, out.String(), "No duplicate links found.")
}

func TestShowAndDraftsCommands(t *testing.T) {
	editor, repo := newEditor(t)
	var out bytes.Buffer

	require.NoError(t, NewShowCommand(editor, &out).Execute(false))
	assert.Contains(t, out.String(), "(empty)")

	f, err := editor.AddFolder(nil, "Docs")
	require.NoError(t, err)
	_, err = editor.AddLink(f, "Go", "go.dev")
	require.NoError(t, err)
	require.NoError(t, editor.Save())

	out.Reset()
	require.NoError(t, NewShowCommand(editor, &out).Execute(false))
	assert.Contains(t, out.String(), "Docs")
	assert.Contains(t, out.String(), "https://go.dev")

	out.Reset()
	require.NoError(t, NewShowCommand(editor, &out).Execute(true))
	assert.Contains(t, out.String(), "Company Resources")
	assert.NotContains(t, out.String(), "go.dev")

	drafts := NewDraftsCommand(service.NewDraftService(repo), &out)
	out.Reset()
	require.NoError(t, drafts.Execute())
	assert.Contains(t, out.String(), "1 top level items")

	require.NoError(t, drafts.Remove("test"))
	out.Reset()
	require.NoError(t, drafts.Execute())
	assert.Contains(t, out.String(), "No drafts saved.")
	assert.Error(t, drafts.Remove("test"))
}
