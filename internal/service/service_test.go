package service

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/dastanaron/favorites/internal/config"
	"github.com/dastanaron/favorites/internal/models"
	"github.com/dastanaron/favorites/internal/repository"
	"github.com/dastanaron/favorites/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*EditorService, repository.Repository) {
	t.Helper()
	repo, err := repository.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return NewEditorService(repo, config.NewConfig(), log.New(io.Discard)), repo
}

func TestEditorSaveAndReopen(t *testing.T) {
	svc, repo := newTestService(t)

	created, err := svc.Open("corp")
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, svc.Dirty())

	folder, err := svc.AddFolder(models.Root, "Tools")
	require.NoError(t, err)
	_, err = svc.AddLink(folder, "CI", "ci.example")
	require.NoError(t, err)
	svc.SetContainerName("Corp")
	svc.SetRootName("Corp Root")
	assert.True(t, svc.Dirty())

	require.NoError(t, svc.Save())
	assert.False(t, svc.Dirty())

	other := NewEditorService(repo, config.NewConfig(), log.New(io.Discard))
	created, err = other.Open("corp")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Corp", other.Store().ContainerName())
	assert.Equal(t, "Corp Root", other.Store().RootName())

	n, err := other.Store().Resolve(models.Address{0, 0})
	require.NoError(t, err)
	assert.Equal(t, "CI", n.NodeName())
	assert.Equal(t, "ci.example", n.(*models.Link).URL, "drafts keep URLs as entered")
}

func TestEditorSaveKeepsEmptyValues(t *testing.T) {
	svc, repo := newTestService(t)
	_, err := svc.Open("raw")
	require.NoError(t, err)
	_, err = svc.AddFolder(nil, "")
	require.NoError(t, err)
	_, err = svc.AddLink(nil, "", "")
	require.NoError(t, err)
	svc.SetContainerName("")
	require.NoError(t, svc.Save())

	other := NewEditorService(repo, config.NewConfig(), log.New(io.Discard))
	_, err = other.Open("raw")
	require.NoError(t, err)
	require.Equal(t, 2, other.Store().Len())
	assert.Equal(t, "", other.Store().ContainerName())
	assert.Equal(t, "", other.Store().Forest()[0].NodeName())
	link := other.Store().Forest()[1].(*models.Link)
	assert.Equal(t, "", link.Name)
	assert.Equal(t, "", link.URL)

	doc, err := other.Document()
	require.NoError(t, err)
	assert.Contains(t, string(doc), `"url": "about:invalid"`, "export still normalizes")
}

type failingDrafts struct{ repository.DraftRepository }

func (failingDrafts) Save(*models.Draft) (bool, error) { return false, errors.New("disk full") }

type failingRepo struct{ repository.Repository }

func (r failingRepo) Drafts() repository.DraftRepository {
	return failingDrafts{r.Repository.Drafts()}
}

func TestEditorSaveAsKeepsNameOnFailure(t *testing.T) {
	_, repo := newTestService(t)
	svc := NewEditorService(failingRepo{repo}, config.NewConfig(), log.New(io.Discard))
	_, err := svc.Open("first")
	require.NoError(t, err)

	assert.Error(t, svc.SaveAs("second"))
	assert.Equal(t, "first", svc.DraftName())
}

func TestEditorOnChange(t *testing.T) {
	svc, _ := newTestService(t)
	calls := 0
	svc.OnChange(func() { calls++ })

	addr, err := svc.AddLink(nil, "a", "a.com")
	require.NoError(t, err)
	require.NoError(t, svc.Rename(addr, "b"))
	require.NoError(t, svc.SetURL(addr, "b.com"))
	assert.Equal(t, 3, calls)

	assert.ErrorIs(t, svc.SetURL(models.Address{5}, "x"), tree.ErrInvalidAddress)
	assert.Equal(t, 3, calls, "failed mutations do not notify")
}

func TestEditorDeletePolicies(t *testing.T) {
	build := func(t *testing.T) *EditorService {
		svc, _ := newTestService(t)
		f, err := svc.AddFolder(nil, "F")
		require.NoError(t, err)
		_, err = svc.AddLink(f, "x", "x")
		require.NoError(t, err)
		_, err = svc.AddLink(f, "y", "y")
		require.NoError(t, err)
		return svc
	}

	svc := build(t)
	require.NoError(t, svc.Delete(models.Address{0}, config.DeleteDiscard))
	assert.Equal(t, 0, svc.Store().Len())

	svc = build(t)
	require.NoError(t, svc.Delete(models.Address{0}, config.DeleteReparent))
	require.Equal(t, 2, svc.Store().Len())
	assert.Equal(t, "x", svc.Store().Forest()[0].NodeName())
	assert.Equal(t, "y", svc.Store().Forest()[1].NodeName())

	svc = build(t)
	require.NoError(t, svc.DeleteDefault(models.Address{0}))
	assert.Equal(t, 0, svc.Store().Len(), "default policy discards")

	assert.Error(t, svc.Delete(models.Address{0}, "shred"))
}

func TestEditorMoveAndImport(t *testing.T) {
	svc, _ := newTestService(t)
	f, err := svc.AddFolder(nil, "F")
	require.NoError(t, err)
	_, err = svc.AddLink(nil, "l", "l.com")
	require.NoError(t, err)

	to, err := svc.Move(models.Address{1}, f, tree.IntoFolder)
	require.NoError(t, err)
	assert.Equal(t, models.Address{0, 0}, to)

	_, err = svc.Move(models.Address{0}, models.Address{0, 0}, tree.Before)
	assert.ErrorIs(t, err, tree.ErrCyclicMove)

	svc.Import([]models.Node{models.NewLink("imported", "i.com")}, false)
	assert.Equal(t, 2, svc.Store().Len())

	svc.Import([]models.Node{models.NewFolder("only")}, true)
	require.Equal(t, 1, svc.Store().Len())
	assert.Equal(t, "only", svc.Store().Forest()[0].NodeName())
}

func TestEditorLoadAndPolicyDocument(t *testing.T) {
	svc, _ := newTestService(t)
	require.NoError(t, svc.LoadDocument([]byte(`[{"toplevel_name":"T"},{"name":"A","url":"http://a.com"}]`)))

	doc, err := svc.PolicyDocument()
	require.NoError(t, err)
	assert.Contains(t, string(doc), `"ManagedFavorites": [`)
	assert.Contains(t, string(doc), `"url": "http://a.com"`)
}

func TestDraftService(t *testing.T) {
	svc, repo := newTestService(t)
	_, err := svc.Open("one")
	require.NoError(t, err)
	require.NoError(t, svc.Save())
	require.NoError(t, svc.SaveAs("two"))

	drafts := NewDraftService(repo)
	list, err := drafts.ListAll()
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, drafts.Delete("one"))
	d, err := drafts.GetByName("one")
	require.NoError(t, err)
	assert.Nil(t, d)
}
