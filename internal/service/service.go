package service

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/dastanaron/favorites/internal/config"
	"github.com/dastanaron/favorites/internal/document"
	"github.com/dastanaron/favorites/internal/models"
	"github.com/dastanaron/favorites/internal/repository"
	"github.com/dastanaron/favorites/internal/tree"
)

// EditorService is one editing session: a tree store bound to a named draft.
// Every mutation goes through it so the session knows when it has unsaved
// changes.
type EditorService struct {
	repo     repository.Repository
	logger   *log.Logger
	cfg      *config.Config
	store    *tree.Store
	draft    string
	dirty    bool
	onChange func()
}

// NewEditorService creates a session with an empty store
func NewEditorService(repo repository.Repository, cfg *config.Config, logger *log.Logger) *EditorService {
	return &EditorService{
		repo:   repo,
		logger: logger,
		cfg:    cfg,
		store:  tree.NewStore(cfg.ContainerName, cfg.RootName),
		draft:  cfg.DefaultDraft,
	}
}

// OnChange registers fn to run after every successful mutation
func (s *EditorService) OnChange(fn func()) {
	s.onChange = fn
}

func (s *EditorService) changed() {
	s.dirty = true
	if s.onChange != nil {
		s.onChange()
	}
}

// Store returns the underlying store for queries. Mutate through the
// service instead.
func (s *EditorService) Store() *tree.Store { return s.store }

// DraftName returns the name the session saves under
func (s *EditorService) DraftName() string { return s.draft }

// Dirty reports unsaved changes
func (s *EditorService) Dirty() bool { return s.dirty }

// Open loads the named draft. An unknown name starts an empty session under
// that name; created reports that case.
func (s *EditorService) Open(name string) (created bool, err error) {
	d, err := s.repo.Drafts().GetByName(name)
	if err != nil {
		return false, fmt.Errorf("failed to load draft %q: %w", name, err)
	}

	store := tree.NewStore(s.cfg.ContainerName, s.cfg.RootName)
	if d != nil {
		if err := store.LoadDocument(d.Document); err != nil {
			return false, fmt.Errorf("draft %q: %w", name, err)
		}
		if d.RootName != "" {
			store.SetRootName(d.RootName)
		}
	}

	s.store = store
	s.draft = name
	s.dirty = false
	s.logger.Debug("opened draft", "name", name, "new", d == nil, "nodes", store.Len())
	return d == nil, nil
}

// Save writes the session to its draft
func (s *EditorService) Save() error {
	doc, err := s.store.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to serialize: %w", err)
	}
	created, err := s.repo.Drafts().Save(&models.Draft{
		Name:     s.draft,
		RootName: s.store.RootName(),
		Document: doc,
	})
	if err != nil {
		return fmt.Errorf("failed to save draft %q: %w", s.draft, err)
	}
	s.dirty = false
	s.logger.Info("saved draft", "name", s.draft, "created", created)
	return nil
}

// SaveAs saves the session under name. The session keeps its old name when
// the save fails.
func (s *EditorService) SaveAs(name string) error {
	prev := s.draft
	s.draft = name
	if err := s.Save(); err != nil {
		s.draft = prev
		return err
	}
	return nil
}

// Document returns the current favorites document
func (s *EditorService) Document() ([]byte, error) {
	return s.store.Document()
}

// LoadDocument replaces the session content with a parsed document
func (s *EditorService) LoadDocument(data []byte) error {
	if err := s.store.LoadDocument(data); err != nil {
		return err
	}
	s.logger.Debug("loaded document", "toplevel_name", s.store.ContainerName(), "nodes", s.store.Len())
	s.changed()
	return nil
}

// Import adds forest to the session. With replace the current content is
// dropped first; otherwise the nodes are appended at the top level.
func (s *EditorService) Import(forest []models.Node, replace bool) {
	if replace {
		s.store.Replace(s.store.ContainerName(), forest)
	} else {
		s.store.Replace(s.store.ContainerName(), append(s.store.Forest(), forest...))
	}
	s.logger.Debug("imported nodes", "count", len(forest), "replace", replace)
	s.changed()
}

// SetContainerName sets the exported container name
func (s *EditorService) SetContainerName(name string) {
	s.store.SetContainerName(name)
	s.changed()
}

// SetRootName sets the top level label of the folder list
func (s *EditorService) SetRootName(name string) {
	s.store.SetRootName(name)
	s.changed()
}

// AddFolder appends a named folder under parent
func (s *EditorService) AddFolder(parent models.Address, name string) (models.Address, error) {
	addr, err := s.store.AddFolder(parent)
	if err != nil {
		return nil, err
	}
	if name != "" {
		if err := s.store.Rename(addr, name); err != nil {
			return nil, err
		}
	}
	s.logger.Debug("added folder", "address", addr.String(), "name", name)
	s.changed()
	return addr, nil
}

// AddLink appends a link under parent
func (s *EditorService) AddLink(parent models.Address, name, url string) (models.Address, error) {
	addr, err := s.store.AddLink(parent, name, url)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("added link", "address", addr.String(), "name", name, "url", url)
	s.changed()
	return addr, nil
}

// Rename sets the name of the node at addr
func (s *EditorService) Rename(addr models.Address, name string) error {
	if err := s.store.Rename(addr, name); err != nil {
		return err
	}
	s.logger.Debug("renamed", "address", addr.String(), "name", name)
	s.changed()
	return nil
}

// SetURL sets the URL of the link at addr
func (s *EditorService) SetURL(addr models.Address, url string) error {
	if err := s.store.SetURL(addr, url); err != nil {
		return err
	}
	s.logger.Debug("set url", "address", addr.String(), "url", url)
	s.changed()
	return nil
}

// Delete removes the node at addr using policy for a folder's children
func (s *EditorService) Delete(addr models.Address, policy config.DeletePolicy) error {
	var err error
	switch policy {
	case config.DeleteReparent:
		err = s.store.RemoveWithReparentToRoot(addr)
	case config.DeleteDiscard:
		err = s.store.Remove(addr)
	default:
		return fmt.Errorf("unknown delete policy %q", policy)
	}
	if err != nil {
		return err
	}
	s.logger.Debug("deleted", "address", addr.String(), "policy", policy)
	s.changed()
	return nil
}

// DeleteDefault removes the node at addr with the configured policy
func (s *EditorService) DeleteDefault(addr models.Address) error {
	return s.Delete(addr, s.cfg.DeletePolicy)
}

// Move moves the node at src relative to target
func (s *EditorService) Move(src, target models.Address, p tree.Placement) (models.Address, error) {
	addr, err := s.store.MoveNode(src, target, p)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("moved", "from", src.String(), "target", target.String(), "placement", p, "to", addr.String())
	s.changed()
	return addr, nil
}

// PolicyDocument returns the document wrapped as a policy file object
func (s *EditorService) PolicyDocument() ([]byte, error) {
	doc, err := s.store.Document()
	if err != nil {
		return nil, err
	}
	return document.WrapPolicy(doc)
}

// DraftService provides business logic for saved drafts
type DraftService struct {
	repo repository.Repository
}

// NewDraftService creates a new draft service
func NewDraftService(repo repository.Repository) *DraftService {
	return &DraftService{repo: repo}
}

// ListAll returns all drafts, most recently saved first
func (s *DraftService) ListAll() ([]models.Draft, error) {
	return s.repo.Drafts().List()
}

// GetByName returns a draft or nil
func (s *DraftService) GetByName(name string) (*models.Draft, error) {
	return s.repo.Drafts().GetByName(name)
}

// Delete deletes a draft by name
func (s *DraftService) Delete(name string) error {
	return s.repo.Drafts().Delete(name)
}
