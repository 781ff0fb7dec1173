package repository

import "github.com/dastanaron/favorites/internal/models"

// DraftRepository defines operations for saved drafts
type DraftRepository interface {
	List() ([]models.Draft, error)
	// GetByName returns nil, nil when no draft has that name.
	GetByName(name string) (*models.Draft, error)
	// Save creates the draft or replaces the one with the same name.
	// Returns true if created, false if updated.
	Save(d *models.Draft) (bool, error)
	Delete(name string) error
}

// Repository combines all repositories
type Repository interface {
	Drafts() DraftRepository
	Close() error
}
