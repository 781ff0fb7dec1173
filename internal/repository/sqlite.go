package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dastanaron/favorites/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// ErrDraftNotFound is returned by Delete for an unknown draft name
var ErrDraftNotFound = errors.New("draft not found")

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db     *sql.DB
	drafts *draftRepo
}

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	repo := &SQLiteRepository{
		db: db,
	}
	repo.drafts = &draftRepo{db: db, now: time.Now}

	return repo, nil
}

func initSchema(db *sql.DB) error {
	createTables := `
	CREATE TABLE IF NOT EXISTS drafts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		document TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_drafts_updated ON drafts(updated_at);
	`
	if _, err := db.Exec(createTables); err != nil {
		return err
	}

	// Migration: add root_name column if it doesn't exist
	// SQLite doesn't support IF NOT EXISTS for ALTER TABLE ADD COLUMN,
	// so we check if the column exists first
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info('drafts') WHERE name = 'root_name'
	`).Scan(&count)
	if err != nil {
		return err
	}
	if count == 0 {
		_, err = db.Exec(`ALTER TABLE drafts ADD COLUMN root_name TEXT NOT NULL DEFAULT ''`)
		if err != nil {
			return err
		}
	}

	return nil
}

// Drafts returns the draft repository
func (r *SQLiteRepository) Drafts() DraftRepository {
	return r.drafts
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// draftRepo implements DraftRepository
type draftRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *draftRepo) List() ([]models.Draft, error) {
	rows, err := r.db.Query(`
		SELECT id, name, root_name, document, updated_at
		FROM drafts
		ORDER BY updated_at DESC, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []models.Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, *d)
	}
	return drafts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(s scanner) (*models.Draft, error) {
	var (
		d       models.Draft
		doc     string
		updated int64
	)
	if err := s.Scan(&d.ID, &d.Name, &d.RootName, &doc, &updated); err != nil {
		return nil, err
	}
	d.Document = []byte(doc)
	d.UpdatedAt = time.UnixMilli(updated)
	return &d, nil
}

func (r *draftRepo) GetByName(name string) (*models.Draft, error) {
	row := r.db.QueryRow(`
		SELECT id, name, root_name, document, updated_at
		FROM drafts
		WHERE name = ?
	`, name)

	d, err := scanDraft(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *draftRepo) Save(d *models.Draft) (bool, error) {
	existing, err := r.GetByName(d.Name)
	if err != nil {
		return false, err
	}

	d.UpdatedAt = r.now()
	updated := d.UpdatedAt.UnixMilli()

	if existing != nil {
		_, err := r.db.Exec(
			`UPDATE drafts SET root_name = ?, document = ?, updated_at = ? WHERE id = ?`,
			d.RootName, string(d.Document), updated, existing.ID,
		)
		if err != nil {
			return false, err
		}
		d.ID = existing.ID
		return false, nil
	}

	res, err := r.db.Exec(
		`INSERT INTO drafts(name, root_name, document, updated_at) VALUES (?, ?, ?, ?)`,
		d.Name, d.RootName, string(d.Document), updated,
	)
	if err != nil {
		return false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, err
	}
	d.ID = int(id)
	return true, nil
}

func (r *draftRepo) Delete(name string) error {
	res, err := r.db.Exec(`DELETE FROM drafts WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrDraftNotFound, name)
	}
	return nil
}
