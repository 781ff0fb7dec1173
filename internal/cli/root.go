// Package cli implements the favorites command line.
//
// Every command works on a named draft stored in a local SQLite database.
// Mutating commands open the draft, apply one change by node address and save
// it again; `favorites show` prints the addresses to use. Addresses are dotted
// sibling indices ("0.2.1") and shift after every structural change.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dastanaron/favorites/internal/config"
	"github.com/dastanaron/favorites/internal/repository"
	"github.com/dastanaron/favorites/internal/service"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information displayed by --version
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// env carries the state shared by all commands of one invocation
type env struct {
	configPath string
	dbPath     string
	draft      string
	verbose    bool

	cfg  *config.Config
	repo *repository.SQLiteRepository
	out  io.Writer
	in   io.Reader
}

// Execute runs the CLI with the process arguments
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdout, os.Stdin).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree writing to out and reading stdin
// from in.
func NewRootCommand(out io.Writer, in io.Reader) *cobra.Command {
	return newRootCommand(&env{out: out, in: in})
}

func newRootCommand(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "favorites",
		Short:         "Build managed favorites documents for browser policies",
		Long:          `favorites edits a tree of folders and links and exports it as a managed favorites JSON document, the format of the browser's ManagedFavorites policy.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if e.verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
			return e.loadConfig()
		},
	}

	root.SetOut(e.out)
	root.SetIn(e.in)
	root.SetVersionTemplate(fmt.Sprintf("favorites %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().StringVar(&e.configPath, "config", config.DefaultPath(), "path to config file")
	root.PersistentFlags().StringVar(&e.dbPath, "db", "", "path to database file (default: ~/.favorites/favorites.db)")
	root.PersistentFlags().StringVarP(&e.draft, "draft", "d", "", "draft to work on (default from config)")
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newEditCmd(e))
	root.AddCommand(newShowCmd(e))
	root.AddCommand(newExportCmd(e))
	root.AddCommand(newLoadCmd(e))
	root.AddCommand(newImportHTMLCmd(e))
	root.AddCommand(newAddCmd(e))
	root.AddCommand(newRenameCmd(e))
	root.AddCommand(newSetURLCmd(e))
	root.AddCommand(newRemoveCmd(e))
	root.AddCommand(newMoveCmd(e))
	root.AddCommand(newDedupeCmd(e))
	root.AddCommand(newDraftsCmd(e))
	root.AddCommand(newSetNameCmd(e))

	e.closeAfter(root)
	return root
}

// closeAfter wraps the RunE of cmd and its subcommands so the database is
// closed when they return, failed runs included.
func (e *env) closeAfter(cmd *cobra.Command) {
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
			defer func() { err = errors.Join(err, e.close()) }()
			return run(cmd, args)
		}
	}
	for _, sub := range cmd.Commands() {
		e.closeAfter(sub)
	}
}

func (e *env) loadConfig() error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	if e.dbPath != "" {
		cfg.WithDBPath(e.dbPath)
	}
	e.cfg = cfg
	return nil
}

// repository opens the database on first use
func (e *env) repository() (*repository.SQLiteRepository, error) {
	if e.repo != nil {
		return e.repo, nil
	}

	// Ensure database directory exists
	if err := os.MkdirAll(filepath.Dir(e.cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	repo, err := repository.NewSQLiteRepository(e.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	e.repo = repo
	return repo, nil
}

// editor opens the selected draft
func (e *env) editor(ctx context.Context) (*service.EditorService, error) {
	repo, err := e.repository()
	if err != nil {
		return nil, err
	}
	name := e.draft
	if name == "" {
		name = e.cfg.DefaultDraft
	}
	editor := service.NewEditorService(repo, e.cfg, loggerFromContext(ctx))
	if _, err := editor.Open(name); err != nil {
		return nil, err
	}
	return editor, nil
}

func (e *env) drafts() (*service.DraftService, error) {
	repo, err := e.repository()
	if err != nil {
		return nil, err
	}
	return service.NewDraftService(repo), nil
}

func (e *env) close() error {
	if e.repo == nil {
		return nil
	}
	err := e.repo.Close()
	e.repo = nil
	return err
}
