package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dastanaron/favorites/internal/commands"
	"github.com/dastanaron/favorites/internal/config"
	"github.com/dastanaron/favorites/internal/models"
	"github.com/dastanaron/favorites/internal/service"
	"github.com/dastanaron/favorites/internal/tree"
	"github.com/dastanaron/favorites/internal/ui"
)

func newEditCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the draft in the terminal editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := e.editor(cmd.Context())
			if err != nil {
				return err
			}
			return ui.NewApp(editor, e.cfg).Run()
		},
	}
}

func newShowCmd(e *env) *cobra.Command {
	var folders bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the draft as a tree with node addresses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := e.editor(cmd.Context())
			if err != nil {
				return err
			}
			return commands.NewShowCommand(editor, e.out).Execute(folders)
		},
	}
	cmd.Flags().BoolVar(&folders, "folders", false, "list only the folders a node can be added to")
	return cmd
}

func newExportCmd(e *env) *cobra.Command {
	var (
		output string
		format string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the draft as JSON, a policy file or bookmark HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := e.editor(cmd.Context())
			if err != nil {
				return err
			}
			return commands.NewExportCommand(editor, e.out).Execute(output, format)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", commands.FormatJSON, "json, policy or html")
	return cmd
}

func newLoadCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "load FILE",
		Short: "Replace the draft with a favorites JSON document (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := e.editor(cmd.Context())
			if err != nil {
				return err
			}
			return commands.NewLoadCommand(editor, e.out).Execute(args[0], e.in)
		},
	}
}

func newImportHTMLCmd(e *env) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import-html FILE",
		Short: "Import a browser bookmark HTML export into the draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := e.editor(cmd.Context())
			if err != nil {
				return err
			}
			return commands.NewImportCommand(editor, e.out).Execute(args[0], replace)
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "drop the draft's current content first")
	return cmd
}

// mutate opens the draft, applies fn and saves
func (e *env) mutate(cmd *cobra.Command, fn func(editor *service.EditorService) (string, error)) error {
	editor, err := e.editor(cmd.Context())
	if err != nil {
		return err
	}
	msg, err := fn(editor)
	if err != nil {
		return err
	}
	if err := editor.Save(); err != nil {
		return err
	}
	if msg != "" {
		fmt.Fprintln(e.out, msg)
	}
	return nil
}

func parseAddress(s string) (models.Address, error) {
	addr, err := models.ParseAddress(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tree.ErrInvalidAddress, err)
	}
	return addr, nil
}

func newAddCmd(e *env) *cobra.Command {
	var parent string

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a folder or link",
	}
	add.PersistentFlags().StringVarP(&parent, "parent", "p", "/", "address of the parent folder")

	add.AddCommand(&cobra.Command{
		Use:   "folder [NAME]",
		Short: "Append a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.mutate(cmd, func(editor *service.EditorService) (string, error) {
				p, err := parseAddress(parent)
				if err != nil {
					return "", err
				}
				name := ""
				if len(args) == 1 {
					name = args[0]
				}
				addr, err := editor.AddFolder(p, name)
				if err != nil {
					return "", err
				}
				return addr.String(), nil
			})
		},
	})

	add.AddCommand(&cobra.Command{
		Use:   "link NAME URL",
		Short: "Append a link",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.mutate(cmd, func(editor *service.EditorService) (string, error) {
				p, err := parseAddress(parent)
				if err != nil {
					return "", err
				}
				addr, err := editor.AddLink(p, args[0], args[1])
				if err != nil {
					return "", err
				}
				return addr.String(), nil
			})
		},
	})

	return add
}

func newRenameCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ADDRESS NAME",
		Short: "Rename a folder or link",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.mutate(cmd, func(editor *service.EditorService) (string, error) {
				addr, err := parseAddress(args[0])
				if err != nil {
					return "", err
				}
				return "", editor.Rename(addr, args[1])
			})
		},
	}
}

func newSetURLCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "set-url ADDRESS URL",
		Short: "Change the URL of a link",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.mutate(cmd, func(editor *service.EditorService) (string, error) {
				addr, err := parseAddress(args[0])
				if err != nil {
					return "", err
				}
				return "", editor.SetURL(addr, args[1])
			})
		},
	}
}

func newRemoveCmd(e *env) *cobra.Command {
	var reparent bool
	cmd := &cobra.Command{
		Use:   "rm ADDRESS",
		Short: "Remove a node; a folder's children go with it unless --reparent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.mutate(cmd, func(editor *service.EditorService) (string, error) {
				addr, err := parseAddress(args[0])
				if err != nil {
					return "", err
				}
				policy := config.DeleteDiscard
				if reparent {
					policy = config.DeleteReparent
				}
				return "", editor.Delete(addr, policy)
			})
		},
	}
	cmd.Flags().BoolVar(&reparent, "reparent", false, "move a folder's children to the top level instead of deleting them")
	return cmd
}

func newMoveCmd(e *env) *cobra.Command {
	var placement string
	cmd := &cobra.Command{
		Use:   "mv SOURCE [TARGET]",
		Short: "Move a node before, after or into the target, or to the top level",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.mutate(cmd, func(editor *service.EditorService) (string, error) {
				p, err := tree.ParsePlacement(placement)
				if err != nil {
					return "", err
				}
				src, err := parseAddress(args[0])
				if err != nil {
					return "", err
				}
				target := models.Root
				if len(args) == 2 {
					if target, err = parseAddress(args[1]); err != nil {
						return "", err
					}
				} else if p != tree.AppendToRoot {
					return "", fmt.Errorf("placement %s needs a TARGET", p)
				}
				addr, err := editor.Move(src, target, p)
				if err != nil {
					return "", err
				}
				return addr.String(), nil
			})
		},
	}
	cmd.Flags().StringVar(&placement, "placement", "into", "before, after, into or root")
	return cmd
}

func newDedupeCmd(e *env) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Remove links whose URL repeats an earlier link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := e.editor(cmd.Context())
			if err != nil {
				return err
			}
			return commands.NewClearDoublesCommand(editor, e.out).Execute(dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only report duplicates")
	return cmd
}

func newSetNameCmd(e *env) *cobra.Command {
	var root bool
	cmd := &cobra.Command{
		Use:   "set-name NAME",
		Short: "Set the exported container name (or the top level folder label with --root)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.mutate(cmd, func(editor *service.EditorService) (string, error) {
				if root {
					editor.SetRootName(args[0])
				} else {
					editor.SetContainerName(args[0])
				}
				return "", nil
			})
		},
	}
	cmd.Flags().BoolVar(&root, "root", false, "set the top level folder label instead")
	return cmd
}

func newDraftsCmd(e *env) *cobra.Command {
	drafts := &cobra.Command{
		Use:   "drafts",
		Short: "List saved drafts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.drafts()
			if err != nil {
				return err
			}
			return commands.NewDraftsCommand(svc, e.out).Execute()
		},
	}
	drafts.AddCommand(&cobra.Command{
		Use:   "rm NAME",
		Short: "Delete a saved draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := e.drafts()
			if err != nil {
				return err
			}
			return commands.NewDraftsCommand(svc, e.out).Remove(args[0])
		},
	})
	return drafts
}
