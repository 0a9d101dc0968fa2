package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/KennethOlivas/zen-draw-sub000/config"
	"github.com/KennethOlivas/zen-draw-sub000/document"
	"github.com/KennethOlivas/zen-draw-sub000/editor"
	"github.com/KennethOlivas/zen-draw-sub000/store"
	"github.com/KennethOlivas/zen-draw-sub000/tui"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

type projectFlags struct {
	db   string
	user string
}

// open resolves the store path and user from flags, falling back to the config.
func (p *projectFlags) open() (*store.Store, string, *config.Config, error) {
	cfg := loadConfig()
	path, user := cfg.Store.Path, cfg.Store.User
	if p.db != "" {
		path = p.db
	}
	if p.user != "" {
		user = p.user
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, "", nil, err
	}
	return st, user, cfg, nil
}

func newProjectCommand() *cobra.Command {
	flags := &projectFlags{}
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage drawings kept in the local project store",
	}
	cmd.PersistentFlags().StringVar(&flags.db, "db", "", "Project database (default from config)")
	cmd.PersistentFlags().StringVar(&flags.user, "user", "", "Acting user (default from config)")

	cmd.AddCommand(
		newProjectCreateCommand(flags),
		newProjectListCommand(flags),
		newProjectOpenCommand(flags),
		newProjectImportCommand(flags),
		newProjectExportCommand(flags),
		newProjectRenameCommand(flags),
		newProjectShareCommand(flags),
		newProjectDeleteCommand(flags),
	)
	return cmd
}

// withStore runs fn against an open store and closes it afterwards.
func withStore(flags *projectFlags, fn func(ctx context.Context, st *store.Store, user string, cfg *config.Config) error) error {
	st, user, cfg, err := flags.open()
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(context.Background(), st, user, cfg)
}

func newProjectCreateCommand(flags *projectFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty private project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(flags, func(ctx context.Context, st *store.Store, user string, _ *config.Config) error {
				p, err := st.Create(ctx, user, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), p.ID)
				return nil
			})
		},
	}
}

func newProjectListCommand(flags *projectFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the projects you own",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(flags, func(ctx context.Context, st *store.Store, user string, _ *config.Config) error {
				projects, err := st.List(ctx, user)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					headerStyle.Render("ID"), headerStyle.Render("NAME"), headerStyle.Render("VISIBILITY"), headerStyle.Render("UPDATED"))
				for _, p := range projects {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Visibility, p.UpdatedAt.Local().Format("2006-01-02 15:04"))
				}
				return w.Flush()
			})
		},
	}
}

func newProjectOpenCommand(flags *projectFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "open <id>",
		Short: "Edit a project in the terminal editor",
		Long: `Open a project in the terminal editor. Projects shared as view-only open
read-only for anyone but the owner; ctrl+s writes back to the store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireTerminal(); err != nil {
				return err
			}
			return withStore(flags, func(ctx context.Context, st *store.Store, user string, cfg *config.Config) error {
				id := args[0]
				bundle, access, err := st.Load(ctx, user, id)
				if err != nil {
					return err
				}
				opts := cfg.EditorOptions()
				opts.CanEdit = access.CanEdit()
				opts.Clipboard = tui.SystemClipboard{}
				ed := editor.New(nil, opts)
				if err := ed.LoadBundle(bundle); err != nil {
					return err
				}
				return tui.Run(ed, tui.Options{
					Confirmations: cfg.Confirmations,
					Save: func(ed *editor.Editor) error {
						return st.Save(ctx, user, id, ed.Bundle())
					},
				})
			})
		},
	}
}

func newProjectImportCommand(flags *projectFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <id> <drawing.json>",
		Short: "Replace a project's elements with a drawing file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.ReadFile(args[1])
			if err != nil {
				return err
			}
			return withStore(flags, func(ctx context.Context, st *store.Store, user string, _ *config.Config) error {
				bundle, _, err := st.Load(ctx, user, args[0])
				if err != nil {
					return err
				}
				bundle.Elements = doc.Elements
				bundle.BackgroundColor = doc.BackgroundColor
				return st.Save(ctx, user, args[0], bundle)
			})
		},
	}
}

func newProjectExportCommand(flags *projectFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export <id> <drawing.json>",
		Short: "Write a project out as a drawing file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(flags, func(ctx context.Context, st *store.Store, user string, _ *config.Config) error {
				bundle, _, err := st.Load(ctx, user, args[0])
				if err != nil {
					return err
				}
				return document.WriteFile(args[1], document.New(bundle.Elements, bundle.BackgroundColor))
			})
		},
	}
}

func newProjectRenameCommand(flags *projectFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a project you own",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(flags, func(ctx context.Context, st *store.Store, user string, _ *config.Config) error {
				return st.Rename(ctx, user, args[0], args[1])
			})
		},
	}
}

func newProjectShareCommand(flags *projectFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "share <id> <private|view|edit>",
		Short: "Change who can see or edit a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := store.ParseVisibility(args[1])
			if err != nil {
				return err
			}
			return withStore(flags, func(ctx context.Context, st *store.Store, user string, _ *config.Config) error {
				return st.Share(ctx, user, args[0], v)
			})
		},
	}
}

func newProjectDeleteCommand(flags *projectFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(flags, func(ctx context.Context, st *store.Store, user string, _ *config.Config) error {
				if err := st.Delete(ctx, user, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}
