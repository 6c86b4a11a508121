package cmd

import (
	"fmt"

	"github.com/Digital-Shane/reelshelf/internal/catalog"
	oplog "github.com/Digital-Shane/reelshelf/internal/log"
	"github.com/Digital-Shane/reelshelf/internal/playback"
	"github.com/Digital-Shane/reelshelf/internal/preview"
	"github.com/Digital-Shane/reelshelf/internal/tui/add"
	"github.com/Digital-Shane/reelshelf/internal/tui/browse"
	configui "github.com/Digital-Shane/reelshelf/internal/tui/config"
	"github.com/Digital-Shane/reelshelf/internal/tui/undo"

	"github.com/Digital-Shane/treeview"
	"github.com/spf13/cobra"
)

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog and pick something to watch",
		Args:  cobra.NoArgs,
		RunE: a.write(func(cmd *cobra.Command, _ []string, svc *catalog.Service) error {
			ctx := cmd.Context()
			items, err := browse.LoadItems(ctx, svc)
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())
			if len(items) == 0 {
				p.line("The catalog is empty. Add something with reelshelf add.")
				return nil
			}

			final, err := a.runProgram(browse.New(browse.BuildTree(items, p.theme), browse.WithTheme(p.theme)))
			if err != nil {
				return fmt.Errorf("failed to run browser: %w", err)
			}
			model, ok := final.(*browse.Model)
			if !ok {
				return fmt.Errorf("unexpected model type %T after browsing", final)
			}
			it, ok := model.Selected().Get()
			if !ok {
				return nil
			}

			target, err := playback.Resolve(it.Content, it.EpisodeChoice(), it.History)
			if err != nil {
				return err
			}
			if _, err := svc.SaveHistory(ctx, catalog.History{ContentID: target.ContentID, CurrentEpisode: target.Episode}); err != nil {
				return err
			}
			p.heading(p.theme.Icon("play") + " " + target.DisplayTitle())
			p.line("%s", target.URL)
			for _, link := range playback.Intents(target.URL, target.DisplayTitle()).Links() {
				p.field(link[0], link[1])
			}
			return nil
		}),
	}
}

func newPreviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "preview",
		Aliases: []string{"add-tui"},
		Short:   "Add series interactively with a live filename preview",
		Args:    cobra.NoArgs,
		RunE: a.write(func(cmd *cobra.Command, _ []string, svc *catalog.Service) error {
			model := add.New(svc, preview.New(a.cfg.PreviewTTL()),
				add.WithContext(cmd.Context()),
				add.WithPreviewLimit(a.cfg.PreviewLimit),
				add.WithDefaultEpisodes(a.cfg.DefaultEpisodes),
			)
			final, err := a.runProgram(model)
			if err != nil {
				return fmt.Errorf("failed to run add screen: %w", err)
			}
			if m, ok := final.(*add.Model); ok {
				p := newPrinter(cmd.OutOrStdout())
				for _, c := range m.Added() {
					p.success("Added series %q (%s) with %d episodes", c.Title, shortID(c.ID), len(c.Episodes))
				}
			}
			return nil
		}),
	}
}

func newConfigCmd(a *app) *cobra.Command {
	var (
		initDefaults bool
		edit         bool
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show, initialize or edit the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch {
			case initDefaults:
				return runConfigInit(cmd)
			case edit:
				model, err := configui.New()
				if err != nil {
					return fmt.Errorf("failed to initialize config UI: %w", err)
				}
				if _, err := a.runProgram(model); err != nil {
					return fmt.Errorf("failed to run config UI: %w", err)
				}
				return nil
			default:
				return printConfig(cmd, a)
			}
		},
	}
	cmd.Flags().BoolVar(&initDefaults, "init", false, "Write the default configuration file")
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "Edit the configuration interactively")
	cmd.MarkFlagsMutuallyExclusive("init", "edit")
	return cmd
}

func newUndoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo recent catalog changes",
		Long: `Display recent catalog sessions and allow selective undo.

Every command that changes the catalog is recorded as a session. Undoing a
session restores the records it touched, skipping any that changed since.`,
		Args: cobra.NoArgs,
		RunE: a.read(func(cmd *cobra.Command, _ []string, svc *catalog.Service) error {
			summaries, err := oplog.GetSessionSummaries()
			if err != nil {
				return fmt.Errorf("failed to read log sessions: %w", err)
			}
			if len(summaries) == 0 {
				newPrinter(cmd.OutOrStdout()).line("No operation sessions found to undo.")
				return nil
			}

			store := a.store
			undoSession := func(summary oplog.SessionSummary) (int, int, []error) {
				successful, failed, errs := oplog.UndoSession(cmd.Context(), store, summary.Session)
				if failed == 0 {
					if err := oplog.DeleteSession(summary.FilePath); err != nil {
						errs = append(errs, err)
					}
				}
				return successful, failed, errs
			}

			tree := treeview.NewTree(undo.SessionNodes(summaries))
			_, err = a.runProgram(undo.NewUndoModel(tree, undoSession))
			return err
		}),
	}
}
