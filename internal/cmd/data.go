package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Digital-Shane/reelshelf/internal/catalog"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [FILE]",
		Short: "Write the whole catalog as JSON to FILE or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.read(func(cmd *cobra.Command, args []string, svc *catalog.Service) error {
			snap, err := svc.Export(cmd.Context())
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode catalog: %w", err)
			}
			if len(args) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(args[0], data, 0644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			newPrinter(cmd.ErrOrStderr()).success("Exported %d entries to %s", len(snap.Content), args[0])
			return nil
		}),
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the catalog with a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: a.write(func(cmd *cobra.Command, args []string, svc *catalog.Service) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read import: %w", err)
			}
			var snap catalog.Snapshot
			if err := json.Unmarshal(data, &snap); err != nil {
				return fmt.Errorf("failed to parse import: %w", err)
			}
			if err := svc.Import(cmd.Context(), snap); err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).success("Imported %d entries", len(snap.Content))
			return nil
		}),
	}
}

func newClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every entry, history, bookmark and rating",
		Args:  cobra.NoArgs,
		RunE: a.write(func(cmd *cobra.Command, _ []string, svc *catalog.Service) error {
			if !yes {
				return fmt.Errorf("refusing to clear the catalog without --yes")
			}
			if err := svc.Clear(cmd.Context()); err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).success("Catalog cleared")
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm clearing the catalog")
	return cmd
}
