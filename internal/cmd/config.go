package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Digital-Shane/reelshelf/internal/config"

	"github.com/spf13/cobra"
)

func printConfig(cmd *cobra.Command, a *app) error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(a.cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	p := newPrinter(cmd.OutOrStdout())
	if _, err := os.Stat(path); err != nil {
		p.line("# %s (not created, showing defaults)", path)
	} else {
		p.line("# %s", path)
	}
	p.line("%s", data)
	return nil
}

func runConfigInit(cmd *cobra.Command) error {
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	if err := config.DefaultConfig().Save(); err != nil {
		return err
	}
	newPrinter(cmd.OutOrStdout()).success("Wrote default configuration to %s", path)
	return nil
}
