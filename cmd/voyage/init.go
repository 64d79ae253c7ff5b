package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/voyage-ai/voyage/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the voyage home directory and a default config file",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	home := homeDir()
	if err := os.MkdirAll(home, 0o755); err != nil {
		return err
	}

	path := filepath.Join(home, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Config already exists at %s\n", path)
		return nil
	}

	cfg := config.DefaultConfig()
	cfg.Core.HomeDir = home
	cfg.Core.DataDir = filepath.Join(home, "data")
	cfg.Store.Path = filepath.Join(home, "voyage.db")

	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized voyage home at %s\n", home)
	return nil
}
