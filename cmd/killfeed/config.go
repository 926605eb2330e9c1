package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/killfeed/internal/configdialog"
	"github.com/at-ishikawa/killfeed/internal/preferences"
)

func newConfigCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "config",
		Short: "Panel preferences",
	}
	command.AddCommand(
		newConfigEditCommand(),
		newConfigShowCommand(),
	)
	return command
}

func newConfigEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the position, line count and order of the panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store := preferences.NewFileStore(cfg.Preferences.Directory)
			dialog := configdialog.New(store, cfg.Preferences.AddonID, cmd.InOrStdin(), cmd.OutOrStdout())
			if _, err := dialog.Run(cmd.Context()); err != nil {
				return fmt.Errorf("dialog.Run() > %w", err)
			}
			return nil
		},
	}
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store := preferences.NewFileStore(cfg.Preferences.Directory)
			prefs, err := preferences.Load(store, cfg.Preferences.AddonID)
			if err != nil {
				return fmt.Errorf("preferences.Load() > %w", err)
			}
			encoder := yaml.NewEncoder(cmd.OutOrStdout())
			defer func() {
				_ = encoder.Close()
			}()
			if err := encoder.Encode(prefs.ToMap()); err != nil {
				return fmt.Errorf("encoder.Encode() > %w", err)
			}
			return nil
		},
	}
}
