package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phobologic/phpdoccheck/internal/config"
)

const configHeader = "# phpdoccheck settings. Command-line flags override these values.\n"

// newInitCommand implements `phpdoccheck init`, which writes a config file
// holding the default settings.
func newInitCommand(stdout, stderr io.Writer) *cobra.Command {
	var (
		dryRun bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default " + config.DefaultFile,
		Long: `Write a ` + config.DefaultFile + ` holding the default settings to directory
(default "."). An existing file is left alone unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			content, err := generateConfig()
			if err != nil {
				return err
			}

			if dryRun {
				_, _ = fmt.Fprint(stdout, content)
				return nil
			}

			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			path := filepath.Join(dir, config.DefaultFile)

			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				} else if !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("checking %s: %w", path, err)
				}
			}

			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			_, _ = fmt.Fprintf(stderr, "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without creating the file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

// generateConfig renders the default settings with a short header.
func generateConfig() (string, error) {
	data, err := config.Marshal(config.Default())
	if err != nil {
		return "", err
	}
	return configHeader + string(data), nil
}
