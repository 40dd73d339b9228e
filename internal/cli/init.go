package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/brandonbloom/testlab/internal/config"
	"github.com/spf13/cobra"
)

func newInitCommand(global *globalFlags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default " + config.FileName,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := global.configPath
			if _, err := os.Stat(path); err == nil && !force {
				return usageError(fmt.Errorf("%s already exists; pass --force to overwrite", path))
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}
