package cli

import (
	"fmt"
	"strings"

	"github.com/brandonbloom/testlab/filetest"
	"github.com/spf13/cobra"
)

func newFilesCommand(global *globalFlags) *cobra.Command {
	var basePath string
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Inspect and manipulate files produced by the command under test",
	}
	cmd.PersistentFlags().StringVar(&basePath, "base", "", "resolve relative paths against this directory (default from config)")

	helper := func() (*filetest.Helper, error) {
		cfg, err := global.loadConfig()
		if err != nil {
			return nil, err
		}
		return filetest.NewHelper(filetest.WithBasePath(firstNonEmpty(basePath, cfg.Files.BasePath))), nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "exists <path>",
			Short: "Exit 0 if path exists, 1 otherwise",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				h, err := helper()
				if err != nil {
					return err
				}
				if !h.FileExists(args[0]) {
					return &exitError{code: exitFail, err: fmt.Errorf("%s does not exist", args[0])}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "count <glob>",
			Short: "Print how many paths match glob",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				h, err := helper()
				if err != nil {
					return err
				}
				n, err := h.FileGlobExists(args[0])
				if err != nil {
					return usageError(err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
				return err
			},
		},
		&cobra.Command{
			Use:   "cat <path-or-glob>",
			Short: "Print the contents of every matching file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				h, err := helper()
				if err != nil {
					return err
				}
				contents, err := h.FileGlobTextContent(args[0])
				if err != nil {
					return usageError(err)
				}
				if len(contents) == 0 {
					return &exitError{code: exitFail, err: fmt.Errorf("no files match %s", args[0])}
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), strings.Join(contents, ""))
				return err
			},
		},
		&cobra.Command{
			Use:   "write <path> <content>",
			Short: "Write content to path, creating parent directories",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				h, err := helper()
				if err != nil {
					return err
				}
				return h.CreateFile(args[0], []byte(args[1]), filetest.NoCleanup())
			},
		},
		&cobra.Command{
			Use:   "mkdir <path>",
			Short: "Create a directory and any missing parents",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				h, err := helper()
				if err != nil {
					return err
				}
				return h.CreateDir(args[0], filetest.NoCleanup())
			},
		},
		&cobra.Command{
			Use:   "rm <path-or-glob>...",
			Short: "Remove every matching path, recursively",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				h, err := helper()
				if err != nil {
					return err
				}
				for _, pattern := range args {
					h.RegisterGlobForCleanup(pattern)
				}
				return h.Cleanup()
			},
		},
	)
	return cmd
}
