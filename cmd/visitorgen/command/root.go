// Package command holds the visitorgen subcommands.
package command

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool

	// logger is swapped for a development logger when --verbose is set.
	// Commands and helpers always go through this variable.
	logger = zap.NewNop()

	Root = &cobra.Command{
		Use:   "visitorgen",
		Short: "visitorgen generates visitor dispatch code from a YAML configuration.",
		Long: "`visitorgen` reads a YAML description of which types in a package take part\n" +
			"in traversal and generates their dispatch methods, visitor surfaces, and\n" +
			"capability groups. Generated code lands in the subject package directory,\n" +
			"next to the types it belongs to.\n" +
			"\n" +
			"Relative package patterns in the configuration resolve against the directory\n" +
			"of the configuration file, so commands work from any working directory.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				return nil
			}

			dev, err := zap.NewDevelopment()
			if err != nil {
				return err
			}

			logger = dev

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		SilenceUsage: true,
	}
)

func init() {
	Root.PersistentFlags().StringVarP(&configPath, "config", "c", "visitors.yaml", "Path to the visitor configuration file.")
	Root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging.")
}
