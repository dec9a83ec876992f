package command

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"visitorgen/internal/gen"
)

var Generate = &cobra.Command{
	Use:     "generate",
	Short:   "Generate dispatch code for the configured package.",
	Example: "  visitorgen generate --config examples/ast/visitors.yaml",
	Args:    cobra.NoArgs,
	RunE:    commandGenerate,
}

func commandGenerate(cmd *cobra.Command, args []string) error {
	pipe, file, err := renderFile(cmd)
	if err != nil {
		return err
	}

	if err := gen.WriteFile(file, pipe.pkg.Dir); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", filepath.Join(pipe.pkg.Dir, file.Filename))

	return nil
}

func init() {
	Root.AddCommand(Generate)
}
