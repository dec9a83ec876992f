package command

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var Check = &cobra.Command{
	Use:   "check",
	Short: "Verify the generated file on disk is up to date.",
	Long: "`check` runs the full generation pipeline and compares the result against the\n" +
		"file on disk, without writing anything. It exits non-zero when the two differ,\n" +
		"which makes it suitable for CI.",
	Args: cobra.NoArgs,
	RunE: commandCheck,
}

func commandCheck(cmd *cobra.Command, args []string) error {
	pipe, file, err := renderFile(cmd)
	if err != nil {
		return err
	}

	path := filepath.Join(pipe.pkg.Dir, file.Filename)

	onDisk, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s does not exist; run visitorgen generate", path)
	}

	if err != nil {
		return err
	}

	if !bytes.Equal(onDisk, file.Content) {
		return fmt.Errorf("%s is out of date; run visitorgen generate", path)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date\n", path)

	return nil
}

func init() {
	Root.AddCommand(Check)
}
