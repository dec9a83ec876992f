package gen

import (
	"fmt"
	"os"
	"path/filepath"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFile writes one generated file into the subject package
// directory, creating the directory if needed.
func WriteFile(file *GeneratedFile, outputDir string) error {
	err := os.MkdirAll(outputDir, dirPerm)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	outputPath := filepath.Join(outputDir, file.Filename)

	err = os.WriteFile(outputPath, file.Content, filePerm)
	if err != nil {
		return fmt.Errorf("writing file %s: %w", file.Filename, err)
	}

	return nil
}
