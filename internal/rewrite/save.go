package rewrite

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// Save writes the flattened buffer to path on fs, replacing any existing file.
func Save(fs afero.Fs, path string, b *Buffer) error {
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	if _, err := b.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}
