package job

import (
	"os"
	"path/filepath"
)

// writeFile creates an empty file under dir.
func writeFile(dir, name string) error {
	return os.WriteFile(filepath.Join(dir, name), nil, 0o600)
}
