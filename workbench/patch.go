package workbench

import (
	"fmt"
	"log/slog"
	"os"
)

// Install writes block into the bundle at path, replacing any previous block,
// then refreshes the integrity checksum. Returns whether the file changed.
func Install(path, block string) (bool, error) {
	data, mode, err := readBundle(path)
	if err != nil {
		return false, err
	}

	patched, err := Apply(string(data), block)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	changed := patched != string(data)
	if changed {
		if err := os.WriteFile(path, []byte(patched), mode); err != nil {
			return false, fmt.Errorf("writing workbench: %w", err)
		}
	}

	refreshChecksum(path)
	return changed, nil
}

// Remove strips every block from the bundle at path and refreshes the
// checksum. Returns whether a block was removed.
func Remove(path string) (bool, error) {
	data, mode, err := readBundle(path)
	if err != nil {
		return false, err
	}

	content := string(data)
	if !Enabled(content) {
		return false, nil
	}
	stripped := Strip(content)
	if err := os.WriteFile(path, []byte(stripped), mode); err != nil {
		return false, fmt.Errorf("writing workbench: %w", err)
	}

	refreshChecksum(path)
	return stripped != content, nil
}

// IsEnabled reports whether the bundle at path carries a block.
// Unreadable files report false.
func IsEnabled(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return Enabled(string(data))
}

func readBundle(path string) ([]byte, os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, 0, fmt.Errorf("reading workbench: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("reading workbench: %w", err)
	}
	return data, info.Mode().Perm(), nil
}

// refreshChecksum is advisory: a failure never fails the patch.
func refreshChecksum(path string) {
	if err := UpdateChecksum(path); err != nil {
		slog.Debug("checksum not updated", "path", path, "error", err)
	}
}
