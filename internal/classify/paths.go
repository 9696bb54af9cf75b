package classify

import (
	"os"
	"path/filepath"
	"strings"
)

// resolveTarget normalizes a command operand to an absolute path: ~ expands
// to the home directory, relative paths resolve against the working
// directory.
func resolveTarget(target, cwd string) string {
	if target == "~" || strings.HasPrefix(target, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			target = filepath.Join(home, strings.TrimPrefix(target, "~"))
		}
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(cwd, target)
	}
	return filepath.Clean(target)
}

// isWithin reports whether path is root or lives under it.
func isWithin(path, root string) bool {
	root = filepath.Clean(root)
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}

// inAnyDir reports whether path is inside any of the listed roots.
func inAnyDir(path string, roots []string) bool {
	for _, root := range roots {
		if root == "" {
			continue
		}
		if isWithin(path, root) {
			return true
		}
	}
	return false
}
