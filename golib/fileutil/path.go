package fileutil

import (
	"path"
	"path/filepath"
	"strings"
)

// Join appends elems to root, which may be a local directory or a URI prefix
// such as s3://bucket/prefix. Elements are not escaped, so names may contain spaces.
func Join(root string, elems ...string) string {
	if i := strings.Index(root, "://"); i >= 0 {
		return root[:i+3] + path.Join(append([]string{root[i+3:]}, elems...)...)
	}
	return filepath.Join(append([]string{root}, elems...)...)
}
