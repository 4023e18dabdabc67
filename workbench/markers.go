// Package workbench patches the editor's bundled workbench script.
//
// This is host-version-fragile integration code: it knows where the editor
// keeps its bundle, how to splice a marker-delimited block into it, and how to
// keep the integrity checksum in product.json in step. The bundle itself is
// treated as opaque text; only the marker pair is ever searched for.
package workbench

import (
	"errors"
	"regexp"
	"strings"

	"github.com/pthm-cable/snow/inject"
)

// ErrDanglingMarker is returned when the bundle holds a start marker with no
// matching end marker, so the old block cannot be removed safely.
var ErrDanglingMarker = errors.New("workbench: start marker without end marker")

// blockPattern also takes the newline that separates a block from the
// preceding content.
var blockPattern = regexp.MustCompile(`\n?` + regexp.QuoteMeta(inject.StartMarker) + `[\s\S]*?` + regexp.QuoteMeta(inject.EndMarker))

// Strip removes every marker-delimited block together with one newline right
// before it. Other bytes are untouched.
func Strip(content string) string {
	return blockPattern.ReplaceAllLiteralString(content, "")
}

// Enabled reports whether content carries a block.
func Enabled(content string) bool {
	return strings.Contains(content, inject.StartMarker)
}

// Apply replaces any existing block with block, appended at the end as is.
// block carries its own leading newline, so Strip(Apply(c, b)) == c for
// unpatched c and Apply(Apply(c, b), b) == Apply(c, b).
func Apply(content, block string) (string, error) {
	base := Strip(content)
	if Enabled(base) {
		return "", ErrDanglingMarker
	}
	return base + block, nil
}
