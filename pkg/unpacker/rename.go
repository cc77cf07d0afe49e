package unpacker

import (
	"strings"

	"github.com/arthur-debert/packdrop/pkg/types"
)

// mapName applies a single-wildcard rename rule to a file name. The text
// matched by "*" in From replaces the "*" in To. A From without a wildcard
// only matches itself.
func mapName(rule *types.RenameRule, name string) (string, bool) {
	from := rule.From
	if from == "" {
		from = "*"
	}

	star := strings.IndexByte(from, '*')
	if star < 0 {
		if name != from {
			return "", false
		}
		return rule.To, true
	}

	prefix, suffix := from[:star], from[star+1:]
	if len(name) < len(prefix)+len(suffix) ||
		!strings.HasPrefix(name, prefix) ||
		!strings.HasSuffix(name, suffix) {
		return "", false
	}
	matched := name[len(prefix) : len(name)-len(suffix)]
	return strings.Replace(rule.To, "*", matched, 1), true
}
