// pkg/unpacker/rename_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test single-wildcard rename mapping

package unpacker

import (
	"testing"

	"github.com/arthur-debert/packdrop/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestMapName(t *testing.T) {
	tests := []struct {
		name   string
		from   string
		to     string
		input  string
		want   string
		wantOK bool
	}{
		{"default wildcard", "", "*.bak", "app.ini", "app.ini.bak", true},
		{"suffix capture", "*.ini", "*.ini.old", "app.ini", "app.ini.old", true},
		{"prefix capture", "lib*", "old-lib*", "libfoo.so", "old-libfoo.so", true},
		{"no match", "*.cfg", "*.bak", "app.ini", "", false},
		{"literal match", "app.ini", "app.ini.orig", "app.ini", "app.ini.orig", true},
		{"literal mismatch", "app.ini", "x", "other.ini", "", false},
		{"overlapping prefix and suffix", "ab*ba", "*", "aba", "", false},
		{"target without wildcard", "*", "backup", "app.ini", "backup", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := mapName(&types.RenameRule{From: tt.from, To: tt.to}, tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
