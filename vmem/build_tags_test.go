package vmem

import (
	"bufio"
	"go/build/constraint"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileConstraint returns the //go:build expression at the top of name.
func fileConstraint(t *testing.T, name string) constraint.Expr {
	t.Helper()
	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if constraint.IsGoBuild(line) {
			expr, err := constraint.Parse(line)
			require.NoError(t, err)
			return expr
		}
	}
	t.Fatalf("%s has no //go:build line", name)
	return nil
}

// TestBuildTags_ExactlyOneBackend checks that every target selects one
// backend, and that plan9 (no syscall.Errno) selects none.
func TestBuildTags_ExactlyOneBackend(t *testing.T) {
	unixGOOS := map[string]bool{
		"aix": true, "android": true, "darwin": true, "dragonfly": true, "freebsd": true,
		"hurd": true, "illumos": true, "ios": true, "linux": true, "netbsd": true,
		"openbsd": true, "solaris": true,
	}
	backends := map[string][2]string{
		"unix":     {"code_unix.go", "vmem_unix.go"},
		"windows":  {"code_windows.go", "vmem_windows.go"},
		"fallback": {"code_other.go", "vmem_fallback.go"},
	}

	for _, goos := range []string{"linux", "darwin", "windows", "js", "wasip1", "plan9"} {
		tags := func(tag string) bool {
			return tag == goos || (tag == "unix" && unixGOOS[goos])
		}
		var selected []string
		for name, files := range backends {
			code := fileConstraint(t, files[0]).Eval(tags)
			impl := fileConstraint(t, files[1]).Eval(tags)
			assert.Equal(t, code, impl, "%s: %s and %s disagree", goos, files[0], files[1])
			if code {
				selected = append(selected, name)
			}
		}
		if goos == "plan9" {
			assert.Empty(t, selected, "plan9 is unsupported")
			continue
		}
		assert.Len(t, selected, 1, "%s should select exactly one backend, got %v", goos, selected)
	}
}
