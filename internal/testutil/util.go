// Package testutil provides the diff-based assertion helpers and YAML
// fixture loader shared by every package's tests: a thin layer over
// go-cmp/go-difflib for structural and textual diffs, and over
// doublestar+yaml.v3 for discovering and parsing the testdata/*.yaml
// snapshot fixtures that exercise the scenarios in spec.md §8. Grounded on
// the teacher's internal/golden package (doublestar glob + go-difflib
// unified diff over a testdata corpus), adapted from file-extension-based
// golden comparison to YAML-fixture-based snapshot comparison since this
// domain's test inputs (Ember source plus expected diagnostics/JSON) fit
// naturally into one structured document per case rather than a directory
// of sibling files.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/go-cmp/cmp"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Fixture is one snapshot test case loaded from a testdata/*.yaml file.
type Fixture struct {
	Name            string   `yaml:"name"`
	Source          string   `yaml:"source"`
	WantDiagnostics []string `yaml:"wantDiagnostics,omitempty"`
	WantJSON        string   `yaml:"wantJSON,omitempty"`
}

// LoadFixtures reads every YAML file matching the glob pattern rooted at
// dir (e.g. "*.yaml") and decodes each into a []Fixture, concatenating
// across files. Pattern matching uses doublestar so "**/*.yaml" works for
// nested suites, mirroring the teacher's corpus-enumeration glob.
func LoadFixtures(t *testing.T, dir, pattern string) []Fixture {
	t.Helper()
	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, pattern)
	require.NoError(t, err, "globbing fixtures under %s", dir)

	var all []Fixture
	for _, m := range matches {
		data, err := os.ReadFile(filepath.Join(dir, m))
		require.NoError(t, err, "reading fixture %s", m)

		var one []Fixture
		require.NoError(t, yaml.Unmarshal(data, &one), "decoding fixture %s", m)
		all = append(all, one...)
	}
	return all
}

// DiffText reports a readable unified diff between want and got, failing
// the test if they differ. Used for comparing serialized JSON/diagnostic
// text where a line-oriented diff is more legible than a struct dump.
func DiffText(t *testing.T, label, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	}
	text, _ := difflib.GetUnifiedDiffString(diff)
	t.Errorf("%s: mismatch:\n%s", label, text)
}

// RequireEqual fails the test with a go-cmp structural diff if want and
// got are not deeply equal. Used for comparing AST/canon/checker result
// structs where field-level attribution is more useful than a single
// opaque inequality.
func RequireEqual(t *testing.T, label string, want, got any, opts ...cmp.Option) {
	t.Helper()
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Fatalf("%s: mismatch (-want +got):\n%s", label, diff)
	}
}

// ErrorContains reports whether any message in msgs contains substr.
func ErrorContains(msgs []string, substr string) bool {
	for _, m := range msgs {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
