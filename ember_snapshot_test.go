package ember_test

import (
	"testing"

	"github.com/emberlang/ember"
	"github.com/emberlang/ember/internal/testutil"
)

// Snapshot-drives the seed scenarios of spec.md §8 from testdata/*.yaml:
// every fixture's source is compiled and its diagnostic codes compared
// against the fixture's expectation.
func TestSnapshot_Scenarios(t *testing.T) {
	fixtures := testutil.LoadFixtures(t, "testdata", "*.yaml")
	for _, fx := range fixtures {
		fx := fx
		t.Run(fx.Name, func(t *testing.T) {
			res := ember.Compile(ember.File{Path: fx.Name + ".em", Text: fx.Source})
			var gotCodes []string
			for _, d := range res.Diagnostics.Diagnostics() {
				gotCodes = append(gotCodes, d.Code)
			}
			for _, want := range fx.WantDiagnostics {
				if !testutil.ErrorContains(gotCodes, want) {
					t.Errorf("%s: expected diagnostic code %s, got %v", fx.Name, want, gotCodes)
				}
			}
			if len(fx.WantDiagnostics) == 0 && len(gotCodes) != 0 {
				t.Errorf("%s: expected zero diagnostics, got %v", fx.Name, gotCodes)
			}
		})
	}
}
