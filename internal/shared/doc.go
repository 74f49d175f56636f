// Package shared holds helpers used by more than one package's tests.
//
// The testutil subpackage provides:
//
//	- A buffered slog handler for asserting on log output
//	- Wide-table fixtures written to a temp directory
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    input := testutil.WriteWideTable(t, t.TempDir(), testutil.ScenarioTable)
//	    // run code under test with logger and input
//	    testutil.AssertNoErrors(t, logs)
//	}
//
// Nothing here is imported by production code.
package shared
