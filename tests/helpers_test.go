// Package tests contains test cases for models, repository and flow packages
// that need a live PostgreSQL instance
package tests

import (
	"testing"

	testingutil "github.com/amirphl/Jorogumo/testing"
)

// withTestDB provisions a throwaway database and skips the test when no
// PostgreSQL server is reachable
func withTestDB(t *testing.T) (*testingutil.TestDB, *testingutil.TestFixtures) {
	t.Helper()

	testDB, err := testingutil.SetupTestDB()
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	t.Cleanup(func() {
		if err := testDB.TeardownTestDB(); err != nil {
			t.Logf("teardown warning: %v", err)
		}
	})

	return testDB, testingutil.NewTestFixtures(testDB)
}
