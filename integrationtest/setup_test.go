// Package integrationtest exercises the client against a live Redmine
// instance. The tests are skipped unless REDMINE_URL and REDMINE_API_KEY are
// set; they only read, except where noted.
package integrationtest

import (
	"os"
	"testing"

	"github.com/randalmurphal/redmine"
	"github.com/stretchr/testify/require"
)

// liveClient returns a client for the instance named by the environment, or
// skips the test when none is configured.
func liveClient(t *testing.T) *redmine.Client {
	t.Helper()

	if os.Getenv(redmine.EnvURL) == "" || os.Getenv(redmine.EnvAPIKey) == "" {
		t.Skipf("skipping: %s and %s not set", redmine.EnvURL, redmine.EnvAPIKey)
	}

	client, err := redmine.NewClient(redmine.FromEnv())
	require.NoError(t, err, "client construction")
	return client
}

// testProject returns the identifier of a project the integration tests may
// write to, or skips when none is configured.
func testProject(t *testing.T) string {
	t.Helper()

	project := os.Getenv("REDMINE_TEST_PROJECT")
	if project == "" {
		t.Skip("skipping: REDMINE_TEST_PROJECT not set")
	}
	return project
}
