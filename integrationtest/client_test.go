package integrationtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/randalmurphal/redmine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentUser(t *testing.T) {
	client := liveClient(t)

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, user.Login)
}

func TestListProjects(t *testing.T) {
	client := liveClient(t)

	projects, err := client.ListProjects(context.Background(), nil)
	require.NoError(t, err)

	seen := make(map[int]bool, len(projects))
	for _, p := range projects {
		assert.NotZero(t, p.ID)
		assert.NotEmpty(t, p.Identifier)
		assert.False(t, seen[p.ID], "project %d listed twice", p.ID)
		seen[p.ID] = true
	}
}

func TestErrorClassification(t *testing.T) {
	client := liveClient(t)

	_, err := client.GetIssue(context.Background(), 999999999, nil)
	require.Error(t, err)
	assert.True(t, redmine.IsNotFound(err), "expected not-found, got %v", err)
}

func TestIssueLifecycle(t *testing.T) {
	client := liveClient(t)
	project := testProject(t)
	ctx := context.Background()

	issue, err := client.CreateIssue(ctx, &redmine.IssueRequest{
		ProjectID: project,
		Subject:   fmt.Sprintf("integration test %d", time.Now().UnixNano()),
	})
	require.NoError(t, err, "create")
	t.Cleanup(func() {
		_ = client.DeleteIssue(ctx, issue.ID)
	})

	require.NoError(t, client.AddIssueNote(ctx, issue.ID, "first note"), "add note")

	fetched, err := client.GetIssue(ctx, issue.ID, &redmine.GetIssueOptions{
		Include: []string{"journals"},
	})
	require.NoError(t, err, "get")
	assert.Equal(t, issue.Subject, fetched.Subject)
	require.NotNil(t, fetched.Journals, "journals were requested")
	require.Len(t, fetched.Journals, 1)
	assert.Equal(t, "first note", fetched.Journals[0].Notes)

	require.NoError(t, client.DeleteIssue(ctx, issue.ID), "delete")
	_, err = client.GetIssue(ctx, issue.ID, nil)
	assert.True(t, redmine.IsNotFound(err), "deleted issue should be gone, got %v", err)
}

func TestAsyncMatchesSync(t *testing.T) {
	client := liveClient(t)
	ctx := context.Background()

	syncUser, err := client.CurrentUser(ctx)
	require.NoError(t, err)

	asyncUser, err := client.Async().CurrentUser(ctx).Get(ctx)
	require.NoError(t, err)

	assert.Equal(t, syncUser.ID, asyncUser.ID)
	assert.Equal(t, syncUser.Login, asyncUser.Login)
}
