package redmine

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// issueEnvelope wraps an issue body for create and update requests.
type issueEnvelope struct {
	Issue *IssueRequest `json:"issue"`
}

// GetIssue retrieves a single issue by id. opts selects related collections
// to embed; a nil opts fetches the bare issue.
func (c *Client) GetIssue(ctx context.Context, id int, opts *GetIssueOptions) (*Issue, error) {
	q := url.Values{}
	if opts != nil {
		include, notice := reconcileInclude(opts.IncludeJournals, opts.Include)
		if notice {
			c.deprecationf(`GetIssueOptions.IncludeJournals is deprecated; add "journals" to Include instead`)
		}
		if len(include) > 0 {
			q.Set("include", strings.Join(include, ","))
		}
	}

	var env struct {
		Issue Issue `json:"issue"`
	}
	path := withQuery(fmt.Sprintf("/issues/%d.json", id), q)
	if err := c.http.Get(ctx, path, &env); err != nil {
		return nil, err
	}
	return &env.Issue, nil
}

// ListIssues retrieves all issues matching the filter, following pagination
// until the server-reported total is reached.
func (c *Client) ListIssues(ctx context.Context, filter *IssueFilter) ([]Issue, error) {
	values, err := filterValues(filter)
	if err != nil {
		return nil, err
	}
	return listAll[Issue](ctx, c, "/issues.json", values, "issues")
}

// CreateIssue creates a new issue and returns the created entity.
func (c *Client) CreateIssue(ctx context.Context, req *IssueRequest) (*Issue, error) {
	var env struct {
		Issue Issue `json:"issue"`
	}
	if err := c.http.Post(ctx, "/issues.json", &issueEnvelope{Issue: req}, &env); err != nil {
		return nil, err
	}
	return &env.Issue, nil
}

// UpdateIssue applies a partial update to an issue. Fields the caller did not
// set are not sent. The server acknowledges with 204 No Content.
func (c *Client) UpdateIssue(ctx context.Context, id int, req *IssueRequest) error {
	path := fmt.Sprintf("/issues/%d.json", id)
	return c.http.Put(ctx, path, &issueEnvelope{Issue: req}, nil)
}

// DeleteIssue deletes an issue.
func (c *Client) DeleteIssue(ctx context.Context, id int) error {
	return c.http.Delete(ctx, fmt.Sprintf("/issues/%d.json", id))
}

// AddIssueNote appends a comment to an issue's journal.
func (c *Client) AddIssueNote(ctx context.Context, id int, notes string) error {
	return c.UpdateIssue(ctx, id, &IssueRequest{Notes: notes})
}

// AddIssuePrivateNote appends a comment visible only to privileged users.
func (c *Client) AddIssuePrivateNote(ctx context.Context, id int, notes string) error {
	return c.UpdateIssue(ctx, id, &IssueRequest{Notes: notes, PrivateNotes: true})
}
