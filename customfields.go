package redmine

import (
	"context"
	"fmt"
)

// ListCustomFields retrieves every custom field definition on the server.
// The endpoint is not paginated; Redmine returns all definitions at once.
// Requires admin privileges.
func (c *Client) ListCustomFields(ctx context.Context) ([]CustomFieldDefinition, error) {
	var env struct {
		CustomFields []CustomFieldDefinition `json:"custom_fields"`
	}
	if err := c.http.Get(ctx, "/custom_fields.json", &env); err != nil {
		return nil, err
	}
	return env.CustomFields, nil
}

// ListIssueCustomFields retrieves the custom field definitions attached to
// issues.
func (c *Client) ListIssueCustomFields(ctx context.Context) ([]CustomFieldDefinition, error) {
	fields, err := c.ListCustomFields(ctx)
	if err != nil {
		return nil, err
	}
	issueFields := make([]CustomFieldDefinition, 0, len(fields))
	for _, f := range fields {
		if f.CustomizedType == "issue" {
			issueFields = append(issueFields, f)
		}
	}
	return issueFields, nil
}

// FindCustomFieldByName looks up a custom field definition by its exact name.
// Returns ErrCustomFieldNotFound when no definition matches.
func (c *Client) FindCustomFieldByName(ctx context.Context, name string) (*CustomFieldDefinition, error) {
	fields, err := c.ListCustomFields(ctx)
	if err != nil {
		return nil, err
	}
	for i := range fields {
		if fields[i].Name == name {
			return &fields[i], nil
		}
	}
	return nil, fmt.Errorf("custom field %q: %w", name, ErrCustomFieldNotFound)
}
