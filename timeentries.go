package redmine

import (
	"context"
	"fmt"
)

type timeEntryEnvelope struct {
	TimeEntry *TimeEntryRequest `json:"time_entry"`
}

// GetTimeEntry retrieves a single time entry by id.
func (c *Client) GetTimeEntry(ctx context.Context, id int) (*TimeEntry, error) {
	var env struct {
		TimeEntry TimeEntry `json:"time_entry"`
	}
	if err := c.http.Get(ctx, fmt.Sprintf("/time_entries/%d.json", id), &env); err != nil {
		return nil, err
	}
	return &env.TimeEntry, nil
}

// ListTimeEntries retrieves all time entries matching the filter, following
// pagination until the server-reported total is reached.
func (c *Client) ListTimeEntries(ctx context.Context, filter *TimeEntryFilter) ([]TimeEntry, error) {
	values, err := filterValues(filter)
	if err != nil {
		return nil, err
	}
	return listAll[TimeEntry](ctx, c, "/time_entries.json", values, "time_entries")
}

// CreateTimeEntry logs time against an issue or a project and returns the
// created entry.
func (c *Client) CreateTimeEntry(ctx context.Context, req *TimeEntryRequest) (*TimeEntry, error) {
	var env struct {
		TimeEntry TimeEntry `json:"time_entry"`
	}
	if err := c.http.Post(ctx, "/time_entries.json", &timeEntryEnvelope{TimeEntry: req}, &env); err != nil {
		return nil, err
	}
	return &env.TimeEntry, nil
}

// UpdateTimeEntry applies a partial update to a time entry.
func (c *Client) UpdateTimeEntry(ctx context.Context, id int, req *TimeEntryRequest) error {
	path := fmt.Sprintf("/time_entries/%d.json", id)
	return c.http.Put(ctx, path, &timeEntryEnvelope{TimeEntry: req}, nil)
}

// DeleteTimeEntry deletes a time entry.
func (c *Client) DeleteTimeEntry(ctx context.Context, id int) error {
	return c.http.Delete(ctx, fmt.Sprintf("/time_entries/%d.json", id))
}
