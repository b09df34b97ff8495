package redmine

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// IssueFilter narrows an issue listing. ID-valued filters are strings because
// the API accepts symbolic values ("me" for assigned_to_id, "open"/"closed"
// for status_id) alongside numeric ids.
type IssueFilter struct {
	ProjectID    string `url:"project_id,omitempty"`
	TrackerID    string `url:"tracker_id,omitempty"`
	StatusID     string `url:"status_id,omitempty"`
	PriorityID   string `url:"priority_id,omitempty"`
	AssignedToID string `url:"assigned_to_id,omitempty"`
	AuthorID     string `url:"author_id,omitempty"`
	Subject      string `url:"subject,omitempty"`
	CreatedOn    string `url:"created_on,omitempty"`
	UpdatedOn    string `url:"updated_on,omitempty"`
	Sort         string `url:"sort,omitempty"`
}

// ProjectFilter narrows a project listing.
type ProjectFilter struct {
	Name   string `url:"name,omitempty"`
	Status string `url:"status,omitempty"`
}

// UserFilter narrows a user listing.
type UserFilter struct {
	Status  string `url:"status,omitempty"`
	Name    string `url:"name,omitempty"`
	GroupID string `url:"group_id,omitempty"`
}

// TimeEntryFilter narrows a time entry listing.
type TimeEntryFilter struct {
	ProjectID string `url:"project_id,omitempty"`
	IssueID   string `url:"issue_id,omitempty"`
	UserID    string `url:"user_id,omitempty"`
	SpentOn   string `url:"spent_on,omitempty"`
	From      string `url:"from,omitempty"`
	To        string `url:"to,omitempty"`
}

// filterValues encodes a filter struct into query parameters. A nil filter
// yields empty values.
func filterValues(filter any) (url.Values, error) {
	if filter == nil {
		return url.Values{}, nil
	}
	values, err := query.Values(filter)
	if err != nil {
		return nil, fmt.Errorf("encode filter: %w", err)
	}
	return values, nil
}

// GetIssueOptions controls which related collections the server embeds in a
// single-issue fetch.
type GetIssueOptions struct {
	// Include lists the relations to embed: "journals", "attachments",
	// "relations", "watchers", "changesets", "allowed_statuses", "children".
	Include []string

	// IncludeJournals asks for journal history.
	//
	// Deprecated: add "journals" to Include instead. Setting this emits a
	// deprecation notice on the client's warning writer.
	IncludeJournals bool
}

// reconcileInclude merges the legacy journals flag into the modern include
// list. "journals" ends up in the result exactly once; every other name is
// preserved unchanged. notice reports whether the legacy flag was used.
func reconcileInclude(includeJournals bool, include []string) (merged []string, notice bool) {
	if !includeJournals {
		return include, false
	}

	merged = make([]string, 0, len(include)+1)
	seen := false
	for _, name := range include {
		if name == "journals" {
			if seen {
				continue
			}
			seen = true
		}
		merged = append(merged, name)
	}
	if !seen {
		merged = append(merged, "journals")
	}
	return merged, true
}

// GetWikiPageOptions controls a single wiki page fetch.
type GetWikiPageOptions struct {
	// IncludeAttachments asks for the page's attachments.
	IncludeAttachments bool
}

// CustomFieldParam sets a custom field value in a create or update request.
type CustomFieldParam struct {
	ID    int `json:"id"`
	Value any `json:"value"`
}

// Upload references a previously uploaded file by its token so it can be
// attached to a resource.
type Upload struct {
	Token       string `json:"token"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// IssueRequest is the body of an issue create or update. Only fields the
// caller sets are serialized; pointer fields distinguish "set to zero" from
// "not provided" where zero is meaningful.
type IssueRequest struct {
	ProjectID      string             `json:"project_id,omitempty"`
	TrackerID      int                `json:"tracker_id,omitempty"`
	StatusID       int                `json:"status_id,omitempty"`
	PriorityID     int                `json:"priority_id,omitempty"`
	Subject        string             `json:"subject,omitempty"`
	Description    string             `json:"description,omitempty"`
	AssignedToID   int                `json:"assigned_to_id,omitempty"`
	ParentIssueID  int                `json:"parent_issue_id,omitempty"`
	DoneRatio      *int               `json:"done_ratio,omitempty"`
	EstimatedHours *float64           `json:"estimated_hours,omitempty"`
	IsPrivate      *bool              `json:"is_private,omitempty"`
	Notes          string             `json:"notes,omitempty"`
	PrivateNotes   bool               `json:"private_notes,omitempty"`
	CustomFields   []CustomFieldParam `json:"custom_fields,omitempty"`
	Uploads        []Upload           `json:"uploads,omitempty"`
	WatcherUserIDs []int              `json:"watcher_user_ids,omitempty"`
}

// ProjectRequest is the body of a project create or update.
type ProjectRequest struct {
	Name         string             `json:"name,omitempty"`
	Identifier   string             `json:"identifier,omitempty"`
	Description  string             `json:"description,omitempty"`
	IsPublic     *bool              `json:"is_public,omitempty"`
	ParentID     int                `json:"parent_id,omitempty"`
	CustomFields []CustomFieldParam `json:"custom_fields,omitempty"`
}

// UserRequest is the body of a user create or update.
type UserRequest struct {
	Login     string `json:"login,omitempty"`
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
	Mail      string `json:"mail,omitempty"`
	Password  string `json:"password,omitempty"`
}

// TimeEntryRequest is the body of a time entry create or update. Exactly one
// of IssueID and ProjectID identifies the target.
type TimeEntryRequest struct {
	IssueID    int     `json:"issue_id,omitempty"`
	ProjectID  string  `json:"project_id,omitempty"`
	SpentOn    string  `json:"spent_on,omitempty"`
	Hours      float64 `json:"hours,omitempty"`
	ActivityID int     `json:"activity_id,omitempty"`
	Comments   string  `json:"comments,omitempty"`
}

// WikiPageRequest is the body of a wiki page create or update. Text is always
// serialized; a page with empty text is legal.
type WikiPageRequest struct {
	Text        string `json:"text"`
	Comments    string `json:"comments,omitempty"`
	ParentTitle string `json:"parent_title,omitempty"`
}
