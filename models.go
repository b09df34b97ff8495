package redmine

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// ref is the wire shape of an id+name reference embedded in other resources.
// The name is a denormalized snapshot, never authoritative.
type ref struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DateFormat is the calendar date format used by Redmine (spent_on, due_date).
const DateFormat = "2006-01-02"

// epochDate is the fallback for malformed or missing calendar dates.
var epochDate = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// ParseDate parses a Redmine calendar date. Malformed or missing input falls
// back to the Unix epoch date rather than failing the enclosing entity.
func ParseDate(s string) time.Time {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return epochDate
	}
	return t
}

// User represents a Redmine user account. Timestamps are kept as the wire
// strings; they are informational only.
type User struct {
	ID          int    `json:"id"`
	Login       string `json:"login"`
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	Mail        string `json:"mail"`
	CreatedOn   string `json:"created_on"`
	LastLoginOn string `json:"last_login_on"`
}

// FullName returns "Firstname Lastname", trimmed when either part is empty.
func (u *User) FullName() string {
	return strings.TrimSpace(u.Firstname + " " + u.Lastname)
}

// FieldValue holds a custom field value, which on the wire is either a single
// string or a list of strings (for multi-value fields). Non-string scalars
// are kept as their literal text.
type FieldValue struct {
	single string
	many   []string
	list   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*v = FieldValue{}
		return nil
	}

	switch data[0] {
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*v = FieldValue{many: list, list: true}
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FieldValue{single: s}
	default:
		// Numbers and booleans appear for some field formats; keep the text.
		*v = FieldValue{single: string(data)}
	}
	return nil
}

// MarshalJSON implements json.Marshaler, reproducing the wire shape.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	if v.list {
		return json.Marshal(v.many)
	}
	return json.Marshal(v.single)
}

// String returns the scalar value, or the list joined with ", " for
// multi-value fields.
func (v FieldValue) String() string {
	if v.list {
		return strings.Join(v.many, ", ")
	}
	return v.single
}

// List returns the values of a multi-value field and whether the field was a
// list on the wire.
func (v FieldValue) List() ([]string, bool) {
	return v.many, v.list
}

// CustomFieldValue is a custom field value attached to a resource.
type CustomFieldValue struct {
	ID    int        `json:"id"`
	Name  string     `json:"name"`
	Value FieldValue `json:"value"`
}

// PossibleValue is one allowed value of a list-format custom field.
type PossibleValue struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// CustomFieldDefinition describes a custom field from the server's catalog.
type CustomFieldDefinition struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	CustomizedType string          `json:"customized_type"`
	FieldFormat    string          `json:"field_format"`
	PossibleValues []PossibleValue `json:"possible_values"`
	IsRequired     bool            `json:"is_required"`
	IsFilter       bool            `json:"is_filter"`
	Searchable     bool            `json:"searchable"`
	Multiple       bool            `json:"multiple"`
	DefaultValue   string          `json:"default_value"`
}

// Project represents a Redmine project.
//
// CustomFields is nil when the response did not carry the custom_fields key
// and non-nil (possibly empty) when it did.
type Project struct {
	ID           int                `json:"id"`
	Name         string             `json:"name"`
	Identifier   string             `json:"identifier"`
	Description  string             `json:"description"`
	Status       int                `json:"status"`
	IsPublic     bool               `json:"is_public"`
	CreatedOn    string             `json:"created_on"`
	UpdatedOn    string             `json:"updated_on"`
	CustomFields []CustomFieldValue `json:"custom_fields"`
}

// CustomField returns the value of the first custom field with the given
// name. ok is false when the field list is unknown or the name is absent.
func (p *Project) CustomField(name string) (FieldValue, bool) {
	return lookupCustomField(p.CustomFields, func(cf CustomFieldValue) bool {
		return cf.Name == name
	})
}

// CustomFieldByID returns the value of the first custom field with the given
// id. ok is false when the field list is unknown or the id is absent.
func (p *Project) CustomFieldByID(id int) (FieldValue, bool) {
	return lookupCustomField(p.CustomFields, func(cf CustomFieldValue) bool {
		return cf.ID == id
	})
}

func lookupCustomField(fields []CustomFieldValue, match func(CustomFieldValue) bool) (FieldValue, bool) {
	for _, cf := range fields {
		if match(cf) {
			return cf.Value, true
		}
	}
	return FieldValue{}, false
}

// TimeEntry represents a logged unit of work.
type TimeEntry struct {
	ID           int
	ProjectID    int
	ProjectName  string
	IssueID      int
	UserID       int
	UserName     string
	ActivityID   int
	ActivityName string
	Hours        float64
	Comments     string
	SpentOn      time.Time
	CreatedOn    string
	UpdatedOn    string
}

// UnmarshalJSON implements json.Unmarshaler, flattening the nested
// project/issue/user/activity references.
func (e *TimeEntry) UnmarshalJSON(data []byte) error {
	var w struct {
		ID        int     `json:"id"`
		Project   ref     `json:"project"`
		Issue     ref     `json:"issue"`
		User      ref     `json:"user"`
		Activity  ref     `json:"activity"`
		Hours     float64 `json:"hours"`
		Comments  string  `json:"comments"`
		SpentOn   string  `json:"spent_on"`
		CreatedOn string  `json:"created_on"`
		UpdatedOn string  `json:"updated_on"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*e = TimeEntry{
		ID:           w.ID,
		ProjectID:    w.Project.ID,
		ProjectName:  w.Project.Name,
		IssueID:      w.Issue.ID,
		UserID:       w.User.ID,
		UserName:     w.User.Name,
		ActivityID:   w.Activity.ID,
		ActivityName: w.Activity.Name,
		Hours:        w.Hours,
		Comments:     w.Comments,
		SpentOn:      ParseDate(w.SpentOn),
		CreatedOn:    w.CreatedOn,
		UpdatedOn:    w.UpdatedOn,
	}
	return nil
}

// JournalDetail records a single field-level diff within a journal entry.
// Property is one of "attr", "cf", "attachment", "relation". Old and new
// values are nullable on the wire.
type JournalDetail struct {
	Property string  `json:"property"`
	Name     string  `json:"name"`
	OldValue *string `json:"old_value"`
	NewValue *string `json:"new_value"`
}

// Journal is one entry of an issue's append-only history: a comment, a set
// of field changes, or both.
type Journal struct {
	ID           int
	UserID       int
	UserName     string
	Notes        string
	CreatedOn    string
	PrivateNotes bool
	Details      []JournalDetail
}

// UnmarshalJSON implements json.Unmarshaler.
func (j *Journal) UnmarshalJSON(data []byte) error {
	var w struct {
		ID           int             `json:"id"`
		User         ref             `json:"user"`
		Notes        string          `json:"notes"`
		CreatedOn    string          `json:"created_on"`
		PrivateNotes bool            `json:"private_notes"`
		Details      []JournalDetail `json:"details"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*j = Journal{
		ID:           w.ID,
		UserID:       w.User.ID,
		UserName:     w.User.Name,
		Notes:        w.Notes,
		CreatedOn:    w.CreatedOn,
		PrivateNotes: w.PrivateNotes,
		Details:      w.Details,
	}
	return nil
}

// Attachment represents a file attached to an issue or wiki page.
type Attachment struct {
	ID          int
	Filename    string
	Filesize    int64
	ContentType string
	Description string
	ContentURL  string
	AuthorID    int
	AuthorName  string
	CreatedOn   string
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Attachment) UnmarshalJSON(data []byte) error {
	var w struct {
		ID          int    `json:"id"`
		Filename    string `json:"filename"`
		Filesize    int64  `json:"filesize"`
		ContentType string `json:"content_type"`
		Description string `json:"description"`
		ContentURL  string `json:"content_url"`
		Author      ref    `json:"author"`
		CreatedOn   string `json:"created_on"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*a = Attachment{
		ID:          w.ID,
		Filename:    w.Filename,
		Filesize:    w.Filesize,
		ContentType: w.ContentType,
		Description: w.Description,
		ContentURL:  w.ContentURL,
		AuthorID:    w.Author.ID,
		AuthorName:  w.Author.Name,
		CreatedOn:   w.CreatedOn,
	}
	return nil
}

// Relation links two issues.
type Relation struct {
	ID           int    `json:"id"`
	IssueID      int    `json:"issue_id"`
	IssueToID    int    `json:"issue_to_id"`
	RelationType string `json:"relation_type"`
	Delay        int    `json:"delay"`
}

// Changeset represents a VCS commit associated with an issue. The revision
// string is the identifier; changesets carry no numeric id.
type Changeset struct {
	Revision    string
	UserID      int
	UserName    string
	Comments    string
	CommittedOn string
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Changeset) UnmarshalJSON(data []byte) error {
	var w struct {
		Revision    string `json:"revision"`
		User        ref    `json:"user"`
		Comments    string `json:"comments"`
		CommittedOn string `json:"committed_on"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*c = Changeset{
		Revision:    w.Revision,
		UserID:      w.User.ID,
		UserName:    w.User.Name,
		Comments:    w.Comments,
		CommittedOn: w.CommittedOn,
	}
	return nil
}

// AllowedStatus is a legal next status for an issue under the workflow.
type AllowedStatus struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	IsClosed bool   `json:"is_closed"`
}

// Issue represents a Redmine issue.
//
// The collection fields (CustomFields through Children) are tri-state: nil
// when the response did not carry the key (the relation was not requested),
// non-nil and empty when the server reported an empty list, populated
// otherwise.
type Issue struct {
	ID             int
	ProjectID      int
	ProjectName    string
	TrackerID      int
	TrackerName    string
	StatusID       int
	StatusName     string
	PriorityID     int
	PriorityName   string
	AuthorID       int
	AuthorName     string
	AssignedToID   int
	AssignedToName string
	Subject        string
	Description    string
	DoneRatio      int
	EstimatedHours float64
	SpentHours     float64
	CreatedOn      string
	UpdatedOn      string

	CustomFields    []CustomFieldValue
	Journals        []Journal
	Attachments     []Attachment
	Relations       []Relation
	Watchers        []User
	Changesets      []Changeset
	AllowedStatuses []AllowedStatus
	Children        []Issue
}

// UnmarshalJSON implements json.Unmarshaler, flattening nested references and
// parsing children recursively. Depth is bounded only by the response itself.
func (i *Issue) UnmarshalJSON(data []byte) error {
	var w struct {
		ID             int     `json:"id"`
		Project        ref     `json:"project"`
		Tracker        ref     `json:"tracker"`
		Status         ref     `json:"status"`
		Priority       ref     `json:"priority"`
		Author         ref     `json:"author"`
		AssignedTo     ref     `json:"assigned_to"`
		Subject        string  `json:"subject"`
		Description    string  `json:"description"`
		DoneRatio      int     `json:"done_ratio"`
		EstimatedHours float64 `json:"estimated_hours"`
		SpentHours     float64 `json:"spent_hours"`
		CreatedOn      string  `json:"created_on"`
		UpdatedOn      string  `json:"updated_on"`

		CustomFields    []CustomFieldValue `json:"custom_fields"`
		Journals        []Journal          `json:"journals"`
		Attachments     []Attachment       `json:"attachments"`
		Relations       []Relation         `json:"relations"`
		Watchers        []User             `json:"watchers"`
		Changesets      []Changeset        `json:"changesets"`
		AllowedStatuses []AllowedStatus    `json:"allowed_statuses"`
		Children        []Issue            `json:"children"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*i = Issue{
		ID:             w.ID,
		ProjectID:      w.Project.ID,
		ProjectName:    w.Project.Name,
		TrackerID:      w.Tracker.ID,
		TrackerName:    w.Tracker.Name,
		StatusID:       w.Status.ID,
		StatusName:     w.Status.Name,
		PriorityID:     w.Priority.ID,
		PriorityName:   w.Priority.Name,
		AuthorID:       w.Author.ID,
		AuthorName:     w.Author.Name,
		AssignedToID:   w.AssignedTo.ID,
		AssignedToName: w.AssignedTo.Name,
		Subject:        w.Subject,
		Description:    w.Description,
		DoneRatio:      w.DoneRatio,
		EstimatedHours: w.EstimatedHours,
		SpentHours:     w.SpentHours,
		CreatedOn:      w.CreatedOn,
		UpdatedOn:      w.UpdatedOn,

		CustomFields:    w.CustomFields,
		Journals:        w.Journals,
		Attachments:     w.Attachments,
		Relations:       w.Relations,
		Watchers:        w.Watchers,
		Changesets:      w.Changesets,
		AllowedStatuses: w.AllowedStatuses,
		Children:        w.Children,
	}
	return nil
}

// CustomField returns the value of the first custom field with the given
// name. ok is false when the field list is unknown or the name is absent.
func (i *Issue) CustomField(name string) (FieldValue, bool) {
	return lookupCustomField(i.CustomFields, func(cf CustomFieldValue) bool {
		return cf.Name == name
	})
}

// CustomFieldByID returns the value of the first custom field with the given
// id. ok is false when the field list is unknown or the id is absent.
func (i *Issue) CustomFieldByID(id int) (FieldValue, bool) {
	return lookupCustomField(i.CustomFields, func(cf CustomFieldValue) bool {
		return cf.ID == id
	})
}

// WikiPage represents a wiki page. Pages are identified by title within a
// project; the parent relationship is by title only.
type WikiPage struct {
	Title       string
	Text        string
	Version     int
	AuthorID    int
	AuthorName  string
	Comments    string
	CreatedOn   string
	UpdatedOn   string
	ParentTitle string
	Attachments []Attachment
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *WikiPage) UnmarshalJSON(data []byte) error {
	var w struct {
		Title     string `json:"title"`
		Text      string `json:"text"`
		Version   int    `json:"version"`
		Author    ref    `json:"author"`
		Comments  string `json:"comments"`
		CreatedOn string `json:"created_on"`
		UpdatedOn string `json:"updated_on"`
		Parent    struct {
			Title string `json:"title"`
		} `json:"parent"`
		Attachments []Attachment `json:"attachments"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*p = WikiPage{
		Title:       w.Title,
		Text:        w.Text,
		Version:     w.Version,
		AuthorID:    w.Author.ID,
		AuthorName:  w.Author.Name,
		Comments:    w.Comments,
		CreatedOn:   w.CreatedOn,
		UpdatedOn:   w.UpdatedOn,
		ParentTitle: w.Parent.Title,
		Attachments: w.Attachments,
	}
	return nil
}
