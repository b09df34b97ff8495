package redmine

import (
	"context"
	"io"
)

// Future is the result of an operation started by AsyncClient. A Future is
// resolved exactly once; Get may be called any number of times afterwards.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func newFuture[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		f.val, f.err = fn()
		close(f.done)
	}()
	return f
}

// Get blocks until the operation completes or ctx is cancelled. Cancellation
// abandons the wait, not the operation; pass the same ctx to the async call
// itself to cancel the underlying request.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done reports completion without blocking.
func (f *Future[T]) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// AsyncClient exposes every client operation as a Future-returning call. Each
// operation runs on its own goroutine; multi-page listings still fetch their
// pages sequentially within that goroutine.
type AsyncClient struct {
	c *Client
}

// Async returns an asynchronous view over the client. Both views share the
// same configuration and transport.
func (c *Client) Async() *AsyncClient {
	return &AsyncClient{c: c}
}

// Sync returns the underlying synchronous client.
func (a *AsyncClient) Sync() *Client {
	return a.c
}

// Impersonate derives an async client whose operations act as login.
func (a *AsyncClient) Impersonate(login string) (*AsyncClient, error) {
	derived, err := a.c.Impersonate(login)
	if err != nil {
		return nil, err
	}
	return derived.Async(), nil
}

func (a *AsyncClient) CurrentUser(ctx context.Context) *Future[*User] {
	return newFuture(func() (*User, error) { return a.c.CurrentUser(ctx) })
}

func (a *AsyncClient) GetUser(ctx context.Context, id int) *Future[*User] {
	return newFuture(func() (*User, error) { return a.c.GetUser(ctx, id) })
}

func (a *AsyncClient) ListUsers(ctx context.Context, filter *UserFilter) *Future[[]User] {
	return newFuture(func() ([]User, error) { return a.c.ListUsers(ctx, filter) })
}

func (a *AsyncClient) CreateUser(ctx context.Context, req *UserRequest) *Future[*User] {
	return newFuture(func() (*User, error) { return a.c.CreateUser(ctx, req) })
}

func (a *AsyncClient) UpdateUser(ctx context.Context, id int, req *UserRequest) *Future[struct{}] {
	return voidFuture(func() error { return a.c.UpdateUser(ctx, id, req) })
}

func (a *AsyncClient) DeleteUser(ctx context.Context, id int) *Future[struct{}] {
	return voidFuture(func() error { return a.c.DeleteUser(ctx, id) })
}

func (a *AsyncClient) GetProject(ctx context.Context, idOrIdentifier string) *Future[*Project] {
	return newFuture(func() (*Project, error) { return a.c.GetProject(ctx, idOrIdentifier) })
}

func (a *AsyncClient) ListProjects(ctx context.Context, filter *ProjectFilter) *Future[[]Project] {
	return newFuture(func() ([]Project, error) { return a.c.ListProjects(ctx, filter) })
}

func (a *AsyncClient) CreateProject(ctx context.Context, req *ProjectRequest) *Future[*Project] {
	return newFuture(func() (*Project, error) { return a.c.CreateProject(ctx, req) })
}

func (a *AsyncClient) UpdateProject(ctx context.Context, idOrIdentifier string, req *ProjectRequest) *Future[struct{}] {
	return voidFuture(func() error { return a.c.UpdateProject(ctx, idOrIdentifier, req) })
}

func (a *AsyncClient) DeleteProject(ctx context.Context, idOrIdentifier string) *Future[struct{}] {
	return voidFuture(func() error { return a.c.DeleteProject(ctx, idOrIdentifier) })
}

func (a *AsyncClient) GetIssue(ctx context.Context, id int, opts *GetIssueOptions) *Future[*Issue] {
	return newFuture(func() (*Issue, error) { return a.c.GetIssue(ctx, id, opts) })
}

func (a *AsyncClient) ListIssues(ctx context.Context, filter *IssueFilter) *Future[[]Issue] {
	return newFuture(func() ([]Issue, error) { return a.c.ListIssues(ctx, filter) })
}

func (a *AsyncClient) CreateIssue(ctx context.Context, req *IssueRequest) *Future[*Issue] {
	return newFuture(func() (*Issue, error) { return a.c.CreateIssue(ctx, req) })
}

func (a *AsyncClient) UpdateIssue(ctx context.Context, id int, req *IssueRequest) *Future[struct{}] {
	return voidFuture(func() error { return a.c.UpdateIssue(ctx, id, req) })
}

func (a *AsyncClient) DeleteIssue(ctx context.Context, id int) *Future[struct{}] {
	return voidFuture(func() error { return a.c.DeleteIssue(ctx, id) })
}

func (a *AsyncClient) AddIssueNote(ctx context.Context, id int, notes string) *Future[struct{}] {
	return voidFuture(func() error { return a.c.AddIssueNote(ctx, id, notes) })
}

func (a *AsyncClient) AddIssuePrivateNote(ctx context.Context, id int, notes string) *Future[struct{}] {
	return voidFuture(func() error { return a.c.AddIssuePrivateNote(ctx, id, notes) })
}

func (a *AsyncClient) ListCustomFields(ctx context.Context) *Future[[]CustomFieldDefinition] {
	return newFuture(func() ([]CustomFieldDefinition, error) { return a.c.ListCustomFields(ctx) })
}

func (a *AsyncClient) ListIssueCustomFields(ctx context.Context) *Future[[]CustomFieldDefinition] {
	return newFuture(func() ([]CustomFieldDefinition, error) { return a.c.ListIssueCustomFields(ctx) })
}

func (a *AsyncClient) FindCustomFieldByName(ctx context.Context, name string) *Future[*CustomFieldDefinition] {
	return newFuture(func() (*CustomFieldDefinition, error) { return a.c.FindCustomFieldByName(ctx, name) })
}

func (a *AsyncClient) GetTimeEntry(ctx context.Context, id int) *Future[*TimeEntry] {
	return newFuture(func() (*TimeEntry, error) { return a.c.GetTimeEntry(ctx, id) })
}

func (a *AsyncClient) ListTimeEntries(ctx context.Context, filter *TimeEntryFilter) *Future[[]TimeEntry] {
	return newFuture(func() ([]TimeEntry, error) { return a.c.ListTimeEntries(ctx, filter) })
}

func (a *AsyncClient) CreateTimeEntry(ctx context.Context, req *TimeEntryRequest) *Future[*TimeEntry] {
	return newFuture(func() (*TimeEntry, error) { return a.c.CreateTimeEntry(ctx, req) })
}

func (a *AsyncClient) UpdateTimeEntry(ctx context.Context, id int, req *TimeEntryRequest) *Future[struct{}] {
	return voidFuture(func() error { return a.c.UpdateTimeEntry(ctx, id, req) })
}

func (a *AsyncClient) DeleteTimeEntry(ctx context.Context, id int) *Future[struct{}] {
	return voidFuture(func() error { return a.c.DeleteTimeEntry(ctx, id) })
}

func (a *AsyncClient) ListWikiPages(ctx context.Context, project string) *Future[[]WikiPage] {
	return newFuture(func() ([]WikiPage, error) { return a.c.ListWikiPages(ctx, project) })
}

func (a *AsyncClient) GetWikiPage(ctx context.Context, project, title string, opts *GetWikiPageOptions) *Future[*WikiPage] {
	return newFuture(func() (*WikiPage, error) { return a.c.GetWikiPage(ctx, project, title, opts) })
}

func (a *AsyncClient) CreateOrUpdateWikiPage(ctx context.Context, project, title string, req *WikiPageRequest) *Future[struct{}] {
	return voidFuture(func() error { return a.c.CreateOrUpdateWikiPage(ctx, project, title, req) })
}

func (a *AsyncClient) DeleteWikiPage(ctx context.Context, project, title string) *Future[struct{}] {
	return voidFuture(func() error { return a.c.DeleteWikiPage(ctx, project, title) })
}

func (a *AsyncClient) GetAttachment(ctx context.Context, id int) *Future[*Attachment] {
	return newFuture(func() (*Attachment, error) { return a.c.GetAttachment(ctx, id) })
}

func (a *AsyncClient) DownloadAttachment(ctx context.Context, id int) *Future[[]byte] {
	return newFuture(func() ([]byte, error) { return a.c.DownloadAttachment(ctx, id) })
}

func (a *AsyncClient) DeleteAttachment(ctx context.Context, id int) *Future[struct{}] {
	return voidFuture(func() error { return a.c.DeleteAttachment(ctx, id) })
}

func (a *AsyncClient) Upload(ctx context.Context, filename string, r io.Reader) *Future[*Upload] {
	return newFuture(func() (*Upload, error) { return a.c.Upload(ctx, filename, r) })
}

func (a *AsyncClient) UploadFile(ctx context.Context, path string) *Future[*Upload] {
	return newFuture(func() (*Upload, error) { return a.c.UploadFile(ctx, path) })
}

func voidFuture(fn func() error) *Future[struct{}] {
	return newFuture(func() (struct{}, error) { return struct{}{}, fn() })
}
