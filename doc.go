// Package redmine provides a client for the Redmine REST API.
//
// The client covers issues, projects, users, time entries, wiki pages,
// attachments, and custom field definitions, with typed models that flatten
// Redmine's nested reference objects into plain id/name fields.
//
// # Usage
//
//	cfg := redmine.NewConfig("https://redmine.example.com", "your-api-key")
//
//	client, err := redmine.NewClient(cfg)
//	if err != nil {
//		return err
//	}
//
//	issue, err := client.GetIssue(ctx, 4321, &redmine.GetIssueOptions{
//		Include: []string{"journals", "attachments"},
//	})
//
// Listing operations follow Redmine's offset pagination transparently and
// return the full result set:
//
//	issues, err := client.ListIssues(ctx, &redmine.IssueFilter{
//		ProjectID: "infra",
//		StatusID:  "open",
//	})
//
// # Impersonation
//
// Admin API keys may act on behalf of another user. Impersonate derives a new
// client and leaves the original untouched:
//
//	asBob, err := client.Impersonate("bob")
//	if err != nil {
//		return err
//	}
//	_, err = asBob.CreateIssue(ctx, req)
//
// # Asynchronous API
//
// Async returns a view whose operations start immediately and resolve through
// futures:
//
//	f := client.Async().ListIssues(ctx, filter)
//	// ... other work ...
//	issues, err := f.Get(ctx)
//
// # Error Handling
//
// The package uses redmine/http error types for consistent error handling.
// Use errors.Is() to check for specific conditions:
//
//	if errors.Is(err, http.ErrNotFound) {
//		// Issue doesn't exist
//	}
//	if errors.Is(err, http.ErrValidation) {
//		// 422; the *redmine.APIError carries the server's messages
//	}
package redmine
