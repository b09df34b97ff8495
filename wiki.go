package redmine

import (
	"context"
	"fmt"
	"net/url"
)

type wikiPageEnvelope struct {
	WikiPage *WikiPageRequest `json:"wiki_page"`
}

// ListWikiPages retrieves the index of a project's wiki. The index carries
// titles and hierarchy; page text requires GetWikiPage.
func (c *Client) ListWikiPages(ctx context.Context, project string) ([]WikiPage, error) {
	if project == "" {
		return nil, ErrProjectRequired
	}
	var env struct {
		WikiPages []WikiPage `json:"wiki_pages"`
	}
	path := fmt.Sprintf("/projects/%s/wiki/index.json", project)
	if err := c.http.Get(ctx, path, &env); err != nil {
		return nil, err
	}
	return env.WikiPages, nil
}

// GetWikiPage retrieves a wiki page by title. Titles containing spaces or
// reserved characters are escaped before hitting the wire.
func (c *Client) GetWikiPage(ctx context.Context, project, title string, opts *GetWikiPageOptions) (*WikiPage, error) {
	if project == "" {
		return nil, ErrProjectRequired
	}
	if title == "" {
		return nil, ErrWikiTitleRequired
	}

	q := url.Values{}
	if opts != nil && opts.IncludeAttachments {
		q.Set("include", "attachments")
	}

	var env struct {
		WikiPage WikiPage `json:"wiki_page"`
	}
	path := withQuery(fmt.Sprintf("/projects/%s/wiki/%s.json", project, url.PathEscape(title)), q)
	if err := c.http.Get(ctx, path, &env); err != nil {
		return nil, err
	}
	return &env.WikiPage, nil
}

// CreateOrUpdateWikiPage writes a wiki page's text. Redmine treats PUT as an
// upsert: the page is created when the title does not exist yet.
func (c *Client) CreateOrUpdateWikiPage(ctx context.Context, project, title string, req *WikiPageRequest) error {
	if project == "" {
		return ErrProjectRequired
	}
	if title == "" {
		return ErrWikiTitleRequired
	}
	path := fmt.Sprintf("/projects/%s/wiki/%s.json", project, url.PathEscape(title))
	return c.http.Put(ctx, path, &wikiPageEnvelope{WikiPage: req}, nil)
}

// DeleteWikiPage deletes a wiki page and its whole history.
func (c *Client) DeleteWikiPage(ctx context.Context, project, title string) error {
	if project == "" {
		return ErrProjectRequired
	}
	if title == "" {
		return ErrWikiTitleRequired
	}
	return c.http.Delete(ctx, fmt.Sprintf("/projects/%s/wiki/%s.json", project, url.PathEscape(title)))
}
