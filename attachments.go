package redmine

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
)

// GetAttachment retrieves an attachment's metadata by id. The returned
// ContentURL is where the actual bytes live; see DownloadAttachment.
func (c *Client) GetAttachment(ctx context.Context, id int) (*Attachment, error) {
	var env struct {
		Attachment Attachment `json:"attachment"`
	}
	if err := c.http.Get(ctx, fmt.Sprintf("/attachments/%d.json", id), &env); err != nil {
		return nil, err
	}
	return &env.Attachment, nil
}

// DownloadAttachment fetches an attachment's raw content. It resolves the
// metadata first, then fetches from the content URL.
func (c *Client) DownloadAttachment(ctx context.Context, id int) ([]byte, error) {
	att, err := c.GetAttachment(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.DownloadAttachmentContent(ctx, att)
}

// DownloadAttachmentContent fetches the raw content of already-resolved
// attachment metadata.
func (c *Client) DownloadAttachmentContent(ctx context.Context, att *Attachment) ([]byte, error) {
	if att.ContentURL == "" {
		return nil, fmt.Errorf("attachment %d: %w", att.ID, ErrAttachmentNoContentURL)
	}
	return c.http.GetRawURL(ctx, att.ContentURL)
}

// DeleteAttachment deletes an attachment.
func (c *Client) DeleteAttachment(ctx context.Context, id int) error {
	return c.http.Delete(ctx, fmt.Sprintf("/attachments/%d.json", id))
}

// Upload stages file content on the server and returns an upload token. The
// token is attached to an issue by listing it in IssueRequest.Uploads; tokens
// expire unattached.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*Upload, error) {
	if filename == "" {
		return nil, ErrFilenameRequired
	}

	var env struct {
		Upload struct {
			ID    int    `json:"id"`
			Token string `json:"token"`
		} `json:"upload"`
	}
	path := "/uploads.json?filename=" + url.QueryEscape(filename)
	if err := c.http.PostBinary(ctx, path, "application/octet-stream", r, &env); err != nil {
		return nil, err
	}
	return &Upload{Token: env.Upload.Token, Filename: filename}, nil
}

// UploadFile stages a local file on the server and returns an upload token.
func (c *Client) UploadFile(ctx context.Context, path string) (*Upload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return c.Upload(ctx, filepath.Base(path), f)
}
