package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func TestAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantMsg    string
		wantUnwrap error
	}{
		{
			name: "not found",
			err: &APIError{
				Service:    "redmine",
				StatusCode: 404,
				Message:    "Not Found",
				Endpoint:   "/issues/99999.json",
			},
			wantMsg:    "redmine API error (404) at /issues/99999.json: Not Found",
			wantUnwrap: ErrNotFound,
		},
		{
			name: "unauthorized",
			err: &APIError{
				Service:    "redmine",
				StatusCode: 401,
				Message:    "Unauthorized",
				Endpoint:   "/users/current.json",
			},
			wantMsg:    "redmine API error (401) at /users/current.json: Unauthorized",
			wantUnwrap: ErrUnauthorized,
		},
		{
			name: "forbidden",
			err: &APIError{
				Service:    "redmine",
				StatusCode: 403,
				Message:    "Forbidden",
				Endpoint:   "/projects/secret.json",
			},
			wantMsg:    "redmine API error (403) at /projects/secret.json: Forbidden",
			wantUnwrap: ErrForbidden,
		},
		{
			name: "validation",
			err: &APIError{
				Service:    "redmine",
				StatusCode: 422,
				Message:    "Unprocessable Entity",
				Endpoint:   "/issues.json",
			},
			wantMsg:    "redmine API error (422) at /issues.json: Unprocessable Entity",
			wantUnwrap: ErrValidation,
		},
		{
			name: "server error",
			err: &APIError{
				Service:    "redmine",
				StatusCode: 500,
				Message:    "Internal Server Error",
				Endpoint:   "/issues.json",
			},
			wantMsg:    "redmine API error (500) at /issues.json: Internal Server Error",
			wantUnwrap: ErrServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantUnwrap) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantUnwrap)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	inner := errors.New("connection refused")
	err := &TransportError{Service: "redmine", Err: inner}

	if got, want := err.Error(), "redmine request failed: connection refused"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, inner) {
		t.Error("TransportError should unwrap to the inner error")
	}
	if !IsTransport(err) {
		t.Error("IsTransport() = false, want true")
	}
	if IsTransport(&APIError{StatusCode: 500}) {
		t.Error("IsTransport(APIError) = true, want false")
	}
}

func TestPageIterator(t *testing.T) {
	t.Run("two pages with offsets 0 and 100", func(t *testing.T) {
		const total = 150
		var offsets []int
		fetch := func(_ context.Context, offset, limit int) ([]int, int, error) {
			offsets = append(offsets, offset)
			var items []int
			for i := offset; i < total && i < offset+limit; i++ {
				items = append(items, i+1)
			}
			return items, total, nil
		}

		iter := NewPageIterator(fetch, 100)
		got, err := iter.All(context.Background())
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}

		if len(got) != total {
			t.Fatalf("got %d items, want %d", len(got), total)
		}
		for i, v := range got {
			if v != i+1 {
				t.Fatalf("item %d = %d, want %d", i, v, i+1)
			}
		}
		if len(offsets) != 2 || offsets[0] != 0 || offsets[1] != 100 {
			t.Errorf("offsets = %v, want [0 100]", offsets)
		}
		if iter.Total() != total {
			t.Errorf("Total() = %d, want %d", iter.Total(), total)
		}
		if iter.Fetched() != total {
			t.Errorf("Fetched() = %d, want %d", iter.Fetched(), total)
		}
	})

	t.Run("single short page", func(t *testing.T) {
		fetch := func(_ context.Context, offset, limit int) ([]string, int, error) {
			if offset > 0 {
				t.Fatalf("unexpected fetch at offset %d", offset)
			}
			return []string{"a", "b"}, 2, nil
		}

		got, err := NewPageIterator(fetch, 100).All(context.Background())
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d items, want 2", len(got))
		}
	})

	t.Run("handles empty result", func(t *testing.T) {
		fetch := func(_ context.Context, _, _ int) ([]string, int, error) {
			return nil, 0, nil
		}

		got, err := NewPageIterator(fetch, 100).All(context.Background())
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d items, want 0", len(got))
		}
	})

	t.Run("tolerates short page mid-stream", func(t *testing.T) {
		// Server claims 250 items but hands back a short second page;
		// the iterator must still advance by the page size and stop at
		// the total, not loop forever.
		calls := 0
		fetch := func(_ context.Context, offset, limit int) ([]int, int, error) {
			calls++
			switch offset {
			case 0:
				return make([]int, 100), 250, nil
			case 100:
				return make([]int, 30), 250, nil
			case 200:
				return make([]int, 50), 250, nil
			default:
				return nil, 250, fmt.Errorf("unexpected offset %d", offset)
			}
		}

		got, err := NewPageIterator(fetch, 100).All(context.Background())
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		if calls != 3 {
			t.Errorf("fetch calls = %d, want 3", calls)
		}
		if len(got) != 180 {
			t.Errorf("got %d items, want 180", len(got))
		}
	})

	t.Run("propagates error and discards partial results", func(t *testing.T) {
		wantErr := errors.New("fetch failed")
		fetch := func(_ context.Context, offset, _ int) ([]int, int, error) {
			if offset == 0 {
				return []int{1, 2, 3}, 200, nil
			}
			return nil, 0, wantErr
		}

		got, err := NewPageIterator(fetch, 3).All(context.Background())
		if !errors.Is(err, wantErr) {
			t.Errorf("got error %v, want %v", err, wantErr)
		}
		if got != nil {
			t.Errorf("got %v, want nil on failure", got)
		}
	})

	t.Run("Take limits results", func(t *testing.T) {
		fetch := func(_ context.Context, offset, limit int) ([]int, int, error) {
			items := make([]int, limit)
			return items, 1000, nil
		}

		got, err := NewPageIterator(fetch, 5).Take(context.Background(), 3)
		if err != nil {
			t.Fatalf("Take() error = %v", err)
		}
		if len(got) != 3 {
			t.Errorf("got %d items, want 3", len(got))
		}
	})

	t.Run("ForEach processes all items", func(t *testing.T) {
		fetch := func(_ context.Context, offset, _ int) ([]int, int, error) {
			if offset > 0 {
				return nil, 3, nil
			}
			return []int{1, 2, 3}, 3, nil
		}

		var sum int
		err := NewPageIterator(fetch, 100).ForEach(context.Background(), func(i int) error {
			sum += i
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach() error = %v", err)
		}
		if sum != 6 {
			t.Errorf("sum = %d, want 6", sum)
		}
	})
}

func TestClient(t *testing.T) {
	t.Run("successful GET", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"name": "test"})
		}))
		defer server.Close()

		client := NewClient(ClientConfig{
			BaseURL:     server.URL,
			ServiceName: "test",
		})

		var result map[string]string
		if err := client.Get(context.Background(), "/test", &result); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if result["name"] != "test" {
			t.Errorf("result = %v, want name=test", result)
		}
	})

	t.Run("204 is success with empty payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := NewClient(ClientConfig{BaseURL: server.URL, ServiceName: "test"})

		var result map[string]string
		if err := client.Put(context.Background(), "/test", map[string]string{"a": "b"}, &result); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if result != nil {
			t.Errorf("result = %v, want untouched nil map", result)
		}
	})

	t.Run("error parser hook receives status and body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"errors":["boom"]}`))
		}))
		defer server.Close()

		var gotStatus int
		var gotBody string
		client := NewClient(ClientConfig{
			BaseURL:     server.URL,
			ServiceName: "test",
			ParseError: func(status int, body []byte, endpoint string) error {
				gotStatus = status
				gotBody = string(body)
				return ErrValidation
			},
		})

		err := client.Post(context.Background(), "/test", nil, nil)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("Post() error = %v, want ErrValidation", err)
		}
		if gotStatus != 422 {
			t.Errorf("parser status = %d, want 422", gotStatus)
		}
		if gotBody != `{"errors":["boom"]}` {
			t.Errorf("parser body = %q", gotBody)
		}
	})

	t.Run("default parser falls back to status text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>nope</html>"))
		}))
		defer server.Close()

		client := NewClient(ClientConfig{BaseURL: server.URL, ServiceName: "test"})

		err := client.Get(context.Background(), "/test", nil)
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("error = %v, want *APIError", err)
		}
		if apiErr.StatusCode != 502 {
			t.Errorf("StatusCode = %d, want 502", apiErr.StatusCode)
		}
		if apiErr.Message != "Bad Gateway" {
			t.Errorf("Message = %q, want %q", apiErr.Message, "Bad Gateway")
		}
	})

	t.Run("beforeRequest hook applies to every verb", func(t *testing.T) {
		var seen []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = append(seen, r.Header.Get("X-Custom"))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := NewClient(ClientConfig{
			BaseURL:     server.URL,
			ServiceName: "test",
			BeforeRequest: func(req *http.Request) {
				req.Header.Set("X-Custom", "yes")
			},
		})

		ctx := context.Background()
		_ = client.Get(ctx, "/a", nil)
		_ = client.Post(ctx, "/b", nil, nil)
		_ = client.Delete(ctx, "/c")

		if len(seen) != 3 {
			t.Fatalf("server saw %d requests, want 3", len(seen))
		}
		for i, v := range seen {
			if v != "yes" {
				t.Errorf("request %d missing custom header", i)
			}
		}
	})

	t.Run("WithBeforeRequest does not mutate the original", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"who": r.Header.Get("X-Who")})
		}))
		defer server.Close()

		original := NewClient(ClientConfig{
			BaseURL:     server.URL,
			ServiceName: "test",
			BeforeRequest: func(req *http.Request) {
				req.Header.Set("X-Who", "original")
			},
		})
		derived := original.WithBeforeRequest(func(req *http.Request) {
			req.Header.Set("X-Who", "derived")
		})

		var result map[string]string
		if err := derived.Get(context.Background(), "/", &result); err != nil {
			t.Fatalf("derived Get() error = %v", err)
		}
		if result["who"] != "derived" {
			t.Errorf("derived saw %q, want derived", result["who"])
		}

		if err := original.Get(context.Background(), "/", &result); err != nil {
			t.Fatalf("original Get() error = %v", err)
		}
		if result["who"] != "original" {
			t.Errorf("original saw %q, want original", result["who"])
		}
	})

	t.Run("PostBinary sends raw body with content type", func(t *testing.T) {
		var gotType string
		var gotBody []byte
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotType = r.Header.Get("Content-Type")
			gotBody, _ = io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"ok": "1"})
		}))
		defer server.Close()

		client := NewClient(ClientConfig{BaseURL: server.URL, ServiceName: "test"})

		var result map[string]string
		err := client.PostBinary(context.Background(), "/upload", "application/octet-stream",
			bytes.NewReader([]byte("raw bytes")), &result)
		if err != nil {
			t.Fatalf("PostBinary() error = %v", err)
		}
		if gotType != "application/octet-stream" {
			t.Errorf("Content-Type = %q", gotType)
		}
		if string(gotBody) != "raw bytes" {
			t.Errorf("body = %q", gotBody)
		}
	})

	t.Run("GetRawURL fetches absolute URL", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/download/42" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte("binary data"))
		}))
		defer server.Close()

		client := NewClient(ClientConfig{BaseURL: "http://unused.invalid", ServiceName: "test"})

		data, err := client.GetRawURL(context.Background(), server.URL+"/download/42")
		if err != nil {
			t.Fatalf("GetRawURL() error = %v", err)
		}
		if string(data) != "binary data" {
			t.Errorf("data = %q", data)
		}
	})

	t.Run("transport failure surfaces as TransportError", func(t *testing.T) {
		client := NewClient(ClientConfig{
			BaseURL:     "http://127.0.0.1:" + strconv.Itoa(1), // nothing listens here
			ServiceName: "test",
		})

		err := client.Get(context.Background(), "/", nil)
		if !IsTransport(err) {
			t.Errorf("error = %v, want TransportError", err)
		}
	})
}
