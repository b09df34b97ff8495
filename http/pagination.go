package http

import "context"

// DefaultPageSize is the page size used for listing requests unless the
// caller overrides it.
const DefaultPageSize = 100

// PageFetcher fetches one page of items starting at the given offset.
// It returns the page's items and the server-reported total count, which is
// authoritative for termination.
type PageFetcher[T any] func(ctx context.Context, offset, limit int) (items []T, total int, err error)

// PageIterator drives offset-based pagination over a listing endpoint.
// Pages are fetched lazily and strictly in ascending offset order; iteration
// ends when the offset reaches the total count, not when a short page is
// observed.
type PageIterator[T any] struct {
	fetch   PageFetcher[T]
	limit   int
	offset  int
	buffer  []T
	total   int // Total items, -1 until the first page arrives
	fetched int // Items handed out so far
	err     error
}

// NewPageIterator creates an iterator with the given fetch function and page
// size. A non-positive limit selects DefaultPageSize.
func NewPageIterator[T any](fetch PageFetcher[T], limit int) *PageIterator[T] {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return &PageIterator[T]{
		fetch: fetch,
		limit: limit,
		total: -1,
	}
}

// Next returns the next item from the iterator.
// Returns the item, true if an item was returned, and any error.
// When iteration is complete, returns (zero, false, nil).
func (p *PageIterator[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T

	// Return any previous error
	if p.err != nil {
		return zero, false, p.err
	}

	// The offset strictly increases per fetch, so this terminates even if
	// the server returns an empty page mid-stream.
	for len(p.buffer) == 0 && (p.total < 0 || p.offset < p.total) {
		items, total, err := p.fetch(ctx, p.offset, p.limit)
		if err != nil {
			p.err = err
			return zero, false, err
		}
		p.buffer = items
		p.total = total
		p.offset += p.limit
	}

	if len(p.buffer) == 0 {
		return zero, false, nil
	}

	item := p.buffer[0]
	p.buffer = p.buffer[1:]
	p.fetched++

	return item, true, nil
}

// All collects every remaining item into a slice, in fetch order. A failure
// on any page discards everything fetched so far and returns the error.
func (p *PageIterator[T]) All(ctx context.Context) ([]T, error) {
	var all []T
	for {
		item, ok, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		all = append(all, item)
	}
	return all, nil
}

// Err returns any error that occurred during iteration.
func (p *PageIterator[T]) Err() error {
	return p.err
}

// Total returns the server-reported total count, or -1 before the first
// page has been fetched.
func (p *PageIterator[T]) Total() int {
	return p.total
}

// Fetched returns the number of items handed out so far.
func (p *PageIterator[T]) Fetched() int {
	return p.fetched
}

// Take returns up to n items from the iterator.
func (p *PageIterator[T]) Take(ctx context.Context, n int) ([]T, error) {
	var items []T
	for len(items) < n {
		item, ok, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		items = append(items, item)
	}
	return items, nil
}

// ForEach calls fn for each remaining item in the iterator.
// If fn returns an error, iteration stops and that error is returned.
func (p *PageIterator[T]) ForEach(ctx context.Context, fn func(T) error) error {
	for {
		item, ok, err := p.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(item); err != nil {
			return err
		}
	}
}
