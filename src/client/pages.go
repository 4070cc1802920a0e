package client

import (
	"context"
	"sync"
)

// Pages is an incrementally fetchable view over a list endpoint. The page
// token is the 1-based page number of the next unfetched page. Concurrent
// FetchNext calls for the same token coalesce onto a single request.
type Pages[T any] struct {
	res   Resource[T]
	limit int

	mu       sync.Mutex
	gen      int
	items    []T
	next     int
	done     bool
	inflight map[int]*pageCall[T]
}

type pageCall[T any] struct {
	ready chan struct{}
	recs  []T
	err   error
}

// Items returns everything fetched so far.
func (p *Pages[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// HasNext reports whether a further page may exist: true until a fetched
// page comes back short.
func (p *Pages[T]) HasNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.done
}

// Reset forgets all fetched pages, e.g. after a cache invalidation.
// In-flight fetches from before the reset are discarded on arrival.
func (p *Pages[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	p.items = nil
	p.next = 1
	p.done = false
	p.inflight = nil
}

// FetchNext requests the next page. If a fetch for the current page token
// is already in flight the call waits for that fetch instead of issuing a
// duplicate request. Returns the records of the page it observed.
func (p *Pages[T]) FetchNext(ctx context.Context) ([]T, error) {
	p.mu.Lock()
	if p.done {
		p.mu.Unlock()
		return nil, nil
	}
	gen := p.gen
	token := p.next
	if call, ok := p.inflight[token]; ok {
		p.mu.Unlock()
		select {
		case <-call.ready:
			return call.recs, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	call := &pageCall[T]{ready: make(chan struct{})}
	if p.inflight == nil {
		p.inflight = make(map[int]*pageCall[T])
	}
	p.inflight[token] = call
	p.mu.Unlock()

	recs, err := p.res.List(ctx, token, p.limit)
	call.recs = recs
	call.err = err
	close(call.ready)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != gen {
		// Reset raced with the fetch; the result belongs to a dead view
		return recs, err
	}
	delete(p.inflight, token)
	if err != nil {
		return nil, err
	}
	p.items = append(p.items, recs...)
	p.next = token + 1
	if len(recs) < p.limit {
		p.done = true
	}
	return recs, nil
}
