package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedServer serves `total` skills in pages of whatever limit the request
// asks for, counting requests per page token.
func pagedServer(t *testing.T, total int, delay time.Duration, calls *sync.Map) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if delay > 0 {
			time.Sleep(delay)
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit < 1 {
			limit = 20
		}

		n, _ := calls.LoadOrStore(page, new(atomic.Int32))
		n.(*atomic.Int32).Add(1)

		start := (page - 1) * limit
		var recs []Skill
		for i := start; i < start+limit && i < total; i++ {
			recs = append(recs, Skill{ID: fmt.Sprintf("s%d", i), Name: fmt.Sprintf("Skill %d", i)})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": 200, "message": "OK", "data": recs, "error": nil,
		})
	}))
}

func pageCalls(calls *sync.Map, page int) int32 {
	v, ok := calls.Load(page)
	if !ok {
		return 0
	}
	return v.(*atomic.Int32).Load()
}

func TestFetchNextWalksPagesInOrder(t *testing.T) {
	var calls sync.Map
	srv := pagedServer(t, 25, 0, &calls)
	defer srv.Close()

	c := New(srv.URL, WithStaleness(time.Minute))
	pages := c.Skills().InfinitePages(10)
	ctx := context.Background()

	recs, err := pages.FetchNext(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 10)
	assert.True(t, pages.HasNext())

	_, err = pages.FetchNext(ctx)
	require.NoError(t, err)
	recs, err = pages.FetchNext(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 5)

	assert.False(t, pages.HasNext(), "a short page means the sequence is exhausted")
	assert.Len(t, pages.Items(), 25)

	// Fetching past the end is a quiet no-op
	recs, err = pages.FetchNext(ctx)
	require.NoError(t, err)
	assert.Nil(t, recs)
	assert.Zero(t, pageCalls(&calls, 4), "no request may go out past the last page")
}

func TestConcurrentFetchNextNeverDuplicatesAPageToken(t *testing.T) {
	var calls sync.Map
	srv := pagedServer(t, 100, 50*time.Millisecond, &calls)
	defer srv.Close()

	c := New(srv.URL, WithStaleness(time.Minute))
	pages := c.Skills().InfinitePages(10)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([][]Skill, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			recs, err := pages.FetchNext(ctx)
			require.NoError(t, err)
			results[i] = recs
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, pageCalls(&calls, 1), "concurrent calls for one token must coalesce")
	for _, recs := range results {
		assert.Equal(t, results[0], recs, "coalesced callers observe the same page")
	}
	assert.Len(t, pages.Items(), 10, "the page is appended exactly once")
}

func TestResetStartsOverFromPageOne(t *testing.T) {
	var calls sync.Map
	srv := pagedServer(t, 15, 0, &calls)
	defer srv.Close()

	// Zero staleness would still serve page 1 from cache; invalidate instead
	c := New(srv.URL, WithStaleness(time.Minute))
	pages := c.Skills().InfinitePages(10)
	ctx := context.Background()

	_, err := pages.FetchNext(ctx)
	require.NoError(t, err)
	_, err = pages.FetchNext(ctx)
	require.NoError(t, err)
	assert.False(t, pages.HasNext())

	c.Invalidate("skills")
	pages.Reset()
	assert.True(t, pages.HasNext())
	assert.Empty(t, pages.Items())

	recs, err := pages.FetchNext(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 10)
	assert.EqualValues(t, 2, pageCalls(&calls, 1))
}
