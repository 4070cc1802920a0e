package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Skill mirrors the server's skill record.
type Skill struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Job mirrors the server's job record.
type Job struct {
	ID          string    `json:"id"`
	EmployerID  string    `json:"employer_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	SalaryRange *string   `json:"salary_range"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Resource is the typed CRUD surface for one resource family. All reads go
// through the query cache; all writes invalidate the family on success.
type Resource[T any] struct {
	c    *Client
	name string
}

func (c *Client) Skills() Resource[Skill] {
	return Resource[Skill]{c: c, name: "skills"}
}

func (c *Client) Jobs() Resource[Job] {
	return Resource[Job]{c: c, name: "jobs"}
}

// List fetches one page. page is 1-based; limit <= 0 takes the server
// default.
func (r Resource[T]) List(ctx context.Context, page, limit int) ([]T, error) {
	if page < 1 {
		page = 1
	}
	path := fmt.Sprintf("/api/v1/%s/?page=%d", r.name, page)
	if limit > 0 {
		path += fmt.Sprintf("&limit=%d", limit)
	}
	key := queryKey{Resource: r.name, Params: fmt.Sprintf("page=%d&limit=%d", page, limit)}

	data, err := r.c.query(ctx, key, path)
	if err != nil {
		return nil, err
	}
	var recs []T
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Create posts a new record and returns the server's copy.
func (r Resource[T]) Create(ctx context.Context, payload interface{}) (*T, error) {
	data, err := r.c.mutate(ctx, http.MethodPost, "/api/v1/"+r.name+"/", r.name, payload)
	if err != nil {
		return nil, err
	}
	rec := new(T)
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update sends a partial-update map. Only the keys present change on the
// server; a key present with nil clears a nullable column.
func (r Resource[T]) Update(ctx context.Context, id string, fields map[string]interface{}) (*T, error) {
	data, err := r.c.mutate(ctx, http.MethodPut, "/api/v1/"+r.name+"/"+id, r.name, fields)
	if err != nil {
		return nil, err
	}
	rec := new(T)
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes a record.
func (r Resource[T]) Delete(ctx context.Context, id string) error {
	_, err := r.c.mutate(ctx, http.MethodDelete, "/api/v1/"+r.name+"/"+id, r.name, nil)
	return err
}

// InfinitePages starts an incrementally fetchable view over the list
// endpoint with the given page size.
func (r Resource[T]) InfinitePages(limit int) *Pages[T] {
	if limit <= 0 {
		limit = 20
	}
	return &Pages[T]{res: r, limit: limit, next: 1}
}
