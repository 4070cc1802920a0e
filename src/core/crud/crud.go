package crud

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Base provides the persistence operations shared by every resource type.
// Absence is reported as a nil record, not an error; every mutating call
// commits before returning.
type Base[T any] struct {
	db    *gorm.DB
	order string
}

// New builds a base for one model. The order clause is supplied by the
// owning service and applied to every List call.
func New[T any](db *gorm.DB, order string) *Base[T] {
	return &Base[T]{db: db, order: order}
}

// Get returns the record with the given id, or nil when absent.
func (b *Base[T]) Get(id uuid.UUID) (*T, error) {
	var rec T
	err := b.db.Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns one page of records in the configured order.
func (b *Base[T]) List(offset, limit int) ([]T, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var recs []T
	q := b.db
	if b.order != "" {
		q = q.Order(b.order)
	}
	if err := q.Offset(offset).Limit(limit).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// Create inserts the record and returns it.
func (b *Base[T]) Create(rec *T) (*T, error) {
	if err := b.db.Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// Update applies exactly the keys present in fields to the record: a key
// that is present with a nil value writes NULL, a key that is absent leaves
// the column untouched. An empty map is a no-op and returns the record as
// is. The refreshed record is returned.
func (b *Base[T]) Update(rec *T, fields map[string]interface{}) (*T, error) {
	if len(fields) == 0 {
		return rec, nil
	}
	if err := b.db.Model(rec).Updates(fields).Error; err != nil {
		return nil, err
	}
	// Re-read by primary key so callers see column defaults and timestamps
	if err := b.db.First(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// Remove deletes the record with the given id and returns it, or nil when
// there was nothing to delete.
func (b *Base[T]) Remove(id uuid.UUID) (*T, error) {
	rec, err := b.Get(id)
	if err != nil || rec == nil {
		return nil, err
	}
	if err := b.db.Delete(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// StringFieldErrors verifies that every present key among keys carries a
// string value, so a mistyped payload cannot slip past handler checks that
// type-assert on the field. Keys also listed in nullable may carry null.
// Returns a field → message map, empty when all values are well typed.
func StringFieldErrors(fields map[string]interface{}, keys []string, nullable ...string) map[string]string {
	isNullable := func(k string) bool {
		for _, n := range nullable {
			if n == k {
				return true
			}
		}
		return false
	}

	errs := map[string]string{}
	for _, k := range keys {
		v, ok := fields[k]
		if !ok {
			continue
		}
		if v == nil {
			if !isNullable(k) {
				errs[k] = "must be a string"
			}
			continue
		}
		if _, ok := v.(string); !ok {
			errs[k] = "must be a string"
		}
	}
	return errs
}

// AllowFields narrows a decoded JSON payload down to the listed column
// names, preserving the present-with-null distinction json.Unmarshal gives
// map entries.
func AllowFields(payload map[string]interface{}, allowed ...string) map[string]interface{} {
	out := make(map[string]interface{}, len(allowed))
	for _, k := range allowed {
		if v, ok := payload[k]; ok {
			out[k] = v
		}
	}
	return out
}
