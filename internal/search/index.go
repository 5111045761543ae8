// Package search filters an already-loaded collection of records by free text.
//
// Each Kind has a fixed set of fields. A record matches when any of them
// contains the query, compared case-insensitively. The index never sorts and
// never fetches; callers load records and re-run Filter.
package search

import (
	"errors"
	"fmt"
	"strings"
)

var ErrKindMismatch = errors.New("record type does not match search kind")

type Index[T any] struct {
	kind     Kind
	fields   func(T) []string
	records  []T
	query    string
	view     []T
	onSelect func(T)
}

// New builds an index of kind over records. T must be the record type
// registered for kind.
func New[T any](kind Kind, records []T) (*Index[T], error) {
	ext, ok := extractors[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrKindMismatch, kind)
	}
	fields, ok := ext.(func(T) []string)
	if !ok {
		var zero T
		return nil, fmt.Errorf("%w: %s does not index %T", ErrKindMismatch, kind, zero)
	}
	idx := &Index[T]{kind: kind, fields: fields}
	idx.Load(records)
	return idx, nil
}

func (i *Index[T]) Kind() Kind { return i.kind }

// OnSelect registers the callback SelectItem hands records to.
func (i *Index[T]) OnSelect(fn func(T)) { i.onSelect = fn }

// Load replaces the collection and resets the view to all records.
func (i *Index[T]) Load(records []T) []T {
	i.records = append([]T(nil), records...)
	return i.Filter("")
}

// Filter evaluates query against the full collection, never against the
// previous view. An empty query returns every record in load order; any other
// query, whitespace included, is matched as typed.
func (i *Index[T]) Filter(query string) []T {
	i.query = query
	needle := strings.ToLower(query)

	view := make([]T, 0, len(i.records))
	for _, r := range i.records {
		if needle == "" || i.matches(r, needle) {
			view = append(view, r)
		}
	}
	i.view = view
	return i.View()
}

func (i *Index[T]) matches(r T, needle string) bool {
	for _, f := range i.fields(r) {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// Query is the text of the last Filter call.
func (i *Index[T]) Query() string { return i.query }

// View is the result of the last Filter call.
func (i *Index[T]) View() []T { return append([]T(nil), i.view...) }

func (i *Index[T]) Len() int { return len(i.records) }

// SelectItem passes record to the OnSelect callback, if any, and returns it.
func (i *Index[T]) SelectItem(record T) T {
	if i.onSelect != nil {
		i.onSelect(record)
	}
	return record
}
