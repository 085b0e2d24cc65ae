package openlibrary

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedPayload is returned when the Open Library response body cannot
// be decoded at any parse step.
var ErrMalformedPayload = errors.New("openlibrary: malformed payload")

type Author struct {
	Name string `json:"name"`
}

type Publisher struct {
	Name string `json:"name"`
}

// BookData matches the per-ISBN object of api/books?jscmd=data. It is a
// transient carrier: built from one response, consumed once, never persisted.
type BookData struct {
	ISBN          string      `json:"-"`
	Title         string      `json:"title"`
	Subtitle      string      `json:"subtitle"`
	Authors       []Author    `json:"authors"`
	Publishers    []Publisher `json:"publishers"`
	NumberOfPages int         `json:"number_of_pages"`
	PublishDate   string      `json:"publish_date"`
}

// ParseBookData decodes the raw api/books response for one ISBN. The outer
// document maps "ISBN:{isbn}" keys to book objects; an empty document or a
// document without the requested key yields (nil, nil). The ISBN carried on
// the result is always the caller's, never anything echoed by Open Library.
func ParseBookData(isbn string, raw []byte) (*BookData, error) {
	var document map[string]json.RawMessage
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if len(document) == 0 {
		return nil, nil
	}

	entry, ok := document["ISBN:"+isbn]
	if !ok {
		return nil, nil
	}

	var data BookData
	if err := json.Unmarshal(entry, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	data.ISBN = isbn
	return &data, nil
}
