package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"bookcatalog/internal/entity"
)

// NewTestBook returns a fully populated book fixture.
func NewTestBook(id int64) entity.Book {
	return entity.Book{
		ID:        id,
		Genre:     "Fiction",
		Author:    "Test Author",
		Image:     "https://covers.example.org/789.jpg",
		Title:     "Test Book Title",
		Subtitle:  "A Test Subtitle",
		Publisher: "Test Publisher",
		Year:      "1999",
		Pages:     321,
		ISBN:      "9780123456789",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// NewTestUser returns a user fixture with an empty library.
func NewTestUser(id int64) entity.User {
	var u entity.User
	u.ID = id
	_ = u.SetUsername("testuser")
	_ = u.SetName("Test User")
	_ = u.SetBirthday(time.Date(1990, time.May, 1, 0, 0, 0, 0, time.UTC))
	_ = u.SetBooks([]entity.Book{})
	return u
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
