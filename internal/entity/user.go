package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrBookAlreadyOwned is returned by AddBook when the user's library already
// holds a book with the same id.
var ErrBookAlreadyOwned = errors.New("book already owned")

const birthdayLayout = "2006-01-02"

// User owns its library: the book collection is only mutated through
// AddBook/RemoveBook and is persisted together with the user.
type User struct {
	ID        int64
	Username  string
	Name      string
	Birthday  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	books []Book
}

func (u *User) SetUsername(username string) error {
	if username == "" {
		return fmt.Errorf("%w: username is empty", ErrInvalidArgument)
	}
	u.Username = username
	return nil
}

func (u *User) SetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidArgument)
	}
	u.Name = name
	return nil
}

func (u *User) SetBirthday(birthday time.Time) error {
	if birthday.IsZero() {
		return fmt.Errorf("%w: birthday is empty", ErrInvalidArgument)
	}
	u.Birthday = birthday
	return nil
}

// Books returns a snapshot of the user's library. Mutating the returned
// slice does not affect the user; changes must go through AddBook/RemoveBook.
func (u *User) Books() []Book {
	books := make([]Book, len(u.books))
	copy(books, u.books)
	return books
}

// SetBooks replaces the whole library. Used when hydrating a user from
// storage; request handling goes through AddBook/RemoveBook instead.
func (u *User) SetBooks(books []Book) error {
	if books == nil {
		return fmt.Errorf("%w: books is nil", ErrInvalidArgument)
	}
	u.books = books
	return nil
}

// AddBook appends book to the library, preserving insertion order. It fails
// with ErrBookAlreadyOwned, leaving the library untouched, when an entry
// with the same id is already present.
func (u *User) AddBook(book Book) error {
	for _, owned := range u.books {
		if owned.ID == book.ID {
			return fmt.Errorf("%w: book %d", ErrBookAlreadyOwned, book.ID)
		}
	}
	u.books = append(u.books, book)
	return nil
}

// RemoveBook removes the library entry with the given id. Removing a book
// the user does not own is a silent no-op; the asymmetry with AddBook is
// deliberate.
func (u *User) RemoveBook(bookID int64) {
	for i, owned := range u.books {
		if owned.ID == bookID {
			u.books = append(u.books[:i:i], u.books[i+1:]...)
			return
		}
	}
}

type userJSON struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Birthday  string    `json:"birthday"`
	Books     []Book    `json:"books"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) MarshalJSON() ([]byte, error) {
	books := u.books
	if books == nil {
		books = []Book{}
	}
	return json.Marshal(userJSON{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Birthday:  u.Birthday.Format(birthdayLayout),
		Books:     books,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	})
}

func (u *User) UnmarshalJSON(data []byte) error {
	var raw userJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	birthday, err := time.Parse(birthdayLayout, raw.Birthday)
	if err != nil {
		return fmt.Errorf("%w: birthday %q must be YYYY-MM-DD", ErrInvalidArgument, raw.Birthday)
	}
	u.ID = raw.ID
	u.Username = raw.Username
	u.Name = raw.Name
	u.Birthday = birthday
	u.books = raw.Books
	u.CreatedAt = raw.CreatedAt
	u.UpdatedAt = raw.UpdatedAt
	return nil
}
