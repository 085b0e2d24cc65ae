package entity

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidArgument is returned by entity setters when a value fails
// field-level validation. Nothing is assigned on failure.
var ErrInvalidArgument = errors.New("invalid argument")

// nowFunc is swapped in tests so year validation can be pinned to a fixed date.
var nowFunc = time.Now

type Book struct {
	ID        int64     `json:"id"`
	Genre     string    `json:"genre,omitempty"`
	Author    string    `json:"author"`
	Image     string    `json:"image"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	Publisher string    `json:"publisher"`
	Year      string    `json:"year"`
	Pages     int       `json:"pages"`
	ISBN      string    `json:"isbn"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetGenre assigns the genre. Genre is the only optional book field, so no
// validation applies.
func (b *Book) SetGenre(genre string) {
	b.Genre = genre
}

func (b *Book) SetAuthor(author string) error {
	if author == "" {
		return fmt.Errorf("%w: author is empty", ErrInvalidArgument)
	}
	b.Author = author
	return nil
}

func (b *Book) SetImage(image string) error {
	if image == "" {
		return fmt.Errorf("%w: image is empty", ErrInvalidArgument)
	}
	b.Image = image
	return nil
}

func (b *Book) SetTitle(title string) error {
	if title == "" {
		return fmt.Errorf("%w: title is empty", ErrInvalidArgument)
	}
	b.Title = title
	return nil
}

func (b *Book) SetSubtitle(subtitle string) error {
	if subtitle == "" {
		return fmt.Errorf("%w: subtitle is empty", ErrInvalidArgument)
	}
	b.Subtitle = subtitle
	return nil
}

func (b *Book) SetPublisher(publisher string) error {
	if publisher == "" {
		return fmt.Errorf("%w: publisher is empty", ErrInvalidArgument)
	}
	b.Publisher = publisher
	return nil
}

// SetYear accepts a string holding an integer between 1 and the current
// calendar year. The comparison uses the clock at call time, so an input
// naming a future year becomes valid once that year arrives.
func (b *Book) SetYear(year string) error {
	if year == "" {
		return fmt.Errorf("%w: year is empty", ErrInvalidArgument)
	}
	yearInt, err := strconv.Atoi(year)
	if err != nil {
		return fmt.Errorf("%w: year %q is not numeric", ErrInvalidArgument, year)
	}
	if yearInt <= 0 {
		return fmt.Errorf("%w: year %d is not positive", ErrInvalidArgument, yearInt)
	}
	if yearInt > nowFunc().Year() {
		return fmt.Errorf("%w: year %d is in the future", ErrInvalidArgument, yearInt)
	}
	b.Year = year
	return nil
}

func (b *Book) SetPages(pages int) error {
	if pages <= 0 {
		return fmt.Errorf("%w: pages must be positive, got %d", ErrInvalidArgument, pages)
	}
	b.Pages = pages
	return nil
}

func (b *Book) SetISBN(isbn string) error {
	if isbn == "" {
		return fmt.Errorf("%w: isbn is empty", ErrInvalidArgument)
	}
	b.ISBN = isbn
	return nil
}
