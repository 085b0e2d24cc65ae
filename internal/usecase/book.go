package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookcatalog/internal/entity"
	"bookcatalog/internal/platform/openlibrary"
)

// BookFilterParams is a sparse conjunction of search criteria: the empty
// string (or nil Pages) means "do not filter on this field".
type BookFilterParams struct {
	Genre     string
	Author    string
	Image     string
	Title     string
	Subtitle  string
	Publisher string
	Year      string
	Pages     *int
	Sort      string
	Desc      bool
	Limit     int
	Offset    int
}

// BookRepository defines the storage contract for books.
type BookRepository interface {
	// ListByFilters returns books matching all present criteria plus the total count.
	ListByFilters(ctx context.Context, p BookFilterParams) ([]entity.Book, int, error)
	GetByID(ctx context.Context, id int64) (entity.Book, error)
	// GetFirstByISBN returns the first stored book with the given ISBN.
	GetFirstByISBN(ctx context.Context, isbn string) (entity.Book, error)
	Create(ctx context.Context, b *entity.Book) error
	Update(ctx context.Context, b *entity.Book) error
	Delete(ctx context.Context, id int64) error
}

// OpenLibraryGateway fetches raw bibliographic data by ISBN. The boolean is
// false both when the ISBN is unknown upstream and when the fetch failed.
type OpenLibraryGateway interface {
	FetchRaw(ctx context.Context, isbn string) ([]byte, bool)
}

type BookUsecase struct {
	repo    BookRepository
	library OpenLibraryGateway
}

func NewBookUsecase(repo BookRepository, library OpenLibraryGateway) *BookUsecase {
	return &BookUsecase{
		repo:    repo,
		library: library,
	}
}

func (u *BookUsecase) List(ctx context.Context, p BookFilterParams) ([]entity.Book, int, error) {
	return u.repo.ListByFilters(ctx, p)
}

func (u *BookUsecase) GetByID(ctx context.Context, id int64) (entity.Book, error) {
	return u.repo.GetByID(ctx, id)
}

func (u *BookUsecase) Create(ctx context.Context, book *entity.Book) error {
	return u.repo.Create(ctx, book)
}

// Update rejects a payload whose id differs from the path id before touching
// storage, then requires the record to exist.
func (u *BookUsecase) Update(ctx context.Context, id int64, book *entity.Book) error {
	if book.ID != id {
		return fmt.Errorf("%w: path id %d, payload id %d", ErrIDMismatch, id, book.ID)
	}
	if _, err := u.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return u.repo.Update(ctx, book)
}

func (u *BookUsecase) Delete(ctx context.Context, id int64) error {
	if _, err := u.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return u.repo.Delete(ctx, id)
}

// ResolveByISBN turns an ISBN into a persisted local book. A local hit is
// returned as-is with created=false. On a miss the Open Library data is
// fetched, normalized and persisted, and created=true signals the caller to
// answer 201 instead of 200. An absent upstream record and a failed fetch
// both end in ErrNotFound; nothing is partially persisted on any failure.
func (u *BookUsecase) ResolveByISBN(ctx context.Context, isbn string) (entity.Book, bool, error) {
	book, err := u.repo.GetFirstByISBN(ctx, isbn)
	if err == nil {
		return book, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return entity.Book{}, false, err
	}

	raw, ok := u.library.FetchRaw(ctx, isbn)
	if !ok {
		return entity.Book{}, false, fmt.Errorf("%w: isbn %s", ErrNotFound, isbn)
	}

	data, err := openlibrary.ParseBookData(isbn, raw)
	if err != nil {
		return entity.Book{}, false, err
	}
	if data == nil {
		return entity.Book{}, false, fmt.Errorf("%w: isbn %s", ErrNotFound, isbn)
	}

	resolved, err := bookFromData(data)
	if err != nil {
		return entity.Book{}, false, fmt.Errorf("%w: %v", openlibrary.ErrMalformedPayload, err)
	}
	if err := u.repo.Create(ctx, &resolved); err != nil {
		return entity.Book{}, false, err
	}
	return resolved, true, nil
}

// bookFromData maps the Open Library shape onto the local book schema.
// Fields the upstream schema lacks (genre, image) and a missing subtitle are
// filled with the literal "NA".
func bookFromData(data *openlibrary.BookData) (entity.Book, error) {
	var book entity.Book

	book.SetGenre("NA")

	subtitle := data.Subtitle
	if subtitle == "" {
		subtitle = "NA"
	}

	if err := book.SetTitle(data.Title); err != nil {
		return entity.Book{}, err
	}
	if err := book.SetSubtitle(subtitle); err != nil {
		return entity.Book{}, err
	}
	if err := book.SetAuthor(joinAuthors(data.Authors)); err != nil {
		return entity.Book{}, err
	}
	if err := book.SetPublisher(joinPublishers(data.Publishers)); err != nil {
		return entity.Book{}, err
	}
	if err := book.SetImage("NA"); err != nil {
		return entity.Book{}, err
	}
	if err := book.SetPages(data.NumberOfPages); err != nil {
		return entity.Book{}, err
	}
	if err := book.SetYear(publicationYear(data.PublishDate)); err != nil {
		return entity.Book{}, err
	}
	if err := book.SetISBN(data.ISBN); err != nil {
		return entity.Book{}, err
	}
	return book, nil
}

func joinAuthors(authors []openlibrary.Author) string {
	names := make([]string, len(authors))
	for i, a := range authors {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

func joinPublishers(publishers []openlibrary.Publisher) string {
	names := make([]string, len(publishers))
	for i, p := range publishers {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

// publicationYear extracts a year from publish_date strings like
// "March, 1999" or "1999". With exactly two comma-separated parts the second
// is taken, otherwise the first. The result is not validated here; SetYear
// decides whether it is an acceptable year.
func publicationYear(publishDate string) string {
	parts := strings.Split(publishDate, ",")
	if len(parts) == 2 {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(parts[0])
}
