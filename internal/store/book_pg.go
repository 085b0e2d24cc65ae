package store

//Repository implementation (Postgres)

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookcatalog/internal/entity"
	"bookcatalog/internal/usecase"
)

var dialect = goqu.Dialect("postgres")

var bookColumns = []any{
	"id", "genre", "author", "image", "title", "subtitle",
	"publisher", "year", "pages", "isbn", "created_at", "updated_at",
}

// bookSortColumns whitelists sortable columns; anything else falls back to title.
var bookSortColumns = map[string]string{
	"id":        "id",
	"title":     "title",
	"author":    "author",
	"publisher": "publisher",
	"year":      "year",
	"pages":     "pages",
}

type BookPG struct {
	db *pgxpool.Pool
}

func NewBookPG(db *pgxpool.Pool) *BookPG {
	return &BookPG{db: db}
}

// bookFilterExpressions turns the sparse criteria into one conjunctive WHERE.
// Absent criteria contribute nothing: no criteria means every book matches.
func bookFilterExpressions(p usecase.BookFilterParams) []goqu.Expression {
	exprs := make([]goqu.Expression, 0, 8)
	if p.Genre != "" {
		exprs = append(exprs, goqu.C("genre").Eq(p.Genre))
	}
	if p.Author != "" {
		exprs = append(exprs, goqu.C("author").Eq(p.Author))
	}
	if p.Image != "" {
		exprs = append(exprs, goqu.C("image").Eq(p.Image))
	}
	if p.Title != "" {
		exprs = append(exprs, goqu.C("title").Eq(p.Title))
	}
	if p.Subtitle != "" {
		exprs = append(exprs, goqu.C("subtitle").Eq(p.Subtitle))
	}
	if p.Publisher != "" {
		exprs = append(exprs, goqu.C("publisher").Eq(p.Publisher))
	}
	if p.Year != "" {
		exprs = append(exprs, goqu.C("year").Eq(p.Year))
	}
	if p.Pages != nil {
		exprs = append(exprs, goqu.C("pages").Eq(*p.Pages))
	}
	return exprs
}

func buildBookFilterQuery(p usecase.BookFilterParams) (string, []any, error) {
	ds := dialect.From("books").Select(bookColumns...)
	if exprs := bookFilterExpressions(p); len(exprs) > 0 {
		ds = ds.Where(exprs...)
	}

	column, ok := bookSortColumns[p.Sort]
	if !ok {
		column = "title"
	}
	order := goqu.I(column).Asc()
	if p.Desc {
		order = goqu.I(column).Desc()
	}
	ds = ds.Order(order)

	if p.Limit > 0 {
		ds = ds.Limit(uint(p.Limit))
	}
	if p.Offset > 0 {
		ds = ds.Offset(uint(p.Offset))
	}
	return ds.Prepared(true).ToSQL()
}

func buildBookCountQuery(p usecase.BookFilterParams) (string, []any, error) {
	ds := dialect.From("books").Select(goqu.COUNT("*"))
	if exprs := bookFilterExpressions(p); len(exprs) > 0 {
		ds = ds.Where(exprs...)
	}
	return ds.Prepared(true).ToSQL()
}

func (r *BookPG) ListByFilters(ctx context.Context, p usecase.BookFilterParams) ([]entity.Book, int, error) {
	query, args, err := buildBookFilterQuery(p)
	if err != nil {
		return nil, 0, fmt.Errorf("build book filter query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var books []entity.Book
	for rows.Next() {
		b, err := scanBook(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := buildBookCountQuery(p)
	if err != nil {
		return nil, 0, fmt.Errorf("build book count query: %w", err)
	}
	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *BookPG) GetByID(ctx context.Context, id int64) (entity.Book, error) {
	const query = `
	SELECT id, genre, author, image, title, subtitle, publisher, year, pages, isbn, created_at, updated_at
	FROM books
	WHERE id = $1
	LIMIT 1
	`
	b, err := scanBook(r.db.QueryRow(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Book{}, usecase.ErrNotFound
		}
		return entity.Book{}, err
	}
	return b, nil
}

func (r *BookPG) GetFirstByISBN(ctx context.Context, isbn string) (entity.Book, error) {
	const query = `
	SELECT id, genre, author, image, title, subtitle, publisher, year, pages, isbn, created_at, updated_at
	FROM books
	WHERE isbn = $1
	ORDER BY id
	LIMIT 1
	`
	b, err := scanBook(r.db.QueryRow(ctx, query, isbn).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Book{}, usecase.ErrNotFound
		}
		return entity.Book{}, err
	}
	return b, nil
}

func (r *BookPG) Create(ctx context.Context, b *entity.Book) error {
	const query = `
	INSERT INTO books (genre, author, image, title, subtitle, publisher, year, pages, isbn)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		nullableString(b.Genre), b.Author, b.Image, b.Title, b.Subtitle,
		b.Publisher, b.Year, b.Pages, b.ISBN,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *BookPG) Update(ctx context.Context, b *entity.Book) error {
	const query = `
	UPDATE books
	SET genre = $1, author = $2, image = $3, title = $4, subtitle = $5,
	    publisher = $6, year = $7, pages = $8, isbn = $9, updated_at = now()
	WHERE id = $10
	RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		nullableString(b.Genre), b.Author, b.Image, b.Title, b.Subtitle,
		b.Publisher, b.Year, b.Pages, b.ISBN, b.ID,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return usecase.ErrNotFound
	}
	return err
}

func (r *BookPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

func scanBook(scan func(dest ...any) error) (entity.Book, error) {
	var b entity.Book
	var genre *string
	err := scan(&b.ID, &genre, &b.Author, &b.Image, &b.Title, &b.Subtitle,
		&b.Publisher, &b.Year, &b.Pages, &b.ISBN, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return entity.Book{}, err
	}
	if genre != nil {
		b.Genre = *genre
	}
	return b, nil
}

// nullableString stores the optional genre as NULL instead of an empty string.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
