package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookcatalog/internal/entity"
	"bookcatalog/internal/usecase"
)

type UserPG struct {
	db *pgxpool.Pool
}

func NewUserPG(db *pgxpool.Pool) *UserPG {
	return &UserPG{db: db}
}

func userListExpressions(p usecase.UserListParams) []goqu.Expression {
	exprs := make([]goqu.Expression, 0, 3)
	if p.Name != "" {
		exprs = append(exprs, goqu.C("name").ILike("%"+p.Name+"%"))
	}
	if !p.StartDate.IsZero() {
		exprs = append(exprs, goqu.C("birthday").Gte(p.StartDate))
	}
	if !p.EndDate.IsZero() {
		exprs = append(exprs, goqu.C("birthday").Lte(p.EndDate))
	}
	return exprs
}

func buildUserListQuery(p usecase.UserListParams) (string, []any, error) {
	ds := dialect.From("users").
		Select("id", "username", "name", "birthday", "created_at", "updated_at")
	if exprs := userListExpressions(p); len(exprs) > 0 {
		ds = ds.Where(exprs...)
	}
	ds = ds.Order(goqu.I("id").Asc())
	if p.Limit > 0 {
		ds = ds.Limit(uint(p.Limit))
	}
	if p.Offset > 0 {
		ds = ds.Offset(uint(p.Offset))
	}
	return ds.Prepared(true).ToSQL()
}

func buildUserCountQuery(p usecase.UserListParams) (string, []any, error) {
	ds := dialect.From("users").Select(goqu.COUNT("*"))
	if exprs := userListExpressions(p); len(exprs) > 0 {
		ds = ds.Where(exprs...)
	}
	return ds.Prepared(true).ToSQL()
}

func (r *UserPG) List(ctx context.Context, p usecase.UserListParams) ([]entity.User, int, error) {
	query, args, err := buildUserListQuery(p)
	if err != nil {
		return nil, 0, fmt.Errorf("build user list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []entity.User
	var ids []int64
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.Birthday, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
		ids = append(ids, u.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	libraries, err := r.loadLibraries(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range users {
		books := libraries[users[i].ID]
		if books == nil {
			books = []entity.Book{}
		}
		if err := users[i].SetBooks(books); err != nil {
			return nil, 0, err
		}
	}

	countQuery, countArgs, err := buildUserCountQuery(p)
	if err != nil {
		return nil, 0, fmt.Errorf("build user count query: %w", err)
	}
	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserPG) GetByID(ctx context.Context, id int64) (entity.User, error) {
	const query = `
	SELECT id, username, name, birthday, created_at, updated_at
	FROM users
	WHERE id = $1
	LIMIT 1
	`
	var u entity.User
	err := r.db.QueryRow(ctx, query, id).Scan(&u.ID, &u.Username, &u.Name, &u.Birthday, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.User{}, usecase.ErrNotFound
		}
		return entity.User{}, err
	}

	libraries, err := r.loadLibraries(ctx, []int64{id})
	if err != nil {
		return entity.User{}, err
	}
	books := libraries[id]
	if books == nil {
		books = []entity.Book{}
	}
	if err := u.SetBooks(books); err != nil {
		return entity.User{}, err
	}
	return u, nil
}

func (r *UserPG) Create(ctx context.Context, u *entity.User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const query = `
	INSERT INTO users (username, name, birthday)
	VALUES ($1, $2, $3)
	RETURNING id, created_at, updated_at
	`
	if err := tx.QueryRow(ctx, query, u.Username, u.Name, u.Birthday).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return err
	}
	if err := insertLibrary(ctx, tx, u); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Update saves the user row and rewrites its library join rows in one
// transaction, so the persisted library always matches the aggregate.
func (r *UserPG) Update(ctx context.Context, u *entity.User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const query = `
	UPDATE users
	SET username = $1, name = $2, birthday = $3, updated_at = now()
	WHERE id = $4
	RETURNING created_at, updated_at
	`
	err = tx.QueryRow(ctx, query, u.Username, u.Name, u.Birthday, u.ID).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return usecase.ErrNotFound
		}
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM user_books WHERE user_id = $1`, u.ID); err != nil {
		return err
	}
	if err := insertLibrary(ctx, tx, u); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *UserPG) Delete(ctx context.Context, id int64) error {
	// user_books rows go with the user via ON DELETE CASCADE
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return usecase.ErrNotFound
	}
	return nil
}

func insertLibrary(ctx context.Context, tx pgx.Tx, u *entity.User) error {
	const query = `
	INSERT INTO user_books (user_id, book_id, position)
	VALUES ($1, $2, $3)
	`
	for position, book := range u.Books() {
		if _, err := tx.Exec(ctx, query, u.ID, book.ID, position); err != nil {
			return err
		}
	}
	return nil
}

func (r *UserPG) loadLibraries(ctx context.Context, userIDs []int64) (map[int64][]entity.Book, error) {
	libraries := make(map[int64][]entity.Book, len(userIDs))
	if len(userIDs) == 0 {
		return libraries, nil
	}

	const query = `
	SELECT ub.user_id,
	       b.id, b.genre, b.author, b.image, b.title, b.subtitle,
	       b.publisher, b.year, b.pages, b.isbn, b.created_at, b.updated_at
	FROM user_books ub
	JOIN books b ON b.id = ub.book_id
	WHERE ub.user_id = ANY($1)
	ORDER BY ub.user_id, ub.position
	`
	rows, err := r.db.Query(ctx, query, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		var b entity.Book
		var genre *string
		err := rows.Scan(&userID, &b.ID, &genre, &b.Author, &b.Image, &b.Title, &b.Subtitle,
			&b.Publisher, &b.Year, &b.Pages, &b.ISBN, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if genre != nil {
			b.Genre = *genre
		}
		libraries[userID] = append(libraries[userID], b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return libraries, nil
}
