package usecase

import (
	"context"
	"fmt"
	"time"

	"bookcatalog/internal/entity"
)

// UserListParams narrows the user listing: Name matches case-insensitively
// as a substring, StartDate/EndDate bound the birthday. Zero values mean
// "do not filter".
type UserListParams struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
	Offset    int
}

// UserRepository defines the storage contract for users. Update and Create
// persist the user's library together with the user row.
type UserRepository interface {
	List(ctx context.Context, p UserListParams) ([]entity.User, int, error)
	GetByID(ctx context.Context, id int64) (entity.User, error)
	Create(ctx context.Context, u *entity.User) error
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id int64) error
}

type UserUsecase struct {
	users UserRepository
	books BookRepository
}

func NewUserUsecase(users UserRepository, books BookRepository) *UserUsecase {
	return &UserUsecase{
		users: users,
		books: books,
	}
}

func (u *UserUsecase) List(ctx context.Context, p UserListParams) ([]entity.User, int, error) {
	return u.users.List(ctx, p)
}

func (u *UserUsecase) GetByID(ctx context.Context, id int64) (entity.User, error) {
	return u.users.GetByID(ctx, id)
}

func (u *UserUsecase) Create(ctx context.Context, user *entity.User) error {
	return u.users.Create(ctx, user)
}

func (u *UserUsecase) Update(ctx context.Context, id int64, user *entity.User) error {
	if user.ID != id {
		return fmt.Errorf("%w: path id %d, payload id %d", ErrIDMismatch, id, user.ID)
	}
	if _, err := u.users.GetByID(ctx, id); err != nil {
		return err
	}
	return u.users.Update(ctx, user)
}

func (u *UserUsecase) Delete(ctx context.Context, id int64) error {
	if _, err := u.users.GetByID(ctx, id); err != nil {
		return err
	}
	return u.users.Delete(ctx, id)
}

// AddBook puts an existing book into the user's library. The book must
// already be stored: the looked-up record is added, not the request payload.
func (u *UserUsecase) AddBook(ctx context.Context, userID, bookID int64) (entity.User, error) {
	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return entity.User{}, err
	}
	book, err := u.books.GetByID(ctx, bookID)
	if err != nil {
		return entity.User{}, err
	}
	if err := user.AddBook(book); err != nil {
		return entity.User{}, err
	}
	if err := u.users.Update(ctx, &user); err != nil {
		return entity.User{}, err
	}
	return user, nil
}

// RemoveBook takes a book out of the user's library. Removing a book the
// user does not own still succeeds and returns the unchanged user.
func (u *UserUsecase) RemoveBook(ctx context.Context, userID, bookID int64) (entity.User, error) {
	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return entity.User{}, err
	}
	user.RemoveBook(bookID)
	if err := u.users.Update(ctx, &user); err != nil {
		return entity.User{}, err
	}
	return user, nil
}
