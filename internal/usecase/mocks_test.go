package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bookcatalog/internal/entity"
)

type mockBookRepository struct {
	mock.Mock
}

func (m *mockBookRepository) ListByFilters(ctx context.Context, p BookFilterParams) ([]entity.Book, int, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]entity.Book), args.Int(1), args.Error(2)
}

func (m *mockBookRepository) GetByID(ctx context.Context, id int64) (entity.Book, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.Book), args.Error(1)
}

func (m *mockBookRepository) GetFirstByISBN(ctx context.Context, isbn string) (entity.Book, error) {
	args := m.Called(ctx, isbn)
	return args.Get(0).(entity.Book), args.Error(1)
}

func (m *mockBookRepository) Create(ctx context.Context, b *entity.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBookRepository) Update(ctx context.Context, b *entity.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBookRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) List(ctx context.Context, p UserListParams) ([]entity.User, int, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]entity.User), args.Int(1), args.Error(2)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (entity.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.User), args.Error(1)
}

func (m *mockUserRepository) Create(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepository) Update(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockOpenLibraryGateway struct {
	mock.Mock
}

func (m *mockOpenLibraryGateway) FetchRaw(ctx context.Context, isbn string) ([]byte, bool) {
	args := m.Called(ctx, isbn)
	raw, _ := args.Get(0).([]byte)
	return raw, args.Bool(1)
}
