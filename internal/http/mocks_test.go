package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bookcatalog/internal/entity"
	"bookcatalog/internal/usecase"
)

type mockBookRepo struct {
	mock.Mock
}

func (m *mockBookRepo) ListByFilters(ctx context.Context, p usecase.BookFilterParams) ([]entity.Book, int, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]entity.Book), args.Int(1), args.Error(2)
}

func (m *mockBookRepo) GetByID(ctx context.Context, id int64) (entity.Book, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.Book), args.Error(1)
}

func (m *mockBookRepo) GetFirstByISBN(ctx context.Context, isbn string) (entity.Book, error) {
	args := m.Called(ctx, isbn)
	return args.Get(0).(entity.Book), args.Error(1)
}

func (m *mockBookRepo) Create(ctx context.Context, b *entity.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBookRepo) Update(ctx context.Context, b *entity.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBookRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) List(ctx context.Context, p usecase.UserListParams) ([]entity.User, int, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]entity.User), args.Int(1), args.Error(2)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (entity.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.User), args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) Update(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) FetchRaw(ctx context.Context, isbn string) ([]byte, bool) {
	args := m.Called(ctx, isbn)
	raw, _ := args.Get(0).([]byte)
	return raw, args.Bool(1)
}
