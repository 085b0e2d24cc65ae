package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookcatalog/internal/entity"
	"bookcatalog/internal/testutil"
	"bookcatalog/internal/usecase"
)

func newUserHandler(users *mockUserRepo, books *mockBookRepo) *UserHandler {
	return NewUserHandler(usecase.NewUserUsecase(users, books))
}

func userPayload(id int64) map[string]interface{} {
	return map[string]interface{}{
		"id":       id,
		"username": "testuser",
		"name":     "Test User",
		"birthday": "1990-05-01",
	}
}

func TestUserHandler_List_BirthdayRange(t *testing.T) {
	users := new(mockUserRepo)
	users.On("List", mock.Anything, mock.MatchedBy(func(p usecase.UserListParams) bool {
		return p.Name == "smith" &&
			p.StartDate.Equal(time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)) &&
			p.EndDate.Equal(time.Date(1990, 12, 31, 0, 0, 0, 0, time.UTC))
	})).Return([]entity.User{testutil.NewTestUser(1)}, 1, nil)
	h := newUserHandler(users, new(mockBookRepo))

	w := httptest.NewRecorder()
	h.List(w, testutil.NewRequest(http.MethodGet, "/users?name=smith&start_date=1980-01-01&end_date=1990-12-31", nil))
	resp := testutil.RecordHTTPResponse(w)

	assert.Equal(t, http.StatusOK, resp.Code)
	users.AssertExpectations(t)
}

func TestUserHandler_List_BadDate(t *testing.T) {
	users := new(mockUserRepo)
	h := newUserHandler(users, new(mockBookRepo))

	w := httptest.NewRecorder()
	h.List(w, testutil.NewRequest(http.MethodGet, "/users?start_date=01-01-1980", nil))
	resp := testutil.RecordHTTPResponse(w)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	users.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestUserHandler_Create(t *testing.T) {
	users := new(mockUserRepo)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.ID == 0 && u.Username == "testuser"
	})).Return(nil)
	h := newUserHandler(users, new(mockBookRepo))

	w := httptest.NewRecorder()
	h.Create(w, testutil.NewRequest(http.MethodPost, "/users", userPayload(55)))
	resp := testutil.RecordHTTPResponse(w)

	assert.Equal(t, http.StatusCreated, resp.Code)
	users.AssertExpectations(t)
}

func TestUserHandler_Create_BadBirthday(t *testing.T) {
	users := new(mockUserRepo)
	h := newUserHandler(users, new(mockBookRepo))

	payload := userPayload(0)
	payload["birthday"] = "May 1, 1990"

	w := httptest.NewRecorder()
	h.Create(w, testutil.NewRequest(http.MethodPost, "/users", payload))
	resp := testutil.RecordHTTPResponse(w)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserHandler_GetByID(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByID", mock.Anything, int64(4)).Return(testutil.NewTestUser(4), nil)
	h := newUserHandler(users, new(mockBookRepo))

	w := httptest.NewRecorder()
	h.Item(w, testutil.NewRequest(http.MethodGet, "/users/4", nil))
	resp := testutil.RecordHTTPResponse(w)

	assert.Equal(t, http.StatusOK, resp.Code)
	data := resp.Body["data"].(map[string]interface{})
	assert.Equal(t, "1990-05-01", data["birthday"])
	assert.NotNil(t, data["books"], "the library is always rendered, empty included")
}

func TestUserHandler_GetByID_NotFound(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByID", mock.Anything, int64(4)).Return(entity.User{}, usecase.ErrNotFound)
	h := newUserHandler(users, new(mockBookRepo))

	w := httptest.NewRecorder()
	h.Item(w, testutil.NewRequest(http.MethodGet, "/users/4", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_Update_IDMismatch(t *testing.T) {
	users := new(mockUserRepo)
	h := newUserHandler(users, new(mockBookRepo))

	w := httptest.NewRecorder()
	h.Item(w, testutil.NewRequest(http.MethodPut, "/users/4", userPayload(5)))
	resp := testutil.RecordHTTPResponse(w)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	errBody := resp.Body["error"].(map[string]interface{})
	assert.Equal(t, "ID_MISMATCH", errBody["code"])
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserHandler_Delete(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByID", mock.Anything, int64(4)).Return(testutil.NewTestUser(4), nil)
	users.On("Delete", mock.Anything, int64(4)).Return(nil)
	h := newUserHandler(users, new(mockBookRepo))

	w := httptest.NewRecorder()
	h.Item(w, testutil.NewRequest(http.MethodDelete, "/users/4", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	users.AssertExpectations(t)
}

func TestUserHandler_AddBook(t *testing.T) {
	users := new(mockUserRepo)
	books := new(mockBookRepo)
	users.On("GetByID", mock.Anything, int64(4)).Return(testutil.NewTestUser(4), nil)
	books.On("GetByID", mock.Anything, int64(9)).Return(testutil.NewTestBook(9), nil)
	users.On("Update", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil)
	h := newUserHandler(users, books)

	w := httptest.NewRecorder()
	h.Item(w, testutil.NewRequest(http.MethodPost, "/users/4/books", map[string]interface{}{"id": 9}))
	resp := testutil.RecordHTTPResponse(w)

	assert.Equal(t, http.StatusOK, resp.Code)
	data := resp.Body["data"].(map[string]interface{})
	ownedBooks := data["books"].([]interface{})
	require.Len(t, ownedBooks, 1)
	users.AssertExpectations(t)
}

func TestUserHandler_AddBook_AlreadyOwned(t *testing.T) {
	users := new(mockUserRepo)
	books := new(mockBookRepo)
	owner := testutil.NewTestUser(4)
	require.NoError(t, owner.AddBook(testutil.NewTestBook(9)))
	users.On("GetByID", mock.Anything, int64(4)).Return(owner, nil)
	books.On("GetByID", mock.Anything, int64(9)).Return(testutil.NewTestBook(9), nil)
	h := newUserHandler(users, books)

	w := httptest.NewRecorder()
	h.Item(w, testutil.NewRequest(http.MethodPost, "/users/4/books", map[string]interface{}{"id": 9}))
	resp := testutil.RecordHTTPResponse(w)

	assert.Equal(t, http.StatusConflict, resp.Code)
	errBody := resp.Body["error"].(map[string]interface{})
	assert.Equal(t, "ALREADY_OWNED", errBody["code"])
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserHandler_AddBook_BookNotFound(t *testing.T) {
	users := new(mockUserRepo)
	books := new(mockBookRepo)
	users.On("GetByID", mock.Anything, int64(4)).Return(testutil.NewTestUser(4), nil)
	books.On("GetByID", mock.Anything, int64(9)).Return(entity.Book{}, usecase.ErrNotFound)
	h := newUserHandler(users, books)

	w := httptest.NewRecorder()
	h.Item(w, testutil.NewRequest(http.MethodPost, "/users/4/books", map[string]interface{}{"id": 9}))
	resp := testutil.RecordHTTPResponse(w)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	errBody := resp.Body["error"].(map[string]interface{})
	assert.Equal(t, "User or book not found", errBody["message"])
}

func TestUserHandler_RemoveBook(t *testing.T) {
	users := new(mockUserRepo)
	owner := testutil.NewTestUser(4)
	require.NoError(t, owner.AddBook(testutil.NewTestBook(9)))
	users.On("GetByID", mock.Anything, int64(4)).Return(owner, nil)
	users.On("Update", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil)
	h := newUserHandler(users, new(mockBookRepo))

	w := httptest.NewRecorder()
	h.Item(w, testutil.NewRequest(http.MethodDelete, "/users/4/books/9", nil))
	resp := testutil.RecordHTTPResponse(w)

	assert.Equal(t, http.StatusOK, resp.Code)
	data := resp.Body["data"].(map[string]interface{})
	assert.Empty(t, data["books"])
}

func TestUserHandler_RemoveBook_NotOwned(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByID", mock.Anything, int64(4)).Return(testutil.NewTestUser(4), nil)
	users.On("Update", mock.Anything, mock.AnythingOfType("*entity.User")).Return(nil)
	h := newUserHandler(users, new(mockBookRepo))

	w := httptest.NewRecorder()
	h.Item(w, testutil.NewRequest(http.MethodDelete, "/users/4/books/999", nil))
	resp := testutil.RecordHTTPResponse(w)

	assert.Equal(t, http.StatusOK, resp.Code, "removing an unowned book is not an error")
}

func TestUserHandler_Item_UnknownSubresource(t *testing.T) {
	h := newUserHandler(new(mockUserRepo), new(mockBookRepo))

	w := httptest.NewRecorder()
	h.Item(w, testutil.NewRequest(http.MethodGet, "/users/4/ratings", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
