package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bookcatalog/internal/entity"
	"bookcatalog/internal/usecase"
)

const dateLayout = "2006-01-02"

type UserHandler struct {
	users *usecase.UserUsecase
}

func NewUserHandler(users *usecase.UserUsecase) *UserHandler {
	return &UserHandler{users: users}
}

type userRequest struct {
	ID       int64  `json:"id"`
	Username string `json:"username" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Birthday string `json:"birthday" validate:"required"`
}

func (req userRequest) toEntity() (entity.User, error) {
	var user entity.User
	user.ID = req.ID
	if err := user.SetUsername(req.Username); err != nil {
		return entity.User{}, err
	}
	if err := user.SetName(req.Name); err != nil {
		return entity.User{}, err
	}
	birthday, err := time.Parse(dateLayout, req.Birthday)
	if err != nil {
		return entity.User{}, errors.New("birthday must be YYYY-MM-DD")
	}
	if err := user.SetBirthday(birthday); err != nil {
		return entity.User{}, err
	}
	return user, nil
}

type addBookRequest struct {
	ID int64 `json:"id" validate:"required"`
}

// @Summary List users
// @Description Get users, optionally narrowed by name substring and birthday range
// @Tags users
// @Produce json
// @Param name query string false "Case-insensitive name substring"
// @Param start_date query string false "Earliest birthday (YYYY-MM-DD)"
// @Param end_date query string false "Latest birthday (YYYY-MM-DD)"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(20)
// @Success 200 {object} SuccessResponse
// @Router /users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := usecase.UserListParams{
		Name: strings.TrimSpace(query.Get("name")),
	}
	if raw := strings.TrimSpace(query.Get("start_date")); raw != "" {
		startDate, err := time.Parse(dateLayout, raw)
		if err != nil {
			JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "start_date must be YYYY-MM-DD", nil)
			return
		}
		params.StartDate = startDate
	}
	if raw := strings.TrimSpace(query.Get("end_date")); raw != "" {
		endDate, err := time.Parse(dateLayout, raw)
		if err != nil {
			JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "end_date must be YYYY-MM-DD", nil)
			return
		}
		params.EndDate = endDate
	}

	page, pageSize := pagination(r)
	params.Limit = pageSize
	params.Offset = (page - 1) * pageSize

	users, total, err := h.users.List(r.Context(), params)
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if users == nil {
		users = []entity.User{}
	}
	JSONSuccess(w, users, pageMeta(page, pageSize, total))
}

// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param user body userRequest true "User to create"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /users [post]
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := ValidateStruct(req); len(details) > 0 {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	user, err := req.toEntity()
	if err != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	user.ID = 0 // storage assigns the id

	if err := h.users.Create(r.Context(), &user); err != nil {
		JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	JSONSuccessCreated(w, user)
}

// Item dispatches /users/{id}, /users/{userId}/books and
// /users/{userId}/books/{bookId}.
func (h *UserHandler) Item(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/users/"), "/")
	parts := strings.Split(rest, "/")

	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			h.getByID(w, r, userID)
		case http.MethodPut:
			h.update(w, r, userID)
		case http.MethodDelete:
			h.delete(w, r, userID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case len(parts) == 2 && parts[1] == "books":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.addBook(w, r, userID)
	case len(parts) == 3 && parts[1] == "books":
		bookID, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.removeBook(w, r, userID, bookID)
	default:
		http.NotFound(w, r)
	}
}

// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) getByID(w http.ResponseWriter, r *http.Request, id int64) {
	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			JSONError(w, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
			return
		}
		JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	JSONSuccess(w, user, nil)
}

// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User id"
// @Param user body userRequest true "User with new data"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := ValidateStruct(req); len(details) > 0 {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	user, err := req.toEntity()
	if err != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	if err := h.users.Update(r.Context(), id, &user); err != nil {
		switch {
		case errors.Is(err, usecase.ErrIDMismatch):
			JSONError(w, http.StatusBadRequest, "ID_MISMATCH", "Path id does not match payload id", nil)
		case errors.Is(err, usecase.ErrNotFound):
			JSONError(w, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
		default:
			JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}
	JSONSuccess(w, user, nil)
}

// @Summary Delete user
// @Tags users
// @Param id path int true "User id"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			JSONError(w, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
			return
		}
		JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	JSONSuccessNoContent(w)
}

// @Summary Add book to user's library
// @Tags users
// @Accept json
// @Produce json
// @Param userId path int true "User id"
// @Param book body addBookRequest true "Id of the stored book to add"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users/{userId}/books [post]
func (h *UserHandler) addBook(w http.ResponseWriter, r *http.Request, userID int64) {
	var req addBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := ValidateStruct(req); len(details) > 0 {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	user, err := h.users.AddBook(r.Context(), userID, req.ID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			JSONError(w, http.StatusNotFound, "NOT_FOUND", "User or book not found", nil)
		case errors.Is(err, entity.ErrBookAlreadyOwned):
			JSONError(w, http.StatusConflict, "ALREADY_OWNED", "Book already owned", nil)
		default:
			JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}
	JSONSuccess(w, user, nil)
}

// @Summary Remove book from user's library
// @Description Returns 200 with the user even when the book was not owned
// @Tags users
// @Produce json
// @Param userId path int true "User id"
// @Param bookId path int true "Book id"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{userId}/books/{bookId} [delete]
func (h *UserHandler) removeBook(w http.ResponseWriter, r *http.Request, userID, bookID int64) {
	user, err := h.users.RemoveBook(r.Context(), userID, bookID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			JSONError(w, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
			return
		}
		JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	JSONSuccess(w, user, nil)
}
