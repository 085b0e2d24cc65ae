package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bookcatalog/internal/entity"
	"bookcatalog/internal/platform/openlibrary"
	"bookcatalog/internal/usecase"
)

type BookHandler struct {
	books *usecase.BookUsecase
}

func NewBookHandler(books *usecase.BookUsecase) *BookHandler {
	return &BookHandler{books: books}
}

type bookRequest struct {
	ID        int64  `json:"id"`
	Genre     string `json:"genre"`
	Author    string `json:"author" validate:"required"`
	Image     string `json:"image" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Subtitle  string `json:"subtitle" validate:"required"`
	Publisher string `json:"publisher" validate:"required"`
	Year      string `json:"year" validate:"required"`
	Pages     int    `json:"pages" validate:"required,gt=0"`
	ISBN      string `json:"isbn" validate:"required,isbn"`
}

// toEntity funnels the payload through the entity setters, so semantic rules
// (year range, positive pages) apply even when the validate tags pass.
func (req bookRequest) toEntity() (entity.Book, error) {
	var book entity.Book
	book.ID = req.ID
	book.SetGenre(req.Genre)
	if err := book.SetAuthor(req.Author); err != nil {
		return entity.Book{}, err
	}
	if err := book.SetImage(req.Image); err != nil {
		return entity.Book{}, err
	}
	if err := book.SetTitle(req.Title); err != nil {
		return entity.Book{}, err
	}
	if err := book.SetSubtitle(req.Subtitle); err != nil {
		return entity.Book{}, err
	}
	if err := book.SetPublisher(req.Publisher); err != nil {
		return entity.Book{}, err
	}
	if err := book.SetYear(req.Year); err != nil {
		return entity.Book{}, err
	}
	if err := book.SetPages(req.Pages); err != nil {
		return entity.Book{}, err
	}
	if err := book.SetISBN(req.ISBN); err != nil {
		return entity.Book{}, err
	}
	return book, nil
}

// @Summary List books
// @Description Get all books with optional field filters and pagination
// @Tags books
// @Produce json
// @Param genre query string false "Filter by genre"
// @Param author query string false "Filter by author"
// @Param image query string false "Filter by image"
// @Param title query string false "Filter by title"
// @Param subtitle query string false "Filter by subtitle"
// @Param publisher query string false "Filter by publisher"
// @Param year query string false "Filter by year"
// @Param pages query int false "Filter by page count"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(20)
// @Success 200 {object} SuccessResponse
// @Router /books [get]
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// Blank criteria mean "don't filter on this field", never "match empty".
	params := usecase.BookFilterParams{
		Genre:     strings.TrimSpace(query.Get("genre")),
		Author:    strings.TrimSpace(query.Get("author")),
		Image:     strings.TrimSpace(query.Get("image")),
		Title:     strings.TrimSpace(query.Get("title")),
		Subtitle:  strings.TrimSpace(query.Get("subtitle")),
		Publisher: strings.TrimSpace(query.Get("publisher")),
		Year:      strings.TrimSpace(query.Get("year")),
		Sort:      query.Get("sort"),
		Desc:      query.Get("desc") == "true",
	}

	if pagesRaw := strings.TrimSpace(query.Get("pages")); pagesRaw != "" {
		pages, err := strconv.Atoi(pagesRaw)
		if err != nil {
			JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "pages must be an integer", nil)
			return
		}
		params.Pages = &pages
	}

	page, pageSize := pagination(r)
	params.Limit = pageSize
	params.Offset = (page - 1) * pageSize

	books, total, err := h.books.List(r.Context(), params)
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if books == nil {
		books = []entity.Book{}
	}
	JSONSuccess(w, books, pageMeta(page, pageSize, total))
}

// @Summary Create book
// @Tags books
// @Accept json
// @Produce json
// @Param book body bookRequest true "Book to create"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /books [post]
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := ValidateStruct(req); len(details) > 0 {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	book, err := req.toEntity()
	if err != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	book.ID = 0 // storage assigns the id

	if err := h.books.Create(r.Context(), &book); err != nil {
		JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	JSONSuccessCreated(w, book)
}

// Item dispatches /books/{id} and /books/isbn/{isbn}.
func (h *BookHandler) Item(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/books/")

	if isbn, ok := strings.CutPrefix(rest, "isbn/"); ok {
		if isbn == "" || strings.Contains(isbn, "/") {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.resolveByISBN(w, r, isbn)
		return
	}

	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getByID(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// @Summary Get book by id
// @Tags books
// @Produce json
// @Param id path int true "Book id"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /books/{id} [get]
func (h *BookHandler) getByID(w http.ResponseWriter, r *http.Request, id int64) {
	book, err := h.books.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	JSONSuccess(w, book, nil)
}

// @Summary Update book
// @Tags books
// @Accept json
// @Produce json
// @Param id path int true "Book id"
// @Param book body bookRequest true "Book with new data"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /books/{id} [put]
func (h *BookHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if details := ValidateStruct(req); len(details) > 0 {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)
		return
	}

	book, err := req.toEntity()
	if err != nil {
		JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	if err := h.books.Update(r.Context(), id, &book); err != nil {
		switch {
		case errors.Is(err, usecase.ErrIDMismatch):
			JSONError(w, http.StatusBadRequest, "ID_MISMATCH", "Path id does not match payload id", nil)
		case errors.Is(err, usecase.ErrNotFound):
			JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		default:
			JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}
	JSONSuccess(w, book, nil)
}

// @Summary Delete book
// @Tags books
// @Param id path int true "Book id"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /books/{id} [delete]
func (h *BookHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.books.Delete(r.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
			return
		}
		JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	JSONSuccessNoContent(w)
}

// @Summary Resolve book by ISBN
// @Description Return the local book for the ISBN, fetching and persisting it from Open Library on a miss
// @Tags books
// @Produce json
// @Param isbn path string true "Book ISBN"
// @Success 200 {object} SuccessResponse "Book was already local"
// @Success 201 {object} SuccessResponse "Book freshly resolved and persisted"
// @Failure 404 {object} ErrorResponse
// @Router /books/isbn/{isbn} [get]
func (h *BookHandler) resolveByISBN(w http.ResponseWriter, r *http.Request, isbn string) {
	book, created, err := h.books.ResolveByISBN(r.Context(), isbn)
	if err != nil {
		switch {
		// An unknown ISBN, a failed fetch and a malformed upstream payload
		// are indistinguishable to the caller.
		case errors.Is(err, usecase.ErrNotFound), errors.Is(err, openlibrary.ErrMalformedPayload):
			JSONError(w, http.StatusNotFound, "NOT_FOUND", "ISBN not found", nil)
		default:
			JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}
	if created {
		JSONSuccessCreated(w, book)
		return
	}
	JSONSuccess(w, book, nil)
}

func pagination(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
