package book

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"bookcatalog/internal/httpx"
)

type HTTPHandler struct {
	service         *Service
	defaultPageSize int
	maxPageSize     int
}

func NewHTTPHandler(service *Service, defaultPageSize, maxPageSize int) *HTTPHandler {
	return &HTTPHandler{
		service:         service,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// Register mounts the book routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /book/add", h.Add)
	mux.HandleFunc("GET /book/get/all", h.List)
	mux.HandleFunc("GET /book/get/{id}", h.GetByID)
	mux.HandleFunc("GET /book/search", h.Search)
	mux.HandleFunc("PUT /book/update/{id}", h.Update)
	mux.HandleFunc("DELETE /book/delete/{id}", h.Delete)
}

type listParams struct {
	PageNo   int `query:"pageNo" validate:"gte=0"`
	PageSize int `query:"pageSize" validate:"gt=0"`
}

type searchParams struct {
	SearchText string `query:"searchText" validate:"required"`
}

func statusFor(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyExists:
		return http.StatusConflict
	case KindBookCreation, KindTitleRequired, KindAuthorRequired, KindInvalidTitle,
		KindInvalidAuthor, KindInvalidPublicationYear, KindInvalidPage:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	kind := KindOf(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		httpx.JSONError(w, status, "Internal server error")
		return
	}
	httpx.JSONError(w, status, err.Error())
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id parameter")
	}
	return id, nil
}

func decodeRequest(r *http.Request) (Request, error) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return Request{}, fmt.Errorf("invalid request body: %w", err)
	}
	return req, nil
}

// Add handles POST /book/add
// @Summary Add a book
// @Tags books
// @Accept json
// @Produce json
// @Router /book/add [post]
func (h *HTTPHandler) Add(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Add(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSONSuccess(w, resp)
}

// List handles GET /book/get/all
// @Summary List books with pagination
// @Tags books
// @Param pageNo query int false "Zero-based page number" default(0)
// @Param pageSize query int false "Items per page" default(10)
// @Router /book/get/all [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := listParams{PageNo: 0, PageSize: h.defaultPageSize}
	invalid := map[string]string{}

	if v := query.Get("pageNo"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			invalid["pageNo"] = "pageNo must be an integer"
		}
		params.PageNo = n
	}
	if v := query.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			invalid["pageSize"] = "pageSize must be an integer"
		}
		params.PageSize = n
	}
	for field, msg := range httpx.ValidateStruct(params) {
		if _, ok := invalid[field]; !ok {
			invalid[field] = msg
		}
	}
	if _, ok := invalid["pageSize"]; !ok && params.PageSize > h.maxPageSize {
		invalid["pageSize"] = fmt.Sprintf("pageSize must be at most %d", h.maxPageSize)
	}
	if len(invalid) > 0 {
		httpx.JSONError(w, http.StatusBadRequest, invalid)
		return
	}

	page, err := h.service.List(r.Context(), params.PageNo, params.PageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSONSuccess(w, page)
}

// GetByID handles GET /book/get/{id}
// @Summary Get a book by id
// @Tags books
// @Param id path int true "Book id"
// @Router /book/get/{id} [get]
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSONSuccess(w, resp)
}

// Search handles GET /book/search
// @Summary Search books by title, author, isbn or publication year
// @Tags books
// @Param searchText query string true "Free text or a four digit year"
// @Router /book/search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	params := searchParams{SearchText: r.URL.Query().Get("searchText")}
	if invalid := httpx.ValidateStruct(params); invalid != nil {
		httpx.JSONError(w, http.StatusBadRequest, invalid)
		return
	}

	resp, err := h.service.Search(r.Context(), params.SearchText)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSONSuccess(w, resp)
}

// Update handles PUT /book/update/{id}
// @Summary Partially update a book
// @Tags books
// @Param id path int true "Book id"
// @Router /book/update/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	req, err := decodeRequest(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSONSuccess(w, resp)
}

// Delete handles DELETE /book/delete/{id}
// @Summary Delete a book
// @Tags books
// @Param id path int true "Book id"
// @Router /book/delete/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSONSuccess(w, nil)
}
