package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/vanbang-api/internal/dto"
	"github.com/noah-isme/vanbang-api/internal/service"
	appErrors "github.com/noah-isme/vanbang-api/pkg/errors"
	"github.com/noah-isme/vanbang-api/pkg/response"
)

// BookHandler exposes diploma book endpoints.
type BookHandler struct {
	books *service.BookService
}

// NewBookHandler constructs a BookHandler.
func NewBookHandler(books *service.BookService) *BookHandler {
	return &BookHandler{books: books}
}

// List godoc
// @Summary List diploma books
// @Tags Books
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /diploma-books [get]
func (h *BookHandler) List(c *gin.Context) {
	books, err := h.books.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, books, nil)
}

// Get godoc
// @Summary Get diploma book
// @Tags Books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /diploma-books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	book, err := h.books.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, book, nil)
}

// Create godoc
// @Summary Open a diploma book for a year
// @Tags Books
// @Accept json
// @Produce json
// @Param payload body dto.BookRequest true "Book payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /diploma-books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid book payload"))
		return
	}
	book, err := h.books.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, book)
}

// Update godoc
// @Summary Update diploma book
// @Tags Books
// @Accept json
// @Produce json
// @Param id path string true "Book ID"
// @Param payload body dto.BookRequest true "Book payload"
// @Success 200 {object} response.Envelope
// @Router /diploma-books/{id} [put]
func (h *BookHandler) Update(c *gin.Context) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid book payload"))
		return
	}
	book, err := h.books.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, book, nil)
}

// Delete godoc
// @Summary Delete an unused diploma book
// @Tags Books
// @Param id path string true "Book ID"
// @Success 204
// @Failure 412 {object} response.Envelope
// @Router /diploma-books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	if err := h.books.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
