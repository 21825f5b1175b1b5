package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotekeeper/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotekeeper/internal/app"
	"github.com/jsamuelsen/quotekeeper/internal/domain"
)

// MaxImportBytes caps the size of an import payload.
const MaxImportBytes = 5 << 20

// importFormField is the multipart field carrying an uploaded export file.
const importFormField = "file"

// QuoteHandler serves the quote collection, categories and the category
// preference.
type QuoteHandler struct {
	store *app.QuoteStore
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(store *app.QuoteStore) *QuoteHandler {
	return &QuoteHandler{store: store}
}

// ListQuotes handles GET /api/v1/quotes.
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewQuoteListResponse(h.store.Quotes(c.Request.Context())))
}

// AddQuote handles POST /api/v1/quotes.
// The push to the remote runs in the background and never affects the response.
func (h *QuoteHandler) AddQuote(c *gin.Context) {
	var req dto.AddQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	quote, err := h.store.AddQuote(c.Request.Context(), req.Text, req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuoteResponse(quote))
}

// GetRandomQuote handles GET /api/v1/quotes/random?category=.
// An empty match is a 200 with the empty state, not an error.
func (h *QuoteHandler) GetRandomQuote(c *gin.Context) {
	var q dto.RandomQuoteQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.HandleError(c, err)
		return
	}

	quote, ok := h.store.GetRandomQuote(c.Request.Context(), q.Category)
	c.JSON(http.StatusOK, dto.NewRandomQuoteResponse(quote, ok))
}

// GetLastQuote handles GET /api/v1/quotes/last, the start-up view.
func (h *QuoteHandler) GetLastQuote(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewViewResponse(h.store.RestoreView(c.Request.Context())))
}

// ExportQuotes handles GET /api/v1/quotes/export as a file download.
func (h *QuoteHandler) ExportQuotes(c *gin.Context) {
	payload, err := h.store.ExportJSON(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", app.ExportFilename))
	c.Data(http.StatusOK, "application/json", payload)
}

// ImportQuotes handles POST /api/v1/quotes/import. The payload is either the
// raw request body or a multipart upload in the "file" field.
func (h *QuoteHandler) ImportQuotes(c *gin.Context) {
	payload, err := readImportPayload(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	result, err := h.store.ImportJSON(c.Request.Context(), payload)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewImportResponse(result))
}

func readImportPayload(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImportBytes)

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return readLimited(c.Request.Body)
	}

	header, err := c.FormFile(importFormField)
	if err != nil {
		return nil, importReadError(err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, importReadError(err)
	}
	defer func() { _ = file.Close() }()

	return readLimited(file)
}

func readLimited(r io.Reader) ([]byte, error) {
	payload, err := io.ReadAll(io.LimitReader(r, MaxImportBytes+1))
	if err != nil {
		return nil, importReadError(err)
	}

	if len(payload) > MaxImportBytes {
		return nil, domain.NewFormatError("import", "payload too large", nil)
	}

	return payload, nil
}

// importReadError reports an oversized body as a format error, whether the
// limit tripped while reading the raw body or while parsing a multipart form.
func importReadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return domain.NewFormatError("import", "payload too large", nil)
	}

	return fmt.Errorf("%w: %w", dto.ErrBinding, err)
}

// ListCategories handles GET /api/v1/categories.
func (h *QuoteHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CategoriesResponse{Categories: h.store.ListCategories(c.Request.Context())})
}

// GetCategoryPreference handles GET /api/v1/preferences/category.
func (h *QuoteHandler) GetCategoryPreference(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CategoryPreference{Category: h.store.SelectedCategory(c.Request.Context())})
}

// SetCategoryPreference handles PUT /api/v1/preferences/category.
// Unknown categories are a 404.
func (h *QuoteHandler) SetCategoryPreference(c *gin.Context) {
	var req dto.CategoryPreference
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.store.SetSelectedCategory(ctx, req.Category); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CategoryPreference{Category: h.store.SelectedCategory(ctx)})
}

// RegisterRoutes registers the quote routes on an /api/v1 group.
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.POST("", h.AddQuote)
	quotes.GET("/random", h.GetRandomQuote)
	quotes.GET("/last", h.GetLastQuote)
	quotes.GET("/export", h.ExportQuotes)
	quotes.POST("/import", h.ImportQuotes)

	rg.GET("/categories", h.ListCategories)
	rg.GET("/preferences/category", h.GetCategoryPreference)
	rg.PUT("/preferences/category", h.SetCategoryPreference)
}
