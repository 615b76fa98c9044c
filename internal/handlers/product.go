package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scrapstack/hardware-prices-backend/internal/logger"
	"github.com/scrapstack/hardware-prices-backend/internal/services"
)

const (
	defaultListLimit   = 100
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

type ProductHandler struct {
	log            *logger.Logger
	productService services.ProductService
}

func NewProductHandler(baseLog *logger.Logger, productService services.ProductService) *ProductHandler {
	return &ProductHandler{
		log:            baseLog.With("handler", "ProductHandler"),
		productService: productService,
	}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_skip", err)
		return
	}
	limit, err := queryInt(c, "limit", defaultListLimit)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_limit", err)
		return
	}
	products := h.productService.List(c.Request.Context(), skip, limit)
	RespondOK(c, toProducts(products))
}

func (h *ProductHandler) CountProducts(c *gin.Context) {
	RespondOK(c, ProductCount{TotalProducts: h.productService.Count(c.Request.Context())})
}

func (h *ProductHandler) SearchProducts(c *gin.Context) {
	criteria := services.SearchCriteria{
		Query:  c.Query("q"),
		Store:  c.Query("store"),
		SortBy: c.DefaultQuery("sort_by", services.SortPriceAsc),
	}

	var err error
	if criteria.MinPrice, err = queryIntPtr(c, "min_price"); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_min_price", err)
		return
	}
	if criteria.MaxPrice, err = queryIntPtr(c, "max_price"); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_max_price", err)
		return
	}
	if criteria.Page, err = queryInt(c, "page", 1); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_page", err)
		return
	}
	if criteria.Limit, err = queryInt(c, "limit", defaultSearchLimit); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_limit", err)
		return
	}
	if criteria.Limit <= 0 || criteria.Limit > maxSearchLimit {
		RespondError(c, http.StatusBadRequest, "invalid_limit",
			fmt.Errorf("limit must be between 1 and %d", maxSearchLimit))
		return
	}

	result, err := h.productService.Search(c.Request.Context(), criteria)
	if err != nil {
		if errors.Is(err, services.ErrInvalidLimit) {
			RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		h.log.Error("SearchProducts failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "search_failed", err)
		return
	}

	RespondOK(c, SearchResponse{
		TotalResults: result.TotalResults,
		TotalPages:   result.TotalPages,
		CurrentPage:  result.CurrentPage,
		Limit:        result.Limit,
		Data:         toProducts(result.Data),
	})
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

func queryIntPtr(c *gin.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	return &v, nil
}
