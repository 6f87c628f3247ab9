package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"summitgear/internal/apierror"
	"summitgear/internal/dto"
	"summitgear/internal/repository"
	"summitgear/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const availabilityCacheTTL = 5 * time.Minute

type StockHandler struct {
	svc         service.StockService
	productRepo repository.ProductRepository
	rdb         *redis.Client
}

func NewStockHandler(svc service.StockService, productRepo repository.ProductRepository, rdb *redis.Client) *StockHandler {
	return &StockHandler{svc: svc, productRepo: productRepo, rdb: rdb}
}

// Availability godoc
// @Summary      Check product availability at a branch (no authentication)
// @Description  Sum of InStock batch quantities for the product/branch pair. Redis-cached; invalidated on every stock mutation.
// @Tags         stock
// @Produce      json
// @Param        product_id query string true "Product UUID"
// @Param        branch_id  query string true "Branch UUID"
// @Success      200 {object} dto.AvailabilityResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/stock/availability [get]
func (h *StockHandler) Availability(c *gin.Context) {
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product_id"))
		return
	}
	branchID, err := uuid.Parse(c.Query("branch_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid branch_id"))
		return
	}

	ctx := c.Request.Context()
	cacheKey := service.AvailabilityCacheKey(productID, branchID)

	// 1. Try Redis cache
	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.AvailabilityResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	// 2. Cache miss — query DB
	product, err := h.productRepo.FindByID(ctx, productID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("product not found"))
		return
	}
	available, err := h.svc.AvailableQuantity(ctx, productID, branchID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.AvailabilityResponse{
		ProductID:   productID.String(),
		BranchID:    branchID.String(),
		Product:     product.Name,
		RetailPrice: product.RetailPrice,
		Available:   available,
	}

	// 3. Populate cache — best effort, ignore errors
	if h.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = h.rdb.Set(context.Background(), cacheKey, b, availabilityCacheTTL).Err()
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Replenish godoc
// @Summary      Register a stock batch (stock-in / purchase receipt)
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ReplenishRequest true "Batch detail"
// @Success      201  {object} dto.BatchResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/stock/batches [post]
func (h *StockHandler) Replenish(c *gin.Context) {
	var req dto.ReplenishRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Replenish(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListBatches godoc
// @Summary      List stock batches
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        product_id query string false "Product UUID"
// @Param        branch_id  query string false "Branch UUID"
// @Param        status     query string false "InStock | Sold | Returned | all"
// @Param        page       query int    false "Page (default 1)"
// @Param        limit      query int    false "Rows per page (default 50)"
// @Success      200 {object} dto.BatchListResponse
// @Router       /v1/stock/batches [get]
func (h *StockHandler) ListBatches(c *gin.Context) {
	var filter dto.BatchFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.ListBatches(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
