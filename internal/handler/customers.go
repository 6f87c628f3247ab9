package handler

import (
	"net/http"

	"summitgear/internal/apierror"
	"summitgear/internal/dto"
	"summitgear/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CustomersHandler struct {
	catalog service.CatalogService
	points  service.PointsService
}

func NewCustomersHandler(catalog service.CatalogService, points service.PointsService) *CustomersHandler {
	return &CustomersHandler{catalog: catalog, points: points}
}

// GetCustomer godoc
// @Summary      Fetch a customer profile
// @Description  Includes the membership tier and running points/spend balances.
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Customer UUID"
// @Success      200 {object} dto.CustomerResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/customers/{id} [get]
func (h *CustomersHandler) GetCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid customer id"))
		return
	}
	resp, err := h.catalog.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PointsLedger godoc
// @Summary      Customer points ledger
// @Description  Append-only transaction history with running balance snapshots.
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "Customer UUID"
// @Param        page  query int    false "Page (default 1)"
// @Param        limit query int    false "Rows per page (default 50)"
// @Success      200 {object} dto.PointsLedgerResponse
// @Router       /v1/customers/{id}/points [get]
func (h *CustomersHandler) PointsLedger(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid customer id"))
		return
	}
	var filter dto.PointsFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.points.Ledger(c.Request.Context(), id, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
