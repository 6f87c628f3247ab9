package handler

import (
	"net/http"

	"summitgear/internal/apierror"
	"summitgear/internal/dto"
	"summitgear/internal/middleware"
	"summitgear/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReturnsHandler struct{ svc service.ReturnService }

func NewReturnsHandler(svc service.ReturnService) *ReturnsHandler { return &ReturnsHandler{svc: svc} }

// CreateReturn godoc
// @Summary      Create a return request
// @Description  Opens a Pending return for a Completed order. One non-rejected request per order.
// @Tags         returns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateReturnRequest true "Return detail"
// @Success      201  {object} dto.ReturnResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/returns [post]
func (h *ReturnsHandler) CreateReturn(c *gin.Context) {
	var req dto.CreateReturnRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateReturnRequest(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ProcessReturn godoc
// @Summary      Approve or reject a return request
// @Description  Approval refunds the order, reverses loyalty points and restores stock at salvage value in one transaction.
// @Tags         returns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "Return request UUID"
// @Param        body body dto.ProcessReturnRequest true "Decision"
// @Success      204
// @Failure      409  {object} apierror.APIError
// @Router       /v1/returns/{id} [put]
func (h *ReturnsHandler) ProcessReturn(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid return id"))
		return
	}
	var req dto.ProcessReturnRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	processedBy, _ := uuid.Parse(claims.UserID)

	if err := h.svc.ProcessReturn(c.Request.Context(), id, processedBy, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetReturn godoc
// @Summary      Fetch a return request
// @Tags         returns
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Return request UUID"
// @Success      200 {object} dto.ReturnResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/returns/{id} [get]
func (h *ReturnsHandler) GetReturn(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid return id"))
		return
	}
	resp, err := h.svc.GetReturn(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListReturns godoc
// @Summary      List return requests
// @Tags         returns
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id query string false "Customer UUID"
// @Param        status      query string false "Pending | Approved | Rejected | all"
// @Param        page        query int    false "Page (default 1)"
// @Param        limit       query int    false "Rows per page (default 50)"
// @Success      200 {object} dto.ReturnListResponse
// @Router       /v1/returns [get]
func (h *ReturnsHandler) ListReturns(c *gin.Context) {
	var filter dto.ReturnFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.ListReturns(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
