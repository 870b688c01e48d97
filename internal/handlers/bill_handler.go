package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fiscus/internal/errors"
	"fiscus/internal/models"
	"fiscus/internal/pagination"
	"fiscus/internal/schedule"
	"fiscus/internal/services"
)

// BillHandler handles bill-related requests.
type BillHandler struct {
	billService  services.BillServicer
	auditService services.AuditServicer
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(billService services.BillServicer, auditService services.AuditServicer) *BillHandler {
	return &BillHandler{billService: billService, auditService: auditService}
}

// CreateBillRequest represents the request payload for creating a bill.
type CreateBillRequest struct {
	AccountID         string          `json:"account_id" binding:"required,uuid"`
	Name              string          `json:"name" binding:"required,min=1,max=100"`
	Description       string          `json:"description"`
	CategoryID        *string         `json:"category_id" binding:"omitempty,uuid"`
	TransferAccountID *string         `json:"transfer_account_id" binding:"omitempty,uuid"`
	BudgetedAmount    decimal.Decimal `json:"budgeted_amount" binding:"required"`
	Frequency         string          `json:"frequency" binding:"required,frequency"`
	PaymentMethod     string          `json:"payment_method" binding:"required,payment_method"`
	StartFreq         time.Time       `json:"start_freq" binding:"required"`
}

// UpdateBillRequest represents the request payload for updating a bill.
type UpdateBillRequest struct {
	Name              *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description       *string          `json:"description"`
	CategoryID        *string          `json:"category_id" binding:"omitempty,uuid"`
	TransferAccountID *string          `json:"transfer_account_id" binding:"omitempty,uuid"`
	BudgetedAmount    *decimal.Decimal `json:"budgeted_amount"`
	Frequency         *string          `json:"frequency" binding:"omitempty,frequency"`
	PaymentMethod     *string          `json:"payment_method" binding:"omitempty,payment_method"`
	StartFreq         *time.Time       `json:"start_freq"`
	Enabled           *bool            `json:"enabled"`
}

// CreateBill handles the creation of a new bill.
// @Summary     Create a bill
// @Description Create a recurring bill against an account
// @Tags        bills
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBillRequest true "Bill details"
// @Success     201 {object} models.Bill "Bill created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Account or category not found"
// @Router      /bills [post]
func (h *BillHandler) CreateBill(c *gin.Context) {
	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	bill, err := h.billService.CreateBill(req.AccountID, services.BillFields{
		Name:              req.Name,
		Description:       req.Description,
		CategoryID:        req.CategoryID,
		TransferAccountID: req.TransferAccountID,
		BudgetedAmount:    req.BudgetedAmount,
		Frequency:         schedule.Frequency(req.Frequency),
		PaymentMethod:     models.PaymentMethod(req.PaymentMethod),
		StartFreq:         req.StartFreq,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_BILL", "bill", bill.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "frequency": req.Frequency})

	c.JSON(http.StatusCreated, gin.H{"bill": bill})
}

// GetBills handles listing bills.
// @Summary     Get bills
// @Tags        bills
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       account_id query string false "Filter by account ID"
// @Success     200 {object} pagination.PageResponse[models.Bill] "Paginated bills"
// @Router      /bills [get]
func (h *BillHandler) GetBills(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if accountID := c.Query("account_id"); accountID != "" {
		result, err := h.billService.GetBillsByAccount(accountID, page)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	result, err := h.billService.GetBills(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBill handles retrieving a specific bill.
// @Summary     Get bill by ID
// @Tags        bills
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Bill ID"
// @Success     200 {object} models.Bill "Bill details"
// @Failure     404 {object} ErrorResponse "Bill not found"
// @Router      /bills/{id} [get]
func (h *BillHandler) GetBill(c *gin.Context) {
	billID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	bill, err := h.billService.GetBillByID(billID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bill": bill})
}

// UpdateBill handles partial updates to a bill.
// @Summary     Update bill
// @Tags        bills
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Bill ID"
// @Param       request body UpdateBillRequest true "Updated bill fields"
// @Success     200 {object} models.Bill "Updated bill"
// @Failure     404 {object} ErrorResponse "Bill not found"
// @Router      /bills/{id} [patch]
func (h *BillHandler) UpdateBill(c *gin.Context) {
	billID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	patch := services.BillPatch{
		Name:              req.Name,
		Description:       req.Description,
		CategoryID:        req.CategoryID,
		TransferAccountID: req.TransferAccountID,
		BudgetedAmount:    req.BudgetedAmount,
		StartFreq:         req.StartFreq,
		Enabled:           req.Enabled,
	}
	if req.Frequency != nil {
		f := schedule.Frequency(*req.Frequency)
		patch.Frequency = &f
	}
	if req.PaymentMethod != nil {
		m := models.PaymentMethod(*req.PaymentMethod)
		patch.PaymentMethod = &m
	}

	bill, err := h.billService.UpdateBill(billID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_BILL", "bill", bill.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"bill": bill})
}

// DeleteBill handles soft-deleting a bill.
// @Summary     Delete bill
// @Tags        bills
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Bill ID"
// @Success     200 {object} map[string]bool "Deleted"
// @Failure     404 {object} ErrorResponse "Bill not found"
// @Router      /bills/{id} [delete]
func (h *BillHandler) DeleteBill(c *gin.Context) {
	billID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.billService.DeleteBill(billID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_BILL", "bill", billID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
