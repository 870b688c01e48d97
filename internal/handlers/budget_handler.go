package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fiscus/internal/config"
	apperrors "fiscus/internal/errors"
	"fiscus/internal/pagination"
	"fiscus/internal/services"
)

// BudgetHandler handles budget-related requests, including budget-bill
// attachment, settlement, and retention pruning.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// CreateBudgetRequest represents the request payload for creating a budget.
type CreateBudgetRequest struct {
	Name        string    `json:"name" binding:"required,min=1,max=100"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
}

// UpdateBudgetRequest represents the request payload for updating a budget.
type UpdateBudgetRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Enabled     *bool      `json:"enabled"`
}

// AttachBillRequest represents the request payload for attaching a bill
// to a budget.
type AttachBillRequest struct {
	BillID            string           `json:"bill_id" binding:"required,uuid"`
	AccountID         string           `json:"account_id" binding:"required,uuid"`
	TransferAccountID *string          `json:"transfer_account_id" binding:"omitempty,uuid"`
	BudgetedAmount    *decimal.Decimal `json:"budgeted_amount"`
	DueDate           *time.Time       `json:"due_date"`
	Note              string           `json:"note"`
}

// UpdateBudgetBillRequest represents the request payload for updating a
// budget bill. Supplying a positive paid_amount settles the bill.
type UpdateBudgetBillRequest struct {
	BudgetedAmount *decimal.Decimal `json:"budgeted_amount"`
	DueDate        *time.Time       `json:"due_date"`
	PaidAmount     *decimal.Decimal `json:"paid_amount"`
	PaidOn         *time.Time       `json:"paid_on"`
	Note           *string          `json:"note"`
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Description Create a budget window; overlapping another budget's window is rejected
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input or overlapping window"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.CreateBudget(req.Name, req.Description, req.StartDate, req.EndDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{
			"name":       req.Name,
			"start_date": req.StartDate.Format("2006-01-02"),
			"end_date":   req.EndDate.Format("2006-01-02"),
		})

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// GetBudgets handles listing budgets.
// @Summary     Get budgets
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Budget] "Paginated budgets"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.budgetService.GetBudgets(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudget handles retrieving a specific budget.
// @Summary     Get budget by ID
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} models.Budget "Budget with attached bills"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	budgetID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByID(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpdateBudget handles partial updates to a budget.
// @Summary     Update budget
// @Description Update budget fields; changing dates re-validates window overlap
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Updated budget fields"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input or overlapping window"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [patch]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	budgetID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.UpdateBudget(budgetID, services.BudgetPatch{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Enabled:     req.Enabled,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_BUDGET", "budget", budget.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles soft-deleting a budget.
// @Summary     Delete budget
// @Description Delete a budget; fails while any bill remains attached
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} map[string]bool "Deleted"
// @Failure     400 {object} ErrorResponse "Budget still has bills attached"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	budgetID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_BUDGET", "budget", budgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AttachBill handles attaching a bill to a budget.
// @Summary     Attach bill to budget
// @Description Attach a bill to a budget; the due date must fall inside the budget window
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Budget ID"
// @Param       request body AttachBillRequest true "Attachment details"
// @Success     201 {object} models.BudgetBill "Budget bill created"
// @Failure     400 {object} ErrorResponse "Bill does not occur within the budget window"
// @Failure     404 {object} ErrorResponse "Budget, bill, or account not found"
// @Router      /budgets/{id}/bills [post]
func (h *BudgetHandler) AttachBill(c *gin.Context) {
	budgetID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AttachBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budgetBill, err := h.budgetService.AttachBill(budgetID, services.AttachBillParams{
		BillID:            req.BillID,
		AccountID:         req.AccountID,
		TransferAccountID: req.TransferAccountID,
		BudgetedAmount:    req.BudgetedAmount,
		DueDate:           req.DueDate,
		Note:              req.Note,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("ATTACH_BUDGET_BILL", "budget_bill", budgetBill.ID, c.ClientIP(),
		map[string]interface{}{"budget_id": budgetID, "bill_id": req.BillID})

	c.JSON(http.StatusCreated, gin.H{"budget_bill": budgetBill})
}

// GetBudgetBills handles listing the bills attached to a budget.
// @Summary     Get budget bills
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {array} models.BudgetBill "Attached bills"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/bills [get]
func (h *BudgetHandler) GetBudgetBills(c *gin.Context) {
	budgetID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetBills, err := h.budgetService.GetBudgetBills(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget_bills": budgetBills})
}

// UpdateBudgetBill handles updating a budget bill, including settlement.
// @Summary     Update budget bill
// @Description Update a budget bill; a positive paid_amount settles it, debiting the paying account
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id       path string                  true "Budget ID"
// @Param       bill_id  path string                  true "Budget bill ID"
// @Param       request  body UpdateBudgetBillRequest true "Updated fields"
// @Success     200 {object} models.BudgetBill "Updated budget bill"
// @Failure     400 {object} ErrorResponse "Disabled account or already settled"
// @Failure     404 {object} ErrorResponse "Budget or budget bill not found"
// @Router      /budgets/{id}/bills/{bill_id} [patch]
func (h *BudgetHandler) UpdateBudgetBill(c *gin.Context) {
	budgetID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	budgetBillID, err := parsePathUUID(c, "bill_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budgetBill, err := h.budgetService.UpdateBudgetBill(budgetID, budgetBillID, services.BudgetBillPatch{
		BudgetedAmount: req.BudgetedAmount,
		DueDate:        req.DueDate,
		PaidAmount:     req.PaidAmount,
		PaidOn:         req.PaidOn,
		Note:           req.Note,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{}
	if req.PaidAmount != nil {
		changes["paid_amount"] = req.PaidAmount.String()
	}
	h.auditService.Log("UPDATE_BUDGET_BILL", "budget_bill", budgetBill.ID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, gin.H{"budget_bill": budgetBill})
}

// RemoveBill handles detaching a bill from a budget.
// @Summary     Remove bill from budget
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string true "Budget ID"
// @Param       bill_id path string true "Budget bill ID"
// @Success     200 {object} map[string]bool "Removed"
// @Failure     404 {object} ErrorResponse "Budget or budget bill not found"
// @Router      /budgets/{id}/bills/{bill_id} [delete]
func (h *BudgetHandler) RemoveBill(c *gin.Context) {
	budgetID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	budgetBillID, err := parsePathUUID(c, "bill_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.RemoveBill(budgetID, budgetBillID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("REMOVE_BUDGET_BILL", "budget_bill", budgetBillID, c.ClientIP(),
		map[string]interface{}{"budget_id": budgetID})

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListPrunable handles previewing which budgets a prune run would remove.
// @Summary     List prunable budgets
// @Description List budgets whose window ended before the retention cutoff
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       months query int false "Retention horizon in months (default from configuration)"
// @Success     200 {array} models.Budget "Budgets eligible for pruning"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /budgets/prune [get]
func (h *BudgetHandler) ListPrunable(c *gin.Context) {
	months, err := h.retentionMonths(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.ListPrunable(months)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets, "months": months})
}

// Prune handles removing budgets older than the retention horizon.
// @Summary     Prune old budgets
// @Description Soft-delete budgets whose window ended before the retention cutoff
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       months query int false "Retention horizon in months (default from configuration)"
// @Success     200 {object} services.PruneResult "Prune outcome"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /budgets/prune [post]
func (h *BudgetHandler) Prune(c *gin.Context) {
	months, err := h.retentionMonths(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.budgetService.Prune(months)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("PRUNE_BUDGETS", "budget", "", c.ClientIP(),
		map[string]interface{}{"months": months, "count": result.Count})

	c.JSON(http.StatusOK, result)
}

func (h *BudgetHandler) retentionMonths(c *gin.Context) (int, error) {
	months := config.Get().RetentionMonths
	if raw := c.Query("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be a positive integer")
		}
		months = parsed
	}
	return months, nil
}
