package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fiscus/internal/errors"
	"fiscus/internal/pagination"
	"fiscus/internal/schedule"
	"fiscus/internal/services"
)

// IncomeHandler handles income-related requests.
type IncomeHandler struct {
	incomeService services.IncomeServicer
	auditService  services.AuditServicer
}

// NewIncomeHandler creates a new IncomeHandler.
func NewIncomeHandler(incomeService services.IncomeServicer, auditService services.AuditServicer) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService, auditService: auditService}
}

// CreateIncomeRequest represents the request payload for creating an income source.
type CreateIncomeRequest struct {
	AccountID   string          `json:"account_id" binding:"required,uuid"`
	Name        string          `json:"name" binding:"required,min=1,max=100"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Frequency   string          `json:"frequency" binding:"required,frequency"`
	StartFreq   time.Time       `json:"start_freq" binding:"required"`
}

// UpdateIncomeRequest represents the request payload for updating an income source.
type UpdateIncomeRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Frequency   *string          `json:"frequency" binding:"omitempty,frequency"`
	StartFreq   *time.Time       `json:"start_freq"`
	Enabled     *bool            `json:"enabled"`
}

// CreateIncome handles the creation of a new income source.
// @Summary     Create an income source
// @Tags        income
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateIncomeRequest true "Income details"
// @Success     201 {object} models.Income "Income created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /income [post]
func (h *IncomeHandler) CreateIncome(c *gin.Context) {
	var req CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	income, err := h.incomeService.CreateIncome(req.AccountID, services.IncomeFields{
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		Frequency:   schedule.Frequency(req.Frequency),
		StartFreq:   req.StartFreq,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_INCOME", "income", income.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "frequency": req.Frequency})

	c.JSON(http.StatusCreated, gin.H{"income": income})
}

// GetIncomes handles listing income sources.
// @Summary     Get income sources
// @Tags        income
// @Produce     json
// @Security    BearerAuth
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Param       account_id query string false "Filter by account ID"
// @Success     200 {object} pagination.PageResponse[models.Income] "Paginated income sources"
// @Router      /income [get]
func (h *IncomeHandler) GetIncomes(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if accountID := c.Query("account_id"); accountID != "" {
		result, err := h.incomeService.GetIncomesByAccount(accountID, page)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	result, err := h.incomeService.GetIncomes(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetIncomeDue handles projecting upcoming income occurrences.
// @Summary     Get income due soon
// @Description Project enabled income sources due within the next N days
// @Tags        income
// @Produce     json
// @Security    BearerAuth
// @Param       days query int false "Projection horizon in days (default 7, max 90)"
// @Success     200 {array} services.IncomeDue "Upcoming income occurrences"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /income/due [get]
func (h *IncomeHandler) GetIncomeDue(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 90 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "days must be an integer between 1 and 90"))
			return
		}
		days = parsed
	}

	due, err := h.incomeService.DueWithin(days)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"due": due, "days": days})
}

// GetIncome handles retrieving a specific income source.
// @Summary     Get income by ID
// @Tags        income
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income ID"
// @Success     200 {object} models.Income "Income details"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Router      /income/{id} [get]
func (h *IncomeHandler) GetIncome(c *gin.Context) {
	incomeID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	income, err := h.incomeService.GetIncomeByID(incomeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"income": income})
}

// UpdateIncome handles partial updates to an income source.
// @Summary     Update income
// @Tags        income
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Income ID"
// @Param       request body UpdateIncomeRequest true "Updated income fields"
// @Success     200 {object} models.Income "Updated income"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Router      /income/{id} [patch]
func (h *IncomeHandler) UpdateIncome(c *gin.Context) {
	incomeID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	patch := services.IncomePatch{
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		StartFreq:   req.StartFreq,
		Enabled:     req.Enabled,
	}
	if req.Frequency != nil {
		f := schedule.Frequency(*req.Frequency)
		patch.Frequency = &f
	}

	income, err := h.incomeService.UpdateIncome(incomeID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_INCOME", "income", income.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"income": income})
}

// DeleteIncome handles soft-deleting an income source.
// @Summary     Delete income
// @Tags        income
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income ID"
// @Success     200 {object} map[string]bool "Deleted"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Router      /income/{id} [delete]
func (h *IncomeHandler) DeleteIncome(c *gin.Context) {
	incomeID, err := parsePathUUID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.incomeService.DeleteIncome(incomeID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_INCOME", "income", incomeID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
