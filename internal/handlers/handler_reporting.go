package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/member_ledger_app/internal/apperrors"
	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/member_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/member_ledger_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles financial report requests.
type reportingHandler struct {
	reportingService portssvc.ReportingService
	now              func() time.Time
}

func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{reportingService: rs, now: time.Now}
}

// registerReportingRoutes registers the report endpoints.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/general-ledger/:accountID", h.getGeneralLedger)
		reports.GET("/balance-sheet", h.getBalanceSheet)
		reports.GET("/income-statement", h.getIncomeStatement)
		reports.GET("/cash-flow", h.getCashFlow)
	}
}

// optionalDate parses a YYYY-MM-DD query parameter. An absent parameter yields nil.
func optionalDate(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := dto.ParseDate(raw)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s must be a date in YYYY-MM-DD format", key))
	}
	return &d, nil
}

// requiredDate is optionalDate that fails when the parameter is absent.
func requiredDate(c *gin.Context, key string) (time.Time, error) {
	d, err := optionalDate(c, key)
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return time.Time{}, apperrors.NewValidationError(key + " is required")
	}
	return *d, nil
}

// asOfDate reads asOf, defaulting to today.
func (h *reportingHandler) asOfDate(c *gin.Context) (time.Time, error) {
	d, err := optionalDate(c, "asOf")
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return domain.DateOnly(h.now()), nil
	}
	return *d, nil
}

// getTrialBalance godoc
// @Summary Get trial balance
// @Description Active account balances as of a date, split into debit and credit columns
// @Tags reports
// @Produce  json
// @Param   asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Param   type query []string false "Account types to include" collectionFormat(multi)
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 500 {object} map[string]string "Failed to generate trial balance"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	asOf, err := h.asOfDate(c)
	if err != nil {
		respondError(c, err, "Invalid parameters")
		return
	}

	var types []domain.AccountType
	for _, raw := range c.QueryArray("type") {
		t := domain.AccountType(raw)
		if !t.IsValid() {
			respondError(c, apperrors.NewValidationError("unknown account type "+raw), "Invalid parameters")
			return
		}
		types = append(types, t)
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), asOf, types...)
	if err != nil {
		respondError(c, err, "Failed to generate trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}

// getGeneralLedger godoc
// @Summary Get general ledger of an account
// @Description Posted lines of one account in creation order with running balances
// @Tags reports
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.GeneralLedgerResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /reports/general-ledger/{accountID} [get]
func (h *reportingHandler) getGeneralLedger(c *gin.Context) {
	from, err := optionalDate(c, "from")
	if err != nil {
		respondError(c, err, "Invalid parameters")
		return
	}
	to, err := optionalDate(c, "to")
	if err != nil {
		respondError(c, err, "Invalid parameters")
		return
	}

	report, err := h.reportingService.GeneralLedger(c.Request.Context(), c.Param("accountID"), from, to)
	if err != nil {
		respondError(c, err, "Failed to generate general ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToGeneralLedgerResponse(report))
}

// getBalanceSheet godoc
// @Summary Get balance sheet
// @Description Assets, liabilities and equity as of a date. Net income to date is folded into equity.
// @Tags reports
// @Produce  json
// @Param   asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 500 {object} map[string]string "Failed to generate balance sheet"
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	asOf, err := h.asOfDate(c)
	if err != nil {
		respondError(c, err, "Invalid parameters")
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err, "Failed to generate balance sheet")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report))
}

// getIncomeStatement godoc
// @Summary Get income statement
// @Description Revenue and expense activity within a period
// @Tags reports
// @Produce  json
// @Param   from query string true "Start date (YYYY-MM-DD)"
// @Param   to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.IncomeStatementResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 500 {object} map[string]string "Failed to generate income statement"
// @Security BearerAuth
// @Router /reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	from, to, ok := h.period(c)
	if !ok {
		return
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err, "Failed to generate income statement")
		return
	}
	c.JSON(http.StatusOK, dto.ToIncomeStatementResponse(report))
}

// getCashFlow godoc
// @Summary Get cash flow statement
// @Description Direct-method cash flow grouped into operating, investing and financing activities
// @Tags reports
// @Produce  json
// @Param   from query string true "Start date (YYYY-MM-DD)"
// @Param   to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.CashFlowResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 500 {object} map[string]string "Failed to generate cash flow statement"
// @Security BearerAuth
// @Router /reports/cash-flow [get]
func (h *reportingHandler) getCashFlow(c *gin.Context) {
	from, to, ok := h.period(c)
	if !ok {
		return
	}

	report, err := h.reportingService.CashFlow(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err, "Failed to generate cash flow statement")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashFlowResponse(report))
}

func (h *reportingHandler) period(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := requiredDate(c, "from")
	if err != nil {
		respondError(c, err, "Invalid parameters")
		return time.Time{}, time.Time{}, false
	}
	to, err := requiredDate(c, "to")
	if err != nil {
		respondError(c, err, "Invalid parameters")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
