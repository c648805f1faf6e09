package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/member_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/member_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/member_ledger_app/internal/dto"
	"github.com/SscSPs/member_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// eventHandler receives business events from the membership system and records them.
type eventHandler struct {
	recorder portssvc.RecorderSvc
}

func newEventHandler(r portssvc.RecorderSvc) *eventHandler {
	return &eventHandler{recorder: r}
}

// registerEventRoutes registers the event recording endpoints.
func registerEventRoutes(rg *gin.RouterGroup, recorder portssvc.RecorderSvc) {
	h := newEventHandler(recorder)

	events := rg.Group("/events")
	{
		events.POST("/contributions", h.recordContribution)
		events.POST("/payments", h.recordPayment)
		events.POST("/disaster-payments", h.recordDisasterPayment)
		events.POST("/expenses", h.recordExpense)
		events.POST("/loan-disbursements", h.recordLoanDisbursement)
		events.POST("/loan-repayments", h.recordLoanRepayment)
		events.POST("/penalty-payments", h.recordPenaltyPayment)
	}
}

// respondRecorded writes 201 with the posted entry, or 202 when the recorder skipped the event.
func respondRecorded(c *gin.Context, event string, entry *domain.JournalEntry, err error) {
	if err != nil {
		respondError(c, err, "Failed to record "+event)
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if entry == nil {
		logger.Warn("Event not recorded, ledger accounts not configured", slog.String("event", event))
		c.JSON(http.StatusAccepted, dto.EventRecordedResponse{Recorded: false, Reason: "ledger accounts not configured"})
		return
	}
	resp := dto.ToJournalEntryResponse(entry)
	c.JSON(http.StatusCreated, dto.EventRecordedResponse{Recorded: true, Entry: &resp})
}

// recordContribution godoc
// @Summary Record a member contribution
// @Description Debits cash and credits contribution revenue
// @Tags events
// @Accept  json
// @Produce  json
// @Param   event body dto.MemberReceiptRequest true "Contribution"
// @Success 201 {object} dto.EventRecordedResponse
// @Success 202 {object} dto.EventRecordedResponse "Accounts not configured, nothing recorded"
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /events/contributions [post]
func (h *eventHandler) recordContribution(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.MemberReceiptRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.recorder.RecordContribution(c.Request.Context(), req.MemberID, req.Amount, req.Date, req.Purpose, actorID)
	respondRecorded(c, "contribution", entry, err)
}

// recordPayment godoc
// @Summary Record a member payment
// @Description Debits cash and credits payment revenue
// @Tags events
// @Accept  json
// @Produce  json
// @Param   event body dto.MemberReceiptRequest true "Payment"
// @Success 201 {object} dto.EventRecordedResponse
// @Success 202 {object} dto.EventRecordedResponse "Accounts not configured, nothing recorded"
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /events/payments [post]
func (h *eventHandler) recordPayment(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.MemberReceiptRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.recorder.RecordPayment(c.Request.Context(), req.MemberID, req.Amount, req.Date, req.Purpose, actorID)
	respondRecorded(c, "payment", entry, err)
}

// recordDisasterPayment godoc
// @Summary Record a disaster relief payout
// @Tags events
// @Accept  json
// @Produce  json
// @Param   event body dto.DisasterPaymentRequest true "Disaster payment"
// @Success 201 {object} dto.EventRecordedResponse
// @Success 202 {object} dto.EventRecordedResponse "Accounts not configured, nothing recorded"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 422 {object} dto.InsufficientFundsResponse
// @Security BearerAuth
// @Router /events/disaster-payments [post]
func (h *eventHandler) recordDisasterPayment(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.DisasterPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.recorder.RecordDisasterPayment(c.Request.Context(), req.MemberID, req.Amount, req.Date, req.Purpose, actorID)
	respondRecorded(c, "disaster payment", entry, err)
}

// recordExpense godoc
// @Summary Record an approved expense
// @Description Debits the category's expense account and credits cash
// @Tags events
// @Accept  json
// @Produce  json
// @Param   event body dto.ExpenseRequest true "Expense"
// @Success 201 {object} dto.EventRecordedResponse
// @Success 202 {object} dto.EventRecordedResponse "Accounts not configured, nothing recorded"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 422 {object} dto.InsufficientFundsResponse
// @Security BearerAuth
// @Router /events/expenses [post]
func (h *eventHandler) recordExpense(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.ExpenseRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.recorder.RecordExpense(c.Request.Context(), req.Amount, req.Date, req.Category, req.Description, actorID)
	respondRecorded(c, "expense", entry, err)
}

// recordLoanDisbursement godoc
// @Summary Record a loan disbursement
// @Tags events
// @Accept  json
// @Produce  json
// @Param   event body dto.LoanDisbursementRequest true "Loan disbursement"
// @Success 201 {object} dto.EventRecordedResponse
// @Success 202 {object} dto.EventRecordedResponse "Accounts not configured, nothing recorded"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 422 {object} dto.InsufficientFundsResponse
// @Security BearerAuth
// @Router /events/loan-disbursements [post]
func (h *eventHandler) recordLoanDisbursement(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.LoanDisbursementRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.recorder.RecordLoanDisbursement(c.Request.Context(), req.MemberID, req.Amount, req.Purpose, actorID)
	respondRecorded(c, "loan disbursement", entry, err)
}

// recordLoanRepayment godoc
// @Summary Record a loan repayment
// @Description Debits cash for principal plus interest, credits loans receivable and interest income
// @Tags events
// @Accept  json
// @Produce  json
// @Param   event body dto.LoanRepaymentRequest true "Loan repayment"
// @Success 201 {object} dto.EventRecordedResponse
// @Success 202 {object} dto.EventRecordedResponse "Accounts not configured, nothing recorded"
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /events/loan-repayments [post]
func (h *eventHandler) recordLoanRepayment(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.LoanRepaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.recorder.RecordLoanRepayment(c.Request.Context(), req.MemberID, req.Principal, req.Interest, actorID)
	respondRecorded(c, "loan repayment", entry, err)
}

// recordPenaltyPayment godoc
// @Summary Record a penalty payment
// @Tags events
// @Accept  json
// @Produce  json
// @Param   event body dto.PenaltyPaymentRequest true "Penalty payment"
// @Success 201 {object} dto.EventRecordedResponse
// @Success 202 {object} dto.EventRecordedResponse "Accounts not configured, nothing recorded"
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /events/penalty-payments [post]
func (h *eventHandler) recordPenaltyPayment(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.PenaltyPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.recorder.RecordPenaltyPayment(c.Request.Context(), req.MemberID, req.Amount, req.Reason, req.Month, actorID)
	respondRecorded(c, "penalty payment", entry, err)
}
