package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/app/views"
	"github.com/yigit/campusdesk/internal/middleware"
)

// BillingController handles student charges
type BillingController struct {
	sessions Sessions
	now      func() time.Time
}

// NewBillingController creates a new BillingController
func NewBillingController(sessions Sessions) *BillingController {
	return &BillingController{
		sessions: sessions,
		now:      time.Now,
	}
}

// StudentBalance returns what a student still owes
// @Summary Outstanding balance of a student
// @Description Sum of pending and overdue charges
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.StructuredResponse{data=dto.BalanceResponse}
// @Failure 503 {object} dto.ErrorResponse "Backend unavailable"
// @Router /students/{id}/balance [get]
func (c *BillingController) StudentBalance(ctx *gin.Context) {
	billing := sessionStores(ctx, c.sessions).Billing
	if err := hydrate(ctx.Request.Context(), billing.Billing); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	studentID := ctx.Param("id")
	total, charges := views.OutstandingBalance(billing.Billing.Items(), studentID)
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.BalanceResponse{
		StudentID:   studentID,
		Outstanding: total.StringFixed(2),
		Charges:     charges,
	}, ""))
}

// MarkPaid records a payment
// @Summary Mark a charge as paid
// @Tags billing
// @Produce json
// @Security BearerAuth
// @Param id path string true "Billing ID"
// @Success 200 {object} dto.StructuredResponse{data=models.Billing}
// @Failure 404 {object} dto.ErrorResponse "Charge not found"
// @Router /billing/{id}/pay [post]
func (c *BillingController) MarkPaid(ctx *gin.Context) {
	billing := sessionStores(ctx, c.sessions).Billing
	respond(ctx, http.StatusOK, billing.MarkPaid(ctx.Request.Context(), ctx.Param("id"), c.now()))
}
