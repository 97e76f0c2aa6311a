package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/app/views"
	"github.com/yigit/campusdesk/internal/middleware"
)

// FacilityController handles resource bookings
type FacilityController struct {
	sessions Sessions
	validate *validator.Validate
}

// NewFacilityController creates a new FacilityController
func NewFacilityController(sessions Sessions, validate *validator.Validate) *FacilityController {
	return &FacilityController{
		sessions: sessions,
		validate: validate,
	}
}

// ResourceBookings lists the bookings of a resource
// @Summary Bookings of a resource
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resource ID"
// @Success 200 {object} dto.StructuredResponse{data=[]models.Booking}
// @Router /resources/{id}/bookings [get]
func (c *FacilityController) ResourceBookings(ctx *gin.Context) {
	facilities := sessionStores(ctx, c.sessions).Facilities
	if err := hydrate(ctx.Request.Context(), facilities.Bookings); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	bookings := views.BookingsForResource(facilities.Bookings.Items(), ctx.Param("id"))
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(bookings, ""))
}

// BookingCost returns the cost of a booking
// @Summary Cost of a booking
// @Description Stored cost, or hourly rate times duration when none was stored
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.StructuredResponse{data=string}
// @Failure 404 {object} dto.ErrorResponse "Booking not found"
// @Router /bookings/{id}/cost [get]
func (c *FacilityController) BookingCost(ctx *gin.Context) {
	facilities := sessionStores(ctx, c.sessions).Facilities
	reqCtx := ctx.Request.Context()
	if err := hydrate(reqCtx, facilities.Resources); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	booking, ok := facilities.Bookings.Find(ctx.Param("id"))
	if !ok {
		res := facilities.Bookings.FetchOne(reqCtx, ctx.Param("id"))
		if !res.Success {
			middleware.HandleAPIError(ctx, res.Err)
			return
		}
		booking = *res.Data
	}

	cost := views.BookingCost(booking, views.NewIndex(facilities.Resources.Items()))
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(cost.StringFixed(2), ""))
}

// UpdateStatus moves a booking through its lifecycle
// @Summary Change booking status
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body dto.BookingStatusRequest true "New status"
// @Success 200 {object} dto.StructuredResponse{data=models.Booking}
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Router /bookings/{id}/status [patch]
func (c *FacilityController) UpdateStatus(ctx *gin.Context) {
	var req dto.BookingStatusRequest
	if !middleware.BindJSON(ctx, &req, c.validate) {
		return
	}
	status := models.BookingStatus(req.Status)
	respond(ctx, http.StatusOK, sessionStores(ctx, c.sessions).Facilities.UpdateBookingStatus(ctx.Request.Context(), ctx.Param("id"), status))
}
