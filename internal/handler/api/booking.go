package api

import (
	"errors"
	"net/http"

	reqdto "stayhub/internal/handler/dto/request"
	resdto "stayhub/internal/handler/dto/response"
	"stayhub/internal/handler/httperr"
	"stayhub/internal/usecase/commands"
	"stayhub/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const idempotencyKeyMinLen = 8

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Create booking
// @Description Create a booking for an integrated brand, idempotent per key
// @Tags bookings
// @Accept json
// @Produce json
// @Param Idempotency-Key header string true "Client-supplied idempotency key, at least 8 characters"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse "Replays repeat the original status and body from the idempotency cache"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	idempotencyKey := c.GetHeader("Idempotency-Key")
	if len(idempotencyKey) < idempotencyKeyMinLen {
		httperr.AbortWithError(c, http.StatusBadRequest,
			errors.New("missing or short idempotency key"),
			httperr.CodeIdempotencyKeyRequired,
			"Idempotency-Key header with at least 8 characters is required", nil)
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			httperr.CodeInvalidRequest, "Invalid request format", nil)
		return
	}

	result, err := h.bookingCommands.CreateBooking(c.Request.Context(), req.ToParams(idempotencyKey))
	if err != nil {
		h.abortCreateError(c, err)
		return
	}

	// Replays serve the stored status and body untouched so both responses
	// are byte-identical.
	c.Data(result.Status, "application/json; charset=utf-8", result.RawResponse)
}

func (h *BookingHandler) abortCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrBrandUnknown):
		httperr.AbortWithError(c, http.StatusNotFound, err,
			httperr.CodeBrandUnknown, "Brand is not configured on this hub", nil)
	case errors.Is(err, commands.ErrWriterLockViolation):
		var wlErr *commands.WriterLockError
		var detail any
		if errors.As(err, &wlErr) {
			detail = gin.H{"brand": wlErr.Brand, "mode": wlErr.Mode, "writer": wlErr.Writer}
		}
		httperr.AbortWithError(c, http.StatusConflict, err,
			httperr.CodeWriterLockViolation, "Bookings for this brand are written by an external system", detail)
	case errors.Is(err, commands.ErrUnitNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err,
			httperr.CodeUnitNotFound, "Unit not found", nil)
	case errors.Is(err, commands.ErrInvalidStay):
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			httperr.CodeInvalidStay, "Check-out must be after check-in", nil)
	case errors.Is(err, commands.ErrNightsOutOfRange):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err,
			httperr.CodeNightsOutOfRange, "Stay length is outside the brand's allowed range", nil)
	case errors.Is(err, commands.ErrBookingConflict):
		httperr.AbortWithError(c, http.StatusConflict, err,
			httperr.CodeBookingConflict, "Unit is not available for the requested dates", nil)
	case errors.Is(err, commands.ErrIdempotencyKeyReuse):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err,
			httperr.CodeIdempotencyKeyReused, "Idempotency key was already used with a different payload", nil)
	case errors.Is(err, commands.ErrIdempotencyInProgress):
		httperr.AbortWithError(c, http.StatusConflict, err,
			httperr.CodeRequestInProgress, "The same request is currently being processed", nil)
	case errors.Is(err, commands.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err,
			httperr.CodeValidationFailed, "Request failed domain validation", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err,
			httperr.CodeInternal, "Internal server error", nil)
	}
}

// @Summary Get booking
// @Description Get booking by ID
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			httperr.CodeInvalidRequest, "Invalid booking ID format", nil)
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrBookingNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err,
				httperr.CodeBookingNotFound, "Booking not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err,
			httperr.CodeInternal, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List bookings by guest
// @Description List bookings for a guest email, newest first
// @Tags bookings
// @Produce json
// @Param guest_email query string true "Guest email"
// @Success 200 {array} resdto.BookingListResponse
// @Failure 400 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	email := c.Query("guest_email")
	if email == "" {
		httperr.AbortWithError(c, http.StatusBadRequest,
			errors.New("missing guest_email"),
			httperr.CodeInvalidRequest, "guest_email query parameter is required", nil)
		return
	}

	items, err := h.bookingQueries.ListByGuestEmail(c.Request.Context(), email, 50)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err,
			httperr.CodeInternal, "Internal server error", nil)
		return
	}

	response := make([]*resdto.BookingListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromBookingListItem(item)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Cancel booking
// @Description Cancel a booking that has not checked in yet
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			httperr.CodeInvalidRequest, "Invalid booking ID format", nil)
		return
	}

	if err := h.bookingCommands.CancelBooking(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err,
				httperr.CodeBookingNotFound, "Booking not found", nil)
		case errors.Is(err, commands.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err,
				httperr.CodeValidationFailed, "Booking cannot be cancelled in its current state", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err,
				httperr.CodeInternal, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Quote a stay
// @Description Price and availability for a unit and date range, any brand
// @Tags quotes
// @Produce json
// @Param brand query string true "Brand name"
// @Param unit_id query string true "Unit ID"
// @Param check_in query string true "Check-in date (YYYY-MM-DD)"
// @Param check_out query string true "Check-out date (YYYY-MM-DD)"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /quotes [get]
func (h *BookingHandler) Quote(c *gin.Context) {
	var req reqdto.QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			httperr.CodeInvalidRequest, "Invalid quote parameters", nil)
		return
	}

	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err,
			httperr.CodeInvalidRequest, "Invalid unit ID format", nil)
		return
	}

	view, err := h.bookingQueries.Quote(c.Request.Context(), req.Brand, unitID, req.CheckIn, req.CheckOut)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrBrandUnknown):
			httperr.AbortWithError(c, http.StatusNotFound, err,
				httperr.CodeBrandUnknown, "Brand is not configured on this hub", nil)
		case errors.Is(err, queries.ErrUnitNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err,
				httperr.CodeUnitNotFound, "Unit not found", nil)
		case errors.Is(err, queries.ErrInvalidStay):
			httperr.AbortWithError(c, http.StatusBadRequest, err,
				httperr.CodeInvalidStay, "Check-out must be after check-in", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err,
				httperr.CodeInternal, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromQuoteView(view))
}
