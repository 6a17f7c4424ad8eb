package httperr

import (
	"github.com/gin-gonic/gin"
)

// Machine-readable error codes. Clients branch on these, not on messages.
const (
	CodeBrandUnknown           = "BRAND_UNKNOWN"
	CodeWriterLockViolation    = "WRITER_LOCK_VIOLATION"
	CodeUnitNotFound           = "UNIT_NOT_FOUND"
	CodeBookingNotFound        = "BOOKING_NOT_FOUND"
	CodeBookingConflict        = "BOOKING_CONFLICT"
	CodeInvalidStay            = "INVALID_STAY"
	CodeNightsOutOfRange       = "NIGHTS_OUT_OF_RANGE"
	CodeIdempotencyKeyRequired = "IDEMPOTENCY_KEY_REQUIRED"
	CodeIdempotencyKeyReused   = "IDEMPOTENCY_KEY_REUSED"
	CodeRequestInProgress      = "REQUEST_IN_PROGRESS"
	CodeValidationFailed       = "VALIDATION_FAILED"
	CodeInvalidRequest         = "INVALID_REQUEST"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeInternal               = "INTERNAL_ERROR"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, code, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Code = code
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
