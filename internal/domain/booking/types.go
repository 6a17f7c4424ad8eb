package booking

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusCheckedOut Status = "CHECKED_OUT"
	StatusCancelled  Status = "CANCELLED"
	StatusNoShow     Status = "NO_SHOW"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the booking no longer blocks availability.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusNoShow
}

// BlocksAvailability reports whether a booking in this status occupies its
// unit for the stay range.
func (s Status) BlocksAvailability() bool {
	return !s.IsTerminal()
}

type PaymentStatus string

const (
	PaymentInitiated        PaymentStatus = "INITIATED"
	PaymentAwaitingTransfer PaymentStatus = "AWAITING_TRANSFER"
	PaymentCaptured         PaymentStatus = "CAPTURED"
	PaymentRefunded         PaymentStatus = "REFUNDED"
)

type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCard || m == PaymentMethodBankTransfer
}

// InitialPaymentStatus derives the payment status a fresh booking starts in.
// Bank transfers settle out of band, everything else starts an online flow.
func (m PaymentMethod) InitialPaymentStatus() PaymentStatus {
	if m == PaymentMethodBankTransfer {
		return PaymentAwaitingTransfer
	}
	return PaymentInitiated
}
