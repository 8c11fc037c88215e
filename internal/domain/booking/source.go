package booking

const (
	SourceWebsite   = "website"
	SourcePhone     = "phone"
	SourceWalkIn    = "walk-in"
	SourceAdmin     = "admin"
	SourceRecurring = "recurring"
	SourceWaitlist  = "waitlist"
)

func ValidSource(s string) bool {
	switch s {
	case SourceWebsite, SourcePhone, SourceWalkIn, SourceAdmin, SourceRecurring, SourceWaitlist:
		return true
	}
	return false
}

// Generated bookings come from an already validated rule or offer, so
// they may land on the current day.
func RequiresFutureDate(source string) bool {
	return source != SourceRecurring && source != SourceWaitlist
}

const (
	PaymentPending      = "pending"
	PaymentCard         = "card"
	PaymentBankTransfer = "bank_transfer"
	PaymentCash         = "cash"
)

func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentPending, PaymentCard, PaymentBankTransfer, PaymentCash:
		return true
	}
	return false
}
