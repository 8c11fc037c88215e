package notify

import (
	"fmt"
	"html"

	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

const shopName = "Elite Barber Shop"

func bookingDetails(b *models.Booking) string {
	return fmt.Sprintf(`
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Stylist:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
			<li><strong>Duration:</strong> %d min</li>
			<li><strong>Price:</strong> $%.2f</li>
			<li><strong>Confirmation code:</strong> %s</li>
		</ul>`,
		html.EscapeString(b.ServiceSnapshot.Name),
		html.EscapeString(b.StylistSnapshot.Name),
		timezone.DateKey(b.Date),
		b.Time,
		b.ServiceSnapshot.Duration,
		b.ServiceSnapshot.Price,
		b.ConfirmationCode,
	)
}

func BookingReceived(b *models.Booking) Message {
	return Message{
		To:      b.Customer.Email,
		Subject: fmt.Sprintf("%s: booking received (%s)", shopName, b.ConfirmationCode),
		HTML: fmt.Sprintf(`<p>Hi %s,</p><p>We received your booking.</p>%s<p>See you soon!</p>`,
			html.EscapeString(b.Customer.Name), bookingDetails(b)),
	}
}

func NewBookingForStylist(b *models.Booking, stylistEmail string) Message {
	return Message{
		To:      stylistEmail,
		Subject: fmt.Sprintf("New booking on %s at %s", timezone.DateKey(b.Date), b.Time),
		HTML: fmt.Sprintf(`<p>New booking from %s (%s).</p>%s`,
			html.EscapeString(b.Customer.Name), html.EscapeString(b.Customer.Phone), bookingDetails(b)),
	}
}

func BookingConfirmed(b *models.Booking) Message {
	return Message{
		To:      b.Customer.Email,
		Subject: fmt.Sprintf("%s: booking confirmed (%s)", shopName, b.ConfirmationCode),
		HTML: fmt.Sprintf(`<p>Hi %s,</p><p>Your stylist confirmed the booking.</p>%s`,
			html.EscapeString(b.Customer.Name), bookingDetails(b)),
	}
}

func BookingCancelled(b *models.Booking) Message {
	reason := b.CancellationReason
	if reason == "" {
		reason = "no reason given"
	}
	return Message{
		To:      b.Customer.Email,
		Subject: fmt.Sprintf("%s: booking cancelled (%s)", shopName, b.ConfirmationCode),
		HTML: fmt.Sprintf(`<p>Hi %s,</p><p>Your booking was cancelled: %s.</p>%s`,
			html.EscapeString(b.Customer.Name), html.EscapeString(reason), bookingDetails(b)),
	}
}

func WaitlistOffer(e *models.WaitlistEntry, serviceName string, slot models.OfferedSlot, deadlineHours int) Message {
	return Message{
		To:      e.Customer.Email,
		Subject: fmt.Sprintf("%s: a slot opened up for %s", shopName, serviceName),
		HTML: fmt.Sprintf(`<p>Hi %s,</p>
<p>A slot matching your waitlist request is available on <strong>%s at %s</strong>.</p>
<p>Reply within %d hours to claim it (waitlist entry #%d).</p>`,
			html.EscapeString(e.Customer.Name),
			timezone.DateKey(slot.Date), slot.Time, deadlineHours, e.ID),
	}
}

func StylistApproved(u *models.User) Message {
	return Message{
		To:      u.Email,
		Subject: fmt.Sprintf("%s: registration approved", shopName),
		HTML: fmt.Sprintf(`<p>Hello %s,</p><p>Your stylist profile is approved and now open for bookings.</p>`,
			html.EscapeString(u.FirstName)),
	}
}

func StylistRejected(u *models.User, reason string) Message {
	body := fmt.Sprintf(`<p>Hello %s,</p><p>Unfortunately, we are unable to approve your registration at this time.</p>`,
		html.EscapeString(u.FirstName))
	if reason != "" {
		body += fmt.Sprintf(`<p><strong>Reason:</strong> %s</p>`, html.EscapeString(reason))
	}
	body += `<p>You are welcome to reapply in the future.</p>`

	return Message{
		To:      u.Email,
		Subject: fmt.Sprintf("%s: registration update", shopName),
		HTML:    body,
	}
}
