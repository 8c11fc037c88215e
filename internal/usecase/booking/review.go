package booking

import (
	"context"
	"fmt"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/events"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ReviewInput struct {
	Rating  int
	Comment string
}

type AddReview struct {
	d Deps
}

func NewAddReview(d Deps) *AddReview {
	return &AddReview{d: d}
}

func (uc *AddReview) Execute(
	ctx context.Context,
	actor domain.Actor,
	id uint,
	in ReviewInput,
) (*models.Booking, error) {

	b, err := uc.d.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := domain.RequireOwner(actor, b); err != nil {
		return nil, err
	}

	review, err := domain.NewReview(b, in.Rating, in.Comment, uc.d.now())
	if err != nil {
		return nil, err
	}

	// conditional write: a concurrent first review wins
	saved, err := uc.d.Repo.SaveReview(ctx, b.ID, review)
	if err != nil {
		return nil, err
	}
	if !saved {
		return nil, httperr.ErrAlreadyReviewed
	}
	b.Review = review

	if err := uc.refreshRating(ctx, b.StylistID); err != nil {
		uc.d.Logger.Error().Err(err).Uint("stylist_id", b.StylistID).Msg("stylist rating refresh failed")
	}

	uc.d.dispatch(actor, "booking_reviewed", b, map[string]any{"rating": in.Rating})
	uc.d.publish(ctx, events.BookingReviewed, b)

	return b, nil
}

// refreshRating recomputes the aggregate from every reviewed booking of the
// stylist while holding the rating lock.
func (uc *AddReview) refreshRating(ctx context.Context, stylistID uint) error {
	unlock, err := uc.d.Locker.Lock(ctx, lock.RatingKey(stylistID))
	if err != nil {
		return fmt.Errorf("lock rating: %w", err)
	}
	defer unlock()

	ratings, err := uc.d.Repo.ListReviewRatings(ctx, stylistID)
	if err != nil {
		return err
	}

	return uc.d.Repo.UpdateStylistRating(ctx, stylistID, domain.AverageRating(ratings), len(ratings))
}
