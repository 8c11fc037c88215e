package booking

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(b *models.Booking, now time.Time) error {
	if err := CanConfirm(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusConfirmed)
	if b.ConfirmedAt == nil {
		b.ConfirmedAt = &now
	}
	return nil
}

func Start(b *models.Booking, now time.Time) error {
	if err := CanStart(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusInProgress)
	b.StartedAt = &now
	return nil
}

func Complete(b *models.Booking, now time.Time) error {
	if err := CanComplete(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCompleted)
	b.CompletedAt = &now
	return nil
}

func Cancel(b *models.Booking, reason string, by string, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCancelled)
	b.CancellationReason = strings.TrimSpace(reason)
	b.CancelledBy = by
	b.CancelledAt = &now
	return nil
}

func MarkNoShow(b *models.Booking) error {
	if err := CanMarkNoShow(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusNoShow)
	return nil
}

const maxReviewComment = 500

// NewReview validates a review before it is attached. The stored rating is
// only written once; see Repository.SaveReview.
func NewReview(b *models.Booking, rating int, comment string, now time.Time) (models.Review, error) {
	if err := CanReview(Status(b.Status)); err != nil {
		return models.Review{}, err
	}
	if b.Review.Rating != nil {
		return models.Review{}, httperr.ErrAlreadyReviewed
	}
	if rating < 1 || rating > 5 {
		return models.Review{}, httperr.ValidationErr("invalid_rating", "rating must be between 1 and 5")
	}
	comment = strings.TrimSpace(comment)
	if len([]rune(comment)) > maxReviewComment {
		return models.Review{}, httperr.ValidationErr("comment_too_long", "comment must be at most 500 characters")
	}

	r := rating
	return models.Review{Rating: &r, Comment: comment, Date: &now}, nil
}
