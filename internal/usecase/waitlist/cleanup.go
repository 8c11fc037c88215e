package waitlist

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/waitlist"
	"github.com/BruksfildServices01/barber-booking/internal/events"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type CleanupResult struct {
	Expired  int `json:"expired"`
	Released int `json:"released"`
}

// Cleanup expires entries past their TTL and returns entries whose offer
// went unanswered to the pool.
type Cleanup struct {
	d Deps
}

func NewCleanup(d Deps) *Cleanup {
	return &Cleanup{d: d}
}

func (uc *Cleanup) Execute(ctx context.Context) (CleanupResult, error) {
	var res CleanupResult
	now := uc.d.now()

	expired, err := uc.d.Repo.ListExpired(ctx, now)
	if err != nil {
		return res, err
	}
	for _, stale := range expired {
		ok, err := uc.apply(ctx, stale.ID, func(e *models.WaitlistEntry) bool {
			switch domain.Status(e.Status) {
			case domain.StatusActive, domain.StatusNotified:
			default:
				return false
			}
			if !domain.Expired(e, now) {
				return false
			}
			domain.ReleaseOffer(e, "expired")
			e.Status = string(domain.StatusExpired)
			e.Position = 0
			e.EstimatedWaitHours = 0
			return true
		})
		if err != nil {
			return res, err
		}
		if ok {
			res.Expired++
		}
	}

	lapsed, err := uc.d.Repo.ListLapsedOffers(ctx, now.Add(-domain.ResponseWindow))
	if err != nil {
		return res, err
	}
	for _, stale := range lapsed {
		ok, err := uc.apply(ctx, stale.ID, func(e *models.WaitlistEntry) bool {
			if !domain.OfferLapsed(e, now) {
				return false
			}
			domain.ReleaseOffer(e, "no_response")
			return true
		})
		if err != nil {
			return res, err
		}
		if ok {
			res.Released++
		}
	}

	uc.d.Logger.Info().
		Int("expired", res.Expired).
		Int("released", res.Released).
		Msg("waitlist cleanup")

	return res, nil
}

// apply runs change under the group lock and saves the entry when change
// reports it did something.
func (uc *Cleanup) apply(ctx context.Context, id uint, change func(*models.WaitlistEntry) bool) (bool, error) {
	e, unlock, err := uc.d.lockEntry(ctx, id)
	if err != nil {
		return false, err
	}
	defer unlock()

	if !change(e) {
		return false, nil
	}
	if err := uc.d.Repo.Update(ctx, e); err != nil {
		return false, err
	}
	if _, err := uc.d.rerank(ctx, e.ServiceID, e.StylistID); err != nil {
		return false, err
	}

	if domain.Status(e.Status) == domain.StatusExpired {
		uc.d.dispatch(systemActor, "waitlist_expired", e, nil)
		uc.d.publish(ctx, events.WaitlistExpired, e)
	}
	return true, nil
}
