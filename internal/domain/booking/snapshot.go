package booking

import "github.com/BruksfildServices01/barber-booking/internal/models"

// SnapshotService copies the quoted service data onto a new booking. The
// copy is never refreshed afterwards.
func SnapshotService(s *models.Service) models.ServiceSnapshot {
	return models.ServiceSnapshot{
		Name:        s.Name,
		Price:       s.Price,
		Duration:    s.DurationMin,
		Description: s.Description,
	}
}

func SnapshotStylist(u *models.User) models.StylistSnapshot {
	return models.StylistSnapshot{
		Name:       u.FullName(),
		Title:      u.Title,
		Experience: u.Experience,
	}
}
