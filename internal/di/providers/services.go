package providers

import (
	"github.com/samber/do/v2"

	"github.com/venuetable/venuetable-server/internal/logger"
	"github.com/venuetable/venuetable-server/internal/scroll"
	"github.com/venuetable/venuetable-server/internal/service"
)

// ProvideVenueService provides the venue service.
func ProvideVenueService(i do.Injector) (*service.VenueService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewVenueService(storeHandle.Store, log.Logger), nil
}

// ProvideBookingService provides the booking service.
func ProvideBookingService(i do.Injector) (*service.BookingService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookingService(storeHandle.Store, log.Logger), nil
}

// ProvideTimetableService provides the timetable service.
func ProvideTimetableService(i do.Injector) (*service.TimetableService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	venueService := do.MustInvoke[*service.VenueService](i)
	coord := do.MustInvoke[*scroll.Coordinator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTimetableService(storeHandle.Store, venueService, coord, log.Logger), nil
}
