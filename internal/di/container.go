// Package di provides dependency injection configuration for the VenueTable server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/venuetable/venuetable-server/internal/config"
	"github.com/venuetable/venuetable-server/internal/di/providers"
	"github.com/venuetable/venuetable-server/internal/logger"
	"github.com/venuetable/venuetable-server/internal/scroll"
	"github.com/venuetable/venuetable-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)

	// Scroll synchronization
	do.Provide(injector, providers.ProvideScrollCoordinator)

	// Business services
	do.Provide(injector, providers.ProvideVenueService)
	do.Provide(injector, providers.ProvideBookingService)
	do.Provide(injector, providers.ProvideTimetableService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*scroll.Coordinator](injector)

	// Business services
	_ = do.MustInvoke[*service.VenueService](injector)
	_ = do.MustInvoke[*service.BookingService](injector)
	_ = do.MustInvoke[*service.TimetableService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
