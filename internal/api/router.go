// Package api exposes the event and booking services over HTTP.
package api

import (
	bookingshandler "eventbook/internal/bookings/handler"
	eventshandler "eventbook/internal/events/handler"
	"eventbook/internal/registry"
	"eventbook/pkg/contracts"
	"eventbook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type Routes struct {
	handlers []contracts.Handler
}

// NewRoutes registers the /api/v1 resources backed by reg.
func NewRoutes(reg *registry.Registry, log *logger.Logger) *Routes {
	return &Routes{
		handlers: []contracts.Handler{
			eventshandler.NewEventHandler(reg.Events(), log.Component("events")),
			bookingshandler.NewBookingHandler(reg.Bookings(), reg.Events(), log.Component("bookings")),
		},
	}
}

func (rt *Routes) RegisterRoutes(router *httprouter.Router) {
	for _, h := range rt.handlers {
		h.RegisterRoutes(router)
	}
}
