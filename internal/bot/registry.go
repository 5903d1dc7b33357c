package bot

import (
	"FleetFuel/internal/core/ports"
	"FleetFuel/internal/core/services"

	"github.com/rs/zerolog"
)

// Dependencies is everything a handler constructor may need.
// Built once in main.go.
type Dependencies struct {
	Users     *services.UserService
	Fleet     *services.FleetService
	Messaging *services.MessagingService
	Admins    ports.AdminRegistry
	Sessions  ports.SessionStore
	BotClient ports.BotClientPort
	Logger    *zerolog.Logger
}

// --- Define types for handler "constructors" ---
// This allows us to pass dependencies from main.go

type ActionHandlerConstructor func(deps Dependencies) ports.ActionHandler

// SubscriberConstructor wires event bus subscriptions.
type SubscriberConstructor func(deps Dependencies, bus ports.EventBus)

// --- Create the global registries ---

var (
	actionRegistry     []ActionHandlerConstructor
	subscriberRegistry []SubscriberConstructor
)

// RegisterAction is called by handlers in their init() function
func RegisterAction(constructor ActionHandlerConstructor) {
	actionRegistry = append(actionRegistry, constructor)
}

// RegisterSubscriber is called by event listeners in their init() function
func RegisterSubscriber(constructor SubscriberConstructor) {
	subscriberRegistry = append(subscriberRegistry, constructor)
}

// RegisterAllHandlers is the single function called by main.go
// It builds all registered handlers and passes them to the router.
func RegisterAllHandlers(router *Router, bus ports.EventBus, deps Dependencies) {
	log := deps.Logger.With().Str("component", "handler_registry").Logger()

	for _, constructor := range actionRegistry {
		router.Register(constructor(deps))
	}
	for _, constructor := range subscriberRegistry {
		constructor(deps, bus)
	}

	log.Info().
		Int("actions", len(actionRegistry)).
		Int("subscribers", len(subscriberRegistry)).
		Msg("Handlers registered")
}
