package types

// Event is a named message exchanged with the navigation service.
type Event string

func (e Event) String() string {
	return string(e)
}

// Outbound, client → server.
const (
	EventRegisterUser   Event = "registerUser"
	EventUpdateLocation Event = "updateLocation"
	EventStartTrip      Event = "startTrip"
	EventEndTrip        Event = "endTrip"
)

// Inbound, server → client.
const (
	EventRetryRegistration Event = "retryRegistration"
	EventTripPath          Event = "tripPath"
)

// NavigationEvent is the kind of a state change published or persisted by the agent.
type NavigationEvent string

func (e NavigationEvent) String() string {
	return string(e)
}

const (
	NavLoadingStarted NavigationEvent = "LOADING_STARTED"
	NavLoadingStopped NavigationEvent = "LOADING_STOPPED"
	NavRouteReceived  NavigationEvent = "ROUTE_RECEIVED"
)
