package listener

type Event struct {
	Type    EventType
	Details string
}

// EventType is mostly for logging; the watch loop treats every type the same.
type EventType string

const (
	ConfigUpdatedEvent EventType = "CONFIG_UPDATED"
	DisplayAddEvent    EventType = "DISPLAY_ADDED"
	DisplayRemoveEvent EventType = "DISPLAY_REMOVED"
)
