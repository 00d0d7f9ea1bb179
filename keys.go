package conduct

import "github.com/zoobzio/capitan"

// Field keys for dispatch and loader events.
var (
	// KeyField is the ID of the field a signal concerns.
	KeyField = capitan.NewStringKey("field")

	// KeyEvent is the event kind of a notification.
	KeyEvent = capitan.NewStringKey("event")

	// KeySeq is the sequence number of a notification.
	KeySeq = capitan.NewIntKey("seq")

	// KeyDepth is the cascade depth of a notification.
	KeyDepth = capitan.NewIntKey("depth")

	// KeyAttribute is the attribute a command mutated.
	KeyAttribute = capitan.NewStringKey("attribute")

	// KeyCommands is the number of commands in a dispatch batch.
	KeyCommands = capitan.NewIntKey("commands")

	// KeyFields is the number of fields registered when a Coordinator seals.
	KeyFields = capitan.NewIntKey("fields")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyForm is the name of the form definition being processed.
	KeyForm = capitan.NewStringKey("form")

	// KeyOldState is the previous Loader state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new Loader state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyDebounce is the configured debounce duration of a Loader.
	KeyDebounce = capitan.NewDurationKey("debounce")
)
