package conduct

import "github.com/zoobzio/capitan"

// Dispatch signals.
var (
	// CoordinatorSealed is emitted when a Coordinator accepts its first
	// notification and closes field registration.
	CoordinatorSealed = capitan.NewSignal(
		"conduct.coordinator.sealed",
		"Field registration closed, dispatch begun",
	)

	// NotificationReceived is emitted when a notification enters the queue,
	// whether from a user action or a cascade.
	NotificationReceived = capitan.NewSignal(
		"conduct.notification.received",
		"Notification entered the dispatch queue",
	)

	// RuleMatched is emitted for each rule evaluated during a dispatch.
	RuleMatched = capitan.NewSignal(
		"conduct.rule.matched",
		"Rule matched a notification",
	)

	// CommandApplied is emitted when an applied command changed field state.
	CommandApplied = capitan.NewSignal(
		"conduct.command.applied",
		"Command changed field state",
	)

	// DispatchCompleted is emitted when one notification has been fully
	// processed, carrying the size of the applied command batch.
	DispatchCompleted = capitan.NewSignal(
		"conduct.dispatch.completed",
		"Notification fully processed",
	)

	// CascadeExceeded is emitted when a cascade passes the depth bound and
	// the dispatch is abandoned.
	CascadeExceeded = capitan.NewSignal(
		"conduct.cascade.exceeded",
		"Cascade depth bound exceeded",
	)
)

// Loader lifecycle signals.
var (
	// LoaderStarted is emitted when a Loader begins watching.
	LoaderStarted = capitan.NewSignal(
		"conduct.loader.started",
		"Loader watching started",
	)

	// LoaderStopped is emitted when a Loader stops watching.
	LoaderStopped = capitan.NewSignal(
		"conduct.loader.stopped",
		"Loader watching stopped",
	)

	// LoaderStateChanged is emitted when a Loader transitions between states.
	LoaderStateChanged = capitan.NewSignal(
		"conduct.loader.state.changed",
		"Loader state transition",
	)
)

// Definition processing signals.
var (
	// DefinitionReceived is emitted when raw definition bytes arrive from
	// the watcher.
	DefinitionReceived = capitan.NewSignal(
		"conduct.definition.received",
		"Raw definition received from watcher",
	)

	// DecodeFailed is emitted when definition bytes cannot be decoded.
	DecodeFailed = capitan.NewSignal(
		"conduct.definition.decode.failed",
		"Definition decode failed",
	)

	// ValidationFailed is emitted when a decoded definition is invalid.
	ValidationFailed = capitan.NewSignal(
		"conduct.definition.validation.failed",
		"Definition validation failed",
	)

	// BuildFailed is emitted when the rebuild pipeline fails.
	BuildFailed = capitan.NewSignal(
		"conduct.definition.build.failed",
		"Form rebuild failed",
	)

	// BuildSucceeded is emitted when a definition is successfully applied.
	BuildSucceeded = capitan.NewSignal(
		"conduct.definition.build.succeeded",
		"Form rebuilt successfully",
	)
)
