// Package event defines the engine's notification topics and payloads.
//
// The engine does not log; conditions a host cares about are published as
// events: completed expansions for usage tracking, advisories for
// user-visible messages, and dictionary reloads.
package event

import "time"

// Topic identifies an event stream.
type Topic string

// Engine event topics.
const (
	// TopicExpansionCompleted is published after a successful expansion.
	// Payload: Usage.
	TopicExpansionCompleted Topic = "expand.completed"

	// TopicExpansionUndone is published after a successful undo.
	// Payload: Usage.
	TopicExpansionUndone Topic = "expand.undone"

	// TopicAdvisory is published for user-visible advisory messages.
	// Payload: Advisory.
	TopicAdvisory Topic = "expand.advisory"

	// TopicDictionaryReloaded is published when dictionary files change
	// on disk. Payload: DictionaryReload.
	TopicDictionaryReloaded Topic = "dictionary.reloaded"
)

// Usage is the fire-and-forget notification emitted after a successful
// expansion. No response is expected and delivery is not retried.
type Usage struct {
	Trigger string    // Trigger key that expanded
	Domain  string    // Originating domain
	Tokens  int       // Advisory token estimate of the expanded content
	Time    time.Time // When the expansion completed
}

// AdvisoryKind classifies advisory messages.
type AdvisoryKind string

// Advisory kinds.
const (
	AdvisoryTokenBudget     AdvisoryKind = "token_budget"
	AdvisoryNothingToUndo   AdvisoryKind = "nothing_to_undo"
	AdvisorySurfaceDetached AdvisoryKind = "surface_detached"
)

// Advisory is a user-visible advisory message. Advisories never affect
// correctness; hosts may ignore them.
type Advisory struct {
	Kind    AdvisoryKind
	Message string
}

// DictionaryReload reports a dictionary change picked up from disk.
type DictionaryReload struct {
	Path      string // File that changed
	Snippets  int    // Snippet count after reload
	Templates int    // Template count after reload
}
