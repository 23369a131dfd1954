package extract

import (
	"github.com/hyperifyio/profilecapture/internal/dom"
	"github.com/hyperifyio/profilecapture/internal/profile"
)

// Extractor defines a minimal interface for profile extraction strategies.
// Implementations can swap selector tables or tactics without changing callers.
type Extractor interface {
	// Extract reads doc and returns a best-effort result. It must not modify
	// the document, must be deterministic and must never panic.
	Extract(doc dom.Document) Result
}

// Result is everything one extraction pass hands to downstream collaborators.
type Result struct {
	Snapshot         profile.Snapshot
	CanonicalURL     string
	PublicIdentifier string
	// FlattenedText is the newline-joined plain rendering of Snapshot.
	FlattenedText string
}
