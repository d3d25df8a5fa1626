package models

import (
	"time"

	"github.com/google/uuid"
)

// Media item status values.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Media kind values.
const (
	KindAvatar        = "avatar"
	KindProfile       = "profile"
	KindCatalog       = "catalog"
	KindAudioGreeting = "audioGreeting"
)

// ValidKind reports whether kind is one of the supported media kinds.
func ValidKind(kind string) bool {
	switch kind {
	case KindAvatar, KindProfile, KindCatalog, KindAudioGreeting:
		return true
	}
	return false
}

// IsTerminalStatus reports whether status is approved or rejected.
func IsTerminalStatus(status string) bool {
	return status == StatusApproved || status == StatusRejected
}

// Decision sources: who produced a moderation decision.
const (
	ViaManual = "manual"
	ViaAI     = "ai"
)

// Verdict is the normalized result of an AI classification call.
type Verdict struct {
	Approved   bool     `json:"approved"`
	Confidence int      `json:"confidence"`
	Rationale  string   `json:"rationale"`
	Tags       []string `json:"tags"`
}

// Decision event kinds recorded in the per-item audit log.
const (
	DecisionApprove   = "approve"
	DecisionReject    = "reject"
	DecisionUndo      = "undo"
	DecisionAIVerdict = "ai_verdict"
)

// DecisionEvent is one entry in an item's audit log. Every manual action and
// every AI verdict is recorded here, so a late-arriving verdict on an
// already-decided item stays visible instead of silently overwriting state.
type DecisionEvent struct {
	ID      uuid.UUID `json:"id"`
	Kind    string    `json:"kind"`
	Via     string    `json:"via"`
	Note    string    `json:"note,omitempty"`
	Verdict *Verdict  `json:"verdict,omitempty"`
	At      time.Time `json:"at"`
}

// MediaItem represents a piece of submitted user media moving through the
// moderation pipeline.
type MediaItem struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	OwnerName   string `json:"owner_name"`
	MediaRef    string `json:"media_ref"`
	Kind        string `json:"kind"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	SubmittedAt   time.Time  `json:"submitted_at"`
	Status        string     `json:"status"`
	ModeratedAt   *time.Time `json:"moderated_at,omitempty"`
	ModeratorNote string     `json:"moderator_note,omitempty"`

	// AIVerdict holds the most recent classification result. It survives
	// undo and manual decisions as an audit trail.
	AIVerdict *Verdict        `json:"ai_verdict,omitempty"`
	Decisions []DecisionEvent `json:"decisions,omitempty"`
}

// Clone returns a deep copy so callers can't mutate stored state through
// shared slices or pointers.
func (m *MediaItem) Clone() *MediaItem {
	out := *m
	if m.ModeratedAt != nil {
		t := *m.ModeratedAt
		out.ModeratedAt = &t
	}
	if m.AIVerdict != nil {
		v := *m.AIVerdict
		v.Tags = append([]string(nil), m.AIVerdict.Tags...)
		out.AIVerdict = &v
	}
	if m.Decisions != nil {
		out.Decisions = make([]DecisionEvent, len(m.Decisions))
		copy(out.Decisions, m.Decisions)
	}
	return &out
}
