package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mediamod/internal/classifier"
	"mediamod/internal/metrics"
	"mediamod/internal/models"
	"mediamod/internal/validation"
)

// ApprovalThreshold is the minimum confidence an approving verdict needs to
// auto-approve an image item. Audio greetings auto-approve on any approving
// verdict regardless of confidence.
const ApprovalThreshold = 90

// Classifier produces an AI verdict for a media item. Implemented by
// classifier.Client.
type Classifier interface {
	Classify(ctx context.Context, item models.MediaItem) (models.Verdict, error)
}

// Notifier delivers terminal-transition notifications to the submitter.
// Delivery is fire-and-forget: a transition is committed before the notifier
// is invoked and its outcome never rolls the transition back.
type Notifier interface {
	NotifyItemApproved(ctx context.Context, item *models.MediaItem)
	NotifyItemRejected(ctx context.Context, item *models.MediaItem, reason string)
}

// Service is the moderation state machine. It owns all mutations of the
// store and enforces single-flight classification per item id.
type Service struct {
	store      *Store
	classifier Classifier
	notifier   Notifier

	mu       sync.Mutex
	inflight map[string]struct{}

	now func() time.Time
}

// NewService creates a moderation service around the given store.
// classifier and notifier may be nil in tests.
func NewService(store *Store, classifier Classifier, notifier Notifier) *Service {
	return &Service{
		store:      store,
		classifier: classifier,
		notifier:   notifier,
		inflight:   make(map[string]struct{}),
		now:        time.Now,
	}
}

// Store exposes the read surface backing this service.
func (s *Service) Store() *Store {
	return s.store
}

// Submit inserts a new media item as pending. Submitter-provided moderation
// fields are ignored; the item always starts clean.
func (s *Service) Submit(item models.MediaItem) (*models.MediaItem, error) {
	if !validation.ValidateItemID(item.ID) {
		return nil, fmt.Errorf("%w: invalid id", ErrInvalidItem)
	}
	if item.OwnerID == "" {
		return nil, fmt.Errorf("%w: owner_id is required", ErrInvalidItem)
	}
	if ok, msg := validation.ValidateMediaRef(item.MediaRef); !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidItem, msg)
	}
	if !models.ValidKind(item.Kind) {
		return nil, fmt.Errorf("%w: unknown media kind %q", ErrInvalidItem, item.Kind)
	}

	item.Status = models.StatusPending
	item.ModeratedAt = nil
	item.ModeratorNote = ""
	item.AIVerdict = nil
	item.Decisions = nil
	if item.SubmittedAt.IsZero() {
		item.SubmittedAt = s.now()
	}

	if err := s.store.Insert(&item); err != nil {
		return nil, err
	}
	metrics.RecordSubmission()
	return item.Clone(), nil
}

// Approve moves a pending item to approved and notifies the submitter.
// via records whether the decision was manual or AI-made.
func (s *Service) Approve(ctx context.Context, id, via string) (*models.MediaItem, error) {
	at := s.now()
	item, err := s.store.update(id, func(m *models.MediaItem) error {
		if m.Status != models.StatusPending {
			return ErrInvalidTransition
		}
		m.Status = models.StatusApproved
		m.ModeratedAt = &at
		m.Decisions = append(m.Decisions, models.DecisionEvent{
			ID:   uuid.New(),
			Kind: models.DecisionApprove,
			Via:  via,
			At:   at,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTransition(models.StatusApproved, via)
	if s.notifier != nil {
		s.notifier.NotifyItemApproved(ctx, item)
	}
	return item, nil
}

// Reject moves a pending item to rejected with a mandatory reason and
// notifies the submitter.
func (s *Service) Reject(ctx context.Context, id, reason, via string) (*models.MediaItem, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrEmptyReason
	}
	if ok, msg := validation.ValidateReason(reason); !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidItem, msg)
	}

	at := s.now()
	item, err := s.store.update(id, func(m *models.MediaItem) error {
		if m.Status != models.StatusPending {
			return ErrInvalidTransition
		}
		m.Status = models.StatusRejected
		m.ModeratedAt = &at
		m.ModeratorNote = reason
		m.Decisions = append(m.Decisions, models.DecisionEvent{
			ID:   uuid.New(),
			Kind: models.DecisionReject,
			Via:  via,
			Note: reason,
			At:   at,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTransition(models.StatusRejected, via)
	if s.notifier != nil {
		s.notifier.NotifyItemRejected(ctx, item, reason)
	}
	return item, nil
}

// Undo reverts a terminal decision back to pending. The AI verdict and the
// decision log are kept as an audit trail. No notification is emitted; a
// reversal is an internal correction, not user-facing news.
func (s *Service) Undo(ctx context.Context, id string) (*models.MediaItem, error) {
	at := s.now()
	item, err := s.store.update(id, func(m *models.MediaItem) error {
		if !models.IsTerminalStatus(m.Status) {
			return ErrInvalidTransition
		}
		m.Status = models.StatusPending
		m.ModeratedAt = nil
		m.ModeratorNote = ""
		m.Decisions = append(m.Decisions, models.DecisionEvent{
			ID:   uuid.New(),
			Kind: models.DecisionUndo,
			Via:  models.ViaManual,
			At:   at,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTransition(models.StatusPending, models.ViaManual)
	return item, nil
}

// Classify runs one AI classification pass for the item. At most one
// classification may be in flight per item id; a second call while one is
// pending fails with ErrAlreadyProcessing. Manual decisions on the item
// remain permitted during the call.
//
// On success the verdict is always attached and logged, even if the item was
// manually decided while the call was in flight (status is not reverted).
// Auto-approval happens only for an approving verdict that clears the
// kind-specific bar and finds the item still pending. A negative verdict
// never auto-rejects; the item stays pending for manual review.
func (s *Service) Classify(ctx context.Context, id string) (*models.MediaItem, error) {
	snapshot, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.beginClassify(id); err != nil {
		return nil, err
	}
	defer s.endClassify(id)

	if s.classifier == nil {
		metrics.RecordClassification(metrics.OutcomeFailed)
		return nil, fmt.Errorf("classify item %s: %w: no classifier configured", id, classifier.ErrClassificationFailed)
	}

	verdict, err := s.classifier.Classify(ctx, *snapshot)
	if err != nil {
		// The item stays pending so a human reviewer can act.
		metrics.RecordClassification(metrics.OutcomeFailed)
		return nil, fmt.Errorf("classify item %s: %w", id, err)
	}

	at := s.now()
	item, err := s.store.update(id, func(m *models.MediaItem) error {
		v := verdict
		m.AIVerdict = &v
		m.Decisions = append(m.Decisions, models.DecisionEvent{
			ID:      uuid.New(),
			Kind:    models.DecisionAIVerdict,
			Via:     models.ViaAI,
			Note:    verdict.Rationale,
			Verdict: &v,
			At:      at,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if item.Status == models.StatusPending && shouldAutoApprove(item.Kind, verdict) {
		approved, err := s.Approve(ctx, id, models.ViaAI)
		switch {
		case err == nil:
			metrics.RecordClassification(metrics.OutcomeAutoApproved)
			return approved, nil
		case errors.Is(err, ErrInvalidTransition):
			// A manual decision landed between the verdict and the approval
			// attempt; the manual decision wins on status.
		default:
			return nil, err
		}
	}

	metrics.RecordClassification(metrics.OutcomeManualReview)
	return item, nil
}

// shouldAutoApprove applies the observed per-kind approval rule: audio
// greetings approve on any approving verdict, images need the confidence
// threshold.
func shouldAutoApprove(kind string, v models.Verdict) bool {
	if !v.Approved {
		return false
	}
	if kind == models.KindAudioGreeting {
		return true
	}
	return v.Confidence >= ApprovalThreshold
}

// InFlight reports whether a classification is currently running for id.
func (s *Service) InFlight(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inflight[id]
	return ok
}

func (s *Service) beginClassify(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inflight[id]; ok {
		return ErrAlreadyProcessing
	}
	s.inflight[id] = struct{}{}
	return nil
}

func (s *Service) endClassify(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, id)
}
