package usecase_reaction

import (
	"context"
	"log/slog"
	"sync"

	"github.com/burningsawals/core/internal/model"
)

type Gateway interface {
	AddInteraction(ctx context.Context, questionID int64, kind model.Reaction) error
	RemoveInteraction(ctx context.Context, questionID int64, kind model.Reaction) error
}

// Session is the slice of the auth session the recorder needs.
type Session interface {
	IsAuthenticated() bool
	Expire()
}

// Recorder toggles a user's reaction per question and mirrors it locally for
// immediate feedback. Mutations on the same question are serialized;
// different questions may proceed concurrently.
type Recorder struct {
	gateway Gateway
	session Session
	logger  *slog.Logger

	isUnauthorized func(error) bool

	mu     sync.Mutex
	active map[int64]model.Reaction
	locks  map[int64]*sync.Mutex
}

type RecorderOption func(*Recorder)

func WithLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

func New(gateway Gateway, session Session, isUnauthorized func(error) bool, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		gateway:        gateway,
		session:        session,
		isUnauthorized: isUnauthorized,
		logger:         slog.Default(),
		active:         make(map[int64]model.Reaction),
		locks:          make(map[int64]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type Result struct {
	Success bool
	Message string
	// Active is the reaction now recorded locally for the question.
	Active model.Reaction
}

// SetReaction applies the toggle semantics: same kind removes it, a
// different kind replaces the previous one. The replace is two backend
// calls (remove old, add new) and is not atomic; a failure in between
// leaves the backend with no reaction while the local record still shows
// the old one until the user retries.
func (r *Recorder) SetReaction(ctx context.Context, questionID int64, kind model.Reaction) Result {
	if !model.ValidReaction(kind) {
		return Result{Success: false, Message: "invalid reaction", Active: r.ActiveReaction(questionID)}
	}
	if !r.session.IsAuthenticated() {
		return Result{Success: false, Message: "please log in to react to questions", Active: model.ReactionNone}
	}

	lock := r.questionLock(questionID)
	lock.Lock()
	defer lock.Unlock()

	current := r.ActiveReaction(questionID)

	if current == kind {
		if err := r.gateway.RemoveInteraction(ctx, questionID, kind); err != nil {
			return r.failure(questionID, err)
		}
		r.setActive(questionID, model.ReactionNone)
		return Result{Success: true, Message: "reaction removed", Active: model.ReactionNone}
	}

	if current != model.ReactionNone {
		if err := r.gateway.RemoveInteraction(ctx, questionID, current); err != nil {
			return r.failure(questionID, err)
		}
	}
	if err := r.gateway.AddInteraction(ctx, questionID, kind); err != nil {
		return r.failure(questionID, err)
	}

	r.setActive(questionID, kind)
	return Result{Success: true, Message: "reaction recorded", Active: kind}
}

func (r *Recorder) failure(questionID int64, err error) Result {
	if r.isUnauthorized != nil && r.isUnauthorized(err) {
		r.session.Expire()
		return Result{Success: false, Message: "session expired, please log in again", Active: r.ActiveReaction(questionID)}
	}
	r.logger.Warn("reaction update failed", slog.Int64("question_id", questionID), slog.String("error", err.Error()))
	return Result{Success: false, Message: "failed to update reaction", Active: r.ActiveReaction(questionID)}
}

// ActiveReaction returns the locally recorded reaction for a question,
// model.ReactionNone when there is none.
func (r *Recorder) ActiveReaction(questionID int64) model.Reaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active[questionID]
}

func (r *Recorder) setActive(questionID int64, kind model.Reaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if kind == model.ReactionNone {
		delete(r.active, questionID)
		return
	}
	r.active[questionID] = kind
}

func (r *Recorder) questionLock(questionID int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[questionID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[questionID] = lock
	}
	return lock
}
