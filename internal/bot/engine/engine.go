// Package engine owns the conversation workflow: a fixed, linear form that
// collects one answer per step, validates it, and on the final step uploads
// the photo and commits the tasting record.
//
// The original per-step handler registration is expressed here as an explicit
// transition table keyed by (step, input kind), which makes the state space
// enumerable and testable.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/winelog/internal/bot/models"
	"github.com/dmitrijs2005/winelog/internal/bot/session"
	"github.com/dmitrijs2005/winelog/internal/bot/storage"
	"github.com/dmitrijs2005/winelog/internal/bot/transport"
	"github.com/dmitrijs2005/winelog/internal/common"
	"github.com/dmitrijs2005/winelog/internal/logging"
)

// Uploader fetches the attachment behind fileID and stores it under key.
// storage.S3Uploader satisfies it.
type Uploader interface {
	Upload(ctx context.Context, fileID, key string) error
}

// Persister commits a completed record atomically.
// services.RecordService satisfies it.
type Persister interface {
	Persist(ctx context.Context, user *models.User, rec *models.TastingRecord) (int64, error)
}

// Engine drives one user's form one step at a time. It is safe for
// concurrent use across users; the dispatcher serializes events per user.
type Engine struct {
	sessions  session.Store
	uploader  Uploader
	persister Persister
	logger    logging.Logger

	// now is a seam so tests can pin the current year.
	now func() time.Time
}

func New(sessions session.Store, uploader Uploader, persister Persister, logger logging.Logger) *Engine {
	return &Engine{
		sessions:  sessions,
		uploader:  uploader,
		persister: persister,
		logger:    logger.With("component", "engine"),
		now:       time.Now,
	}
}

type handlerFunc func(e *Engine, ctx context.Context, user *models.User, sess *models.Session, ev *transport.Event) (string, error)

// transitions maps (step, input kind) to the accepting handler. A missing
// entry is a shape mismatch: no transition, the current prompt is re-sent.
var transitions = map[models.Step]map[transport.Kind]handlerFunc{
	models.StepPhoto:      {transport.KindPhoto: (*Engine).handlePhoto},
	models.StepName:       {transport.KindText: (*Engine).handleName},
	models.StepRegion:     {transport.KindText: (*Engine).handleRegion},
	models.StepGrapes:     {transport.KindText: (*Engine).handleGrapes},
	models.StepVintage:    {transport.KindText: (*Engine).handleVintage},
	models.StepExperience: {transport.KindText: (*Engine).handleExperience},
}

// Advance applies one event to the user's open session and returns the reply
// to send. Input of the wrong shape produces the current step's prompt again
// and no state change.
func (e *Engine) Advance(ctx context.Context, user *models.User, sess *models.Session, ev *transport.Event) (string, error) {
	byKind, ok := transitions[sess.Step]
	if !ok {
		return "", nil
	}
	handler, ok := byKind[ev.Kind]
	if !ok {
		return promptFor(sess.Step), nil
	}
	return handler(e, ctx, user, sess, ev)
}

// StartRecord opens a session for the user, entering the photo step. If one
// is already open, the current step's prompt is repeated instead.
func (e *Engine) StartRecord(ctx context.Context, userID int64, at time.Time) (string, error) {
	_, err := e.sessions.Create(ctx, userID, at)
	if err != nil {
		if errors.Is(err, common.ErrSessionExists) {
			sess, err := e.sessions.Get(ctx, userID)
			if err != nil {
				return "", err
			}
			return promptFor(sess.Step), nil
		}
		return "", err
	}
	return PromptPhoto, nil
}

// Cancel clears the user's session from any step. With no session open it
// reports that there is nothing to cancel.
func (e *Engine) Cancel(ctx context.Context, userID int64) (string, error) {
	existed, err := e.sessions.Clear(ctx, userID)
	if err != nil {
		return "", err
	}
	if !existed {
		return ReplyNothingToCancel, nil
	}
	return ReplyCancelled, nil
}

func (e *Engine) handlePhoto(ctx context.Context, user *models.User, sess *models.Session, ev *transport.Event) (string, error) {
	largest, ok := ev.LargestPhoto()
	if !ok {
		return promptFor(sess.Step), nil
	}

	key := storage.DeriveKey(ev.OccurredAt, largest.FileUniqueID)
	err := e.sessions.Update(ctx, user.ID, func(s *models.Session) error {
		s.Data.PhotoFileID = largest.FileID
		s.Data.StorageKey = key
		s.Step = models.StepName
		return nil
	})
	if err != nil {
		return "", err
	}
	return PromptName, nil
}

func (e *Engine) handleName(ctx context.Context, user *models.User, sess *models.Session, ev *transport.Event) (string, error) {
	err := e.sessions.Update(ctx, user.ID, func(s *models.Session) error {
		s.Data.WineName = ev.Text
		s.Step = models.StepRegion
		return nil
	})
	if err != nil {
		return "", err
	}
	return PromptRegion, nil
}

func (e *Engine) handleRegion(ctx context.Context, user *models.User, sess *models.Session, ev *transport.Event) (string, error) {
	err := e.sessions.Update(ctx, user.ID, func(s *models.Session) error {
		s.Data.Region = ev.Text
		s.Step = models.StepGrapes
		return nil
	})
	if err != nil {
		return "", err
	}
	return PromptGrapes, nil
}

func (e *Engine) handleGrapes(ctx context.Context, user *models.User, sess *models.Session, ev *transport.Event) (string, error) {
	err := e.sessions.Update(ctx, user.ID, func(s *models.Session) error {
		s.Data.Grapes = ev.Text
		s.Step = models.StepVintage
		return nil
	})
	if err != nil {
		return "", err
	}
	return PromptVintage, nil
}

func (e *Engine) handleVintage(ctx context.Context, user *models.User, sess *models.Session, ev *transport.Event) (string, error) {
	currentYear := int64(e.now().Year())

	year, result := validateVintage(ev.Text, currentYear)
	switch result {
	case vintageNotNumeric:
		return ReplyVintageInvalid, nil
	case vintageInFuture:
		return replyVintageInFuture(currentYear, year), nil
	}

	err := e.sessions.Update(ctx, user.ID, func(s *models.Session) error {
		if result == vintageOK {
			s.Data.VintageYear = &year
		}
		s.Step = models.StepExperience
		return nil
	})
	if err != nil {
		return "", err
	}
	return PromptExperience, nil
}

// handleExperience stores the final answer and runs the terminal action:
// upload the photo, then commit the record, then clear the session. On
// upload or persist failure the session stays in the experience step with
// every collected field intact, so re-sending the impressions retries.
func (e *Engine) handleExperience(ctx context.Context, user *models.User, sess *models.Session, ev *transport.Event) (string, error) {
	err := e.sessions.Update(ctx, user.ID, func(s *models.Session) error {
		s.Data.Experience = ev.Text
		sess.Data = s.Data
		return nil
	})
	if err != nil {
		return "", err
	}

	if err := e.uploader.Upload(ctx, sess.Data.PhotoFileID, sess.Data.StorageKey); err != nil {
		e.logger.Error(ctx, "photo upload failed", "key", sess.Data.StorageKey, "error", err)
		return ReplySaveFailed, err
	}

	// The user may have cancelled while the upload was in flight; a stale
	// completion must not resurrect the record.
	if _, err := e.sessions.Get(ctx, user.ID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			e.logger.Warn(ctx, "session cancelled during upload, orphaned blob",
				"key", sess.Data.StorageKey)
			return "", common.ErrCancelled
		}
		return "", err
	}

	rec := &models.TastingRecord{
		UserID:      user.ID,
		OccurredAt:  ev.OccurredAt,
		WineName:    sess.Data.WineName,
		Region:      sess.Data.Region,
		Grapes:      sess.Data.Grapes,
		VintageYear: sess.Data.VintageYear,
		Experience:  sess.Data.Experience,
		Photos:      []models.PhotoRef{{ID: sess.Data.StorageKey}},
	}

	if _, err := e.persister.Persist(ctx, user, rec); err != nil {
		// The blob stays in storage unreferenced. There is no compensating
		// delete; the key is logged so the gap is at least traceable.
		e.logger.Error(ctx, "record write failed, orphaned blob",
			"key", sess.Data.StorageKey, "error", err)
		return ReplySaveFailed, err
	}

	if _, err := e.sessions.Clear(ctx, user.ID); err != nil {
		return "", err
	}

	e.logger.Info(ctx, "tasting record saved", "record_id", rec.ID, "key", sess.Data.StorageKey)
	return ReplyDone, nil
}
