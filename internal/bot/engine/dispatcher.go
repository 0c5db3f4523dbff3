package engine

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/winelog/internal/bot/models"
	"github.com/dmitrijs2005/winelog/internal/bot/session"
	"github.com/dmitrijs2005/winelog/internal/bot/transport"
	"github.com/dmitrijs2005/winelog/internal/common"
	"github.com/dmitrijs2005/winelog/internal/logging"
)

// cancelWord cancels from any step when sent as a plain message,
// case-insensitive, as an alternative to the /cancel command.
const cancelWord = "cancel"

// UserResolver is the enrichment stage run before any handler: it turns a
// transport identity into a stored user plus a first-contact flag.
// services.UserService satisfies it.
type UserResolver interface {
	GetOrCreate(ctx context.Context, candidate *models.User) (*models.User, bool, error)
}

// Sender delivers replies. transport.Transport satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, userID int64, text string) error
}

// Dispatcher routes each inbound event to exactly one handler, based on
// whether the sender has an open session and what the event's content kind
// is. Events for one user are processed strictly one at a time; different
// users proceed concurrently.
type Dispatcher struct {
	engine   *Engine
	sessions session.Store
	users    UserResolver
	sender   Sender
	logger   logging.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewDispatcher(engine *Engine, sessions session.Store, users UserResolver, sender Sender, logger logging.Logger) *Dispatcher {
	return &Dispatcher{
		engine:   engine,
		sessions: sessions,
		users:    users,
		sender:   sender,
		logger:   logger.With("component", "dispatcher"),
		locks:    make(map[int64]*sync.Mutex),
	}
}

// userLock returns the mutex serializing one user's events. Locks are never
// reclaimed; the per-user footprint is one mutex.
func (d *Dispatcher) userLock(userID int64) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		d.locks[userID] = l
	}
	return l
}

// Handle processes one inbound event end to end: enrichment, routing, the
// engine step, and the outbound reply. It never returns an error to the
// caller; failures are logged and, where appropriate, reported to the user.
func (d *Dispatcher) Handle(ctx context.Context, ev *transport.Event) {
	if ev.Kind == transport.KindOther {
		return
	}
	if !ev.Private {
		d.logger.Debug(ctx, "dropping non-private event", "user_id", ev.Sender.ID)
		return
	}

	log := d.logger.With("event_id", uuid.NewString(), "user_id", ev.Sender.ID)

	lock := d.userLock(ev.Sender.ID)
	lock.Lock()
	defer lock.Unlock()

	user, isNew, err := d.users.GetOrCreate(ctx, &models.User{
		ID:        ev.Sender.ID,
		Username:  ev.Sender.Username,
		FirstName: ev.Sender.FirstName,
		LastName:  ev.Sender.LastName,
		Lang:      ev.Sender.Lang,
		JoinedAt:  ev.OccurredAt,
	})
	if err != nil {
		log.Error(ctx, "user resolution failed", "error", err)
		return
	}
	if isNew {
		log.Info(ctx, "created user", "username", user.Username)
	}

	reply, err := d.route(ctx, user, isNew, ev)
	if err != nil && !errors.Is(err, common.ErrUpload) && !errors.Is(err, common.ErrPersist) {
		// Upload/persist failures were already logged by the engine along
		// with the orphan key; everything else is logged here.
		log.Error(ctx, "event handling failed", "error", err)
	}
	if reply == "" {
		return
	}

	if err := d.sender.SendMessage(ctx, user.ID, reply); err != nil {
		log.Error(ctx, "reply send failed", "error", err)
	}
}

func (d *Dispatcher) route(ctx context.Context, user *models.User, isNew bool, ev *transport.Event) (string, error) {
	if isCancel(ev) {
		return d.engine.Cancel(ctx, user.ID)
	}

	sess, err := d.sessions.Get(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return "", err
		}
		return d.routeIdle(ctx, user, isNew, ev)
	}

	// An open session ignores commands other than cancel; re-sending the
	// current prompt keeps the user oriented.
	if ev.Kind == transport.KindCommand {
		return promptFor(sess.Step), nil
	}

	return d.engine.Advance(ctx, user, sess, ev)
}

// routeIdle is the stateless command set for senders with no open session.
// Plain text and photos are ignored here.
func (d *Dispatcher) routeIdle(ctx context.Context, user *models.User, isNew bool, ev *transport.Event) (string, error) {
	if ev.Kind != transport.KindCommand {
		return "", nil
	}

	switch ev.Command {
	case "start":
		if isNew {
			return replyGreetingNew, nil
		}
		return greetingReturning(user.FirstName), nil
	case "help":
		return ReplyHelp, nil
	case "newrecord":
		return d.engine.StartRecord(ctx, user.ID, ev.OccurredAt)
	default:
		return "", nil
	}
}

func isCancel(ev *transport.Event) bool {
	if ev.Kind == transport.KindCommand && ev.Command == "cancel" {
		return true
	}
	return ev.Kind == transport.KindText && strings.EqualFold(strings.TrimSpace(ev.Text), cancelWord)
}
