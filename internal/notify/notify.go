// Package notify delivers moderation emails on a best-effort basis. A
// dispatch never blocks the request that triggered it beyond a buffered
// channel send, and no delivery failure ever reaches the caller.
package notify

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/yuin/goldmark"

	"github.com/pressgate-dev/pressgate/internal/domain"
	"github.com/pressgate-dev/pressgate/internal/logger"
)

type Event string

const (
	EventSubmitted Event = "submitted"
	EventApproved  Event = "approved"
	EventRejected  Event = "rejected"
)

// Notification describes one moderation event to announce.
type Notification struct {
	Event      Event
	Realm      domain.Realm
	Title      string
	Slug       domain.Slug
	Summary    string // markdown, rendered into the email body
	ReviewNote string
	Recipients []domain.Email
}

// Mailer sends a single message. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(recipient, subject, body string) error
}

// Dispatcher owns a worker goroutine draining a buffered queue. When the
// queue is full the notification is dropped with a log line; moderation
// transitions are never delayed by slow SMTP.
type Dispatcher struct {
	mailer Mailer
	queue  chan Notification
	done   chan struct{}
	wg     sync.WaitGroup
	md     goldmark.Markdown
}

func NewDispatcher(mailer Mailer, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	d := &Dispatcher{
		mailer: mailer,
		queue:  make(chan Notification, buffer),
		done:   make(chan struct{}),
		md:     goldmark.New(),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// Dispatch queues a notification. It never blocks and never returns an
// error; a full queue drops the notification.
func (d *Dispatcher) Dispatch(n Notification) {
	if len(n.Recipients) == 0 {
		return
	}
	select {
	case d.queue <- n:
	default:
		logger.Log.Warn("notification queue full, dropping",
			"event", n.Event, "realm", n.Realm, "slug", n.Slug)
	}
}

// Close stops the worker after draining queued notifications.
func (d *Dispatcher) Close() {
	close(d.done)
	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case n := <-d.queue:
			d.deliver(n)
		case <-d.done:
			for {
				select {
				case n := <-d.queue:
					d.deliver(n)
				default:
					return
				}
			}
		}
	}
}

// deliver sends one notification to all recipients, recovering panics and
// logging failures. Nothing propagates.
func (d *Dispatcher) deliver(n Notification) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("panic while delivering notification",
				"event", n.Event, "realm", n.Realm, "panic", r)
		}
	}()

	subject, body := d.compose(n)
	for _, recipient := range n.Recipients {
		if err := d.mailer.Send(recipient, subject, body); err != nil {
			logger.Log.Error("failed to deliver notification",
				"event", n.Event, "realm", n.Realm, "recipient", recipient, "error", err)
		}
	}
}

func (d *Dispatcher) compose(n Notification) (subject, body string) {
	var rendered bytes.Buffer
	if n.Summary != "" {
		if err := d.md.Convert([]byte(n.Summary), &rendered); err != nil {
			logger.Log.Warn("failed to render notification summary", "error", err)
			rendered.Reset()
			rendered.WriteString(n.Summary)
		}
	}

	switch n.Event {
	case EventSubmitted:
		subject = fmt.Sprintf("[%s] New submission awaiting review: %s", n.Realm, n.Title)
		body = fmt.Sprintf("A new submission %q is waiting for review.\n\n%s", n.Title, rendered.String())
	case EventApproved:
		subject = fmt.Sprintf("[%s] Your submission was published: %s", n.Realm, n.Title)
		body = fmt.Sprintf("Good news! %q has been approved and is now publicly visible.\n\n%s", n.Title, rendered.String())
	case EventRejected:
		subject = fmt.Sprintf("[%s] Your submission needs changes: %s", n.Realm, n.Title)
		body = fmt.Sprintf("%q was not approved.\n\nReviewer note:\n%s\n\nYou can edit and resubmit it at any time.", n.Title, n.ReviewNote)
	default:
		subject = fmt.Sprintf("[%s] Update on %s", n.Realm, n.Title)
		body = rendered.String()
	}
	return subject, body
}
