package forms

import (
	"context"
	"fmt"
	"sync"

	"sitekit/pkg/dom"
	"sitekit/pkg/logger"
)

const (
	FeedbackInline   = "inline"
	FeedbackBlocking = "blocking"

	ClassSuccess = "success"
	ClassError   = "error"
)

// Notifier renders submission feedback. Begin is called at the start of every
// submission so stale feedback is cleared.
type Notifier interface {
	Begin(ctx context.Context)
	Success(ctx context.Context, msg string)
	Failure(ctx context.Context, msg string)
}

// InlineNotifier writes feedback into a message element on the page.
type InlineNotifier struct {
	el       dom.Element
	bindings dom.Bindings
	mu       sync.Mutex
}

// NewInlineNotifier binds to a message element. dismiss is an optional close
// control that hides the message when clicked.
func NewInlineNotifier(el, dismiss dom.Element) (*InlineNotifier, error) {
	if el == nil {
		return nil, fmt.Errorf("inline notifier requires a message element")
	}
	n := &InlineNotifier{el: el}
	if dismiss != nil {
		n.bindings.On(dismiss, dom.EventClick, func(*dom.Event) { n.Dismiss() })
	}
	return n, nil
}

func (n *InlineNotifier) Begin(context.Context) {
	n.Dismiss()
}

func (n *InlineNotifier) Success(_ context.Context, msg string) {
	n.show(msg, ClassSuccess, ClassError)
}

func (n *InlineNotifier) Failure(_ context.Context, msg string) {
	n.show(msg, ClassError, ClassSuccess)
}

func (n *InlineNotifier) show(msg, add, remove string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.el.SetText(msg)
	n.el.RemoveClass(remove)
	n.el.AddClass(add)
	n.el.SetVisible(true)
}

func (n *InlineNotifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.el.SetVisible(false)
	n.el.SetText("")
	n.el.RemoveClass(ClassSuccess)
	n.el.RemoveClass(ClassError)
}

func (n *InlineNotifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bindings.Release()
}

// Alerter shows a message and blocks until the user acknowledges it.
type Alerter interface {
	Alert(ctx context.Context, msg string) error
}

type AlerterFunc func(ctx context.Context, msg string) error

func (f AlerterFunc) Alert(ctx context.Context, msg string) error {
	return f(ctx, msg)
}

type BlockingNotifier struct {
	alerter Alerter
	log     *logger.Logger
}

func NewBlockingNotifier(alerter Alerter, log *logger.Logger) (*BlockingNotifier, error) {
	if alerter == nil {
		return nil, fmt.Errorf("blocking notifier requires an alerter")
	}
	if log == nil {
		log = logger.Discard()
	}
	return &BlockingNotifier{alerter: alerter, log: log}, nil
}

func (n *BlockingNotifier) Begin(context.Context) {}

func (n *BlockingNotifier) Success(ctx context.Context, msg string) {
	n.alert(ctx, msg)
}

func (n *BlockingNotifier) Failure(ctx context.Context, msg string) {
	n.alert(ctx, msg)
}

func (n *BlockingNotifier) alert(ctx context.Context, msg string) {
	if err := n.alerter.Alert(ctx, msg); err != nil {
		n.log.Warn("Failed to show alert", "error", err)
	}
}

// NewNotifier selects a feedback strategy by name.
func NewNotifier(strategy string, message, dismiss dom.Element, alerter Alerter, log *logger.Logger) (Notifier, error) {
	switch strategy {
	case FeedbackInline, "":
		n, err := NewInlineNotifier(message, dismiss)
		if err != nil {
			return nil, err
		}
		return n, nil
	case FeedbackBlocking:
		n, err := NewBlockingNotifier(alerter, log)
		if err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unknown feedback strategy %q", strategy)
	}
}
