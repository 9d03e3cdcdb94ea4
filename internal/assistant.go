package internal

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/iksnae/glasschat/internal/clock"
)

// AssistantState is the turn-taking state of the assistant conversation
type AssistantState int

const (
	StateIdle AssistantState = iota
	StateAwaitingReply
)

func (s AssistantState) String() string {
	if s == StateAwaitingReply {
		return "awaiting-reply"
	}
	return "idle"
}

// TurnOutcome records how the most recent turn ended
type TurnOutcome int

const (
	OutcomeNone TurnOutcome = iota
	OutcomeReplied
	OutcomeCancelled
	OutcomeFailed
)

func (o TurnOutcome) String() string {
	switch o {
	case OutcomeReplied:
		return "replied"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	default:
		return "none"
	}
}

// UpstreamFailureNotice is the assistant entry shown when a reply could not
// be produced
const UpstreamFailureNotice = "Sorry, I couldn't reach the assistant right now. Please try again in a moment."

// NoResponse is used when the upstream answered without any text
const NoResponse = "No response"

// Replier produces the assistant's reply to a prompt. Implementations must
// return promptly once ctx is done.
type Replier interface {
	Reply(ctx context.Context, prompt string) (string, error)
}

// ReplierFunc adapts a function to Replier
type ReplierFunc func(ctx context.Context, prompt string) (string, error)

// Reply calls f
func (f ReplierFunc) Reply(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Turn is one outstanding request to the assistant. It only exists while
// the controller is awaiting its reply.
type Turn struct {
	ID        string
	Prompt    string
	StartedAt time.Time

	ctx       context.Context
	cancel    context.CancelFunc
	cancelled bool // guarded by the controller's mutex
	done      chan struct{}
}

// Done is closed once the turn's completion has been applied or discarded
func (t *Turn) Done() <-chan struct{} {
	return t.done
}

// AssistantOptions configures an AIConversationController
type AssistantOptions struct {
	Replier Replier
	Clock   clock.Clock
	IDs     IDGenerator
	// ReplyTimeout bounds each reply; zero means no bound beyond Cancel
	ReplyTimeout time.Duration
	// OnChange is called after every state change, outside the lock
	OnChange func()
	// History seeds the conversation
	History []AssistantMessage
}

// AIConversationController runs a single-flight conversation with the
// assistant: Idle -> AwaitingReply -> Idle, with Cancel returning to Idle
// early. A completion that arrives for a cancelled or superseded turn is
// dropped.
type AIConversationController struct {
	mu       sync.Mutex
	opts     AssistantOptions
	messages []AssistantMessage
	turn     *Turn
	outcome  TurnOutcome
}

// NewAIConversationController creates a controller in the Idle state
func NewAIConversationController(opts AssistantOptions) *AIConversationController {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.IDs == nil {
		opts.IDs = UUIDGenerator{}
	}
	if opts.Replier == nil {
		opts.Replier = NewSimulatedReplier(opts.Clock)
	}
	c := &AIConversationController{opts: opts}
	c.messages = append(c.messages, opts.History...)
	return c
}

// SetOnChange replaces the change notifier
func (c *AIConversationController) SetOnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.OnChange = fn
}

// Submit appends the user's message and starts the reply task. It fails
// with ErrInvalidInput for blank text and ErrBusy while a turn is
// outstanding; neither failure changes any state.
func (c *AIConversationController) Submit(ctx context.Context, text string) (*Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &TurnError{Err: ErrInvalidInput}
	}

	c.mu.Lock()
	if c.turn != nil {
		id := c.turn.ID
		c.mu.Unlock()
		return nil, &TurnError{TurnID: id, Err: ErrBusy}
	}

	now := c.opts.Clock.Now()
	turnCtx, cancel := context.WithCancel(ctx)
	if c.opts.ReplyTimeout > 0 {
		var timeoutCancel context.CancelFunc
		turnCtx, timeoutCancel = context.WithTimeout(turnCtx, c.opts.ReplyTimeout)
		parentCancel := cancel
		cancel = func() {
			timeoutCancel()
			parentCancel()
		}
	}
	turn := &Turn{
		ID:        c.opts.IDs.NewID(),
		Prompt:    text,
		StartedAt: now,
		ctx:       turnCtx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	c.messages = append(c.messages, AssistantMessage{
		ID:        c.opts.IDs.NewID(),
		Content:   text,
		Role:      RoleUser,
		CreatedAt: now,
	})
	c.turn = turn
	c.outcome = OutcomeNone
	notify := c.opts.OnChange
	c.mu.Unlock()

	LogDebug("Assistant turn %s started", turn.ID)
	if notify != nil {
		notify()
	}

	go c.run(turn)
	return turn, nil
}

func (c *AIConversationController) run(turn *Turn) {
	defer close(turn.done)
	reply, err := c.opts.Replier.Reply(turn.ctx, turn.Prompt)
	c.complete(turn, reply, err)
}

func (c *AIConversationController) complete(turn *Turn, reply string, err error) {
	defer turn.cancel()

	c.mu.Lock()
	if c.turn != turn || turn.cancelled {
		c.mu.Unlock()
		LogDebug("Discarding late completion of assistant turn %s", turn.ID)
		return
	}
	c.turn = nil

	// The caller's context going away ends the turn like Cancel; only a
	// reply timeout or a relay error counts as an upstream failure.
	if err != nil && errors.Is(turn.ctx.Err(), context.Canceled) {
		turn.cancelled = true
		c.outcome = OutcomeCancelled
		notify := c.opts.OnChange
		c.mu.Unlock()

		LogDebug("Assistant turn %s cancelled by caller", turn.ID)
		if notify != nil {
			notify()
		}
		return
	}

	msg := AssistantMessage{
		ID:        c.opts.IDs.NewID(),
		Role:      RoleAssistant,
		CreatedAt: c.opts.Clock.Now(),
	}
	if err != nil {
		msg.Content = UpstreamFailureNotice
		msg.Failed = true
		c.outcome = OutcomeFailed
	} else {
		if strings.TrimSpace(reply) == "" {
			reply = NoResponse
		}
		msg.Content = reply
		c.outcome = OutcomeReplied
	}
	c.messages = append(c.messages, msg)
	notify := c.opts.OnChange
	c.mu.Unlock()

	if err != nil {
		if !errors.Is(err, ErrUpstream) {
			err = errors.Join(ErrUpstream, err)
		}
		LogWarn("%v", &TurnError{TurnID: turn.ID, Err: err})
	} else {
		LogDebug("Assistant turn %s replied", turn.ID)
	}
	if notify != nil {
		notify()
	}
}

// Cancel abandons the outstanding turn without appending a reply. It
// fails with ErrNotAwaiting when the controller is Idle.
func (c *AIConversationController) Cancel() error {
	c.mu.Lock()
	turn := c.turn
	if turn == nil {
		c.mu.Unlock()
		return &TurnError{Err: ErrNotAwaiting}
	}
	turn.cancelled = true
	c.turn = nil
	c.outcome = OutcomeCancelled
	notify := c.opts.OnChange
	c.mu.Unlock()

	turn.cancel()
	LogDebug("Assistant turn %s cancelled", turn.ID)
	if notify != nil {
		notify()
	}
	return nil
}

// State returns the current turn-taking state
func (c *AIConversationController) State() AssistantState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.turn != nil {
		return StateAwaitingReply
	}
	return StateIdle
}

// Outcome returns how the last finished turn ended
func (c *AIConversationController) Outcome() TurnOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

// Pending returns the outstanding turn, or nil when Idle
func (c *AIConversationController) Pending() *Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.turn
}

// Messages returns a copy of the conversation in order
func (c *AIConversationController) Messages() []AssistantMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]AssistantMessage, len(c.messages))
	copy(out, c.messages)
	return out
}
