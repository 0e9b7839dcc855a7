package client

import (
	"context"
	"strings"
	"sync"

	"points-exchange/models"
)

// FollowVerifySeconds is the soft anti-automation delay between opening a
// follow link and the claim control becoming available. UX pacing only —
// the authoritative duplicate check lives server-side.
const FollowVerifySeconds = 3

// LinkOpener opens a URL in an external context (browser tab, webview).
type LinkOpener func(url string)

// Confirm asks the user to approve a destructive action and reports the
// answer.
type Confirm func(prompt string) bool

// EarnController drives the follow-to-earn task list. Per entry the state
// runs unclicked → clicked (3s timer) → verifiable → claiming → removed.
// The balance is never updated optimistically; it follows the profile
// change notifications.
type EarnController struct {
	gateway *Gateway
	toasts  *Toasts
	open    LinkOpener

	mu         sync.Mutex
	channels   []models.Channel
	balance    float64
	clicked    map[string]bool
	timers     map[string]int // channel id -> seconds until verifiable
	processing string
	cancel     CancelFunc
	closed     bool
}

func NewEarnController(gateway *Gateway, toasts *Toasts, open LinkOpener) *EarnController {
	return &EarnController{
		gateway: gateway,
		toasts:  toasts,
		open:    open,
		clicked: make(map[string]bool),
		timers:  make(map[string]int),
	}
}

// Load fetches the balance and the earnable task list. On failure the
// previous list stays as it was.
func (e *EarnController) Load(ctx context.Context) error {
	profile, err := e.gateway.Profile(ctx)
	if err != nil {
		e.toasts.Error("Failed to load tasks.")
		return err
	}
	channels, err := e.gateway.EarnableChannels(ctx, 20)
	if err != nil {
		e.toasts.Error("Failed to load tasks.")
		return err
	}

	e.mu.Lock()
	e.balance = profile.Points
	e.channels = channels
	e.clicked = make(map[string]bool)
	e.timers = make(map[string]int)
	e.mu.Unlock()
	return nil
}

// Subscribe starts the balance listener. Must be paired with Close.
func (e *EarnController) Subscribe(ctx context.Context) error {
	cancel, err := e.gateway.SubscribeProfile(ctx, func(p models.Profile) {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed {
			return // late notification after teardown
		}
		e.balance = p.Points
	})
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()
	return nil
}

// OpenFollowLink opens the channel URL externally and arms the verify
// timer for that entry.
func (e *EarnController) OpenFollowLink(channelID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, ch := range e.channels {
		if ch.ID == channelID {
			if e.open != nil {
				e.open(ch.URL)
			}
			e.clicked[channelID] = true
			e.timers[channelID] = FollowVerifySeconds
			return
		}
	}
}

// Tick advances every armed timer by one second. Driven by a 1s ticker;
// calling it after Close is a no-op.
func (e *EarnController) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	for id, left := range e.timers {
		if left > 0 {
			e.timers[id] = left - 1
		}
	}
}

// CanVerify reports whether the claim control for an entry is enabled.
func (e *EarnController) CanVerify(channelID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicked[channelID] && e.timers[channelID] == 0 && e.processing != channelID
}

// SecondsLeft returns the remaining verify delay for an entry.
func (e *EarnController) SecondsLeft(channelID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timers[channelID]
}

// Verify claims the follow reward. On success the entry leaves the list;
// the balance catches up when the change notification arrives. On failure
// the list is left exactly as it was.
func (e *EarnController) Verify(ctx context.Context, channelID string) error {
	if !e.CanVerify(channelID) {
		return nil
	}

	e.mu.Lock()
	e.processing = channelID
	e.mu.Unlock()

	err := e.gateway.ClaimFollowReward(ctx, channelID)

	e.mu.Lock()
	e.processing = ""
	if err == nil {
		kept := e.channels[:0]
		for _, ch := range e.channels {
			if ch.ID != channelID {
				kept = append(kept, ch)
			}
		}
		e.channels = kept
		delete(e.clicked, channelID)
		delete(e.timers, channelID)
	}
	e.mu.Unlock()

	if err != nil {
		if strings.Contains(err.Error(), "already claimed") {
			e.toasts.Error("You already claimed this reward.")
		} else {
			e.toasts.Error("Failed to claim reward.")
		}
		return err
	}

	e.toasts.Success("Success! You earned 3 points.")
	return nil
}

// Channels returns the current task list.
func (e *EarnController) Channels() []models.Channel {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Channel, len(e.channels))
	copy(out, e.channels)
	return out
}

// Balance returns the last known points balance.
func (e *EarnController) Balance() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.balance
}

// Close cancels the subscription and timers. Late ticks and notifications
// become no-ops.
func (e *EarnController) Close() {
	e.mu.Lock()
	cancel := e.cancel
	e.cancel = nil
	e.closed = true
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}
