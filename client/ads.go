package client

import (
	"context"
	"sync"
)

// AdWatchSeconds is the countdown a viewer sits through before the reward
// claim fires. Like the follow delay, this is pacing the client cannot
// actually enforce; the server books whatever claims arrive.
const AdWatchSeconds = 30

// DefaultAdLinks are the sponsored slots shown on the ads page.
var DefaultAdLinks = []string{
	"https://otieu.com/4/8179287",
	"https://otieu.com/4/8464568",
	"https://otieu.com/4/9038914",
	"https://otieu.com/4/8179107",
}

// AdsController runs the ad-watch state machine: Idle → Watching(30s) →
// Claiming → Idle. One slot plays at a time. The countdown hitting zero
// fires exactly one claim; a confirmed manual close discards the slot
// without claiming, and a failed claim returns to Idle with no retry.
type AdsController struct {
	gateway *Gateway
	toasts  *Toasts
	open    LinkOpener
	confirm Confirm
	links   []string

	mu        sync.Mutex
	watching  int // slot index, -1 when idle
	countdown int
	claiming  bool
	closing   bool // confirm dialog open, countdown frozen
	closed    bool
}

func NewAdsController(gateway *Gateway, toasts *Toasts, open LinkOpener, confirm Confirm) *AdsController {
	return &AdsController{
		gateway:  gateway,
		toasts:   toasts,
		open:     open,
		confirm:  confirm,
		links:    DefaultAdLinks,
		watching: -1,
	}
}

// Links returns the ad slots.
func (a *AdsController) Links() []string {
	return a.links
}

// Watch opens slot i and starts the countdown.
func (a *AdsController) Watch(i int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || i < 0 || i >= len(a.links) || a.watching >= 0 {
		return
	}
	a.watching = i
	a.countdown = AdWatchSeconds
	a.claiming = false
	if a.open != nil {
		a.open(a.links[i])
	}
}

// Tick advances the countdown by one second and fires the claim when it
// reaches zero. Driven by a 1s ticker; a tick after teardown or while
// idle does nothing.
func (a *AdsController) Tick(ctx context.Context) {
	a.mu.Lock()
	if a.closed || a.watching < 0 || a.closing {
		a.mu.Unlock()
		return
	}
	if a.countdown > 0 {
		a.countdown--
	}
	if a.countdown > 0 || a.claiming {
		a.mu.Unlock()
		return
	}
	a.claiming = true
	a.mu.Unlock()

	a.claim(ctx)
}

func (a *AdsController) claim(ctx context.Context) {
	err := a.gateway.ClaimAdReward(ctx)
	if err != nil {
		// Known gap: a backend failure after the full watch is not
		// retried; the user has to start the slot over.
		a.toasts.Error("Failed to claim reward. Please try again.")
	} else {
		a.toasts.Success("You earned 2 points!")
	}

	a.mu.Lock()
	a.watching = -1
	a.claiming = false
	a.mu.Unlock()
}

// CloseAd abandons the running slot after an explicit confirmation. No
// points are credited; returns true if the overlay was closed. The
// countdown freezes while the dialog is open, so a tick arriving mid-
// confirmation can never fire the claim out from under the close.
func (a *AdsController) CloseAd() bool {
	a.mu.Lock()
	if a.watching < 0 || a.claiming || a.closing {
		a.mu.Unlock()
		return false
	}
	a.closing = true
	a.mu.Unlock()

	accepted := a.confirm == nil || a.confirm("If you close now, you won't get points. Are you sure?")

	a.mu.Lock()
	a.closing = false
	if !accepted {
		a.mu.Unlock()
		return false
	}
	a.watching = -1
	a.countdown = 0
	a.mu.Unlock()
	return true
}

// Watching returns the active slot index (-1 when idle).
func (a *AdsController) Watching() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.watching
}

// Countdown returns the seconds left on the active slot.
func (a *AdsController) Countdown() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.countdown
}

// Close tears the controller down; pending ticks become no-ops.
func (a *AdsController) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	a.watching = -1
}
