package client

import (
	"context"
	"sync"

	"points-exchange/models"
	"points-exchange/services"
)

// AddChannelController handles new channel submission. The balance gate
// (>= 3 points) runs here first so the user gets immediate feedback; the
// server re-checks it authoritatively.
type AddChannelController struct {
	gateway *Gateway
	toasts  *Toasts

	mu      sync.Mutex
	balance float64
	loaded  bool
}

func NewAddChannelController(gateway *Gateway, toasts *Toasts) *AddChannelController {
	return &AddChannelController{gateway: gateway, toasts: toasts}
}

func (a *AddChannelController) Load(ctx context.Context) error {
	profile, err := a.gateway.Profile(ctx)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.balance = profile.Points
	a.loaded = true
	a.mu.Unlock()
	return nil
}

// Balance returns the last fetched balance.
func (a *AddChannelController) Balance() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// CanSubmit reports whether the balance clears the submission threshold.
func (a *AddChannelController) CanSubmit() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loaded && a.balance >= services.MinBalanceToAddChannel
}

// Submit inserts the channel. Blocked client-side when the balance is
// below the threshold — no request is issued in that case.
func (a *AddChannelController) Submit(ctx context.Context, in services.ChannelInput) (*models.Channel, error) {
	if !a.CanSubmit() {
		a.toasts.Error("Insufficient balance! You need at least 3 points.")
		return nil, services.ErrInsufficientBalance
	}

	channel, err := a.gateway.CreateChannel(ctx, in)
	if err != nil {
		a.toasts.Error("Failed to add channel. Please try again.")
		return nil, err
	}

	a.toasts.Success("Channel added successfully!")
	return channel, nil
}

// MyTasksController manages the caller's own channels: pause/resume and
// delete. Delete is immediate and irreversible, so it sits behind an
// explicit confirmation.
type MyTasksController struct {
	gateway *Gateway
	toasts  *Toasts
	confirm Confirm

	mu       sync.Mutex
	channels []models.Channel
}

func NewMyTasksController(gateway *Gateway, toasts *Toasts, confirm Confirm) *MyTasksController {
	return &MyTasksController{gateway: gateway, toasts: toasts, confirm: confirm}
}

func (m *MyTasksController) Load(ctx context.Context) error {
	channels, err := m.gateway.MyChannels(ctx)
	if err != nil {
		m.toasts.Error("Failed to load your channels.")
		return err
	}
	m.mu.Lock()
	m.channels = channels
	m.mu.Unlock()
	return nil
}

func (m *MyTasksController) Channels() []models.Channel {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Channel, len(m.channels))
	copy(out, m.channels)
	return out
}

// Toggle flips a channel's active flag. On failure the cached row keeps
// its previous state.
func (m *MyTasksController) Toggle(ctx context.Context, channelID string) error {
	m.mu.Lock()
	var current *models.Channel
	for i := range m.channels {
		if m.channels[i].ID == channelID {
			current = &m.channels[i]
			break
		}
	}
	m.mu.Unlock()
	if current == nil {
		return nil
	}

	updated, err := m.gateway.SetChannelActive(ctx, channelID, !current.Active)
	if err != nil {
		m.toasts.Error("Failed to update channel.")
		return err
	}

	m.mu.Lock()
	for i := range m.channels {
		if m.channels[i].ID == channelID {
			m.channels[i] = *updated
			break
		}
	}
	m.mu.Unlock()
	return nil
}

// Delete removes a channel after confirmation. Declining leaves
// everything untouched.
func (m *MyTasksController) Delete(ctx context.Context, channelID string) error {
	if m.confirm != nil && !m.confirm("Delete this channel? This cannot be undone.") {
		return nil
	}

	if err := m.gateway.DeleteChannel(ctx, channelID); err != nil {
		m.toasts.Error("Failed to delete channel.")
		return err
	}

	m.mu.Lock()
	kept := m.channels[:0]
	for _, ch := range m.channels {
		if ch.ID != channelID {
			kept = append(kept, ch)
		}
	}
	m.channels = kept
	m.mu.Unlock()

	m.toasts.Success("Channel deleted.")
	return nil
}
