package client

import (
	"context"
	"testing"

	"points-exchange/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddChannelBlockedBelowMinimum(t *testing.T) {
	fb, gateway := newFakeBackend(t)
	fb.mu.Lock()
	fb.profile.Points = 2.5
	fb.mu.Unlock()
	toasts := NewToasts()

	add := NewAddChannelController(gateway, toasts)
	require.NoError(t, add.Load(context.Background()))
	assert.False(t, add.CanSubmit())

	_, err := add.Submit(context.Background(), services.ChannelInput{
		Platform: "telegram", Name: "Blocked", URL: "https://t.me/blocked",
	})
	assert.ErrorIs(t, err, services.ErrInsufficientBalance)

	// The gate fires client-side; no create request leaves the machine.
	assert.Equal(t, 0, fb.callCount("POST /channels"))
	assert.Contains(t, toastMessages(toasts), "Insufficient balance! You need at least 3 points.")
}

func TestAddChannelSubmit(t *testing.T) {
	fb, gateway := newFakeBackend(t)
	toasts := NewToasts()

	add := NewAddChannelController(gateway, toasts)
	require.NoError(t, add.Load(context.Background()))
	assert.True(t, add.CanSubmit())

	channel, err := add.Submit(context.Background(), services.ChannelInput{
		Platform: "telegram", Name: "Fresh", URL: "https://t.me/fresh",
	})
	require.NoError(t, err)
	assert.Equal(t, "Fresh", channel.Name)
	assert.Equal(t, 1, fb.callCount("POST /channels"))
	assert.Contains(t, toastMessages(toasts), "Channel added successfully!")
}

func TestMyTasksDeleteNeedsConfirmation(t *testing.T) {
	fb, gateway := newFakeBackend(t)
	fb.setChannels(testChannels())
	toasts := NewToasts()

	declined := NewMyTasksController(gateway, toasts, func(string) bool { return false })
	require.NoError(t, declined.Load(context.Background()))

	require.NoError(t, declined.Delete(context.Background(), "ch-1"))
	assert.Equal(t, 0, fb.callCount("DELETE /channels/ch-1"))
	assert.Len(t, declined.Channels(), 2)

	accepted := NewMyTasksController(gateway, toasts, func(string) bool { return true })
	require.NoError(t, accepted.Load(context.Background()))

	require.NoError(t, accepted.Delete(context.Background(), "ch-1"))
	assert.Equal(t, 1, fb.callCount("DELETE /channels/ch-1"))
	assert.Len(t, accepted.Channels(), 1)
}
