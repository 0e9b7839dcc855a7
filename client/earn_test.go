package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"points-exchange/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEarnVerifyGatedByTimer(t *testing.T) {
	fb, gateway := newFakeBackend(t)
	fb.setChannels(testChannels())
	toasts := NewToasts()

	var opened []string
	earn := NewEarnController(gateway, toasts, func(url string) { opened = append(opened, url) })
	require.NoError(t, earn.Load(context.Background()))

	assert.False(t, earn.CanVerify("ch-1"), "never clicked")

	earn.OpenFollowLink("ch-1")
	assert.Equal(t, []string{"https://t.me/alpha"}, opened)
	assert.Equal(t, FollowVerifySeconds, earn.SecondsLeft("ch-1"))
	assert.False(t, earn.CanVerify("ch-1"))

	earn.Tick()
	earn.Tick()
	assert.False(t, earn.CanVerify("ch-1"), "one second left")

	earn.Tick()
	assert.True(t, earn.CanVerify("ch-1"))

	// Verify before the timer elapses is a silent no-op.
	assert.False(t, earn.CanVerify("ch-2"))
	require.NoError(t, earn.Verify(context.Background(), "ch-2"))
	assert.Equal(t, 0, fb.callCount("POST /rpc/claim_follow_reward"))
}

func TestEarnVerifySuccessRemovesEntry(t *testing.T) {
	fb, gateway := newFakeBackend(t)
	fb.setChannels(testChannels())
	toasts := NewToasts()

	earn := NewEarnController(gateway, toasts, nil)
	require.NoError(t, earn.Load(context.Background()))

	earn.OpenFollowLink("ch-1")
	for i := 0; i < FollowVerifySeconds; i++ {
		earn.Tick()
	}
	require.NoError(t, earn.Verify(context.Background(), "ch-1"))

	assert.Equal(t, 1, fb.callCount("POST /rpc/claim_follow_reward"))

	ids := []string{}
	for _, ch := range earn.Channels() {
		ids = append(ids, ch.ID)
	}
	assert.Equal(t, []string{"ch-2"}, ids)
	assert.Contains(t, toastMessages(toasts), "Success! You earned 3 points.")
}

func TestEarnVerifyFailureKeepsList(t *testing.T) {
	fb, gateway := newFakeBackend(t)
	fb.setChannels(testChannels())
	fb.fail("POST /rpc/claim_follow_reward", http.StatusConflict, "reward already claimed for this channel")
	toasts := NewToasts()

	earn := NewEarnController(gateway, toasts, nil)
	require.NoError(t, earn.Load(context.Background()))

	earn.OpenFollowLink("ch-1")
	for i := 0; i < FollowVerifySeconds; i++ {
		earn.Tick()
	}
	err := earn.Verify(context.Background(), "ch-1")
	require.Error(t, err)

	// Failed claim: the list is untouched and the duplicate gets its own message.
	assert.Len(t, earn.Channels(), 2)
	assert.Contains(t, toastMessages(toasts), "You already claimed this reward.")
}

func TestEarnLoadFailureKeepsPreviousList(t *testing.T) {
	fb, gateway := newFakeBackend(t)
	fb.setChannels(testChannels())
	toasts := NewToasts()

	earn := NewEarnController(gateway, toasts, nil)
	require.NoError(t, earn.Load(context.Background()))
	require.Len(t, earn.Channels(), 2)

	fb.fail("GET /channels", http.StatusInternalServerError, "db down")
	require.Error(t, earn.Load(context.Background()))
	assert.Len(t, earn.Channels(), 2)
}

func TestEarnBalanceNotUpdatedOptimistically(t *testing.T) {
	fb, gateway := newFakeBackend(t)
	fb.setChannels(testChannels())

	earn := NewEarnController(gateway, NewToasts(), nil)
	require.NoError(t, earn.Load(context.Background()))
	require.Equal(t, 5.0, earn.Balance())

	earn.OpenFollowLink("ch-1")
	for i := 0; i < FollowVerifySeconds; i++ {
		earn.Tick()
	}
	require.NoError(t, earn.Verify(context.Background(), "ch-1"))

	// The claim succeeded but the balance waits for the change
	// notification; nothing is added locally.
	assert.Equal(t, 5.0, earn.Balance())
}

func TestEarnBalanceFollowsChangeNotifications(t *testing.T) {
	fb, gateway := newFakeBackend(t)
	fb.setChannels(testChannels())

	earn := NewEarnController(gateway, NewToasts(), nil)
	require.NoError(t, earn.Load(context.Background()))
	require.Equal(t, 5.0, earn.Balance())

	require.NoError(t, earn.Subscribe(context.Background()))

	// A claim happened server-side; the pushed profile row carries the new
	// balance and the controller picks it up.
	fb.pushProfile(models.Profile{ID: "user-1", Points: 7.0})
	require.Eventually(t, func() bool {
		return earn.Balance() == 7.0
	}, time.Second, 10*time.Millisecond)

	// After teardown the subscription is gone; further pushes change nothing.
	earn.Close()
	fb.pushProfile(models.Profile{ID: "user-1", Points: 42.0})
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 7.0, earn.Balance())
}

func TestEarnTickAfterCloseIsNoop(t *testing.T) {
	fb, gateway := newFakeBackend(t)
	fb.setChannels(testChannels())

	earn := NewEarnController(gateway, NewToasts(), nil)
	require.NoError(t, earn.Load(context.Background()))

	earn.OpenFollowLink("ch-1")
	earn.Close()
	earn.Tick()

	assert.Equal(t, FollowVerifySeconds, earn.SecondsLeft("ch-1"))
}
