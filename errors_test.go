package mpsc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPoisonError_ExportedAlias tests that the re-exported type is usable
// through the public API.
func TestPoisonError_ExportedAlias(t *testing.T) {
	var err error = &PoisonError{ChannelID: "c-1", Cause: "boom"}

	require.ErrorIs(t, err, ErrPoisoned)
	require.Contains(t, err.Error(), "c-1")

	var chErr ChannelError
	require.True(t, errors.As(err, &chErr))
	require.True(t, chErr.IsChannelError())
}

// TestSentinels_SurviveWrapping tests that wrapped sentinels still match.
func TestSentinels_SurviveWrapping(t *testing.T) {
	for _, sentinel := range []error{ErrDisconnected, ErrEmpty, ErrHandleClosed, ErrPoisoned} {
		wrapped := fmt.Errorf("worker 3: %w", sentinel)

		require.ErrorIs(t, wrapped, sentinel)
	}
}

// TestSentinels_Distinct tests that no sentinel matches another.
func TestSentinels_Distinct(t *testing.T) {
	require.NotErrorIs(t, ErrDisconnected, ErrHandleClosed)
	require.NotErrorIs(t, ErrEmpty, ErrDisconnected)
	require.NotErrorIs(t, ErrHandleClosed, ErrPoisoned)
}

// TestPoisonError_FromChannel tests the error a surfaced poison returns.
func TestPoisonError_FromChannel(t *testing.T) {
	cause := errors.New("iterator failed")
	tx, _ := Channel[int](WithPoisonPolicy(PoisonSurface))

	require.Panics(t, func() {
		_, _ = tx.SendAll(func(func(int) bool) { panic(cause) })
	})

	err := tx.Send(1)
	require.ErrorIs(t, err, ErrPoisoned)
	require.ErrorIs(t, err, cause)

	perr, ok := errors.AsType[*PoisonError](err)
	require.True(t, ok)
	require.Equal(t, tx.ID(), perr.ChannelID)
}
