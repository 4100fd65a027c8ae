package events_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/stretchr/testify/require"
)

func TestSendRelease(t *testing.T) {
	evts := events.New()

	ch1 := evts.Acquire("one")
	ch2 := evts.Acquire("two")
	require.Equal(t, 2, evts.Len())

	evts.Send("block")
	require.Equal(t, "block", <-ch1)
	require.Equal(t, "block", <-ch2)

	require.NoError(t, evts.Release("one"))
	_, open := <-ch1
	require.False(t, open)

	require.Error(t, evts.Release("one"))

	evts.Shutdown()
	_, open = <-ch2
	require.False(t, open)
	require.Zero(t, evts.Len())
}

func TestSendDoesNotBlock(t *testing.T) {
	evts := events.New()
	ch := evts.Acquire("slow")

	for range 500 {
		evts.Send("block")
	}

	require.Len(t, ch, cap(ch))
}
