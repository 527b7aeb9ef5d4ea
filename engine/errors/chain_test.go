package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrap_UnwrapsToSentinel(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("underlying reader failure")
	err := Wrap(KindStorage, ErrKeyNotFound, cause, "key %s", "abc")

	require.True(t, stderrors.Is(err, ErrKeyNotFound))
	require.True(t, stderrors.Is(err, ErrTrackingCopy))
	require.Contains(t, err.Error(), "storage")
	require.Contains(t, err.Error(), "key abc")
	require.Contains(t, err.Error(), "underlying reader failure")
	require.Equal(t, cause, err.Cause())
}

func TestNew_NoContext(t *testing.T) {
	t.Parallel()

	err := New(KindPrecondition, ErrRootNotFound, "")
	require.Equal(t, "precondition: root not found", err.Error())
}

func TestChain_AddIgnoresNil(t *testing.T) {
	t.Parallel()

	var c Chain
	c.Add(nil)
	require.True(t, c.IsEmpty())

	c.Add(ErrGasDepleted)
	c.Add(ErrRevert)
	require.False(t, c.IsEmpty())
	require.Len(t, c.Errors(), 2)
	require.Contains(t, c.Error(), "gas depleted")
	require.Contains(t, c.Error(), "reverted")
}
