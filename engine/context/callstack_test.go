package context

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCallStack_PushPopDepth(t *testing.T) {
	t.Parallel()

	s := NewCallStack(2)
	require.Equal(t, 0, s.Depth())

	require.NoError(t, s.Push(Frame{EntityAddr: [32]byte{1}, EntryPoint: "call"}))
	require.NoError(t, s.Push(Frame{EntityAddr: [32]byte{2}, EntryPoint: "call2"}))
	require.Equal(t, 2, s.Depth())

	err := s.Push(Frame{EntityAddr: [32]byte{3}})
	require.Error(t, err)

	top, ok := s.Top()
	require.True(t, ok)
	require.Equal(t, [32]byte{2}, top.EntityAddr)

	popped := s.Pop()
	require.Equal(t, [32]byte{2}, popped.EntityAddr)
	require.Equal(t, 1, s.Depth())
}

func TestCallStack_ContainsEntity(t *testing.T) {
	t.Parallel()

	s := NewCallStack(5)
	require.NoError(t, s.Push(Frame{EntityAddr: [32]byte{7}}))
	require.True(t, s.ContainsEntity([32]byte{7}))
	require.False(t, s.ContainsEntity([32]byte{8}))
}

func TestCallStack_PopEmpty(t *testing.T) {
	t.Parallel()

	s := NewCallStack(1)
	require.Equal(t, Frame{}, s.Pop())
}
