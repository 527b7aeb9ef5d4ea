package context

import (
	logger "github.com/ElrondNetwork/elrond-go-logger"

	engerrors "github.com/casper-network/casper-execution-engine-go/engine/errors"
)

var logCallStack = logger.GetOrCreate("engine/context")

// Frame is one entry on the CallStack: the entity executing and the entry
// point it was invoked with.
type Frame struct {
	EntityAddr [32]byte
	EntryPoint string
}

// CallStack is a bounded stack of Frames, generalizing the teacher's
// StateStack push/pop idiom (arwen/contexts/runtime.go's stateStack
// []*runtimeContext) into an explicit depth-checked call stack, matching
// original_source's RuntimeStack with a configured maximum height.
type CallStack struct {
	frames  []Frame
	maxSize uint32
}

// NewCallStack returns an empty CallStack bounded at maxSize frames.
func NewCallStack(maxSize uint32) *CallStack {
	return &CallStack{maxSize: maxSize}
}

// Push adds frame to the top of the stack, or returns
// ErrRuntimeStackOverflow if the stack is already at its configured
// maximum height.
func (s *CallStack) Push(frame Frame) error {
	if uint32(len(s.frames)) >= s.maxSize {
		return engerrors.New(engerrors.KindExecution, engerrors.ErrRuntimeStackOverflow, "max call depth %d reached", s.maxSize)
	}
	s.frames = append(s.frames, frame)
	logCallStack.Trace("push", "entity", frame.EntityAddr, "entry point", frame.EntryPoint, "depth", len(s.frames))
	return nil
}

// Pop removes and returns the top frame. It is a no-op returning the zero
// Frame if the stack is empty.
func (s *CallStack) Pop() Frame {
	if len(s.frames) == 0 {
		return Frame{}
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	logCallStack.Trace("pop", "entity", top.EntityAddr, "depth", len(s.frames))
	return top
}

// Depth reports the current stack depth.
func (s *CallStack) Depth() int {
	return len(s.frames)
}

// Top returns the current top frame and true, or the zero Frame and false
// if the stack is empty.
func (s *CallStack) Top() (Frame, bool) {
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	return s.frames[len(s.frames)-1], true
}

// ContainsEntity reports whether entityAddr already appears anywhere on
// the stack, used to reject a contract re-entering itself through a chain
// of calls when the system disallows reentrancy for a given entry point
// type.
func (s *CallStack) ContainsEntity(entityAddr [32]byte) bool {
	for _, f := range s.frames {
		if f.EntityAddr == entityAddr {
			return true
		}
	}
	return false
}
