package scan

import (
	"errors"
)

var errPopRoot = errors.New("scan: cannot pop the root context")

// MessageContext tracks one in-progress message boundary while the
// tokenizer descends into nested chunks. Start is the offset into the
// current slice where the message body begins. Bounded is false only for
// the implicit root context, which ends at the end of the stream; for every
// bounded context the invariant consumed <= Length holds, with equality
// meaning the context is exhausted.
type MessageContext struct {
	Start   int
	Length  int
	Bounded bool
}

// contextStack is the ordered set of in-progress message boundaries. The
// root context is always present at the bottom and the innermost (most
// recently descended) context is the active one.
type contextStack struct {
	frames []MessageContext
}

func newContextStack() *contextStack {
	return &contextStack{frames: []MessageContext{{}}}
}

func (s *contextStack) push(start, length int) {
	s.frames = append(s.frames, MessageContext{Start: start, Length: length, Bounded: true})
}

// pop removes and returns the innermost context. It refuses to remove the
// root.
func (s *contextStack) pop() (MessageContext, error) {
	if len(s.frames) <= 1 {
		return MessageContext{}, errPopRoot
	}
	frame := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return frame, nil
}

// peek returns the active (innermost) context.
func (s *contextStack) peek() *MessageContext {
	return &s.frames[len(s.frames)-1]
}

func (s *contextStack) depth() int {
	return len(s.frames)
}

// rebase rewrites every context's bookkeeping to be relative to the next
// slice. It runs exactly once per slice boundary, at the moment resumption
// state is saved: from then on the whole current slice counts as consumed,
// so a bounded frame's remaining byte count becomes Length - (sliceLen -
// Start) and its body now begins at offset 0 of the slice to come. A frame
// that was exactly exhausted rebases to remaining 0 and is popped on the
// next call.
func (s *contextStack) rebase(sliceLen int) {
	for i := range s.frames {
		frame := &s.frames[i]
		if frame.Bounded {
			frame.Length -= sliceLen - frame.Start
		}
		frame.Start = 0
	}
}
