package render

// SwitchStack backs value-switch blocks inside templates. Every render
// call receives a fresh instance through the render context, so nested
// switches stay scoped to one evaluation and concurrent renders never
// share state.
//
// Template usage:
//
//	{{ sw.Begin(field.htmlType) }}
//	{% if sw.Case("date", "dateTime") %}…{% endif %}
//	{% if sw.Default() %}…{% endif %}
//	{{ sw.End() }}
type SwitchStack struct {
	frames []switchFrame
}

type switchFrame struct {
	value   any
	matched bool
}

// NewSwitchStack returns an empty stack.
func NewSwitchStack() *SwitchStack {
	return &SwitchStack{}
}

// Begin opens a switch over value. It returns an empty string so it can be
// emitted directly from an output tag.
func (s *SwitchStack) Begin(value any) string {
	s.frames = append(s.frames, switchFrame{value: value})
	return ""
}

// Case reports whether the innermost switch value matches one of the
// candidates. At most one case per switch matches; later cases see the
// switch as already satisfied.
func (s *SwitchStack) Case(values ...any) bool {
	frame := s.top()
	if frame == nil || frame.matched {
		return false
	}
	for _, value := range values {
		if value == frame.value {
			frame.matched = true
			return true
		}
	}
	return false
}

// Default reports whether no case of the innermost switch matched.
func (s *SwitchStack) Default() bool {
	frame := s.top()
	return frame != nil && !frame.matched
}

// End closes the innermost switch. Like Begin it renders as an empty
// string.
func (s *SwitchStack) End() string {
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
	return ""
}

func (s *SwitchStack) top() *switchFrame {
	if len(s.frames) == 0 {
		return nil
	}
	return &s.frames[len(s.frames)-1]
}
