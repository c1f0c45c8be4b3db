package input

// Source delivers the keys pressed during a frame.
type Source interface {
	Poll(frame uint64) []Key
}

// Script replays a fixed frame → keys table. Frames without entries yield
// nothing.
type Script struct {
	presses map[uint64][]Key
}

func NewScript() *Script {
	return &Script{presses: make(map[uint64][]Key)}
}

// Press schedules key for frame. Several keys in one frame are delivered in
// the order they were scheduled.
func (s *Script) Press(frame uint64, key Key) {
	s.presses[frame] = append(s.presses[frame], key)
}

func (s *Script) Poll(frame uint64) []Key {
	return s.presses[frame]
}

// Len returns the number of scheduled presses.
func (s *Script) Len() int {
	n := 0
	for _, keys := range s.presses {
		n += len(keys)
	}
	return n
}
