package input

import (
	"fmt"
	"strings"
)

// Key identifies a keyboard key delivered by an input source.
type Key int

const (
	KeyUnknown Key = iota
	KeyUp
	KeyRight
	KeyDown
	KeyLeft
	KeySpace
	KeyEscape
	KeyDebug // toggles collider overlay ("o")
)

var keyNames = map[Key]string{
	KeyUp:     "up",
	KeyRight:  "right",
	KeyDown:   "down",
	KeyLeft:   "left",
	KeySpace:  "space",
	KeyEscape: "escape",
	KeyDebug:  "o",
}

func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "unknown"
}

// ParseKey maps a key name as written in level files to a Key.
func ParseKey(name string) (Key, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range keyNames {
		if n == name {
			return k, nil
		}
	}
	return KeyUnknown, fmt.Errorf("unknown key %q", name)
}
