package input

import "testing"

func TestParseKey(t *testing.T) {
	tests := []struct {
		in      string
		want    Key
		wantErr bool
	}{
		{"up", KeyUp, false},
		{" SPACE ", KeySpace, false},
		{"o", KeyDebug, false},
		{"f13", KeyUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKey(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKey(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKey(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestScriptReplaysInOrder(t *testing.T) {
	s := NewScript()
	s.Press(3, KeyUp)
	s.Press(3, KeySpace)
	s.Press(7, KeyEscape)

	got := s.Poll(3)
	if len(got) != 2 || got[0] != KeyUp || got[1] != KeySpace {
		t.Errorf("unexpected frame 3 keys %v", got)
	}
	if len(s.Poll(4)) != 0 {
		t.Error("expected no keys on frame 4")
	}
	if s.Len() != 3 {
		t.Errorf("expected 3 presses, got %d", s.Len())
	}
}
