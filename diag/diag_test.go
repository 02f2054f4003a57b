package diag

import "testing"

func TestFuncLevels(t *testing.T) {
	var got []Level
	lg := Func(func(level Level, format string, args ...interface{}) {
		got = append(got, level)
	})
	lg.Infof("a")
	lg.Warnf("b")
	lg.Errorf("c")

	expected := []Level{LevelInfo, LevelWarn, LevelError}
	if len(got) != len(expected) {
		t.Fatalf("Expected %d records, got %d", len(expected), len(got))
	}
	for i, l := range expected {
		if got[i] != l {
			t.Errorf("Record %d: expected %s, got %s", i, l, got[i])
		}
	}
}

func TestLevelString(t *testing.T) {
	testCases := map[Level]string{
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
		Level(99):  "UNKNOWN",
	}
	for l, expected := range testCases {
		if s := l.String(); s != expected {
			t.Errorf("Level(%d).String(): expected %s, got %s", l, expected, s)
		}
	}
}

func TestDiscard(t *testing.T) {
	Discard.Infof("dropped %d", 1)
	Discard.Errorf("dropped")
}
