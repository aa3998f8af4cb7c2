package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetLevel(t *testing.T) {
	orig := Logger().GetLevel()
	defer Logger().SetLevel(orig)

	if err := SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel(debug): %v", err)
	}
	if got := Logger().GetLevel(); got != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", got)
	}

	if err := SetLevel("  "); err != nil {
		t.Fatalf("SetLevel(blank): %v", err)
	}
	if got := Logger().GetLevel(); got != logrus.DebugLevel {
		t.Errorf("blank name changed level to %v", got)
	}

	if err := SetLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLoggerIsSingleton(t *testing.T) {
	if Logger() != Logger() {
		t.Error("Logger() should return the same instance")
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l == Logger() {
		t.Error("Discard() should not return the shared logger")
	}
	l.Error("dropped")
}
