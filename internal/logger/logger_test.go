package logger

import "testing"

func TestEnsureSubstitutesNop(t *testing.T) {
	if _, ok := Ensure(nil).(NopLogger); !ok {
		t.Fatalf("Ensure(nil) did not return a NopLogger")
	}

	zl := ZapLogger{}
	if got := Ensure(zl); got != zl {
		t.Fatalf("Ensure replaced a real logger")
	}
}

func TestPackageHelpersAreNilSafe(t *testing.T) {
	saved := S
	S = nil
	defer func() { S = saved }()

	// Must not panic before Init.
	InfoObj("msg", "k", 1)
	DebugObj("msg", "k", 1)
	WarnObj("msg", "k", 1)
	ErrorObj("msg", "k", 1)
	if err := Close(); err != nil {
		t.Fatalf("Close on uninitialized logger: %v", err)
	}
}

func TestInitLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error", "bogus"} {
		sugar, err := Init(level)
		if err != nil || sugar == nil {
			t.Fatalf("Init(%q) = (%v, %v)", level, sugar, err)
		}
	}
}
