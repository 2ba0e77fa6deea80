package envutil

import (
	"testing"
	"time"
)

func TestGetEnvFallsBackOnBlank(t *testing.T) {
	t.Setenv("EDU_TEST_BLANK", "  ")
	if got := GetEnv("EDU_TEST_BLANK", "fallback", nil); got != "fallback" {
		t.Fatalf("GetEnv: got %q", got)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("EDU_TEST_INT", "7")
	if got := GetEnvAsInt("EDU_TEST_INT", 3, nil); got != 7 {
		t.Fatalf("GetEnvAsInt: got %d", got)
	}
	t.Setenv("EDU_TEST_INT", "seven")
	if got := GetEnvAsInt("EDU_TEST_INT", 3, nil); got != 3 {
		t.Fatalf("GetEnvAsInt invalid: got %d", got)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("EDU_TEST_BOOL", "on")
	if !GetEnvAsBool("EDU_TEST_BOOL", false, nil) {
		t.Fatalf("expected true")
	}
	t.Setenv("EDU_TEST_BOOL", "maybe")
	if GetEnvAsBool("EDU_TEST_BOOL", false, nil) {
		t.Fatalf("expected default false")
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("EDU_TEST_DUR", "250ms")
	if got := GetEnvAsDuration("EDU_TEST_DUR", time.Second, nil); got != 250*time.Millisecond {
		t.Fatalf("duration string: got %v", got)
	}
	t.Setenv("EDU_TEST_DUR", "40")
	if got := GetEnvAsDuration("EDU_TEST_DUR", time.Second, nil); got != 40*time.Millisecond {
		t.Fatalf("bare ms: got %v", got)
	}
}
