package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNewAndError(t *testing.T) {
	err := New(ErrCodeInvalidSetting, "layer height must be positive, got %d", -5)

	if got := err.Error(); got != "INVALID_SETTING: layer height must be positive, got -5" {
		t.Errorf("Error() = %q", got)
	}
	if !Is(err, ErrCodeInvalidSetting) {
		t.Error("Is() should match the code")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is() should not match another code")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk on fire")
	err := Wrap(ErrCodeInvalidScene, cause, "load scene %s", "part.json")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
	if got := err.Error(); got != "INVALID_SCENE: load scene part.json: disk on fire" {
		t.Errorf("Error() = %q", got)
	}

	// Codes survive further fmt wrapping.
	outer := fmt.Errorf("command failed: %w", err)
	if !Is(outer, ErrCodeInvalidScene) {
		t.Error("Is() should see through fmt wrapping")
	}
	if got := GetCode(outer); got != ErrCodeInvalidScene {
		t.Errorf("GetCode() = %q", got)
	}
}

func TestGetCodePlainError(t *testing.T) {
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeFileNotFound, "scene not found")
	if got := UserMessage(err); got != "scene not found" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(stderrors.New("raw")); got != "raw" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
