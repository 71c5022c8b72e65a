package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", New(ErrCodeInvalidYear, "year %d", 1789), "INVALID_YEAR: year 1789"},
		{"wrapped", Wrap(ErrCodeNetwork, errors.New("connection refused"), "fetch %s", "/data"),
			"NETWORK_ERROR: fetch /data: connection refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeInternal, cause, "write cache")

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestIs(t *testing.T) {
	stale := New(ErrCodeStale, "superseded by 2016")
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching", stale, ErrCodeStale, true},
		{"other code", stale, ErrCodeNotFound, false},
		{"outer code", Wrap(ErrCodeNetwork, New(ErrCodeTimeout, "slow"), "fetch"), ErrCodeNetwork, true},
		{"inner code", Wrap(ErrCodeNetwork, New(ErrCodeTimeout, "slow"), "fetch"), ErrCodeTimeout, true},
		{"behind fmt wrap", fmt.Errorf("load 2016: %w", stale), ErrCodeStale, true},
		{"coded behind plain behind coded", Wrap(ErrCodeInternal, fmt.Errorf("ctx: %w", stale), "render"), ErrCodeStale, true},
		{"plain", errors.New("plain"), ErrCodeStale, false},
		{"nil", nil, ErrCodeStale, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode Code
		wantMsg  string
	}{
		{"coded", New(ErrCodeUnknownState, "no grid cell for %q", "XX"), ErrCodeUnknownState, `no grid cell for "XX"`},
		{"outermost wins", Wrap(ErrCodeNotFound, New(ErrCodeInternal, "inner"), "year 2020"), ErrCodeNotFound, "year 2020"},
		{"behind fmt wrap", fmt.Errorf("render: %w", New(ErrCodeInvalidChart, "pie")), ErrCodeInvalidChart, "pie"},
		{"plain", errors.New("plain error"), "", "plain error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.wantCode {
				t.Errorf("GetCode() = %q, want %q", got, tt.wantCode)
			}
			if got := UserMessage(tt.err); got != tt.wantMsg {
				t.Errorf("UserMessage() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
	if GetCode(nil) != "" {
		t.Error("GetCode(nil) should be empty")
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"invalid record", New(ErrCodeInvalidRecord, "bad"), true},
		{"unknown state", New(ErrCodeUnknownState, "XX"), true},
		{"wrapped duplicate", Wrap(ErrCodeDuplicateState, errors.New("dup"), "load"), true},
		{"network", New(ErrCodeNetwork, "down"), false},
		{"stale", New(ErrCodeStale, "superseded"), false},
		{"plain", errors.New("plain"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInvalid(tt.err); got != tt.want {
				t.Errorf("IsInvalid() = %v, want %v", got, tt.want)
			}
		})
	}
}
