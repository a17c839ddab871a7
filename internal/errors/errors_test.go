package errors

import (
	"errors"
	"testing"
)

type customError struct {
	Msg string
}

func (e customError) Error() string { return e.Msg }

func TestNew(t *testing.T) {
	err := New("test error")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "test error" {
		t.Errorf("expected 'test error', got '%s'", err.Error())
	}
}

func TestWrap(t *testing.T) {
	baseErr := errors.New("base error")

	t.Run("wrap non-nil error", func(t *testing.T) {
		wrapped := Wrap(baseErr, "wrapped")
		if wrapped == nil {
			t.Fatal("expected wrapped error, got nil")
		}
		expected := "wrapped: base error"
		if wrapped.Error() != expected {
			t.Errorf("expected '%s', got '%s'", expected, wrapped.Error())
		}
		if !errors.Is(wrapped, baseErr) {
			t.Error("expected wrapped error to wrap baseErr")
		}
	})

	t.Run("wrap nil error", func(t *testing.T) {
		wrapped := Wrap(nil, "wrapped")
		if wrapped != nil {
			t.Errorf("expected nil, got %v", wrapped)
		}
	})
}

func TestWrapf(t *testing.T) {
	baseErr := errors.New("base error")

	t.Run("wrapf non-nil error", func(t *testing.T) {
		wrapped := Wrapf(baseErr, "wrapped %d", 123)
		if wrapped == nil {
			t.Fatal("expected wrapped error, got nil")
		}
		expected := "wrapped 123: base error"
		if wrapped.Error() != expected {
			t.Errorf("expected '%s', got '%s'", expected, wrapped.Error())
		}
		if !errors.Is(wrapped, baseErr) {
			t.Error("expected wrapped error to wrap baseErr")
		}
	})

	t.Run("wrapf nil error", func(t *testing.T) {
		wrapped := Wrapf(nil, "wrapped %d", 123)
		if wrapped != nil {
			t.Errorf("expected nil, got %v", wrapped)
		}
	})
}

func TestIs(t *testing.T) {
	if !Is(ErrNotFound, ErrNotFound) {
		t.Error("expected ErrNotFound to be ErrNotFound")
	}

	wrapped := Wrap(ErrNotFound, "context")
	if !Is(wrapped, ErrNotFound) {
		t.Error("expected wrapped ErrNotFound to be ErrNotFound")
	}

	if Is(ErrNotFound, ErrConflict) {
		t.Error("expected ErrNotFound NOT to be ErrConflict")
	}
}

func TestAs(t *testing.T) {
	custom := customError{Msg: "custom"}
	wrapped := Wrap(custom, "context")

	var target customError
	if !As(wrapped, &target) {
		t.Fatal("expected wrapped error to be able to extract target")
	}
	if target.Msg != "custom" {
		t.Errorf("expected 'custom', got '%s'", target.Msg)
	}
}

func TestStandardErrors(t *testing.T) {
	tests := []struct {
		err  error
		text string
	}{
		{ErrNotFound, "not found"},
		{ErrConflict, "conflict"},
		{ErrInvalidInput, "invalid input"},
		{ErrUnauthorized, "unauthorized"},
		{ErrForbidden, "forbidden"},
		{ErrUnsupported, "unsupported operation"},
		{ErrRejected, "operation rejected"},
		{ErrProtocol, "protocol violation"},
		{ErrRemoteService, "remote service error"},
	}

	for _, tt := range tests {
		if tt.err.Error() != tt.text {
			t.Errorf("expected text '%s' for error, got '%s'", tt.text, tt.err.Error())
		}
	}
}

func TestJoin(t *testing.T) {
	domainErr := Wrap(ErrRejected, "deletion is not allowed")
	cause := NewRemoteError(400, "deletion is not allowed for this key")

	joined := Join(domainErr, cause)
	if !Is(joined, ErrRejected) {
		t.Error("expected joined error to match ErrRejected")
	}
	if !Is(joined, ErrRemoteService) {
		t.Error("expected joined error to keep the remote cause")
	}

	if Join(domainErr, nil) != domainErr {
		t.Error("expected Join with nil cause to return the domain error")
	}
}

func TestRemoteError(t *testing.T) {
	t.Run("status sentinels", func(t *testing.T) {
		tests := []struct {
			status   int
			sentinel error
		}{
			{404, ErrNotFound},
			{401, ErrUnauthorized},
			{403, ErrForbidden},
			{409, ErrConflict},
		}
		for _, tt := range tests {
			err := error(NewRemoteError(tt.status, "boom"))
			if !Is(err, tt.sentinel) {
				t.Errorf("expected status %d to match %v", tt.status, tt.sentinel)
			}
			if !Is(err, ErrRemoteService) {
				t.Errorf("expected status %d to match ErrRemoteService", tt.status)
			}
		}
	})

	t.Run("bad request has no status sentinel", func(t *testing.T) {
		err := error(NewRemoteError(400, "invalid request"))
		if Is(err, ErrNotFound) || Is(err, ErrConflict) {
			t.Error("expected 400 to map only to ErrRemoteService")
		}
	})

	t.Run("messages preserved verbatim", func(t *testing.T) {
		err := NewRemoteError(500, "first", "Second Message")
		expected := "remote service error: status 500: first; Second Message"
		if err.Error() != expected {
			t.Errorf("expected '%s', got '%s'", expected, err.Error())
		}
		if !err.Contains("second message") {
			t.Error("expected case-insensitive match")
		}
	})

	t.Run("as remote through wrapping", func(t *testing.T) {
		wrapped := Wrap(NewRemoteError(503, "sealed"), "transit encrypt")
		remoteErr, ok := AsRemote(wrapped)
		if !ok {
			t.Fatal("expected RemoteError in chain")
		}
		if remoteErr.StatusCode != 503 {
			t.Errorf("expected 503, got %d", remoteErr.StatusCode)
		}

		if _, ok := AsRemote(ErrNotFound); ok {
			t.Error("expected no RemoteError in plain sentinel")
		}
	})
}
