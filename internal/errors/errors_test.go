package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		contains []string
	}{
		{
			"decode with path and cause",
			NewDecodeError("a.jpg", io.ErrUnexpectedEOF),
			[]string{"decode", "a.jpg", "unexpected EOF"},
		},
		{
			"validation without path",
			NewValidationError("min size must be >= 1", nil),
			[]string{"validation", "min size"},
		},
		{
			"not found",
			NewNotFoundError("no images", "/tmp/empty"),
			[]string{"not_found", "/tmp/empty"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, missing %q", msg, want)
				}
			}
		})
	}
}

func TestIsType_Wrapped(t *testing.T) {
	base := NewUnreadableError("missing.png", io.EOF)
	wrapped := fmt.Errorf("batch: %w", base)

	if !IsType(wrapped, ErrorTypeUnreadable) {
		t.Error("IsType should see through fmt.Errorf wrapping")
	}
	if IsType(wrapped, ErrorTypeDecode) {
		t.Error("IsType matched the wrong type")
	}
	if TypeOf(wrapped) != ErrorTypeUnreadable {
		t.Errorf("TypeOf: got %q", TypeOf(wrapped))
	}
	if !stderrors.Is(wrapped, io.EOF) {
		t.Error("Unwrap should expose the cause")
	}
}

func TestIsType_PlainError(t *testing.T) {
	err := stderrors.New("plain")
	if IsType(err, ErrorTypeProcessing) {
		t.Error("plain errors have no type")
	}
	if TypeOf(err) != "" {
		t.Errorf("TypeOf plain error: got %q, want empty", TypeOf(err))
	}
}
