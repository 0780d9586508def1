package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/posterman/orderbot/pkg/domain"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
// Each input line is a JSON string, an object with a "message" field, or raw text.
// Each turn is written as one encoded domain.Turn.
type JSONHandler struct {
	Reader    *bufio.Reader
	Encoder   *json.Encoder
	Sanitizer Sanitizer
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:    bufio.NewReader(r),
		Encoder:   json.NewEncoder(w),
		Sanitizer: NewSanitizer(),
	}
}

func (h *JSONHandler) Output(ctx context.Context, turn domain.Turn) error {
	return h.Encoder.Encode(turn)
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	for {
		line, err := h.Reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			if err != nil {
				return "", err
			}
			continue
		}

		text := decodeUtterance(line)
		clean, cerr := h.Sanitizer.Clean(text)
		if cerr != nil {
			if encErr := h.Encoder.Encode(map[string]string{"error": cerr.Error()}); encErr != nil {
				return "", encErr
			}
			if err != nil {
				return "", err
			}
			continue
		}
		return clean, nil
	}
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(map[string]string{"system": msg})
}

func decodeUtterance(line string) string {
	var s string
	if err := json.Unmarshal([]byte(line), &s); err == nil {
		return s
	}
	var req struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal([]byte(line), &req); err == nil && req.Message != nil {
		return *req.Message
	}
	return line
}
