package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/posterman/orderbot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextHandler_Output(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf,
		WithTextHandlerRenderer(func(s string) (string, error) {
			return "Rendered: " + s, nil
		}),
	)

	err := handler.Output(context.Background(), domain.Turn{
		Reply: domain.NewReply("Hello World", "Yes", "No (Checkout)"),
	})
	require.NoError(t, err)

	output := outBuf.String()
	assert.Contains(t, output, "Rendered: Hello World")
	// Buffers are not terminals, so chips carry no escape codes.
	assert.Contains(t, output, "[Yes] [No (Checkout)]")
}

func TestTextHandler_Output_FreeText(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf)

	require.NoError(t, handler.Output(context.Background(), domain.Turn{Reply: domain.NewReply("Name?")}))
	assert.Equal(t, "Name?\n", outBuf.String())
}

func TestTextHandler_Input(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("  my user input \n"), outBuf)

	val, err := handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "my user input", val)
	assert.Contains(t, outBuf.String(), "> ")

	_, err = handler.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestTextHandler_Input_RejectsAndRetries(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(strings.Repeat("x", 20)+"\nok\n"), outBuf,
		WithTextHandlerSanitizer(Sanitizer{MaxSize: 10}),
	)

	val, err := handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Contains(t, outBuf.String(), "Please try again")
}

func TestTextHandler_SystemOutput(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf)

	require.NoError(t, handler.SystemOutput(context.Background(), "Session reset."))
	assert.Contains(t, outBuf.String(), "[System] Session reset.")
}
