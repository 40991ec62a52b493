package llm

import (
	"bytes"
	"encoding/json"
)

var doneFrame = []byte("data: [DONE]\n\n")

// Stream is a completion relayed as SSE frames. Frames is closed when the
// upstream ends; Wait then reports the concatenated text or the failure.
type Stream struct {
	frames chan []byte
	done   chan struct{}
	text   string
	err    error
}

func newStream(buffer int) *Stream {
	return &Stream{
		frames: make(chan []byte, buffer),
		done:   make(chan struct{}),
	}
}

func (s *Stream) Frames() <-chan []byte {
	return s.frames
}

// Wait blocks until the upstream has finished.
func (s *Stream) Wait() (string, error) {
	<-s.done
	return s.text, s.err
}

// ContentFrame encodes one delta as `data: {"content":"..."}\n\n`.
func ContentFrame(content string) []byte {
	return EventFrame(struct {
		Content string `json:"content"`
	}{Content: content})
}

// EventFrame encodes v as a single SSE data frame.
func EventFrame(v interface{}) []byte {
	var buf bytes.Buffer
	buf.WriteString("data: ")
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		// v is always one of our own frame structs.
		panic(err)
	}
	// Encode terminates with a single newline; frames need a blank line.
	buf.WriteByte('\n')
	return buf.Bytes()
}

func DoneFrame() []byte {
	return append([]byte(nil), doneFrame...)
}
