package generation

import (
	"bufio"
	"bytes"
	"context"
	"io"
)

const maxSSELine = 1 << 20

// readSSE calls onData with the payload of every "data:" line until the
// body ends. A "[DONE]" payload ends the stream.
func readSSE(ctx context.Context, body io.Reader, onData func([]byte) error) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64<<10), maxSSELine)

	for scanner.Scan() {
		line := scanner.Bytes()
		if !bytes.HasPrefix(line, []byte("data:")) {
			continue
		}
		data := bytes.TrimSpace(line[len("data:"):])
		if len(data) == 0 {
			continue
		}
		if bytes.Equal(data, []byte("[DONE]")) {
			return nil
		}
		if err := onData(data); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return scanner.Err()
}
