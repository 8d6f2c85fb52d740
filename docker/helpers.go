package docker

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/docker/docker/pkg/stdcopy"
)

// decodeJSON is a tiny indirection around json.NewDecoder so call sites
// read like the SDK's own one-shot response parsing.
func decodeJSON(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}

// demuxLogLines demultiplexes the 8-byte-header multiplexed stream Docker
// sends for non-TTY containers (via stdcopy, the same mechanism the
// teacher's ephemeral build-container runner used to collect build
// output) and splits the result into lines, honoring tail/follow the same
// way the reference implementation's get_logs does.
func demuxLogLines(r io.Reader, tail uint32, follow bool) ([]string, error) {
	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, r); err != nil && err != io.EOF {
		return nil, err
	}

	var lines []string
	for _, buf := range []*bytes.Buffer{&stdout, &stderr} {
		scanner := bufio.NewScanner(buf)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
			if !follow && uint32(len(lines)) >= tail {
				return lines, nil
			}
		}
	}
	return lines, nil
}
