package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxMediaSize is the download ceiling when no image limit is configured (20MB).
const maxMediaSize = 20 * 1024 * 1024

var downloadClient = &http.Client{Timeout: 30 * time.Second}

// download fetches url, reading at most limit+1 bytes so an oversized file
// still reaches the scanner's size check instead of being silently cut.
func download(ctx context.Context, url string, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = maxMediaSize
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := downloadClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: HTTP %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, limit+1))
}

// split breaks message into chunks of at most max bytes, preferring line breaks.
func split(message string, max int) []string {
	var chunks []string
	for len(message) > max {
		cut := strings.LastIndex(message[:max], "\n")
		if cut <= 0 {
			cut = max
			// keep multi-byte runes whole
			for cut > 0 && !isRuneStart(message[cut]) {
				cut--
			}
			if cut == 0 {
				cut = max
			}
		}
		chunks = append(chunks, message[:cut])
		message = strings.TrimLeft(message[cut:], "\n")
	}
	if message != "" {
		chunks = append(chunks, message)
	}
	return chunks
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return s[:max] + "..."
}
