package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		message string
		max     int
		want    []string
	}{
		{"short", "hello", 10, []string{"hello"}},
		{"empty", "", 10, nil},
		{"line break", "first line\nsecond line", 15, []string{"first line", "second line"}},
		{"hard cut", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
	}

	for _, tt := range tests {
		got := split(tt.message, tt.max)
		if len(got) != len(tt.want) {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: chunk %d = %q, want %q", tt.name, i, got[i], tt.want[i])
			}
		}
	}
}

func TestSplitKeepsRunesWhole(t *testing.T) {
	msg := strings.Repeat("♻", 5) // 3 bytes each
	for _, chunk := range split(msg, 4) {
		if !strings.HasPrefix(chunk, "♻") || len(chunk)%3 != 0 {
			t.Errorf("chunk split a rune: %q", chunk)
		}
	}
}

func TestDownloadReadsOnePastLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	data, err := download(context.Background(), srv.URL, 10)
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	if len(data) != 11 {
		t.Errorf("expected 11 bytes, got %d", len(data))
	}
}

func TestDownloadNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := download(context.Background(), srv.URL, 10); err == nil {
		t.Error("expected error for 404")
	}
}

func TestTruncate(t *testing.T) {
	if truncate("short", 10) != "short" {
		t.Error("short strings are unchanged")
	}
	if truncate("a long message", 6) != "a long..." {
		t.Errorf("unexpected truncation: %q", truncate("a long message", 6))
	}
}
