package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bowerhall/regen/internal/gateway"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

var jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")

type fakeClassifier struct {
	result *gateway.Classification
	err    error
	calls  int
	last   gateway.Image
}

func (f *fakeClassifier) Classify(ctx context.Context, img gateway.Image) (*gateway.Classification, error) {
	f.calls++
	f.last = img
	return f.result, f.err
}

type fakeSource struct {
	img    gateway.Image
	err    error
	closed int
}

func (f *fakeSource) Capture(ctx context.Context) (gateway.Image, error) {
	return f.img, f.err
}

func (f *fakeSource) Close() error {
	f.closed++
	return nil
}

func TestDetectImage(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		max     int64
		want    string
		wantErr error
	}{
		{"png", pngHeader, 1024, "image/png", nil},
		{"jpeg", jpegHeader, 1024, "image/jpeg", nil},
		{"text", []byte("hello, this is not an image"), 1024, "", ErrUnsupportedImage},
		{"too large", pngHeader, 8, "", ErrImageTooLarge},
		{"no limit", pngHeader, 0, "image/png", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectImage(tt.data, tt.max)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestScanRendersResult(t *testing.T) {
	classifier := &fakeClassifier{result: &gateway.Classification{PredictedClass: "plastic", IsRecyclable: true, Confidence: 0.87}}
	scanner := New(classifier, 5*1024*1024)

	st, err := scanner.Scan(context.Background(), gateway.Image{Data: pngHeader})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	out := Render(st)
	for _, want := range []string{"Recyclable", "Detected Material: plastic", "Confidence: 87%"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Non-recyclable") {
		t.Errorf("recyclable result rendered as non-recyclable:\n%s", out)
	}

	if classifier.last.MediaType != "image/png" || classifier.last.Name != "waste.png" {
		t.Errorf("unexpected upload metadata: %s %s", classifier.last.Name, classifier.last.MediaType)
	}
}

func TestScanNonRecyclable(t *testing.T) {
	classifier := &fakeClassifier{result: &gateway.Classification{PredictedClass: "styrofoam", Confidence: 0.6}}

	st, _ := New(classifier, 0).Scan(context.Background(), gateway.Image{Data: pngHeader})

	lines := Lines(*st.Result)
	if lines[0] != "🚫 Non-recyclable" {
		t.Errorf("unexpected verdict: %s", lines[0])
	}
	if lines[2] != "Confidence: 60%" {
		t.Errorf("unexpected confidence line: %s", lines[2])
	}
}

func TestScanFailureLeavesNoResult(t *testing.T) {
	classifier := &fakeClassifier{err: context.DeadlineExceeded}

	st, err := New(classifier, 0).Scan(context.Background(), gateway.Image{Data: pngHeader})
	if err == nil {
		t.Fatal("expected error")
	}

	if st.Result != nil {
		t.Error("classification must be unset after failure")
	}
	if st.Error != ErrorMessage {
		t.Errorf("expected %q, got %q", ErrorMessage, st.Error)
	}
}

func TestScanValidationSkipsNetwork(t *testing.T) {
	classifier := &fakeClassifier{}
	scanner := New(classifier, 16)

	st, err := scanner.Scan(context.Background(), gateway.Image{Data: append(pngHeader, make([]byte, 64)...)})
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(st.Error, "too large") {
		t.Errorf("unexpected message: %s", st.Error)
	}

	st, err = scanner.Scan(context.Background(), gateway.Image{Data: []byte("GIF? no")})
	if !IsValidation(err) || st.Error != UnsupportedMessage {
		t.Errorf("expected unsupported message, got %q (%v)", st.Error, err)
	}

	if classifier.calls != 0 {
		t.Errorf("expected no classifier calls, got %d", classifier.calls)
	}
}

func TestScanSourceAlwaysCloses(t *testing.T) {
	ok := &fakeClassifier{result: &gateway.Classification{PredictedClass: "paper", IsRecyclable: true, Confidence: 1}}
	failing := &fakeClassifier{err: errors.New("boom")}

	tests := []struct {
		name       string
		classifier *fakeClassifier
		source     *fakeSource
	}{
		{"success", ok, &fakeSource{img: gateway.Image{Data: pngHeader}}},
		{"capture error", ok, &fakeSource{err: errors.New("camera unplugged")}},
		{"validation error", ok, &fakeSource{img: gateway.Image{Data: []byte("plain text")}}},
		{"classify error", failing, &fakeSource{img: gateway.Image{Data: pngHeader}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			New(tt.classifier, 1024).ScanSource(context.Background(), tt.source)
			if tt.source.closed != 1 {
				t.Errorf("expected source closed once, got %d", tt.source.closed)
			}
		})
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bottle.png")
	if err := os.WriteFile(path, pngHeader, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	src, err := OpenFile(path, 1024)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}

	img, err := src.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if img.Name != "bottle.png" || len(img.Data) != len(pngHeader) {
		t.Errorf("unexpected image: %s (%d bytes)", img.Name, len(img.Data))
	}

	if err := src.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("second Close should be a no-op: %v", err)
	}
	if _, err := src.Capture(context.Background()); err == nil {
		t.Error("Capture after Close should fail")
	}
}

func TestOpenFileRejectsDirectory(t *testing.T) {
	if _, err := OpenFile(t.TempDir(), 0); err == nil {
		t.Error("expected error for directory")
	}
}

func TestHolderReleasesOnReplaceAndExit(t *testing.T) {
	var h Holder
	first := &fakeSource{}
	second := &fakeSource{}

	h.Replace(first)
	if !h.Active() {
		t.Error("holder should be active")
	}

	h.Replace(second)
	if first.closed != 1 {
		t.Errorf("replaced source should be closed, got %d", first.closed)
	}

	h.Release()
	if second.closed != 1 {
		t.Errorf("released source should be closed, got %d", second.closed)
	}
	if h.Active() {
		t.Error("holder should be empty after release")
	}

	h.Release()
	if second.closed != 1 {
		t.Error("releasing an empty holder must not close again")
	}
}

func TestHolderTakeTransfersOwnership(t *testing.T) {
	var h Holder
	src := &fakeSource{}
	h.Replace(src)

	taken := h.Take()
	if taken != src {
		t.Fatal("Take should return the held source")
	}

	h.Release()
	if src.closed != 0 {
		t.Error("taken source must not be closed by the holder")
	}
}

func TestRenderStates(t *testing.T) {
	if Render(State{Loading: true}) != LoadingMessage {
		t.Error("loading state should render loading message")
	}
	if Render(State{}) != "" {
		t.Error("empty state should render nothing")
	}
}
