package support

import (
	"errors"
	"testing"

	"github.com/bowerhall/regen/internal/gateway"
	"github.com/bowerhall/regen/internal/scan"
)

func TestSubmitFeedback(t *testing.T) {
	fb, err := SubmitFeedback("  The truck skipped our lane today.  ")
	if err != nil {
		t.Fatalf("SubmitFeedback failed: %v", err)
	}

	if len(fb.Ref) != 8 {
		t.Errorf("expected 8-char ref, got %q", fb.Ref)
	}
	if fb.Text != "The truck skipped our lane today." {
		t.Errorf("feedback not trimmed: %q", fb.Text)
	}
}

func TestSubmitFeedbackEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := SubmitFeedback(text); !errors.Is(err, ErrEmptyFeedback) {
			t.Errorf("SubmitFeedback(%q) expected ErrEmptyFeedback, got %v", text, err)
		}
	}
}

func TestSubmitFeedbackUniqueRefs(t *testing.T) {
	a, _ := SubmitFeedback("one")
	b, _ := SubmitFeedback("two")
	if a.Ref == b.Ref {
		t.Error("refs should differ")
	}
}

func TestSubmitProof(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	p, err := SubmitProof(gateway.Image{Data: png}, 1024)
	if err != nil {
		t.Fatalf("SubmitProof failed: %v", err)
	}
	if p.MediaType != "image/png" || p.Size != len(png) {
		t.Errorf("unexpected proof: %+v", p)
	}

	if _, err := SubmitProof(gateway.Image{Data: []byte("not a photo")}, 1024); !errors.Is(err, scan.ErrUnsupportedImage) {
		t.Errorf("expected ErrUnsupportedImage, got %v", err)
	}
}
