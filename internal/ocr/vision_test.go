package ocr

import (
	"errors"
	"testing"

	vision "google.golang.org/api/vision/v1"
)

func TestTextFromResponse(t *testing.T) {
	t.Run("full text annotation", func(t *testing.T) {
		resp := &vision.BatchAnnotateImagesResponse{
			Responses: []*vision.AnnotateImageResponse{
				{FullTextAnnotation: &vision.TextAnnotation{Text: "COFFEE SHOP\nTOTAL $4.50\n"}},
			},
		}
		got, err := textFromResponse(resp)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "COFFEE SHOP\nTOTAL $4.50" {
			t.Errorf("text = %q", got)
		}
	})

	t.Run("falls back to first text annotation", func(t *testing.T) {
		resp := &vision.BatchAnnotateImagesResponse{
			Responses: []*vision.AnnotateImageResponse{
				{TextAnnotations: []*vision.EntityAnnotation{{Description: "RECEIPT"}}},
			},
		}
		got, err := textFromResponse(resp)
		if err != nil || got != "RECEIPT" {
			t.Fatalf("got %q, %v", got, err)
		}
	})

	t.Run("no detections", func(t *testing.T) {
		resp := &vision.BatchAnnotateImagesResponse{
			Responses: []*vision.AnnotateImageResponse{{}},
		}
		if _, err := textFromResponse(resp); !errors.Is(err, ErrNoText) {
			t.Errorf("got %v, want ErrNoText", err)
		}
	})

	t.Run("whitespace only counts as no text", func(t *testing.T) {
		resp := &vision.BatchAnnotateImagesResponse{
			Responses: []*vision.AnnotateImageResponse{
				{FullTextAnnotation: &vision.TextAnnotation{Text: "  \n  "}},
			},
		}
		if _, err := textFromResponse(resp); !errors.Is(err, ErrNoText) {
			t.Errorf("got %v, want ErrNoText", err)
		}
	})

	t.Run("empty response", func(t *testing.T) {
		if _, err := textFromResponse(nil); !errors.Is(err, ErrNoText) {
			t.Errorf("got %v, want ErrNoText", err)
		}
	})

	t.Run("per-image error is not ErrNoText", func(t *testing.T) {
		resp := &vision.BatchAnnotateImagesResponse{
			Responses: []*vision.AnnotateImageResponse{
				{Error: &vision.Status{Message: "image too large"}},
			},
		}
		_, err := textFromResponse(resp)
		if err == nil || errors.Is(err, ErrNoText) {
			t.Errorf("got %v, want a non-ErrNoText error", err)
		}
	})
}
