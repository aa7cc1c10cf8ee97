// Package ocr recovers raw text from receipt images via the Cloud Vision
// text-detection endpoint.
package ocr

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	googleauth "golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	goption "google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

// ErrNoText means the image contained no detectable text region. It is a
// valid empty result distinct from a transport failure, and callers reply
// with a "could not read receipt" message instead of a categorization error.
var ErrNoText = errors.New("no text detected")

type Client struct {
	svc *vision.Service
}

// NewClient creates a Vision client authenticated with a service credential.
func NewClient(ctx context.Context, saEmail, saKey string) (*Client, error) {
	if saEmail == "" || saKey == "" {
		return nil, errors.New("missing service account email or private key")
	}
	conf := &jwt.Config{
		Email:      saEmail,
		PrivateKey: []byte(saKey),
		Scopes:     []string{vision.CloudVisionScope},
		TokenURL:   googleauth.JWTTokenURL,
	}
	svc, err := vision.NewService(ctx, goption.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create vision service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// DetectText runs TEXT_DETECTION on the image and returns the full detected
// text, or ErrNoText when no region is found.
func (c *Client) DetectText(ctx context.Context, image []byte) (string, error) {
	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{
			{
				Image:    &vision.Image{Content: base64.StdEncoding.EncodeToString(image)},
				Features: []*vision.Feature{{Type: "TEXT_DETECTION"}},
			},
		},
	}
	resp, err := c.svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("annotate image: %w", err)
	}
	return textFromResponse(resp)
}

func textFromResponse(resp *vision.BatchAnnotateImagesResponse) (string, error) {
	if resp == nil || len(resp.Responses) == 0 {
		return "", ErrNoText
	}
	r := resp.Responses[0]
	if r.Error != nil {
		return "", fmt.Errorf("vision error: %s", r.Error.Message)
	}

	text := ""
	if r.FullTextAnnotation != nil {
		text = r.FullTextAnnotation.Text
	} else if len(r.TextAnnotations) > 0 {
		text = r.TextAnnotations[0].Description
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}
