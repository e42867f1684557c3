// Package vision reads step counts off screenshots with the Gemini API.
package vision

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const (
	DefaultModel = "gemini-1.5-flash"

	// Prompt asks for the daily total only.
	Prompt = "Analyze this image. Find the main 'total steps' count (daily steps) displayed on the screen. " +
		"It is usually a large number. Return ONLY the number as an integer. If unsure or no steps found, return 0."
)

var ErrUpstream = errors.New("vision: upstream error")

// Options configures a Gemini client.
type Options struct {
	APIKey string
	Model  string

	// BaseURL overrides the Gemini API endpoint.
	BaseURL string

	// RequestsPerMinute caps calls to the API. Zero means no limit.
	RequestsPerMinute int

	HTTPClient *http.Client
}

// Gemini sends the screenshot inline to generateContent.
type Gemini struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
}

func NewGemini(ctx context.Context, opts Options) (*Gemini, error) {
	if opts.APIKey == "" {
		return nil, errors.New("vision: API key is required")
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      opts.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  hc,
		HTTPOptions: genai.HTTPOptions{BaseURL: opts.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("vision: create client: %w", err)
	}

	g := &Gemini{client: client, model: opts.Model}
	if g.model == "" {
		g.model = DefaultModel
	}
	if opts.RequestsPerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}
	return g, nil
}

// ExtractSteps returns the step count Gemini read, or 0 when it found none
// or answered with something unparsable.
func (g *Gemini) ExtractSteps(ctx context.Context, mimeType string, image []byte) (int64, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return 0, err
		}
	}

	contents := []*genai.Content{genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromText(Prompt),
		genai.NewPartFromBytes(image, mimeType),
	}, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return ParseSteps(resp.Text()), nil
}

var firstNumber = regexp.MustCompile(`\d+`)

// ParseSteps drops thousands separators and takes the first integer in
// text. No number, or one too large for int64, is 0.
func ParseSteps(text string) int64 {
	m := firstNumber.FindString(strings.ReplaceAll(text, ",", ""))
	if m == "" {
		return 0
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
