// ABOUTME: Mockup render pipeline producing case preview images per variant
// ABOUTME: Emits progress notifications through a sink as the provider works

package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/casebloom/casebloom/internal/store"
)

// ErrNoVariants is returned when a job asks for zero variants
var ErrNoVariants = errors.New("job has no variants")

// Request asks the provider to render one mockup image.
type Request struct {
	TemplateURL string `json:"template_url"`
	ArtworkURL  string `json:"artwork_url"`
	Prompt      string `json:"prompt,omitempty"`
	VariantID   string `json:"variant_id"`
}

// Result is one finished mockup image plus the provider's output lines.
type Result struct {
	URL string   `json:"url"`
	Log []string `json:"log,omitempty"`
}

// Provider renders a single mockup image. Implementations may take
// seconds per call; they must honor ctx cancellation.
type Provider interface {
	Render(ctx context.Context, req *Request) (*Result, error)
}

// Sink receives ordered progress notifications while a job runs.
// progress.Emitter satisfies this interface.
type Sink interface {
	Status(msg string, progress float64) error
	Log(line string, progress float64) error
	ImageStart(msg string, progress float64, variantID string) error
	ImageResult(msg string, progress float64, url, variantID string) error
}

// Job is one mockup-generation run for a phone model.
type Job struct {
	Model      *store.PhoneModel
	ArtworkURL string
	Prompt     string
	Variants   []string // e.g. "matte", "glossy"
}

// Pipeline runs mockup jobs against a provider.
type Pipeline struct {
	provider Provider
	logger   *slog.Logger
}

// NewPipeline creates a pipeline backed by the given provider.
func NewPipeline(provider Provider) *Pipeline {
	return &Pipeline{
		provider: provider,
		logger:   slog.Default().With("component", "render"),
	}
}

// Run executes the job, pushing progress through the sink as each variant
// finishes. Returns the finished image URLs in variant order. A sink error
// (e.g. the client disconnected) aborts the run.
func (p *Pipeline) Run(ctx context.Context, job *Job, sink Sink) ([]string, error) {
	if len(job.Variants) == 0 {
		return nil, ErrNoVariants
	}

	if err := sink.Status("preparing template", 0); err != nil {
		return nil, err
	}

	n := len(job.Variants)
	urls := make([]string, 0, n)
	for i, variant := range job.Variants {
		// Reserve 0-10 for setup and 90-100 for the terminal event
		start := 10 + 80*float64(i)/float64(n)
		end := 10 + 80*float64(i+1)/float64(n)

		if err := sink.ImageStart(fmt.Sprintf("rendering %s", variant), start, variant); err != nil {
			return nil, err
		}

		result, err := p.provider.Render(ctx, &Request{
			TemplateURL: job.Model.TemplateURL,
			ArtworkURL:  job.ArtworkURL,
			Prompt:      job.Prompt,
			VariantID:   variant,
		})
		if err != nil {
			return nil, fmt.Errorf("rendering variant %s: %w", variant, err)
		}

		for _, line := range result.Log {
			if err := sink.Log(line, start); err != nil {
				return nil, err
			}
		}

		if err := sink.ImageResult(fmt.Sprintf("finished %s", variant), end, result.URL, variant); err != nil {
			return nil, err
		}
		urls = append(urls, result.URL)

		p.logger.Debug("variant rendered", "model", job.Model.Slug, "variant", variant, "url", result.URL)
	}

	return urls, nil
}

// HTTPProvider calls an external render service over HTTP.
type HTTPProvider struct {
	url        string
	httpClient *http.Client
}

// NewHTTPProvider creates a provider posting to the given render endpoint.
func NewHTTPProvider(url string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &HTTPProvider{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Render posts the request to the render service and decodes the result.
func (p *HTTPProvider) Render(ctx context.Context, req *Request) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling render request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building render request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling render provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("render provider returned %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding render response: %w", err)
	}
	if result.URL == "" {
		return nil, errors.New("render provider returned no image URL")
	}
	return &result, nil
}
