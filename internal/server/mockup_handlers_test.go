// ABOUTME: Tests for the NDJSON mockup generation stream
// ABOUTME: Asserts event ordering and terminal semantics over the real mux

package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casebloom/casebloom/internal/auth"
	"github.com/casebloom/casebloom/internal/progress"
	"github.com/casebloom/casebloom/internal/render"
)

type fakeRenderProvider struct {
	failOn string // variant ID that errors, empty for none
	calls  int
}

func (p *fakeRenderProvider) Render(ctx context.Context, req *render.Request) (*render.Result, error) {
	p.calls++
	if req.VariantID == p.failOn {
		return nil, errors.New("render backend exploded")
	}
	return &render.Result{
		URL: fmt.Sprintf("https://cdn.example.com/mockups/%s.png", req.VariantID),
		Log: []string{"compositing artwork"},
	}, nil
}

func TestGenerateMockups_StreamsOrderedEvents(t *testing.T) {
	ts := newTestServer(t)
	provider := &fakeRenderProvider{}
	ts.pipeline = render.NewPipeline(provider)

	_, model := seedProduct(t, ts, 10000)
	staff := ts.sessionCookie(t, auth.RoleStaff)

	rec := ts.do(t, http.MethodPost, "/api/admin/mockups/generate", MockupRequest{
		PhoneModelID: model.ID,
		ArtworkURL:   "https://cdn.example.com/designs/d1.png",
		Prompt:       "pastel gradient",
		Variants:     []string{"matte", "glossy"},
	}, staff)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-ndjson", rec.Header().Get("Content-Type"))

	events := parseEvents(t, rec.Body.String())
	types := make([]progress.Kind, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	assert.Equal(t, []progress.Kind{
		progress.KindStatus,
		progress.KindImageStart,
		progress.KindDataLog,
		progress.KindImageResult,
		progress.KindImageStart,
		progress.KindDataLog,
		progress.KindImageResult,
		progress.KindDone,
	}, types)

	// Progress never decreases and the terminal event reports completion.
	last := -1.0
	for _, e := range events {
		require.GreaterOrEqual(t, e.Progress, last, "progress went backwards at %q", e.Type)
		last = e.Progress
	}
	assert.Equal(t, 100.0, events[len(events)-1].Progress)
	assert.Equal(t, 2, provider.calls)
}

func TestGenerateMockups_ProviderFailureIsTerminalError(t *testing.T) {
	ts := newTestServer(t)
	ts.pipeline = render.NewPipeline(&fakeRenderProvider{failOn: "glossy"})

	_, model := seedProduct(t, ts, 10000)
	staff := ts.sessionCookie(t, auth.RoleStaff)

	rec := ts.do(t, http.MethodPost, "/api/admin/mockups/generate", MockupRequest{
		PhoneModelID: model.ID,
		ArtworkURL:   "https://cdn.example.com/designs/d1.png",
		Variants:     []string{"matte", "glossy"},
	}, staff)
	require.Equal(t, http.StatusOK, rec.Code)

	events := parseEvents(t, rec.Body.String())
	require.NotEmpty(t, events)

	terminal := events[len(events)-1]
	assert.Equal(t, progress.KindError, terminal.Type)
	// The backend detail stays in the log, not on the wire.
	assert.NotContains(t, terminal.Msg, "exploded")

	// The first variant still made it out before the failure.
	var results int
	for _, e := range events {
		if e.Type == progress.KindImageResult {
			results++
		}
	}
	assert.Equal(t, 1, results)
}

func TestGenerateMockups_Validation(t *testing.T) {
	ts := newTestServer(t)
	ts.pipeline = render.NewPipeline(&fakeRenderProvider{})
	_, model := seedProduct(t, ts, 10000)
	staff := ts.sessionCookie(t, auth.RoleStaff)

	tests := []struct {
		name string
		req  MockupRequest
		code int
	}{
		{
			name: "missing artwork",
			req:  MockupRequest{PhoneModelID: model.ID, Variants: []string{"matte"}},
			code: http.StatusBadRequest,
		},
		{
			name: "no variants",
			req:  MockupRequest{PhoneModelID: model.ID, ArtworkURL: "https://x/a.png"},
			code: http.StatusBadRequest,
		},
		{
			name: "unknown model",
			req:  MockupRequest{PhoneModelID: 9999, ArtworkURL: "https://x/a.png", Variants: []string{"matte"}},
			code: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/admin/mockups/generate", tt.req, staff)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestGenerateMockups_NoProvider(t *testing.T) {
	ts := newTestServer(t)
	_, model := seedProduct(t, ts, 10000)
	staff := ts.sessionCookie(t, auth.RoleStaff)

	rec := ts.do(t, http.MethodPost, "/api/admin/mockups/generate", MockupRequest{
		PhoneModelID: model.ID,
		ArtworkURL:   "https://x/a.png",
		Variants:     []string{"matte"},
	}, staff)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func parseEvents(t *testing.T, body string) []progress.Event {
	t.Helper()

	var events []progress.Event
	for _, line := range splitLines(body) {
		var e progress.Event
		require.NoError(t, json.Unmarshal([]byte(line), &e), "bad NDJSON line: %s", line)
		events = append(events, e)
	}
	return events
}

func splitLines(body string) []string {
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		if sc.Text() != "" {
			lines = append(lines, sc.Text())
		}
	}
	return lines
}
