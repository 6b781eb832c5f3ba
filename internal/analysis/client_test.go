// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(&ClientConfig{BaseURL: srv.URL + "/api/", Timeout: 2 * time.Second})
}

func TestClient_Analyze(t *testing.T) {
	var gotNote string
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body analyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotNote = body.Note
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"session_id":"abc","possible_diagnoses":["Flu","Cold"],"explanation":"Rest.","exam_name":"CBC","exam_type":"Blood"}`))
	})

	res, err := c.Analyze(context.Background(), "  fever and cough  ")
	require.NoError(t, err)

	assert.Equal(t, "/api/analyze/", gotPath)
	assert.Equal(t, "fever and cough", gotNote)
	assert.Equal(t, "abc", res.SessionID)
	assert.Equal(t, []string{"Flu", "Cold"}, res.PossibleDiagnoses)
	assert.Equal(t, "Rest.", res.Explanation)
	assert.Equal(t, "CBC", res.ExamName)
	assert.Equal(t, "Blood", res.ExamType)
}

func TestClient_AnalyzeNormalizesNote(t *testing.T) {
	var gotNote string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body analyzeRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotNote = body.Note
		_, _ = w.Write([]byte(`{}`))
	})

	// "e" followed by a combining acute accent composes to a single rune.
	_, err := c.Analyze(context.Background(), "fie\u0301vre")
	require.NoError(t, err)
	assert.Equal(t, "fi\u00e9vre", gotNote)
}

func TestClient_AnalyzeEmptyNote(t *testing.T) {
	c := NewClient(nil)
	_, err := c.Analyze(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyNote))
}

func TestClient_AnalyzeStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := c.Analyze(context.Background(), "headache")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))

	var ce *ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, http.StatusBadGateway, ce.Status)
	assert.Equal(t, "API Error 502: Bad Gateway", ce.Error())
}

func TestClient_AnalyzeInvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := c.Analyze(context.Background(), "headache")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidResponse))
}

func TestClient_AnalyzeConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(&ClientConfig{BaseURL: url, Timeout: time.Second})
	_, err := c.Analyze(context.Background(), "headache")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConnection))
}

func TestClient_AnalyzeCancelledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Analyze(ctx, "headache")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
}

func TestClient_EndpointFoldsSlashes(t *testing.T) {
	for _, base := range []string{"http://h/api", "http://h/api/", "http://h/api//"} {
		c := NewClient(&ClientConfig{BaseURL: base})
		assert.Equal(t, "http://h/api/analyze/", c.endpoint(), base)
	}
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "status", ErrTypeStatus.String())
	assert.Equal(t, "unknown", ErrorType(99).String())
}
