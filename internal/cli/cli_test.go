// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/jeranaias/triage-tui/internal/analysis"
	"github.com/jeranaias/triage-tui/internal/config"
	"github.com/jeranaias/triage-tui/internal/model"
)

type fakeAnalyzer struct {
	result *analysis.Result
	err    error
	notes  []string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, note string) (*analysis.Result, error) {
	f.notes = append(f.notes, note)
	return f.result, f.err
}

var sampleResult = &analysis.Result{
	SessionID:         "sess-9",
	PossibleDiagnoses: []string{"Common cold"},
	Explanation:       "Viral infection.",
	ExamName:          "Throat swab",
	ExamType:          "Lab",
}

// testEnv isolates the config directory and injects a.
func testEnv(t *testing.T, a analysis.Analyzer) (*env, string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	for _, k := range []string{"TRIAGE_API_URL", "TRIAGE_NO_HISTORY", "TRIAGE_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	return &env{newAnalyzer: func(*config.Config, *zap.Logger) analysis.Analyzer { return a }}, home
}

func execute(t *testing.T, e *env, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand(e)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfigPath_UsesHome(t *testing.T) {
	e, home := testEnv(t, &fakeAnalyzer{})
	out, _, err := execute(t, e, "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "config.toml")+"\n", out)
}

func TestConfigPath_Flag(t *testing.T) {
	e, home := testEnv(t, &fakeAnalyzer{})
	custom := filepath.Join(home, "other.toml")
	out, _, err := execute(t, e, "", "--config", custom, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, custom+"\n", out)
}

func TestConfigInitGetSet(t *testing.T) {
	e, home := testEnv(t, &fakeAnalyzer{})

	_, _, err := execute(t, e, "", "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(home, "config.toml"))

	_, _, err = execute(t, e, "", "config", "init")
	assert.ErrorContains(t, err, "already exists")
	_, _, err = execute(t, e, "", "config", "init", "--force")
	require.NoError(t, err)

	out, _, err := execute(t, e, "", "config", "get", "reveal.chat_interval")
	require.NoError(t, err)
	assert.Equal(t, "30ms\n", out)

	_, _, err = execute(t, e, "", "config", "set", "reveal.chat_interval", "5ms")
	require.NoError(t, err)

	out, _, err = execute(t, e, "", "config", "get", "reveal.chat_interval")
	require.NoError(t, err)
	assert.Equal(t, "5ms\n", out)

	_, _, err = execute(t, e, "", "config", "set", "nope.key", "1")
	assert.Error(t, err)
}

func TestConfigSet_DoesNotPersistOverrides(t *testing.T) {
	e, home := testEnv(t, &fakeAnalyzer{})
	_, _, err := execute(t, e, "", "--api-url", "http://override", "config", "set", "ui.markdown", "false")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(home, "config.toml"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "http://override")
	assert.Contains(t, string(data), "markdown = false")
}

func TestConfigShow(t *testing.T) {
	e, _ := testEnv(t, &fakeAnalyzer{})
	out, _, err := execute(t, e, "", "--api-url", "http://example.test/api", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "[api]")
	assert.Contains(t, out, "http://example.test/api")
}

func TestConfigKeys(t *testing.T) {
	e, _ := testEnv(t, &fakeAnalyzer{})
	out, _, err := execute(t, e, "", "config", "keys")
	require.NoError(t, err)
	assert.Contains(t, out, "reveal.counter_max")
	assert.Contains(t, out, "session.idle_timeout")
}

// =============================================================================
// ASK
// =============================================================================

func TestAsk_PrintsReplyAndRecords(t *testing.T) {
	fake := &fakeAnalyzer{result: sampleResult}
	e, _ := testEnv(t, fake)

	out, _, err := execute(t, e, "", "ask", "sore", "throat")
	require.NoError(t, err)
	assert.Equal(t, analysis.FormatReply(sampleResult)+"\n", out)
	assert.Equal(t, []string{"sore throat"}, fake.notes)

	out, _, err = execute(t, e, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "sess-9")
	assert.Contains(t, out, "sore throat")

	out, _, err = execute(t, e, "", "history", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Note: sore throat")
	assert.Contains(t, out, "Throat swab")
}

func TestAsk_ReadsStdin(t *testing.T) {
	fake := &fakeAnalyzer{result: sampleResult}
	e, _ := testEnv(t, fake)

	_, _, err := execute(t, e, "  fever and chills\n", "ask", "--no-history")
	require.NoError(t, err)
	assert.Equal(t, []string{"fever and chills"}, fake.notes)
}

func TestAsk_EmptyNote(t *testing.T) {
	e, _ := testEnv(t, &fakeAnalyzer{})
	_, _, err := execute(t, e, "", "ask")
	assert.ErrorContains(t, err, "no symptoms given")
}

func TestAsk_Failure(t *testing.T) {
	e, _ := testEnv(t, &fakeAnalyzer{err: errors.New("connection refused")})
	_, stderr, err := execute(t, e, "", "ask", "headache")
	require.Error(t, err)
	assert.Contains(t, stderr, "unable to connect to the medical database")
	assert.Contains(t, stderr, "connection refused")
}

func TestAsk_JSON(t *testing.T) {
	e, _ := testEnv(t, &fakeAnalyzer{result: sampleResult})
	out, _, err := execute(t, e, "", "ask", "--json", "--no-history", "cough")
	require.NoError(t, err)

	var got analysis.Result
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, sampleResult.SessionID, got.SessionID)
	assert.Equal(t, sampleResult.PossibleDiagnoses, got.PossibleDiagnoses)
}

func TestAsk_APIURLFlagReachesClient(t *testing.T) {
	var gotNote string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/analyze/", r.URL.Path)
		var body struct {
			Note string `json:"note"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotNote = body.Note
		_ = json.NewEncoder(w).Encode(sampleResult)
	}))
	defer srv.Close()

	e, _ := testEnv(t, nil)
	e.newAnalyzer = defaultAnalyzer

	out, _, err := execute(t, e, "", "--api-url", srv.URL+"/api", "ask", "--no-history", "rash")
	require.NoError(t, err)
	assert.Equal(t, "rash", gotNote)
	assert.Contains(t, out, "sess-9")
}

// =============================================================================
// HISTORY
// =============================================================================

func TestHistory_EmptyAndClear(t *testing.T) {
	e, _ := testEnv(t, &fakeAnalyzer{result: sampleResult})

	out, _, err := execute(t, e, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No analyses recorded yet.")

	_, _, err = execute(t, e, "", "ask", "one")
	require.NoError(t, err)
	_, _, err = execute(t, e, "", "ask", "two")
	require.NoError(t, err)

	out, _, err = execute(t, e, "", "history", "--clear")
	require.NoError(t, err)
	assert.Equal(t, "Deleted 2 analyses.\n", out)
}

func TestHistory_ShowMissing(t *testing.T) {
	e, _ := testEnv(t, &fakeAnalyzer{})
	_, _, err := execute(t, e, "", "history", "show", "42")
	assert.ErrorContains(t, err, "no analysis with id 42")

	_, _, err = execute(t, e, "", "history", "show", "abc")
	assert.ErrorContains(t, err, "invalid id")
}

func TestHistory_Disabled(t *testing.T) {
	e, _ := testEnv(t, &fakeAnalyzer{})
	t.Setenv("TRIAGE_NO_HISTORY", "1")
	_, _, err := execute(t, e, "", "history")
	assert.ErrorIs(t, err, errHistoryDisabled)
}

// =============================================================================
// CHAT
// =============================================================================

type scriptedPrompter struct {
	lines   []string
	history []string
}

func (p *scriptedPrompter) Prompt(string) (string, error) {
	if len(p.lines) == 0 {
		return "", io.EOF
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

func (p *scriptedPrompter) AppendHistory(item string) {
	p.history = append(p.history, item)
}

func newChatSession(t *testing.T, a analysis.Analyzer, lines ...string) (*chatSession, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	var out bytes.Buffer
	return &chatSession{
		env:      &env{cfg: cfg, log: zap.NewNop()},
		in:       &scriptedPrompter{lines: lines},
		out:      &out,
		analyzer: a,
		conv:     model.NewConversation(),
		dir:      t.TempDir(),
		now:      func() time.Time { return time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC) },
	}, &out
}

func TestChatSession_SendExportClear(t *testing.T) {
	s, out := newChatSession(t, &fakeAnalyzer{result: sampleResult},
		"headache", "", "/export md", "/clear", "/quit", "never read")

	require.NoError(t, s.run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Analyzing your symptoms...")
	assert.Contains(t, text, "Medical Analysis Complete")
	assert.Contains(t, text, "medical-consultation-2025-03-04.md")
	assert.Equal(t, 1, s.conv.Len(), "clear leaves only the welcome message")

	p := s.in.(*scriptedPrompter)
	assert.Equal(t, []string{"never read"}, p.lines)
	assert.Equal(t, []string{"headache", "/export md", "/clear", "/quit"}, p.history)

	data, err := os.ReadFile(filepath.Join(s.dir, "medical-consultation-2025-03-04.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "headache")
}

func TestChatSession_FailureStaysInSession(t *testing.T) {
	s, out := newChatSession(t, &fakeAnalyzer{err: errors.New("timeout")}, "fever")

	require.NoError(t, s.run(context.Background()))
	assert.Contains(t, out.String(), "unable to connect to the medical database")
	assert.True(t, s.conv.Last().IsError)
}

func TestChatSession_UnknownCommand(t *testing.T) {
	s, out := newChatSession(t, &fakeAnalyzer{}, "/bogus", "/export xml")
	require.NoError(t, s.run(context.Background()))
	assert.Contains(t, out.String(), "Unknown command /bogus")
	assert.Contains(t, out.String(), `unknown export format "xml"`)
}

// =============================================================================
// TYPING
// =============================================================================

func TestTypeReply_Animated(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var out bytes.Buffer
	text := "héllo wörld"
	err := typeReply(context.Background(), &out, text, time.Millisecond, true, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, text+"\n", out.String())
}

func TestTypeReply_Cancelled(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := typeReply(ctx, &out, strings.Repeat("x", 100), time.Millisecond, true, zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
}
