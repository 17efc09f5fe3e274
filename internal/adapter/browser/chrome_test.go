package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"quiz-scraper/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const quizPage = `<!DOCTYPE html>
<html><body>
<div class="question">1.
What is 2 + 2?
<div class="answer">3</div>
<div class="answer">4</div>
<div class="answer">5</div>
<div class="answer">6</div>
</div>
<button id="butCheck" onclick="document.querySelectorAll('.answer')[1].style.background='lightgreen'">Check</button>
</body></html>`

func findChrome(t *testing.T) string {
	t.Helper()
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	t.Skip("no chrome binary available")
	return ""
}

func TestChromeSession_RenderQuiz(t *testing.T) {
	execPath := findChrome(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(quizPage))
	}))
	defer srv.Close()

	launcher := NewChromeLauncher(config.BrowserConfig{Headless: true, WaitTimeout: 10 * time.Second, ExecPath: execPath}, zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	session, err := launcher.Launch(ctx)
	require.NoError(t, err)
	defer func() { assert.NoError(t, session.Close()) }()

	questions, err := session.RenderQuiz(ctx, srv.URL)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	require.Len(t, questions[0].Answers, 4)
	assert.Contains(t, questions[0].Answers[1].Style, "lightgreen")
	assert.NotContains(t, questions[0].Answers[0].Style, "lightgreen")
}

func TestChromeSession_MissingCheckButton(t *testing.T) {
	execPath := findChrome(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>archived page gone</p></body></html>`))
	}))
	defer srv.Close()

	launcher := NewChromeLauncher(config.BrowserConfig{Headless: true, WaitTimeout: time.Second, ExecPath: execPath}, zap.NewNop())
	session, err := launcher.Launch(context.Background())
	require.NoError(t, err)
	defer session.Close()

	_, err = session.RenderQuiz(context.Background(), srv.URL)
	assert.Error(t, err)
}
