package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/refiner"
	"github.com/fwojciec/refiner/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const roadmapJSON = `{"roadmap":"# X\n\nPlan.","metadata":{"processing_type":"direct","total_tokens":1234,"processing_time":1.5}}`

// execute runs the root command with isolated config, state and download
// directories. Commands share klog's global state, so these tests are not
// parallel.
func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("REFINER_PROGRESS_DISPLAY_DELAY", "1ms")

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func refineServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			_, _ = io.WriteString(w, `{"status":"healthy","timestamp":"2026-10-19T10:00:00","api_status":"initialized"}`)
			return
		}
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestGenerate(t *testing.T) {
	t.Run("markdown to stdout", func(t *testing.T) {
		srv, calls := refineServer(t, http.StatusOK, roadmapJSON)

		stdout, stderr, err := execute(t, "", "generate", "--base-url", srv.URL, "Build X")
		require.NoError(t, err)

		assert.Equal(t, "# X\n\nPlan.\n", stdout)
		assert.Contains(t, stderr, "[  0%] Starting")
		assert.Contains(t, stderr, "[100%] Complete")
		assert.Contains(t, stderr, "Processing: direct · Tokens: 1,234 · Time: 1.5s")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("description from stdin", func(t *testing.T) {
		var got []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = io.ReadAll(r.Body)
			_, _ = io.WriteString(w, roadmapJSON)
		}))
		defer srv.Close()

		_, _, err := execute(t, "Build Y from stdin", "generate", "--base-url", srv.URL, "-")
		require.NoError(t, err)
		assert.Contains(t, string(got), `"project_description":"Build Y from stdin"`)
		assert.Contains(t, string(got), `"detailed":true`)
	})

	t.Run("html document", func(t *testing.T) {
		srv, _ := refineServer(t, http.StatusOK, roadmapJSON)

		stdout, _, err := execute(t, "", "generate", "--base-url", srv.URL, "--format", "html", "Build X")
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(stdout, "<!DOCTYPE html>"))
		assert.Contains(t, stdout, "<title>Project Roadmap</title>")
		assert.Contains(t, stdout, "<h1>X</h1>")
	})

	t.Run("terminal rendering", func(t *testing.T) {
		srv, _ := refineServer(t, http.StatusOK, roadmapJSON)

		stdout, _, err := execute(t, "", "generate", "--base-url", srv.URL, "-f", "terminal", "Build X")
		require.NoError(t, err)

		assert.Contains(t, stdout, "Plan.")
		assert.NotContains(t, stdout, "# X")
	})

	t.Run("save writes the raw roadmap", func(t *testing.T) {
		srv, _ := refineServer(t, http.StatusOK, roadmapJSON)
		dir := filepath.Join(t.TempDir(), "out")

		_, stderr, err := execute(t, "", "generate", "--base-url", srv.URL, "--download-dir", dir, "--save", "Build X")
		require.NoError(t, err)

		files, err := fs.List(dir, "")
		require.NoError(t, err)
		require.Len(t, files, 1)
		data, err := os.ReadFile(files[0].Path)
		require.NoError(t, err)
		assert.Equal(t, "# X\n\nPlan.", string(data))
		assert.Contains(t, stderr, "Roadmap saved to "+files[0].Path)
	})

	t.Run("empty description", func(t *testing.T) {
		srv, calls := refineServer(t, http.StatusOK, roadmapJSON)

		_, _, err := execute(t, "", "generate", "--base-url", srv.URL, "   ")
		require.ErrorIs(t, err, refiner.ErrValidation)
		assert.Equal(t, refiner.MsgEmptyDescription, err.Error())
		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("server error", func(t *testing.T) {
		srv, _ := refineServer(t, http.StatusInternalServerError, `{"error":"boom"}`)

		_, _, err := execute(t, "", "generate", "--base-url", srv.URL, "Build X")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Server error (HTTP 500)")
	})

	t.Run("application error", func(t *testing.T) {
		srv, _ := refineServer(t, http.StatusOK, `{"error":"Project Refiner API not available"}`)

		_, _, err := execute(t, "", "generate", "--base-url", srv.URL, "Build X")
		require.ErrorIs(t, err, refiner.ErrApplication)
		assert.Equal(t, "Project Refiner API not available", err.Error())
	})

	t.Run("unknown format is rejected before any request", func(t *testing.T) {
		srv, calls := refineServer(t, http.StatusOK, roadmapJSON)

		_, _, err := execute(t, "", "generate", "--base-url", srv.URL, "--format", "pdf", "Build X")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown format "pdf"`)
		assert.Equal(t, int32(0), calls.Load())
	})
}

func TestExamples(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		stdout, _, err := execute(t, "", "examples")
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(stdout), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "F1  mobile  Mobile App", lines[0])
		assert.Equal(t, "F2  web     Web Platform", lines[1])
		assert.Equal(t, "F3  ai      AI System", lines[2])
	})

	t.Run("show", func(t *testing.T) {
		stdout, _, err := execute(t, "", "examples", "show", "web")
		require.NoError(t, err)
		assert.Contains(t, stdout, "e-learning platform")
	})

	t.Run("show unknown", func(t *testing.T) {
		_, _, err := execute(t, "", "examples", "show", "nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown example "nope"`)
	})

	t.Run("custom catalog", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "examples.yaml")
		require.NoError(t, os.WriteFile(path, []byte("version: 1\nexamples:\n  - key: cli\n    text: Build a CLI\n"), 0o600))

		stdout, _, err := execute(t, "", "examples", "--examples-file", path)
		require.NoError(t, err)
		assert.Equal(t, "F1  cli  cli\n", stdout)
	})
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv, _ := refineServer(t, http.StatusOK, roadmapJSON)

		stdout, _, err := execute(t, "", "health", "--base-url", srv.URL)
		require.NoError(t, err)
		assert.Contains(t, stdout, "status:     healthy")
		assert.Contains(t, stdout, "api_status: initialized")
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, _, err := execute(t, "", "health", "--base-url", url)
		require.ErrorIs(t, err, refiner.ErrTransport)
		assert.Equal(t, refiner.MsgNetwork, err.Error())
	})
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"project_roadmap_20261019T100000.txt",
		"project_roadmap_20261019T110000.html",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("abc"), 0o600))
	}

	stdout, _, err := execute(t, "", "list", "--download-dir", dir)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "project_roadmap_20261019T110000.html")
	assert.Contains(t, lines[1], "project_roadmap_20261019T100000.txt")
	assert.Contains(t, lines[1], "3 bytes")

	stdout, _, err = execute(t, "", "list", "--download-dir", filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "No saved roadmaps")
}

func TestConfigErrors(t *testing.T) {
	_, _, err := execute(t, "", "examples", "--base-url", "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url must be an http(s) URL")
}

func TestUserError(t *testing.T) {
	err := userError{refiner.ErrNoRoadmap}
	assert.Equal(t, refiner.MsgNoRoadmap, err.Error())
	assert.ErrorIs(t, err, refiner.ErrNoRoadmap)
}
