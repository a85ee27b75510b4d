/*
 * Copyright 2026 The influx-go Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package shell

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// pathRecorder records the path of every request before passing it on.
type pathRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (p *pathRecorder) wrap(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.paths = append(p.paths, r.URL.Path)
		p.mu.Unlock()
		h(w, r)
	}
}

func (p *pathRecorder) Paths() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.paths...)
}

func runShell(t *testing.T, h http.HandlerFunc, input string) (*Shell, *syncBuffer, error) {
	t.Helper()
	var out, errOut syncBuffer
	s := &Shell{
		Conn:        openConnection(t, h),
		HistoryPath: filepath.Join(t.TempDir(), "history"),
		Stdin:       io.NopCloser(strings.NewReader(input)),
		Stdout:      &out,
		Stderr:      &errOut,
		Logger:      zaptest.NewLogger(t),
	}
	err := s.Run(context.Background())
	require.Empty(t, errOut.String())
	return s, &out, err
}

func TestRun(t *testing.T) {
	rec := &pathRecorder{}
	s, out, err := runShell(t, rec.wrap(respond(http.StatusOK, `{"status":"ok"}`)), "use foo\nping\nquit\nselect 1\n")
	require.NoError(t, err)

	require.Equal(t, "Connected to http://"+s.Conn.Address()+"\nUsing database foo\npong\n(7 ms)\n", out.String())
	require.Equal(t, "foo", s.Conn.CurrentDatabase())
	// nothing after quit is sent
	require.Equal(t, []string{"/ping"}, rec.Paths())
}

func TestRunEndsOnEOF(t *testing.T) {
	rec := &pathRecorder{}
	s, out, err := runShell(t, rec.wrap(respond(http.StatusOK, "[]")), "use bar\nselect * from cpu\n")
	require.NoError(t, err)

	require.Contains(t, out.String(), "Using database bar\nNo results\n")
	require.Equal(t, []string{"/db/bar/series"}, rec.Paths())

	// the shell stops observing once Run returns
	_, err = s.Conn.Query(context.Background(), "use baz", nil)
	require.NoError(t, err)
	require.NotContains(t, out.String(), "baz")
}

func TestRunCanceledContext(t *testing.T) {
	rec := &pathRecorder{}
	var out syncBuffer
	s := &Shell{
		Conn:        openConnection(t, rec.wrap(respond(http.StatusOK, "[]"))),
		HistoryPath: filepath.Join(t.TempDir(), "history"),
		Stdin:       io.NopCloser(strings.NewReader("ping\n")),
		Stdout:      &out,
		Stderr:      &out,
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, s.Run(ctx))
	require.Empty(t, rec.Paths())
}

func TestExecuteInterruptCancelsOnlyThatCommand(t *testing.T) {
	started := make(chan struct{})
	h := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "select slow" {
			close(started)
			<-r.Context().Done()
			return
		}
		respond(http.StatusOK, `{"status":"ok"}`)(w, r)
	}
	s, out, errOut := newShell(t, h)

	// The first command is interrupted as soon as the server has it.
	var calls atomic.Int32
	s.interrupt = func(ctx context.Context) (context.Context, context.CancelFunc) {
		ctx, cancel := context.WithCancel(ctx)
		if calls.Add(1) == 1 {
			go func() {
				<-started
				cancel()
			}()
		}
		return ctx, cancel
	}

	ctx := context.Background()
	require.True(t, s.Execute(ctx, "select slow"))
	require.Contains(t, errOut.String(), "context canceled")

	require.True(t, s.Execute(ctx, "ping"))
	require.Equal(t, "pong\n(7 ms)\n", out.String())
}
