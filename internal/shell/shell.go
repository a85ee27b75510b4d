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

// Package shell implements the interactive influx prompt on top of an
// influx.Connection.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/chzyer/readline"
	influx "github.com/influxshell/influx-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	historyFile  = ".influx_history"
	historyLimit = 10000
)

var keywords = []string{"ping", "version", "quit", "exit"}

// Shell reads commands line by line and prints what the server answers.
type Shell struct {
	Conn        *influx.Connection
	HistoryPath string

	Stdin  io.ReadCloser
	Stdout io.Writer
	Stderr io.Writer

	Logger *zap.Logger

	mu   sync.Mutex
	rl   *readline.Instance
	quit atomic.Bool

	// interrupt derives the context of a single command. It is cancelled on
	// SIGINT so that Ctrl-C aborts the running command only.
	interrupt func(context.Context) (context.Context, context.CancelFunc)
}

func notifyInterrupt(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

// New returns a Shell bound to the process's standard streams.
func New(conn *influx.Connection) *Shell {
	return &Shell{
		Conn:   conn,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: zap.NewNop(),
	}
}

// Prompt returns the prompt shown while database is selected.
func Prompt(database string) string {
	return fmt.Sprintf("influx:%s> ", database)
}

func (s *Shell) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Shell) setupHistory() {
	// An explicit path, typically from a flag, wins over the default.
	if s.HistoryPath != "" {
		return
	}

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(s.Stderr, "Error getting home directory, command history persistence will be disabled: %v\n", err)
		return
	}
	s.HistoryPath = filepath.Join(home, historyFile)
}

// Run prints the splash line and serves the prompt until the user quits,
// sends EOF, or interrupts an empty line.
func (s *Shell) Run(ctx context.Context) error {
	if s.Stdin == nil {
		s.Stdin = os.Stdin
	}
	if s.Stdout == nil {
		s.Stdout = os.Stdout
	}
	if s.Stderr == nil {
		s.Stderr = os.Stderr
	}
	s.setupHistory()
	s.quit.Store(false)
	unsubscribe := s.Conn.Subscribe(s)
	defer unsubscribe()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          Prompt(s.Conn.CurrentDatabase()),
		HistoryFile:     s.HistoryPath,
		HistoryLimit:    historyLimit,
		AutoComplete:    s.completer(ctx),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		Stdin:  s.Stdin,
		Stdout: s.Stdout,
		Stderr: s.Stderr,
	})
	if err != nil {
		return errors.Wrap(err, "getting readline")
	}
	defer rl.Close()

	s.mu.Lock()
	s.rl = rl
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.rl = nil
		s.mu.Unlock()
	}()

	fmt.Fprintf(s.Stdout, "Connected to %s://%s\n", s.Conn.Scheme(), s.Conn.Address())

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := rl.Readline()
		switch {
		case err == readline.ErrInterrupt:
			if line == "" {
				return nil
			}
			continue
		case err == io.EOF:
			return nil
		case err != nil:
			return errors.Wrap(err, "reading line")
		}

		if !s.Execute(ctx, line) {
			return nil
		}
	}
}

// Execute dispatches one line and renders its outcome. It reports whether the
// shell should keep reading. An interrupt while the command runs cancels that
// command alone.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	interrupt := s.interrupt
	if interrupt == nil {
		interrupt = notifyInterrupt
	}
	ctx, stop := interrupt(ctx)
	defer stop()

	res, err := s.Conn.Query(ctx, line, nil)
	if err != nil {
		s.logger().Debug("command failed", zap.String("line", line), zap.Error(err))
	}
	if err := Render(s.Stdout, s.Stderr, res, err); err != nil {
		s.logger().Warn("render output", zap.Error(err))
	}
	return !s.quit.Load()
}

// DatabaseChanged implements influx.Observer.
func (s *Shell) DatabaseChanged(name string) {
	out := s.Stdout
	s.mu.Lock()
	if s.rl != nil {
		s.rl.SetPrompt(Prompt(name))
		// Goes through readline so a visible prompt is redrawn, not overwritten.
		out = s.rl.Stdout()
	}
	s.mu.Unlock()
	fmt.Fprintf(out, "Using database %s\n", name)
}

// Quit implements influx.Observer.
func (s *Shell) Quit() {
	s.quit.Store(true)
}

func (s *Shell) completer(ctx context.Context) *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem("use", readline.PcItemDynamic(func(string) []string {
			return s.databases(ctx)
		})),
	}
	for _, kw := range keywords {
		items = append(items, readline.PcItem(kw))
	}
	return readline.NewPrefixCompleter(items...)
}

// databases lists completion candidates for use. Lookup errors only mean no
// candidates.
func (s *Shell) databases(ctx context.Context) []string {
	names, err := s.Conn.Databases(ctx)
	if err != nil {
		s.logger().Debug("list databases for completion", zap.Error(err))
		return nil
	}
	return names
}
