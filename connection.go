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

package influx

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Connection interprets shell input and dispatches it to an InfluxDB server.
//
// The active database is the only mutable state. It is guarded by a lock and
// read once per request, so a use command only affects requests built after it.
type Connection struct {
	target        target
	strictVersion bool
	http          HTTPClient
	log           *zap.Logger
	now           func() time.Time

	mu        sync.RWMutex
	database  string
	observers []subscription
	nextSubID uint64
}

// Option customizes a Connection.
type Option func(*Connection)

// WithHTTPClient replaces the default retrying HTTP client.
func WithHTTPClient(c HTTPClient) Option {
	return func(conn *Connection) {
		conn.http = c
	}
}

// WithClock replaces the clock used to measure elapsed time.
func WithClock(now func() time.Time) Option {
	return func(conn *Connection) {
		conn.now = now
	}
}

// Open creates a new connection.
//
// No request is sent; the server is first contacted by the first command that
// needs it.
func Open(config *Config, opts ...Option) *Connection {
	conn := &Connection{
		target: target{
			scheme:   config.scheme(),
			host:     config.Host,
			port:     config.Port,
			user:     config.User,
			password: config.Password,
		},
		strictVersion: config.StrictVersion,
		log:           config.logger(),
		now:           time.Now,
		database:      config.Database,
	}
	for _, opt := range opts {
		opt(conn)
	}
	if conn.http == nil {
		conn.http = NewHTTPClient(config)
	}
	return conn
}

// Close closes the database connection.
//
// You don't typically need to call this as the garbage collector will release
// the resources when the connection is no longer referenced. However, it can be
// useful to call this if you want to release the resources immediately.
func (conn *Connection) Close() {
	conn.http.Close()
}

// Scheme returns the URL scheme chosen when the connection was opened.
func (conn *Connection) Scheme() string {
	return conn.target.scheme
}

// Address returns the host:port the connection talks to.
func (conn *Connection) Address() string {
	return conn.target.address()
}

// CurrentDatabase returns the active database.
func (conn *Connection) CurrentDatabase() string {
	conn.mu.RLock()
	defer conn.mu.RUnlock()
	return conn.database
}

func (conn *Connection) setCurrentDatabase(name string) {
	conn.mu.Lock()
	conn.database = name
	conn.mu.Unlock()

	conn.emitDatabaseChanged(name)
}

// Query interprets a line of input and returns its result.
//
// Input is handled in this order, first match wins:
//
//   - "use <name>" switches the active database and notifies observers;
//   - a blank line returns an empty body;
//   - any input containing "quit" or "exit" (in any case) notifies observers;
//   - "ping" probes the server;
//   - "version" reads the server version;
//   - anything else is sent as q to the series endpoint of the active database.
//
// params are merged over the defaults q, time_precision=m and chunked=false;
// keys set by the caller win. On failure the returned Result still carries the
// elapsed time, if one was measured.
func (conn *Connection) Query(ctx context.Context, text string, params Params) (*Result, error) {
	cmd := classify(text)
	conn.log.Debug("classified input", zap.Stringer("kind", cmd.kind))

	switch cmd.kind {
	case CommandUse:
		conn.setCurrentDatabase(cmd.database)
		return &Result{Kind: CommandUse}, nil
	case CommandEmpty:
		return &Result{Kind: CommandEmpty, Body: []byte{}}, nil
	case CommandQuit:
		conn.emitQuit()
		return &Result{Kind: CommandQuit}, nil
	}

	start := conn.now()
	merged := queryParams(cmd.text, params)

	switch cmd.kind {
	case CommandPing:
		return conn.ping(ctx, merged, start)
	case CommandVersion:
		return conn.version(ctx, merged)
	default:
		return conn.querySeries(ctx, conn.CurrentDatabase(), merged, start)
	}
}

// QueryAsync is like Query but reports the outcome through f, which is called
// exactly once.
//
// Commands handled locally call f before QueryAsync returns. Commands that
// send a request call f from a new goroutine once the response is in.
func (conn *Connection) QueryAsync(ctx context.Context, text string, params Params, f func(*Result, error)) {
	if f == nil {
		f = func(*Result, error) {}
	}

	if classify(text).kind.Local() {
		f(conn.Query(ctx, text, params))
		return
	}

	go func() {
		f(conn.Query(ctx, text, params))
	}()
}

// ExistDatabase reports whether the named database exists.
//
// The check is not implemented by the server for non-admin users, so every
// name is reported as existing.
func (conn *Connection) ExistDatabase(_ context.Context, _ string) (bool, error) {
	return true, nil
}

// Databases lists the databases on the server. It requires admin credentials.
func (conn *Connection) Databases(ctx context.Context) ([]string, error) {
	return conn.listDatabases(ctx)
}
