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

package influx_test

import (
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	influx "github.com/influxshell/influx-go"
	"github.com/lucasepe/codename"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// RandomName generates a random database name.
func RandomName(t testing.TB) string {
	rng, err := codename.DefaultRNG()
	require.NoError(t, err)
	return strings.ReplaceAll(codename.Generate(rng, 10), "-", "_")
}

type recordedRequest struct {
	Path   string
	Query  url.Values
	Header http.Header
}

// fakeServer is a stand-in InfluxDB that records every request it receives.
type fakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

func newFakeServer(t testing.TB, h http.HandlerFunc) *fakeServer {
	fs := &fakeServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.requests = append(fs.requests, recordedRequest{
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
		})
		fs.mu.Unlock()
		h(w, r)
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) Requests() []recordedRequest {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]recordedRequest(nil), fs.requests...)
}

// Config returns a config addressing the fake server with random credentials.
func (fs *fakeServer) Config(t testing.TB) *influx.Config {
	return addressOf(t, fs.URL)
}

func addressOf(t testing.TB, rawURL string) *influx.Config {
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return &influx.Config{
		Host:     host,
		Port:     port,
		User:     gofakeit.Username(),
		Password: gofakeit.Password(true, true, true, true, false, 16),
		Database: RandomName(t),
		Logger:   zaptest.NewLogger(t),
	}
}

// closedAddress returns a config pointing at a port nothing listens on.
func closedAddress(t testing.TB) *influx.Config {
	srv := httptest.NewServer(http.NotFoundHandler())
	rawURL := srv.URL
	srv.Close()
	return addressOf(t, rawURL)
}

func openConnection(t testing.TB, config *influx.Config, opts ...influx.Option) *influx.Connection {
	conn := influx.Open(config, opts...)
	t.Cleanup(conn.Close)
	return conn
}

// recorder collects observer notifications.
type recorder struct {
	mu        sync.Mutex
	databases []string
	quits     int
}

func (r *recorder) DatabaseChanged(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.databases = append(r.databases, name)
}

func (r *recorder) Quit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quits++
}

func (r *recorder) Databases() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.databases...)
}

func (r *recorder) Quits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quits
}

func okHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}
