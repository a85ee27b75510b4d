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
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// HTTPClient is the interface for HTTP client.
type HTTPClient interface {
	// Get sends a GET request to the InfluxDB server.
	Get(ctx context.Context, u *url.URL, header http.Header) (*http.Response, error)
	// Close releases idle connections held by the client.
	Close()
}

type httpClient struct {
	client *retryablehttp.Client
}

const (
	defaultRetryWaitMin = 50 * time.Millisecond
	defaultRetryWaitMax = 2 * time.Second
)

// NewHTTPClient creates a new internal HTTP client.
//
// Responses are handed back as received once retries are exhausted, so that
// the caller sees the status code and body of the final attempt.
func NewHTTPClient(config *Config) HTTPClient {
	c := retryablehttp.NewClient()
	c.HTTPClient.Timeout = config.Timeout
	c.RetryMax = config.RetryMax
	c.RetryWaitMin = defaultRetryWaitMin
	c.RetryWaitMax = defaultRetryWaitMax
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	c.Logger = &retryLogger{log: config.logger().Named("transport")}
	return &httpClient{client: c}
}

// Ensure httpClient implements HTTPClient.
var _ HTTPClient = (*httpClient)(nil)

func (c *httpClient) Get(ctx context.Context, u *url.URL, header http.Header) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return c.client.Do(req)
}

func (c *httpClient) Close() {
	c.client.HTTPClient.CloseIdleConnections()
}

// retryLogger adapts a zap logger to retryablehttp.LeveledLogger.
type retryLogger struct {
	log *zap.Logger
}

var _ retryablehttp.LeveledLogger = (*retryLogger)(nil)

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Errorw(msg, keysAndValues...)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Warnw(msg, keysAndValues...)
}
