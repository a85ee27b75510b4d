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
	"time"

	"go.uber.org/zap"
)

// Config defines the configuration for the connection.
type Config struct {
	// Host is the hostname of the InfluxDB server.
	Host string `json:"host"`
	// Port is the HTTP API port of the InfluxDB server.
	Port int `json:"port"`
	// Secure selects https instead of http. It is fixed once the connection is opened.
	Secure bool `json:"secure"`
	// User and Password are sent as the u and p query parameters of every request.
	User     string `json:"user"`
	Password string `json:"password"`
	// Database is the initial active database.
	Database string `json:"database"`

	// Timeout bounds a single HTTP request. Zero means no timeout.
	Timeout time.Duration `json:"timeout"`
	// RetryMax is the number of transport-level retries on connection errors and 5xx responses.
	RetryMax int `json:"retry_max"`
	// StrictVersion makes the version command report transport errors instead of
	// resolving with an empty version.
	StrictVersion bool `json:"strict_version"`

	// Logger receives debug output. Nil disables logging.
	Logger *zap.Logger `json:"-"`
}

func (c *Config) scheme() string {
	if c.Secure {
		return "https"
	}
	return "http"
}

func (c *Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
