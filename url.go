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
	"net"
	"net/url"
	"strconv"
)

// Params holds query parameters sent along with a command.
//
// Keys supplied by the caller take precedence over the defaults the connection
// fills in (q, time_precision, chunked) and over the injected credentials (u, p).
type Params map[string]string

const (
	paramQuery         = "q"
	paramTimePrecision = "time_precision"
	paramChunked       = "chunked"
	paramUser          = "u"
	paramPassword      = "p"

	defaultTimePrecision = "m"
	defaultChunked       = "false"
)

const (
	pathPing      = "ping"
	pathDatabases = "db"
)

func seriesPath(database string) string {
	return "db/" + database + "/series"
}

// queryParams returns the parameters for a query text: the caller's params,
// falling back to the defaults for any key the caller left out.
func queryParams(text string, params Params) Params {
	return mergeParams(params, Params{
		paramQuery:         text,
		paramTimePrecision: defaultTimePrecision,
		paramChunked:       defaultChunked,
	})
}

// mergeParams returns a new map holding every key of params plus the keys of
// defaults that params does not set. Neither argument is modified.
func mergeParams(params Params, defaults Params) Params {
	merged := make(Params, len(params)+len(defaults))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range params {
		merged[k] = v
	}
	return merged
}

// target is the immutable part of the connection used to address requests.
type target struct {
	scheme   string
	host     string
	port     int
	user     string
	password string
}

func (t *target) address() string {
	return net.JoinHostPort(t.host, strconv.Itoa(t.port))
}

// buildURL formats scheme://host:port/path?query with the credentials merged
// under params.
func (t *target) buildURL(path string, params Params) *url.URL {
	merged := mergeParams(params, Params{
		paramUser:     t.user,
		paramPassword: t.password,
	})

	q := url.Values{}
	for k, v := range merged {
		q.Set(k, v)
	}

	return &url.URL{
		Scheme:   t.scheme,
		Host:     t.address(),
		Path:     "/" + path,
		RawQuery: q.Encode(),
	}
}
