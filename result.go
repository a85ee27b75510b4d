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
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const versionHeader = "X-Influxdb-Version"

// Result stores the outcome of a single command.
type Result struct {
	// ID identifies the request sent for the command. It is the zero UUID for
	// commands handled locally.
	ID uuid.UUID
	// Kind is how the input was interpreted.
	Kind CommandKind
	// Body is the response payload.
	//
	// It is nil for use, quit and version commands and on failure, and empty
	// (but not nil) for a blank line.
	Body []byte
	// Version is the server version reported by a version command. It may be
	// empty if the server did not answer.
	Version string
	// Elapsed is the wall-clock time from request start to response. It is nil
	// for version commands and for commands handled locally.
	Elapsed *time.Duration
}

// Decode parses the JSON body into v.
func (r *Result) Decode(v any) error {
	if r.Body == nil {
		return errors.New("result has no body")
	}
	return json.Unmarshal(r.Body, v)
}

// ElapsedMillis returns the elapsed time in milliseconds and whether it was measured.
func (r *Result) ElapsedMillis() (int64, bool) {
	if r.Elapsed == nil {
		return 0, false
	}
	return r.Elapsed.Milliseconds(), true
}

// normalizeData turns a transport outcome into a Result. The elapsed time is
// always recorded; a transport error is returned as is and a non-2xx status
// becomes an *Error carrying the response body.
func (conn *Connection) normalizeData(res *Result, start time.Time, resp *http.Response, err error) (*Result, error) {
	if resp != nil {
		defer sneakyBodyClose(resp.Body)
	}

	var body []byte
	if err == nil {
		body, err = readBody(resp)
	}

	elapsed := conn.now().Sub(start)
	res.Elapsed = &elapsed

	if err != nil {
		return res, err
	}
	if err := checkStatusCode(resp, body); err != nil {
		return res, err
	}
	res.Body = body
	return res, nil
}

// normalizeVersion extracts the server version from the response headers.
//
// Unless the connection is strict, a transport error resolves as a successful
// lookup with an empty version.
func (conn *Connection) normalizeVersion(res *Result, resp *http.Response, err error) (*Result, error) {
	if resp != nil {
		defer sneakyBodyClose(resp.Body)
		res.Version = resp.Header.Get(versionHeader)
	}
	if err != nil {
		if conn.strictVersion {
			return res, err
		}
		conn.log.Debug("version lookup failed", zap.Stringer("id", res.ID), zap.Error(err))
	}
	return res, nil
}
