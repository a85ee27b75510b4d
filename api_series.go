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
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// seriesAPI defines the InfluxDB HTTP endpoints used by the shell.
type seriesAPI interface {
	// querySeries sends a query to /db/<database>/series.
	querySeries(ctx context.Context, database string, params Params, start time.Time) (*Result, error)
	// ping probes /ping.
	ping(ctx context.Context, params Params, start time.Time) (*Result, error)
	// version reads the X-Influxdb-Version header of /ping.
	version(ctx context.Context, params Params) (*Result, error)
	// listDatabases lists the databases under /db.
	listDatabases(ctx context.Context) ([]string, error)
}

var _ seriesAPI = (*Connection)(nil)

const requestIDHeader = "Request-Id"

// get issues a GET to path with the credentials merged into params.
func (conn *Connection) get(ctx context.Context, id uuid.UUID, path string, params Params) (*http.Response, error) {
	u := conn.target.buildURL(path, params)

	header := http.Header{}
	header.Set(requestIDHeader, id.String())

	conn.log.Debug("sending request",
		zap.Stringer("id", id),
		zap.String("path", u.Path),
		zap.String("q", params[paramQuery]),
	)
	return conn.http.Get(ctx, u, header)
}

func (conn *Connection) querySeries(ctx context.Context, database string, params Params, start time.Time) (*Result, error) {
	res := &Result{ID: uuid.New(), Kind: CommandQuery}
	resp, err := conn.get(ctx, res.ID, seriesPath(database), params)
	return conn.normalizeData(res, start, resp, err)
}

func (conn *Connection) ping(ctx context.Context, params Params, start time.Time) (*Result, error) {
	res := &Result{ID: uuid.New(), Kind: CommandPing}
	resp, err := conn.get(ctx, res.ID, pathPing, params)
	return conn.normalizeData(res, start, resp, err)
}

func (conn *Connection) version(ctx context.Context, params Params) (*Result, error) {
	res := &Result{ID: uuid.New(), Kind: CommandVersion}
	resp, err := conn.get(ctx, res.ID, pathPing, params)
	return conn.normalizeVersion(res, resp, err)
}

type databaseEntry struct {
	Name string `json:"name"`
}

func (conn *Connection) listDatabases(ctx context.Context) ([]string, error) {
	resp, err := conn.get(ctx, uuid.New(), pathDatabases, nil)
	if err != nil {
		return nil, err
	}
	defer sneakyBodyClose(resp.Body)

	data, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	if err := checkStatusCode(resp, data); err != nil {
		return nil, err
	}

	var entries []databaseEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names, nil
}
