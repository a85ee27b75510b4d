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
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	influx "github.com/influxshell/influx-go"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pkg/errors"
)

const nullValue = "null"

// series is one element of the array returned by the series endpoint.
type series struct {
	Name    string          `json:"name"`
	Columns []string        `json:"columns"`
	Points  [][]interface{} `json:"points"`
}

// Render writes the outcome of one command. Results go to out, failures to
// errOut. The elapsed time is printed whenever one was measured, including for
// failed requests.
func Render(out, errOut io.Writer, res *influx.Result, cause error) error {
	if cause != nil {
		if _, err := fmt.Fprintf(errOut, "ERR: %s\n", cause); err != nil {
			return errors.Wrap(err, "writing error")
		}
		return writeElapsed(errOut, res)
	}
	if res == nil {
		return nil
	}

	var err error
	switch res.Kind {
	case influx.CommandVersion:
		version := res.Version
		if version == "" {
			version = "unknown"
		}
		_, err = fmt.Fprintf(out, "InfluxDB version %s\n", version)
	case influx.CommandPing:
		_, err = fmt.Fprintln(out, "pong")
	case influx.CommandQuery:
		err = writeBody(out, res.Body)
	default:
		// use, empty and quit print nothing of their own
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "writing %s result", res.Kind)
	}
	return writeElapsed(out, res)
}

func writeElapsed(w io.Writer, res *influx.Result) error {
	if res == nil {
		return nil
	}
	ms, ok := res.ElapsedMillis()
	if !ok {
		return nil
	}
	_, err := fmt.Fprintf(w, "(%d ms)\n", ms)
	return errors.Wrap(err, "writing elapsed time")
}

// writeBody prints series bodies as tables and anything else verbatim.
func writeBody(w io.Writer, body []byte) error {
	list, ok := decodeSeries(body)
	if !ok {
		if len(body) == 0 {
			return nil
		}
		if _, err := w.Write(body); err != nil {
			return err
		}
		if body[len(body)-1] != '\n' {
			_, err := io.WriteString(w, "\n")
			return err
		}
		return nil
	}

	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No results")
		return err
	}
	for _, s := range list {
		writeSeries(w, s)
	}
	return nil
}

func decodeSeries(body []byte) ([]series, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	// Keep numbers as the server wrote them; float64 would print
	// timestamps in exponent form.
	dec.UseNumber()

	var list []series
	if err := dec.Decode(&list); err != nil {
		return nil, false
	}
	if dec.More() {
		return nil, false
	}
	for _, s := range list {
		if s.Name == "" && len(s.Columns) == 0 {
			return nil, false
		}
	}
	return list, true
}

func writeSeries(w io.Writer, s series) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if s.Name != "" {
		t.SetTitle("%s", s.Name)
	}

	// Don't uppercase the header values.
	t.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(s.Columns))
	for i, c := range s.Columns {
		header[i] = c
	}
	t.AppendHeader(header)

	for _, point := range s.Points {
		row := make(table.Row, len(point))
		for i, v := range point {
			// go-pretty doesn't expect nil values.
			if v == nil {
				v = nullValue
			}
			row[i] = v
		}
		t.AppendRow(row)
	}
	t.Render()
}
