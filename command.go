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
	"regexp"
	"strings"
)

// CommandKind identifies how a line of input was interpreted.
type CommandKind int

const (
	// CommandQuery forwards the text to the series endpoint of the active database.
	CommandQuery CommandKind = iota
	// CommandUse switches the active database.
	CommandUse
	// CommandEmpty is a blank line; nothing is sent.
	CommandEmpty
	// CommandQuit asks the shell to terminate.
	CommandQuit
	// CommandPing probes the server.
	CommandPing
	// CommandVersion reads the server version from the ping endpoint.
	CommandVersion
)

func (k CommandKind) String() string {
	switch k {
	case CommandQuery:
		return "query"
	case CommandUse:
		return "use"
	case CommandEmpty:
		return "empty"
	case CommandQuit:
		return "quit"
	case CommandPing:
		return "ping"
	case CommandVersion:
		return "version"
	default:
		return "unknown"
	}
}

// Local reports whether the command is handled without a request.
func (k CommandKind) Local() bool {
	switch k {
	case CommandUse, CommandEmpty, CommandQuit:
		return true
	default:
		return false
	}
}

// useDatabase matches "use <name>" at the start of the input. Anything after the
// first semicolon is ignored.
var useDatabase = regexp.MustCompile(`^use\s([^;]*)`)

type command struct {
	kind CommandKind
	// text is the trimmed input.
	text string
	// database is the captured name of a use command.
	database string
}

// classify interprets a line of input. The checks run in a fixed order and the
// first match wins: use, empty, quit/exit, ping, version, query.
func classify(input string) command {
	text := strings.TrimSpace(input)

	if m := useDatabase.FindStringSubmatch(text); m != nil {
		return command{kind: CommandUse, text: text, database: strings.TrimSpace(m[1])}
	}

	if text == "" {
		return command{kind: CommandEmpty}
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "quit") || strings.Contains(lower, "exit") {
		return command{kind: CommandQuit, text: text}
	}

	switch lower {
	case "ping":
		return command{kind: CommandPing, text: text}
	case "version":
		return command{kind: CommandVersion, text: text}
	default:
		return command{kind: CommandQuery, text: text}
	}
}
