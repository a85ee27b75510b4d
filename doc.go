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

/*
Package influx provides the command interpreter behind an interactive InfluxDB shell.

# Connection

Use Open to create a connection. It holds the server address, the credentials and
the active database:

	conn := influx.Open(&influx.Config{
		Host:     "localhost",
		Port:     8086,
		User:     "root",
		Password: "root",
		Database: "metrics",
	})
	defer conn.Close()

# Commands

Every line typed in the shell goes through Query:

	res, err := conn.Query(ctx, "select * from cpu limit 10", nil)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%v)\n", res.Body, *res.Elapsed)

A few inputs are handled without reaching the series endpoint:

	use <name>   switch the active database
	ping         probe the server
	version      read the server version
	quit, exit   ask the shell to terminate

State changes that do not produce data are reported to observers:

	unsubscribe := conn.Subscribe(influx.ObserverFuncs{
		OnDatabaseChanged: func(name string) { fmt.Println("Using database", name) },
		OnQuit:            func() { os.Exit(0) },
	})
	defer unsubscribe()

QueryAsync offers the same dispatch with a completion callback.
*/
package influx
