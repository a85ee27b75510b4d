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

// Observer receives notifications about local state transitions that do not
// flow through a query result.
type Observer interface {
	// DatabaseChanged is called after a use command switched the active database.
	DatabaseChanged(name string)
	// Quit is called when a quit or exit command was entered.
	Quit()
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnDatabaseChanged func(name string)
	OnQuit            func()
}

var _ Observer = ObserverFuncs{}

func (o ObserverFuncs) DatabaseChanged(name string) {
	if o.OnDatabaseChanged != nil {
		o.OnDatabaseChanged(name)
	}
}

func (o ObserverFuncs) Quit() {
	if o.OnQuit != nil {
		o.OnQuit()
	}
}

type subscription struct {
	id       uint64
	observer Observer
}

// Subscribe registers o for notifications and returns a function that removes it.
func (conn *Connection) Subscribe(o Observer) (unsubscribe func()) {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	conn.nextSubID++
	id := conn.nextSubID
	conn.observers = append(conn.observers, subscription{id: id, observer: o})

	return func() {
		conn.mu.Lock()
		defer conn.mu.Unlock()
		for i, s := range conn.observers {
			if s.id == id {
				conn.observers = append(conn.observers[:i:i], conn.observers[i+1:]...)
				return
			}
		}
	}
}

// snapshotObservers copies the observer list so callbacks run without the lock held.
func (conn *Connection) snapshotObservers() []Observer {
	conn.mu.RLock()
	defer conn.mu.RUnlock()
	observers := make([]Observer, 0, len(conn.observers))
	for _, s := range conn.observers {
		observers = append(observers, s.observer)
	}
	return observers
}

func (conn *Connection) emitDatabaseChanged(name string) {
	for _, o := range conn.snapshotObservers() {
		o.DatabaseChanged(name)
	}
}

func (conn *Connection) emitQuit() {
	for _, o := range conn.snapshotObservers() {
		o.Quit()
	}
}
