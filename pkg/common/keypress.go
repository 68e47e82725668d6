// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"os"
	"sync/atomic"

	"golang.org/x/term"
)

// KeyWatcher reports whether one of a set of keys has been pressed, without
// ever blocking the caller. It switches the terminal to raw mode for its
// lifetime; Close restores the previous terminal state.
//
// When standard input is not a terminal the watcher is inert and Pressed
// always returns false.
type KeyWatcher struct {
	fd      int
	state   *term.State
	pressed atomic.Bool
}

// WatchKeys starts watching standard input for any of the given keys.
func WatchKeys(keys ...byte) (*KeyWatcher, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return &KeyWatcher{fd: -1}, nil
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}

	watcher := &KeyWatcher{fd: fd, state: state}
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}

			if n == 0 {
				continue
			}

			// Raw mode swallows ^C, so treat it as a stop request too.
			if buf[0] == 0x03 {
				watcher.pressed.Store(true)
				return
			}

			for _, key := range keys {
				if buf[0] == key {
					watcher.pressed.Store(true)
					return
				}
			}
		}
	}()

	return watcher, nil
}

// Pressed reports whether a watched key has been seen so far.
func (watcher *KeyWatcher) Pressed() bool {
	return watcher != nil && watcher.pressed.Load()
}

// Close restores the terminal to the state it was in before WatchKeys.
func (watcher *KeyWatcher) Close() {
	if watcher != nil && watcher.state != nil {
		_ = term.Restore(watcher.fd, watcher.state)
	}
}
