/*
Copyright © 2025 Jayson Grace <jayson.e.grace@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

package launchpad

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by operations that require an existing snap recipe
// or build when no matching remote object exists.
var ErrNotFound = errors.New("not found")

// RemoteRequestError is returned for any non-2xx response from the API.
// It carries the status code and response body so callers can decide on
// their own retry or reporting policy; the client never retries.
type RemoteRequestError struct {
	StatusCode int
	Body       string
}

func (e *RemoteRequestError) Error() string {
	return fmt.Sprintf("launchpad request failed with status %d: %s", e.StatusCode, e.Body)
}

// UnrecognizedSystemLabelError indicates a system label that does not match
// the expected "<variant><year>[.<minor>]" shape, e.g. "core18" or
// "classic6418.04".
type UnrecognizedSystemLabelError struct {
	Label string
}

func (e *UnrecognizedSystemLabelError) Error() string {
	return fmt.Sprintf("unrecognized system label %q", e.Label)
}

// UnknownCodenameError indicates a system year with no known Ubuntu release
// codename.
type UnknownCodenameError struct {
	Label string
	Year  string
}

func (e *UnknownCodenameError) Error() string {
	return fmt.Sprintf("no codename known for system %q (year %q)", e.Label, e.Year)
}

// UnknownBoardSystemError indicates a (board, system) pair absent from the
// hardware catalog. Suggestion, when non-empty, names the closest known
// board.
type UnknownBoardSystemError struct {
	Board      string
	System     string
	Suggestion string
}

func (e *UnknownBoardSystemError) Error() string {
	msg := fmt.Sprintf("unsupported board/system combination %q/%q", e.Board, e.System)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}
