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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  time.Duration
	}{
		{
			name:  "minutes and seconds",
			input: "0:01:30",
			want:  90 * time.Second,
		},
		{
			name:  "with microseconds",
			input: "0:00:01.500000",
			want:  1500 * time.Millisecond,
		},
		{
			name:  "short fraction",
			input: "0:00:00.5",
			want:  500 * time.Millisecond,
		},
		{
			name:  "hours",
			input: "12:00:00",
			want:  12 * time.Hour,
		},
		{
			name:  "one day prefix",
			input: "1 day, 2:00:00",
			want:  26 * time.Hour,
		},
		{
			name:  "multiple days prefix",
			input: "3 days, 0:00:01",
			want:  72*time.Hour + time.Second,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDuration(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseDurationInvalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "90", "1:2:3", "0:99", "soon"} {
		_, err := ParseDuration(input)
		assert.Error(t, err, "input %q", input)
	}
}
