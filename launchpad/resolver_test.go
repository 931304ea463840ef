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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		board  string
		system string
		want   BuildTarget
	}{
		{
			name:   "cm3 core16",
			board:  "cm3",
			system: "core16",
			want: BuildTarget{
				Board:           "cm3",
				SystemLabel:     "core16",
				Codename:        "xenial",
				Architecture:    "armhf",
				SubArchitecture: "cm3",
				Project:         "ubuntu-core",
			},
		},
		{
			name:   "raspberrypi3 classic 64-bit",
			board:  "raspberrypi3",
			system: "classic6418.04",
			want: BuildTarget{
				Board:           "raspberrypi3",
				SystemLabel:     "classic6418.04",
				Codename:        "bionic",
				Architecture:    "arm64",
				SubArchitecture: "raspi3",
				Project:         "ubuntu-cpc",
			},
		},
		{
			name:   "intelnuc core18 has no subarch",
			board:  "intelnuc",
			system: "core18",
			want: BuildTarget{
				Board:           "intelnuc",
				SystemLabel:     "core18",
				Codename:        "bionic",
				Architecture:    "amd64",
				SubArchitecture: "",
				Project:         "ubuntu-core",
			},
		},
		{
			name:   "classic without 64 marker",
			board:  "raspberrypi2",
			system: "classic16.04",
			want: BuildTarget{
				Board:           "raspberrypi2",
				SystemLabel:     "classic16.04",
				Codename:        "xenial",
				Architecture:    "armhf",
				SubArchitecture: "raspi3",
				Project:         "ubuntu-cpc",
			},
		},
	}

	resolver := NewResolver(nil)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := resolver.Resolve(tc.board, tc.system)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			// Resolution is deterministic: resolving again yields the same
			// target.
			again, err := resolver.Resolve(tc.board, tc.system)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestResolveArchitectureOverride(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(nil)

	target, err := resolver.Resolve("cm3", "core16", WithArchitecture("arm64"))
	require.NoError(t, err)
	assert.Equal(t, "arm64", target.Architecture)
	assert.Equal(t, "cm3", target.SubArchitecture)
}

func TestResolveErrors(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(nil)

	t.Run("unrecognized system label", func(t *testing.T) {
		t.Parallel()
		_, err := resolver.Resolve("cm3", "not-a-system")
		var labelErr *UnrecognizedSystemLabelError
		require.ErrorAs(t, err, &labelErr)
		assert.Equal(t, "not-a-system", labelErr.Label)
	})

	t.Run("label with no digits", func(t *testing.T) {
		t.Parallel()
		_, err := resolver.Resolve("cm3", "core")
		var labelErr *UnrecognizedSystemLabelError
		assert.ErrorAs(t, err, &labelErr)
	})

	t.Run("unknown codename year", func(t *testing.T) {
		t.Parallel()
		_, err := resolver.Resolve("cm3", "core20")
		var codenameErr *UnknownCodenameError
		require.ErrorAs(t, err, &codenameErr)
		assert.Equal(t, "20", codenameErr.Year)
	})

	t.Run("unknown board", func(t *testing.T) {
		t.Parallel()
		_, err := resolver.Resolve("beagleboard", "core16")
		var boardErr *UnknownBoardSystemError
		require.ErrorAs(t, err, &boardErr)
		assert.Equal(t, "beagleboard", boardErr.Board)
	})

	t.Run("known board with unsupported system", func(t *testing.T) {
		t.Parallel()
		// raspberrypi4 never shipped a core16 image.
		_, err := resolver.Resolve("raspberrypi4", "core16")
		var boardErr *UnknownBoardSystemError
		assert.ErrorAs(t, err, &boardErr)
	})

	t.Run("misspelled board suggests the closest one", func(t *testing.T) {
		t.Parallel()
		_, err := resolver.Resolve("raspberypi3", "core16")
		var boardErr *UnknownBoardSystemError
		require.ErrorAs(t, err, &boardErr)
		assert.Equal(t, "raspberrypi3", boardErr.Suggestion)
		assert.Contains(t, boardErr.Error(), "did you mean")
	})
}

func TestResolveSystem(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(nil)

	codename, project, err := resolver.ResolveSystem("classic18.04")
	require.NoError(t, err)
	assert.Equal(t, "bionic", codename)
	assert.Equal(t, "ubuntu-cpc", project)

	codename, project, err = resolver.ResolveSystem("core16")
	require.NoError(t, err)
	assert.Equal(t, "xenial", codename)
	assert.Equal(t, "ubuntu-core", project)

	_, _, err = resolver.ResolveSystem("bogus")
	assert.Error(t, err)
}

func TestCustomCatalog(t *testing.T) {
	t.Parallel()

	catalog, err := LoadCatalog([]byte(`
codenames:
  "20": focal
boards:
  testboard:
    core20: { arch: riscv64, subarch: visionfive }
`))
	require.NoError(t, err)

	resolver := NewResolver(catalog)

	target, err := resolver.Resolve("testboard", "core20")
	require.NoError(t, err)
	assert.Equal(t, "focal", target.Codename)
	assert.Equal(t, "riscv64", target.Architecture)
	assert.Equal(t, "visionfive", target.SubArchitecture)

	// The custom catalog fully replaces the built-in one.
	_, err = resolver.Resolve("cm3", "core16")
	assert.Error(t, err)
}

func TestLoadCatalogInvalid(t *testing.T) {
	t.Parallel()

	_, err := LoadCatalog([]byte("boards: [not, a, map]"))
	assert.Error(t, err)
}

func TestDefaultCatalogParses(t *testing.T) {
	t.Parallel()

	catalog := DefaultCatalog()
	assert.NotEmpty(t, catalog.Codenames)
	assert.NotEmpty(t, catalog.Boards)

	// Every cataloged system label must resolve.
	resolver := NewResolver(catalog)
	for board, systems := range catalog.Boards {
		for system := range systems {
			_, err := resolver.Resolve(board, system)
			assert.NoError(t, err, "board %s system %s", board, system)
		}
	}
}
