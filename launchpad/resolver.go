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
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"
)

// Build projects on Launchpad.
const (
	// ProjectCore is the livefs project for Ubuntu Core images.
	ProjectCore = "ubuntu-core"
	// ProjectCPC is the livefs project for classic (cloud) images.
	ProjectCPC = "ubuntu-cpc"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// systemLabelPattern extracts the two-digit system year from a label such
// as "core16", "classic18.04", or "classic6418.04" (the optional "64"
// marks a 64-bit variant and is not part of the year).
var systemLabelPattern = regexp.MustCompile(`^[^\d]+(?:64)?(\d{2})(\.\d{2})?$`)

// BuildTarget is the resolved Launchpad coordinates for a (board, system)
// pair: everything needed to address a livefs build.
type BuildTarget struct {
	Board           string
	SystemLabel     string
	Codename        string
	Architecture    string
	SubArchitecture string
	Project         string
}

// ArchInfo holds the architecture coordinates of one board/system entry.
type ArchInfo struct {
	Architecture    string `yaml:"arch"`
	SubArchitecture string `yaml:"subarch"`
}

// Catalog is the static table of supported hardware: system-year codenames
// plus the nested board/system architecture map. It is plain data so tests
// and deployments can substitute their own.
type Catalog struct {
	Codenames map[string]string              `yaml:"codenames"`
	Boards    map[string]map[string]ArchInfo `yaml:"boards"`
}

// LoadCatalog parses a catalog from YAML.
func LoadCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &catalog, nil
}

// LoadCatalogFile parses a catalog from a YAML file.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	return LoadCatalog(data)
}

// DefaultCatalog returns the built-in hardware catalog.
func DefaultCatalog() *Catalog {
	catalog, err := LoadCatalog(defaultCatalogYAML)
	if err != nil {
		// The embedded catalog is validated by tests; failing to parse it
		// is a build defect, not a runtime condition.
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return catalog
}

// Resolver maps (board, system label) pairs to Launchpad build targets.
// It is a pure lookup over its catalog and never issues remote calls.
type Resolver struct {
	catalog *Catalog
}

// NewResolver builds a Resolver over the given catalog. A nil catalog uses
// the built-in one.
func NewResolver(catalog *Catalog) *Resolver {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Resolver{catalog: catalog}
}

// ResolveOption customizes a Resolve call.
type ResolveOption func(*resolveOptions)

type resolveOptions struct {
	architecture string
}

// WithArchitecture overrides the catalog architecture of the resolved
// target, e.g. to force a specific arch build.
func WithArchitecture(arch string) ResolveOption {
	return func(o *resolveOptions) {
		o.architecture = arch
	}
}

// Resolve maps a board and system label to a BuildTarget. Resolution is
// deterministic: the same inputs always produce the same target.
func (r *Resolver) Resolve(board, system string, opts ...ResolveOption) (BuildTarget, error) {
	var o resolveOptions
	for _, opt := range opts {
		opt(&o)
	}

	codename, project, err := r.resolveSystem(system)
	if err != nil {
		return BuildTarget{}, err
	}

	systems, ok := r.catalog.Boards[board]
	if !ok {
		return BuildTarget{}, &UnknownBoardSystemError{
			Board:      board,
			System:     system,
			Suggestion: r.closestBoard(board),
		}
	}

	archInfo, ok := systems[system]
	if !ok {
		return BuildTarget{}, &UnknownBoardSystemError{Board: board, System: system}
	}

	arch := archInfo.Architecture
	if o.architecture != "" {
		arch = o.architecture
	}

	return BuildTarget{
		Board:           board,
		SystemLabel:     system,
		Codename:        codename,
		Architecture:    arch,
		SubArchitecture: archInfo.SubArchitecture,
		Project:         project,
	}, nil
}

// ResolveSystem maps a system label alone to its codename and project.
// Webhook registration targets a livefs, which is addressed by codename and
// project without any board.
func (r *Resolver) ResolveSystem(system string) (codename, project string, err error) {
	return r.resolveSystem(system)
}

func (r *Resolver) resolveSystem(system string) (string, string, error) {
	match := systemLabelPattern.FindStringSubmatch(system)
	if match == nil {
		return "", "", &UnrecognizedSystemLabelError{Label: system}
	}

	year := match[1]
	codename, ok := r.catalog.Codenames[year]
	if !ok {
		return "", "", &UnknownCodenameError{Label: system, Year: year}
	}

	project := ProjectCore
	if strings.HasPrefix(system, "classic") {
		project = ProjectCPC
	}

	return codename, project, nil
}

// closestBoard returns the best fuzzy match for an unknown board name, or
// an empty string when nothing is close enough.
func (r *Resolver) closestBoard(board string) string {
	known := make([]string, 0, len(r.catalog.Boards))
	for name := range r.catalog.Boards {
		known = append(known, name)
	}

	ranks := fuzzy.RankFindFold(board, known)
	if len(ranks) == 0 {
		return ""
	}

	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance {
			best = rank
		}
	}
	return best.Target
}
