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
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
)

// Build is a view over one snap build. Builds are created and advanced by
// Launchpad; this client only observes them (and cancels pending ones).
type Build struct {
	SelfLink          string    `json:"self_link"`
	ArchTag           string    `json:"arch_tag"`
	BuildState        string    `json:"buildstate"`
	StoreUploadStatus string    `json:"store_upload_status"`
	DateCreated       time.Time `json:"datecreated"`
}

// ArchBuildStatus is the reduced per-architecture build state.
type ArchBuildStatus struct {
	BuildState        string `json:"buildstate"`
	StoreUploadStatus string `json:"store_upload_status"`
}

// BuildStatusByArchitecture reduces the recipe's recent builds to one
// status per architecture. It merges completed and pending builds, sorts by
// creation date descending, keeps the most recent len(SupportedArchitectures)
// builds, and takes the newest build per architecture. Architectures with
// no recent build are absent from the result.
func (b *SnapBuilder) BuildStatusByArchitecture(ctx context.Context, storeName string) (map[string]ArchBuildStatus, error) {
	recipe, err := b.FindByStoreName(ctx, storeName)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, fmt.Errorf("snap recipe %q: %w", storeName, ErrNotFound)
	}

	var completed []Build
	if err := b.client.collection(ctx, recipe.CompletedBuildsCollectionLink, nil, &completed); err != nil {
		return nil, err
	}

	var pending []Build
	if err := b.client.collection(ctx, recipe.PendingBuildsCollectionLink, nil, &pending); err != nil {
		return nil, err
	}

	builds := append(completed, pending...)
	sort.SliceStable(builds, func(i, j int) bool {
		return builds[i].DateCreated.After(builds[j].DateCreated)
	})

	if len(builds) > len(SupportedArchitectures) {
		builds = builds[:len(SupportedArchitectures)]
	}

	status := make(map[string]ArchBuildStatus)
	for _, build := range builds {
		// Newest build per architecture wins; older ones are stale.
		if _, seen := status[build.ArchTag]; seen {
			continue
		}
		status[build.ArchTag] = ArchBuildStatus{
			BuildState:        build.BuildState,
			StoreUploadStatus: build.StoreUploadStatus,
		}
	}

	return status, nil
}

// BuilderQueue is the queue snapshot for one architecture. A nil
// TotalJobsDuration or EstimatedDuration means unknown; an idle queue has
// zero pending jobs and nil durations.
type BuilderQueue struct {
	PendingJobs       int
	TotalJobsDuration *time.Duration
	EstimatedDuration *time.Duration
}

// HumanEstimate renders the estimated wait in human terms, e.g.
// "12 minutes", or "unknown" when no estimate exists.
func (q BuilderQueue) HumanEstimate() string {
	if q.EstimatedDuration == nil {
		return "unknown"
	}
	now := time.Now()
	return humanize.RelTime(now, now.Add(*q.EstimatedDuration), "", "")
}

// queueSizesResponse is the getBuildQueueSizes payload: per-architecture
// [pending jobs, total duration] pairs for virtualized builders.
type queueSizesResponse struct {
	Virt map[string][]json.RawMessage `json:"virt"`
}

// BuilderQueueStatus reports the virtualized builder queue for every
// supported architecture: pending job count, total queued duration, and the
// estimated wait (total duration divided by the number of builders, unknown
// when no builders exist). Architectures missing from the queue-size
// response are reported as idle.
func (c *Client) BuilderQueueStatus(ctx context.Context) (map[string]BuilderQueue, error) {
	params := url.Values{}
	params.Set("ws.op", "getBuildQueueSizes")

	body, err := c.do(ctx, http.MethodGet, "builders", params, nil)
	if err != nil {
		return nil, err
	}

	var sizes queueSizesResponse
	if err := json.Unmarshal(body, &sizes); err != nil {
		return nil, fmt.Errorf("failed to decode build queue sizes: %w", err)
	}

	status := make(map[string]BuilderQueue, len(SupportedArchitectures))
	for _, arch := range SupportedArchitectures {
		queue, err := c.architectureQueue(ctx, arch, sizes.Virt[arch])
		if err != nil {
			return nil, err
		}
		status[arch] = queue
	}

	return status, nil
}

// architectureQueue computes the queue snapshot for one architecture from
// its raw [count, duration] entry, fetching the builder count to derive the
// estimate.
func (c *Client) architectureQueue(ctx context.Context, arch string, entry []json.RawMessage) (BuilderQueue, error) {
	var queue BuilderQueue

	if len(entry) == 0 {
		// Idle queue: nothing waiting, no duration to estimate from.
		return queue, nil
	}

	if err := json.Unmarshal(entry[0], &queue.PendingJobs); err != nil {
		return queue, fmt.Errorf("failed to decode pending job count for %s: %w", arch, err)
	}

	if len(entry) > 1 {
		var raw *string
		if err := json.Unmarshal(entry[1], &raw); err != nil {
			return queue, fmt.Errorf("failed to decode queue duration for %s: %w", arch, err)
		}
		if raw != nil {
			total, err := ParseDuration(*raw)
			if err != nil {
				return queue, fmt.Errorf("failed to parse queue duration for %s: %w", arch, err)
			}
			queue.TotalJobsDuration = &total
		}
	}

	builders, err := c.builderCount(ctx, arch)
	if err != nil {
		return queue, err
	}

	// No builders means no estimate, never a division by zero.
	if builders > 0 && queue.TotalJobsDuration != nil {
		estimated := *queue.TotalJobsDuration / time.Duration(builders)
		queue.EstimatedDuration = &estimated
	}

	return queue, nil
}

// builderCount returns the number of virtualized builders serving an
// architecture's queue.
func (c *Client) builderCount(ctx context.Context, arch string) (int, error) {
	params := url.Values{}
	params.Set("ws.op", "getBuildersForQueue")
	params.Set("processor", "/+processors/"+arch)
	params.Set("virtualized", "true")

	var builders []struct {
		SelfLink string `json:"self_link"`
	}
	if err := c.collection(ctx, "builders", params, &builders); err != nil {
		return 0, err
	}

	return len(builders), nil
}
