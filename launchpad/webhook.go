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
	"fmt"
	"net/http"
	"net/url"

	"github.com/cowdogmoo/buildpad/logging"
)

// LivefsBuildEvent is the webhook event type fired when a livefs build
// changes state.
const LivefsBuildEvent = "livefs:build:0.1"

// WebhookResult reports what an upsert did.
type WebhookResult int

const (
	// WebhookCreated means no matching webhook existed and one was created.
	WebhookCreated WebhookResult = iota
	// WebhookUpdated means a matching webhook existed and its secret was
	// replaced.
	WebhookUpdated
)

// String returns "created" or "updated".
func (r WebhookResult) String() string {
	if r == WebhookUpdated {
		return "updated"
	}
	return "created"
}

// webhookEntry is one webhook in a livefs webhook collection.
type webhookEntry struct {
	SelfLink    string   `json:"self_link"`
	DeliveryURL string   `json:"delivery_url"`
	EventTypes  []string `json:"event_types"`
	Active      bool     `json:"active"`
}

// subscribesToBuilds reports whether the webhook listens for livefs build
// events.
func (w webhookEntry) subscribesToBuilds() bool {
	for _, event := range w.EventTypes {
		if event == LivefsBuildEvent {
			return true
		}
	}
	return false
}

// UpsertBuildWebhook registers a build-notification webhook on the target's
// livefs, or updates the secret of the one already registered for the same
// delivery URL. Repeated calls converge on the latest secret instead of
// erroring, so callers can re-register on every deploy.
func (b *ImageBuilder) UpsertBuildWebhook(ctx context.Context, target BuildTarget, deliveryURL, secret string) (WebhookResult, error) {
	livefsPath := fmt.Sprintf("%s/+livefs/ubuntu/%s/%s", b.client.livefsOwner(), target.Codename, target.Project)

	var existing []webhookEntry
	if err := b.client.collection(ctx, livefsPath+"/webhooks", nil, &existing); err != nil {
		return WebhookCreated, err
	}

	for _, hook := range existing {
		if hook.DeliveryURL != deliveryURL || !hook.subscribesToBuilds() {
			continue
		}

		logging.DebugContext(ctx, "webhook for %s already registered on %s, rotating secret",
			deliveryURL, livefsPath)

		form := url.Values{}
		form.Set("ws.op", "setSecret")
		form.Set("secret", secret)
		if _, err := b.client.do(ctx, http.MethodPost, hook.SelfLink, nil, form); err != nil {
			return WebhookCreated, err
		}
		return WebhookUpdated, nil
	}

	form := url.Values{}
	form.Set("ws.op", "newWebhook")
	form.Set("delivery_url", deliveryURL)
	form.Set("event_types", LivefsBuildEvent)
	form.Set("secret", secret)
	form.Set("active", "true")

	if _, err := b.client.do(ctx, http.MethodPost, livefsPath, nil, form); err != nil {
		return WebhookCreated, err
	}
	return WebhookCreated, nil
}

// UpsertSystemBuildWebhook resolves a system label and upserts the build
// webhook on its livefs. The board does not matter for webhooks: a livefs
// is addressed by codename and project alone.
func (b *ImageBuilder) UpsertSystemBuildWebhook(ctx context.Context, system, deliveryURL, secret string) (WebhookResult, error) {
	codename, project, err := b.resolver.ResolveSystem(system)
	if err != nil {
		return WebhookCreated, err
	}

	target := BuildTarget{SystemLabel: system, Codename: codename, Project: project}
	return b.UpsertBuildWebhook(ctx, target, deliveryURL, secret)
}
