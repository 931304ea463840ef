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
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/cowdogmoo/buildpad/logging"
)

// Snap recipe creation defaults.
const (
	snapAutoBuildArchive = "/ubuntu/+archive/primary"
	snapAutoBuildPocket  = "Updates"
	snapStoreSeries      = "/+snappy-series/16"
	snapGitPath          = "HEAD"
)

// SupportedArchitectures are the processors every recipe is configured to
// build for, and the window size used when reducing build status per
// architecture.
var SupportedArchitectures = []string{
	"amd64", "arm64", "armhf", "i386", "ppc64el", "s390x",
}

// SnapBuilder manages snap recipes and their builds.
type SnapBuilder struct {
	client *Client
}

// NewSnapBuilder builds a SnapBuilder over the client.
func NewSnapBuilder(client *Client) *SnapBuilder {
	return &SnapBuilder{client: client}
}

// SnapRecipe is a view over a Launchpad snap recipe. The client holds no
// authoritative copy; every operation re-reads remote state.
type SnapRecipe struct {
	SelfLink                      string            `json:"self_link"`
	Name                          string            `json:"name"`
	StoreName                     string            `json:"store_name"`
	GitRepositoryURL              string            `json:"git_repository_url"`
	GitPath                       string            `json:"git_path"`
	AutoBuildArchive              string            `json:"auto_build_archive"`
	AutoBuildPocket               string            `json:"auto_build_pocket"`
	AutoBuildChannels             map[string]string `json:"auto_build_channels"`
	StoreSeriesLink               string            `json:"store_series_link"`
	StoreUpload                   bool              `json:"store_upload"`
	BuildsCollectionLink          string            `json:"builds_collection_link"`
	PendingBuildsCollectionLink   string            `json:"pending_builds_collection_link"`
	CompletedBuildsCollectionLink string            `json:"completed_builds_collection_link"`
}

// RecipeName derives the identity of a recipe from its git URL. Two
// creations from the same URL collide to the same remote recipe, which is
// what makes Create idempotent. The digest is an identity key, not a
// security boundary.
func RecipeName(gitURL string) string {
	sum := md5.Sum([]byte(gitURL))
	return hex.EncodeToString(sum[:])
}

// FindByStoreName returns the snap recipe registered under the given store
// name, or nil when none matches. The remote lookup may prefix-match, so
// the first entry's store name is re-verified against the query; a mismatch
// is "not found", not an error.
func (b *SnapBuilder) FindByStoreName(ctx context.Context, storeName string) (*SnapRecipe, error) {
	params := url.Values{}
	params.Set("ws.op", "findByStoreName")
	params.Set("owner", "/"+b.client.owner())
	params.Set("store_name", storeName)

	var recipes []SnapRecipe
	if err := b.client.collection(ctx, "+snaps", params, &recipes); err != nil {
		return nil, err
	}

	if len(recipes) > 0 && recipes[0].StoreName == storeName {
		return &recipes[0], nil
	}

	return nil, nil
}

// Create registers a snap recipe for the git URL and authorizes it to
// upload to the store with the given macaroon. Creation is a two-step
// sequence: if authorization fails, the recipe exists but cannot upload,
// and the caller should detect that through a later status check.
func (b *SnapBuilder) Create(ctx context.Context, storeName, gitURL, macaroon string) (*SnapRecipe, error) {
	if _, err := transport.NewEndpoint(gitURL); err != nil {
		return nil, fmt.Errorf("invalid git repository URL %q: %w", gitURL, err)
	}

	name := RecipeName(gitURL)

	form := url.Values{}
	form.Set("ws.op", "new")
	form.Set("owner", "/"+b.client.owner())
	form.Set("name", name)
	form.Set("store_name", storeName)
	form.Set("git_repository_url", gitURL)
	form.Set("git_path", snapGitPath)
	form.Set("auto_build", "false")
	form.Set("auto_build_archive", snapAutoBuildArchive)
	form.Set("auto_build_pocket", snapAutoBuildPocket)
	for _, arch := range SupportedArchitectures {
		form.Add("processors", "/+processors/"+arch)
	}
	form.Set("store_series", snapStoreSeries)
	form.Set("store_upload", "true")

	logging.InfoContext(ctx, "creating snap recipe %s for store name %s", name, storeName)

	if _, err := b.client.do(ctx, http.MethodPost, "+snaps", nil, form); err != nil {
		return nil, err
	}

	authForm := url.Values{}
	authForm.Set("ws.op", "completeAuthorization")
	authForm.Set("root_macaroon", macaroon)

	recipePath := fmt.Sprintf("%s/+snap/%s", b.client.owner(), name)
	if _, err := b.client.do(ctx, http.MethodPost, recipePath, nil, authForm); err != nil {
		return nil, fmt.Errorf("recipe %s created but store authorization failed: %w", name, err)
	}

	recipe, err := b.FindByStoreName(ctx, storeName)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, fmt.Errorf("snap recipe %q: %w", storeName, ErrNotFound)
	}
	return recipe, nil
}

// TriggerBuild requests builds of the recipe on all of its configured
// architectures in a single aggregate call. The archive, pocket, and
// channels come from the recipe itself, not from the caller.
func (b *SnapBuilder) TriggerBuild(ctx context.Context, storeName string) error {
	recipe, err := b.FindByStoreName(ctx, storeName)
	if err != nil {
		return err
	}
	if recipe == nil {
		return fmt.Errorf("snap recipe %q: %w", storeName, ErrNotFound)
	}

	form := url.Values{}
	form.Set("ws.op", "requestBuilds")
	form.Set("archive", recipe.AutoBuildArchive)
	form.Set("pocket", recipe.AutoBuildPocket)
	for channel, risk := range recipe.AutoBuildChannels {
		form.Add("channels", channel+"="+risk)
	}

	logging.InfoContext(ctx, "requesting builds for snap %s", storeName)

	_, err = b.client.do(ctx, http.MethodPost, recipe.SelfLink, nil, form)
	return err
}

// CancelPendingBuilds cancels every pending build of the recipe. Each
// cancel is an independent call: a failure aborts the loop but cancels
// already issued stay applied remotely.
func (b *SnapBuilder) CancelPendingBuilds(ctx context.Context, storeName string) error {
	recipe, err := b.FindByStoreName(ctx, storeName)
	if err != nil {
		return err
	}
	if recipe == nil {
		return fmt.Errorf("snap recipe %q: %w", storeName, ErrNotFound)
	}

	var pending []Build
	if err := b.client.collection(ctx, recipe.PendingBuildsCollectionLink, nil, &pending); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("ws.op", "cancel")

	for _, build := range pending {
		if _, err := b.client.do(ctx, http.MethodPost, build.SelfLink, nil, form); err != nil {
			return fmt.Errorf("failed to cancel build %s: %w", build.SelfLink, err)
		}
	}

	return nil
}

// Delete removes the recipe. It returns ErrNotFound when no recipe is
// registered under the store name.
func (b *SnapBuilder) Delete(ctx context.Context, storeName string) error {
	recipe, err := b.FindByStoreName(ctx, storeName)
	if err != nil {
		return err
	}
	if recipe == nil {
		return fmt.Errorf("snap recipe %q: %w", storeName, ErrNotFound)
	}

	logging.InfoContext(ctx, "deleting snap recipe %s", storeName)

	_, err = b.client.do(ctx, http.MethodDelete, recipe.SelfLink, nil, nil)
	return err
}

// IsBuilding reports whether the recipe has any pending builds.
func (b *SnapBuilder) IsBuilding(ctx context.Context, storeName string) (bool, error) {
	recipe, err := b.FindByStoreName(ctx, storeName)
	if err != nil {
		return false, err
	}
	if recipe == nil {
		return false, fmt.Errorf("snap recipe %q: %w", storeName, ErrNotFound)
	}

	var pending []Build
	if err := b.client.collection(ctx, recipe.PendingBuildsCollectionLink, nil, &pending); err != nil {
		return false, err
	}

	return len(pending) > 0, nil
}
