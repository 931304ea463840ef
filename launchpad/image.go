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

	"github.com/cowdogmoo/buildpad/gpgcrypt"
	"github.com/cowdogmoo/buildpad/logging"
)

// Defaults for image build requests, matching the Ubuntu primary archive.
const (
	defaultImageArchive = "https://api.launchpad.net/1.0/ubuntu/+archive/primary"
	defaultImagePocket  = "Updates"
	distroSeriesRoot    = "https://api.launchpad.net/1.0/ubuntu"
)

// ImageBuilder triggers Ubuntu image (livefs) builds and manages their
// build-notification webhooks.
type ImageBuilder struct {
	client    *Client
	resolver  *Resolver
	encryptor gpgcrypt.Encryptor
	archive   string
	pocket    string
}

// ImageBuilderOption customizes an ImageBuilder.
type ImageBuilderOption func(*ImageBuilder)

// WithResolver substitutes the board/system resolver, e.g. one built over a
// custom hardware catalog.
func WithResolver(resolver *Resolver) ImageBuilderOption {
	return func(b *ImageBuilder) {
		b.resolver = resolver
	}
}

// WithEncryptor substitutes the author-info encryptor.
func WithEncryptor(encryptor gpgcrypt.Encryptor) ImageBuilderOption {
	return func(b *ImageBuilder) {
		b.encryptor = encryptor
	}
}

// WithImageArchive overrides the archive URL used for image builds.
func WithImageArchive(archive string) ImageBuilderOption {
	return func(b *ImageBuilder) {
		b.archive = archive
	}
}

// WithImagePocket overrides the pocket used for image builds.
func WithImagePocket(pocket string) ImageBuilderOption {
	return func(b *ImageBuilder) {
		b.pocket = pocket
	}
}

// NewImageBuilder builds an ImageBuilder over the client. Without options
// it resolves against the built-in hardware catalog and encrypts author
// info with OpenPGP symmetric encryption.
func NewImageBuilder(client *Client, opts ...ImageBuilderOption) *ImageBuilder {
	b := &ImageBuilder{
		client:    client,
		resolver:  NewResolver(nil),
		encryptor: gpgcrypt.NewSymmetric(),
		archive:   defaultImageArchive,
		pocket:    defaultImagePocket,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AuthorInfo identifies who requested an image build. It is encrypted
// before leaving the process and travels only as ciphertext.
type AuthorInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ImageBuildRequest describes one image build.
type ImageBuildRequest struct {
	// Board is the target hardware, e.g. "raspberrypi3".
	Board string
	// System is the OS variant and version, e.g. "core18" or "classic6418.04".
	System string
	// Snaps are extra snaps to preinstall in the image.
	Snaps []string
	// Architecture optionally overrides the catalog architecture.
	Architecture string
	// Channel optionally selects the snap channel baked into the image.
	Channel string
	// ImageFormat optionally selects the output format, e.g. "ubuntu-image".
	ImageFormat string
	// AuthorInfo, when set, is encrypted with GPGPassphrase and attached to
	// the build metadata.
	AuthorInfo *AuthorInfo
	// GPGPassphrase encrypts AuthorInfo. Required when AuthorInfo is set.
	GPGPassphrase string
}

// imageMetadata is the metadata_override payload of a livefs build request.
type imageMetadata struct {
	Subarch     string   `json:"subarch"`
	ExtraSnaps  []string `json:"extra_snaps"`
	Project     string   `json:"project"`
	Channel     string   `json:"channel,omitempty"`
	ImageFormat string   `json:"image_format,omitempty"`
	AuthorData  string   `json:"_author_data,omitempty"`
}

// BuildImage resolves the request's board and system to a livefs target and
// asks Launchpad to build the image. The returned target reports what was
// actually requested.
func (b *ImageBuilder) BuildImage(ctx context.Context, req ImageBuildRequest) (BuildTarget, error) {
	var resolveOpts []ResolveOption
	if req.Architecture != "" {
		resolveOpts = append(resolveOpts, WithArchitecture(req.Architecture))
	}

	target, err := b.resolver.Resolve(req.Board, req.System, resolveOpts...)
	if err != nil {
		return BuildTarget{}, err
	}

	metadata := imageMetadata{
		Subarch:     target.SubArchitecture,
		ExtraSnaps:  req.Snaps,
		Project:     target.Project,
		Channel:     req.Channel,
		ImageFormat: req.ImageFormat,
	}

	if req.AuthorInfo != nil {
		plaintext, err := json.Marshal(req.AuthorInfo)
		if err != nil {
			return BuildTarget{}, fmt.Errorf("failed to encode author info: %w", err)
		}
		ciphertext, err := b.encryptor.Encrypt(string(plaintext), req.GPGPassphrase)
		if err != nil {
			return BuildTarget{}, fmt.Errorf("failed to encrypt author info: %w", err)
		}
		metadata.AuthorData = ciphertext
	}

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return BuildTarget{}, fmt.Errorf("failed to encode build metadata: %w", err)
	}

	form := url.Values{}
	form.Set("ws.op", "requestBuild")
	form.Set("pocket", b.pocket)
	form.Set("archive", b.archive)
	form.Set("distro_arch_series", fmt.Sprintf("%s/%s/%s", distroSeriesRoot, target.Codename, target.Architecture))
	form.Set("metadata_override", string(metadataJSON))

	logging.InfoContext(ctx, "requesting %s image build for %s/%s (%s)",
		target.Project, req.Board, req.System, target.Architecture)

	path := fmt.Sprintf("%s/+livefs/ubuntu/%s/%s", b.client.livefsOwner(), target.Codename, target.Project)
	if _, err := b.client.do(ctx, http.MethodPost, path, nil, form); err != nil {
		return BuildTarget{}, err
	}

	return target, nil
}
