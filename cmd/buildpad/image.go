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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cowdogmoo/buildpad/errors"
	"github.com/cowdogmoo/buildpad/launchpad"
	"github.com/cowdogmoo/buildpad/logging"
)

var (
	imageBoard      string
	imageSystem     string
	imageSnaps      []string
	imageArch       string
	imageAuthorName string
	imageAuthorMail string
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Trigger Ubuntu image builds",
}

var imageBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Request an image build for a board and system",
	RunE:  runImageBuild,
}

func init() {
	imageBuildCmd.Flags().StringVar(&imageBoard, "board", "", "Target board, e.g. raspberrypi3")
	imageBuildCmd.Flags().StringVar(&imageSystem, "system", "", "System label, e.g. core18 or classic6418.04")
	imageBuildCmd.Flags().StringSliceVar(&imageSnaps, "snap", nil, "Extra snap to preinstall (repeatable)")
	imageBuildCmd.Flags().StringVar(&imageArch, "arch", "", "Override the catalog architecture")
	imageBuildCmd.Flags().StringVar(&imageAuthorName, "author-name", "", "Build author name")
	imageBuildCmd.Flags().StringVar(&imageAuthorMail, "author-email", "", "Build author email")

	if err := imageBuildCmd.MarkFlagRequired("board"); err != nil {
		panic(err)
	}
	if err := imageBuildCmd.MarkFlagRequired("system"); err != nil {
		panic(err)
	}

	imageCmd.AddCommand(imageBuildCmd)
}

func runImageBuild(cmd *cobra.Command, args []string) error {
	client, err := clientFromCmd(cmd)
	if err != nil {
		return err
	}
	cfg := configFromContext(cmd)

	builder := launchpad.NewImageBuilder(client)

	req := launchpad.ImageBuildRequest{
		Board:        imageBoard,
		System:       imageSystem,
		Snaps:        imageSnaps,
		Architecture: imageArch,
		Channel:      cfg.Image.Channel,
		ImageFormat:  cfg.Image.ImageFormat,
	}

	if imageAuthorName != "" || imageAuthorMail != "" {
		if cfg.Image.GPGPassphrase == "" {
			return fmt.Errorf("image.gpg_passphrase must be configured to attach author info")
		}
		req.AuthorInfo = &launchpad.AuthorInfo{
			Name:  imageAuthorName,
			Email: imageAuthorMail,
		}
		req.GPGPassphrase = cfg.Image.GPGPassphrase
	}

	target, err := builder.BuildImage(cmd.Context(), req)
	if err != nil {
		return errors.Wrap("request image build", imageBoard, err)
	}

	logging.Info("Build requested: %s/%s on %s (%s, subarch %q)",
		target.Codename, target.Project, target.Board, target.Architecture, target.SubArchitecture)
	return nil
}
