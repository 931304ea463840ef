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
	"sort"

	"github.com/spf13/cobra"

	"github.com/cowdogmoo/buildpad/errors"
	"github.com/cowdogmoo/buildpad/logging"
)

var buildersCmd = &cobra.Command{
	Use:   "builders",
	Short: "Show the builder queue per architecture",
	RunE:  runBuilders,
}

func runBuilders(cmd *cobra.Command, args []string) error {
	client, err := clientFromCmd(cmd)
	if err != nil {
		return err
	}

	status, err := client.BuilderQueueStatus(cmd.Context())
	if err != nil {
		return errors.Wrap("fetch builder queue status", "", err)
	}

	archs := make([]string, 0, len(status))
	for arch := range status {
		archs = append(archs, arch)
	}
	sort.Strings(archs)

	for _, arch := range archs {
		queue := status[arch]
		logging.Info("%-8s %3d pending, estimated wait %s", arch, queue.PendingJobs, queue.HumanEstimate())
	}

	return nil
}
