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
	snapGitURL   string
	snapMacaroon string
)

var snapCmd = &cobra.Command{
	Use:   "snap",
	Short: "Manage snap recipes and their builds",
}

var snapCreateCmd = &cobra.Command{
	Use:   "create <store-name>",
	Short: "Create a snap recipe for a git repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapCreate,
}

var snapBuildCmd = &cobra.Command{
	Use:   "build <store-name>",
	Short: "Request builds on all configured architectures",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapBuild,
}

var snapCancelCmd = &cobra.Command{
	Use:   "cancel <store-name>",
	Short: "Cancel all pending builds",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapCancel,
}

var snapDeleteCmd = &cobra.Command{
	Use:   "delete <store-name>",
	Short: "Delete a snap recipe",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapDelete,
}

var snapFindCmd = &cobra.Command{
	Use:   "find <store-name>",
	Short: "Look up a snap recipe by store name",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapFind,
}

var snapStatusCmd = &cobra.Command{
	Use:   "status <store-name>",
	Short: "Show build status per architecture",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapStatus,
}

func init() {
	snapCreateCmd.Flags().StringVar(&snapGitURL, "git-url", "", "Git repository the snap is built from")
	snapCreateCmd.Flags().StringVar(&snapMacaroon, "macaroon", "", "Store upload macaroon")
	if err := snapCreateCmd.MarkFlagRequired("git-url"); err != nil {
		panic(err)
	}
	if err := snapCreateCmd.MarkFlagRequired("macaroon"); err != nil {
		panic(err)
	}

	snapCmd.AddCommand(snapCreateCmd)
	snapCmd.AddCommand(snapBuildCmd)
	snapCmd.AddCommand(snapCancelCmd)
	snapCmd.AddCommand(snapDeleteCmd)
	snapCmd.AddCommand(snapFindCmd)
	snapCmd.AddCommand(snapStatusCmd)
}

func snapBuilderFromCmd(cmd *cobra.Command) (*launchpad.SnapBuilder, error) {
	client, err := clientFromCmd(cmd)
	if err != nil {
		return nil, err
	}
	return launchpad.NewSnapBuilder(client), nil
}

func runSnapCreate(cmd *cobra.Command, args []string) error {
	builder, err := snapBuilderFromCmd(cmd)
	if err != nil {
		return err
	}

	recipe, err := builder.Create(cmd.Context(), args[0], snapGitURL, snapMacaroon)
	if err != nil {
		return errors.Wrap("create snap recipe", args[0], err)
	}

	logging.Info("Created recipe %s for %s", recipe.Name, recipe.StoreName)
	return nil
}

func runSnapBuild(cmd *cobra.Command, args []string) error {
	builder, err := snapBuilderFromCmd(cmd)
	if err != nil {
		return err
	}

	if err := builder.TriggerBuild(cmd.Context(), args[0]); err != nil {
		return errors.Wrap("trigger builds", args[0], err)
	}

	logging.Info("Builds requested for %s", args[0])
	return nil
}

func runSnapCancel(cmd *cobra.Command, args []string) error {
	builder, err := snapBuilderFromCmd(cmd)
	if err != nil {
		return err
	}

	if err := builder.CancelPendingBuilds(cmd.Context(), args[0]); err != nil {
		return errors.Wrap("cancel pending builds", args[0], err)
	}

	logging.Info("Pending builds cancelled for %s", args[0])
	return nil
}

func runSnapDelete(cmd *cobra.Command, args []string) error {
	builder, err := snapBuilderFromCmd(cmd)
	if err != nil {
		return err
	}

	if err := builder.Delete(cmd.Context(), args[0]); err != nil {
		return errors.Wrap("delete snap recipe", args[0], err)
	}

	logging.Info("Deleted recipe for %s", args[0])
	return nil
}

func runSnapFind(cmd *cobra.Command, args []string) error {
	builder, err := snapBuilderFromCmd(cmd)
	if err != nil {
		return err
	}

	recipe, err := builder.FindByStoreName(cmd.Context(), args[0])
	if err != nil {
		return errors.Wrap("look up snap recipe", args[0], err)
	}
	if recipe == nil {
		return fmt.Errorf("no recipe registered for %q", args[0])
	}

	logging.Default().Output(recipe)
	return nil
}

func runSnapStatus(cmd *cobra.Command, args []string) error {
	builder, err := snapBuilderFromCmd(cmd)
	if err != nil {
		return err
	}

	status, err := builder.BuildStatusByArchitecture(cmd.Context(), args[0])
	if err != nil {
		return errors.Wrap("fetch build status", args[0], err)
	}

	if len(status) == 0 {
		logging.Info("No recent builds for %s", args[0])
		return nil
	}

	logging.Default().Output(status)
	return nil
}
