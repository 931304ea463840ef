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

	"github.com/cowdogmoo/buildpad/config"
	"github.com/cowdogmoo/buildpad/errors"
	"github.com/cowdogmoo/buildpad/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage buildpad configuration",
	Long: `Manage buildpad's configuration file.

The configuration file stores the Launchpad credentials, the API endpoint,
and image/webhook defaults.

Configuration precedence (highest to lowest):
1. CLI flags
2. Environment variables (BUILDPAD_*)
3. Configuration file (~/.buildpad/config.yaml)
4. Built-in defaults`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long: `Create a new configuration file with default values.

This will create ~/.buildpad/config.yaml with sensible defaults.
If the file already exists, it will be overwritten only with --force.`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the effective configuration after merging defaults, the
configuration file, and environment variables. Credential values are
masked.`,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

var configForce bool

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)

	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite existing config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap("load default config", "", err)
	}

	path, err := config.WriteDefault(cfg, configForce)
	if err != nil {
		return err
	}

	logging.Info("Configuration file created at: %s", path)
	logging.Info("Edit this file to set your Launchpad credentials")

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := configFromContext(cmd)
	if cfg == nil {
		return fmt.Errorf("no configuration loaded")
	}

	redacted := cfg.Redacted()
	data, err := redacted.ToYAML()
	if err != nil {
		return err
	}

	fmt.Println("# Current buildpad configuration")
	fmt.Println("# Sources: defaults -> config file -> environment variables")
	fmt.Println()
	fmt.Print(string(data))

	if path := config.FindFile(); path != "" {
		fmt.Printf("\n# Config file: %s\n", path)
	} else {
		fmt.Println("\n# No config file found (using defaults)")
	}

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	if path := config.FindFile(); path != "" {
		fmt.Println(path)
		return nil
	}

	defaultPath, err := config.DefaultPath()
	if err != nil {
		return err
	}
	fmt.Printf("%s (not created yet)\n", defaultPath)
	logging.Info("Run 'buildpad config init' to create the config file")

	return nil
}
