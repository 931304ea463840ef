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
	webhookSystem string
	webhookURL    string
	webhookSecret string
)

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Manage build-notification webhooks",
}

var webhookUpsertCmd = &cobra.Command{
	Use:   "upsert",
	Short: "Register a build webhook, or rotate its secret if it exists",
	RunE:  runWebhookUpsert,
}

func init() {
	webhookUpsertCmd.Flags().StringVar(&webhookSystem, "system", "", "System label whose livefs to watch, e.g. classic18.04")
	webhookUpsertCmd.Flags().StringVar(&webhookURL, "url", "", "Delivery URL (defaults to image.delivery_url from config)")
	webhookUpsertCmd.Flags().StringVar(&webhookSecret, "secret", "", "Webhook secret (defaults to image.webhook_secret from config)")

	if err := webhookUpsertCmd.MarkFlagRequired("system"); err != nil {
		panic(err)
	}

	webhookCmd.AddCommand(webhookUpsertCmd)
}

func runWebhookUpsert(cmd *cobra.Command, args []string) error {
	client, err := clientFromCmd(cmd)
	if err != nil {
		return err
	}
	cfg := configFromContext(cmd)

	deliveryURL := webhookURL
	if deliveryURL == "" {
		deliveryURL = cfg.Image.DeliveryURL
	}
	secret := webhookSecret
	if secret == "" {
		secret = cfg.Image.WebhookSecret
	}
	if deliveryURL == "" {
		return fmt.Errorf("a delivery URL is required (--url or image.delivery_url)")
	}

	builder := launchpad.NewImageBuilder(client)

	result, err := builder.UpsertSystemBuildWebhook(cmd.Context(), webhookSystem, deliveryURL, secret)
	if err != nil {
		return errors.Wrap("upsert webhook", webhookSystem, err)
	}

	logging.Info("Webhook %s for %s (%s)", result, webhookSystem, logging.RedactURL(deliveryURL))
	return nil
}
