package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/outreach-dispatch/internal/models"
)

type sendOptions struct {
	channel     string
	to          string
	name        string
	text        string
	subject     string
	attachments []string
}

func newSendCmd() *cobra.Command {
	opts := &sendOptions{}
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a single message to one destination",
		Long:  "Builds one dispatch request and sends it through the configured provider. Useful as a provider smoke test.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			attachments, err := readAttachments(opts.attachments)
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			channel, _ := models.ParseChannel(opts.channel)
			res := a.dispatcher.Dispatch(cmd.Context(), &models.DispatchRequest{
				Channel:     channel,
				Content:     opts.text,
				Destination: opts.to,
				DisplayName: opts.name,
				Subject:     opts.subject,
				Attachments: attachments,
			})

			status := "ok"
			if !res.Success {
				status = "fail"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", status, res.Detail)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.channel, "channel", "c", "", "channel: sms, email, whatsapp or call")
	flags.StringVar(&opts.to, "to", "", "destination phone number or email address")
	flags.StringVar(&opts.name, "name", "", "recipient display name")
	flags.StringVarP(&opts.text, "text", "t", "", "message text")
	flags.StringVar(&opts.subject, "subject", "", "email subject")
	flags.StringSliceVar(&opts.attachments, "attach", nil, "file to attach to emails (repeatable)")
	_ = cmd.MarkFlagRequired("channel")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}
