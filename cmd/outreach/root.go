package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "outreach",
		Short:         "Send one message to many contacts over SMS, email, WhatsApp or call",
		Long:          "Loads provider credentials from the environment (and an optional .env file), resolves content per contact and dispatches it over the selected channel.",
		SilenceUsage:  true,
	}
	root.AddCommand(newRunCmd(), newSendCmd(), newValidateCmd())
	return root
}
