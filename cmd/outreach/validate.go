package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/outreach-dispatch/internal/contacts"
	"github.com/example/outreach-dispatch/internal/models"
	"github.com/example/outreach-dispatch/internal/util"
)

func newValidateCmd() *cobra.Command {
	var (
		contactsPath string
		channel      string
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check contact destinations without sending anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			phones, err := util.NewPhoneValidator(cfg.Batch.PhoneCountryCode)
			if err != nil {
				return err
			}

			var channels []models.Channel
			if channel != "" {
				ch, err := models.ParseChannel(channel)
				if err != nil {
					return err
				}
				channels = append(channels, ch)
			}

			set, err := contacts.Load(contactsPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, note := range set.Notes {
				fmt.Fprintln(out, note)
			}
			issues := contacts.Check(set.Contacts, phones, channels...)
			for _, issue := range issues {
				fmt.Fprintf(out, "%-20s %-8s %s\n", issue.Contact.Name, issue.Channel, issue.Detail)
			}
			fmt.Fprintf(out, "%d contact(s) loaded, %d issue(s) found.\n", len(set.Contacts), len(issues))
			return nil
		},
	}
	cmd.Flags().StringVarP(&contactsPath, "contacts", "f", "", "contact file (.csv, .yaml, .yml, .json)")
	cmd.Flags().StringVarP(&channel, "channel", "c", "", "limit checks to one channel")
	_ = cmd.MarkFlagRequired("contacts")
	return cmd
}
