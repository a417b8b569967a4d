package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/example/outreach-dispatch/internal/batch"
	"github.com/example/outreach-dispatch/internal/contacts"
	"github.com/example/outreach-dispatch/internal/content"
	"github.com/example/outreach-dispatch/internal/models"
)

type runOptions struct {
	contactsPath string
	channel      string
	text         string
	generate     string
	complexity   string
	subject      string
	attachments  []string
	need         string
	audience     string
	workers      int
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Dispatch a message to every contact in a file",
		Long: "Loads contacts from a CSV, YAML or JSON file and sends each one a message over the selected channel. " +
			"Use --text for a fixed message or --generate template|llm to build one per contact.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatch(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.contactsPath, "contacts", "f", "", "contact file (.csv, .yaml, .yml, .json)")
	flags.StringVarP(&opts.channel, "channel", "c", "", "channel: sms, email, whatsapp or call")
	flags.StringVarP(&opts.text, "text", "t", "", "fixed message text")
	flags.StringVarP(&opts.generate, "generate", "g", "", "generate content instead of --text: template or llm")
	flags.StringVar(&opts.complexity, "complexity", "medium", "content complexity: low, medium or high")
	flags.StringVar(&opts.subject, "subject", "", "email subject")
	flags.StringSliceVar(&opts.attachments, "attach", nil, "file to attach to emails (repeatable)")
	flags.StringVar(&opts.need, "need", "", "what the message should achieve (llm mode)")
	flags.StringVar(&opts.audience, "audience", "", "audience context (llm mode)")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "concurrent sends (defaults to WORKER_CONCURRENCY)")
	_ = cmd.MarkFlagRequired("contacts")
	_ = cmd.MarkFlagRequired("channel")
	return cmd
}

func runBatch(cmd *cobra.Command, opts *runOptions) error {
	mode := content.ModeCustom
	if opts.generate != "" {
		m, err := content.ParseMode(opts.generate)
		if err != nil {
			return err
		}
		mode = m
	}
	complexity, err := models.ParseComplexity(opts.complexity)
	if err != nil {
		return err
	}

	set, err := contacts.Load(opts.contactsPath)
	if err != nil {
		return err
	}
	attachments, err := readAttachments(opts.attachments)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	for _, note := range set.Notes {
		a.log.Warn().Str("file", opts.contactsPath).Msg(note)
	}

	runner, err := a.runner(opts.workers)
	if err != nil {
		return err
	}

	// Unknown channels still run so every contact gets its failure outcome.
	channel, _ := models.ParseChannel(opts.channel)
	report := runner.Run(cmd.Context(), batch.Request{
		Contacts:    set.Contacts,
		Channel:     channel,
		Mode:        mode,
		Text:        opts.text,
		Complexity:  complexity,
		Subject:     opts.subject,
		Attachments: attachments,
		Need:        opts.need,
		Audience:    opts.audience,
	})

	printReport(cmd.OutOrStdout(), report)
	return nil
}

func printReport(w io.Writer, report models.BatchReport) {
	for _, o := range report.Successes {
		fmt.Fprintf(w, "ok    %-20s %s\n", o.Contact.Name, o.Detail)
	}
	for _, o := range report.Failures {
		fmt.Fprintf(w, "fail  %-20s %s\n", o.Contact.Name, o.Detail)
	}
	fmt.Fprintln(w, batch.Summary(report))
}
