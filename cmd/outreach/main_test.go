package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func setMockEnv(t *testing.T) {
	t.Helper()
	for key, value := range map[string]string{
		"APP_ENV":            "test",
		"LOG_LEVEL":          "disabled",
		"SMS_PROVIDER":       "mock",
		"EMAIL_PROVIDER":     "mock",
		"WHATSAPP_PROVIDER":  "mock",
		"VOICE_PROVIDER":     "mock",
		"KAFKA_BROKERS":      "",
		"PERPLEXITY_API_KEY": "",
		"PHONE_COUNTRY_CODE": "91",
		"WORKER_CONCURRENCY": "2",
	} {
		t.Setenv(key, value)
	}
}

func writeContacts(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contacts.csv")
	src := "Name,Phone,Email\n" +
		"Asha,+919876543210,asha@example.com\n" +
		"Ravi,12345,ravi@example.com\n" +
		"Meera,+919123456789,meera@example.com\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunCommandSMSBatch(t *testing.T) {
	setMockEnv(t)
	out, err := execute(t, "run", "--contacts", writeContacts(t), "--channel", "sms", "--text", "Hello")
	require.NoError(t, err)
	require.Contains(t, out, "Invalid phone number: 12345")
	require.Contains(t, out, "Sent to 2 contact(s).")
	require.Contains(t, out, "Failed to send to 1 contact(s).")
}

func TestRunCommandTemplateEmail(t *testing.T) {
	setMockEnv(t)
	out, err := execute(t, "run", "-f", writeContacts(t), "-c", "email", "--generate", "template", "--complexity", "low")
	require.NoError(t, err)
	require.Contains(t, out, "Email sent to Asha successfully")
	require.Contains(t, out, "Sent to 3 contact(s).")
}

func TestRunCommandUnknownChannelFailsEveryContact(t *testing.T) {
	setMockEnv(t)
	out, err := execute(t, "run", "-f", writeContacts(t), "-c", "pigeon", "--text", "hi")
	require.NoError(t, err)
	require.Equal(t, 3, strings.Count(out, "Unsupported communication mode: pigeon"))
}

func TestRunCommandMissingFile(t *testing.T) {
	setMockEnv(t)
	_, err := execute(t, "run", "-f", filepath.Join(t.TempDir(), "none.csv"), "-c", "sms", "--text", "hi")
	require.Error(t, err)
}

func TestSendCommand(t *testing.T) {
	setMockEnv(t)
	out, err := execute(t, "send", "--channel", "whatsapp", "--to", "+919876543210", "--text", "hi")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "ok  WhatsApp sent: "), out)
}

func TestValidateCommand(t *testing.T) {
	setMockEnv(t)
	out, err := execute(t, "validate", "--contacts", writeContacts(t), "--channel", "call")
	require.NoError(t, err)
	require.Contains(t, out, `invalid phone "12345"`)
	require.Contains(t, out, "3 contact(s) loaded, 1 issue(s) found.")
}
