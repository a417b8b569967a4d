package contacts_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/outreach-dispatch/internal/contacts"
	"github.com/example/outreach-dispatch/internal/models"
	"github.com/example/outreach-dispatch/internal/util"
)

func TestParseCSVSkipsIncompleteRows(t *testing.T) {
	src := "NAME, phone ,Email\n" +
		"Asha,+919876543210,asha@example.com\n" +
		"NoMail,+919876543211,\n" +
		"Ravi,+919876543212,ravi@example.com\n"

	set, err := contacts.Parse(strings.NewReader(src), contacts.FormatCSV)
	require.NoError(t, err)
	require.Len(t, set.Contacts, 2)
	require.Equal(t, models.Contact{Row: 0, Name: "Asha", Phone: "+919876543210", Email: "asha@example.com"}, set.Contacts[0])
	require.Equal(t, 1, set.Contacts[1].Row)
	require.Equal(t, []string{"row 2 skipped: missing email"}, set.Notes)
}

func TestParseCSVMissingColumn(t *testing.T) {
	_, err := contacts.Parse(strings.NewReader("Name,Phone\nA,1\n"), contacts.FormatCSV)
	require.ErrorContains(t, err, "email")
}

func TestParseEmptyIsError(t *testing.T) {
	_, err := contacts.Parse(strings.NewReader("Name,Phone,Email\n,,\n"), contacts.FormatCSV)
	require.ErrorIs(t, err, contacts.ErrNoContacts)
}

func TestParseYAMLAndJSON(t *testing.T) {
	yamlSrc := "- name: Asha\n  phone: \"+919876543210\"\n  email: asha@example.com\n- name: Ravi\n  phone: \"\"\n  email: r@example.com\n"
	set, err := contacts.Parse(strings.NewReader(yamlSrc), contacts.FormatYAML)
	require.NoError(t, err)
	require.Len(t, set.Contacts, 1)
	require.Len(t, set.Notes, 1)

	jsonSrc := `[{"name":"Asha","phone":"+919876543210","email":"asha@example.com"}]`
	set, err = contacts.Parse(strings.NewReader(jsonSrc), contacts.FormatJSON)
	require.NoError(t, err)
	require.Equal(t, "Asha", set.Contacts[0].Name)
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.yml")
	require.NoError(t, os.WriteFile(path, []byte("- name: A\n  phone: \"+919876543210\"\n  email: a@b.io\n"), 0o600))

	set, err := contacts.Load(path)
	require.NoError(t, err)
	require.Len(t, set.Contacts, 1)

	_, err = contacts.Load(filepath.Join(dir, "list.xlsx"))
	require.Error(t, err)
	_, err = contacts.Load(filepath.Join(dir, "absent.csv"))
	require.Error(t, err)
}

func TestCheck(t *testing.T) {
	list := []models.Contact{
		{Row: 0, Name: "A", Phone: "+919876543210", Email: "a@b.io"},
		{Row: 1, Name: "B", Phone: "98765", Email: "not-an-email"},
	}
	issues := contacts.Check(list, util.MustPhoneValidator("91"))
	require.Len(t, issues, 2)
	require.Equal(t, 1, issues[0].Contact.Row)
	require.Equal(t, models.ChannelSMS, issues[0].Channel)
	require.Equal(t, models.ChannelEmail, issues[1].Channel)

	require.Empty(t, contacts.Check(list[:1], nil, models.ChannelWhatsApp))
}
