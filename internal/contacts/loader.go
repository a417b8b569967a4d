package contacts

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/outreach-dispatch/internal/models"
)

// Format identifies a contact file encoding.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrNoContacts is returned when a file yields no usable rows.
var ErrNoContacts = errors.New("contacts: no valid contacts found")

var requiredColumns = []string{"name", "phone", "email"}

// Set is the result of loading a contact file. Notes lists every row that
// was skipped and why.
type Set struct {
	Contacts []models.Contact
	Notes    []string
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("contacts: unsupported file type %q", filepath.Ext(path))
	}
}

// Load reads the contact file at path.
func Load(path string) (Set, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Set{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Set{}, fmt.Errorf("contacts: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f, format)
}

// Parse decodes contacts from r. Rows missing a name, phone or email are
// skipped. Remaining contacts are numbered from zero in file order.
func Parse(r io.Reader, format Format) (Set, error) {
	var (
		rows []models.Contact
		err  error
	)
	switch format {
	case FormatCSV:
		rows, err = parseCSV(r)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&rows)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&rows)
	default:
		return Set{}, fmt.Errorf("contacts: unsupported format %q", format)
	}
	if err != nil {
		return Set{}, fmt.Errorf("contacts: decode %s: %w", format, err)
	}

	set := Set{Contacts: make([]models.Contact, 0, len(rows))}
	for i, c := range rows {
		c.Name = strings.TrimSpace(c.Name)
		c.Phone = strings.TrimSpace(c.Phone)
		c.Email = strings.TrimSpace(c.Email)
		if missing := missingFields(c); len(missing) > 0 {
			set.Notes = append(set.Notes, fmt.Sprintf("row %d skipped: missing %s", i+1, strings.Join(missing, ", ")))
			continue
		}
		c.Row = len(set.Contacts)
		set.Contacts = append(set.Contacts, c)
	}
	if len(set.Contacts) == 0 {
		return set, ErrNoContacts
	}
	return set, nil
}

func parseCSV(r io.Reader) ([]models.Contact, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	var absent []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			absent = append(absent, col)
		}
	}
	if len(absent) > 0 {
		return nil, fmt.Errorf("missing required column(s): %s", strings.Join(absent, ", "))
	}

	cell := func(record []string, col string) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []models.Contact
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, models.Contact{
			Name:  cell(record, "name"),
			Phone: cell(record, "phone"),
			Email: cell(record, "email"),
		})
	}
	return rows, nil
}

func missingFields(c models.Contact) []string {
	var missing []string
	if c.Name == "" {
		missing = append(missing, "name")
	}
	if c.Phone == "" {
		missing = append(missing, "phone")
	}
	if c.Email == "" {
		missing = append(missing, "email")
	}
	return missing
}
