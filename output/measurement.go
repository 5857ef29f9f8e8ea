package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

func delimited(t Table, comma rune) (string, error) {
	b := bytes.NewBufferString("")
	w := csv.NewWriter(b)
	w.Comma = comma
	if err := w.Write(t.Headers); err != nil {
		return "", err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return "", err
	}
	return b.String(), nil
}

// TsvFormatter outputs a table as tab separated values with a header row.
func TsvFormatter(t Table) (string, error) {
	return delimited(t, '\t')
}

// CsvFormatter outputs a table in CSV format.
func CsvFormatter(t Table) (string, error) {
	return delimited(t, ',')
}

// JsonFormatter outputs the rows of a table as a list of objects.
func JsonFormatter(t Table) (string, error) {
	v, err := json.MarshalIndent(t.Records(), "", "    ")
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// YamlFormatter outputs the rows of a table as a YAML sequence.
func YamlFormatter(t Table) (string, error) {
	v, err := yaml.Marshal(t.Records())
	if err != nil {
		return "", err
	}
	return string(v), nil
}
