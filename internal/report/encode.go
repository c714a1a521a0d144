package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/bytedance/sonic"
)

// MarshalIndent returns indented JSON encoding of v.
func MarshalIndent(v interface{}) ([]byte, error) {
	return sonic.ConfigStd.MarshalIndent(v, "", "  ")
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v interface{}) error {
	data, err := MarshalIndent(v)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// WriteCSV writes one line per entry with the formatted duplicates.
func WriteCSV(w io.Writer, entries []Entry) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"sheet", "row", "language", "title", "duplicates"}); err != nil {
		return err
	}

	for _, entry := range entries {
		row := []string{
			entry.Sheet,
			strconv.Itoa(entry.Row),
			entry.Language.String(),
			entry.Title,
			Format(entry.Duplicates),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
