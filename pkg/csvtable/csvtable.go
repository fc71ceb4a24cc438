// Package csvtable writes a contact sequence as CSV with a fixed column
// schema. Columns are not derived from the data: fields outside the schema,
// including the unclassified tel field and pass-through properties, are
// omitted.
package csvtable

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/mesh-intelligence/cardfile/pkg/types"
)

// Columns is the header row, in output order.
var Columns = []string{
	types.FieldFamily,
	types.FieldGiven,
	types.FieldFullName,
	types.FieldTelWork,
	types.FieldTelHome,
}

// Write returns the CSV text for records: the header, then one row per
// contact in sequence order. Absent fields are empty cells.
func Write(records types.Sequence) string {
	var b strings.Builder
	// strings.Builder never returns a write error.
	_ = Encode(&b, records)
	return b.String()
}

// Encode writes the CSV text for records to w. Rows end with CRLF and
// fields are quoted when they contain a comma, a quote, a line break, or
// leading whitespace. Line breaks inside a quoted field are written as they
// are.
func Encode(w io.Writer, records types.Sequence) error {
	bw := bufio.NewWriter(w)
	var row bytes.Buffer
	cw := csv.NewWriter(&row)

	// encoding/csv with UseCRLF rewrites CR and LF inside fields, so rows are
	// written with LF and only the terminator is replaced.
	writeRow := func(fields []string) error {
		row.Reset()
		if err := cw.Write(fields); err != nil {
			return err
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		line := bytes.TrimSuffix(row.Bytes(), []byte("\n"))
		if _, err := bw.Write(line); err != nil {
			return err
		}
		_, err := bw.WriteString("\r\n")
		return err
	}

	if err := writeRow(Columns); err != nil {
		return err
	}
	fields := make([]string, len(Columns))
	for _, c := range records {
		for i, col := range Columns {
			fields[i] = c.Value(col)
		}
		if err := writeRow(fields); err != nil {
			return err
		}
	}
	return bw.Flush()
}
