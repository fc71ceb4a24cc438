package vcard

import (
	"bufio"
	"io"
	"strings"

	"github.com/mesh-intelligence/cardfile/pkg/types"
)

// VersionLine is written after BEGIN:VCARD in every card.
const VersionLine = "VERSION:3.0"

// Write encodes records as card text, one block per contact in sequence
// order. Only family, given, full_name, tel_work, and tel_home are written;
// tel and pass-through properties are dropped.
func Write(records types.Sequence) string {
	var b strings.Builder
	// strings.Builder never returns a write error.
	_ = Encode(&b, records)
	return b.String()
}

// Encode writes the card text for records to w. The only errors it returns
// come from w.
func Encode(w io.Writer, records types.Sequence) error {
	bw := bufio.NewWriter(w)
	for _, c := range records {
		writeCard(bw, c)
	}
	return bw.Flush()
}

func writeCard(w *bufio.Writer, c types.Contact) {
	line := func(s string) {
		w.WriteString(s)
		w.WriteByte('\n')
	}

	line(BeginMarker)
	line(VersionLine)
	if c.Family != nil || c.Given != nil {
		line("N:" + c.Value(types.FieldFamily) + ";" + c.Value(types.FieldGiven) + ";;;")
	}
	if c.FullName != nil {
		line("FN:" + *c.FullName)
	}
	if c.TelWork != nil {
		line("TEL;TYPE=WORK:" + *c.TelWork)
	}
	if c.TelHome != nil {
		line("TEL;TYPE=HOME:" + *c.TelHome)
	}
	line(EndMarker)
}
