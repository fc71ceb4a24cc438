package csvtable

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/cardfile/pkg/types"
)

const header = "family,given,full_name,tel_work,tel_home\r\n"

func TestWriteEndToEndExample(t *testing.T) {
	rec := types.Contact{
		Family:   types.Str("Doe"),
		Given:    types.Str("John"),
		FullName: types.Str("John Doe"),
		TelWork:  types.Str("555-1111"),
	}

	got := Write(types.Sequence{rec})

	assert.Equal(t, header+"Doe,John,John Doe,555-1111,\r\n", got)
}

func TestWriteHeaderOnlyForEmptySequence(t *testing.T) {
	assert.Equal(t, header, Write(nil))
}

func TestWriteOmitsFieldsOutsideSchema(t *testing.T) {
	rec := types.Contact{
		Tel:   types.Str("555-3333"),
		Extra: map[string]string{"EMAIL": "ann@example.com"},
	}

	got := Write(types.Sequence{rec})

	assert.Equal(t, header+",,,,\r\n", got)
}

func TestWriteQuoting(t *testing.T) {
	tests := []struct {
		name    string
		rec     types.Contact
		wantRow string
	}{
		{
			name:    "comma in value",
			rec:     types.Contact{FullName: types.Str("Doe, John")},
			wantRow: `,,"Doe, John",,`,
		},
		{
			name:    "quote in value",
			rec:     types.Contact{Given: types.Str(`Jo "JJ"`)},
			wantRow: `,"Jo ""JJ""",,,`,
		},
		{
			name:    "newline in value",
			rec:     types.Contact{Family: types.Str("a\nb")},
			wantRow: "\"a\nb\",,,,",
		},
		{
			name:    "carriage return in value",
			rec:     types.Contact{FullName: types.Str("a\rb")},
			wantRow: ",,\"a\rb\",,",
		},
		{
			name:    "CRLF in value",
			rec:     types.Contact{TelHome: types.Str("x\r\ny")},
			wantRow: ",,,,\"x\r\ny\"",
		},
		{
			name:    "unicode passes unquoted",
			rec:     types.Contact{Family: types.Str("Иванов")},
			wantRow: "Иванов,,,,",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Write(types.Sequence{tt.rec})
			assert.Equal(t, header+tt.wantRow+"\r\n", got)
		})
	}
}

func TestWriteReadsBackWithCSVReader(t *testing.T) {
	seq := types.Sequence{
		{Family: types.Str("Doe"), Given: types.Str("John"), TelHome: types.Str("1")},
		{FullName: types.Str(`Tricky, "quoted"`)},
		{Tel: types.Str("dropped")},
		{FullName: types.Str("a\rb"), Given: types.Str("x\ny")},
	}

	rows, err := csv.NewReader(strings.NewReader(Write(seq))).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		Columns,
		{"Doe", "John", "", "", "1"},
		{"", "", `Tricky, "quoted"`, "", ""},
		{"", "", "", "", ""},
		{"", "x\ny", "a\rb", "", ""},
	}, rows)
}

func TestWritePreservesOrder(t *testing.T) {
	seq := types.Sequence{
		{Family: types.Str("C")},
		{Family: types.Str("A")},
		{Family: types.Str("B")},
	}

	lines := strings.Split(strings.TrimSuffix(Write(seq), "\r\n"), "\r\n")

	require.Len(t, lines, 4)
	assert.Equal(t, []string{"C,,,,", "A,,,,", "B,,,,"}, lines[1:])
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestEncode(t *testing.T) {
	seq := types.Sequence{{FullName: types.Str("Ann")}}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, seq))
	assert.Equal(t, Write(seq), buf.String())

	assert.Error(t, Encode(failingWriter{}, seq))
}
