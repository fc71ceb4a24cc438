package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(full string) Contact {
	return Contact{FullName: Str(full)}
}

func TestSequenceAppendAndAt(t *testing.T) {
	var s Sequence
	assert.Equal(t, 0, s.Append(named("A")))
	assert.Equal(t, 1, s.Append(named("B")))
	assert.Equal(t, 2, s.Len())

	c, err := s.At(1)
	require.NoError(t, err)
	assert.Equal(t, "B", c.Value(FieldFullName))

	_, err = s.At(2)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = s.At(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestSequenceReplace(t *testing.T) {
	s := Sequence{named("A"), named("B")}

	require.NoError(t, s.Replace(0, named("Z")))
	assert.Equal(t, "Z", s[0].Value(FieldFullName))
	assert.ErrorIs(t, s.Replace(5, named("Q")), ErrIndexOutOfRange)
}

func TestSequenceRemoveShiftsIndices(t *testing.T) {
	s := Sequence{named("A"), named("B"), named("C")}

	require.NoError(t, s.Remove(1))
	require.Equal(t, 2, s.Len())
	assert.Equal(t, "A", s[0].Value(FieldFullName))
	assert.Equal(t, "C", s[1].Value(FieldFullName))

	assert.ErrorIs(t, s.Remove(2), ErrIndexOutOfRange)
	assert.Equal(t, 2, s.Len())
}

func TestSequenceSearch(t *testing.T) {
	s := Sequence{
		{Family: Str("Doe"), Given: Str("John"), FullName: Str("John Doe")},
		{Family: Str("Smith"), Given: Str("Anna")},
		{FullName: Str("Doris Day")},
		{Tel: Str("555-0000")},
	}

	tests := []struct {
		name        string
		query       string
		wantIndices []int
	}{
		{name: "empty query returns all", query: "", wantIndices: []int{0, 1, 2, 3}},
		{name: "matches family case-insensitively", query: "SMITH", wantIndices: []int{1}},
		{name: "matches full name substring", query: "do", wantIndices: []int{0, 2}},
		{name: "matches given name", query: "ann", wantIndices: []int{1}},
		{name: "telephone is not searched", query: "555", wantIndices: []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := s.Search(tt.query)
			got := make([]int, 0, len(entries))
			for _, e := range entries {
				got = append(got, e.Index)
			}
			assert.Equal(t, tt.wantIndices, got)
		})
	}
}

func TestSequenceClone(t *testing.T) {
	s := Sequence{named("A")}
	cp := s.Clone()
	*cp[0].FullName = "B"
	assert.Equal(t, "A", s[0].Value(FieldFullName))
	assert.Nil(t, Sequence(nil).Clone())
}
