package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sexTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := FromRecords("people", []string{"sex", "age"}, []map[string]string{
		{"sex": "Male", "age": "39"},
		{"sex": "Female", "age": "50"},
		{"sex": "Male", "age": ""},
	})
	require.NoError(t, err)
	return tbl
}

func TestFromRecords(t *testing.T) {
	tbl := sexTable(t)
	assert.Equal(t, 3, tbl.Len())
	ages, err := tbl.Column("age")
	require.NoError(t, err)
	assert.True(t, ages[0].IsNum)
	assert.True(t, ages[2].Missing)

	_, err = FromRecords("x", []string{"a"}, []map[string]string{{"b": "1"}})
	assert.True(t, IsReason(err, ReasonMalformed))
}

func TestSelectAndHead(t *testing.T) {
	tbl := sexTable(t)

	sel, err := tbl.Select("age")
	require.NoError(t, err)
	assert.Equal(t, []string{"age"}, sel.Columns())
	assert.Equal(t, 3, sel.Len())
	assert.Equal(t, []string{"sex", "age"}, tbl.Columns(), "source unchanged")

	_, err = tbl.Select("race")
	assert.True(t, IsReason(err, ReasonMissingColumn))

	_, err = tbl.Select("age", "age")
	assert.True(t, IsReason(err, ReasonMalformed))

	h := tbl.Head(2)
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, 0, tbl.Head(-1).Len())
	assert.Equal(t, 3, tbl.Head(10).Len())
}

func TestRecords(t *testing.T) {
	tbl := sexTable(t)
	assert.Equal(t, [][]string{{"Male", "39"}}, tbl.Records(1))
	assert.Len(t, tbl.Records(0), 3)
}

func TestDataErrorMessage(t *testing.T) {
	err := &DataError{Reason: ReasonMissingColumn, Path: "adult.csv", Column: "age", Detail: "not in header"}
	assert.Equal(t, `missing column in adult.csv: column "age": not in header`, err.Error())
	assert.False(t, IsReason(nil, ReasonMissingColumn))
}
