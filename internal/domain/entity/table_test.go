package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleTable() *Table {
	return NewTable(
		[]string{"ProviderName", "Condition Departure Cities", "Priority"},
		[][]string{
			{"Lufthansa", "LON,PAR", "1"},
			{"BA", "", "2"},
			{"Iberia"},
		},
	)
}

func TestNewTablePadsShortRows(t *testing.T) {
	table := sampleTable()
	assert.Equal(t, []string{"Iberia", "", ""}, table.Rows[2])
	assert.Equal(t, 3, table.Len())
}

func TestTableLenNil(t *testing.T) {
	var table *Table
	assert.Equal(t, 0, table.Len())
}

func TestLookupColumn(t *testing.T) {
	table := sampleTable()

	tests := []struct {
		name string
		want int
	}{
		{"ProviderName", 0},
		{"providername", 0},
		{"Provider_Name", 0},
		{"ConditionDepartureCities", 1},
		{"Condition Departure Cities", 1},
		{"ConditionArrivalCities", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.LookupColumn(tt.name))
		})
	}

	assert.Equal(t, -1, table.ColumnIndex("providername"))
	assert.True(t, table.HasColumn("ConditionDepartureCities"))
}

func TestWhereKeepsColumnsAndSource(t *testing.T) {
	table := sampleTable()

	got := table.Where(func(row []string) bool { return row[1] == "" })

	assert.Equal(t, table.Columns, got.Columns)
	assert.Equal(t, [][]string{{"BA", "", "2"}, {"Iberia", "", ""}}, got.Rows)
	assert.Equal(t, 3, table.Len())
}

func TestSelect(t *testing.T) {
	table := sampleTable()

	got := table.Select([]string{"Priority", "missing", "ProviderName", "Priority"})

	assert.Equal(t, []string{"Priority", "ProviderName"}, got.Columns)
	assert.Equal(t, []string{"1", "Lufthansa"}, got.Rows[0])

	empty := table.Select([]string{})
	assert.Empty(t, empty.Columns)
	assert.Equal(t, 3, empty.Len())
}

func TestHead(t *testing.T) {
	table := sampleTable()

	assert.Equal(t, 2, table.Head(2).Len())
	assert.Equal(t, 3, table.Head(0).Len())
	assert.Equal(t, 3, table.Head(10).Len())
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.False(t, IsBlank(" "))
	assert.False(t, IsBlank("LON"))
}
