package loader

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"mdvrp-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInstance(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "instance.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const smallInstance = `4 2 1
0 80
1 10 20 5 100
2 30 40 3 50
1 0 0
`

func TestLoadSmallInstance(t *testing.T) {
	path := writeInstance(t, smallInstance)

	inst, err := Load(path)
	require.NoError(t, err)

	want := &domain.ProblemInstance{
		MaxVehiclesPerDepot: 4,
		Depots: []domain.Depot{
			{MaxVehicles: 4, MaxRouteDuration: 0, MaxLoad: 80, X: 0, Y: 0},
		},
		Customers: []domain.Customer{
			{X: 10, Y: 20, ServiceDuration: 5, Demand: 100},
			{X: 30, Y: 40, ServiceDuration: 3, Demand: 50},
		},
	}
	assert.Equal(t, want, inst)
}

func TestLoadIsIdempotent(t *testing.T) {
	path := writeInstance(t, smallInstance)

	first, err := Load(path)
	require.NoError(t, err)
	second, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParseDepotIndexCorrespondence(t *testing.T) {
	// Coordinates are deliberately in descending order so any re-sorting shows up.
	in := `2 1 3
100 10
200 20
300 30
1 5 5 1 1
1 90 90
2 50 50
3 -10 -10
`
	inst, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, inst.Depots, 3)

	want := []domain.Depot{
		{MaxVehicles: 2, MaxRouteDuration: 100, MaxLoad: 10, X: 90, Y: 90},
		{MaxVehicles: 2, MaxRouteDuration: 200, MaxLoad: 20, X: 50, Y: 50},
		{MaxVehicles: 2, MaxRouteDuration: 300, MaxLoad: 30, X: -10, Y: -10},
	}
	assert.Equal(t, want, inst.Depots)

	for i, d := range inst.Depots {
		assert.Equal(t, inst.MaxVehiclesPerDepot, d.MaxVehicles, "depot %d", i)
	}
}

func TestParseCountsMatchHeader(t *testing.T) {
	in := `3 4 2
0 100
0 120
1 1 1 1 1
2 2 2 2 2
3 3 3 3 3
4 4 4 4 4
1 0 0
2 9 9
`
	inst, err := Parse(strings.NewReader(in))
	require.NoError(t, err)

	assert.Len(t, inst.Depots, 2)
	assert.Len(t, inst.Customers, 4)
	for i, c := range inst.Customers {
		assert.Equal(t, i+1, c.X, "customer order must follow the file")
	}
}

func TestParseZeroCounts(t *testing.T) {
	t.Run("no depots", func(t *testing.T) {
		inst, err := Parse(strings.NewReader("4 1 0\n1 10 20 5 100\n"))
		require.NoError(t, err)
		assert.NotNil(t, inst.Depots)
		assert.Empty(t, inst.Depots)
		assert.Len(t, inst.Customers, 1)
	})

	t.Run("no customers", func(t *testing.T) {
		inst, err := Parse(strings.NewReader("4 0 1\n0 80\n1 3 4\n"))
		require.NoError(t, err)
		assert.NotNil(t, inst.Customers)
		assert.Empty(t, inst.Customers)
		assert.Equal(t, []domain.Depot{{MaxVehicles: 4, MaxLoad: 80, X: 3, Y: 4}}, inst.Depots)
	})

	t.Run("empty instance", func(t *testing.T) {
		inst, err := Parse(strings.NewReader("4 0 0\n"))
		require.NoError(t, err)
		assert.Empty(t, inst.Depots)
		assert.Empty(t, inst.Customers)
		assert.Equal(t, 4, inst.MaxVehiclesPerDepot)
	})
}

func TestParseWhitespaceAndTrailingFields(t *testing.T) {
	in := "  4\t2   1  \n" +
		"\t0    80\n" +
		"   1  10 20  5 100   1 4 1 2 4 8\n" +
		"2\t30\t40\t3\t50\t0\t1000\n" +
		"  1 -5 7 0 0  \n"

	inst, err := Parse(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []domain.Customer{
		{X: 10, Y: 20, ServiceDuration: 5, Demand: 100},
		{X: 30, Y: 40, ServiceDuration: 3, Demand: 50},
	}, inst.Customers)
	assert.Equal(t, []domain.Depot{{MaxVehicles: 4, MaxRouteDuration: 0, MaxLoad: 80, X: -5, Y: 7}}, inst.Depots)
}

func TestParseIgnoresLinesAfterLastBlock(t *testing.T) {
	inst, err := Parse(strings.NewReader(smallInstance + "\n\n"))
	require.NoError(t, err)
	assert.Len(t, inst.Customers, 2)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		kind    error
		section string
		line    int
	}{
		{name: "header with two fields", in: "4 3\n", kind: ErrFormat, section: sectionHeader, line: 1},
		{name: "header with four fields", in: "0 4 3 1\n", kind: ErrFormat, section: sectionHeader, line: 1},
		{name: "header non-integer", in: "4 x 1\n", kind: ErrFormat, section: sectionHeader, line: 1},
		{name: "negative depot count", in: "4 1 -1\n", kind: ErrFormat, section: sectionHeader, line: 1},
		{name: "negative customer count", in: "4 -2 1\n", kind: ErrFormat, section: sectionHeader, line: 1},
		{name: "empty input", in: "", kind: ErrEndOfInput, section: sectionHeader, line: 1},
		{name: "blank header", in: "\n", kind: ErrFormat, section: sectionHeader, line: 1},
		{name: "capacity non-integer", in: "4 1 1\n50 abc\n", kind: ErrFormat, section: sectionDepotCapacity, line: 2},
		{name: "capacity missing field", in: "4 1 1\n50\n", kind: ErrFormat, section: sectionDepotCapacity, line: 2},
		{name: "fewer capacity lines than depots", in: "4 2 3\n0 80\n0 80\n", kind: ErrEndOfInput, section: sectionDepotCapacity, line: 4},
		{name: "customer missing demand", in: "4 1 1\n0 80\n1 10 20 5\n", kind: ErrFormat, section: sectionCustomer, line: 3},
		{name: "customer non-integer", in: "4 1 1\n0 80\n1 10 2.5 5 100\n", kind: ErrFormat, section: sectionCustomer, line: 3},
		{name: "customer block truncated", in: "4 2 1\n0 80\n1 10 20 5 100\n", kind: ErrEndOfInput, section: sectionCustomer, line: 4},
		{name: "coordinates missing y", in: "4 1 1\n0 80\n1 10 20 5 100\n1 0\n", kind: ErrFormat, section: sectionDepotCoordinates, line: 4},
		{name: "coordinates block truncated", in: "4 1 2\n0 80\n0 90\n1 10 20 5 100\n1 0 0\n", kind: ErrEndOfInput, section: sectionDepotCoordinates, line: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := Parse(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Nil(t, inst)
			assert.ErrorIs(t, err, tt.kind)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.section, pe.Section)
			assert.Equal(t, tt.line, pe.Line)
		})
	}
}

func TestParseCapacityErrorMessage(t *testing.T) {
	_, err := Parse(strings.NewReader("4 1 1\n50 abc\n"))
	require.Error(t, err)
	assert.Equal(t, `format error: depot capacity line 2: field 2 "abc": invalid syntax`, err.Error())
}

func TestParseReadFailure(t *testing.T) {
	r := io.MultiReader(strings.NewReader("4 1 1\n"), iotest.ErrReader(errors.New("device gone")))

	inst, err := Parse(r)
	require.Error(t, err)
	assert.Nil(t, inst)
	assert.ErrorIs(t, err, ErrIO)
	assert.Contains(t, err.Error(), "device gone")
}

func TestLoadMissingFile(t *testing.T) {
	inst, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	assert.Nil(t, inst)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NotErrorIs(t, err, ErrFormat)
}

func TestLoadWrapsPath(t *testing.T) {
	path := writeInstance(t, "4 3\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFormat)
	assert.Contains(t, err.Error(), path)
}

func TestLoaderLogsAndDelegates(t *testing.T) {
	path := writeInstance(t, smallInstance)
	l := New(slog.New(slog.NewTextHandler(io.Discard, nil)))

	inst, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, inst.NumCustomers())

	_, err = l.Load(path + ".missing")
	assert.ErrorIs(t, err, ErrIO)
}
