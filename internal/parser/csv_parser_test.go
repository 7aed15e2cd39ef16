package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleTable = `percentage, method, RMSE, MAE
10, --avg, 1.5, 0.9
10, --idw, 1.2, 0.8
10, --msh, 1.7, 1.0
20, --avg, 1.1, 0.7
`

func writeTable(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Verbose(format string, args ...interface{}) {
	l.lines = append(l.lines, format)
}

func TestLoad_Example(t *testing.T) {
	g, err := Load(writeTable(t, exampleTable), []string{"RMSE", "MAE"})
	require.NoError(t, err)

	assert.Equal(t, []int{10, 20}, g.Percentages)
	assert.Equal(t, []float64{1.5, 1.1}, g.Values(MethodAvg, "RMSE"))
	assert.Equal(t, []float64{1.2}, g.Values(MethodIDW, "RMSE"))
	assert.Equal(t, []float64{1.7}, g.Values(MethodMSH, "RMSE"))
	assert.Equal(t, []float64{0.9, 0.7}, g.Values(MethodAvg, "MAE"))
	assert.Equal(t, []float64{0.8}, g.Values(MethodIDW, "MAE"))
	assert.Equal(t, []float64{1.0}, g.Values(MethodMSH, "MAE"))
	assert.Equal(t, 2, g.Group(MethodAvg).Rows)
	assert.Equal(t, 4, g.TotalRows())
}

func TestLoad_GroupCountsMatchTags(t *testing.T) {
	content := "percentage,method,RMSE,MAE,PERROR\n" +
		"10,--avg,1,1,1\n" +
		"20,--avg,2,2,2\n" +
		"30,--avg,3,3,3\n" +
		"10,--idw,4,4,4\n" +
		"20,--idw,5,5,5\n" +
		"10,--msh,6,6,6\n"
	g, err := Load(writeTable(t, content), []string{"RMSE", "MAE", "PERROR"})
	require.NoError(t, err)

	assert.Equal(t, 3, g.Group(MethodAvg).Rows)
	assert.Equal(t, 2, g.Group(MethodIDW).Rows)
	assert.Equal(t, 1, g.Group(MethodMSH).Rows)
	assert.Equal(t, []int{10, 20, 30}, g.Percentages)
	assert.Equal(t, []float64{4, 5}, g.Values(MethodIDW, "PERROR"))
}

func TestLoad_UnknownMethodIsDropped(t *testing.T) {
	content := "percentage,method,RMSE,MAE\n" +
		"10,--avg,1.5,0.9\n" +
		"10,--unknown,9.9,9.9\n" +
		"10,--AVG,9.9,9.9\n"
	logger := &recordingLogger{}
	g, err := Load(writeTable(t, content), []string{"RMSE", "MAE"}, WithLogger(logger))
	require.NoError(t, err)

	assert.Equal(t, 1, g.TotalRows())
	assert.Equal(t, []int{10}, g.Percentages)
	assert.Len(t, logger.lines, 3, "header line plus one line per dropped row")
}

func TestLoad_NonNumericMetric(t *testing.T) {
	content := "percentage,method,RMSE,MAE\n" +
		"10,--avg,1.5,0.9\n" +
		"20,--idw,abc,0.8\n"
	_, err := Load(writeTable(t, content), []string{"RMSE", "MAE"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Row)
	assert.Equal(t, 3, pe.Line)
	assert.Equal(t, "RMSE", pe.Column)
	assert.Equal(t, "abc", pe.Value)
}

func TestLoad_NonNumericPercentage(t *testing.T) {
	content := "percentage,method,RMSE\n" +
		"ten,--avg,1.5\n"
	_, err := Load(writeTable(t, content), []string{"RMSE"})

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Row)
	assert.Equal(t, ColPercentage, pe.Column)
}

func TestLoad_StrayQuoteInUnusedColumn(t *testing.T) {
	content := "percentage,method,RMSE,MAE,note\n" +
		"10,--avg,1.5,0.9,run \"a\"\n"
	g, err := Load(writeTable(t, content), []string{"RMSE", "MAE"})
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5}, g.Values(MethodAvg, "RMSE"))
}

func TestLoad_StrayQuoteInMetric(t *testing.T) {
	content := "percentage,method,RMSE,MAE\n" +
		"10,--avg,1.5\",0.9\n"
	_, err := Load(writeTable(t, content), []string{"RMSE", "MAE"})
	require.ErrorIs(t, err, ErrParse)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 1, pe.Row)
	assert.Equal(t, "RMSE", pe.Column)
	assert.Equal(t, "1.5\"", pe.Value)
}

func TestRowReadError(t *testing.T) {
	err := rowReadError(4, &csv.ParseError{StartLine: 5, Line: 5, Column: 3, Err: csv.ErrQuote})
	assert.ErrorIs(t, err, ErrParse)
	assert.ErrorIs(t, err, csv.ErrQuote)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 4, pe.Row)
	assert.Equal(t, 5, pe.Line)
	assert.Contains(t, err.Error(), "malformed row")

	ioErr := errors.New("disk gone")
	err = rowReadError(2, ioErr)
	assert.ErrorIs(t, err, ioErr)
	assert.False(t, errors.Is(err, ErrParse))
}

func TestLoad_UnknownMethodStillValidatesNumbers(t *testing.T) {
	content := "percentage,method,RMSE\n" +
		"10,--other,oops\n"
	_, err := Load(writeTable(t, content), []string{"RMSE"})
	assert.True(t, errors.Is(err, ErrParse))
}

func TestLoad_ShortRow(t *testing.T) {
	content := "percentage,method,RMSE,MAE\n" +
		"10,--avg,1.5\n"
	_, err := Load(writeTable(t, content), []string{"RMSE", "MAE"})

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "MAE", pe.Column)
	assert.ErrorIs(t, err, errMissingCell)
}

func TestLoad_MissingColumnBeforeRows(t *testing.T) {
	// The data row is malformed too; the schema check must win.
	content := "percentage, method, RMSE\n" +
		"x, --avg, y\n"
	logger := &recordingLogger{}
	_, err := Load(writeTable(t, content), []string{"RMSE", "MAE"}, WithLogger(logger))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
	assert.False(t, errors.Is(err, ErrParse))

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{"MAE"}, se.Missing)
	assert.Equal(t, []string{"percentage", "method", "RMSE"}, se.Header)
	assert.Empty(t, logger.lines)
}

func TestLoad_ColumnsAreCaseSensitive(t *testing.T) {
	content := "percentage,method,rmse\n10,--avg,1\n"
	_, err := Load(writeTable(t, content), []string{"RMSE"})
	assert.ErrorIs(t, err, ErrSchema)
}

func TestLoad_EmptyFile(t *testing.T) {
	_, err := Load(writeTable(t, ""), []string{"RMSE"})
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{"percentage", "method", "RMSE"}, se.Missing)
}

func TestLoad_WhitespaceAndBOM(t *testing.T) {
	content := "\ufeff percentage ,\tmethod\t, RMSE \n" +
		"  10 ,  --avg  ,  2.5  \n" +
		"\n" +
		"20,--msh,3e-1\n"
	g, err := Load(writeTable(t, content), []string{"RMSE"})
	require.NoError(t, err)
	assert.Equal(t, []int{10}, g.Percentages)
	assert.Equal(t, []float64{2.5}, g.Values(MethodAvg, "RMSE"))
	assert.Equal(t, []float64{0.3}, g.Values(MethodMSH, "RMSE"))
}

func TestLoad_ColumnOrderIndependent(t *testing.T) {
	content := "MAE,method,extra,RMSE,percentage\n" +
		"0.5,--idw,ignored,1.25,40\n"
	g, err := Load(writeTable(t, content), []string{"RMSE", "MAE"})
	require.NoError(t, err)
	assert.Equal(t, []float64{1.25}, g.Values(MethodIDW, "RMSE"))
	assert.Equal(t, []float64{0.5}, g.Values(MethodIDW, "MAE"))
	assert.Empty(t, g.Percentages)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), []string{"RMSE"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	var pathErr *fs.PathError
	assert.True(t, errors.As(err, &pathErr))
}

func TestLoad_CallsShareNoState(t *testing.T) {
	path := writeTable(t, exampleTable)
	a, err := Load(path, []string{"RMSE", "MAE"})
	require.NoError(t, err)
	b, err := Load(path, []string{"RMSE", "MAE"})
	require.NoError(t, err)

	a.Groups[MethodAvg].Values["RMSE"][0] = 99
	assert.Equal(t, 1.5, b.Values(MethodAvg, "RMSE")[0])
}

func TestWrite_RoundTrip(t *testing.T) {
	metrics := []string{"RMSE", "MAE", "PERROR", "MSE"}
	content := "percentage,method,RMSE,MAE,PERROR,MSE\n" +
		"10,--avg,1.5,0.9,12.25,2.25\n" +
		"10,--idw,1.2,0.8,10.5,1.44\n" +
		"10,--msh,1.7,1.0,13,2.89\n" +
		"20,--avg,1.1,0.7,8.125,1.21\n" +
		"20,--idw,0.30000000000000004,0.1,1e-9,0.09\n" +
		"30,--avg,0.9,0.6,7,0.81\n"
	g, err := Load(writeTable(t, content), metrics)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g))

	again, err := LoadReader(&buf, metrics)
	require.NoError(t, err)
	assert.Equal(t, g, again)
}

func TestWrite_HeaderAndFormatting(t *testing.T) {
	g := NewGroupedSeries([]string{"RMSE"})
	g.Add(Record{Percentage: 5, Method: MethodAvg, Values: map[string]float64{"RMSE": 0.25}})
	g.Add(Record{Method: MethodMSH, Values: map[string]float64{"RMSE": 2}})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, g))
	assert.Equal(t, "percentage,method,RMSE\n5,--avg,0.25\n5,--msh,2\n", buf.String())
}

func TestAppendRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	metrics := []string{"RMSE", "MAE"}

	require.NoError(t, AppendRecord(path, metrics, Record{Percentage: 10, Method: MethodAvg, Values: map[string]float64{"RMSE": 1, "MAE": 0.5}}))
	require.NoError(t, AppendRecord(path, metrics, Record{Percentage: 10, Method: MethodIDW, Values: map[string]float64{"RMSE": 2, "MAE": 1.5}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "percentage,method,RMSE,MAE", lines[0])

	g, err := Load(path, metrics)
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, g.Values(MethodIDW, "RMSE"))
}

func TestAppendRecord_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "results.csv")
	err := AppendRecord(path, []string{"RMSE"}, Record{Method: MethodAvg})

	var pathErr *fs.PathError
	assert.True(t, errors.As(err, &pathErr))
}

func TestAppendRecord_ReportsCleanClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	for i := 0; i < 3; i++ {
		require.NoError(t, AppendRecord(path, []string{"RMSE"}, Record{Percentage: i, Method: MethodAvg, Values: map[string]float64{"RMSE": float64(i)}}))
	}
	g, err := Load(path, []string{"RMSE"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, g.Percentages)
}

func TestAppendRecord_FollowsExistingHeader(t *testing.T) {
	path := writeTable(t, " MAE ,percentage,notes, method,RMSE\n0.5,10,first,--avg,1")

	rec := Record{Percentage: 20, Method: MethodMSH, Values: map[string]float64{"RMSE": 3, "MAE": 2.5}}
	require.NoError(t, AppendRecord(path, []string{"RMSE", "MAE"}, rec))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, " MAE ,percentage,notes, method,RMSE\n0.5,10,first,--avg,1\n2.5,20,,--msh,3\n", string(data))

	err = AppendRecord(path, []string{"RMSE", "MSE"}, rec)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		tag  string
		want Method
		ok   bool
	}{
		{"--avg", MethodAvg, true},
		{"--idw", MethodIDW, true},
		{"--msh", MethodMSH, true},
		{"--Avg", 0, false},
		{"avg", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, ok := ParseMethod(tt.tag)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
				assert.Equal(t, tt.tag, got.String())
			}
		})
	}
}

func TestVariantMetrics(t *testing.T) {
	m, err := VariantMetrics("full")
	require.NoError(t, err)
	assert.Equal(t, []string{"RMSE", "MAE", "PERROR", "MSE"}, m)

	m[0] = "changed"
	again, _ := VariantMetrics("full")
	assert.Equal(t, "RMSE", again[0])

	_, err = VariantMetrics("nope")
	assert.Error(t, err)
	assert.Equal(t, []string{"basic", "errors", "full"}, VariantNames())
}
