package profile

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dataprof-cli/internal/table"
)

var refNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func mustTable(t *testing.T, cols ...*table.Column) *table.Table {
	t.Helper()
	tb, err := table.New("test", cols...)
	require.NoError(t, err)
	return tb
}

func run(t *testing.T, tb *table.Table) *Report {
	t.Helper()
	return New(DefaultOptions(), nil).Profile(tb, refNow)
}

func TestProfile_HighMissing(t *testing.T) {
	values := make([]any, 100)
	for i := 0; i < 70; i++ {
		values[i] = int64(i)
	}
	r := run(t, mustTable(t, &table.Column{Name: "score", Storage: table.StorageInt64, Values: values}))

	cp := r.Column("score")
	require.NotNil(t, cp)
	assert.Equal(t, 30.0, cp.MissingPct)
	assert.Equal(t, 30, cp.NullCount)
	assert.Equal(t, 70, cp.NonNullCount)

	f := cp.Flag(FlagHighMissing)
	require.NotNil(t, f)
	assert.Equal(t, SeverityWarning, f.Severity)
	require.Len(t, f.Examples, 5)
	for i, ex := range f.Examples {
		assert.Equal(t, 70+i, ex.Row)
		assert.True(t, ex.IsNull)
		assert.Equal(t, table.NullSentinel, ex.Value)
	}
}

func TestProfile_HighMissingThresholdIsConfigurable(t *testing.T) {
	values := []any{int64(1), int64(2), nil, int64(4)}
	tb := mustTable(t, &table.Column{Name: "n", Storage: table.StorageInt64, Values: values})

	r := run(t, tb)
	assert.False(t, r.Column("n").HasFlag(FlagHighMissing))

	opt := DefaultOptions()
	opt.Thresholds.HighMissingPct = 25
	r = New(opt, nil).Profile(tb, refNow)
	assert.True(t, r.Column("n").HasFlag(FlagHighMissing))
}

func TestProfile_ConstantColumn(t *testing.T) {
	values := make([]any, 10)
	for i := range values {
		values[i] = "x"
	}
	r := run(t, mustTable(t, &table.Column{Name: "c", Values: values}))

	cp := r.Column("c")
	assert.Equal(t, 1, cp.UniqueCount)
	assert.True(t, cp.HasFlag(FlagConstantColumn))
	dom := cp.Flag(FlagDominantValue)
	require.NotNil(t, dom)
	assert.Equal(t, SeverityInfo, dom.Severity)
	require.Len(t, cp.TopValues, 1)
	assert.Equal(t, 100.0, cp.TopValues[0].Pct)
}

func TestProfile_NegativeAmounts(t *testing.T) {
	values := []any{int64(1), int64(1), int64(1), int64(1), int64(-5)}
	r := run(t, mustTable(t,
		&table.Column{Name: "amount", Storage: table.StorageInt64, Values: values},
		&table.Column{Name: "delta", Storage: table.StorageInt64, Values: append([]any(nil), values...)},
	))

	cp := r.Column("amount")
	require.NotNil(t, cp.NumericStats)
	assert.Equal(t, 1, cp.NumericStats.NegativeCount)
	assert.Equal(t, 20.0, cp.NumericStats.NegativePct)

	f := cp.Flag(FlagContainsNegatives)
	require.NotNil(t, f)
	assert.Equal(t, SeverityWarning, f.Severity)
	require.Len(t, f.Examples, 1)
	assert.Equal(t, Example{Row: 4, Value: "-5"}, f.Examples[0])

	assert.False(t, r.Column("delta").HasFlag(FlagContainsNegatives))
}

func TestProfile_DuplicateRows(t *testing.T) {
	ids := make([]any, 0, 150)
	names := make([]any, 0, 150)
	for i := 0; i < 120; i++ {
		ids = append(ids, int64(i))
		names = append(names, fmt.Sprintf("name-%d", i))
	}
	for i := 0; i < 30; i++ {
		ids = append(ids, int64(0))
		names = append(names, "name-0")
	}
	r := run(t, mustTable(t,
		&table.Column{Name: "key", Storage: table.StorageInt64, Values: ids},
		&table.Column{Name: "label", Values: names},
	))

	da := r.Dataset.DuplicateAnalysis
	assert.True(t, da.OK())
	assert.Equal(t, 150, da.TotalRows)
	assert.Equal(t, 120, da.UniqueRows)
	assert.Equal(t, 30, da.DuplicateRows)
	assert.Equal(t, 20.0, da.DuplicatePct)
	require.Len(t, da.Sets, 1)
	assert.Equal(t, 31, da.Sets[0].Count)
	assert.Equal(t, []int{0, 120, 121}, da.Sets[0].RowIndices)
	assert.Equal(t, []Cell{{Column: "key", Value: "0"}, {Column: "label", Value: "name-0"}}, da.Sets[0].Row)

	f := findFlag(r.Dataset.QualityFlags, FlagDuplicateRows)
	require.NotNil(t, f)
	assert.Equal(t, SeverityWarning, f.Severity)
	require.Len(t, f.Examples, 5)
	assert.Equal(t, 120, f.Examples[0].Row)
	assert.Equal(t, "0 | name-0", f.Examples[0].Value)
}

func TestProfile_Placeholders(t *testing.T) {
	values := make([]any, 0, 100)
	for _, s := range []string{"N/A", "null", "n/a", "NULL", "N/A", "null", "n/a", "None", "N/A", "null"} {
		values = append(values, s)
	}
	for i := 0; i < 90; i++ {
		values = append(values, fmt.Sprintf("comment %d", i))
	}
	r := run(t, mustTable(t, &table.Column{Name: "notes", Values: values}))

	cp := r.Column("notes")
	require.NotNil(t, cp.StringQuality)
	assert.Equal(t, 100, cp.StringQuality.SampleSize)
	assert.False(t, cp.StringQuality.Sampled)
	assert.Equal(t, 10.0, cp.StringQuality.PlaceholderPct)
	assert.Equal(t, []string{"N/A", "null", "n/a", "NULL", "None"}, cp.StringQuality.PlaceholderValues)

	f := cp.Flag(FlagPlaceholderValues)
	require.NotNil(t, f)
	assert.Equal(t, SeverityWarning, f.Severity)
	require.Len(t, f.Examples, 5)
	assert.Equal(t, "N/A", f.Examples[0].Value)
	assert.False(t, f.Examples[0].IsNull)
}

func TestProfile_UnhashableValues(t *testing.T) {
	r := run(t, mustTable(t,
		&table.Column{Name: "a", Storage: table.StorageInt64, Values: []any{int64(1), int64(1), int64(2)}},
		&table.Column{Name: "tags", Values: []any{[]any{"x"}, []any{"x"}, "plain"}},
	))

	da := r.Dataset.DuplicateAnalysis
	assert.False(t, da.OK())
	assert.Contains(t, da.Error, "tags")
	assert.Equal(t, 3, da.TotalRows)
	assert.Less(t, da.UniqueRows, 0)
	assert.Less(t, da.DuplicateRows, 0)
	assert.Empty(t, da.Sets)
	assert.Empty(t, r.Dataset.QualityFlags)

	cp := r.Column("tags")
	assert.Empty(t, cp.Error)
	require.NotNil(t, cp.MixedTypes)
	assert.True(t, cp.MixedTypes.HasMixedTypes)
}

func TestProfile_LargeIntegerUniqueCount(t *testing.T) {
	r := run(t, mustTable(t,
		&table.Column{Name: "big", Storage: table.StorageInt64, Values: []any{int(1<<60 + 1), int(1<<60 + 2), int(1<<60 + 2)}},
	))
	cp := r.Column("big")
	assert.Equal(t, 2, cp.UniqueCount)
	require.Len(t, cp.TopValues, 2)
	assert.Equal(t, "1152921504606846978", cp.TopValues[0].Value)
	assert.Equal(t, 2, cp.TopValues[0].Count)
	assert.Equal(t, 1, r.Dataset.DuplicateAnalysis.DuplicateRows)
}

func TestProfile_RaggedTable(t *testing.T) {
	tb := &table.Table{Name: "ragged", Columns: []*table.Column{
		{Name: "a", Values: []any{"x", "x", "y"}},
		{Name: "b", Values: []any{"only"}},
		nil,
	}}
	var r *Report
	require.NotPanics(t, func() { r = run(t, tb) })

	assert.False(t, r.Dataset.DuplicateAnalysis.OK())
	assert.Empty(t, r.Dataset.QualityFlags)
	assert.Equal(t, 3, r.Dataset.NRows)
	assert.Equal(t, 2, r.Dataset.NColumns)

	a := r.Column("a")
	assert.Empty(t, a.Error)
	assert.Equal(t, 2, a.UniqueCount)

	b := r.Column("b")
	assert.Equal(t, "column has 1 values, want 3", b.Error)
	assert.Equal(t, TypeUnknown, b.InferredType)
	assert.Empty(t, b.QualityFlags)
}

func TestGuard_RecoversColumnPanic(t *testing.T) {
	p := New(DefaultOptions(), nil)
	cp := ColumnProfile{
		Name:         "v",
		UniqueCount:  4,
		QualityFlags: []QualityFlag{{Code: FlagConstantColumn}},
	}
	p.guard(&cp, func() {
		cp.NumericStats = &NumericStats{}
		cp.StringQuality = &StringQualityStats{}
		cp.MixedTypes = &MixedTypes{}
		panic("boom")
	})
	assert.Equal(t, "boom", cp.Error)
	assert.Nil(t, cp.NumericStats)
	assert.Nil(t, cp.StringQuality)
	assert.Nil(t, cp.MixedTypes)
	assert.Empty(t, cp.QualityFlags)
	assert.Equal(t, 4, cp.UniqueCount)

	ok := ColumnProfile{Name: "w"}
	p.guard(&ok, func() { ok.UniqueCount = 1 })
	assert.Empty(t, ok.Error)
	assert.Equal(t, 1, ok.UniqueCount)
}

func TestProfile_FutureDates(t *testing.T) {
	values := []any{"2020-01-01", "2024-12-31", "2030-06-01", nil, "2031-01-01"}
	r := run(t, mustTable(t, &table.Column{Name: "shipped", Values: values}))

	cp := r.Column("shipped")
	assert.Equal(t, TypeDatetime, cp.InferredType)
	require.NotNil(t, cp.DatetimeStats)
	assert.Equal(t, 4, cp.DatetimeStats.ValidCount)
	assert.Equal(t, 2, cp.DatetimeStats.FutureCount)
	assert.Equal(t, 50.0, cp.DatetimeStats.FuturePct)
	assert.Equal(t, "2031-01-01T00:00:00Z", cp.DatetimeStats.MaxFuture)

	f := cp.Flag(FlagFutureDates)
	require.NotNil(t, f)
	require.Len(t, f.Examples, 2)
	assert.Equal(t, 2, f.Examples[0].Row)
	assert.Equal(t, 4, f.Examples[1].Row)
}

func TestProfile_MixedTypes(t *testing.T) {
	values := []any{"a", "b", int64(3), "d", "e", "f", int64(7), "h", "i", "j"}
	r := run(t, mustTable(t, &table.Column{Name: "code", Values: values}))

	cp := r.Column("code")
	require.NotNil(t, cp.MixedTypes)
	assert.Equal(t, "string", cp.MixedTypes.MajorityKind)
	assert.Equal(t, 20.0, cp.MixedTypes.MixedTypePct)
	assert.Equal(t, []KindCount{{Kind: "string", Count: 8}, {Kind: "int", Count: 2}}, cp.MixedTypes.TypeCounts)

	f := cp.Flag(FlagMixedTypes)
	require.NotNil(t, f)
	assert.Equal(t, SeverityWarning, f.Severity)
	assert.Equal(t, []Example{{Row: 2, Value: "3"}, {Row: 6, Value: "7"}}, f.Examples)
}

func TestProfile_TopValuesIncludeNulls(t *testing.T) {
	values := []any{"b", nil, "a", nil, "a", nil, "b", "c"}
	opt := DefaultOptions()
	opt.TopN = 3
	r := New(opt, nil).Profile(mustTable(t, &table.Column{Name: "v", Values: values}), refNow)

	top := r.Column("v").TopValues
	require.Len(t, top, 3)
	assert.Equal(t, table.NullSentinel, top[0].Value)
	assert.True(t, top[0].IsNull)
	assert.Equal(t, 3, top[0].Count)
	assert.Equal(t, 37.5, top[0].Pct)
	// Ties keep first-occurrence order.
	assert.Equal(t, "b", top[1].Value)
	assert.Equal(t, "a", top[2].Value)
	assert.Equal(t, 3, r.Column("v").UniqueCount)
}

func TestProfile_Invariants(t *testing.T) {
	n := 60
	num := make([]any, n)
	txt := make([]any, n)
	flag := make([]any, n)
	for i := 0; i < n; i++ {
		if i%7 != 0 {
			num[i] = float64(i%11) * 1.5
		}
		if i%5 != 0 {
			txt[i] = fmt.Sprintf(" item %d", i%9)
		}
		flag[i] = i%2 == 0
	}
	opt := DefaultOptions()
	opt.ExampleCap = 2
	r := New(opt, nil).Profile(mustTable(t,
		&table.Column{Name: "num", Storage: table.StorageFloat64, Values: num},
		&table.Column{Name: "txt", Values: txt},
		&table.Column{Name: "flag", Storage: table.StorageBool, Values: flag},
	), refNow)

	da := r.Dataset.DuplicateAnalysis
	require.True(t, da.OK())
	assert.Equal(t, da.TotalRows, da.UniqueRows+da.DuplicateRows)

	for _, cp := range r.Columns {
		assert.LessOrEqual(t, cp.UniqueCount, cp.NonNullCount, cp.Name)
		assert.LessOrEqual(t, cp.NonNullCount, n, cp.Name)
		nonNullPct := float64(cp.NonNullCount) / float64(n) * 100
		assert.InDelta(t, 100, cp.MissingPct+nonNullPct, 0.01, cp.Name)

		assert.LessOrEqual(t, len(cp.TopValues), opt.TopN)
		sum := 0.0
		for _, tv := range cp.TopValues {
			sum += tv.Pct
		}
		assert.LessOrEqual(t, sum, 100.0+1e-9)

		for _, f := range cp.QualityFlags {
			assert.LessOrEqual(t, len(f.Examples), opt.ExampleCap)
			for _, ex := range f.Examples {
				assert.GreaterOrEqual(t, ex.Row, 0)
				assert.Less(t, ex.Row, n)
			}
		}
	}
	assert.Equal(t, TypeBoolean, r.Column("flag").InferredType)
	assert.True(t, r.Column("txt").HasFlag(FlagWhitespaceIssues))
}

func TestProfile_Idempotent(t *testing.T) {
	values := make([]any, 3000)
	for i := range values {
		values[i] = fmt.Sprintf("Row %d", i%1700)
		if i%13 == 0 {
			values[i] = fmt.Sprintf("row %d", i%1700)
		}
	}
	tb := mustTable(t,
		&table.Column{Name: "label", Values: values},
		&table.Column{Name: "when", Values: repeat("2026-03-01", 3000)},
	)
	p := New(DefaultOptions(), nil)

	a, err := json.Marshal(p.Profile(tb, refNow))
	require.NoError(t, err)
	b, err := json.Marshal(p.Profile(tb, refNow))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	assert.Contains(t, string(a), `"columns":{"label":`)
}

func TestReport_MarshalKeepsColumnOrder(t *testing.T) {
	r := run(t, mustTable(t,
		&table.Column{Name: "zeta", Storage: table.StorageInt64, Values: []any{int64(1)}},
		&table.Column{Name: "alpha", Storage: table.StorageInt64, Values: []any{int64(2)}},
	))
	b, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded struct {
		Dataset struct {
			NRows    int `json:"n_rows"`
			NColumns int `json:"n_columns"`
		} `json:"dataset"`
		Columns map[string]json.RawMessage `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, 1, decoded.Dataset.NRows)
	assert.Equal(t, 2, decoded.Dataset.NColumns)
	assert.Len(t, decoded.Columns, 2)
	assert.Less(t, strings.Index(string(b), `"zeta":`), strings.Index(string(b), `"alpha":`))
}

func repeat(s string, n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = s
	}
	return out
}
