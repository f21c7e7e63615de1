// Package profile computes data-quality profiles of tabular datasets: type
// inference, per-column statistics, string hygiene, duplicate rows, and
// threshold-based quality flags with concrete examples.
package profile

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/KaramelBytes/dataprof-cli/internal/table"
)

// Profiler runs profiling passes with a fixed configuration. A Profiler
// holds no per-run state and may be reused.
type Profiler struct {
	opt    Options
	logger *zap.Logger
}

// New returns a Profiler. A nil logger discards output.
func New(opt Options, logger *zap.Logger) *Profiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Profiler{opt: opt.withDefaults(), logger: logger.Named("profiler")}
}

// Options returns the effective options.
func (p *Profiler) Options() Options { return p.opt }

// Profile builds the report for t. now is the reference instant for every
// future-date comparison in the run. Profile never fails: per-column
// failures degrade that column and are recorded on its profile.
func (p *Profiler) Profile(t *table.Table, now time.Time) *Report {
	start := time.Now()
	rows := t.NumRows()

	dup := DetectDuplicates(t, p.opt.DuplicateSetCap, p.opt.DuplicateExampleCap)
	if !dup.OK() {
		p.logger.Warn("duplicate detection skipped", zap.String("reason", dup.Error))
	}

	cols := make([]ColumnProfile, 0, t.NumColumns())
	for _, c := range t.Columns {
		if c == nil {
			continue
		}
		cols = append(cols, p.profileColumn(c, rows, now))
	}

	dsFlags := EvaluateDataset(dup, p.opt.Thresholds)
	AttachDatasetExamples(dsFlags, t, p.opt.ExampleCap)

	p.logger.Debug("profile complete",
		zap.String("dataset", t.Name),
		zap.Int("rows", rows),
		zap.Int("columns", len(cols)),
		zap.Duration("elapsed", time.Since(start)))

	return &Report{
		Dataset: DatasetSummary{
			Name:              t.Name,
			NRows:             rows,
			NColumns:          len(cols),
			MemoryUsageBytes:  t.EstimateMemory(),
			DuplicateAnalysis: dup,
			QualityFlags:      dsFlags,
		},
		Columns: cols,
	}
}

func (p *Profiler) profileColumn(col *table.Column, rows int, now time.Time) ColumnProfile {
	cp := ColumnProfile{
		Name:         col.Name,
		StorageType:  col.Storage.String(),
		InferredType: TypeUnknown,
		TopValues:    []TopValue{},
		QualityFlags: []QualityFlag{},
	}
	if len(col.Values) != rows {
		cp.Error = fmt.Sprintf("column has %d values, want %d", len(col.Values), rows)
		p.logger.Warn("column skipped", zap.String("column", col.Name), zap.String("reason", cp.Error))
		return cp
	}
	p.guard(&cp, func() { p.analyzeColumn(&cp, col, rows, now) })
	return cp
}

// guard runs fn and turns a panic into a degraded profile: computed
// sections are dropped and the panic is recorded in cp.Error.
func (p *Profiler) guard(cp *ColumnProfile, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("column profiling failed",
				zap.String("column", cp.Name),
				zap.Any("panic", r))
			cp.NumericStats = nil
			cp.DatetimeStats = nil
			cp.StringQuality = nil
			cp.MixedTypes = nil
			cp.QualityFlags = []QualityFlag{}
			cp.Error = fmt.Sprint(r)
		}
	}()
	fn()
}

func (p *Profiler) analyzeColumn(cp *ColumnProfile, col *table.Column, rows int, now time.Time) {
	p.countValues(cp, col.Values, rows)
	cp.InferredType = InferType(col, cp.UniqueCount, p.opt.TypeSampleSize)

	switch cp.InferredType {
	case TypeNumeric:
		ns, err := NumericStatistics(col.Values)
		p.statsFailed(col.Name, "numeric", err)
		cp.NumericStats = ns
	case TypeDatetime:
		ds, err := DatetimeStatistics(col.Values, now)
		p.statsFailed(col.Name, "datetime", err)
		cp.DatetimeStats = ds
	case TypeCategorical, TypeText:
		cp.StringQuality = AnalyzeStrings(col.Values, p.opt.StringSampleSize, p.opt.StringSampleSeed)
	case TypeBoolean, TypeUnknown:
	}
	if col.Storage == table.StorageObject {
		cp.MixedTypes = mixedTypes(col.Values, p.opt.TypeSampleSize)
	}

	flags := EvaluateColumn(cp, rows, p.opt.Thresholds)
	AttachColumnExamples(flags, col, cp, now, p.opt.ExampleCap)
	cp.QualityFlags = flags
}

func (p *Profiler) statsFailed(column, kind string, err error) {
	if err == nil || errors.Is(err, errNoValues) {
		return
	}
	p.logger.Debug("statistics not computable",
		zap.String("column", column),
		zap.String("kind", kind),
		zap.Error(err))
}

type valueCount struct {
	tv    TopValue
	first int
}

// countValues fills null, unique and top-value counts. Nulls take part in
// the top-values ranking but not in the unique count.
func (p *Profiler) countValues(cp *ColumnProfile, values []any, rows int) {
	index := map[string]int{}
	var counts []*valueCount
	for i, v := range values {
		if table.IsNull(v) {
			cp.NullCount++
		}
		k := cellKey(v)
		if j, ok := index[k]; ok {
			counts[j].tv.Count++
			continue
		}
		index[k] = len(counts)
		counts = append(counts, &valueCount{
			tv:    TopValue{Value: table.Format(v), Count: 1, IsNull: table.IsNull(v), key: k},
			first: i,
		})
	}
	cp.NonNullCount = len(values) - cp.NullCount
	cp.MissingPct = pct(cp.NullCount, rows)
	cp.UniqueCount = len(counts)
	if cp.NullCount > 0 {
		cp.UniqueCount--
	}

	sort.SliceStable(counts, func(a, b int) bool { return counts[a].tv.Count > counts[b].tv.Count })
	n := min(p.opt.TopN, len(counts))
	cp.TopValues = make([]TopValue, n)
	for i := 0; i < n; i++ {
		tv := counts[i].tv
		tv.Pct = pct(tv.Count, rows)
		cp.TopValues[i] = tv
	}
}

// cellKey is table.Key with a textual fallback for nested values.
func cellKey(v any) string {
	if k, ok := table.Key(v); ok {
		return k
	}
	return "x:" + table.KindName(v) + ":" + table.Format(v)
}

// mixedTypes samples the first n non-null values and counts their runtime
// kinds in first-seen order.
func mixedTypes(values []any, n int) *MixedTypes {
	sample := nonNullHead(values, n)
	if len(sample) == 0 {
		return nil
	}
	index := map[string]int{}
	mt := &MixedTypes{TypeCounts: []KindCount{}}
	for _, v := range sample {
		k := table.KindName(v)
		if j, ok := index[k]; ok {
			mt.TypeCounts[j].Count++
			continue
		}
		index[k] = len(mt.TypeCounts)
		mt.TypeCounts = append(mt.TypeCounts, KindCount{Kind: k, Count: 1})
	}
	major := mt.TypeCounts[0]
	for _, kc := range mt.TypeCounts[1:] {
		if kc.Count > major.Count {
			major = kc
		}
	}
	mt.MajorityKind = major.Kind
	mt.HasMixedTypes = len(mt.TypeCounts) > 1
	mt.MixedTypePct = pct(len(sample)-major.Count, len(sample))
	return mt
}
