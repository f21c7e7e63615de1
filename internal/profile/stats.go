package profile

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/dataprof-cli/internal/table"
)

var (
	errNoValues    = errors.New("no non-null values")
	errNoDatetimes = errors.New("no values parse as datetimes")
)

// NumericStatistics summarizes the non-null values of a numeric column.
// It returns errNoValues for an all-null column and an error for any
// non-numeric or non-finite value.
func NumericStatistics(values []any) (*NumericStats, error) {
	xs := make([]float64, 0, len(values))
	for i, v := range values {
		if table.IsNull(v) {
			continue
		}
		f, ok := table.Float(v)
		if !ok {
			return nil, fmt.Errorf("row %d: non-numeric value %q", i, table.Format(v))
		}
		if math.IsInf(f, 0) {
			return nil, fmt.Errorf("row %d: non-finite value", i)
		}
		xs = append(xs, f)
	}
	n := len(xs)
	if n == 0 {
		return nil, errNoValues
	}

	ns := &NumericStats{}
	var err error
	if ns.Min, err = stats.Min(xs); err != nil {
		return nil, err
	}
	if ns.Max, err = stats.Max(xs); err != nil {
		return nil, err
	}
	if ns.Mean, err = stats.Mean(xs); err != nil {
		return nil, err
	}
	if ns.Median, err = stats.Median(xs); err != nil {
		return nil, err
	}

	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	ns.P25 = quantile(sorted, 0.25)
	ns.P50 = quantile(sorted, 0.50)
	ns.P75 = quantile(sorted, 0.75)

	if n >= 2 {
		if sd, err := stats.StandardDeviationSample(xs); err == nil && finite(sd) {
			ns.Std = &sd
		}
		ns.Skewness = skewness(xs)
	}

	for _, x := range xs {
		if x == 0 {
			ns.ZeroCount++
		} else if x < 0 {
			ns.NegativeCount++
		}
	}
	ns.ZeroPct = pct(ns.ZeroCount, n)
	ns.NegativePct = pct(ns.NegativeCount, n)
	return ns, nil
}

// skewness is the population moment coefficient m3 / m2^1.5. It is nil when
// the values have no spread.
func skewness(xs []float64) *float64 {
	m2 := stat.Moment(2, xs, nil)
	if !(m2 > 0) {
		return nil
	}
	s := stat.Moment(3, xs, nil) / math.Pow(m2, 1.5)
	if !finite(s) {
		return nil
	}
	return &s
}

// DatetimeStatistics summarizes the values of a datetime column relative to
// now. Text cells that do not parse are ignored.
func DatetimeStatistics(values []any, now time.Time) (*DatetimeStats, error) {
	var lo, hi, maxFuture time.Time
	ds := &DatetimeStats{}
	for _, v := range values {
		if table.IsNull(v) {
			continue
		}
		t, ok := asTime(v)
		if !ok {
			continue
		}
		if ds.ValidCount == 0 || t.Before(lo) {
			lo = t
		}
		if ds.ValidCount == 0 || t.After(hi) {
			hi = t
		}
		ds.ValidCount++
		if t.After(now) {
			if ds.FutureCount == 0 || t.After(maxFuture) {
				maxFuture = t
			}
			ds.FutureCount++
		}
	}
	if ds.ValidCount == 0 {
		return nil, errNoDatetimes
	}
	ds.Min = table.FormatTime(lo)
	ds.Max = table.FormatTime(hi)
	ds.FuturePct = pct(ds.FutureCount, ds.ValidCount)
	if ds.FutureCount > 0 {
		ds.MaxFuture = table.FormatTime(maxFuture)
	}
	return ds, nil
}

// quantile uses linear interpolation between closest ranks on sorted input.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// pct returns part/whole as a percentage rounded to two decimals.
func pct(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
