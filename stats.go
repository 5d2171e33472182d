package vless_simple

import (
	"fmt"
	"time"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
)

// LatencyStats 汇总多轮探测的耗时, 单位毫秒. 非并发安全.
type LatencyStats struct {
	samples []float64
}

func (ls *LatencyStats) Add(d time.Duration) {
	ls.samples = append(ls.samples, float64(d.Microseconds())/1000.0)
}

func (ls *LatencyStats) Count() int { return len(ls.samples) }

// 没有样本时全为零
func (ls *LatencyStats) Summary() (min, mean, p90, max float64) {
	if len(ls.samples) == 0 {
		return
	}

	sorted := slices.Clone(ls.samples)
	slices.Sort(sorted)

	min = sorted[0]
	max = sorted[len(sorted)-1]
	mean = stat.Mean(sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return
}

func (ls *LatencyStats) String() string {
	min, mean, p90, max := ls.Summary()
	return fmt.Sprintf("count %d, min %.1fms, mean %.1fms, p90 %.1fms, max %.1fms",
		len(ls.samples), min, mean, p90, max)
}
