package vless_simple_test

import (
	"strings"
	"testing"
	"time"

	"github.com/e1732a364fed/vless_simple"
)

func TestLatencyStats(t *testing.T) {
	var ls vless_simple.LatencyStats

	if min, mean, p90, max := ls.Summary(); min != 0 || mean != 0 || p90 != 0 || max != 0 {
		t.Log("empty stats should be all zero")
		t.FailNow()
	}

	for _, ms := range []int{30, 10, 40, 20} {
		ls.Add(time.Duration(ms) * time.Millisecond)
	}

	if ls.Count() != 4 {
		t.Log("count", ls.Count())
		t.FailNow()
	}

	min, mean, p90, max := ls.Summary()
	if min != 10 || max != 40 || mean != 25 {
		t.Log("summary", min, mean, p90, max)
		t.FailNow()
	}
	if p90 < mean || p90 > max {
		t.Log("p90 out of range", p90)
		t.FailNow()
	}

	if s := ls.String(); !strings.Contains(s, "count 4") || !strings.Contains(s, "min 10.0ms") {
		t.Log("String()", s)
		t.FailNow()
	}
}
