package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	vs "github.com/e1732a364fed/vless_simple"
	"github.com/e1732a364fed/vless_simple/config"
	"github.com/e1732a364fed/vless_simple/netLayer"
	"github.com/e1732a364fed/vless_simple/utils"
)

// 未给出 -payload 时, 发一个对目标的最简 http GET.
func defaultPayload(target netLayer.Addr) []byte {
	return []byte("GET / HTTP/1.1\r\nHost: " + target.HostStr() + "\r\nUser-Agent: vlessprobe\r\nConnection: close\r\n\r\n")
}

// 依次跑 probeCount 轮, 每轮一条全新的隧道. 第一轮的回应原样写到 stdout,
// 全部轮失败时返回 -2.
func runProbe(dc *config.DialConf, target netLayer.Addr) int {
	payload := []byte(payloadStr)
	if len(payload) == 0 {
		payload = defaultPayload(target)
	}

	var stats vs.LatencyStats
	failed := 0

	for i := 0; i < probeCount; i++ {
		start := time.Now()
		resp, err := vs.Fetch(dc, target, payload)
		elapsed := time.Since(start)

		if err != nil {
			failed++
			if ce := utils.CanLogErr("Probe round failed"); ce != nil {
				ce.Write(zap.Int("round", i), zap.Error(err))
			}
			continue
		}

		stats.Add(elapsed)

		if i == 0 {
			//回应字节不做任何解析, 原样打出
			os.Stdout.Write(resp)
			if len(resp) > 0 && resp[len(resp)-1] != '\n' {
				utils.PrintStr("\n")
			}
		}

		if ce := utils.CanLogInfo("Probe round done"); ce != nil {
			ce.Write(zap.Int("round", i), zap.Int("bytes", len(resp)), zap.Duration("elapsed", elapsed))
		}
	}

	if probeCount > 1 && stats.Count() > 0 {
		fmt.Println("latency:", stats.String())
	}

	if failed == probeCount {
		return -2
	}
	return 0
}
