/*
Package netLayer contains definitions in network layer AND transport layer.

本包有 Addr结构, 用于描述拨号目标以及 vless 格式的地址编码; 还有拨号与中继的一些方法.
*/
package netLayer

import (
	"time"
)

var (
	// 拨号超时时间，即等待TCP/TLS握手完成的最长时间.
	DialTimeout = time.Second * 8
)
