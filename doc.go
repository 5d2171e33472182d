/*
Package vless_simple provides a simple way to tunnel tcp traffic to a
vless-over-websocket server.

# Structure 本项目结构

utils -> netLayer -> tlsLayer -> ws -> proxy -> vless_simple -> cmd/vlessprobe

根包只研究一件事: 一次完整的隧道会话. 各层协议的细节在各自的子包里.

一条会话的链路是:

	tcp拨号 (netLayer, 可经socks5前置/自定义dns) -> tls握手 (tlsLayer, 可uTLS)
	-> websocket升级 (ws) -> vless头 (proxy/vless) -> 字节流收发

# Session

Session 表示一条会话, 其生命周期为

	Connecting -> Handshaking -> Tunneling -> Closed

一条会话独占一条底层连接, 不在内部做任何重试; 任何一层失败都会使会话
直接进入 Closed 并带上该层的错误.

Roundtrip 发出载荷并收集回应, 以读超时作为一轮交互结束的信号; 对端的
Close帧 或 连接关闭 同样视为正常结束. Fetch 是一次性使用的便捷封装.

使用方式可阅读 tunnel_test.go.
*/
package vless_simple
