/*
Package proxy 定义了 代理协议的客户端与会话层之间的接口.

本作的代理协议只有vless一种, 但我们依然定义出 Client 接口,
这样 session 层只关心 "在一条底层连接上完成协议握手" 这件事本身,
而不是某个具体协议.

底层连接 underlay 可以是任何 net.Conn; 在我们的典型链路中它是
tls 之上的 ws.Conn.
*/
package proxy

import (
	"io"
	"net"

	"github.com/e1732a364fed/vless_simple/netLayer"
)

// Client 用于主动发起代理请求. Handshake 在 underlay 上完成协议握手,
// firstPayload 若不为空, 会与协议头合并后通过一次 Write 发出,
// 这样承载层只产生一个数据帧. 返回的连接承载解除协议封装后的字节流.
type Client interface {
	Name() string

	Handshake(underlay net.Conn, firstPayload []byte, target netLayer.Addr) (io.ReadWriteCloser, error)
}
