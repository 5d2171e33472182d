package netLayer

import (
	"net"

	"github.com/e1732a364fed/vless_simple/utils"
	"golang.org/x/net/proxy"
)

// 按照 a 以 tcp 拨号. 不管 a.Network 如何, 本作只用tcp.
func (a Addr) Dial() (net.Conn, error) {
	return net.DialTimeout("tcp", a.String(), DialTimeout)
}

// 通过一个 socks5 代理拨号 target. socks5Addr 格式为 host:port.
// auth 可为 nil.
func DialViaSocks5(socks5Addr string, auth *proxy.Auth, target Addr) (net.Conn, error) {
	d, err := proxy.SOCKS5("tcp", socks5Addr, auth, &net.Dialer{Timeout: DialTimeout})
	if err != nil {
		return nil, utils.ErrInErr{ErrDesc: "create socks5 dialer failed", ErrDetail: err, Data: socks5Addr}
	}
	return d.Dial("tcp", target.String())
}
