package vless_simple

import (
	"net"

	"go.uber.org/zap"

	"github.com/e1732a364fed/vless_simple/config"
	"github.com/e1732a364fed/vless_simple/netLayer"
	"github.com/e1732a364fed/vless_simple/tlsLayer"
	"github.com/e1732a364fed/vless_simple/utils"
)

// DialFunc 建立到服务端的底层连接. 会话对它的唯一要求是: 返回的连接
// 可以直接开始 websocket 升级. 测试用它注入管道或明文tcp.
type DialFunc func() (net.Conn, error)

// DefaultDialFunc 按配置组装真实的拨号过程:
// 确定tcp目的地 (ip直连 / 自定义dns解析 / 交给系统解析),
// 可选经过前置socks5, 最后在明文连接上完成tls握手. sni 始终用域名.
func DefaultDialFunc(dc *config.DialConf) DialFunc {

	if dc.Insecure {
		if ce := utils.CanLogWarn("tls certificate verification disabled"); ce != nil {
			ce.Write(zap.String("server", dc.GetAddrStrForDial()))
		}
	}

	tlsClient := tlsLayer.NewClient(tlsLayer.Conf{
		ServerName:  dc.SNI(),
		Insecure:    dc.Insecure,
		Use_uTls:    dc.Utls,
		Fingerprint: dc.Fingerprint,
	})

	return func() (net.Conn, error) {

		addr := netLayer.Addr{Network: "tcp", Port: dc.Port}

		switch {
		case dc.IP != "":
			addr.IP = net.ParseIP(dc.IP)
			if addr.IP == nil {
				return nil, utils.ErrInErr{ErrDesc: "bad ip in config", ErrDetail: utils.ErrInvalidData, Data: dc.IP}
			}
		case dc.DNS != "":
			ip, err := netLayer.ResolveByDNSServer(dc.Host, dc.DNS)
			if err != nil {
				return nil, utils.ErrInErr{ErrDesc: "resolve host by custom dns failed", ErrDetail: err, Data: dc.Host}
			}
			if ce := utils.CanLogDebug("custom dns resolved"); ce != nil {
				ce.Write(zap.String("host", dc.Host), zap.String("ip", ip.String()))
			}
			addr.IP = ip
		default:
			addr.Name = dc.Host
		}

		var plainConn net.Conn
		var err error

		if dc.Socks5 != "" {
			plainConn, err = netLayer.DialViaSocks5(dc.Socks5, nil, addr)
		} else {
			plainConn, err = addr.Dial()
		}
		if err != nil {
			return nil, utils.ErrInErr{ErrDesc: "dial server failed", ErrDetail: err, Data: addr.String()}
		}

		tlsConn, err := tlsClient.Handshake(plainConn)
		if err != nil {
			plainConn.Close()
			return nil, utils.ErrInErr{ErrDesc: "tls handshake failed", ErrDetail: err, Data: dc.SNI()}
		}
		return tlsConn, nil
	}
}
