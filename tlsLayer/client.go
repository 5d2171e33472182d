package tlsLayer

import (
	"crypto/tls"
	"net"
	"strings"

	"github.com/e1732a364fed/vless_simple/utils"
	utls "github.com/refraction-networking/utls"
	"go.uber.org/zap"
)

// Conf 描述客户端tls层的配置. ServerName 一般为域名, CDN的情况下应与 ws 的 Host 一致.
type Conf struct {
	ServerName  string
	Insecure    bool
	Use_uTls    bool
	Fingerprint string //chrome, firefox, safari, ios, android, edge, 360, golang, random
	AlpnList    []string
}

type Client struct {
	tlsConfig       *tls.Config
	uTlsConfig      utls.Config
	use_uTls        bool
	utlsFingerprint utls.ClientHelloID
}

func NewClient(conf Conf) *Client {

	c := &Client{
		use_uTls: conf.Use_uTls,
	}

	if conf.Use_uTls {
		c.uTlsConfig = utls.Config{
			InsecureSkipVerify: conf.Insecure,
			ServerName:         conf.ServerName,
			NextProtos:         conf.AlpnList,
		}
		c.utlsFingerprint = GetUTlsFingerprint(conf.Fingerprint)

		if ce := utils.CanLogInfo("using uTls"); ce != nil {
			ce.Write(zap.String("host", conf.ServerName), zap.String("fingerprint", c.utlsFingerprint.Client))
		}
	} else {
		c.tlsConfig = &tls.Config{
			InsecureSkipVerify: conf.Insecure,
			ServerName:         conf.ServerName,
			NextProtos:         conf.AlpnList,
		}
	}

	return c
}

// 模拟浏览器指纹时使用的 ClientHelloID. 空字符串或未知值会给出 HelloChrome_Auto.
func GetUTlsFingerprint(str string) utls.ClientHelloID {
	switch strings.ToLower(str) {
	case "firefox":
		return utls.HelloFirefox_Auto
	case "ios":
		return utls.HelloIOS_Auto
	case "safari":
		return utls.HelloSafari_Auto
	case "golang":
		return utls.HelloGolang
	case "android":
		return utls.HelloAndroid_11_OkHttp
	case "360":
		return utls.Hello360_Auto
	case "edge":
		return utls.HelloEdge_Auto
	case "random":
		return utls.HelloRandomized
	case "chrome":
		fallthrough
	default:
		return utls.HelloChrome_Auto
	}
}

func (c *Client) Handshake(underlay net.Conn) (result net.Conn, err error) {

	if c.use_uTls {
		configCopy := c.uTlsConfig //发现uTlsConfig竟然没法使用指针，握手一次后配置文件就会被污染，只能拷贝
		//否则的话接下来的握手客户端会报错： tls: CurvePreferences includes unsupported curve

		utlsConn := utls.UClient(underlay, &configCopy, c.utlsFingerprint)
		err = utlsConn.Handshake()
		if err != nil {
			return
		}
		result = utlsConn
	} else {
		officialConn := tls.Client(underlay, c.tlsConfig)
		err = officialConn.Handshake()
		if err != nil {
			return
		}
		result = officialConn
	}

	return
}
