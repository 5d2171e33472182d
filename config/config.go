/*
Package config 给出拨号配置的定义与加载方式.

配置有两种等价形式: toml文件 (标准模式) 与 vless分享链接 (命令行模式),
见 url.go. 真正的会话行为由根包依据 DialConf 决定, 本包只负责数据.
*/
package config

import (
	"io"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/asaskevich/govalidator"
	"golang.org/x/exp/slices"

	"github.com/e1732a364fed/vless_simple/utils"
)

// 本作已知的 utls 指纹名. 空串表示默认值 chrome.
var KnownFingerprints = []string{"", "chrome", "firefox", "safari", "ios", "android", "edge", "360", "random", "golang"}

// DialConf 描述要连接的服务端, 以及会话的行为开关.
// 使用toml格式. toml: https://toml.io/cn/
type DialConf struct {
	Tag  string `toml:"tag"`  //可选
	Uuid string `toml:"uuid"` //用户的唯一标识, 标准的36字符uuid
	Host string `toml:"host"` //域名, 同时用于 tls 的 sni 和 ws 的 Host 头
	IP   string `toml:"ip"`   //给出Host后，该项可以省略; 既有Host又有ip的情况比较适合cdn
	Port int    `toml:"port"`
	Path string `toml:"path"` //ws 的path

	Insecure    bool   `toml:"insecure"` //tls 是否安全
	Utls        bool   `toml:"utls"`
	Fingerprint string `toml:"fingerprint"` //utls 模拟的指纹, 见 KnownFingerprints; 只在 utls 开启时有效

	DNS    string `toml:"dns"`    //可选, 用自定义dns服务器解析 Host, 如 "1.1.1.1:53"
	Socks5 string `toml:"socks5"` //可选, 前置socks5代理, 如 "127.0.0.1:1080"

	HandshakeTimeoutMs int `toml:"handshake_timeout_ms"` //ws升级的时限, 默认 8000
	IdleTimeoutMs      int `toml:"idle_timeout_ms"`      //一轮交互中等待对端数据的时长, 默认 2000

	LenientMask     bool `toml:"lenient_mask"`      //宽松模式: 入站帧带掩码时不报错而是解掩码
	SkipAcceptCheck bool `toml:"skip_accept_check"` //快速模式: 不校验 Sec-WebSocket-Accept
}

//优先使用ip, 其次再使用host; 适合 cdn 边缘节点直连的情况
func (dc *DialConf) GetAddrStrForDial() string {
	if dc.IP != "" {
		return dc.IP + ":" + strconv.Itoa(dc.Port)
	}
	return dc.Host + ":" + strconv.Itoa(dc.Port)
}

//tls 握手所使用的 sni. 没给出 Host 时只能用 IP 凑数.
func (dc *DialConf) SNI() string {
	if dc.Host != "" {
		return dc.Host
	}
	return dc.IP
}

// Verify 检查加载出的配置是否自洽. 不检查网络可达性.
func (dc *DialConf) Verify() error {
	if dc.Uuid == "" {
		return utils.ErrInErr{ErrDesc: "config: uuid is required", ErrDetail: utils.ErrInvalidData}
	}
	if !govalidator.IsUUID(dc.Uuid) {
		return utils.ErrInErr{ErrDesc: "config: invalid uuid", ErrDetail: utils.ErrInvalidData, Data: dc.Uuid}
	}
	if dc.Host == "" && dc.IP == "" {
		return utils.ErrInErr{ErrDesc: "config: host or ip is required", ErrDetail: utils.ErrNilParameter}
	}
	if dc.Port <= 0 || dc.Port > 65535 {
		return utils.ErrInErr{ErrDesc: "config: invalid port", ErrDetail: utils.ErrInvalidData, Data: dc.Port}
	}
	if !slices.Contains(KnownFingerprints, dc.Fingerprint) {
		return utils.ErrInErr{ErrDesc: "config: unknown fingerprint", ErrDetail: utils.ErrInvalidData, Data: dc.Fingerprint}
	}
	return nil
}

//标准配置. 可以给出多个 [[dial]], 但本作每次只使用其中一个.
type StandardConf struct {
	Dial []*DialConf `toml:"dial"`
}

func LoadTomlConfStr(str string) (c StandardConf, err error) {
	_, err = toml.Decode(str, &c)
	return
}

func LoadTomlConfFile(fileNamePath string) (StandardConf, error) {

	if cf, err := os.Open(fileNamePath); err == nil {
		defer cf.Close()
		bs, _ := io.ReadAll(cf)
		return LoadTomlConfStr(string(bs))
	} else {
		return StandardConf{}, utils.ErrInErr{ErrDesc: "can't open config file", ErrDetail: err}
	}
}

// 取第一个 dial 配置并校验. 文件里一个 dial 都没有时报错.
func FirstDialConf(c StandardConf) (*DialConf, error) {
	if len(c.Dial) == 0 {
		return nil, utils.ErrInErr{ErrDesc: "config: no [[dial]] found", ErrDetail: utils.ErrNilParameter}
	}
	dc := c.Dial[0]
	if err := dc.Verify(); err != nil {
		return nil, err
	}
	return dc, nil
}
