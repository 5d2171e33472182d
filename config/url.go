package config

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/e1732a364fed/vless_simple/utils"
)

/*
分享链接采用 xray 的草案格式:

	vless://uuid@host:port?security=tls&sni=xx&type=ws&path=/xx&fp=chrome#tag

See https://github.com/XTLS/Xray-core/discussions/716

我们只认 type=ws 且 security=tls 的情况, 与本作的能力一致; 其它取值会报错,
而不是静默忽略, 以免用户误以为链接里的配置生效了.
*/

// ParseXrayShareURL 把分享链接解析成 DialConf, 并作 Verify 校验.
//
// 地址部分若是ip, 存入 IP, 此时 sni 参数存入 Host, 正好构成 ip直连+域名伪装
// 的拨号配置; 若地址是域名且另给出了不同的 sni, 以 sni 为准.
func ParseXrayShareURL(s string) (*DialConf, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, utils.ErrInErr{ErrDesc: "can't parse share url", ErrDetail: err, Data: s}
	}

	if !strings.EqualFold(u.Scheme, "vless") {
		return nil, utils.ErrInErr{ErrDesc: "not a vless url", ErrDetail: utils.ErrInvalidData, Data: u.Scheme}
	}

	dc := &DialConf{}
	dc.Uuid = u.User.Username()
	dc.Tag = u.Fragment

	hn := u.Hostname()
	if ip := net.ParseIP(hn); ip != nil {
		dc.IP = hn
	} else {
		dc.Host = hn
	}

	if hn != u.Host { //给出了port
		colon := strings.LastIndexByte(u.Host, ':')
		p, err := strconv.Atoi(u.Host[colon+1:])
		if err != nil {
			return nil, err
		} else if p < 0 || p > 65535 {
			return nil, utils.ErrInvalidData
		}
		dc.Port = p
	}

	q := u.Query()

	if t := q.Get("type"); t != "" && t != "ws" {
		return nil, utils.ErrInErr{ErrDesc: "unsupported transport in share url", ErrDetail: utils.ErrInvalidData, Data: t}
	}
	if sec := q.Get("security"); sec != "" && sec != "tls" {
		return nil, utils.ErrInErr{ErrDesc: "unsupported security in share url", ErrDetail: utils.ErrInvalidData, Data: sec}
	}

	dc.Path = q.Get("path")
	if dc.Path == "" {
		dc.Path = u.Path
	}

	if sni := q.Get("sni"); sni != "" {
		dc.Host = sni
	}

	if fp := q.Get("fp"); fp != "" {
		dc.Utls = true
		dc.Fingerprint = fp
	}

	if utils.QueryPositive(q, "insecure") || utils.QueryPositive(q, "allowInsecure") {
		dc.Insecure = true
	}

	if err = dc.Verify(); err != nil {
		return nil, err
	}
	return dc, nil
}

// GenerateXrayShareURL 由 DialConf 生成分享链接, 是 ParseXrayShareURL 的逆.
func GenerateXrayShareURL(dc *DialConf) string {
	var u url.URL

	u.Scheme = "vless"
	u.User = url.User(dc.Uuid)
	if dc.IP != "" {
		u.Host = dc.IP + ":" + strconv.Itoa(dc.Port)
	} else {
		u.Host = dc.Host + ":" + strconv.Itoa(dc.Port)
	}

	q := u.Query()
	q.Add("security", "tls")
	if dc.Host != "" {
		q.Add("sni", dc.Host)
	}
	q.Add("type", "ws")
	if dc.Path != "" {
		q.Add("path", dc.Path)
	}
	if dc.Utls {
		fp := dc.Fingerprint
		if fp == "" {
			fp = "chrome"
		}
		q.Add("fp", fp)
	}
	if dc.Insecure {
		q.Add("insecure", "true")
	}

	u.RawQuery = q.Encode()
	if dc.Tag != "" {
		u.Fragment = dc.Tag
	}

	return u.String()
}
