package netLayer

import (
	"net"
	"time"

	"github.com/e1732a364fed/vless_simple/utils"
	"github.com/miekg/dns"
)

//miekg/dns 内部默认2秒的timeout, 对跨洋线路太短了点
var DNSQueryTimeout = time.Second * 4

// 用指定的 dns 服务器解析域名, 先查 A, 无果再查 AAAA. 走udp.
// server 格式为 host:port, 端口一般为53.
//
// 用于 CDN 场景下自选 dns 的情况; 不给 server 时应直接走系统解析, 不要调用本函数.
func ResolveByDNSServer(domain string, server string) (net.IP, error) {
	ip, err := dnsQuery(domain, dns.TypeA, server)
	if err == nil {
		return ip, nil
	}
	return dnsQuery(domain, dns.TypeAAAA, server)
}

func dnsQuery(domain string, dnsType uint16, server string) (net.IP, error) {
	c := &dns.Client{Timeout: DNSQueryTimeout}

	m := &dns.Msg{}
	m.SetQuestion(dns.Fqdn(domain), dnsType)

	r, _, err := c.Exchange(m, server)
	if err != nil {
		return nil, utils.ErrInErr{ErrDesc: "dns query failed", ErrDetail: err, Data: domain}
	}
	if r.Rcode != dns.RcodeSuccess {
		return nil, utils.ErrInErr{ErrDesc: "dns query rcode not success", Data: r.Rcode}
	}

	for _, ans := range r.Answer {
		switch rr := ans.(type) {
		case *dns.A:
			return rr.A, nil
		case *dns.AAAA:
			return rr.AAAA, nil
		}
	}

	return nil, utils.ErrInErr{ErrDesc: "dns query got no answer", Data: domain}
}
