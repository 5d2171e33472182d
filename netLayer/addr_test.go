package netLayer_test

import (
	"bytes"
	"net"
	"testing"

	"github.com/e1732a364fed/vless_simple/netLayer"
)

func TestAddressBytes(t *testing.T) {
	a, err := netLayer.NewAddr("httpbin.org:80")
	if err != nil {
		t.FailNow()
	}

	bs, atyp := a.AddressBytes()
	if atyp != netLayer.AtypDomain {
		t.Log("atyp not domain", atyp)
		t.FailNow()
	}
	if len(bs) != 12 || bs[0] != 11 || string(bs[1:]) != "httpbin.org" {
		t.Log("bad domain encoding", bs)
		t.FailNow()
	}

	a, _ = netLayer.NewAddr("1.2.3.4:443")
	bs, atyp = a.AddressBytes()
	if atyp != netLayer.AtypIP4 || !bytes.Equal(bs, []byte{1, 2, 3, 4}) {
		t.Log("bad ipv4 encoding", atyp, bs)
		t.FailNow()
	}

	a, _ = netLayer.NewAddr("[2001:db8::1]:443")
	bs, atyp = a.AddressBytes()
	if atyp != netLayer.AtypIP6 || len(bs) != net.IPv6len {
		t.Log("bad ipv6 encoding", atyp, bs)
		t.FailNow()
	}
}

func TestV2rayGetAddrFrom(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	buf.WriteByte(0)    //port high
	buf.WriteByte(80)   //port low
	buf.WriteByte(netLayer.AtypDomain)
	buf.WriteByte(11)
	buf.WriteString("httpbin.org")

	a, err := netLayer.V2rayGetAddrFrom(buf)
	if err != nil {
		t.Log(err)
		t.FailNow()
	}
	if a.Port != 80 || a.Name != "httpbin.org" {
		t.Log("parse mismatch", a)
		t.FailNow()
	}

	//port 0 要拒绝
	buf.Reset()
	buf.Write([]byte{0, 0, netLayer.AtypDomain, 1, 'a'})
	if _, err = netLayer.V2rayGetAddrFrom(buf); err == nil {
		t.FailNow()
	}

	//域名长度0 要拒绝
	buf.Reset()
	buf.Write([]byte{0, 80, netLayer.AtypDomain, 0})
	if _, err = netLayer.V2rayGetAddrFrom(buf); err == nil {
		t.FailNow()
	}
}
