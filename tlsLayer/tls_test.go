package tlsLayer_test

import (
	"net"
	"testing"

	"github.com/e1732a364fed/vless_simple/netLayer"
	"github.com/e1732a364fed/vless_simple/tlsLayer"
)

//自签证书 + insecure 客户端, 走一遍真实的 tls 握手和读写.
func TestTlsHandshake(t *testing.T) {
	listenAddr := netLayer.GetRandLocalPrivateAddr(true)

	server, err := tlsLayer.NewServer("", "")
	if err != nil {
		t.Log("NewServer", err)
		t.FailNow()
	}

	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		t.Log("listen", err)
		t.FailNow()
	}
	defer listener.Close()

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		tlsConn, err := server.Handshake(conn)
		if err != nil {
			return
		}
		bs := make([]byte, 5)
		n, _ := tlsConn.Read(bs)
		tlsConn.Write(bs[:n])
		tlsConn.Close()
	}()

	client := tlsLayer.NewClient(tlsLayer.Conf{
		ServerName: "127.0.0.1",
		Insecure:   true,
	})

	conn, err := net.Dial("tcp", listenAddr)
	if err != nil {
		t.Log("dial", err)
		t.FailNow()
	}

	tlsConn, err := client.Handshake(conn)
	if err != nil {
		t.Log("handshake", err)
		t.FailNow()
	}

	if _, err = tlsConn.Write([]byte("hello")); err != nil {
		t.FailNow()
	}

	bs := make([]byte, 5)
	if _, err = tlsConn.Read(bs); err != nil {
		t.Log("read", err)
		t.FailNow()
	}
	if string(bs) != "hello" {
		t.Log("echo mismatch", string(bs))
		t.FailNow()
	}
	tlsConn.Close()
}

func TestGetUTlsFingerprint(t *testing.T) {
	if tlsLayer.GetUTlsFingerprint("").Client != "Chrome" {
		t.FailNow()
	}
	if tlsLayer.GetUTlsFingerprint("firefox").Client != "Firefox" {
		t.FailNow()
	}
	if tlsLayer.GetUTlsFingerprint("whatever").Client != "Chrome" {
		t.FailNow()
	}
}
