package vless_test

import (
	"bytes"
	"errors"
	"io"
	"net"
	"testing"

	"github.com/e1732a364fed/vless_simple/netLayer"
	"github.com/e1732a364fed/vless_simple/proxy/vless"
	"github.com/e1732a364fed/vless_simple/utils"
)

const testUUIDStr = "c373c80c-58e4-4e64-8db5-40096905ec58"

// 请求头字节须与 vless v0 的定义严格一致
func TestRequestHeaderBytes(t *testing.T) {
	client, err := vless.NewClient(testUUIDStr)
	if err != nil {
		t.Log("NewClient err", err)
		t.FailNow()
	}

	cPipe, sPipe := net.Pipe()
	defer cPipe.Close()
	defer sPipe.Close()

	payload := []byte("hello")

	readOk := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 512)
		n, err := sPipe.Read(buf)
		if err != nil {
			t.Log("pipe read err", err)
			t.Fail()
			readOk <- nil
			return
		}
		readOk <- buf[:n]
	}()

	target := netLayer.Addr{Name: "httpbin.org", Port: 80, Network: "tcp"}
	_, err = client.Handshake(cPipe, payload, target)
	if err != nil {
		t.Log("Handshake err", err)
		t.FailNow()
	}

	got := <-readOk
	if got == nil {
		t.FailNow()
	}

	uuidBytes, _ := utils.StrToUUID(testUUIDStr)

	want := []byte{0}
	want = append(want, uuidBytes[:]...)
	want = append(want, 0, vless.CmdTCP, 0, 80, 2, byte(len("httpbin.org")))
	want = append(want, "httpbin.org"...)
	want = append(want, payload...)

	if len(want) != 34+len(payload) {
		t.Log("test vector wrong length", len(want))
		t.FailNow()
	}

	if !bytes.Equal(got, want) {
		t.Log("header mismatch\ngot ", got, "\nwant", want)
		t.FailNow()
	}
}

// 完整的 客户端-服务端 交互: 握手携带首包, 服务端读到目标与数据, 回写后
// 客户端读到的内容不含响应头.
func TestVLess(t *testing.T) {
	server, err := vless.NewServer(testUUIDStr)
	if err != nil {
		t.FailNow()
	}
	client, err := vless.NewClient(testUUIDStr)
	if err != nil {
		t.FailNow()
	}

	listenAddrStr := netLayer.GetRandLocalPrivateAddr(true)

	listener, err := net.Listen("tcp", listenAddrStr)
	if err != nil {
		t.Logf("can not listen on %v: %v", listenAddrStr, err)
		t.FailNow()
	}
	defer listener.Close()

	targetStr := "dummy.com:80"
	targetStruct := netLayer.Addr{
		Name:    "dummy.com",
		Port:    80,
		Network: "tcp",
	}

	go func() {
		lc, err := listener.Accept()
		if err != nil {
			t.Logf("failed in accept: %v", err)
			t.Fail()
			return
		}
		t.Log("vless server got new conn")
		defer lc.Close()

		wlc, targetAddr, err := server.Handshake(lc)
		if err != nil {
			t.Logf("failed in handshake: %v", err)
			t.Fail()
			return
		}

		if targetAddr.String() != targetStr {
			t.Log("target mismatch", targetAddr.String())
			t.Fail()
			return
		}

		var hello [5]byte
		if _, err = io.ReadFull(wlc, hello[:]); err != nil {
			t.Log("read first payload err", err)
			t.Fail()
			return
		}
		if !bytes.Equal(hello[:], []byte("hello")) {
			t.Log("first payload mismatch", hello[:])
			t.Fail()
			return
		}

		wlc.Write([]byte("world"))
	}()

	rc, err := net.Dial("tcp", listenAddrStr)
	if err != nil {
		t.Log("dial err", err)
		t.FailNow()
	}
	defer rc.Close()

	wrc, err := client.Handshake(rc, []byte("hello"), targetStruct)
	if err != nil {
		t.Logf("failed in handshake to %v: %v", listenAddrStr, err)
		t.FailNow()
	}

	t.Log("client vless Handshake success")

	var world [5]byte
	n, err := io.ReadFull(wrc, world[:])
	if err != nil {
		t.Log("io.ReadFull(wrc, world[:])", err)
		t.FailNow()
	}

	if !bytes.Equal(world[:], []byte("world")) {
		t.Log("not equal", string(world[:]), world[:], n)
		t.FailNow()
	}
}

// 客户端 UserConn, 对端行为由 raw 函数模拟. raw 先吃掉请求头再开始写.
func dialPipeVless(t *testing.T, raw func(sPipe net.Conn)) io.ReadWriteCloser {
	t.Helper()

	client, err := vless.NewClient(testUUIDStr)
	if err != nil {
		t.FailNow()
	}

	cPipe, sPipe := net.Pipe()
	t.Cleanup(func() {
		cPipe.Close()
		sPipe.Close()
	})

	go func() {
		buf := make([]byte, 512)
		sPipe.Read(buf)
		raw(sPipe)
	}()

	uc, err := client.Handshake(cPipe, nil, netLayer.Addr{Name: "dummy.com", Port: 80, Network: "tcp"})
	if err != nil {
		t.Log("Handshake err", err)
		t.FailNow()
	}
	return uc
}

// 响应头声明的addon要被跳过, 即使它分散在多个数据包里
func TestResponseAddonSkip(t *testing.T) {
	uc := dialPipeVless(t, func(sPipe net.Conn) {
		//第一个包: 版本0, addon长3, 但只带了addon的第一字节
		sPipe.Write([]byte{0, 3, 0xaa})
		//第二个包: addon其余两字节 加 真实数据
		sPipe.Write(append([]byte{0xbb, 0xcc}, "world"...))
	})

	var world [5]byte
	if _, err := io.ReadFull(uc, world[:]); err != nil {
		t.Log("read err", err)
		t.FailNow()
	}
	if !bytes.Equal(world[:], []byte("world")) {
		t.Log("addon not skipped, got", world[:])
		t.FailNow()
	}
}

func TestResponseTooShort(t *testing.T) {
	uc := dialPipeVless(t, func(sPipe net.Conn) {
		sPipe.Write([]byte{0})
	})

	var p [16]byte
	_, err := uc.Read(p[:])
	if !errors.Is(err, vless.ErrMalformedResponse) {
		t.Log("want ErrMalformedResponse, got", err)
		t.FailNow()
	}
}

func TestAuthFail(t *testing.T) {
	server, err := vless.NewServer("a684455c-b14f-11ea-bf0d-42010aaa0003")
	if err != nil {
		t.FailNow()
	}
	client, err := vless.NewClient(testUUIDStr)
	if err != nil {
		t.FailNow()
	}

	cPipe, sPipe := net.Pipe()
	defer cPipe.Close()
	defer sPipe.Close()

	go func() {
		client.Handshake(cPipe, nil, netLayer.Addr{Name: "dummy.com", Port: 80, Network: "tcp"})
	}()

	_, _, err = server.Handshake(sPipe)
	if !errors.Is(err, vless.ErrAuthFail) {
		t.Log("want ErrAuthFail, got", err)
		t.FailNow()
	}
}
