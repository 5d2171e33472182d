package ws

import (
	"bytes"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"net"
	"os"
	"strings"
	"time"

	"github.com/e1732a364fed/vless_simple/utils"
)

var HeaderENDING = []byte("\r\n\r\n")

var DefaultHandshakeTimeout = time.Second * 8

// Client 发起 websocket 升级握手. Host 放进 Host 头, Path 放进请求行.
type Client struct {
	Host string
	Path string

	HandshakeTimeout time.Duration //0 则用 DefaultHandshakeTimeout

	// fast mode: 不校验 101 状态行 与 Sec-WebSocket-Accept 摘要.
	// 有些简陋的对端(以及想省事的人)根本不看响应内容, 我们默认是要校验的.
	SkipAcceptCheck bool

	// 默认严格: 服务端发来的帧不准带掩码, 带了按协议错误处理. rfc6455 section 5.1.
	// 真实世界的中继什么样的都有, 所以留一个宽松模式, 解掩后照常处理.
	LenientMask bool
}

func NewClient(host, path string) *Client {
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return &Client{
		Host: host,
		Path: path,
	}
}

// Handshake 在 underlay 上完成升级, 返回包装好的 *Conn.
// underlay 应当已经是加密层之上的流(比如 tls 握手完成后的连接).
func (c *Client) Handshake(underlay net.Conn) (*Conn, error) {
	leftover, err := c.upgrade(underlay)
	if err != nil {
		return nil, err
	}

	conn := NewConn(underlay, leftover)
	conn.LenientMask = c.LenientMask
	return conn, nil
}

//发出升级请求并读取响应头, 返回终结符之后多读到的字节. 那些字节属于第一个帧, 必须交还帧层.
func (c *Client) upgrade(underlay net.Conn) (leftover []byte, err error) {

	var nonce [16]byte
	if _, err = rand.Read(nonce[:]); err != nil {
		return nil, utils.ErrInErr{ErrDesc: "generate websocket key failed", ErrDetail: err}
	}
	secKey := base64.StdEncoding.EncodeToString(nonce[:])

	buf := utils.GetBuf()
	buf.WriteString("GET ")
	buf.WriteString(c.Path)
	buf.WriteString(" HTTP/1.1\r\nHost: ")
	buf.WriteString(c.Host)
	buf.WriteString("\r\nUpgrade: websocket\r\nConnection: Upgrade\r\nSec-WebSocket-Key: ")
	buf.WriteString(secKey)
	buf.WriteString("\r\nSec-WebSocket-Version: 13\r\n\r\n")

	_, err = underlay.Write(buf.Bytes())
	utils.PutBuf(buf)
	if err != nil {
		return nil, utils.ErrInErr{ErrDesc: "write upgrade request failed", ErrDetail: err}
	}

	timeout := c.HandshakeTimeout
	if timeout <= 0 {
		timeout = DefaultHandshakeTimeout
	}
	underlay.SetReadDeadline(time.Now().Add(timeout))
	defer underlay.SetReadDeadline(time.Time{})

	//循环读取直到 \r\n\r\n 出现. 响应头不可能有64k那么长, 超了直接认为对端在胡来.
	bs := utils.GetPacket()
	defer utils.PutPacket(bs)

	wholeLen := 0
	idx := -1
	for {
		if wholeLen >= len(bs) {
			return nil, utils.ErrInErr{ErrDesc: "upgrade response header too long", ErrDetail: ErrHandshake}
		}

		n, e := underlay.Read(bs[wholeLen:])
		if n > 0 {
			wholeLen += n

			idx = bytes.Index(bs[:wholeLen], HeaderENDING)
			if idx >= 0 {
				break
			}
		}

		if e != nil {
			if errors.Is(e, os.ErrDeadlineExceeded) {
				return nil, utils.ErrInErr{ErrDesc: "read upgrade response", ErrDetail: ErrHandshakeTimeout}
			}
			return nil, utils.ErrInErr{ErrDesc: "read upgrade response failed", ErrDetail: ErrHandshake, Data: e.Error()}
		}
	}

	if !c.SkipAcceptCheck {
		if err = checkUpgradeResponse(bs[:idx], secKey); err != nil {
			return nil, err
		}
	}

	if extra := wholeLen - (idx + len(HeaderENDING)); extra > 0 {
		leftover = make([]byte, extra)
		copy(leftover, bs[idx+len(HeaderENDING):wholeLen])
	}

	return leftover, nil
}

//head 是不含终结符的完整响应头.
func checkUpgradeResponse(head []byte, secKey string) error {

	lines := strings.Split(string(head), "\r\n")

	fields := strings.Fields(lines[0])
	if len(fields) < 2 || fields[1] != "101" {
		return utils.ErrInErr{ErrDesc: "upgrade rejected", ErrDetail: ErrHandshake, Data: lines[0]}
	}

	expected := ComputeAcceptKey(secKey)

	for _, line := range lines[1:] {
		name, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Sec-WebSocket-Accept") {
			if strings.TrimSpace(value) == expected {
				return nil
			}
			return utils.ErrInErr{ErrDesc: "Sec-WebSocket-Accept mismatch", ErrDetail: ErrHandshake, Data: value}
		}
	}

	return utils.ErrInErr{ErrDesc: "no Sec-WebSocket-Accept header", ErrDetail: ErrHandshake}
}

// Sec-WebSocket-Accept = base64(sha1(key + GUID)), rfc6455 section 4.2.2.
func ComputeAcceptKey(secKey string) string {
	h := sha1.New()
	h.Write([]byte(secKey))
	h.Write([]byte(GUID))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
