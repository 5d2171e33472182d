package vless

import (
	"bytes"
	"io"
	"net"

	"github.com/e1732a364fed/vless_simple/netLayer"
	"github.com/e1732a364fed/vless_simple/utils"
)

// Client 实现 proxy.Client
type Client struct {
	user [16]byte
}

// uuidStr 必须是标准的36字符uuid字符串.
func NewClient(uuidStr string) (*Client, error) {
	id, err := utils.StrToUUID(uuidStr)
	if err != nil {
		return nil, err
	}
	return &Client{user: id}, nil
}

func (c *Client) Name() string { return Name }

// Handshake 把 vless v0 请求头与 firstPayload 合并成一个整体, 通过一次
// Write 写入 underlay. underlay 是 ws.Conn 时, 这一次 Write 恰好构成一个
// websocket帧, 头部与首包数据不会被拆开.
//
// vless 并没有 服务端先回应 的过程, 所以 Handshake 不阻塞等待对端.
func (c *Client) Handshake(underlay net.Conn, firstPayload []byte, target netLayer.Addr) (io.ReadWriteCloser, error) {
	if underlay == nil {
		return nil, utils.ErrNilParameter
	}

	if target.Port <= 0 || target.Port > 65535 {
		return nil, utils.ErrInErr{ErrDesc: "vless Handshake failed, target port invalid", ErrDetail: utils.ErrInvalidData, Data: target.Port}
	}

	addr, atyp := target.AddressBytes()
	if atyp == 0 {
		return nil, utils.ErrInErr{ErrDesc: "vless Handshake failed, can't encode target address", ErrDetail: utils.ErrInvalidData, Data: target.String()}
	}

	port := target.Port

	buf := c.getBufWithCmd(CmdTCP)

	buf.WriteByte(byte(uint16(port) >> 8))
	buf.WriteByte(byte(uint16(port) << 8 >> 8))

	buf.WriteByte(atyp)
	buf.Write(addr)

	buf.Write(firstPayload)

	_, err := underlay.Write(buf.Bytes())
	utils.PutBuf(buf)
	if err != nil {
		return nil, err
	}

	return &UserConn{
		Conn: underlay,
		uuid: c.user,
	}, nil
}

//头部: 版本0, uuid 16字节, addon长度0, 指令一字节
func (c *Client) getBufWithCmd(cmd byte) *bytes.Buffer {
	buf := utils.GetBuf()
	buf.WriteByte(0)
	buf.Write(c.user[:])
	buf.WriteByte(0)
	buf.WriteByte(cmd)
	return buf
}
