package vless

import (
	"bytes"
	"io"
	"net"

	"github.com/e1732a364fed/vless_simple/netLayer"
	"github.com/e1732a364fed/vless_simple/utils"
)

// Server 是一个最简的vless v0服务端, 只支持 CmdTCP 和单个用户.
// 它只用于 go test 与 -listen 模式里的本地模拟, 不是一个完整的服务端实现.
type Server struct {
	user [16]byte
}

func NewServer(uuidStr string) (*Server, error) {
	id, err := utils.StrToUUID(uuidStr)
	if err != nil {
		return nil, err
	}
	return &Server{user: id}, nil
}

func (s *Server) Name() string { return Name }

// Handshake 读取并校验客户端的请求头, 返回请求的目标地址, 以及承载
// 后续数据的连接. 返回的连接首次 Write 时会自动附上v0响应头.
//
// 这里假设整个请求头位于第一个数据包内. 我们的客户端把头部与首包数据
// 合并为一次 Write, 经过ws层后就是一个完整的消息, 所以该假设对本作成立.
func (s *Server) Handshake(underlay net.Conn) (io.ReadWriteCloser, netLayer.Addr, error) {
	var addr netLayer.Addr

	bs := utils.GetPacket()
	defer utils.PutPacket(bs)

	n, err := underlay.Read(bs)
	if err != nil {
		return nil, addr, utils.ErrInErr{ErrDesc: "vless Server Handshake failed, read error", ErrDetail: err}
	}

	buf := bytes.NewBuffer(bs[:n])

	version, err := buf.ReadByte()
	if err != nil {
		return nil, addr, utils.ErrInErr{ErrDesc: "vless Server Handshake failed", ErrDetail: utils.ErrShortRead}
	}
	if version != 0 {
		return nil, addr, utils.ErrInErr{ErrDesc: "vless Server Handshake failed", ErrDetail: ErrInvalidVersion, Data: version}
	}

	var idBytes [16]byte
	if _, err = io.ReadFull(buf, idBytes[:]); err != nil {
		return nil, addr, utils.ErrInErr{ErrDesc: "vless Server Handshake failed", ErrDetail: utils.ErrShortRead}
	}
	if idBytes != s.user {
		return nil, addr, ErrAuthFail
	}

	addonLen, err := buf.ReadByte()
	if err != nil {
		return nil, addr, utils.ErrInErr{ErrDesc: "vless Server Handshake failed", ErrDetail: utils.ErrShortRead}
	}
	if addonLen > 0 {
		//v0 不使用addon, 直接跳过
		if _, err = io.CopyN(io.Discard, buf, int64(addonLen)); err != nil {
			return nil, addr, utils.ErrInErr{ErrDesc: "vless Server Handshake failed", ErrDetail: utils.ErrShortRead}
		}
	}

	cmd, err := buf.ReadByte()
	if err != nil {
		return nil, addr, utils.ErrInErr{ErrDesc: "vless Server Handshake failed", ErrDetail: utils.ErrShortRead}
	}
	if cmd != CmdTCP {
		return nil, addr, utils.ErrInErr{ErrDesc: "vless Server Handshake failed, unsupported cmd", ErrDetail: utils.ErrInvalidData, Data: cmd}
	}

	addr, err = netLayer.V2rayGetAddrFrom(buf)
	if err != nil {
		return nil, addr, utils.ErrInErr{ErrDesc: "vless Server Handshake failed, invalid addr", ErrDetail: err}
	}
	addr.Network = "tcp"

	uc := &UserConn{
		Conn:        underlay,
		uuid:        s.user,
		isServerEnd: true,
	}

	if buf.Len() > 0 {
		//头部之后跟着首包数据, 留给后续的 Read
		leftover := append([]byte{}, buf.Bytes()...)
		uc.optionalReader = &utils.ReadWrapper{
			Reader:            underlay,
			OptionalReader:    io.MultiReader(bytes.NewBuffer(leftover), underlay),
			RemainFirstBufLen: len(leftover),
		}
	}

	return uc, addr, nil
}
