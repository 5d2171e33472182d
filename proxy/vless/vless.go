/*
Package vless 实现 vless协议 version 0 的客户端, 以及一个用于测试的简易服务端.

vless请求头结构为: 版本一字节, uuid 16字节, addon长度一字节, 指令一字节,
端口两字节(大端), 地址类型一字节, 地址若干字节. 响应头只有两字节:
版本一字节, addon长度一字节.

v0 的 addon 长度恒为 0, 但读取时我们仍按声明的长度跳过, 以兼容
未来可能携带 addon 的实现.
*/
package vless

import (
	"errors"
	"io"
	"net"

	"github.com/e1732a364fed/vless_simple/utils"
)

const Name = "vless"

// CMD types, for vless and vmess
const (
	_ byte = iota
	CmdTCP
	CmdUDP
	CmdMux
)

var (
	//响应头不足两字节
	ErrMalformedResponse = errors.New("vless response head too short")

	ErrInvalidVersion = errors.New("unsupported vless version")

	ErrAuthFail = errors.New("vless auth failed")
)

// UserConn 实现 net.Conn. 它负责vless头部之后的数据收发:
// 客户端在首次 Read 时剥掉响应头, 服务端在首次 Write 时附上响应头.
type UserConn struct {
	net.Conn
	optionalReader io.Reader //在握手阶段多读到的字节从这里先读出

	uuid        [16]byte
	isServerEnd bool

	isntFirstPacket bool //客户端指已剥过响应头, 服务端指已写过响应头

	remainAddonLen int //响应头声明的addon中尚未跳过的部分
	unreadPart     []byte
}

func (uc *UserConn) Read(p []byte) (int, error) {
	if len(uc.unreadPart) > 0 {
		n := copy(p, uc.unreadPart)
		if n < len(uc.unreadPart) {
			uc.unreadPart = uc.unreadPart[n:]
		} else {
			uc.unreadPart = nil
		}
		return n, nil
	}

	var from io.Reader = uc.Conn
	if uc.optionalReader != nil {
		from = uc.optionalReader
	}

	if uc.isServerEnd {
		return from.Read(p)
	}

	if !uc.isntFirstPacket {
		uc.isntFirstPacket = true

		//响应头一定在第一个数据包的开头. 不足两字节说明对端根本不是vless.
		bs := utils.GetPacket()
		n, err := from.Read(bs)
		if err != nil {
			utils.PutPacket(bs)
			return 0, err
		}
		if n < 2 {
			utils.PutPacket(bs)
			return 0, ErrMalformedResponse
		}

		uc.remainAddonLen = int(bs[1])

		data := bs[2:n]
		if len(data) > uc.remainAddonLen {
			data = data[uc.remainAddonLen:]
			uc.remainAddonLen = 0

			n = copy(p, data)
			if n < len(data) {
				uc.unreadPart = append([]byte{}, data[n:]...)
			}
			utils.PutPacket(bs)
			return n, nil
		}

		uc.remainAddonLen -= len(data)
		utils.PutPacket(bs)
	}

	for uc.remainAddonLen > 0 {
		bs := utils.GetPacket()
		n, err := from.Read(bs)
		if err != nil {
			utils.PutPacket(bs)
			return 0, err
		}
		if n <= uc.remainAddonLen {
			uc.remainAddonLen -= n
			utils.PutPacket(bs)
			continue
		}

		data := bs[uc.remainAddonLen:n]
		uc.remainAddonLen = 0

		n = copy(p, data)
		if n < len(data) {
			uc.unreadPart = append([]byte{}, data[n:]...)
		}
		utils.PutPacket(bs)
		return n, nil
	}

	return from.Read(p)
}

func (uc *UserConn) Write(p []byte) (int, error) {
	if !uc.isServerEnd || uc.isntFirstPacket {
		return uc.Conn.Write(p)
	}

	uc.isntFirstPacket = true

	//v0 服务端的第一个数据包要带上响应头: 版本 与 addon长度, 都是0
	writeBuf := utils.GetBuf()
	writeBuf.WriteByte(0)
	writeBuf.WriteByte(0)
	writeBuf.Write(p)

	_, err := uc.Conn.Write(writeBuf.Bytes())
	utils.PutBuf(writeBuf)
	if err != nil {
		return 0, err
	}
	return len(p), nil
}
