package ws

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	"github.com/e1732a364fed/vless_simple/utils"
)

// 2字节固定头 + 8字节扩展长度 + 4字节掩码
const MaxFrameHeaderLen = 14

// 单帧载荷的接受上限. rfc 允许到 2^63-1, 但没有对端会正经发那么大的帧,
// 不设上限的话恶意对端可以用一个假长度让我们无限缓存.
var MaxFramePayloadLen = 1 << 24

// Frame 是解码出的一个帧. 只用于解码, 编码端直接写字节.
type Frame struct {
	FIN     bool
	Opcode  byte
	Masked  bool
	MaskKey [4]byte
	Payload []byte //掩码已解掉
}

//Close, Ping, Pong
func (f *Frame) IsControl() bool {
	return f.Opcode&0x8 != 0
}

// 把 p 的每个字节与 key[i%4] 异或, 原地修改.
// 加掩码与解掩码是同一个运算, 做两次就还原.
func MaskBytes(p []byte, key [4]byte) {
	for i := range p {
		p[i] ^= key[i%4]
	}
}

// EncodeFrame 编码一个 FIN=1 的完整帧. masked 时生成随机掩码键.
// 客户端发给服务端的帧必须加掩码, rfc6455 section 5.1.
func EncodeFrame(opcode byte, payload []byte, masked bool) ([]byte, error) {
	return AppendFrame(make([]byte, 0, len(payload)+MaxFrameHeaderLen), true, opcode, payload, masked)
}

// WriteFrame 编码一个 FIN=1 的完整帧并整体写入 w.
// 头部与载荷合成一次 Write, 下层是 tls 时不会拆成多个 record.
func WriteFrame(w io.Writer, opcode byte, payload []byte, masked bool) error {
	frame, err := EncodeFrame(opcode, payload, masked)
	if err != nil {
		return err
	}
	_, err = w.Write(frame)
	return err
}

// AppendFrame 把一个帧追加到 dst 后并返回. payload 本身不会被修改.
// 长度编码分三类: <=125 直接放在第二字节; <=65535 用 126+2字节大端; 否则 127+8字节大端.
func AppendFrame(dst []byte, fin bool, opcode byte, payload []byte, masked bool) ([]byte, error) {

	b0 := opcode & 0x0f
	if fin {
		b0 |= bitFIN
	}
	dst = append(dst, b0)

	var b1 byte
	if masked {
		b1 = bitMask
	}

	l := len(payload)
	switch {
	case l <= 125:
		dst = append(dst, b1|byte(l))
	case l <= 65535:
		dst = append(dst, b1|126)
		dst = append(dst, byte(l>>8), byte(l))
	default:
		//8字节长度的最高位按 rfc 必须为0
		if uint64(l)>>63 != 0 {
			return nil, ErrTooLong
		}
		dst = append(dst, b1|127)
		var ext [8]byte
		binary.BigEndian.PutUint64(ext[:], uint64(l))
		dst = append(dst, ext[:]...)
	}

	if masked {
		var key [4]byte
		if _, err := rand.Read(key[:]); err != nil {
			return nil, utils.ErrInErr{ErrDesc: "generate mask key failed", ErrDetail: err}
		}
		dst = append(dst, key[:]...)

		start := len(dst)
		dst = append(dst, payload...)
		MaskBytes(dst[start:], key)
	} else {
		dst = append(dst, payload...)
	}

	return dst, nil
}

// ParseFrame 从 bs 的开头解析一个帧, 返回帧和消耗的字节数.
// 数据还不够一个完整帧时返回 ErrNeedMore; 头部不合法时返回包着 ErrProtocolViolation 的错误.
// 返回的 Payload 直接引用 bs 的内存(带掩码的帧会被原地解掩), 调用方需要的话自行拷贝.
func ParseFrame(bs []byte) (f Frame, n int, err error) {

	if len(bs) < 2 {
		err = ErrNeedMore
		return
	}

	b0, b1 := bs[0], bs[1]

	//没协商任何扩展, RSV位必须全0
	if b0&bitsRSV != 0 {
		err = utils.ErrInErr{ErrDesc: "reserved bits set", ErrDetail: ErrProtocolViolation, Data: b0}
		return
	}

	f.FIN = b0&bitFIN != 0
	f.Opcode = b0 & 0x0f

	switch f.Opcode {
	case OpContinuation, OpText, OpBinary, OpClose, OpPing, OpPong:
	default:
		err = utils.ErrInErr{ErrDesc: "bad opcode", ErrDetail: ErrProtocolViolation, Data: f.Opcode}
		return
	}

	f.Masked = b1&bitMask != 0
	payloadLen := uint64(b1 & 0x7f)
	off := 2

	switch payloadLen {
	case 126:
		if len(bs) < off+2 {
			err = ErrNeedMore
			return
		}
		payloadLen = uint64(binary.BigEndian.Uint16(bs[off:]))
		off += 2
	case 127:
		if len(bs) < off+8 {
			err = ErrNeedMore
			return
		}
		payloadLen = binary.BigEndian.Uint64(bs[off:])
		off += 8
		if payloadLen>>63 != 0 {
			err = utils.ErrInErr{ErrDesc: "bad extended length", ErrDetail: ErrProtocolViolation, Data: payloadLen}
			return
		}
	}

	//控制帧不准分片也不准超过125字节, rfc6455 section 5.5
	if f.IsControl() && (payloadLen > 125 || !f.FIN) {
		err = utils.ErrInErr{ErrDesc: "bad control frame", ErrDetail: ErrProtocolViolation, Data: f.Opcode}
		return
	}

	if payloadLen > uint64(MaxFramePayloadLen) {
		err = utils.ErrInErr{ErrDesc: "frame too large", ErrDetail: ErrProtocolViolation, Data: payloadLen}
		return
	}

	if f.Masked {
		if len(bs) < off+4 {
			err = ErrNeedMore
			return
		}
		copy(f.MaskKey[:], bs[off:])
		off += 4
	}

	if uint64(len(bs)-off) < payloadLen {
		err = ErrNeedMore
		return
	}

	f.Payload = bs[off : off+int(payloadLen)]
	if f.Masked {
		MaskBytes(f.Payload, f.MaskKey)
	}

	n = off + int(payloadLen)
	return
}
