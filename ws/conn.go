package ws

import (
	"bytes"
	"io"
	"net"

	"github.com/e1732a364fed/vless_simple/utils"
)

// Conn 把底层流包装为 websocket 数据流, 实现 net.Conn.
// Write 把 p 作为一个 FIN=1 的 Binary 帧整体发出(加掩码);
// Read 给出重组后的消息载荷字节, 分片消息会按到达顺序拼接完才交出.
//
// 一个 Conn 由一个会话独占, 方法不能并发调用.
type Conn struct {
	net.Conn

	//见 Client.LenientMask
	LenientMask bool

	recv bytes.Buffer //从底层读到、尚未解析完的原始字节
	frag bytes.Buffer //正在重组的分片消息
	msg  bytes.Buffer //已解出、尚未被 Read 取走的载荷

	inFrag     bool
	peerClosed bool
	closeSent  bool
}

// leftover 是握手时多读到的字节, 会在一切从底层读到的数据之前被解析.
func NewConn(underlay net.Conn, leftover []byte) *Conn {
	c := &Conn{Conn: underlay}
	if len(leftover) > 0 {
		c.recv.Write(leftover)
	}
	return c
}

func (c *Conn) Read(p []byte) (int, error) {

	for c.msg.Len() == 0 {
		if c.peerClosed {
			return 0, io.EOF
		}

		f, err := c.nextFrame()
		if err != nil {
			return 0, err
		}

		switch f.Opcode {
		case OpClose:
			//对端要求关闭, 回敬一个 Close 后按正常流结束处理
			c.peerClosed = true
			if !c.closeSent {
				c.closeSent = true
				c.writeFrame(OpClose, nil)
			}
			return 0, io.EOF

		case OpPing:
			if err = c.writeFrame(OpPong, f.Payload); err != nil {
				return 0, err
			}

		case OpPong:
			//没人要求过对端pong, 来了也不碍事

		case OpContinuation:
			if !c.inFrag {
				return 0, utils.ErrInErr{ErrDesc: "continuation without a message to continue", ErrDetail: ErrProtocolViolation}
			}
			c.frag.Write(f.Payload)
			if f.FIN {
				c.inFrag = false
				c.msg.Write(c.frag.Bytes())
				c.frag.Reset()
			}

		case OpBinary, OpText:
			if c.inFrag {
				return 0, utils.ErrInErr{ErrDesc: "new message while fragmented message unfinished", ErrDetail: ErrProtocolViolation}
			}
			if f.FIN {
				c.msg.Write(f.Payload)
			} else {
				c.inFrag = true
				c.frag.Write(f.Payload)
			}
		}
	}

	return c.msg.Read(p)
}

//从 recv 中解析下一个帧, 数据不足则阻塞地从底层连接补读.
//返回的 Frame.Payload 引用 recv 的内存, 必须在下一次 recv 写入前用掉.
func (c *Conn) nextFrame() (Frame, error) {

	for {
		if c.recv.Len() > 0 {
			f, n, err := ParseFrame(c.recv.Bytes())
			if err == nil {
				if f.Masked && !c.LenientMask {
					return Frame{}, utils.ErrInErr{ErrDesc: "got masked frame from server", ErrDetail: ErrProtocolViolation}
				}
				c.recv.Next(n)
				return f, nil
			}
			if err != ErrNeedMore {
				return Frame{}, err
			}
		}

		bs := utils.GetPacket()
		n, err := c.Conn.Read(bs)
		if n > 0 {
			c.recv.Write(bs[:n])
		}
		utils.PutPacket(bs)

		if err != nil {
			if n > 0 && c.recv.Len() > 0 {
				//最后这点数据可能正好凑成完整的帧, 下轮循环消化掉, 错误留给再下一轮
				continue
			}
			return Frame{}, err
		}
	}
}

func (c *Conn) Write(p []byte) (int, error) {
	if err := c.writeFrame(OpBinary, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *Conn) writeFrame(opcode byte, payload []byte) error {
	return WriteFrame(c.Conn, opcode, payload, true)
}

// Close 发一个 Close 帧(尽力而为)然后关闭底层连接.
func (c *Conn) Close() error {
	if !c.closeSent {
		c.closeSent = true
		c.writeFrame(OpClose, nil)
	}
	return c.Conn.Close()
}
