package vless_simple

import (
	"errors"
	"io"
	"net"
	"os"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/e1732a364fed/vless_simple/config"
	"github.com/e1732a364fed/vless_simple/netLayer"
	"github.com/e1732a364fed/vless_simple/proxy/vless"
	"github.com/e1732a364fed/vless_simple/utils"
	"github.com/e1732a364fed/vless_simple/ws"
)

// 会话的生命周期, 单向前进不回头
const (
	StateConnecting int32 = iota
	StateHandshaking
	StateTunneling
	StateClosed
)

// 一轮交互中等待对端数据的默认时长. 到时没有新数据就算这一轮结束.
var DefaultIdleTimeout = time.Second * 2

// Session 表示一条隧道会话. 它独占一条底层连接, 用完即弃; 任何一层失败
// 都不重试, 错误原样交还调用者, 重连是调用者的事.
//
// 一个 Session 只能在一个goroutine里使用. 唯一例外是 Close, 允许从别的
// goroutine调用, 用来打断阻塞中的读.
type Session struct {
	Dial DialFunc //NewSession 默认装上 DefaultDialFunc, 可在 OpenConn 之前换掉

	wsClient    *ws.Client
	vlessClient *vless.Client

	idleTimeout time.Duration

	state atomic.Int32

	underlay net.Conn           //拨号得到的连接(tls之上)
	tunnel   io.ReadWriteCloser //vless握手后的数据通道

	uploaded   atomic.Int64
	downloaded atomic.Int64
}

func NewSession(dc *config.DialConf) (*Session, error) {
	vc, err := vless.NewClient(dc.Uuid)
	if err != nil {
		return nil, err
	}

	wc := ws.NewClient(dc.SNI(), dc.Path)
	if dc.HandshakeTimeoutMs > 0 {
		wc.HandshakeTimeout = time.Duration(dc.HandshakeTimeoutMs) * time.Millisecond
	}
	wc.SkipAcceptCheck = dc.SkipAcceptCheck
	wc.LenientMask = dc.LenientMask

	s := &Session{
		Dial:        DefaultDialFunc(dc),
		wsClient:    wc,
		vlessClient: vc,
		idleTimeout: DefaultIdleTimeout,
	}
	if dc.IdleTimeoutMs > 0 {
		s.idleTimeout = time.Duration(dc.IdleTimeoutMs) * time.Millisecond
	}
	return s, nil
}

func (s *Session) State() int32 { return s.state.Load() }

// 本会话上行/下行的应用层字节数. 只统计 OpenConn 的首包与 collect 收到的数据.
func (s *Session) Uploaded() int64   { return s.uploaded.Load() }
func (s *Session) Downloaded() int64 { return s.downloaded.Load() }

// OpenConn 走完 拨号 -> ws升级 -> vless头 的全部流程, 返回承载载荷的连接.
// firstPayload 可为nil; 给出时它与vless头同帧发出, 不产生多余的数据帧.
func (s *Session) OpenConn(target netLayer.Addr, firstPayload []byte) (io.ReadWriteCloser, error) {

	if st := s.state.Load(); st != StateConnecting {
		return nil, utils.ErrInErr{ErrDesc: "session is single use", ErrDetail: utils.ErrInvalidData, Data: st}
	}

	underlay, err := s.Dial()
	if err != nil {
		s.state.Store(StateClosed)
		return nil, err
	}
	s.underlay = underlay

	s.state.Store(StateHandshaking)

	wsConn, err := s.wsClient.Handshake(underlay)
	if err != nil {
		s.Close()
		return nil, err
	}

	tunnel, err := s.vlessClient.Handshake(wsConn, firstPayload, target)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.uploaded.Add(int64(len(firstPayload)))

	s.tunnel = tunnel
	s.state.Store(StateTunneling)

	if ce := utils.CanLogDebug("tunnel established"); ce != nil {
		ce.Write(zap.String("target", target.String()))
	}
	return tunnel, nil
}

// Roundtrip 建立隧道, 发出 payload, 收集对端的回应直到一轮交互结束.
// 以下情况都算正常结束, 返回已收到的字节与 nil:
// idleTimeout 内没有等来新数据 / 对端发来Close帧 / 对端关掉了连接.
// 协议类错误连同已收到的字节一起返回.
func (s *Session) Roundtrip(target netLayer.Addr, payload []byte) ([]byte, error) {
	defer s.Close()

	conn, err := s.OpenConn(target, payload)
	if err != nil {
		return nil, err
	}
	return s.collect(conn)
}

func (s *Session) collect(conn io.ReadWriteCloser) ([]byte, error) {
	nc, _ := conn.(net.Conn)

	buf := utils.GetBuf()
	bs := utils.GetPacket()
	defer utils.PutPacket(bs)

	var readErr error

	for {
		if nc != nil {
			nc.SetReadDeadline(time.Now().Add(s.idleTimeout))
		}
		n, err := conn.Read(bs)
		if n > 0 {
			buf.Write(bs[:n])
		}
		if err != nil {
			if nc != nil {
				nc.SetReadDeadline(time.Time{})
			}
			if !errors.Is(err, os.ErrDeadlineExceeded) && !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				readErr = err
			}
			break
		}
	}

	result := append([]byte{}, buf.Bytes()...)
	utils.PutBuf(buf)

	s.downloaded.Add(int64(len(result)))

	if ce := utils.CanLogDebug("roundtrip finished"); ce != nil {
		ce.Write(zap.Int("bytes", len(result)), zap.Error(readErr))
	}
	return result, readErr
}

// Close 可多次调用. 关闭数据通道(从而发出ws的Close帧)或底层连接.
func (s *Session) Close() error {
	if s.state.Swap(StateClosed) == StateClosed {
		return nil
	}
	if s.tunnel != nil {
		return s.tunnel.Close()
	}
	if s.underlay != nil {
		return s.underlay.Close()
	}
	return nil
}

// Fetch 是一次性的便捷封装: 建一条会话, 发出 payload, 返回回应的字节.
func Fetch(dc *config.DialConf, target netLayer.Addr, payload []byte) ([]byte, error) {
	s, err := NewSession(dc)
	if err != nil {
		return nil, err
	}
	return s.Roundtrip(target, payload)
}
