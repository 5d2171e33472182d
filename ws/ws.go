/*
Package ws implements a handwritten websocket client: frame codec, upgrade
handshake and a net.Conn wrapper.

websocket rfc: https://datatracker.ietf.org/doc/html/rfc6455/

本包的数据面不用 gobwas/ws 等现成库, 因为这里 websocket 只是 vless 字节流的伪装外皮,
帧的编码、掩码 与 分片重组 都要完全受我们控制; go test 里会用 gobwas/ws 作对端来互相验证.
不支持扩展与子协议.
*/
package ws

import "errors"

// opcode, rfc6455 section 5.2
const (
	OpContinuation byte = 0x0
	OpText         byte = 0x1
	OpBinary       byte = 0x2
	OpClose        byte = 0x8
	OpPing         byte = 0x9
	OpPong         byte = 0xA
)

const (
	bitFIN  byte = 0x80
	bitMask byte = 0x80
	bitsRSV byte = 0x70
)

//rfc6455 section 1.3 规定的固定值, 用于计算 Sec-WebSocket-Accept.
const GUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

var (
	// ErrNeedMore 不是失败; 它表示目前的数据还不够一个完整的帧,
	// 调用者应从连接再读一些字节后重试.
	ErrNeedMore = errors.New("need more data")

	ErrProtocolViolation = errors.New("websocket protocol violation")
	ErrTooLong           = errors.New("payload too long to encode")
	ErrHandshake         = errors.New("websocket handshake failed")
	ErrHandshakeTimeout  = errors.New("websocket handshake timeout")
)
