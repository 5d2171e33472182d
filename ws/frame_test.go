package ws_test

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/e1732a364fed/vless_simple/ws"
)

//覆盖三种长度编码的边界
var roundTripSizes = []int{0, 1, 125, 126, 127, 65535, 65536, 70000}

func TestFrameRoundTrip(t *testing.T) {
	for _, size := range roundTripSizes {
		payload := make([]byte, size)
		rand.Read(payload)

		frame, err := ws.EncodeFrame(ws.OpBinary, payload, true)
		if err != nil {
			t.Log("encode", size, err)
			t.FailNow()
		}

		f, n, err := ws.ParseFrame(frame)
		if err != nil {
			t.Log("parse", size, err)
			t.FailNow()
		}
		if n != len(frame) {
			t.Log("consumed mismatch", size, n, len(frame))
			t.FailNow()
		}
		if !f.FIN || f.Opcode != ws.OpBinary || !f.Masked {
			t.Log("header mismatch", size, f.FIN, f.Opcode, f.Masked)
			t.FailNow()
		}
		if !bytes.Equal(f.Payload, payload) {
			t.Log("payload mismatch at size", size)
			t.FailNow()
		}
	}
}

//后面跟着别的数据时, 消耗的字节数也必须精确到帧的末尾
func TestParseFrameTrailing(t *testing.T) {
	payload := []byte("hello frame")
	frame, _ := ws.EncodeFrame(ws.OpBinary, payload, true)
	withTrailing := append(append([]byte{}, frame...), 0xde, 0xad)

	f, n, err := ws.ParseFrame(withTrailing)
	if err != nil || n != len(frame) {
		t.Log(n, err)
		t.FailNow()
	}
	if !bytes.Equal(f.Payload, payload) {
		t.FailNow()
	}
}

//一个合法帧的每个截断点都要给出 ErrNeedMore
func TestParseFrameNeedMore(t *testing.T) {
	payload := make([]byte, 130) //两字节扩展长度的情况
	rand.Read(payload)
	frame, _ := ws.EncodeFrame(ws.OpBinary, payload, true)

	for cut := 0; cut < len(frame); cut++ {
		_, _, err := ws.ParseFrame(frame[:cut])
		if err != ws.ErrNeedMore {
			t.Log("cut", cut, "got", err)
			t.FailNow()
		}
	}

	//8字节扩展长度也抽查几个截断点
	payload = make([]byte, 65536)
	frame, _ = ws.EncodeFrame(ws.OpBinary, payload, true)
	for _, cut := range []int{0, 1, 2, 5, 9, 13, 14, 500, len(frame) - 1} {
		_, _, err := ws.ParseFrame(frame[:cut])
		if err != ws.ErrNeedMore {
			t.Log("cut", cut, "got", err)
			t.FailNow()
		}
	}
}

func TestMaskBytes(t *testing.T) {
	key := [4]byte{0x12, 0x34, 0x56, 0x78}
	payload := []byte("some payload to be masked, longer than four bytes")

	masked := append([]byte{}, payload...)
	ws.MaskBytes(masked, key)

	for i := range payload {
		if masked[i] != payload[i]^key[i%4] {
			t.Log("wrong mask at", i)
			t.FailNow()
		}
	}

	//再做一次应当还原
	ws.MaskBytes(masked, key)
	if !bytes.Equal(masked, payload) {
		t.FailNow()
	}
}

//逐帧解析分片消息, 拼接结果要与整帧一致
func TestFragmentedFramesConcat(t *testing.T) {
	whole := make([]byte, 300)
	rand.Read(whole)

	var stream []byte
	var err error
	stream, err = ws.AppendFrame(stream, false, ws.OpBinary, whole[:100], false)
	if err != nil {
		t.FailNow()
	}
	stream, _ = ws.AppendFrame(stream, false, ws.OpContinuation, whole[100:200], false)
	stream, _ = ws.AppendFrame(stream, true, ws.OpContinuation, whole[200:], false)

	var got []byte
	for len(stream) > 0 {
		f, n, err := ws.ParseFrame(stream)
		if err != nil {
			t.Log(err)
			t.FailNow()
		}
		got = append(got, f.Payload...)
		stream = stream[n:]
	}

	if !bytes.Equal(got, whole) {
		t.FailNow()
	}
}

func TestParseFrameRejects(t *testing.T) {
	//RSV位
	frame, _ := ws.EncodeFrame(ws.OpBinary, []byte("x"), false)
	frame[0] |= 0x40
	if _, _, err := ws.ParseFrame(frame); !errors.Is(err, ws.ErrProtocolViolation) {
		t.Log("rsv", err)
		t.FailNow()
	}

	//未定义的opcode
	frame, _ = ws.EncodeFrame(0x3, []byte("x"), false)
	if _, _, err := ws.ParseFrame(frame); !errors.Is(err, ws.ErrProtocolViolation) {
		t.Log("opcode", err)
		t.FailNow()
	}

	//分片的控制帧
	frame, _ = ws.AppendFrame(nil, false, ws.OpPing, nil, false)
	if _, _, err := ws.ParseFrame(frame); !errors.Is(err, ws.ErrProtocolViolation) {
		t.Log("fragmented control", err)
		t.FailNow()
	}

	//超过125字节的控制帧
	frame, _ = ws.AppendFrame(nil, true, ws.OpPing, make([]byte, 126), false)
	if _, _, err := ws.ParseFrame(frame); !errors.Is(err, ws.ErrProtocolViolation) {
		t.Log("oversized control", err)
		t.FailNow()
	}
}
