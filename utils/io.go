package utils

import "io"

// bufio.Reader 和 bytes.Buffer 都实现了 ByteReader
type ByteReader interface {
	ReadByte() (byte, error)
	Read(p []byte) (n int, err error)
}

// bytes.Buffer 实现了 ByteWriter
type ByteWriter interface {
	WriteByte(byte) error
	Write(p []byte) (n int, err error)
}

// ReadWrapper 先从 OptionalReader 读, 读完后转到 Reader.
// 用于把握手时多读到的缓存字节接回到真正的连接上.
type ReadWrapper struct {
	io.Reader
	OptionalReader    io.Reader
	RemainFirstBufLen int
}

func (rw *ReadWrapper) Read(p []byte) (n int, err error) {

	if rw.RemainFirstBufLen > 0 {
		n, err := rw.OptionalReader.Read(p)
		if n > 0 {
			rw.RemainFirstBufLen -= n
		}
		return n, err
	}
	return rw.Reader.Read(p)
}

func (rw *ReadWrapper) Close() error {
	if cc, ok := rw.Reader.(io.Closer); ok {
		return cc.Close()
	}
	return nil
}
