package netLayer

import (
	"io"

	"github.com/e1732a364fed/vless_simple/utils"
	"go.uber.org/zap"
)

// 从wlc读取 写入到 wrc，并同时从 wrc读取写入wlc。
// 阻塞到两个方向都结束; 任一方向拷贝完后会主动关闭双方连接, 以便解除另一方向的阻塞.
// 返回从 wrc 读到并写入 wlc 的字节数.
func Relay(realTargetAddr *Addr, wrc, wlc io.ReadWriteCloser) int64 {

	go func() {
		n, e := io.Copy(wrc, wlc)
		if ce := utils.CanLogDebug("relay local->remote done"); ce != nil {
			ce.Write(
				zap.String("target", realTargetAddr.String()),
				zap.Int64("bytes", n),
				zap.Error(e),
			)
		}
		wlc.Close()
		wrc.Close()
	}()

	n, e := io.Copy(wlc, wrc)
	if ce := utils.CanLogDebug("relay remote->local done"); ce != nil {
		ce.Write(
			zap.String("target", realTargetAddr.String()),
			zap.Int64("bytes", n),
			zap.Error(e),
		)
	}
	wlc.Close()
	wrc.Close()

	return n
}
