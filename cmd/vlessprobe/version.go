/*
Package main 读取配置文件或分享链接, 通过 vless+ws+tls 隧道探测目标, 或在本地做端口转发.

命令行参数请使用 --help / -h 查看详情, 配置文件示例请参考 ../../examples/ .
*/
package main

import (
	"fmt"
	"io"
	"runtime"
)

const (
	desc      = "A probing and forwarding client for vless over websocket tunnels\n"
	delimiter = "===============================\n"
)

var Version string = "[version_undefined]" //版本号可由 -ldflags "-X 'main.Version=v1.x.x'" 指定

func versionStr() string {
	return fmt.Sprintf("vlessprobe %s, %s %s %s \n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// printVersion 返回的信息 可以唯一确定一个编译文件的版本.
func printVersion(w io.StringWriter) {

	w.WriteString(delimiter)
	w.WriteString(versionStr())
	w.WriteString(delimiter)

	w.WriteString(desc)
	w.WriteString(delimiter)

}
