package main

import (
	"net"
	"time"

	"go.uber.org/zap"

	vs "github.com/e1732a364fed/vless_simple"
	"github.com/e1732a364fed/vless_simple/config"
	"github.com/e1732a364fed/vless_simple/netLayer"
	"github.com/e1732a364fed/vless_simple/utils"
)

// 等本地连接的首笔数据的最长时间. 凑到首笔数据就能让它跟vless头同帧发出.
const firstPayloadWait = time.Millisecond * 100

// 本地转发模式. 每条进来的连接各开一条隧道, 互不相干, ctrl+C 退出.
func runForward(dc *config.DialConf, target netLayer.Addr) int {
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		if ce := utils.CanLogErr("Forward mode failed to listen"); ce != nil {
			ce.Write(zap.String("addr", listenAddr), zap.Error(err))
		}
		return -1
	}
	defer listener.Close()

	if ce := utils.CanLogInfo("Forward mode started"); ce != nil {
		ce.Write(zap.String("listen", listenAddr), zap.String("target", target.String()))
	}

	go func() {
		for {
			lc, err := listener.Accept()
			if err != nil {
				if ce := utils.CanLogDebug("Forward accept ended"); ce != nil {
					ce.Write(zap.Error(err))
				}
				return
			}
			go forwardOne(dc, target, lc)
		}
	}()

	<-utils.GetSystemKillChan()
	utils.PrintStr("Forward mode exiting\n")
	return 0
}

func forwardOne(dc *config.DialConf, target netLayer.Addr, lc net.Conn) {
	defer lc.Close()

	s, err := vs.NewSession(dc)
	if err != nil {
		if ce := utils.CanLogErr("Create session failed"); ce != nil {
			ce.Write(zap.Error(err))
		}
		return
	}
	defer s.Close()

	firstPayload := utils.GetPacket()
	lc.SetReadDeadline(time.Now().Add(firstPayloadWait))
	n, _ := lc.Read(firstPayload)
	lc.SetReadDeadline(time.Time{})

	wrc, err := s.OpenConn(target, firstPayload[:n])
	utils.PutPacket(firstPayload)
	if err != nil {
		if ce := utils.CanLogErr("Open tunnel failed"); ce != nil {
			ce.Write(zap.String("target", target.String()), zap.Error(err))
		}
		return
	}

	netLayer.Relay(&target, wrc, lc)
}
