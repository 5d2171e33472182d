package main

import (
	"flag"
	"log"
	"os"
	"runtime/debug"
	"runtime/pprof"

	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/e1732a364fed/vless_simple/config"
	"github.com/e1732a364fed/vless_simple/netLayer"
	"github.com/e1732a364fed/vless_simple/utils"
)

const defaultConfFn = "client.toml"

var (
	configFileName string
	shareURL       string
	targetStr      string
	payloadStr     string
	probeCount     int
	listenAddr     string

	interactiveMode bool
	cmdPrintVer     bool

	startPProf bool
	startMProf bool
)

func init() {
	flag.StringVar(&configFileName, "c", defaultConfFn, "config file name")
	flag.StringVar(&shareURL, "url", "", "vless share url, used instead of the config file")

	flag.StringVar(&targetStr, "t", "", "target host:port to access through the tunnel")
	flag.StringVar(&payloadStr, "payload", "", "bytes to send; empty means a plain http GET for the target")
	flag.IntVar(&probeCount, "n", 1, "number of sequential probe rounds")

	flag.StringVar(&listenAddr, "listen", "", "forward mode: listen on this tcp address and pipe every connection through its own tunnel")

	flag.BoolVar(&interactiveMode, "i", false, "enter interactive mode")
	flag.BoolVar(&cmdPrintVer, "v", false, "print the version string then exit")

	flag.BoolVar(&startPProf, "pp", false, "pprof")
	flag.BoolVar(&startMProf, "mp", false, "memory pprof")
}

func main() {
	os.Exit(mainFunc())
}

func mainFunc() (result int) {
	defer func() {
		if r := recover(); r != nil {
			if ce := utils.CanLogErr("Captured panic!"); ce != nil {

				stack := debug.Stack()

				ce.Write(
					zap.Any("err:", r),
					zap.String("stacktrace", string(stack)),
				)

				log.Println(string(stack)) //zap转译掉了换行符, 可读性太差, 还是要单独打印一份

			} else {
				log.Println("panic captured!", r, "\n", string(debug.Stack()))
			}

			result = -3
		}
	}()

	utils.ParseFlags()

	printVersion(os.Stdout)
	if cmdPrintVer {
		return
	}

	if startPProf {
		const pprofFN = "cpu.pprof"
		f, err := os.OpenFile(pprofFN, os.O_CREATE|os.O_RDWR, 0644)

		if err == nil {
			defer f.Close()
			err = pprof.StartCPUProfile(f)
			if err == nil {
				defer pprof.StopCPUProfile()
			} else {
				log.Println("pprof.StartCPUProfile failed", err)
			}
		} else {
			log.Println(pprofFN, "can't be created,", err)
		}
	}
	if startMProf {
		//若不使用 NoShutdownHook, 则 我们ctrl+c退出时不会产生 pprof文件
		p := profile.Start(profile.MemProfile, profile.MemProfileRate(1), profile.NoShutdownHook)

		defer p.Stop()
	}

	utils.InitLog()

	if utils.GivenFlags["bl"] != nil {
		utils.AdjustBufSize()
	}

	if interactiveMode {
		runCli()
		return
	}

	dc, err := loadDialConf()
	if err != nil {
		if ce := utils.CanLogErr("No valid dial config. Give -c or -url, or generate one with -i"); ce != nil {
			ce.Write(zap.Error(err))
		}
		return -1
	}

	if ce := utils.CanLogInfo("Dial config loaded"); ce != nil {
		ce.Write(zap.String("server", dc.GetAddrStrForDial()), zap.String("tag", dc.Tag))
	}

	if targetStr == "" {
		if ce := utils.CanLogErr("No -t target provided"); ce != nil {
			ce.Write()
		}
		return -1
	}

	target, err := netLayer.NewAddr(targetStr)
	if err != nil {
		if ce := utils.CanLogErr("Bad -t target"); ce != nil {
			ce.Write(zap.String("target", targetStr), zap.Error(err))
		}
		return -1
	}
	if target.Port == 0 {
		target.Port = 80
	}
	target.Network = "tcp"

	if listenAddr != "" {
		return runForward(dc, target)
	}

	return runProbe(dc, target)
}

func loadDialConf() (*config.DialConf, error) {
	if shareURL != "" {
		return config.ParseXrayShareURL(shareURL)
	}

	fpath := utils.GetFilePath(configFileName)
	if !utils.FileExist(fpath) {
		if utils.GivenFlags["c"] == nil {
			return nil, utils.ErrInErr{ErrDesc: "no -c provided and default config doesn't exist", ErrDetail: os.ErrNotExist, Data: defaultConfFn}
		}
		return nil, utils.ErrInErr{ErrDesc: "-c provided but the file doesn't exist", ErrDetail: os.ErrNotExist, Data: configFileName}
	}

	standardConf, err := config.LoadTomlConfFile(fpath)
	if err != nil {
		return nil, err
	}
	return config.FirstDialConf(standardConf)
}
