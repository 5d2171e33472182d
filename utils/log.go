package utils

import (
	"flag"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	Log_debug = iota
	Log_info
	Log_warning
	Log_error //error一般用于输出一些 连接错误或者服务器响应错误之类的, 但不致命
	Log_fatal

	DefaultLL = Log_info
)

// LogLevel 值越小越唠叨, 废话越多，值越大打印的越少，见log_开头的常量;
// 默认是 info级别.
var (
	LogLevel       int
	LogOutFileName string

	ZapLogger *zap.Logger
)

var logLevelStrList = []string{"debug", "info", "warning", "error", "fatal"}

func LogLevelStrList() []string {
	return logLevelStrList
}

// 日志等级的可读名称, 越界时返回 "unknown".
func LogLevelStr(lvl int) string {
	if lvl >= 0 && lvl < len(logLevelStrList) {
		return logLevelStrList[lvl]
	}
	return "unknown"
}

func init() {
	//我们的loglevel就是zap的loglevel+1

	flag.IntVar(&LogLevel, "ll", DefaultLL, "log level,0=debug, 1=info, 2=warning, 3=error, 4=dpanic, 5=panic, 6=fatal")
	flag.StringVar(&LogOutFileName, "lf", "", "output log to file; rotated automatically")

	//不调用 InitLog 也不致panic, 比如 go test 时
	ZapLogger = zap.NewNop()
}

func InitLog() {
	atomicLevel := zap.NewAtomicLevel()
	atomicLevel.SetLevel(zapcore.Level(LogLevel - 1))

	var writes = []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}

	encodeLevel := zapcore.CapitalColorLevelEncoder

	if LogOutFileName != "" {
		writes = append(writes, zapcore.AddSync(&lumberjack.Logger{
			Filename:   LogOutFileName,
			MaxSize:    10, //megabytes
			MaxBackups: 3,
			MaxAge:     28, //days
		}))

		//写文件时颜色的转义序列只会污染文件
		encodeLevel = zapcore.CapitalLevelEncoder
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:  "msg",
		LevelKey:    "level",
		TimeKey:     "time",
		FunctionKey: "func",
		EncodeLevel: encodeLevel,
		EncodeTime:  zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000"),
		EncodeName:  zapcore.FullNameEncoder,
		LineEnding:  zapcore.DefaultLineEnding,
	}), zapcore.NewMultiWriteSyncer(writes...), atomicLevel)

	ZapLogger = zap.New(core)
	ZapLogger.Info("log 初始化成功")
}

func CanLogLevel(l int, msg string) *zapcore.CheckedEntry {
	return ZapLogger.Check(zapcore.Level(l-1), msg)

}

func canLogLevel(l zapcore.Level, msg string) *zapcore.CheckedEntry {
	return ZapLogger.Check(l, msg)

}

func CanLogErr(msg string) *zapcore.CheckedEntry {
	return canLogLevel(zap.ErrorLevel, msg)

}

func CanLogInfo(msg string) *zapcore.CheckedEntry {
	return canLogLevel(zap.InfoLevel, msg)

}
func CanLogWarn(msg string) *zapcore.CheckedEntry {
	return canLogLevel(zap.WarnLevel, msg)

}
func CanLogDebug(msg string) *zapcore.CheckedEntry {
	return canLogLevel(zap.DebugLevel, msg)

}
