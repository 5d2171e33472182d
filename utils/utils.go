// Package utils provides utilities that are used in all sub-packages in vless_simple.
package utils

import (
	"flag"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/BurntSushi/toml"
)

// 本来可以直接用 fmt.Print, 但是那个Print多了一次到any的装箱，所以如果只
// 打印一个字符串的话，不妨直接调用 os.Stdout.WriteString(str)。
func PrintStr(str string) {
	os.Stdout.WriteString(str)
}

func IsFlagGiven(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

var GivenFlags map[string]*flag.Flag

// call flag.Parse() and assign given flags to GivenFlags.
func ParseFlags() {
	flag.Parse()

	GivenFlags = make(map[string]*flag.Flag)
	flag.Visit(func(f *flag.Flag) {
		GivenFlags[f.Name] = f
	})
}

// 移除 = "" 和 = false 的项
func GetPurgedTomlStr(v any) (string, error) {
	buf := GetBuf()
	defer PutBuf(buf)
	if err := toml.NewEncoder(buf).Encode(v); err != nil {
		return "", err
	}
	lines := strings.Split(buf.String(), "\n")
	var sb strings.Builder

	for _, l := range lines {
		if !strings.HasSuffix(l, ` = ""`) && !strings.HasSuffix(l, ` = false`) {

			sb.WriteString(l)
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil

}

// url查询参数的值为 "true" 或 "1" 时视为 真
func QueryPositive(query url.Values, key string) (result bool) {
	nStr := query.Get(key)
	if nStr == "true" || nStr == "1" {
		result = true
	}
	return
}

// promptui 的 Validate 要求 func(string) error, 而 govalidator 提供的都是 func(string) bool.
func WrapFuncForPromptUI(f func(string) bool) func(string) error {
	return func(s string) error {
		if f(s) {
			return nil
		}
		return ErrInvalidData
	}
}

func GetSystemKillChan() <-chan os.Signal {
	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, os.Interrupt, syscall.SIGTERM) //os.Kill cannot be trapped
	return osSignals
}
