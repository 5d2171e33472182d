package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/manifoldco/promptui"

	"github.com/e1732a364fed/vless_simple/config"
	"github.com/e1732a364fed/vless_simple/tlsLayer"
	"github.com/e1732a364fed/vless_simple/utils"
)

var cliCmdList = []CliCmd{
	{
		"生成随机ssl证书", func() {
			const certFn = "cert.pem"
			const keyFn = "cert.key"
			if utils.FileExist(certFn) {
				fmt.Printf(certFn)
				fmt.Printf(" 已存在！\n")
				return
			}

			if utils.FileExist(keyFn) {
				fmt.Printf(keyFn)
				fmt.Printf(" 已存在！\n")
				return
			}

			err := tlsLayer.GenerateRandomCertKeyFiles(certFn, keyFn)
			if err == nil {
				fmt.Printf("生成成功！请查看目录中的 ")
				fmt.Printf(certFn)
				fmt.Printf(" 和 ")
				fmt.Printf(keyFn)
				fmt.Printf("\n")

			} else {

				fmt.Printf("生成失败,")
				fmt.Printf(err.Error())
				fmt.Printf("\n")

			}
		},
	},
}

func init() {

	//cli.go 中定义的 CliCmd都是需进一步交互的命令

	cliCmdList = append(cliCmdList, CliCmd{
		"交互生成客户端配置", func() {
			generateConfigFileInteractively()
		},
	})
	cliCmdList = append(cliCmdList, CliCmd{
		"调节日志等级", func() {
			interactively_adjust_loglevel()
		},
	})

}

type CliCmd struct {
	Name string
	F    func()
}

func (cc CliCmd) String() string {
	return cc.Name
}

//交互式命令行用户界面
//
//阻塞，可按ctrl+C退出或回退到上一级
func runCli() {
	defer func() {
		fmt.Printf("Interactive Mode exited. \n")
		if ce := utils.CanLogInfo("Interactive Mode exited"); ce != nil {
			ce.Write()
		}
	}()

	for {
		Select := promptui.Select{
			Label: "请选择想执行的功能",
			Items: cliCmdList,
		}

		i, result, err := Select.Run()

		if err != nil {
			fmt.Printf("Prompt failed %v\n", err)
			return
		}

		fmt.Printf("你选择了 %s\n", result)

		if f := cliCmdList[i].F; f != nil {
			f()
		}
	}

}

func generateConfigFileInteractively() {

	rootLevelList := []string{
		"打印当前缓存的配置",
		"开始交互生成配置",
		"清除此次缓存的配置",
		"将该缓存的配置写到文件(" + defaultConfFn + ")",
		"以该缓存的配置【生成分享链接url】",
	}

	conf := config.StandardConf{}

	var confStr string

	for {
		Select := promptui.Select{
			Label: "请选择想为你的配置文件做的事情",
			Items: rootLevelList,
		}

		i, result, err := Select.Run()

		if err != nil {
			fmt.Printf("Prompt failed %v\n", err)
			return
		}

		fmt.Printf("你选择了 %s\n", result)

		generateConfStr := func() {
			confStr, err = utils.GetPurgedTomlStr(conf)
			if err != nil {
				fmt.Println("Marshal failed", err)
				confStr = ""
			}
		}

		switch i {
		case 0: //print

			generateConfStr()

			fmt.Printf("#客户端配置\n")
			fmt.Printf(confStr)
			fmt.Printf("\n")

		case 2: //clear
			conf = config.StandardConf{}
			confStr = ""
		case 3: //output

			generateConfStr()

			var cf *os.File
			cf, err = os.OpenFile(defaultConfFn, os.O_WRONLY|os.O_CREATE, 0666)
			if err != nil {
				fmt.Println("Can't create "+defaultConfFn, err)
				return
			}
			cf.WriteString(confStr)
			cf.Close()

			fmt.Println("生成成功！请查看文件")
		case 4: //share url
			if len(conf.Dial) > 0 {

				fmt.Println("生成的分享链接如下：")

				for _, d := range conf.Dial {
					fmt.Println(config.GenerateXrayShareURL(d))
				}

			} else {
				fmt.Println("请先进行配置")

			}

		case 1: //interactively generate

			select0 := promptui.Select{
				Label: "【提醒】生成的配置都是 vless+ws+tls 的, 且【默认使用utls】模拟chrome指纹",
				Items: []string{"知道了"},
			}

			_, _, err := select0.Run()
			if err != nil {
				fmt.Printf("Prompt failed %v\n", err)
				return
			}

			conf.Dial = append(conf.Dial, &config.DialConf{})
			dc := conf.Dial[len(conf.Dial)-1]
			dc.Tag = "my_proxy"
			dc.Utls = true
			dc.Fingerprint = "chrome"

			var theInt int64

			validatePort := func(input string) error {
				theInt, err = strconv.ParseInt(input, 10, 64)
				if err != nil {
					return errors.New("Invalid number")
				}
				if theInt <= 0 || theInt > 65535 {
					return errors.New("Invalid number")
				}
				return nil
			}

			fmt.Printf("请输入你服务端监听的端口\n")

			promptPort := promptui.Prompt{
				Label:    "Port Number",
				Validate: validatePort,
			}

			result, err = promptPort.Run()

			if err != nil {
				fmt.Printf("Prompt failed %v\n", err)
				return
			}

			fmt.Printf("你输入了 %d\n", theInt)

			dc.Port = int(theInt)

			fmt.Printf("请输入你服务端的ip\n")

			promptIP := promptui.Prompt{
				Label:    "IP",
				Validate: utils.WrapFuncForPromptUI(govalidator.IsIP),
			}

			result, err = promptIP.Run()
			if err != nil {
				fmt.Println("Prompt failed ", err, result)
				return
			}

			fmt.Printf("你输入了 %s\n", result)

			dc.IP = result

			fmt.Printf("请输入你服务端的域名\n")

			promptDomain := promptui.Prompt{
				Label:    "域名",
				Validate: func(s string) error { return nil }, //允许不设域名
			}

			result, err = promptDomain.Run()
			if err != nil {
				fmt.Println("Prompt failed ", err, result)
				return
			}

			fmt.Printf("你输入了 %s\n", result)

			dc.Host = result

			select4 := promptui.Select{
				Label: "请选择ws path的生成方式",
				Items: []string{
					"随机",
					"手动输入(要以 / 开头)",
				},
			}
			i4, _, err := select4.Run()

			if err != nil {
				fmt.Println("Prompt failed ", err)
				return
			}
			if i4 == 0 {
				path := "/" + utils.GenerateRandomString()
				dc.Path = path
				fmt.Println("随机生成的path为", path)
			} else {
				promptPath := promptui.Prompt{
					Label: "Path",
					Validate: func(s string) error {
						if !strings.HasPrefix(s, "/") {
							return errors.New("ws path must start with /")
						}
						return nil
					},
				}

				result, err = promptPath.Run()
				if err != nil {
					fmt.Println("Prompt failed ", err, result)
					return
				}

				fmt.Printf("你输入了 %s\n", result)

				dc.Path = result
			}

			select5 := promptui.Select{
				Label: "请选择uuid生成方式",
				Items: []string{
					"随机",
					"手动输入(要保证你输入的是格式正确的uuid)",
				},
			}
			i5, _, err := select5.Run()

			if err != nil {
				fmt.Println("Prompt failed ", err)
				return
			}
			if i5 == 0 {
				uuid := utils.GenerateUUIDStr()
				dc.Uuid = uuid
				fmt.Println("随机生成的uuid为", uuid)
			} else {
				promptUUID := promptui.Prompt{
					Label:    "uuid",
					Validate: utils.WrapFuncForPromptUI(govalidator.IsUUID),
				}

				result, err = promptUUID.Run()
				if err != nil {
					fmt.Println("Prompt failed ", err, result)
					return
				}

				fmt.Printf("你输入了 %s\n", result)

				dc.Uuid = result
			}

			select6 := promptui.Select{
				Label: "请配置服务端的tls证书情况",
				Items: []string{
					"有正经证书(或由nginx等前置所持有)",
					"自签名证书,此时将自动开启 insecure",
				},
			}
			i6, _, err := select6.Run()

			if err != nil {
				fmt.Println("Prompt failed ", err)
				return
			}
			if i6 == 1 {
				dc.Insecure = true

				fmt.Printf("自签名证书是不安全的, 我们不推荐. 需要生成证书时可回到上一级选择相应选项。 \n")
			}

		} // switch i case 1
	} //for
}

func interactively_adjust_loglevel() {
	fmt.Println("当前日志等级为：", utils.LogLevelStr(utils.LogLevel))

	list := utils.LogLevelStrList()
	Select := promptui.Select{
		Label: "请选择你要调节到的loglevel",
		Items: list,
	}

	i, result, err := Select.Run()

	if err != nil {
		fmt.Printf("Prompt failed %v\n", err)
		return
	}

	fmt.Printf("你选择了 %s\n", result)

	if i < len(list) && i >= 0 {
		utils.LogLevel = i
		utils.InitLog()

		fmt.Printf("调节 日志等级完毕. 现在等级为\n")
		fmt.Printf(list[i])
		fmt.Printf("\n")

	}
}
