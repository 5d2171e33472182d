package netLayer

import (
	"errors"
	"math/rand"
	"net"
	"runtime"
	"strconv"
	"strings"

	"github.com/e1732a364fed/vless_simple/utils"
)

// Atyp, for vless and vmess; 注意与 trojan和socks5的区别，trojan和socks5的相同含义的值是1，3，4
const (
	AtypIP4    byte = 1
	AtypDomain byte = 2
	AtypIP6    byte = 3
)

// Addr represents an address that you want to access by proxy. Either Name or IP is used exclusively.
// Addr完整地表示了一个 传输层的目标，同时用 Network 字段 来记录网络层协议名
type Addr struct {
	Network string
	Name    string // domain name
	IP      net.IP
	Port    int
}

var (
	randPortBase int = 60000
)

func init() {
	if runtime.GOOS == "windows" {
		randPortBase = 45000 //windows在测试中发现高于五万的端口经常被占用
	}
}

//if mustValid is true, a valid tcp port is assured.
// depth 填0 即可，用于递归。
func RandPort(mustValid bool, depth int) (p int) {
	p = rand.Intn(randPortBase) + 4096
	if !mustValid {
		return
	}

	listener, err := net.ListenTCP("tcp", &net.TCPAddr{
		IP:   net.IPv4(0, 0, 0, 0),
		Port: p,
	})

	if listener != nil {
		listener.Close()
	}
	if err != nil {
		if depth < 20 {
			return RandPort(mustValid, depth+1)
		}
		if ce := utils.CanLogDebug("Get RandPort got err, and depth reach limit, return directly"); ce != nil {
			ce.Write()
		}
	}
	return
}

func RandPortStr(mustValid bool) string {
	return strconv.Itoa(RandPort(mustValid, 0))
}

func GetRandLocalAddr(mustValid bool) string {
	return "0.0.0.0:" + RandPortStr(mustValid)
}

func GetRandLocalPrivateAddr(mustValid bool) string {
	return "127.0.0.1:" + RandPortStr(mustValid)
}

//addrStr格式一般为 host:port ；如果不含冒号，将直接认为该字符串是域名
func NewAddr(addrStr string) (Addr, error) {
	if !strings.Contains(addrStr, ":") {
		return Addr{Name: addrStr}, nil
	}

	return NewAddrByHostPort(addrStr)
}

//hostPortStr格式 必须为 host:port，本函数不对此检查
func NewAddrByHostPort(hostPortStr string) (Addr, error) {
	host, portStr, err := net.SplitHostPort(hostPortStr)
	if err != nil {
		return Addr{}, err
	}
	if host == "" {
		host = "127.0.0.1"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return Addr{}, err
	}

	a := Addr{Port: port}
	if ip := net.ParseIP(host); ip != nil {
		a.IP = ip
	} else {
		a.Name = host
	}
	return a, nil
}

func (a *Addr) String() string {
	port := strconv.Itoa(a.Port)
	if a.IP == nil {
		return net.JoinHostPort(a.Name, port)
	}
	return net.JoinHostPort(a.IP.String(), port)
}

// Returned host string
func (a *Addr) HostStr() string {
	if a.IP == nil {
		return a.Name
	}
	return a.IP.String()
}

func (a *Addr) IsEmpty() bool {
	return a.Name == "" && len(a.IP) == 0 && a.Network == "" && a.Port == 0
}

// 如果a的ip不为空，则会返回 AtypIP4 或 AtypIP6, 否则会返回 AtypDomain
// Return address bytes and type
// 如果atyp类型是 域名，则 第一字节为该域名的总长度, 其余字节为域名内容。
// 如果类型是ip，则会拷贝出该ip的数据的副本。
func (a *Addr) AddressBytes() (addr []byte, atyp byte) {

	if a.IP != nil {
		if ip4 := a.IP.To4(); ip4 != nil {
			addr = make([]byte, net.IPv4len)
			atyp = AtypIP4
			copy(addr[:], ip4)
		} else {
			addr = make([]byte, net.IPv6len)
			atyp = AtypIP6
			copy(addr[:], a.IP)
		}
	} else {
		if len(a.Name) > 255 {
			return nil, 0
		}
		addr = make([]byte, 1+len(a.Name))
		atyp = AtypDomain
		addr[0] = byte(len(a.Name))
		copy(addr[1:], a.Name)
	}

	return
}

//依照 vmess/vless 协议的格式 依次读取 地址的 port, 域名/ip 信息
func V2rayGetAddrFrom(buf utils.ByteReader) (addr Addr, err error) {

	pb1, err := buf.ReadByte()
	if err != nil {
		return
	}

	pb2, err := buf.ReadByte()
	if err != nil {
		return
	}

	port := uint16(pb1)<<8 + uint16(pb2)
	if port == 0 {
		err = utils.ErrInvalidData
		return
	}
	addr.Port = int(port)

	var b1 byte

	b1, err = buf.ReadByte()
	if err != nil {
		return
	}

	switch b1 {
	case AtypDomain:
		var b2 byte
		b2, err = buf.ReadByte()
		if err != nil {
			return
		}

		if b2 == 0 {
			err = errors.New("got AtypDomain with domain length marked as 0")
			return
		}

		bs := utils.GetBytes(int(b2))
		var n int
		n, err = buf.Read(bs)
		if err != nil {
			return
		}

		if n != int(b2) {
			err = utils.ErrShortRead
			return
		}
		addr.Name = string(bs[:n])

	case AtypIP4:
		bs := make([]byte, net.IPv4len)
		var n int
		n, err = buf.Read(bs)

		if err != nil {
			return
		}
		if n != net.IPv4len {
			err = utils.ErrShortRead
			return
		}
		addr.IP = bs
	case AtypIP6:
		bs := make([]byte, net.IPv6len)
		var n int
		n, err = buf.Read(bs)
		if err != nil {
			return
		}
		if n != net.IPv6len {
			err = utils.ErrShortRead
			return
		}
		addr.IP = bs
	default:
		err = utils.ErrInvalidData
		return
	}

	return
}
