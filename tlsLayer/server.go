package tlsLayer

import (
	"crypto/tls"
	"net"
)

// Server 只用于 go test 和本地模拟中继, 完整的服务端不是本作要做的事.
type Server struct {
	tlsConfig *tls.Config
}

// certFile, keyFile 可都为空, 此时使用随机生成的证书.
func NewServer(certFile, keyFile string) (*Server, error) {
	certArray, err := GetCertArrayFromFile(certFile, keyFile)
	if err != nil {
		return nil, err
	}

	return &Server{
		tlsConfig: &tls.Config{
			Certificates: certArray,
		},
	}, nil
}

func (s *Server) Handshake(underlay net.Conn) (net.Conn, error) {
	c := tls.Server(underlay, s.tlsConfig)
	if err := c.Handshake(); err != nil {
		return nil, err
	}
	return c, nil
}
