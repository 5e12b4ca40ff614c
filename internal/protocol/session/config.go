package session

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/danmuck/rgbctl/internal/protocol"
)

var ErrAddressRequired = errors.New("session: address required")

// Config defines transport defaults for one session.
//
// Zero timeouts mean no deadline: sources stream at their own pace and the
// session waits indefinitely unless shut down.
type Config struct {
	Port           int
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

func DefaultConfig() Config {
	return Config{
		Port: protocol.DefaultPort,
	}
}

func (c Config) WithDefaults() Config {
	if c.Port <= 0 || c.Port > 65535 {
		c.Port = protocol.DefaultPort
	}
	if c.ConnectTimeout < 0 {
		c.ConnectTimeout = 0
	}
	if c.ReadTimeout < 0 {
		c.ReadTimeout = 0
	}
	return c
}

// ResolveAddress returns host:port for address, adding port when address is a
// bare host.
func ResolveAddress(address string, port int) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", ErrAddressRequired
	}
	if _, _, err := net.SplitHostPort(address); err == nil {
		return address, nil
	}
	host := strings.TrimSuffix(strings.TrimPrefix(address, "["), "]")
	if host == "" {
		return "", fmt.Errorf("%w: %q", ErrAddressRequired, address)
	}
	return net.JoinHostPort(host, strconv.Itoa(port)), nil
}
