package middleware

import (
	"fmt"
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// ActorHeader carries the caller identity set by the upstream gateway.
// Authentication happens there; this service only uses the value for keying.
const ActorHeader = "X-Actor-ID"

// actorKey is the gin context key holding a gateway-vouched actor id.
const actorKey = "actor"

// ParseCIDRs parses gateway networks. A bare IP is taken as a single host.
func ParseCIDRs(list []string) ([]*net.IPNet, error) {
	var out []*net.IPNet
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !strings.Contains(s, "/") {
			ip := net.ParseIP(s)
			if ip == nil {
				return nil, fmt.Errorf("invalid gateway address %q", s)
			}
			bits := 32
			if ip.To4() == nil {
				bits = 128
			}
			out = append(out, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(s)
		if err != nil {
			return nil, fmt.Errorf("invalid gateway network %q: %w", s, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// TrustedActor stores ActorHeader in the context for requests whose direct
// peer is one of the gateways. From any other peer the header is ignored.
func TrustedActor(gateways []*net.IPNet) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor := c.GetHeader(ActorHeader); actor != "" && fromGateway(c.RemoteIP(), gateways) {
			c.Set(actorKey, actor)
		}
		c.Next()
	}
}

func fromGateway(remote string, gateways []*net.IPNet) bool {
	ip := net.ParseIP(remote)
	if ip == nil {
		return false
	}
	for _, n := range gateways {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// clientKey picks the limiter key: the actor id when TrustedActor accepted
// one, otherwise the client IP.
func clientKey(c *gin.Context) string {
	if actor := c.GetString(actorKey); actor != "" {
		return "actor:" + actor
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}
