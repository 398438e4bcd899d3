package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

var privateBlocks = func() []*net.IPNet {
	var blocks []*net.IPNet
	for _, cidr := range []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16", "fc00::/7"} {
		_, block, _ := net.ParseCIDR(cidr)
		blocks = append(blocks, block)
	}
	return blocks
}()

// ClientIP returns the caller's address for rate limiting and audit logs.
// X-Real-IP wins when it is public; otherwise the first public hop of
// X-Forwarded-For, falling back to gin's own resolution.
func ClientIP(c *gin.Context) string {
	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); isPublic(realIP) {
		return realIP
	}

	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		for _, hop := range strings.Split(forwarded, ",") {
			if ip := strings.TrimSpace(hop); isPublic(ip) {
				return ip
			}
		}
	}

	return c.ClientIP()
}

// UserAgent returns the request's User-Agent or "Unknown"
func UserAgent(c *gin.Context) string {
	if ua := c.Request.UserAgent(); ua != "" {
		return ua
	}
	return "Unknown"
}

func isPublic(s string) bool {
	ip := net.ParseIP(s)
	if ip == nil || ip.IsLoopback() {
		return false
	}
	for _, block := range privateBlocks {
		if block.Contains(ip) {
			return false
		}
	}
	return true
}
