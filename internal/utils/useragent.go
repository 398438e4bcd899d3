package utils

import (
	"strings"

	ua "github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"
)

// DeviceInfo summarises a User-Agent string for login audit entries
type DeviceInfo struct {
	DeviceType string
	OS         string
	Browser    string
	IsBot      bool
}

var tabletMarkers = []string{"ipad", "tablet", "kindle", "sm-t", "nexus 7", "nexus 9", "nexus 10"}

// ParseUserAgent extracts device type, OS and browser from a User-Agent string
func ParseUserAgent(userAgent string) DeviceInfo {
	if userAgent == "" || userAgent == "Unknown" {
		return DeviceInfo{DeviceType: "unknown", OS: "Unknown", Browser: "Unknown"}
	}

	parser := ua.New(userAgent)
	info := DeviceInfo{
		DeviceType: "desktop",
		OS:         "Unknown",
		Browser:    "Unknown",
		IsBot:      parser.Bot(),
	}

	if parser.Mobile() {
		info.DeviceType = "mobile"
		lower := strings.ToLower(userAgent)
		for _, marker := range tabletMarkers {
			if strings.Contains(lower, marker) {
				info.DeviceType = "tablet"
				break
			}
		}
	}

	if os := parser.OSInfo(); os.Name != "" {
		info.OS = strings.TrimSpace(os.Name + " " + os.Version)
	}
	if name, version := parser.Browser(); name != "" {
		info.Browser = strings.TrimSpace(name + " " + version)
	}

	return info
}

// Fields renders the device info as log fields
func (d DeviceInfo) Fields() logrus.Fields {
	return logrus.Fields{
		"device_type": d.DeviceType,
		"os":          d.OS,
		"browser":     d.Browser,
		"is_bot":      d.IsBot,
	}
}
