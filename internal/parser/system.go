package parser

import (
	"net"
	"strings"
)

// HardwarePort is one entry of `networksetup -listallhardwareports`
type HardwarePort struct {
	Name    string `json:"name"`
	Device  string `json:"device"`
	Address string `json:"address,omitempty"`
}

// ParseHardwarePorts parses the blocks printed by `networksetup -listallhardwareports`
func ParseHardwarePorts(raw string) []HardwarePort {
	var ports []HardwarePort
	var cur *HardwarePort

	for _, line := range strings.Split(raw, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Hardware Port":
			ports = append(ports, HardwarePort{Name: value})
			cur = &ports[len(ports)-1]
		case "Device":
			if cur != nil {
				cur.Device = value
			}
		case "Ethernet Address":
			if cur != nil {
				cur.Address = value
			}
		}
	}
	return ports
}

// WiFiDevice returns the device name of the first WiFi hardware port
func WiFiDevice(ports []HardwarePort) (string, bool) {
	for _, p := range ports {
		name := strings.ToLower(p.Name)
		if (strings.Contains(name, "wi-fi") || strings.Contains(name, "airport")) && p.Device != "" {
			return p.Device, true
		}
	}
	return "", false
}

// ParseDefaultGateway returns the first IPv4 default route from `netstat -nr`
func ParseDefaultGateway(raw string) (string, bool) {
	for _, line := range strings.Split(raw, "\n") {
		f := strings.Fields(line)
		if len(f) < 2 || f[0] != "default" {
			continue
		}
		if ip := net.ParseIP(f[1]); ip != nil && ip.To4() != nil {
			return ip.String(), true
		}
	}
	return "", false
}

// InterfaceInfo is the IP configuration printed by `networksetup -getinfo <service>`.
// Values networksetup reports as "none" are left empty.
type InterfaceInfo struct {
	Configuration string `json:"configuration,omitempty"`
	IPAddress     string `json:"ip_address,omitempty"`
	SubnetMask    string `json:"subnet_mask,omitempty"`
	Router        string `json:"router,omitempty"`
	ClientID      string `json:"client_id,omitempty"`
	IPv6          string `json:"ipv6,omitempty"`
	IPv6Address   string `json:"ipv6_address,omitempty"`
	IPv6Router    string `json:"ipv6_router,omitempty"`
	WiFiID        string `json:"wifi_id,omitempty"`
}

// ParseInterfaceInfo parses `networksetup -getinfo`. Unknown keys are ignored.
func ParseInterfaceInfo(raw string) InterfaceInfo {
	var info InterfaceInfo
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			// the first line names the configuration method, e.g. "DHCP Configuration"
			if info.Configuration == "" && strings.HasSuffix(line, "Configuration") {
				info.Configuration = strings.TrimSpace(strings.TrimSuffix(line, "Configuration"))
			}
			continue
		}
		value = strings.TrimSpace(value)
		if strings.EqualFold(value, "none") {
			value = ""
		}
		switch strings.TrimSpace(key) {
		case "IP address":
			info.IPAddress = value
		case "Subnet mask":
			info.SubnetMask = value
		case "Router":
			info.Router = value
		case "Client ID":
			info.ClientID = value
		case "IPv6":
			info.IPv6 = value
		case "IPv6 IP address":
			info.IPv6Address = value
		case "IPv6 Router":
			info.IPv6Router = value
		case "Wi-Fi ID":
			info.WiFiID = strings.ToLower(value)
		}
	}
	return info
}
