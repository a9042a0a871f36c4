package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wifimon/internal/domain"
	"wifimon/internal/parser"
	"wifimon/internal/runner"
)

const systemLookupTimeout = 5 * time.Second

var (
	// ErrNoWiFiInterface is returned when no hardware port is a WiFi device
	ErrNoWiFiInterface = errors.New("no wi-fi hardware port found")
	// ErrNoGateway is returned when the routing table has no IPv4 default route
	ErrNoGateway = errors.New("no default gateway")
)

// DetectInterface returns the device name of the WiFi hardware port, e.g. en0
func DetectInterface(ctx context.Context, run runner.Runner) (string, error) {
	out, err := runChecked(ctx, run, runner.Command{
		Name:    networkSetupPath,
		Args:    []string{"-listallhardwareports"},
		Timeout: systemLookupTimeout,
	})
	if err != nil {
		return "", fmt.Errorf("detect wi-fi interface: %w", err)
	}

	device, ok := parser.WiFiDevice(parser.ParseHardwarePorts(out))
	if !ok {
		return "", ErrNoWiFiInterface
	}
	return device, nil
}

// GatewayLookup returns the IPv4 default gateway, the address of the router's
// administration page on most home networks
func GatewayLookup(ctx context.Context, run runner.Runner) (string, error) {
	out, err := runChecked(ctx, run, runner.Command{
		Name:    "netstat",
		Args:    []string{"-nr", "-f", "inet"},
		Timeout: systemLookupTimeout,
	})
	if err != nil {
		return "", fmt.Errorf("read routing table: %w", err)
	}

	gw, ok := parser.ParseDefaultGateway(out)
	if !ok {
		return "", ErrNoGateway
	}
	return gw, nil
}

// CommonRouterAddresses are the factory defaults of consumer routers, tried when
// the routing table names no gateway
var CommonRouterAddresses = []string{"192.168.1.1", "192.168.0.1", "10.0.0.1"}

// RouterInfo lists where the router's administration page is likely served
type RouterInfo struct {
	// Gateway is the default route, empty when none was found
	Gateway string `json:"gateway,omitempty"`
	// Candidates holds the gateway first, then CommonRouterAddresses
	Candidates  []string `json:"candidates"`
	LookupError string   `json:"lookup_error,omitempty"`
}

// LookupRouter resolves the gateway and falls back to CommonRouterAddresses.
// Only cancellation of ctx is returned as an error; a failed lookup is
// reported in LookupError.
func LookupRouter(ctx context.Context, run runner.Runner) (RouterInfo, error) {
	gw, err := GatewayLookup(ctx, run)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return RouterInfo{}, ctxErr
	}

	info := RouterInfo{Gateway: gw}
	if gw != "" {
		info.Candidates = append(info.Candidates, gw)
	}
	if err != nil && !errors.Is(err, ErrNoGateway) {
		info.LookupError = err.Error()
	}
	for _, addr := range CommonRouterAddresses {
		if addr != gw {
			info.Candidates = append(info.Candidates, addr)
		}
	}
	return info, nil
}

// InterfaceReport describes the WiFi hardware port and its IP configuration
type InterfaceReport struct {
	Device string               `json:"device"`
	Port   string               `json:"port"`
	MAC    string               `json:"mac,omitempty"`
	Info   parser.InterfaceInfo `json:"info"`
	// Ports is every hardware port of the machine
	Ports []parser.HardwarePort `json:"hardware_ports"`
}

// InterfaceInfo reports the configuration of device. An empty device selects
// the first WiFi hardware port.
func InterfaceInfo(ctx context.Context, run runner.Runner, device string) (InterfaceReport, error) {
	out, err := runChecked(ctx, run, runner.Command{
		Name:    networkSetupPath,
		Args:    []string{"-listallhardwareports"},
		Timeout: systemLookupTimeout,
	})
	if err != nil {
		return InterfaceReport{}, fmt.Errorf("list hardware ports: %w", err)
	}

	ports := parser.ParseHardwarePorts(out)
	if device == "" {
		var ok bool
		if device, ok = parser.WiFiDevice(ports); !ok {
			return InterfaceReport{}, ErrNoWiFiInterface
		}
	}

	report := InterfaceReport{Device: device, Ports: ports}
	for _, p := range ports {
		if p.Device == device {
			report.Port = p.Name
			report.MAC = p.Address
			break
		}
	}
	if report.Port == "" {
		return InterfaceReport{}, fmt.Errorf("%w: no hardware port for device %s", ErrNoWiFiInterface, device)
	}

	// -getinfo takes the network service name, which defaults to the port name
	out, err = runChecked(ctx, run, runner.Command{
		Name:    networkSetupPath,
		Args:    []string{"-getinfo", report.Port},
		Timeout: systemLookupTimeout,
	})
	if err != nil {
		return InterfaceReport{}, fmt.Errorf("get %s info: %w", report.Port, err)
	}
	report.Info = parser.ParseInterfaceInfo(out)

	return report, nil
}

func runChecked(ctx context.Context, run runner.Runner, cmd runner.Command) (string, error) {
	res, err := run.Run(ctx, cmd)
	if err != nil {
		return "", err
	}
	if !res.Success() {
		return "", &domain.ExitError{Command: cmd.String(), Code: res.ExitCode, Stderr: strings.TrimSpace(res.Stderr)}
	}
	return res.Stdout, nil
}
