// Package adapter binds the OS utilities wifimon reads to their parsers.
//
// # Sources
//
// A Source names one data channel (scan list, connection status, preferred
// networks), builds the command that queries it for a WiFi interface and supplies
// the parser for its output. CommandSource is the only implementation; the
// constructors below wire the macOS utilities:
//
//	NewScanListSource    airport -s
//	NewConnectionSource  airport -I, falling back to networksetup -getairportnetwork <device>
//	NewPreferredSource   networksetup -listpreferredwirelessnetworks <device>
//
// A FallbackSource's second command runs when the first cannot be launched or
// exits with an error; timeouts and cancellations are not retried.
//
// # Registry
//
// Registry holds the configured sources and collects from every enabled one
// concurrently. Each source runs under its own timeout; a failing, timed out or
// canceled source is reported in its Outcome and never affects the others.
//
// # On-demand lookups
//
// Keychain reads stored network passwords through the security utility.
// DetectInterface and GatewayLookup read the WiFi device name and the default
// gateway. LookupRouter adds common router addresses when no default route
// exists, and InterfaceInfo reports the IP configuration of the WiFi port.
package adapter
