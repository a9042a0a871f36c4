// Package handler implements the HTTP API of the wifimon daemon.
//
// # Endpoints
//
//	GET  /api/networks                  networks of the latest scan
//	GET  /api/networks/{id}             one network with field provenance
//	GET  /api/networks/{id}/credential  stored password (audited)
//	GET  /api/network?id=               same as /api/networks/{id}
//	GET  /api/credential?id=            same as /api/networks/{id}/credential
//	GET  /api/scan                      latest scan with failures and warnings
//	POST /api/scan                      start a scan; ?wait=true blocks until done
//	GET  /api/gateway                   default gateway and common router addresses
//	GET  /api/interface                 WiFi hardware port and IP configuration
//	GET  /api/history                   stored scan summaries
//	GET  /api/history/credentials       credential access audit trail
//	GET  /events                        Server-Sent Events stream
//
// SSIDs may contain "/", which the {id} segment cannot carry; the query forms
// accept any name.
//
// # Response Format
//
// Success responses return JSON data with appropriate status codes (200, 202).
// Error responses return JSON with {error, details} structure; unknown networks
// and missing credentials map to 404.
//
// # Middleware
//
// Chain composes Recover and Logger around the mux.
package handler
