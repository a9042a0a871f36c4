package parser

import (
	"strings"

	"wifimon/internal/domain"
)

// CredentialParser interprets the stdout of
// `security find-generic-password -D "AirPort network password" -a <network> -w`
// for one network.
//
// adapter.Keychain uses Secret. No scan source is registered with this parser;
// each lookup may raise a keychain prompt.
type CredentialParser struct {
	id domain.NetworkID
}

// NewCredentialParser creates a parser for the lookup of id
func NewCredentialParser(id domain.NetworkID) *CredentialParser {
	return &CredentialParser{id: id}
}

// Source returns domain.SourceCredential
func (p *CredentialParser) Source() domain.SourceTag {
	return domain.SourceCredential
}

// Parse reports the network as saved when a password is present. The password
// itself never appears in a record.
func (p *CredentialParser) Parse(raw string) Parsed {
	if _, ok := p.Secret(raw); !ok {
		return Parsed{}
	}
	return Parsed{Records: []domain.PartialNetworkRecord{{
		ID:     p.id,
		Source: domain.SourceCredential,
		Saved:  domain.Ptr(true),
	}}}
}

// Secret extracts the password. It returns false when the output holds none,
// which callers treat as "not found" rather than an error.
func (p *CredentialParser) Secret(raw string) (domain.Secret, bool) {
	// -w prints the password followed by a newline; surrounding spaces are part of it
	value := strings.TrimRight(raw, "\r\n")
	if value == "" {
		return domain.Secret{}, false
	}
	return domain.NewSecret(p.id, value), true
}
