package validators

import (
	"net"
	"net/mail"
	"strings"
)

// IsValidAddress checks the syntactic shape of an email address. Used on
// every booking path; empty addresses are handled by the caller.
func IsValidAddress(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}

// IsEmailDomainValid resolves the address domain. Only used at operator
// registration, where a DNS round trip is acceptable.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
