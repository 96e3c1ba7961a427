package wallet

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

func IsValidAddress(address string) bool {
	return addressPattern.MatchString(address)
}

// NormalizeAddress returns the canonical lowercase form used as a store key.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// ChallengeMessage is the text a wallet signs to prove control of address.
func ChallengeMessage(address string, at time.Time) string {
	return fmt.Sprintf("Sign in to BUILDRS with your wallet: %s\nTimestamp: %d", address, at.UnixMilli())
}

// FormatAddress shortens an address to 0x1234...abcd for display.
func FormatAddress(address string) string {
	if len(address) < 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

// AddressSuffix is the last six characters of an address, used for default usernames.
func AddressSuffix(address string) string {
	if len(address) <= 6 {
		return address
	}
	return address[len(address)-6:]
}
