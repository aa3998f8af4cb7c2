package extract

import (
	"net"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

var urlValidate = validator.New()

// youTubeDomains are the registrable domains accepted for video input.
var youTubeDomains = map[string]bool{
	"youtube.com": true,
	"youtu.be":    true,
}

// ValidateInputURL reports whether raw is an absolute http(s) URL whose host
// is a well-formed domain name (or IP address).
func ValidateInputURL(raw string) bool {
	_, ok := registrableDomain(raw)
	return ok
}

// ValidateYouTubeURL reports whether raw is a valid URL on a YouTube domain.
func ValidateYouTubeURL(raw string) bool {
	domain, ok := registrableDomain(raw)
	if !ok {
		return false
	}
	return youTubeDomains[domain]
}

// registrableDomain validates raw and returns its eTLD+1 (or the IP literal).
func registrableDomain(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if err := urlValidate.Var(raw, "required,http_url"); err != nil {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}

	host := u.Hostname()
	if ip := net.ParseIP(host); ip != nil {
		return ip.String(), true
	}

	ascii, err := idna.Lookup.ToASCII(strings.ToLower(host))
	if err != nil {
		return "", false
	}
	ascii = strings.TrimSuffix(ascii, ".")

	domain, err := publicsuffix.EffectiveTLDPlusOne(ascii)
	if err != nil {
		return "", false
	}
	return domain, true
}
