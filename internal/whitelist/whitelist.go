package whitelist

import (
	"strings"

	"go.uber.org/zap"
)

// Checker restricts outreach mail to a set of recipient domains
type Checker struct {
	domains map[string]struct{}
	logger  *zap.Logger
}

// NewChecker creates a new whitelist checker. An empty domain list allows every recipient.
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	normalized := make(map[string]struct{}, len(domains))
	for _, domain := range domains {
		domain = strings.ToLower(strings.TrimSpace(domain))
		domain = strings.TrimPrefix(domain, "@")
		if domain != "" {
			normalized[domain] = struct{}{}
		}
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized recipient whitelist", zap.Int("domains", len(normalized)))
	}

	return &Checker{
		domains: normalized,
		logger:  logger,
	}
}

// IsWhitelisted checks if the recipient's domain may receive outreach mail
func (c *Checker) IsWhitelisted(address string) bool {
	if len(c.domains) == 0 {
		return true
	}

	at := strings.LastIndex(address, "@")
	if at <= 0 || at == len(address)-1 {
		return false
	}
	domain := strings.ToLower(strings.TrimSpace(address[at+1:]))

	if _, ok := c.domains[domain]; ok {
		return true
	}

	if c.logger != nil {
		c.logger.Debug("Recipient domain is not whitelisted",
			zap.String("domain", domain),
			zap.String("email", address))
	}
	return false
}
