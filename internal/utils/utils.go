package utils

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail aplica a normalização canônica usada como chave de contact
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// SanitizeString corta espaços e limita o tamanho de entradas vindas do snippet
func SanitizeString(input string) string {
	const maxLength = 500
	s := strings.TrimSpace(input)
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	return s
}

var botPatterns = []string{
	"bot",
	"crawler",
	"spider",
	"scraper",
	"headless",
	"phantom",
	"selenium",
	"puppeteer",
	"lighthouse",
	"pagespeed",
	"gtmetrix",
}

// IsBot filtra user agents de crawlers e ferramentas de auditoria
func IsBot(userAgent string) bool {
	if userAgent == "" {
		return false
	}
	ua := strings.ToLower(userAgent)
	for _, pattern := range botPatterns {
		if strings.Contains(ua, pattern) {
			return true
		}
	}
	return false
}

// GetClientIP extrai o IP real dos headers de proxy, em ordem de prioridade
func GetClientIP(header func(string) string) string {
	if forwarded := header("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := header("X-Real-Ip"); realIP != "" {
		return realIP
	}
	return header("Cf-Connecting-Ip")
}
