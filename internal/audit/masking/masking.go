package masking

import "strings"

const maskToken = "****"

// sensitiveKeys are metadata keys whose values carry customer PII.
var sensitiveKeys = map[string]func(string) string{
	"email":        MaskEmail,
	"phone_number": MaskPhone,
	"address":      MaskSecret,
	"password":     func(string) string { return maskToken },
}

// MaskSecret redacts a value while keeping the last four characters.
func MaskSecret(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) <= 4 {
		return maskToken
	}
	return maskToken + trimmed[len(trimmed)-4:]
}

// MaskEmail keeps the first character of the local part and the domain.
func MaskEmail(value string) string {
	trimmed := strings.TrimSpace(value)
	at := strings.LastIndex(trimmed, "@")
	if at <= 0 {
		return MaskSecret(trimmed)
	}
	return trimmed[:1] + maskToken + trimmed[at:]
}

func MaskPhone(value string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)
	return MaskSecret(digits)
}

// MaskMetadata returns a copy of input with sensitive keys redacted.
func MaskMetadata(input map[string]any) map[string]any {
	if len(input) == 0 {
		return nil
	}

	masked := make(map[string]any, len(input))
	for key, value := range input {
		trimmedKey := strings.TrimSpace(key)
		if trimmedKey == "" {
			continue
		}
		masked[trimmedKey] = maskValue(trimmedKey, value)
	}

	if len(masked) == 0 {
		return nil
	}
	return masked
}

func maskValue(key string, value any) any {
	switch cast := value.(type) {
	case string:
		if mask, ok := sensitiveKeys[strings.ToLower(key)]; ok {
			return mask(cast)
		}
		return cast
	case map[string]any:
		return MaskMetadata(cast)
	default:
		return value
	}
}
