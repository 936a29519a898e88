package reveal

import "strings"

// VerifyUnlock checks an unlock attempt against the configured rule.
// Comparison is trimmed and case-insensitive for both password and
// question/answer rules. The gate is stateless; retry limits and UI
// feedback belong to the caller.
func VerifyUnlock(cfg UnlockConfig, input string) bool {
	switch cfg.Type {
	case UnlockPassword:
		return normalize(input) == normalize(cfg.Password)
	case UnlockQuestion:
		return normalize(input) == normalize(cfg.Answer)
	default:
		// No rule configured, nothing to verify.
		return true
	}
}

// Locked reports whether a fresh session starts behind the gate.
func (c UnlockConfig) Locked() bool {
	return c.Type == UnlockPassword || c.Type == UnlockQuestion
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
