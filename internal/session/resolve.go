package session

import "github.com/matheus3301/ora/internal/config"

// DefaultSessionName is used when neither flag nor config names one.
const DefaultSessionName = "main"

// Resolve picks the active namespace: the --session flag, then the
// config's default_session (file or ORA_SESSION), then DefaultSessionName.
// An unreadable config file is ignored here; the namespace start reports it.
func Resolve(flagOverride string) string {
	cfg, _ := config.Resolve(ConfigPath())
	return ResolveWith(flagOverride, cfg)
}

// ResolveWith applies the same precedence to an already loaded config,
// which may be nil.
func ResolveWith(flagOverride string, cfg *config.Config) string {
	switch {
	case flagOverride != "":
		return flagOverride
	case cfg != nil && cfg.DefaultSession != "":
		return cfg.DefaultSession
	default:
		return DefaultSessionName
	}
}
