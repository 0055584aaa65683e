package config

import "os"

// EnvScreenerSessionID overrides the Screener.in login cookie.
const EnvScreenerSessionID = EnvPrefix + "_SCREENER_SESSION_ID"

// CredentialSource represents where a credential comes from.
type CredentialSource string

const (
	SourceEnv    CredentialSource = "env"
	SourceConfig CredentialSource = "config"
	SourceNone   CredentialSource = "none"
)

// CredentialStatus represents the status of a credential.
type CredentialStatus struct {
	Name   string           `json:"name"`
	Source CredentialSource `json:"source"`
	IsSet  bool             `json:"is_set"`
	Masked string           `json:"masked,omitempty"` // e.g., "abc...xyz"
}

// CheckCredentials returns the status of every optional credential.
func CheckCredentials(cfg *Config) []CredentialStatus {
	return []CredentialStatus{
		checkCredential("Screener session", cfg.Screener.SessionID, EnvScreenerSessionID),
	}
}

// checkCredential checks if a value is set and where it came from.
func checkCredential(name, value, envVar string) CredentialStatus {
	status := CredentialStatus{
		Name:   name,
		IsSet:  value != "",
		Source: SourceNone,
	}
	if value == "" {
		return status
	}
	status.Source = SourceConfig
	if os.Getenv(envVar) != "" {
		status.Source = SourceEnv
	}
	status.Masked = mask(value)
	return status
}

// mask hides a secret for display, showing only the first and last 3 chars.
func mask(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:3] + "..." + s[len(s)-3:]
}
