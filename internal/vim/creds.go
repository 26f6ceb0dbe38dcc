package vim

import (
	"path"
	"strings"
)

// CredentialSource resolves the credentials to use for an endpoint.
type CredentialSource interface {
	Resolve(endpoint string) Credentials
}

// Override binds alternate credentials to endpoints whose identifier matches
// a pattern. Match is a glob ("*.dmz.example.com") or a plain substring.
type Override struct {
	Match    string
	Username string
	Password string
}

type staticSource struct {
	def       Credentials
	overrides []Override
}

// NewCredentialSource returns a source that answers with the first matching
// override, falling back to the default credentials.
func NewCredentialSource(def Credentials, overrides []Override) CredentialSource {
	return &staticSource{def: def, overrides: overrides}
}

func (s *staticSource) Resolve(endpoint string) Credentials {
	lower := strings.ToLower(endpoint)
	for _, o := range s.overrides {
		if matches(strings.ToLower(o.Match), lower) {
			return Credentials{Username: o.Username, Password: o.Password}
		}
	}
	return s.def
}

func matches(pattern, endpoint string) bool {
	if pattern == "" {
		return false
	}
	if ok, err := path.Match(pattern, endpoint); err == nil && ok {
		return true
	}
	return strings.Contains(endpoint, pattern)
}
