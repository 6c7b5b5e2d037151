package oauth

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	authParamRegex = regexp.MustCompile(`(\w+)="([^"]*)"`)

	// Typetalk only ever sends single-token values, so classification only
	// accepts word characters. Multi-word values stay available through
	// ParseWWWAuthenticate.
	bearerErrorRegex       = regexp.MustCompile(`error="(\w+)"`)
	bearerDescriptionRegex = regexp.MustCompile(`error_description="(\w+)"`)
)

// ParseWWWAuthenticate parses a WWW-Authenticate header value.
//
// Example headers:
//
//	Bearer realm="Typetalk"
//	Bearer error="invalid_token", error_description="expired"
//	Bearer realm="Typetalk", error="insufficient_scope", scope="topic.post"
func ParseWWWAuthenticate(header string) (*AuthChallenge, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil, fmt.Errorf("empty WWW-Authenticate header")
	}

	// Split into scheme and parameters
	scheme, rest, _ := strings.Cut(header, " ")
	challenge := &AuthChallenge{
		Scheme: scheme,
	}

	params := parseAuthParams(rest)
	challenge.Realm = params["realm"]
	challenge.Scope = params["scope"]
	challenge.Error = params["error"]
	challenge.ErrorDescription = params["error_description"]

	return challenge, nil
}

// parseAuthParams parses the parameter portion of a WWW-Authenticate header.
// Parameters are in the format: key1="value1", key2="value2"
func parseAuthParams(paramStr string) map[string]string {
	params := make(map[string]string)

	for _, match := range authParamRegex.FindAllStringSubmatch(paramStr, -1) {
		params[strings.ToLower(match[1])] = match[2]
	}

	return params
}

// ClassifyBearerError extracts the error code and description from a
// WWW-Authenticate header. A value is only recognised when it consists of
// word characters; otherwise the corresponding result is empty.
func ClassifyBearerError(header string) (code, description string) {
	if m := bearerErrorRegex.FindStringSubmatch(header); m != nil {
		code = m[1]
	}
	if m := bearerDescriptionRegex.FindStringSubmatch(header); m != nil {
		description = m[1]
	}
	return code, description
}
