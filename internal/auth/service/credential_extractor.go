package service

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/allisson/gatekeeper/internal/auth/domain"
)

// ExtractorConfig holds the well-known values recognized by the extractor.
type ExtractorConfig struct {
	// ClientUsername marks a basic-auth password as a token.
	ClientUsername string
	// OAuthPlaceholder marks a basic-auth username as a token.
	OAuthPlaceholder string
	// AccessTokenParam is the query parameter consulted when no header scheme matched.
	AccessTokenParam string
}

type credentialExtractor struct {
	clientUsername   string
	oauthPlaceholder string
	accessTokenParam string
}

// NewCredentialExtractor creates a CredentialExtractor. Empty config values fall
// back to "client", "x-oauth-basic" and "access_token".
func NewCredentialExtractor(cfg ExtractorConfig) CredentialExtractor {
	if cfg.ClientUsername == "" {
		cfg.ClientUsername = "client"
	}
	if cfg.OAuthPlaceholder == "" {
		cfg.OAuthPlaceholder = "x-oauth-basic"
	}
	if cfg.AccessTokenParam == "" {
		cfg.AccessTokenParam = "access_token"
	}
	return &credentialExtractor{
		clientUsername:   strings.ToLower(cfg.ClientUsername),
		oauthPlaceholder: strings.ToLower(cfg.OAuthPlaceholder),
		accessTokenParam: cfg.AccessTokenParam,
	}
}

// Extract applies the precedence bearer/token header, basic header, query parameter.
// A recognized header scheme is terminal: a bad value there never falls through
// to the query string.
func (e *credentialExtractor) Extract(r *http.Request) domain.Candidate {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, parameter, _ := strings.Cut(header, " ")

		switch strings.ToLower(scheme) {
		case "bearer":
			return tokenCandidate(parameter, domain.SourceHeaderBearer)
		case "token":
			return tokenCandidate(parameter, domain.SourceHeaderToken)
		case "basic":
			return e.fromBasic(parameter)
		}
	}

	return tokenCandidate(r.URL.Query().Get(e.accessTokenParam), domain.SourceQuery)
}

func (e *credentialExtractor) fromBasic(parameter string) domain.Candidate {
	decoded, err := base64.StdEncoding.DecodeString(parameter)
	if err != nil {
		return domain.NoCandidate
	}

	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return domain.NoCandidate
	}

	if strings.ToLower(username) == e.clientUsername {
		return tokenCandidate(password, domain.SourceHeaderBasic)
	}

	if password == "" || strings.ToLower(password) == e.oauthPlaceholder {
		return tokenCandidate(username, domain.SourceHeaderBasic)
	}

	return domain.Candidate{
		Scheme:    domain.SchemeBasic,
		Source:    domain.SourceHeaderBasic,
		Primary:   username,
		Secondary: password,
	}
}

func tokenCandidate(token string, source domain.Source) domain.Candidate {
	if token == "" {
		return domain.NoCandidate
	}
	return domain.Candidate{
		Scheme:  domain.SchemeToken,
		Source:  source,
		Primary: token,
	}
}
