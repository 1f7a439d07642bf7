package service

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/allisson/gatekeeper/internal/auth/domain"
)

func basicHeader(userPass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(userPass))
}

func TestCredentialExtractor_Extract(t *testing.T) {
	extractor := NewCredentialExtractor(ExtractorConfig{})

	tests := []struct {
		name     string
		header   string
		query    string
		expected domain.Candidate
	}{
		{
			name:     "bearer token",
			header:   "Bearer abc123",
			expected: domain.Candidate{Scheme: domain.SchemeToken, Source: domain.SourceHeaderBearer, Primary: "abc123"},
		},
		{
			name:     "bearer scheme is case insensitive",
			header:   "BEARER abc123",
			expected: domain.Candidate{Scheme: domain.SchemeToken, Source: domain.SourceHeaderBearer, Primary: "abc123"},
		},
		{
			name:     "token scheme",
			header:   "token AbC123",
			expected: domain.Candidate{Scheme: domain.SchemeToken, Source: domain.SourceHeaderToken, Primary: "AbC123"},
		},
		{
			name:     "token parameter is passed verbatim",
			header:   "Bearer  padded ",
			expected: domain.Candidate{Scheme: domain.SchemeToken, Source: domain.SourceHeaderBearer, Primary: " padded "},
		},
		{
			name:     "bearer header wins over query",
			header:   "Bearer header-token",
			query:    "query-token",
			expected: domain.Candidate{Scheme: domain.SchemeToken, Source: domain.SourceHeaderBearer, Primary: "header-token"},
		},
		{
			name:     "empty bearer parameter does not fall back",
			header:   "Bearer",
			query:    "query-token",
			expected: domain.NoCandidate,
		},
		{
			name:   "basic with email and password",
			header: basicHeader("alice@example.com:Secret1"),
			expected: domain.Candidate{
				Scheme:    domain.SchemeBasic,
				Source:    domain.SourceHeaderBasic,
				Primary:   "alice@example.com",
				Secondary: "Secret1",
			},
		},
		{
			name:   "basic password splits on first colon",
			header: basicHeader("alice@example.com:pa:ss"),
			expected: domain.Candidate{
				Scheme:    domain.SchemeBasic,
				Source:    domain.SourceHeaderBasic,
				Primary:   "alice@example.com",
				Secondary: "pa:ss",
			},
		},
		{
			name:     "basic client username carries token in password",
			header:   basicHeader("client:tok123"),
			expected: domain.Candidate{Scheme: domain.SchemeToken, Source: domain.SourceHeaderBasic, Primary: "tok123"},
		},
		{
			name:     "basic client username is case insensitive",
			header:   basicHeader("CLIENT:tok123"),
			expected: domain.Candidate{Scheme: domain.SchemeToken, Source: domain.SourceHeaderBasic, Primary: "tok123"},
		},
		{
			name:     "basic oauth placeholder carries token in username",
			header:   basicHeader("tok456:x-oauth-basic"),
			expected: domain.Candidate{Scheme: domain.SchemeToken, Source: domain.SourceHeaderBasic, Primary: "tok456"},
		},
		{
			name:     "basic oauth placeholder is case insensitive",
			header:   basicHeader("tok456:X-OAuth-Basic"),
			expected: domain.Candidate{Scheme: domain.SchemeToken, Source: domain.SourceHeaderBasic, Primary: "tok456"},
		},
		{
			name:     "basic empty password carries token in username",
			header:   basicHeader("tok789:"),
			expected: domain.Candidate{Scheme: domain.SchemeToken, Source: domain.SourceHeaderBasic, Primary: "tok789"},
		},
		{
			name:     "basic without colon is terminal",
			header:   basicHeader("nocolon"),
			query:    "query-token",
			expected: domain.NoCandidate,
		},
		{
			name:     "basic with invalid base64 is terminal",
			header:   "Basic !!!not-base64!!!",
			query:    "query-token",
			expected: domain.NoCandidate,
		},
		{
			name:     "basic with empty username and password",
			header:   basicHeader(":"),
			expected: domain.NoCandidate,
		},
		{
			name:   "basic with empty username stays a basic candidate",
			header: basicHeader(":secretpass"),
			query:  "query-token",
			expected: domain.Candidate{
				Scheme:    domain.SchemeBasic,
				Source:    domain.SourceHeaderBasic,
				Primary:   "",
				Secondary: "secretpass",
			},
		},
		{
			name:     "query parameter without header",
			query:    "query-token",
			expected: domain.Candidate{Scheme: domain.SchemeToken, Source: domain.SourceQuery, Primary: "query-token"},
		},
		{
			name:     "unrecognized scheme falls back to query",
			header:   "Digest abc",
			query:    "query-token",
			expected: domain.Candidate{Scheme: domain.SchemeToken, Source: domain.SourceQuery, Primary: "query-token"},
		},
		{
			name:     "unrecognized scheme without query",
			header:   "Digest abc",
			expected: domain.NoCandidate,
		},
		{
			name:     "nothing presented",
			expected: domain.NoCandidate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/v1/resource"
			if tt.query != "" {
				target += "?access_token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			assert.Equal(t, tt.expected, extractor.Extract(req))
		})
	}
}

func TestCredentialExtractor_CustomConfig(t *testing.T) {
	extractor := NewCredentialExtractor(ExtractorConfig{
		ClientUsername:   "Service",
		OAuthPlaceholder: "x-token",
		AccessTokenParam: "api_key",
	})

	req := httptest.NewRequest(http.MethodGet, "/?api_key=k1&access_token=ignored", nil)
	assert.Equal(t, domain.Candidate{Scheme: domain.SchemeToken, Source: domain.SourceQuery, Primary: "k1"}, extractor.Extract(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", basicHeader("service:t1"))
	assert.Equal(t, "t1", extractor.Extract(req).Primary)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", basicHeader("t2:X-TOKEN"))
	assert.Equal(t, "t2", extractor.Extract(req).Primary)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", basicHeader("client:secret"))
	assert.Equal(t, domain.SchemeBasic, extractor.Extract(req).Scheme)
}
