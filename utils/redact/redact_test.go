package redact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecrets(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		secret string
	}{
		{
			name:   "query api key",
			input:  "GET https://cutouts.example.org/img?ra=1&api_key=SECRET123&w=10 failed",
			want:   "GET https://cutouts.example.org/img?ra=1&api_key=[REDACTED]&w=10 failed",
			secret: "SECRET123",
		},
		{
			name:   "authorization bearer",
			input:  "request rejected: Authorization: Bearer abc.def",
			want:   "request rejected: Authorization: Bearer [REDACTED]",
			secret: "abc.def",
		},
		{
			name:   "mixed case token",
			input:  "Access_Token=xyz789 expired",
			want:   "Access_Token=[REDACTED] expired",
			secret: "xyz789",
		},
		{
			name:   "api key header",
			input:  "X-Api-Key: s3cr3t was rejected",
			want:   "X-Api-Key: [REDACTED] was rejected",
			secret: "s3cr3t",
		},
		{
			name:   "double quoted token",
			input:  `token="abc123" rejected`,
			want:   `token="[REDACTED]" rejected`,
			secret: "abc123",
		},
		{
			name:   "single quoted key",
			input:  `key='SECRET123'`,
			want:   `key='[REDACTED]'`,
			secret: "SECRET123",
		},
		{
			name:   "json member",
			input:  `upstream body: {"api_key":"SECRET123","ra":1}`,
			want:   `upstream body: {"api_key":"[REDACTED]","ra":1}`,
			secret: "SECRET123",
		},
		{
			name:   "json member with spaces in value",
			input:  `{"password": "p a ss"}`,
			want:   `{"password": "[REDACTED]"}`,
			secret: "p a ss",
		},
		{
			name:   "escaped json in quoted error",
			input:  `decode "{\"api_key\":\"SECRET123\"}"`,
			want:   `decode "{\"api_key\":\"[REDACTED]\"}"`,
			secret: "SECRET123",
		},
		{
			name:  "nothing to redact",
			input: "status 503 from primary",
			want:  "status 503 from primary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Secrets(tt.input)
			assert.Equal(t, tt.want, got)
			if tt.secret != "" {
				assert.NotContains(t, got, tt.secret)
			}
		})
	}
}

func TestReason_RedactsQuotedSecrets(t *testing.T) {
	got := Reason(`secondary returned 401: {"token":"abc123"}`)
	assert.NotContains(t, got, "abc123")
	assert.Contains(t, got, Marker)
}

func TestReason_Truncates(t *testing.T) {
	long := strings.Repeat("é", 500)
	got := Reason(long)
	assert.Equal(t, MaxReasonLength, len([]rune(got)))

	assert.Equal(t, "short", Reason("short"))
}
