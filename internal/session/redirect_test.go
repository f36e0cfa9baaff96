package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLocalPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/", true},
		{"/books?shelf=read", true},
		{"", false},
		{"books", false},
		{"//evil.com", false},
		{"/redirect?to=https://evil.com", false},
		{"/\\evil.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsLocalPath(tt.path))
		})
	}
}

func TestSanitizeRedirectPath(t *testing.T) {
	assert.Equal(t, "/imports", SanitizeRedirectPath("/imports"))
	assert.Equal(t, "/", SanitizeRedirectPath("https://evil.com"))
}

func TestRefererPath(t *testing.T) {
	assert.Equal(t, "/", RefererPath(""))
	assert.Equal(t, "/imports?page=2", RefererPath("http://localhost:8080/imports?page=2"))
	assert.Equal(t, "/", RefererPath("http://evil.com"))
	assert.Equal(t, "/", RefererPath("%zz"))
}
