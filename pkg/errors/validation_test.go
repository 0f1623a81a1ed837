package errors

import (
	"strings"
	"testing"
)

func TestValidateFixtureName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "users", false},
		{"valid with dash", "user-roles", false},
		{"valid with underscore", "user_roles", false},
		{"valid with dot", "shop.orders", false},
		{"valid with colon", "auth:tokens", false},
		{"valid digit first", "001_orgs", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"space", "user roles", true},
		{"slash", "users/admin", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"leading dash", "-users", true},
		{"leading dot", ".users", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFixtureName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFixtureName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFixture) {
				t.Errorf("ValidateFixtureName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidFixture)
			}
		})
	}
}

func TestValidateManifestFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode Code
	}{
		{"toml", "fixtures.toml", ""},
		{"yaml", "fixtures.yaml", ""},
		{"yml upper", "FIXTURES.YML", ""},
		{"json with dir", "testdata/fixtures.json", ""},

		{"empty", "", ErrCodeInvalidManifest},
		{"no extension", "fixtures", ErrCodeInvalidFormat},
		{"xml", "fixtures.xml", ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateManifestFilename(tt.input)
			if got := GetCode(err); got != tt.wantCode {
				t.Errorf("ValidateManifestFilename(%q) code = %q, want %q", tt.input, got, tt.wantCode)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "data/users.json", false},
		{"file only", "users.yaml", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../secrets.json", true},
		{"nested traversal", "data/../../x.json", true},
		{"backslash", "data\\users.json", true},
		{"control char", "data/\x01.json", true},
		{"too long", strings.Repeat("a", 600), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		schemes []string
		wantErr bool
	}{
		{"mongodb", "mongodb://localhost:27017", []string{"mongodb", "mongodb+srv"}, false},
		{"mongodb srv", "mongodb+srv://cluster.example.com", []string{"mongodb", "mongodb+srv"}, false},
		{"redis", "redis://localhost:6379/0", []string{"redis", "rediss"}, false},

		{"empty", "", []string{"redis"}, true},
		{"wrong scheme", "http://localhost", []string{"redis", "rediss"}, true},
		{"no scheme", "localhost:6379", []string{"redis"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input, tt.schemes...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
