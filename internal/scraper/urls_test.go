package scraper

import "testing"

func TestBuildActivityURL(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{
			"https://www.linkedin.com/in/johndoe",
			"https://www.linkedin.com/in/johndoe/recent-activity/all/",
		},
		{
			"https://www.linkedin.com/in/johndoe/",
			"https://www.linkedin.com/in/johndoe/recent-activity/all/",
		},
		{
			// Extra path segments after the handle are dropped.
			"https://www.linkedin.com/in/johndoe/details/experience/",
			"https://www.linkedin.com/in/johndoe/recent-activity/all/",
		},
		{
			// Already an activity URL: kept (trailing slash normalized away).
			"https://www.linkedin.com/in/johndoe/recent-activity/all/",
			"https://www.linkedin.com/in/johndoe/recent-activity/all",
		},
		{
			"johndoe",
			"https://www.linkedin.com/in/johndoe/recent-activity/all/",
		},
		{
			"  johndoe  ",
			"https://www.linkedin.com/in/johndoe/recent-activity/all/",
		},
	}

	for _, tt := range tests {
		if got := BuildActivityURL(tt.ref); got != tt.want {
			t.Errorf("BuildActivityURL(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestProfileSlug(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"https://www.linkedin.com/in/johndoe/", "johndoe"},
		{"https://www.linkedin.com/in/john-doe-123?trk=x", "john-doe-123"},
		{"johndoe", "johndoe"},
		{"https://www.linkedin.com/company/acme/", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ProfileSlug(tt.ref); got != tt.want {
			t.Errorf("ProfileSlug(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestNormalizeProfileURL(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"johndoe", "https://www.linkedin.com/in/johndoe/"},
		{"https://www.linkedin.com/in/johndoe", "https://www.linkedin.com/in/johndoe/"},
		{"https://www.linkedin.com/in/johndoe/recent-activity/all/", "https://www.linkedin.com/in/johndoe/"},
	}

	for _, tt := range tests {
		if got := NormalizeProfileURL(tt.ref); got != tt.want {
			t.Errorf("NormalizeProfileURL(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestIsLoginURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.linkedin.com/login", true},
		{"https://www.linkedin.com/uas/login?session_redirect=x", true},
		{"https://www.linkedin.com/authwall?trk=x", true},
		{"https://www.linkedin.com/checkpoint/challenge/x", true},
		{"https://www.linkedin.com/feed/", false},
		{"https://www.linkedin.com/in/johndoe/recent-activity/all/", false},
	}

	for _, tt := range tests {
		if got := isLoginURL(tt.url); got != tt.want {
			t.Errorf("isLoginURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
