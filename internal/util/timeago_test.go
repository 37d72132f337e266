package util

import (
	"testing"
	"time"
)

func TestFormatTimeAgo(t *testing.T) {
	cases := []struct {
		age  time.Duration
		want string
		desc string
	}{
		{30 * time.Second, "just now", "under a minute"},
		{70 * time.Second, "1 minute ago", "singular minute"},
		{5 * time.Minute, "5 minutes ago", "plural minutes"},
		{65 * time.Minute, "1 hour ago", "singular hour"},
		{3 * time.Hour, "3 hours ago", "plural hours"},
		{25 * time.Hour, "1 days ago", "rolls into days"},
		{48 * time.Hour, "2 days ago", "plural days"},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			got := FormatTimeAgo(time.Now().Add(-tc.age))
			if got != tc.want {
				t.Errorf("FormatTimeAgo(now-%v) = %q, expected %q", tc.age, got, tc.want)
			}
		})
	}
}

func TestFormatTimeAgoNever(t *testing.T) {
	if got := FormatTimeAgo(time.Time{}); got != "never" {
		t.Errorf("FormatTimeAgo(zero) = %q, expected %q", got, "never")
	}
}
