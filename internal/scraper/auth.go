package scraper

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/codeGROOVE-dev/retry"
)

// OpenLogin opens a visible browser on the LinkedIn login page and waits,
// up to several minutes, for the user to authenticate. Login is considered
// successful once the browser reaches the feed; the persistent state
// directory then holds the session cookies.
//
// After a successful login it tries to discover the user's own canonical
// profile URL and returns it; an empty URL with a nil error means login
// worked but discovery did not. The browser is closed in every case.
func (s *Session) OpenLogin(ctx context.Context, cb Callbacks) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cb.status("Opening browser for LinkedIn login...")
	if err := s.open(false); err != nil {
		return "", err
	}
	defer s.close()

	if err := s.navigate(ctx, loginURL, navigationTimeout); err != nil {
		if ctx.Err() != nil {
			return "", nil
		}
		return "", err
	}

	cb.status("Please log in to LinkedIn in the browser window.")
	if err := s.waitForURLContaining(ctx, "/feed", loginTimeout); err != nil {
		if ctx.Err() != nil {
			return "", nil
		}
		return "", err
	}

	cb.status("Login successful! Session saved.")
	profileURL := s.discoverOwnProfileURL(ctx)
	if profileURL != "" {
		s.logger.Info("discovered own profile", "url", profileURL)
	}
	return profileURL, nil
}

// waitForURLContaining polls the page URL until it contains marker.
func (s *Session) waitForURLContaining(ctx context.Context, marker string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		u, err := s.currentURL()
		if err != nil {
			return err
		}
		if strings.Contains(u, marker) {
			return nil
		}
		if time.Now().After(deadline) {
			return errors.New("timed out waiting for login to complete")
		}
		sleep(ctx, time.Second)
	}
}

// discoverOwnProfileURL navigates to the "me" redirect and polls until the
// URL settles on a profile path. Best-effort: any failure just yields an
// empty string, it does not invalidate the login.
func (s *Session) discoverOwnProfileURL(ctx context.Context) string {
	if err := s.navigate(ctx, ownProfile, navigationTimeout); err != nil {
		s.logger.Debug("own-profile navigation failed", "error", err)
		return ""
	}

	var last, settled string
	err := retry.Do(
		func() error {
			u, err := s.currentURL()
			if err != nil {
				return err
			}
			// Settled means two consecutive reads agree and look like a
			// profile URL; LinkedIn redirects a couple of times first.
			if u == last && profileURLPattern.MatchString(u) {
				settled = u
				return nil
			}
			last = u
			return errors.New("profile URL not settled yet")
		},
		retry.Attempts(10),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.FixedDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		s.logger.Debug("own-profile URL never settled", "error", err)
		return ""
	}
	return profileURLPattern.FindString(settled) + "/"
}

// IsLoggedIn probes whether the saved session is still authenticated by
// loading the feed headlessly and checking where LinkedIn lands us.
func (s *Session) IsLoggedIn(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.open(true); err != nil {
		return false
	}
	defer s.close()

	if err := s.navigate(ctx, feedURL, probeTimeout); err != nil {
		return false
	}
	sleep(ctx, 2*time.Second)

	u, err := s.currentURL()
	if err != nil {
		return false
	}
	return strings.Contains(u, "/feed") && !isLoginURL(u)
}

// Markers that identify LinkedIn's not-found page.
var notFoundMarkers = []string{
	"page not found",
	"this page doesn't exist",
	"profile was not found",
}

// CheckProfileExists reports whether a profile page is reachable with the
// current session. Redirects to the auth wall, the login page, or an
// explicit not-found path all count as unreachable, as does a not-found
// marker in the page title or body.
func (s *Session) CheckProfileExists(ctx context.Context, profileRef string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profileURL := NormalizeProfileURL(profileRef)

	if err := s.open(true); err != nil {
		return false, err
	}
	defer s.close()

	if err := s.navigate(ctx, profileURL, probeTimeout); err != nil {
		return false, err
	}
	sleep(ctx, 2*time.Second)
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	u, err := s.currentURL()
	if err != nil {
		return false, err
	}
	if isLoginURL(u) || strings.Contains(u, "/404") || strings.Contains(u, "/unavailable") {
		s.logger.Info("profile unreachable", "url", u)
		return false, nil
	}

	var title string
	if err := chromedp.Run(s.ctx, chromedp.Title(&title)); err != nil {
		return false, err
	}
	lowered := strings.ToLower(title)
	for _, marker := range notFoundMarkers {
		if strings.Contains(lowered, marker) {
			return false, nil
		}
	}

	var bodyText string
	if err := chromedp.Run(s.ctx,
		chromedp.Evaluate("document.body ? document.body.innerText.substring(0, 2000) : ''", &bodyText)); err != nil {
		return false, err
	}
	lowered = strings.ToLower(bodyText)
	for _, marker := range notFoundMarkers {
		if strings.Contains(lowered, marker) {
			return false, nil
		}
	}

	return true, nil
}
