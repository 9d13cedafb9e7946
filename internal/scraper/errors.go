package scraper

import (
	"errors"
	"fmt"
)

// AuthRequiredError indicates that LinkedIn redirected a navigation to its
// login wall. It is distinct from generic failures so callers can prompt
// for a fresh login instead of reporting a scrape bug.
type AuthRequiredError struct {
	URL string
}

func (e *AuthRequiredError) Error() string {
	return fmt.Sprintf("not logged in (redirected to %s); log in to LinkedIn first", e.URL)
}

// IsAuthRequired checks whether an error is an authentication-required
// condition.
func IsAuthRequired(err error) bool {
	var authErr *AuthRequiredError
	return errors.As(err, &authErr)
}
