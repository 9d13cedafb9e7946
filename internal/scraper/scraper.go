// Package scraper drives a persistent Chrome session against LinkedIn:
// login, profile reachability, and the two-phase scan/scrape extraction of
// a profile's activity feed.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/corpix/uarand"
	"golang.org/x/time/rate"

	"github.com/tradmangh/LinkedIn-PostScraper/internal/parser"
)

const (
	// Feed items are identified by their update container carrying an
	// activity URN.
	postSelector = `div.feed-shared-update-v2[data-urn*="activity"]`

	// Scrolling stops after this many consecutive iterations without the
	// document growing.
	maxNoChange = 3

	navigationTimeout = 30 * time.Second
	probeTimeout      = 15 * time.Second
	loginTimeout      = 5 * time.Minute
)

// Human-like pacing: delays are drawn uniformly from a range rather than
// fixed, so successive requests do not tick like a metronome.
type delayRange struct {
	min, max time.Duration
}

var (
	delayBetweenScrolls = delayRange{1500 * time.Millisecond, 3000 * time.Millisecond}
	delayAfterLoad      = delayRange{2000 * time.Millisecond, 3500 * time.Millisecond}
)

func (r delayRange) draw() time.Duration {
	return r.min + time.Duration(rand.Int63n(int64(r.max-r.min)))
}

// sleep waits for d or until ctx is cancelled, whichever comes first.
// Cancellation latency during scrolling is therefore bounded by one delay.
func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// Config holds session configuration.
type Config struct {
	// StateDir is the Chrome user-data directory. Cookies persist there,
	// so a login survives across runs.
	StateDir string
	// RateLimitMs is the minimum spacing between navigations in
	// milliseconds. Zero means 1000.
	RateLimitMs int
	// UserAgent overrides the randomly chosen browser user agent.
	UserAgent string
}

// Session owns at most one live browser at a time. All operations serialize
// on an internal mutex: concurrent navigation on one browsing context
// corrupts its state. Each operation opens the browser, works, and closes
// it again so the on-disk session state is flushed.
type Session struct {
	mu     sync.Mutex
	cfg    Config
	logger *slog.Logger

	limiter   *rate.Limiter
	userAgent string

	ctx           context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
}

// New creates a session rooted at the given browser state directory.
func New(cfg Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RateLimitMs <= 0 {
		cfg.RateLimitMs = 1000
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = uarand.GetRandom()
	}
	return &Session{
		cfg:       cfg,
		logger:    logger,
		limiter:   rate.NewLimiter(rate.Limit(1000.0/float64(cfg.RateLimitMs)), 1),
		userAgent: ua,
	}
}

// open launches the persistent browser context. No-op when already open.
func (s *Session) open(headless bool) error {
	if s.ctx != nil {
		return nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(s.cfg.StateDir),
		chromedp.UserAgent(s.userAgent),
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1280, 900),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run with no actions starts the browser eagerly so startup failures
	// surface here instead of on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("failed to start browser: %w", err)
	}

	s.ctx = browserCtx
	s.browserCancel = browserCancel
	s.allocCancel = allocCancel
	return nil
}

// close tears the browser down. Safe to call repeatedly; teardown errors
// are ignored because there is nothing useful to do with them.
func (s *Session) close() {
	if s.browserCancel != nil {
		s.browserCancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
	s.ctx = nil
	s.browserCancel = nil
	s.allocCancel = nil
}

// Close shuts down any live browser. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.close()
}

// navigate loads url in the live page, paced by the rate limiter and
// bounded by timeout.
func (s *Session) navigate(ctx context.Context, url string, timeout time.Duration) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (s *Session) currentURL() (string, error) {
	var u string
	if err := chromedp.Run(s.ctx, chromedp.Location(&u)); err != nil {
		return "", fmt.Errorf("failed to read current URL: %w", err)
	}
	return u, nil
}

func (s *Session) scrollHeight() (int, error) {
	var h int
	if err := chromedp.Run(s.ctx, chromedp.Evaluate("document.body.scrollHeight", &h)); err != nil {
		return 0, fmt.Errorf("failed to read document height: %w", err)
	}
	return h, nil
}

func (s *Session) loadedPostCount() (int, error) {
	var n int
	script := fmt.Sprintf("document.querySelectorAll('%s').length", postSelector)
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(script, &n)); err != nil {
		return 0, fmt.Errorf("failed to count feed items: %w", err)
	}
	return n, nil
}

// scrollFeed scrolls to the bottom of the feed until content stops growing,
// the optional enough predicate is satisfied by the number of loaded items,
// maxScrolls is reached (0 means unbounded), or ctx is cancelled.
func (s *Session) scrollFeed(ctx context.Context, maxScrolls int, enough func(loaded int) bool, cb Callbacks) error {
	lastHeight, err := s.scrollHeight()
	if err != nil {
		return err
	}

	scrolls, noChange := 0, 0
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := chromedp.Run(s.ctx,
			chromedp.Evaluate("window.scrollTo(0, document.body.scrollHeight)", nil)); err != nil {
			return fmt.Errorf("failed to scroll: %w", err)
		}
		sleep(ctx, delayBetweenScrolls.draw())
		if ctx.Err() != nil {
			return ctx.Err()
		}

		newHeight, err := s.scrollHeight()
		if err != nil {
			return err
		}

		loaded, err := s.loadedPostCount()
		if err != nil {
			return err
		}
		cb.dataCount(loaded)
		if enough != nil && enough(loaded) {
			s.logger.Debug("scroll depth reached", "loaded", loaded)
			return nil
		}

		if newHeight == lastHeight {
			noChange++
		} else {
			noChange = 0
		}
		if noChange >= maxNoChange {
			s.logger.Debug("feed stopped growing", "height", newHeight, "scrolls", scrolls)
			return nil
		}

		lastHeight = newHeight
		scrolls++
		if maxScrolls > 0 && scrolls >= maxScrolls {
			return nil
		}
		cb.status(fmt.Sprintf("Scrolling... (%d scrolls)", scrolls))
	}
}

const scanScript = `(() => {
	const items = document.querySelectorAll('` + postSelector + `');
	const results = [];
	items.forEach((item, idx) => {
		const timeEl = item.querySelector('.update-components-actor__sub-description span.visually-hidden');
		let headline = '';
		for (const sel of [
			'.feed-shared-update-v2__description .update-components-text',
			'.feed-shared-update-v2__commentary',
			'.update-components-text',
		]) {
			const el = item.querySelector(sel);
			if (el) {
				headline = el.textContent.trim().substring(0, 120);
				if (headline) break;
			}
		}
		results.push({
			index: idx,
			date_text: timeEl ? timeEl.textContent.trim() : '',
			headline: headline || '(No text content)',
			element_id: item.getAttribute('data-urn') || '',
		});
	});
	return results;
})()`

// ScanPosts is the preview pass: it loads the profile's activity feed,
// scrolls until it stops growing, and returns one lightweight preview per
// feed item in document order (newest first).
//
// Cancelling ctx yields an empty, nil-error result; callers that hold the
// cancellation signal can tell it apart from an empty feed. A redirect to
// the login wall is reported as an AuthRequiredError.
func (s *Session) ScanPosts(ctx context.Context, profileRef string, cb Callbacks) ([]parser.PostPreview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	activityURL := BuildActivityURL(profileRef)
	cb.status("Navigating to " + activityURL)

	if err := s.open(true); err != nil {
		return nil, err
	}
	defer s.close()

	if err := s.enterFeed(ctx, activityURL); err != nil {
		if ctx.Err() != nil {
			return nil, nil
		}
		return nil, err
	}

	cb.status("Page loaded. Scrolling to load all posts...")
	if err := s.scrollFeed(ctx, 0, nil, cb); err != nil {
		if ctx.Err() != nil {
			return nil, nil
		}
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, nil
	}

	cb.status("Extracting post previews...")
	var previews []parser.PostPreview
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(scanScript, &previews)); err != nil {
		return nil, fmt.Errorf("failed to extract previews: %w", err)
	}

	s.logger.Info("scan complete", "posts", len(previews))
	if len(previews) == 0 {
		s.saveDebugSnapshot(cb)
	}
	cb.dataCount(len(previews))
	return previews, nil
}

const scrapeScriptTemplate = `(() => {
	const items = document.querySelectorAll('` + postSelector + `');
	const subset = Array.from(items).slice(0, %d + 1);
	return subset.map((item, idx) => {
		const timeEl = item.querySelector('.update-components-actor__sub-description span.visually-hidden');
		return {
			html: item.outerHTML,
			date_text: timeEl ? timeEl.textContent.trim() : '',
			element_id: item.getAttribute('data-urn') || '',
			index: idx,
		};
	});
})()`

// ScrapePosts is the extraction pass: it re-navigates the activity feed and
// scrolls only until enough items are loaded to cover startIndex, then
// extracts full markup for items 0..startIndex and returns them reordered
// oldest to newest. Each RawPost keeps its pre-reversal position in Index
// so the result can be filtered against scan-time selections. A positive
// maxPosts caps the result length.
//
// Cancellation and login-redirect semantics match ScanPosts.
func (s *Session) ScrapePosts(ctx context.Context, profileRef string, startIndex, maxPosts int, cb Callbacks) ([]parser.RawPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	activityURL := BuildActivityURL(profileRef)
	cb.status("Navigating to " + activityURL)

	if err := s.open(true); err != nil {
		return nil, err
	}
	defer s.close()

	if err := s.enterFeed(ctx, activityURL); err != nil {
		if ctx.Err() != nil {
			return nil, nil
		}
		return nil, err
	}

	cb.status("Scrolling to load posts...")
	enough := func(loaded int) bool { return loaded > startIndex }
	if err := s.scrollFeed(ctx, 0, enough, cb); err != nil {
		if ctx.Err() != nil {
			return nil, nil
		}
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, nil
	}

	cb.status("Extracting post content...")
	var extracted []parser.RawPost
	script := fmt.Sprintf(scrapeScriptTemplate, startIndex)
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(script, &extracted)); err != nil {
		return nil, fmt.Errorf("failed to extract posts: %w", err)
	}

	// The page lists newest first; flip to oldest first for saving.
	raw := make([]parser.RawPost, 0, len(extracted))
	for i := len(extracted) - 1; i >= 0; i-- {
		raw = append(raw, extracted[i])
	}
	if maxPosts > 0 && len(raw) > maxPosts {
		raw = raw[:maxPosts]
	}

	s.logger.Info("scrape complete", "posts", len(raw), "start_index", startIndex)
	cb.progress(len(raw), len(raw))
	cb.status(fmt.Sprintf("Extracted %d posts.", len(raw)))
	return raw, nil
}

// enterFeed navigates to the activity URL, waits out the initial load, and
// fails with AuthRequiredError when LinkedIn bounced us to the login wall.
func (s *Session) enterFeed(ctx context.Context, activityURL string) error {
	if err := s.navigate(ctx, activityURL, navigationTimeout); err != nil {
		return err
	}
	sleep(ctx, delayAfterLoad.draw())
	if ctx.Err() != nil {
		return ctx.Err()
	}

	u, err := s.currentURL()
	if err != nil {
		return err
	}
	if isLoginURL(u) {
		return &AuthRequiredError{URL: u}
	}
	return nil
}

// saveDebugSnapshot writes the full page markup next to the browser state
// directory. Only called when a scan finds nothing, which almost always
// means LinkedIn changed the feed markup.
func (s *Session) saveDebugSnapshot(cb Callbacks) {
	var html string
	if err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html)); err != nil {
		s.logger.Warn("could not capture page snapshot", "error", err)
		return
	}

	debugDir := filepath.Join(filepath.Dir(s.cfg.StateDir), "debug")
	if err := os.MkdirAll(debugDir, 0755); err != nil {
		s.logger.Warn("could not create debug directory", "error", err)
		return
	}
	path := filepath.Join(debugDir, "linkedin_page.html")
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		s.logger.Warn("could not save page snapshot", "error", err)
		return
	}
	s.logger.Info("saved page snapshot", "path", path)
	cb.status("No posts found. Saved page snapshot to " + path)
}

func isLoginURL(u string) bool {
	for _, marker := range []string{"/login", "/authwall", "/checkpoint", "/uas/"} {
		if strings.Contains(u, marker) {
			return true
		}
	}
	return false
}
