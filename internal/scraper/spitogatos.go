package scraper

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"athens-property-lab/internal/domain"
	"athens-property-lab/internal/ingestion"
)

const searchURLFormat = "https://www.spitogatos.gr/en/for_sale-homes/athens?page=%d"

// Config controls the listing page scraper.
type Config struct {
	// MaxPages bounds pagination.
	MaxPages int
	// PageDelay is the pause between result pages.
	PageDelay time.Duration
	// PageTimeout bounds one page load and extraction.
	PageTimeout time.Duration
	// ChromeBin overrides browser binary discovery.
	ChromeBin string
}

// DefaultConfig returns the default scraper configuration.
func DefaultConfig() Config {
	return Config{
		MaxPages:    5,
		PageDelay:   2 * time.Second,
		PageTimeout: 90 * time.Second,
	}
}

// SpitogatosSource scrapes sale listings from result pages with a
// headless browser. Implements ingestion.ListingSource; extracted
// values stay raw strings, parsing is the normalizer's job.
type SpitogatosSource struct {
	config Config
	logger *log.Logger
	now    func() time.Time
}

// NewSpitogatosSource creates a scraper source.
func NewSpitogatosSource(config *Config, logger *log.Logger) *SpitogatosSource {
	cfg := DefaultConfig()
	if config != nil {
		cfg = *config
	}
	if logger == nil {
		logger = log.Default()
	}
	return &SpitogatosSource{config: cfg, logger: logger, now: time.Now}
}

func (s *SpitogatosSource) Name() string {
	return "scrape:spitogatos"
}

// card mirrors the fields extracted from one result card in the page.
type card struct {
	URL          string `json:"url"`
	Price        string `json:"price"`
	Size         string `json:"size"`
	EnergyClass  string `json:"energy_class"`
	Neighborhood string `json:"neighborhood"`
	Rooms        string `json:"rooms"`
	Floor        string `json:"floor"`
}

// Fetch walks result pages and collects raw listings. Stops at the
// page cap, an empty page, or a page failure; listings collected
// before a failure are returned.
func (s *SpitogatosSource) Fetch(ctx context.Context) ([]*domain.RawListing, error) {
	chromeBin := s.config.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	s.logger.Printf("[scrape] using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	allocCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelSilent()

	var raws []*domain.RawListing
	seen := make(map[string]struct{})

	for page := 1; page <= s.config.MaxPages; page++ {
		if err := ctx.Err(); err != nil {
			return raws, err
		}

		cards, err := s.scrapePage(allocCtx, page)
		if err != nil {
			if len(raws) > 0 {
				s.logger.Printf("[scrape] page %d failed, keeping %d listings: %v", page, len(raws), err)
				return raws, nil
			}
			return nil, fmt.Errorf("scrape page %d: %w", page, err)
		}
		if len(cards) == 0 {
			s.logger.Printf("[scrape] page %d returned 0 cards, stopping", page)
			break
		}

		collectedAt := s.now().UnixMilli()
		for _, c := range cards {
			if c.URL == "" {
				continue
			}
			if _, dup := seen[c.URL]; dup {
				continue
			}
			seen[c.URL] = struct{}{}
			raws = append(raws, &domain.RawListing{
				URL:          c.URL,
				Price:        c.Price,
				Size:         c.Size,
				EnergyClass:  c.EnergyClass,
				Neighborhood: c.Neighborhood,
				Rooms:        c.Rooms,
				Floor:        c.Floor,
				Source:       domain.SourceScrape,
				CollectedAt:  collectedAt,
			})
		}
		s.logger.Printf("[scrape] page %d done, %d listings so far", page, len(raws))

		if page < s.config.MaxPages {
			select {
			case <-time.After(s.config.PageDelay):
			case <-ctx.Done():
				return raws, ctx.Err()
			}
		}
	}

	s.logger.Printf("[scrape] complete, %d raw listings", len(raws))
	return raws, nil
}

// scrapePage loads one result page and extracts its cards.
func (s *SpitogatosSource) scrapePage(allocCtx context.Context, page int) ([]card, error) {
	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, s.config.PageTimeout)
	defer cancelTimeout()

	var cards []card
	err := chromedp.Run(ctx,
		chromedp.Navigate(fmt.Sprintf(searchURLFormat, page)),
		chromedp.Sleep(4*time.Second),

		// Scroll so lazy-loaded cards render
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(2*time.Second),

		chromedp.Evaluate(`
			(function() {
				var results = [];
				var seen = {};
				var links = document.querySelectorAll('a[href*="/en/property/"], a[href*="/aggelia/"]');
				for (var i = 0; i < links.length; i++) {
					var link = links[i];
					var href = link.href;
					if (!href || seen[href]) continue;
					seen[href] = true;

					var cardEl = link.closest('article') ||
					             link.closest('[class*="tile"]') ||
					             link.closest('li') ||
					             link.parentElement;
					var text = cardEl ? cardEl.innerText : '';
					var lines = text.split('\n').map(function(l){return l.trim();}).filter(Boolean);

					var price = lines.find(function(l){return l.indexOf('€') !== -1;}) || '';
					var size = lines.find(function(l){return /\d+\s*(m²|τ\.μ\.)/.test(l);}) || '';
					var rooms = lines.find(function(l){return /bedroom|υπνοδωμ/i.test(l);}) || '';
					var floor = lines.find(function(l){return /floor|όροφος/i.test(l);}) || '';

					var energy = '';
					var energyEl = cardEl ? cardEl.querySelector('[class*="energy"]') : null;
					if (energyEl) energy = energyEl.innerText.trim();

					var hood = '';
					var hoodEl = cardEl ? cardEl.querySelector('[class*="area"], [class*="location"], h3') : null;
					if (hoodEl) hood = hoodEl.innerText.trim();

					results.push({
						url: href,
						price: price,
						size: size,
						energy_class: energy,
						neighborhood: hood,
						rooms: rooms,
						floor: floor
					});
				}
				return results;
			})()
		`, &cards),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp page scrape: %w", err)
	}
	return cards, nil
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

var _ ingestion.ListingSource = (*SpitogatosSource)(nil)
