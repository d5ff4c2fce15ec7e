package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"sparcsetl/internal/domain"
)

// reportLinkPattern matches compliance report links on the listing page:
// site-relative, starting with a 2xxx year, ending in .pdf.
var reportLinkPattern = regexp.MustCompile(`(?i)^/statistics/sparcs/reports/compliance/2\d{3}.*\.pdf$`)

const (
	listingTimeout  = 10 * time.Second
	downloadTimeout = 30 * time.Second
)

// Fetcher downloads compliance reports linked from the public listing
// page. Individual download failures are tolerated and counted; an empty
// listing or a run where nothing downloads is fatal.
type Fetcher struct {
	listingURL string
	outDir     string
	listing    *http.Client
	download   *http.Client
}

// NewFetcher creates a fetcher pulling from listingURL into outDir.
func NewFetcher(listingURL, outDir string) *Fetcher {
	return &Fetcher{
		listingURL: listingURL,
		outDir:     outDir,
		listing:    &http.Client{Timeout: listingTimeout},
		download:   &http.Client{Timeout: downloadTimeout},
	}
}

// Pull scrapes the listing page and downloads every report it links,
// returning the local paths of the files that arrived.
func (f *Fetcher) Pull(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.listingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating listing request: %w", err)
	}
	resp, err := f.listing.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing %s: %w", f.listingURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch listing %s: unexpected status %d", f.listingURL, resp.StatusCode)
	}
	urls, err := ExtractDocumentURLs(resp.Body, f.listingURL)
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoListingURLs, f.listingURL)
	}
	log.Printf("fetch: extracted %d report links from %s", len(urls), f.listingURL)

	if err := os.MkdirAll(f.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", f.outDir, err)
	}

	var paths []string
	failed := 0
	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := fileName(u)
		if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
			log.Printf("fetch: skipping non-pdf link %s", u)
			failed++
			continue
		}
		dest := filepath.Join(f.outDir, name)
		if err := f.downloadTo(ctx, u, dest); err != nil {
			log.Printf("fetch: download %s: %v", u, err)
			failed++
			continue
		}
		paths = append(paths, dest)
	}
	log.Printf("fetch: downloaded %d reports, %d failed", len(paths), failed)

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %d urls attempted", domain.ErrAllDownloadsFailed, len(urls))
	}
	return paths, nil
}

// ExtractDocumentURLs walks the listing page for anchors whose href
// matches the report link pattern and resolves them against baseURL.
func ExtractDocumentURLs(r io.Reader, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	var urls []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				if reportLinkPattern.MatchString(attr.Val) {
					if ref, perr := url.Parse(attr.Val); perr == nil {
						urls = append(urls, base.ResolveReference(ref).String())
					}
				}
				break
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return urls, nil
}

func (f *Fetcher) downloadTo(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := f.download.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return out.Close()
}

func fileName(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		return path.Base(u.Path)
	}
	return path.Base(rawURL)
}
