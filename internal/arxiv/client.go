// Package arxiv imports paper metadata from the arXiv export API into corpus
// records.
package arxiv

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/csheth/paperpin/internal/corpus"
)

const (
	DefaultAPIBase = "https://export.arxiv.org/api/query"
	DefaultPDFBase = "https://arxiv.org/pdf"
	absBase        = "https://arxiv.org/abs"
)

// ErrNotFound is returned when the API answers with an empty feed.
var ErrNotFound = errors.New("paper not found")

var (
	idRegexp   = regexp.MustCompile(`(?i)arxiv\.org/(?:abs|pdf)/([0-9a-z.\-/]+?)(?:\.pdf)?$`)
	bareRegexp = regexp.MustCompile(`(?i)^[0-9a-z.\-/]+$`)
)

// Client fetches metadata and, optionally, full text for arXiv papers.
type Client struct {
	APIBase  string
	PDFBase  string
	HTTP     *http.Client
	CacheDir string
}

// NewClient returns a Client against the public arXiv endpoints. PDFs are
// cached under cacheDir.
func NewClient(timeout time.Duration, cacheDir string) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		APIBase:  DefaultAPIBase,
		PDFBase:  DefaultPDFBase,
		HTTP:     &http.Client{Timeout: timeout},
		CacheDir: cacheDir,
	}
}

// FetchPaper resolves input, an arXiv URL or identifier, into a corpus record.
// Categories become keywords. With fullText set the PDF is downloaded into the
// cache and its text stored on the record.
func (c *Client) FetchPaper(ctx context.Context, input string, fullText bool) (corpus.Paper, error) {
	id := ExtractIdentifier(input)
	if id == "" {
		return corpus.Paper{}, fmt.Errorf("unable to extract arXiv identifier from %q", input)
	}

	endpoint := c.APIBase + "?id_list=" + url.QueryEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return corpus.Paper{}, err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return corpus.Paper{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return corpus.Paper{}, fmt.Errorf("arxiv API error: %s (%s)", resp.Status, string(body))
	}

	entry, err := decodeEntry(resp.Body)
	if err != nil {
		return corpus.Paper{}, err
	}
	if entry == nil {
		return corpus.Paper{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}

	paper := corpus.Paper{
		ID:       id,
		Title:    corpus.NormalizeWhitespace(entry.Title),
		Abstract: corpus.NormalizeWhitespace(entry.Summary),
		URL:      absBase + "/" + id,
	}
	for _, a := range entry.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			paper.Authors = append(paper.Authors, name)
		}
	}
	for _, cat := range entry.Categories {
		if term := strings.TrimSpace(cat.Term); term != "" {
			paper.Keywords = append(paper.Keywords, term)
		}
	}

	if !fullText {
		return paper, nil
	}
	cache, err := newPDFCache(c.CacheDir, c.httpClient())
	if err != nil {
		return corpus.Paper{}, err
	}
	path, err := cache.Fetch(ctx, c.PDFBase+"/"+id+".pdf")
	if err != nil {
		return corpus.Paper{}, fmt.Errorf("download pdf for %s: %w", id, err)
	}
	text, err := corpus.ExtractPDFText(path)
	if err != nil {
		log.Printf("[arxiv] %s: %v; keeping metadata only", id, err)
		return paper, nil
	}
	paper.PDFPath = path
	paper.FullText = text
	return paper, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// ExtractIdentifier returns the arXiv id in input, accepting abs and pdf URLs,
// an "arXiv:" prefix and bare ids. It returns "" when nothing matches.
func ExtractIdentifier(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if matches := idRegexp.FindStringSubmatch(input); len(matches) > 1 {
		return matches[1]
	}
	if strings.Contains(input, "://") {
		return ""
	}
	if len(input) >= len("arxiv:") && strings.EqualFold(input[:len("arxiv:")], "arxiv:") {
		input = strings.TrimSpace(input[len("arxiv:"):])
	}
	if len(input) > 4 && strings.EqualFold(input[len(input)-4:], ".pdf") {
		input = input[:len(input)-4]
	}
	if bareRegexp.MatchString(input) {
		return input
	}
	return ""
}

type apiFeed struct {
	Entries []apiEntry `xml:"entry"`
}

type apiEntry struct {
	ID         string        `xml:"id"`
	Title      string        `xml:"title"`
	Summary    string        `xml:"summary"`
	Authors    []apiAuthor   `xml:"author"`
	Categories []apiCategory `xml:"category"`
}

type apiAuthor struct {
	Name string `xml:"name"`
}

type apiCategory struct {
	Term string `xml:"term,attr"`
}

func decodeEntry(reader io.Reader) (*apiEntry, error) {
	var feed apiFeed
	if err := xml.NewDecoder(reader).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode arxiv response: %w", err)
	}
	if len(feed.Entries) == 0 {
		return nil, nil
	}
	return &feed.Entries[0], nil
}
