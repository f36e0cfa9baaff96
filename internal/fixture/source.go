package fixture

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/readinglist/internal/entities"
)

//go:embed seed.json
var seedJSON []byte

// Seed returns the embedded demo fixture.
func Seed() ([]entities.Book, error) {
	books, err := DecodeBytes(seedJSON)
	if err != nil {
		return nil, fmt.Errorf("seed fixture: %w", err)
	}
	return books, nil
}

// SeedBytes returns the raw embedded fixture document.
func SeedBytes() []byte {
	out := make([]byte, len(seedJSON))
	copy(out, seedJSON)
	return out
}

// LoadFile decodes the fixture stored at path.
func LoadFile(path string) ([]entities.Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	books, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return books, nil
}

// Fetch downloads and decodes a fixture. There is no retry; any status other
// than 200 is an error. client may be nil.
func Fetch(ctx context.Context, client *http.Client, url string) ([]entities.Book, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ReadingList/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch fixture: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch fixture: unexpected status: %d", resp.StatusCode)
	}

	books, err := Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return books, nil
}

// Source is one place a fixture can be loaded from.
type Source interface {
	Load(ctx context.Context) ([]entities.Book, error)
	String() string
}

type fileSource string

func (s fileSource) Load(context.Context) ([]entities.Book, error) { return LoadFile(string(s)) }
func (s fileSource) String() string                               { return string(s) }

// FileSource loads the fixture at path.
func FileSource(path string) Source { return fileSource(path) }

type urlSource struct {
	client *http.Client
	url    string
}

func (s urlSource) Load(ctx context.Context) ([]entities.Book, error) {
	return Fetch(ctx, s.client, s.url)
}
func (s urlSource) String() string { return s.url }

// URLSource fetches the fixture at url with client (nil for the default client).
func URLSource(client *http.Client, url string) Source {
	return urlSource{client: client, url: url}
}

type seedSource struct{}

func (seedSource) Load(context.Context) ([]entities.Book, error) { return Seed() }
func (seedSource) String() string                               { return "seed" }

// SeedSource yields the embedded fixture.
func SeedSource() Source { return seedSource{} }

// LoadAll loads every source concurrently and concatenates the results in
// source order. The first failure cancels the rest and fails the whole load.
func LoadAll(ctx context.Context, sources ...Source) ([]entities.Book, error) {
	results := make([][]entities.Book, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			books, err := src.Load(ctx)
			if err != nil {
				return fmt.Errorf("load %s: %w", src, err)
			}
			results[i] = books
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, r := range results {
		total += len(r)
	}
	all := make([]entities.Book, 0, total)
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}
