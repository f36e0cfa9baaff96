package entrypoint

import (
	"context"
	"net/http"
	"strings"

	"github.com/mrlokans/readinglist/internal/config"
	"github.com/mrlokans/readinglist/internal/entities"
	"github.com/mrlokans/readinglist/internal/fixture"
	"github.com/mrlokans/readinglist/internal/library"
	"github.com/mrlokans/readinglist/internal/services"
)

// StartupSources lists the fixtures configured to load at startup, in the
// order their books are appended: seed, file, then URL.
func StartupSources(cfg config.Fixture, client *http.Client) []fixture.Source {
	var sources []fixture.Source
	if cfg.Seed {
		sources = append(sources, fixture.SeedSource())
	}
	if cfg.Path != "" {
		sources = append(sources, fixture.FileSource(cfg.Path))
	}
	if cfg.URL != "" {
		sources = append(sources, fixture.URLSource(client, cfg.URL))
	}
	return sources
}

// LoadStartupFixtures fetches every configured fixture concurrently and
// loads them into the library as one batch. Returns nil when nothing is
// configured.
func LoadStartupFixtures(ctx context.Context, importer *services.ImportService, cfg config.Fixture, client *http.Client) (*entities.ImportSession, error) {
	sources := StartupSources(cfg, client)
	if len(sources) == 0 {
		return nil, nil
	}

	books, err := fixture.LoadAll(ctx, sources...)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(sources))
	for i, src := range sources {
		names[i] = src.String()
	}

	return importer.ImportBooks(services.ImportRequest{
		Source:   startupSourceKind(cfg),
		Location: strings.Join(names, ", "),
		Mode:     library.LoadModeMerge,
	}, books)
}

func startupSourceKind(cfg config.Fixture) entities.ImportSource {
	switch {
	case cfg.URL != "":
		return entities.ImportSourceURL
	case cfg.Path != "":
		return entities.ImportSourceFile
	default:
		return entities.ImportSourceSeed
	}
}
