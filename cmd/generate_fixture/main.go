// Command generate_fixture writes a bulk-load fixture of randomly generated books.
// Usage: go run ./cmd/generate_fixture [-n 100] [-seed 1] [-o books.json]
package main

import (
	"bufio"
	"flag"
	"io"
	"log"
	"math"
	"math/rand"
	"os"

	"github.com/google/uuid"

	"github.com/mrlokans/readinglist/internal/entities"
	"github.com/mrlokans/readinglist/internal/fixture"
)

var (
	titleWords = []string{
		"Silent", "River", "Empire", "Garden", "Winter", "Glass", "North", "Stone",
		"Echo", "Harbor", "Shadow", "Lantern", "Orchard", "Tide", "Ember", "Atlas",
	}
	firstNames = []string{"Ada", "Boris", "Clara", "Dmitri", "Elena", "Felix", "Grace", "Hugo"}
	lastNames  = []string{"Morrow", "Ivanova", "Blake", "Sato", "Okafor", "Lindqvist", "Reyes", "Hart"}
)

func main() {
	count := flag.Int("n", 50, "number of books to generate")
	seed := flag.Int64("seed", 1, "random seed")
	output := flag.String("o", "", "output file (default stdout)")
	flag.Parse()

	if *count < 0 {
		log.Fatalf("-n must not be negative")
	}

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", *output, err)
		}
		defer f.Close()
		w = f
	}

	bw := bufio.NewWriter(w)
	books := generate(rand.New(rand.NewSource(*seed)), *count)
	if err := fixture.Encode(bw, books); err != nil {
		log.Fatalf("Failed to encode fixture: %v", err)
	}
	if err := bw.Flush(); err != nil {
		log.Fatalf("Failed to write fixture: %v", err)
	}
	if *output != "" {
		log.Printf("Wrote %d books to %s", len(books), *output)
	}
}

// generate builds n valid books. Ids come from the random source so the
// output is reproducible for a given seed.
func generate(r *rand.Rand, n int) []entities.Book {
	books := make([]entities.Book, 0, n)
	for i := 0; i < n; i++ {
		id, err := uuid.NewRandomFromReader(r)
		if err != nil {
			log.Fatalf("Failed to generate id: %v", err)
		}
		books = append(books, entities.Book{
			ID:        id.String(),
			Title:     pick(r, titleWords) + " " + pick(r, titleWords),
			Author:    pick(r, firstNames) + " " + pick(r, lastNames),
			Year:      1800 + r.Intn(226),
			Pages:     80 + r.Intn(900),
			Rating:    math.Round(r.Float64()*entities.MaxRating*10) / 10,
			Completed: r.Intn(2) == 1,
		})
	}
	return books
}

func pick(r *rand.Rand, words []string) string {
	return words[r.Intn(len(words))]
}
