package pipeline

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"butterfly-survey/internal/model"
	"butterfly-survey/pkg/utils"
)

// ------------------- Ingestion -------------------

// requiredColumns are the seven columns every raw survey table must carry.
// Header matching is case-insensitive.
var requiredColumns = []string{
	"ScientificName", "EnglishName", "Family", "Date", "Latitude", "Longitude", "Elevation_m",
}

// IngestSource reads the raw observation table from a local path or URL
// and streams one RawSighting per row. A malformed file is fatal: the
// first error is sent on errs and ingestion stops.
func IngestSource(ctx context.Context, source model.Source, delimiter string, out chan<- model.RawSighting, errs chan<- error) {
	defer close(out)
	fmt.Printf("➡️ Starting ingestion for source: %s (%s)\n", source.URL, source.Type)

	reader, cleanup, err := openSource(source)
	if err != nil {
		errs <- err
		return
	}
	defer cleanup()

	csvReader := csv.NewReader(reader)
	csvReader.LazyQuotes = true
	if delimiter != "" {
		csvReader.Comma = rune(delimiter[0])
	}

	headers, err := csvReader.Read()
	if err != nil {
		errs <- fmt.Errorf("failed to read header: %w", err)
		return
	}

	index, err := mapColumns(headers)
	if err != nil {
		errs <- err
		return
	}

	rowNum := 0
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			fmt.Printf("📄 Ingestion done: %d rows read from %s\n", rowNum, source.URL)
			return
		}
		if err != nil {
			errs <- fmt.Errorf("read error at row %d: %w", rowNum+1, err)
			return
		}
		rowNum++

		sighting := model.RawSighting{
			Row:            rowNum,
			ScientificName: strings.TrimSpace(record[index["scientificname"]]),
			EnglishName:    strings.TrimSpace(record[index["englishname"]]),
			Family:         strings.TrimSpace(record[index["family"]]),
			Date:           strings.TrimSpace(record[index["date"]]),
			Latitude:       strings.TrimSpace(record[index["latitude"]]),
			Longitude:      strings.TrimSpace(record[index["longitude"]]),
			Elevation:      strings.TrimSpace(record[index["elevation_m"]]),
		}

		select {
		case <-ctx.Done():
			return
		case out <- sighting:
		}
	}
}

// openSource opens the raw table for reading. Remote fetches get a small
// bounded retry; nothing downstream of ingestion is ever retried.
func openSource(source model.Source) (io.Reader, func(), error) {
	if strings.HasPrefix(source.URL, "http") {
		resp, err := fetchWithRetry(source.URL, 3)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to GET raw table: %w", err)
		}
		return resp.Body, func() { resp.Body.Close() }, nil
	}

	file, err := os.Open(source.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open raw table: %w", err)
	}
	return file, func() { file.Close() }, nil
}

// fetchWithRetry GETs a URL with linear backoff between attempts.
func fetchWithRetry(url string, attempts int) (*http.Response, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			time.Sleep(time.Duration(i) * time.Second)
			fmt.Printf("🔄 Retrying GET %s (attempt %d/%d)\n", url, i+1, attempts)
		}
		resp, err := http.Get(url)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status %s", resp.Status)
			continue
		}
		return resp, nil
	}
	return nil, lastErr
}

// mapColumns resolves required column names to indices, case-insensitively.
func mapColumns(headers []string) (map[string]int, error) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(utils.CleanHeader(h))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[strings.ToLower(col)]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}
	return index, nil
}
