// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sourcegraph/conc/pool"

	"github.com/taibuivan/tcupboard/internal/core/show"
	"github.com/taibuivan/tcupboard/internal/platform/constants"
	"github.com/taibuivan/tcupboard/internal/platform/metrics"
	"github.com/taibuivan/tcupboard/pkg/pointer"
)

const (
	defaultConcurrency = 4
	fetchTimeout       = 20 * time.Second
	userAgent          = constants.AppName + "/" + constants.AppVersion + " (calendar import)"
)

// Sink stores imported shows and reports how many were new.
type Sink interface {
	ImportShows(context context.Context, shows []*show.Show) (int, error)
}

// Options tune an [Importer]. Zero values select defaults.
type Options struct {
	Client      *http.Client
	Concurrency int
	Metrics     *metrics.Metrics
}

// VenueReport is the outcome of one source.
type VenueReport struct {
	VenueID  int    `json:"venue_id"`
	Name     string `json:"name"`
	Found    int    `json:"found"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

// Report summarises one import run.
type Report struct {
	Venues   []VenueReport `json:"venues"`
	Inserted int           `json:"inserted"`
	Failed   int           `json:"failed"`
}

// Importer fetches venue calendars and hands the parsed shows to a [Sink].
type Importer struct {
	sources     []Source
	sink        Sink
	client      *http.Client
	concurrency int
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

func NewImporter(sources []Source, sink Sink, options Options, logger *slog.Logger) *Importer {
	client := options.Client
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}

	concurrency := options.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Importer{
		sources:     sources,
		sink:        sink,
		client:      client,
		concurrency: concurrency,
		metrics:     options.Metrics,
		logger:      logger,
	}
}

// Run imports every source. A failing source is reported and does not stop
// the others; only cancellation of context fails the run.
func (importer *Importer) Run(context context.Context) (*Report, error) {
	venues := make([]VenueReport, len(importer.sources))

	p := pool.New().WithMaxGoroutines(importer.concurrency)
	for i := range importer.sources {
		source := &importer.sources[i]
		p.Go(func() {
			venues[i] = importer.importSource(context, source)
		})
	}
	p.Wait()

	if err := context.Err(); err != nil {
		return nil, fmt.Errorf("ingest: run cancelled: %w", err)
	}

	report := &Report{Venues: venues}
	for _, venue := range venues {
		report.Inserted += venue.Inserted
		if venue.Error != "" {
			report.Failed++
		}
	}

	importer.logger.Info("import_finished",
		slog.Int("sources", len(venues)),
		slog.Int("inserted", report.Inserted),
		slog.Int("failed", report.Failed),
	)
	return report, nil
}

func (importer *Importer) importSource(context context.Context, source *Source) VenueReport {
	report := VenueReport{VenueID: source.VenueID, Name: source.Name}
	logger := importer.logger.With(slog.String("venue", source.Name), slog.Int("venue_id", source.VenueID))

	fail := func(err error) VenueReport {
		importer.metrics.ImportFailed(source.Name)
		logger.Warn("import_source_failed", slog.String("error", err.Error()))
		report.Error = err.Error()
		return report
	}

	body, err := importer.fetch(context, source.URL)
	if err != nil {
		return fail(err)
	}
	defer body.Close()

	shows, skipped, err := Parse(body, source)
	if err != nil {
		return fail(err)
	}
	report.Found = len(shows)
	report.Skipped = skipped

	inserted, err := importer.sink.ImportShows(context, shows)
	if err != nil {
		return fail(err)
	}
	report.Inserted = inserted

	importer.metrics.ImportedShows(source.Name, inserted, len(shows)-inserted)
	logger.Info("import_source_done",
		slog.Int("found", len(shows)),
		slog.Int("inserted", inserted),
		slog.Int("skipped", skipped),
	)
	return report
}

func (importer *Importer) fetch(context context.Context, url string) (io.ReadCloser, error) {
	request, err := http.NewRequestWithContext(context, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	request.Header.Set("User-Agent", userAgent)

	response, err := importer.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	if response.StatusCode != http.StatusOK {
		_ = response.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, response.StatusCode)
	}
	return response.Body, nil
}

// # Parsing

// Parse reads the shows of one listing page. Elements without a readable
// start or without participants are counted as skipped.
func Parse(reader io.Reader, source *Source) ([]*show.Show, int, error) {
	document, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, 0, fmt.Errorf("parse html: %w", err)
	}

	shows := []*show.Show{}
	skipped := 0

	document.Find(source.Selectors.Event).Each(func(_ int, event *goquery.Selection) {
		parsed, ok := parseEvent(event, source)
		if !ok {
			skipped++
			return
		}
		shows = append(shows, parsed)
	})

	return shows, skipped, nil
}

func parseEvent(event *goquery.Selection, source *Source) (*show.Show, bool) {
	selectors := source.Selectors

	startNode := event.Find(selectors.Start).First()
	startText := strings.TrimSpace(startNode.Text())
	if selectors.StartAttr != "" {
		startText = strings.TrimSpace(startNode.AttrOr(selectors.StartAttr, ""))
	}

	start, err := time.ParseInLocation(source.TimeLayout, startText, source.location)
	if err != nil {
		return nil, false
	}

	var names []string
	event.Find(selectors.Participants).Each(func(_ int, participant *goquery.Selection) {
		names = append(names, show.SplitParticipants(participant.Text())...)
	})

	bands, err := show.JoinParticipants(names)
	if err != nil || bands == "" {
		return nil, false
	}

	imported := &show.Show{
		VenueID:   source.VenueID,
		VenueName: source.Name,
		Bands:     bands,
		Start:     start.UTC(),
	}

	if selectors.Link != "" {
		if link := source.resolve(event.Find(selectors.Link).First().AttrOr("href", "")); link != "" {
			imported.EventLink = pointer.To(link)
		}
	}
	if selectors.Flyer != "" {
		if flyer := source.resolve(event.Find(selectors.Flyer).First().AttrOr("src", "")); flyer != "" {
			imported.FlyerImage = pointer.To(flyer)
		}
	}

	return imported, true
}
