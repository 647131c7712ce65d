// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package show

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/tcupboard/internal/platform/apperr"
	"github.com/taibuivan/tcupboard/internal/platform/metrics"
	"github.com/taibuivan/tcupboard/internal/platform/validate"
	"github.com/taibuivan/tcupboard/pkg/pagination"
	"github.com/taibuivan/tcupboard/pkg/pointer"
	"github.com/taibuivan/tcupboard/pkg/textnorm"
)

// ActNamer gives the registered name of an act.
type ActNamer interface {
	ActName(context context.Context, id int) (string, error)
}

// Service implements the show use cases.
type Service struct {
	repo       Repository
	referencer *CrossReferencer
	acts       ActNamer
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewService(repo Repository, referencer *CrossReferencer, acts ActNamer, metrics *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		referencer: referencer,
		acts:       acts,
		metrics:    metrics,
		logger:     logger,
	}
}

// ListShows returns one page of shows with participants resolved by a
// single lookup for the whole page.
func (service *Service) ListShows(context context.Context, filter Filter, params pagination.Params) (*Page, error) {
	rows, total, err := service.repo.ListShows(context, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, err
	}

	shows, skipped := FormatRows(rows)
	for _, entry := range skipped {
		service.metrics.RecordSkipped("show")
		service.logger.Warn("record_skipped_malformed",
			slog.String("entity", "show"),
			slog.Int("show_id", entry.ID),
			slog.String("field", entry.Field),
			slog.String("error", entry.Error),
		)
	}

	if err := service.referencer.ResolveShows(context, shows); err != nil {
		return nil, err
	}

	return &Page{Shows: shows, Skipped: skipped, Total: total}, nil
}

// ListShowsForAct lists shows whose participant text names the act.
func (service *Service) ListShowsForAct(context context.Context, actID int, filter Filter, params pagination.Params) (*Page, error) {
	name, err := service.acts.ActName(context, actID)
	if err != nil {
		return nil, err
	}

	filter.ActName = textnorm.Name(name)
	if filter.ActName == "" {
		return &Page{Shows: []*Show{}}, nil
	}

	return service.ListShows(context, filter, params)
}

func (service *Service) GetShow(context context.Context, id int) (*Show, error) {
	row, err := service.repo.GetShow(context, id)
	if err != nil {
		return nil, err
	}

	show, err := FormatRow(row)
	if err != nil {
		service.metrics.RecordSkipped("show")
		unavailable := apperr.Unprocessable("The show record is unavailable")
		unavailable.Cause = err
		return nil, unavailable
	}

	if err := service.referencer.ResolveShows(context, []*Show{show}); err != nil {
		return nil, err
	}
	return show, nil
}

// CreateShow stores a show. Participants are joined into the stored text form.
func (service *Service) CreateShow(context context.Context, input *CreateInput) (*Show, error) {
	validator := &validate.Validator{}
	validator.Custom(FieldVenueID, input.VenueID < 1, "Must be a positive integer")
	validator.Custom(FieldStart, input.Start.IsZero(), "This field is required")
	validator.URL(FieldEventLink, input.EventLink)

	bands, err := JoinParticipants(input.Participants)
	validator.Custom(FieldParticipants, err != nil, "Names must not contain commas")
	validator.Custom(FieldParticipants, err == nil && bands == "", "At least one participant is required")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	show := &Show{
		VenueID:    input.VenueID,
		Bands:      bands,
		Start:      input.Start,
		EventLink:  optional(input.EventLink),
		FlyerImage: optional(input.FlyerImage),
	}

	if err := service.repo.CreateShow(context, show); err != nil {
		return nil, err
	}

	if err := service.referencer.ResolveShows(context, []*Show{show}); err != nil {
		return nil, err
	}

	service.logger.Info("show_created", slog.Int("show_id", show.ID), slog.Int("venue_id", show.VenueID))
	return show, nil
}

// ImportShows stores shows produced by the calendar importer, skipping
// those already present.
func (service *Service) ImportShows(context context.Context, shows []*Show) (int, error) {
	inserted, err := service.repo.UpsertShows(context, shows)
	if err != nil {
		return inserted, err
	}

	service.logger.Info("shows_imported", slog.Int("received", len(shows)), slog.Int("inserted", inserted))
	return inserted, nil
}

func optional(value string) *string {
	if value = strings.TrimSpace(value); value == "" {
		return nil
	}
	return pointer.To(value)
}
