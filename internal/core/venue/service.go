// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package venue

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/tcupboard/internal/platform/constants"
	"github.com/taibuivan/tcupboard/internal/platform/validate"
	"github.com/taibuivan/tcupboard/pkg/pointer"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListVenues(context context.Context, filter Filter, limit, offset int) ([]*Venue, int, error) {
	return service.repo.ListVenues(context, filter, limit, offset)
}

func (service *Service) GetVenue(context context.Context, id int) (*Venue, error) {
	return service.repo.GetVenue(context, id)
}

func (service *Service) CreateVenue(context context.Context, venue *Venue) error {
	if err := service.validate(venue); err != nil {
		return err
	}

	if err := service.repo.CreateVenue(context, venue); err != nil {
		return err
	}

	service.logger.Info("venue_created", slog.Int("venue_id", venue.ID), slog.String("name", venue.Name))
	return nil
}

func (service *Service) UpdateVenue(context context.Context, id int, venue *Venue) error {
	venue.ID = id
	if err := service.validate(venue); err != nil {
		return err
	}

	if err := service.repo.UpdateVenue(context, venue); err != nil {
		return err
	}

	service.logger.Info("venue_updated", slog.Int("venue_id", venue.ID))
	return nil
}

func (service *Service) validate(venue *Venue) error {
	venue.Name = strings.TrimSpace(venue.Name)

	validator := &validate.Validator{}
	validator.Required(FieldName, venue.Name).MaxLen(FieldName, venue.Name, constants.MaxNameLength)

	if venue.Capacity != nil {
		validator.Custom(FieldCapacity, *venue.Capacity < 0, "Must not be negative")
	}

	// Cover images are either uploaded asset paths or absolute URLs.
	if cover := pointer.Val(venue.CoverImage); cover != "" && !strings.HasPrefix(cover, "/") {
		validator.URL(FieldCoverImage, cover)
	}

	return validator.Err()
}
