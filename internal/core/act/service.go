// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package act

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/tcupboard/internal/core/asset"
	"github.com/taibuivan/tcupboard/internal/platform/apperr"
	"github.com/taibuivan/tcupboard/internal/platform/constants"
	"github.com/taibuivan/tcupboard/internal/platform/database/schema"
	"github.com/taibuivan/tcupboard/internal/platform/metrics"
	"github.com/taibuivan/tcupboard/internal/platform/validate"
	"github.com/taibuivan/tcupboard/pkg/fieldcodec"
	"github.com/taibuivan/tcupboard/pkg/pagination"
)

// ImageRemover deletes stored uploads that will not be referenced.
type ImageRemover interface {
	Remove(context context.Context, reference string) error
}

// IndexInvalidator is told when act names may have changed.
type IndexInvalidator interface {
	Invalidate(context context.Context) error
}

// Service implements the act registry use cases.
type Service struct {
	repo        Repository
	images      ImageRemover
	index       IndexInvalidator
	assetPrefix string
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// Options carries the optional collaborators of [Service].
type Options struct {
	// Images removes uploads dropped by a confirmed truncation.
	Images ImageRemover
	// Index is invalidated after every write.
	Index IndexInvalidator
	// AssetPrefix is the public path prefix of locally stored uploads.
	AssetPrefix string
	Metrics     *metrics.Metrics
}

func NewService(repo Repository, options Options, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		images:      options.Images,
		index:       options.Index,
		assetPrefix: strings.TrimSuffix(options.AssetPrefix, "/"),
		metrics:     options.Metrics,
		logger:      logger,
	}
}

// # Reads

// ListActs returns one page of formatted acts. Malformed records are skipped
// and reported, never failing the page.
func (service *Service) ListActs(context context.Context, filter Filter, params pagination.Params) (*Page, error) {
	rows, total, err := service.repo.ListActs(context, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, err
	}

	acts, skipped := FormatRows(rows)
	for _, entry := range skipped {
		service.metrics.RecordSkipped("act")
		service.logger.Warn("record_skipped_malformed",
			slog.String("entity", "act"),
			slog.Int("act_id", entry.ID),
			slog.String("field", entry.Field),
			slog.String("error", entry.Error),
		)
	}

	return &Page{Acts: acts, Skipped: skipped, Total: total}, nil
}

// GetAct returns one formatted act. A stored record that cannot be decoded
// is reported as unavailable.
func (service *Service) GetAct(context context.Context, id int) (*Act, error) {
	row, err := service.repo.GetAct(context, id)
	if err != nil {
		return nil, err
	}

	act, err := FormatRow(row)
	if err != nil {
		return nil, service.unavailable(id, err)
	}
	return act, nil
}

// ActName returns the stored name of an act without decoding its other fields.
func (service *Service) ActName(context context.Context, id int) (string, error) {
	row, err := service.repo.GetAct(context, id)
	if err != nil {
		return "", err
	}

	name, err := fieldcodec.String(schema.Act.Name, row[schema.Act.Name])
	if err != nil {
		return "", service.unavailable(id, err)
	}
	return name, nil
}

// EditForm is the prefill payload for the edit screen.
type EditForm struct {
	Act        *Act     `json:"act"`
	GroupSizes []string `json:"group_size_options"`
	PlayShows  []string `json:"play_shows_options"`
	ImageLimit int      `json:"image_limit"`
}

// GetEditForm formats the stored act for the edit screen.
func (service *Service) GetEditForm(context context.Context, id int) (*EditForm, error) {
	act, err := service.GetAct(context, id)
	if err != nil {
		return nil, err
	}

	return &EditForm{
		Act:        act,
		GroupSizes: GroupSizes,
		PlayShows:  PlayShowsOptions,
		ImageLimit: constants.MaxImagesPerEntity,
	}, nil
}

// # Writes

// CreateAct validates the form, merges its images and stores a new act.
func (service *Service) CreateAct(context context.Context, form *Form) (*Act, error) {
	if err := service.validate(form); err != nil {
		return nil, err
	}

	act := form.act()
	images, dropped, err := service.mergeImages(form.ExistingImages, form.Images, form.Truncate)
	if err != nil {
		return nil, err
	}
	act.Images = images

	if err := service.repo.CreateAct(context, act); err != nil {
		return nil, err
	}

	service.removeDropped(context, images, dropped)

	service.invalidateIndex(context)
	service.logger.Info("act_created", slog.Int("act_id", act.ID), slog.String("name", act.Name))
	return act, nil
}

// UpdateAct replaces every field of an act. When the form carries no
// existing_images the stored list is kept and the new uploads are appended.
func (service *Service) UpdateAct(context context.Context, id int, form *Form) (*Act, error) {
	if err := service.validate(form); err != nil {
		return nil, err
	}

	existing := form.ExistingImages
	if existing == nil {
		stored, err := service.GetAct(context, id)
		if err != nil {
			return nil, err
		}
		existing = stored.Images
	}

	images, dropped, err := service.mergeImages(existing, form.Images, form.Truncate)
	if err != nil {
		return nil, err
	}

	act := form.act()
	act.ID = id
	act.Images = images

	if err := service.repo.UpdateAct(context, act); err != nil {
		return nil, err
	}

	service.removeDropped(context, images, dropped)

	service.invalidateIndex(context)
	service.logger.Info("act_updated", slog.Int("act_id", act.ID))
	return act, nil
}

// mergeImages applies the image cap. Without truncate an overflow rejects
// the write; with it the trailing uploads are dropped and returned so their
// files can be removed once the record is saved.
func (service *Service) mergeImages(existing, incoming []string, truncate bool) ([]string, []string, error) {
	limit := constants.MaxImagesPerEntity

	merged, err := asset.Merge(existing, incoming, limit)
	capacity := asset.AsCapacityExceeded(err)
	if capacity == nil {
		return merged, nil, err
	}

	if !truncate {
		service.metrics.CapacityRejected("act")
		return nil, nil, apperr.CapacityExceeded(FieldImages, capacity.Limit, capacity.Overflow)
	}

	kept := asset.FitIncoming(existing, incoming, limit)
	merged, err = asset.Merge(existing, kept, limit)
	if err != nil {
		// Existing alone is over the cap; truncation never drops stored images.
		service.metrics.CapacityRejected("act")
		capacity = asset.AsCapacityExceeded(err)
		return nil, nil, apperr.CapacityExceeded(FieldExistingImages, capacity.Limit, capacity.Overflow)
	}

	service.logger.Info("act_images_truncated", slog.Int("dropped", len(incoming)-len(kept)))
	return merged, incoming[len(kept):], nil
}

// removeDropped deletes uploads that did not make it into the merged list.
// Failures are logged only; the record is already saved.
func (service *Service) removeDropped(context context.Context, merged, dropped []string) {
	if service.images == nil {
		return
	}

	kept := make(map[string]struct{}, len(merged))
	for _, reference := range merged {
		kept[reference] = struct{}{}
	}

	for _, reference := range dropped {
		if _, ok := kept[reference]; ok {
			continue
		}
		if err := service.images.Remove(context, reference); err != nil {
			service.logger.Warn("act_image_remove_failed", slog.String("reference", reference), slog.Any("error", err))
		}
	}
}

func (service *Service) validate(form *Form) error {
	form.normalize()

	validator := &validate.Validator{}
	validator.Required(FieldName, form.Name).MaxLen(FieldName, form.Name, constants.MaxNameLength)
	validator.MaxItems(FieldGenre, len(form.Genre), constants.MaxGenres)
	validator.EachOneOf(FieldGroupSize, form.GroupSize, GroupSizes...)

	if form.PlayShows != "" {
		validator.OneOf(FieldPlayShows, form.PlayShows, PlayShowsOptions...)
	}
	if form.Contact != "" {
		validator.Email(FieldContact, form.Contact)
	}

	for _, key := range SocialKeys {
		validator.URL(FieldSocialLinks+"."+key, form.SocialLinks[key])
	}
	for _, key := range MusicKeys {
		validator.URL(FieldMusicLinks+"."+key, form.MusicLinks[key])
	}

	for _, reference := range append(append([]string{}, form.ExistingImages...), form.Images...) {
		validator.Custom(FieldImages, !service.validReference(reference), "Must be an uploaded asset path or an absolute URL")
	}

	return validator.Err()
}

// validReference accepts local upload paths and absolute http(s) URLs.
func (service *Service) validReference(reference string) bool {
	if service.assetPrefix != "" && strings.HasPrefix(reference, service.assetPrefix+"/") {
		return !strings.Contains(reference, "..")
	}

	check := &validate.Validator{}
	check.URL(FieldImages, reference)
	return !check.HasErrors()
}

func (service *Service) invalidateIndex(context context.Context) {
	if service.index == nil {
		return
	}
	if err := service.index.Invalidate(context); err != nil {
		service.logger.Warn("act_name_index_invalidate_failed", slog.Any("error", err))
	}
}

func (service *Service) unavailable(id int, err error) error {
	service.metrics.RecordSkipped("act")
	service.logger.Warn("record_unavailable_malformed", slog.String("entity", "act"), slog.Int("act_id", id), slog.Any("error", err))

	unavailable := apperr.Unprocessable("The act record is unavailable")
	unavailable.Cause = err
	if malformed := fieldcodec.AsMalformed(err); malformed != nil {
		unavailable.Details = []apperr.FieldError{{Field: malformed.Field, Message: "Stored value is malformed"}}
	}
	return unavailable
}

// act converts a validated form into an unsaved act.
func (form *Form) act() *Act {
	return &Act{
		Name:        form.Name,
		Genre:       form.Genre,
		GroupSize:   form.GroupSize,
		Contact:     form.Contact,
		SocialLinks: form.SocialLinks,
		MusicLinks:  form.MusicLinks,
		PlayShows:   form.PlayShows,
		Location:    form.Location,
	}
}
