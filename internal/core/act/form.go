// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package act

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/taibuivan/tcupboard/internal/platform/apperr"
	"github.com/taibuivan/tcupboard/internal/platform/constants"
	requestutil "github.com/taibuivan/tcupboard/internal/platform/request"
	"github.com/taibuivan/tcupboard/internal/platform/validate"
	"github.com/taibuivan/tcupboard/pkg/fieldcodec"
)

// # Submitted Form

// Form is an add or edit submission. Edits replace the whole record.
//
// Images holds asset references returned by the upload endpoint in this
// session. ExistingImages holds the references the client kept from the stored
// record; nil means "keep what is stored".
type Form struct {
	Name           string            `json:"name"`
	Genre          []string          `json:"genre"`
	GroupSize      []string          `json:"group_size"`
	Contact        string            `json:"contact"`
	SocialLinks    map[string]string `json:"social_links"`
	MusicLinks     map[string]string `json:"music_links"`
	Images         []string          `json:"images"`
	ExistingImages []string          `json:"existing_images"`
	PlayShows      string            `json:"play_shows"`
	Location       string            `json:"location"`
	Truncate       bool              `json:"truncate"`
}

// ParseForm reads a [Form] from a JSON, urlencoded or multipart request body.
//
// Form-encoded list fields may be repeated or sent as one JSON array. Genre
// additionally accepts comma-separated text. Link maps are sent as JSON
// objects. Blank list entries are dropped since they are caller-provided.
func ParseForm(request *http.Request) (*Form, error) {
	mediaType, _, _ := mime.ParseMediaType(request.Header.Get("Content-Type"))

	var form *Form
	var err error

	switch mediaType {
	case "application/json":
		form = &Form{}
		err = requestutil.DecodeJSON(request, form)
	case "multipart/form-data":
		if err = request.ParseMultipartForm(constants.MaxMultipartMemory); err != nil {
			return nil, validate.ErrInvalidForm
		}
		form, err = formFromValues(request.MultipartForm.Value)
	default:
		if err = request.ParseForm(); err != nil {
			return nil, validate.ErrInvalidForm
		}
		form, err = formFromValues(request.PostForm)
	}
	if err != nil {
		return nil, err
	}

	form.normalize()
	return form, nil
}

func formFromValues(values url.Values) (*Form, error) {
	form := &Form{
		Name:      values.Get(FieldName),
		Contact:   values.Get(FieldContact),
		PlayShows: values.Get(FieldPlayShows),
		Location:  values.Get(FieldLocation),
	}

	switch values.Get(FieldTruncate) {
	case "true", "1", "yes", "on":
		form.Truncate = true
	}

	var errs []error
	var err error

	if form.Genre, err = listValue(FieldGenre, values[FieldGenre], true); err != nil {
		errs = append(errs, err)
	}
	if form.GroupSize, err = listValue(FieldGroupSize, values[FieldGroupSize], false); err != nil {
		errs = append(errs, err)
	}
	if form.Images, err = listValue(FieldImages, values[FieldImages], false); err != nil {
		errs = append(errs, err)
	}
	if _, present := values[FieldExistingImages]; present {
		if form.ExistingImages, err = listValue(FieldExistingImages, values[FieldExistingImages], false); err != nil {
			errs = append(errs, err)
		}
	}
	if form.SocialLinks, err = mapValue(FieldSocialLinks, values.Get(FieldSocialLinks)); err != nil {
		errs = append(errs, err)
	}
	if form.MusicLinks, err = mapValue(FieldMusicLinks, values.Get(FieldMusicLinks)); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, formError(errs)
	}
	return form, nil
}

// normalize trims scalars, drops blank list entries and completes link maps.
func (form *Form) normalize() {
	form.Name = strings.TrimSpace(form.Name)
	form.Contact = strings.TrimSpace(form.Contact)
	form.PlayShows = strings.TrimSpace(form.PlayShows)
	form.Location = strings.TrimSpace(form.Location)

	form.Genre = fieldcodec.DropBlank(trimAll(form.Genre))
	form.GroupSize = fieldcodec.DropBlank(form.GroupSize)
	form.Images = fieldcodec.DropBlank(form.Images)
	if form.ExistingImages != nil {
		form.ExistingImages = fieldcodec.DropBlank(form.ExistingImages)
	}

	form.SocialLinks = fieldcodec.WithKeys(form.SocialLinks, SocialKeys)
	form.MusicLinks = fieldcodec.WithKeys(form.MusicLinks, MusicKeys)
}

// listValue decodes a form-encoded list field.
func listValue(field string, values []string, commaText bool) ([]string, error) {
	if len(values) != 1 {
		return values, nil
	}

	single := strings.TrimSpace(values[0])
	switch {
	case strings.HasPrefix(single, "["):
		var items []string
		if err := json.Unmarshal([]byte(single), &items); err != nil {
			return nil, &apperr.FieldError{Field: field, Message: "Must be a JSON array of strings"}
		}
		return items, nil
	case commaText:
		return strings.Split(single, ","), nil
	default:
		return values, nil
	}
}

// mapValue decodes a form-encoded link map sent as a JSON object.
func mapValue(field, text string) (map[string]string, error) {
	links, err := fieldcodec.DecodeStructured(field, text, nil)
	if err != nil {
		return nil, &apperr.FieldError{Field: field, Message: "Must be a JSON object of strings"}
	}
	return links, nil
}

func trimAll(items []string) []string {
	trimmed := make([]string, len(items))
	for i, item := range items {
		trimmed[i] = strings.TrimSpace(item)
	}
	return trimmed
}

func formError(errs []error) error {
	details := make([]apperr.FieldError, 0, len(errs))
	for _, err := range errs {
		var fieldErr *apperr.FieldError
		if errors.As(err, &fieldErr) {
			details = append(details, *fieldErr)
		}
	}
	return apperr.ValidationError("Invalid form payload", details...)
}
