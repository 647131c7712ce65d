// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package act_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tcupboard/internal/core/act"
	"github.com/taibuivan/tcupboard/internal/platform/apperr"
	"github.com/taibuivan/tcupboard/internal/platform/dberr"
	"github.com/taibuivan/tcupboard/pkg/pagination"
	"github.com/taibuivan/tcupboard/pkg/textnorm"
)

// # Fakes

type memoryRepository struct {
	rows   map[int]map[string]any
	nextID int
}

func newMemoryRepository(rows ...map[string]any) *memoryRepository {
	repository := &memoryRepository{rows: map[int]map[string]any{}, nextID: 100}
	for _, row := range rows {
		id, _ := row["id"].(int32)
		repository.rows[int(id)] = row
	}
	return repository
}

func (repository *memoryRepository) ListActs(_ context.Context, _ act.Filter, limit, offset int) ([]map[string]any, int, error) {
	ids := make([]int, 0, len(repository.rows))
	for id := range repository.rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var page []map[string]any
	for i, id := range ids {
		if i >= offset && len(page) < limit {
			page = append(page, repository.rows[id])
		}
	}
	return page, len(ids), nil
}

func (repository *memoryRepository) GetAct(_ context.Context, id int) (map[string]any, error) {
	row, ok := repository.rows[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return row, nil
}

func (repository *memoryRepository) CreateAct(_ context.Context, a *act.Act) error {
	repository.nextID++
	a.ID = repository.nextID
	repository.rows[a.ID] = a.Row()
	return nil
}

func (repository *memoryRepository) UpdateAct(_ context.Context, a *act.Act) error {
	if _, ok := repository.rows[a.ID]; !ok {
		return dberr.ErrNotFound
	}
	repository.rows[a.ID] = a.Row()
	return nil
}

func (repository *memoryRepository) FindActsByNormalizedNames(_ context.Context, names []string) (map[string]int, error) {
	index, _ := repository.ActNameIndex(context.Background())
	found := map[string]int{}
	for _, name := range names {
		if id, ok := index[name]; ok {
			found[name] = id
		}
	}
	return found, nil
}

func (repository *memoryRepository) ActNameIndex(context.Context) (map[string]int, error) {
	index := map[string]int{}
	for id, row := range repository.rows {
		name, _ := row["name"].(string)
		key := textnorm.Name(name)
		if current, ok := index[key]; !ok || id < current {
			index[key] = id
		}
	}
	return index, nil
}

type recordingRemover struct{ removed []string }

func (remover *recordingRemover) Remove(_ context.Context, reference string) error {
	remover.removed = append(remover.removed, reference)
	return nil
}

type countingInvalidator struct{ calls int }

func (invalidator *countingInvalidator) Invalidate(context.Context) error {
	invalidator.calls++
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func uploads(n int) []string {
	list := make([]string, n)
	for i := range list {
		list[i] = fmt.Sprintf("/assets/images/new-%d.png", i)
	}
	return list
}

func newService(repository act.Repository, remover act.ImageRemover, invalidator act.IndexInvalidator) *act.Service {
	return act.NewService(repository, act.Options{
		Images:      remover,
		Index:       invalidator,
		AssetPrefix: "/assets/images",
	}, discardLogger())
}

func validForm() *act.Form {
	return &act.Form{
		Name:      "Bar Band",
		Genre:     []string{"folk"},
		GroupSize: []string{act.GroupDuo},
		PlayShows: act.PlayShowsMaybe,
		Contact:   "bar@example.com",
	}
}

// # Reads

func TestService_ListActs_PartialResult(t *testing.T) {
	broken := nativeRow()
	broken["id"] = int32(9)
	broken["music_links"] = "{oops"

	service := newService(newMemoryRepository(nativeRow(), broken), nil, nil)

	page, err := service.ListActs(context.Background(), act.Filter{}, pagination.Params{Page: 1, Limit: 24})
	require.NoError(t, err)

	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Acts, 1)
	assert.Equal(t, 7, page.Acts[0].ID)
	require.Len(t, page.Skipped, 1)
	assert.Equal(t, 9, page.Skipped[0].ID)
	assert.Equal(t, "music_links", page.Skipped[0].Field)
}

func TestService_GetAct_Malformed(t *testing.T) {
	broken := nativeRow()
	broken["social_links"] = "[]"

	service := newService(newMemoryRepository(broken), nil, nil)

	_, err := service.GetAct(context.Background(), 7)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPStatus)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "social_links", appErr.Details[0].Field)

	// The name is still readable for cross-referencing.
	name, err := service.ActName(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "The Foos", name)
}

func TestService_GetEditForm(t *testing.T) {
	service := newService(newMemoryRepository(textRow2()), nil, nil)

	form, err := service.GetEditForm(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 10, form.ImageLimit)
	assert.Equal(t, act.GroupSizes, form.GroupSizes)

	again, err := act.FormatRow(form.Act.Row())
	require.NoError(t, err)
	assert.Equal(t, form.Act, again)
}

// textRow2 is textRow with an integer id, as the memory repository keys rows by int32.
func textRow2() map[string]any {
	row := textRow()
	row["id"] = int32(7)
	return row
}

// # Writes

func TestService_CreateAct(t *testing.T) {
	repository := newMemoryRepository()
	invalidator := &countingInvalidator{}
	service := newService(repository, nil, invalidator)

	form := validForm()
	form.Images = []string{"/assets/images/a.png", "https://cdn.example.com/b.jpg", "/assets/images/a.png"}

	created, err := service.CreateAct(context.Background(), form)
	require.NoError(t, err)

	assert.Equal(t, 101, created.ID)
	assert.Equal(t, []string{"/assets/images/a.png", "https://cdn.example.com/b.jpg"}, created.Images)
	assert.Equal(t, 1, invalidator.calls)

	stored, err := service.GetAct(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, stored.SocialLinks, len(act.SocialKeys))
}

func TestService_CreateAct_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*act.Form)
		field  string
	}{
		{"missing_name", func(f *act.Form) { f.Name = "" }, act.FieldName},
		{"too_many_genres", func(f *act.Form) { f.Genre = []string{"a", "b", "c", "d"} }, act.FieldGenre},
		{"unknown_group_size", func(f *act.Form) { f.GroupSize = []string{"Orchestra"} }, act.FieldGroupSize},
		{"unknown_play_shows", func(f *act.Form) { f.PlayShows = "often" }, act.FieldPlayShows},
		{"bad_social_link", func(f *act.Form) { f.SocialLinks = map[string]string{"website": "foos.com"} }, "social_links.website"},
		{"foreign_image_path", func(f *act.Form) { f.Images = []string{"/etc/passwd"} }, act.FieldImages},
		{"image_path_escape", func(f *act.Form) { f.Images = []string{"/assets/images/../x"} }, act.FieldImages},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(newMemoryRepository(), nil, nil)

			form := validForm()
			tt.mutate(form)

			_, err := service.CreateAct(context.Background(), form)
			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

			fields := make([]string, 0, len(appErr.Details))
			for _, detail := range appErr.Details {
				fields = append(fields, detail.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

/*
TestService_CreateAct_Capacity rejects by default and truncates only on request.
*/
func TestService_CreateAct_Capacity(t *testing.T) {
	remover := &recordingRemover{}
	repository := newMemoryRepository()
	service := newService(repository, remover, nil)

	form := validForm()
	form.ExistingImages = uploads(12)[4:12] // 8 kept images
	form.Images = uploads(4)

	_, err := service.CreateAct(context.Background(), form)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "CAPACITY_EXCEEDED", appErr.Code)
	assert.Contains(t, appErr.Details[0].Message, "remove 2 item(s)")
	assert.Empty(t, repository.rows)
	assert.Empty(t, remover.removed)

	form.Truncate = true
	created, err := service.CreateAct(context.Background(), form)
	require.NoError(t, err)

	assert.Len(t, created.Images, 10)
	assert.Equal(t, []string{"/assets/images/new-2.png", "/assets/images/new-3.png"}, remover.removed)
}

func TestService_UpdateAct_KeepsStoredImages(t *testing.T) {
	repository := newMemoryRepository(nativeRow())
	service := newService(repository, nil, nil)

	form := validForm()
	form.Images = []string{"/assets/images/c.png", "/assets/images/a.png"}

	updated, err := service.UpdateAct(context.Background(), 7, form)
	require.NoError(t, err)

	assert.Equal(t, "Bar Band", updated.Name)
	assert.Equal(t, []string{"/assets/images/a.png", "/assets/images/b c.png", "/assets/images/c.png"}, updated.Images)
}

func TestService_UpdateAct_ClientListReplaces(t *testing.T) {
	repository := newMemoryRepository(nativeRow())
	service := newService(repository, nil, nil)

	form := validForm()
	form.ExistingImages = []string{"/assets/images/b c.png"}

	updated, err := service.UpdateAct(context.Background(), 7, form)
	require.NoError(t, err)
	assert.Equal(t, []string{"/assets/images/b c.png"}, updated.Images)
}

func TestService_UpdateAct_NotFound(t *testing.T) {
	service := newService(newMemoryRepository(), nil, nil)

	_, err := service.UpdateAct(context.Background(), 42, validForm())
	assert.ErrorIs(t, err, dberr.ErrNotFound)
}
