// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tcupboard/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, slice.Map([]int{1, 2}, strconv.Itoa))
	assert.Nil(t, slice.Map[int, string](nil, strconv.Itoa))
}

func TestFilter(t *testing.T) {
	nonEmpty := func(s string) bool { return s != "" }

	assert.Equal(t, []string{"a", "b"}, slice.Filter([]string{"a", "", "b"}, nonEmpty))
	assert.Equal(t, []string{}, slice.Filter([]string{"", ""}, nonEmpty))
	assert.Equal(t, []string{}, slice.Filter[string](nil, nonEmpty))
}
