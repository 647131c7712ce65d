// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tcupboard/pkg/pointer"
)

func TestTo_Copies(t *testing.T) {
	capacity := 120
	p := pointer.To(capacity)
	capacity = 0

	assert.Equal(t, 120, *p)
}

func TestVal(t *testing.T) {
	assert.Equal(t, "", pointer.Val[string](nil))
	assert.Equal(t, 7, pointer.Val(pointer.To(7)))
}
