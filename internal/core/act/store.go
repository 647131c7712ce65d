// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package act

import "context"

// Repository is the storage boundary of the act registry.
//
// Reads return raw rows so that every schema revision goes through
// [FormatRow]. Writes take formatted acts and encode list and link fields
// into their stored text forms.
type Repository interface {
	ListActs(context context.Context, filter Filter, limit, offset int) ([]map[string]any, int, error)
	GetAct(context context.Context, id int) (map[string]any, error)
	CreateAct(context context.Context, act *Act) error
	UpdateAct(context context.Context, act *Act) error

	NameLookup
	// ActNameIndex returns every normalised act name with its lowest id.
	ActNameIndex(context context.Context) (map[string]int, error)
}

// NameLookup resolves normalised act names to act ids in one batched query.
//
// Keys of the result are the input names actually found. Absent keys mean
// "not registered" and are never an error.
type NameLookup interface {
	FindActsByNormalizedNames(context context.Context, names []string) (map[string]int, error)
}
