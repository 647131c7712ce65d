// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package show

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/taibuivan/tcupboard/internal/platform/metrics"
	"github.com/taibuivan/tcupboard/pkg/textnorm"
)

// # Participant Text

// Delimiter separates participant names in stored show text. Names cannot
// contain it; there is no escaping.
const Delimiter = ","

// SplitParticipants splits stored participant text into trimmed names,
// dropping blanks and keeping order.
func SplitParticipants(bands string) []string {
	names := []string{}
	for _, token := range strings.Split(bands, Delimiter) {
		if name := strings.TrimSpace(token); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// JoinParticipants builds stored participant text. A name containing the
// delimiter cannot be represented and is rejected.
func JoinParticipants(names []string) (string, error) {
	kept := make([]string, 0, len(names))
	for _, name := range names {
		if strings.Contains(name, Delimiter) {
			return "", fmt.Errorf("participant %q contains %q", name, Delimiter)
		}
		if name = strings.TrimSpace(name); name != "" {
			kept = append(kept, name)
		}
	}
	return strings.Join(kept, Delimiter+" "), nil
}

// ParticipantNames decodes from a JSON array of names or from one
// comma-separated string.
type ParticipantNames []string

// UnmarshalJSON implements [json.Unmarshaler].
func (names *ParticipantNames) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*names = SplitParticipants(text)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("participants: expected a string or an array of strings")
	}
	*names = list
	return nil
}

// # Cross-Reference

// NameLookup resolves normalised act names to ids with one batched query.
type NameLookup interface {
	FindActsByNormalizedNames(context context.Context, names []string) (map[string]int, error)
}

// Resolve pairs each name with the id its normalised form maps to in index.
// The first participant is the headliner.
func Resolve(names []string, index map[string]int) []Participant {
	participants := make([]Participant, len(names))
	for i, name := range names {
		participants[i] = Participant{Name: name, Headliner: i == 0}
		if id, ok := index[textnorm.Name(name)]; ok {
			participants[i].ActID = &id
		}
	}
	return participants
}

// Headliner returns the first participant, if any.
func Headliner(participants []Participant) (Participant, bool) {
	if len(participants) == 0 {
		return Participant{}, false
	}
	return participants[0], true
}

// CrossReferencer attaches resolved participants to shows.
type CrossReferencer struct {
	lookup  NameLookup
	metrics *metrics.Metrics
}

// NewCrossReferencer creates a cross-referencer over lookup.
func NewCrossReferencer(lookup NameLookup, metrics *metrics.Metrics) *CrossReferencer {
	return &CrossReferencer{lookup: lookup, metrics: metrics}
}

// ResolveShows fills Participants on every show with a single lookup for the
// distinct names across all of them. Unmatched names are not an error.
func (referencer *CrossReferencer) ResolveShows(context context.Context, shows []*Show) error {
	perShow := make([][]string, len(shows))
	var all []string
	for i, show := range shows {
		perShow[i] = SplitParticipants(show.Bands)
		all = append(all, perShow[i]...)
	}

	index := map[string]int{}
	if keys := textnorm.Names(all); len(keys) > 0 {
		found, err := referencer.lookup.FindActsByNormalizedNames(context, keys)
		if err != nil {
			return err
		}
		index = found
	}

	resolved, unresolved := 0, 0
	for i, show := range shows {
		show.Participants = Resolve(perShow[i], index)
		for _, participant := range show.Participants {
			if participant.ActID != nil {
				resolved++
			} else {
				unresolved++
			}
		}
	}

	referencer.metrics.Participants(resolved, unresolved)
	return nil
}
