package usage

import (
	"fmt"

	"bikeusage/domain/core"
)

// Type is the semantic usage archetype of a cluster or station.
type Type int

// Declaration order is the tie-break order wherever two types compare equal.
const (
	Recreational Type = iota
	MixedRecreational
	Mixed
	MixedUtilitarian
	Utilitarian
)

// All lists every usage type in declaration order.
var All = []Type{Recreational, MixedRecreational, Mixed, MixedUtilitarian, Utilitarian}

var names = map[Type]string{
	Recreational:      "recreational",
	MixedRecreational: "mixed_recreational",
	Mixed:             "mixed",
	MixedUtilitarian:  "mixed_utilitarian",
	Utilitarian:       "utilitarian",
}

func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("usage(%d)", int(t))
}

// IsMixed reports whether t is one of the mixed archetypes.
func (t Type) IsMixed() bool {
	return t == Mixed || t == MixedRecreational || t == MixedUtilitarian
}

// Parse maps a name back to its Type. "mixed recreational" is accepted as an alias.
func Parse(s string) (Type, error) {
	for t, n := range names {
		if n == s {
			return t, nil
		}
	}
	switch s {
	case "mixed recreational":
		return MixedRecreational, nil
	case "mixed utilitarian":
		return MixedUtilitarian, nil
	}
	return 0, fmt.Errorf("unknown usage type %q", s)
}

// rankTable maps k to the usage type of each ascending utilitarian-score rank.
var rankTable = map[int][]Type{
	2: {Recreational, Utilitarian},
	3: {Recreational, Mixed, Utilitarian},
	4: {Recreational, MixedRecreational, MixedUtilitarian, Utilitarian},
}

// ValidateK rejects cluster counts without a semantic labeling.
func ValidateK(k int) error {
	if _, ok := rankTable[k]; !ok {
		return core.NewUnsupportedKError(k)
	}
	return nil
}

// ForRank returns the usage type for the rank-th lowest utilitarian score among k clusters.
func ForRank(k, rank int) (Type, error) {
	table, ok := rankTable[k]
	if !ok {
		return 0, core.NewUnsupportedKError(k)
	}
	if rank < 0 || rank >= len(table) {
		return 0, fmt.Errorf("rank %d out of range for k=%d", rank, k)
	}
	return table[rank], nil
}

// TypesFor returns the usage types produced for k clusters, lowest score first.
func TypesFor(k int) ([]Type, error) {
	table, ok := rankTable[k]
	if !ok {
		return nil, core.NewUnsupportedKError(k)
	}
	out := make([]Type, len(table))
	copy(out, table)
	return out, nil
}
