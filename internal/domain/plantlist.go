package domain

import "strings"

// PlantListSeparator joins garden plant lists in storage. Items never contain it.
const PlantListSeparator = ","

// EncodePlantList joins a list for storage. A nil list encodes to nil (NULL).
func EncodePlantList(items []string) *string {
	if items == nil {
		return nil
	}
	s := strings.Join(items, PlantListSeparator)
	return &s
}

// DecodePlantList splits a stored list. NULL and "" both decode to an empty list.
func DecodePlantList(stored *string) []string {
	if stored == nil || *stored == "" {
		return []string{}
	}
	return strings.Split(*stored, PlantListSeparator)
}
