package services

import (
	"encoding/json"

	"linknest/internal/models"
)

// Profile link ordering lives in Profile.LinkOrder as a JSON array of
// ProfileLink ids. The stored order can drift from reality (a crash
// between deleting a link and pruning the order, or an order written
// by a stale tab), so readers normalize instead of trusting it: ids
// that no longer resolve are dropped, links missing from the order are
// appended in insertion order.

// ParseOrder decodes a stored order string. A null/empty value yields
// the links' natural order.
func ParseOrder(raw string, links []models.ProfileLink) []uint {
	if raw == "" {
		ids := make([]uint, 0, len(links))
		for _, l := range links {
			ids = append(ids, l.ID)
		}
		return ids
	}

	var ids []uint
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		ids = nil
	}
	return normalizeOrder(ids, links)
}

func normalizeOrder(ids []uint, links []models.ProfileLink) []uint {
	known := make(map[uint]struct{}, len(links))
	for _, l := range links {
		known[l.ID] = struct{}{}
	}

	out := make([]uint, 0, len(links))
	seen := make(map[uint]struct{}, len(links))
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			continue // stale id, link deleted
		}
		if _, dup := seen[id]; dup {
			continue
		}
		out = append(out, id)
		seen[id] = struct{}{}
	}

	// Links created since the order was last written go to the end.
	for _, l := range links {
		if _, ok := seen[l.ID]; !ok {
			out = append(out, l.ID)
		}
	}

	return out
}

// OrderedProfileLinks returns links arranged per the stored order.
func OrderedProfileLinks(raw string, links []models.ProfileLink) []models.ProfileLink {
	byID := make(map[uint]models.ProfileLink, len(links))
	for _, l := range links {
		byID[l.ID] = l
	}

	ids := ParseOrder(raw, links)
	out := make([]models.ProfileLink, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID[id])
	}
	return out
}

// EncodeOrder serializes an id list for storage.
func EncodeOrder(ids []uint) string {
	if ids == nil {
		ids = []uint{}
	}
	data, _ := json.Marshal(ids)
	return string(data)
}

// AppendToOrder adds id at the end of a stored order.
func AppendToOrder(raw string, id uint) string {
	var ids []uint
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &ids)
	}
	return EncodeOrder(append(ids, id))
}

// RemoveFromOrder drops id from a stored order, keeping the relative
// order of the remaining ids.
func RemoveFromOrder(raw string, id uint) string {
	var ids []uint
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &ids)
	}

	out := make([]uint, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return EncodeOrder(out)
}
