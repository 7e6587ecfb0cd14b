package videos

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const defaultPerPage = 20

// applyFilters keeps records matching every populated filter. Filter order
// follows the request shape: title, unique_id, category, tags, date range,
// visibility, status.
func applyFilters(in []*Video, f Filters) []*Video {
	out := make([]*Video, 0, len(in))
	for _, v := range in {
		if f.Title != "" && !strings.Contains(strings.ToLower(v.Title), strings.ToLower(f.Title)) {
			continue
		}
		if f.UniqueID != "" && !strings.Contains(v.UniqueID, f.UniqueID) {
			continue
		}
		if f.Category != "" && v.Category != f.Category {
			continue
		}
		if len(f.Tags) > 0 && !anyTagMatch(v.Tags, f.Tags) {
			continue
		}
		if f.UploadedAfter != nil && v.UploadDate.Before(*f.UploadedAfter) {
			continue
		}
		if f.UploadedBefore != nil && v.UploadDate.After(*f.UploadedBefore) {
			continue
		}
		if f.IsPublic != nil && v.IsPublic != *f.IsPublic {
			continue
		}
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		out = append(out, v)
	}
	return out
}

// anyTagMatch reports whether the video carries at least one of the wanted tags.
func anyTagMatch(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

func sortVideos(vs []*Video, order SortOrder) {
	if order == "" {
		order = SortDateDesc
	}
	// Title sorts collate, not byte-compare, so accented titles land where a
	// reader expects them ("Étude" before "Zebra").
	var coll *collate.Collator
	if order == SortTitleAsc || order == SortTitleDesc {
		coll = collate.New(language.Und, collate.IgnoreCase)
	}
	sort.SliceStable(vs, func(i, j int) bool {
		switch order {
		case SortDateAsc:
			return vs[i].UploadDate.Before(vs[j].UploadDate)
		case SortTitleAsc:
			return coll.CompareString(vs[i].Title, vs[j].Title) < 0
		case SortTitleDesc:
			return coll.CompareString(vs[i].Title, vs[j].Title) > 0
		default: // date_desc
			return vs[i].UploadDate.After(vs[j].UploadDate)
		}
	})
}

// paginate slices out a 1-based page. A page beyond range yields an empty
// slice; totals always reflect the full filtered set.
func paginate(vs []*Video, page, perPage int) SearchResult {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	total := len(vs)
	totalPages := (total + perPage - 1) / perPage

	start := (page - 1) * perPage
	if start >= total {
		return SearchResult{Videos: []*Video{}, Total: total, Page: page, PerPage: perPage, TotalPages: totalPages}
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return SearchResult{Videos: vs[start:end], Total: total, Page: page, PerPage: perPage, TotalPages: totalPages}
}
