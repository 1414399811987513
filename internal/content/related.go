package content

// Related computes the related-content sequence for an item over the
// published aggregate (as returned by Repository.AllItems, newest first).
//
// Explicit relations come first, in the order the item declares them:
// writing lists related_reading then inspired_by, reading lists
// related_writing, projects list related_reading, related_writing, then
// inspired_by. Tag-overlap matches follow in the aggregate's date order.
// Duplicates collapse to their first occurrence, so a curated relation
// always outranks the same item found by tag. The item itself is excluded.
func Related(item Item, all []Item) []Item {
	var candidates []Item

	switch item.Type {
	case TypeWriting:
		candidates = appendBySlug(candidates, all, item.RelatedReading, TypeReading)
		candidates = appendBySlug(candidates, all, item.InspiredBy, "")
	case TypeReading:
		candidates = appendBySlug(candidates, all, item.RelatedWriting, TypeWriting)
	case TypeProjects:
		candidates = appendBySlug(candidates, all, item.RelatedReading, TypeReading)
		candidates = appendBySlug(candidates, all, item.RelatedWriting, TypeWriting)
		candidates = appendBySlug(candidates, all, item.InspiredBy, "")
	}

	if len(item.Tags) > 0 {
		for _, other := range all {
			if other.Slug == item.Slug {
				continue
			}
			if sharesTag(item, other) {
				candidates = append(candidates, other)
			}
		}
	}

	seen := map[string]struct{}{item.Slug: {}}
	related := make([]Item, 0, len(candidates))
	for _, candidate := range candidates {
		if _, ok := seen[candidate.Slug]; ok {
			continue
		}
		seen[candidate.Slug] = struct{}{}
		related = append(related, candidate)
	}
	return related
}

// appendBySlug resolves each listed slug against the aggregate, preserving
// the declared order. An empty want matches any category.
func appendBySlug(dst []Item, all []Item, slugs []string, want Type) []Item {
	for _, slug := range slugs {
		for _, item := range all {
			if item.Slug != slug {
				continue
			}
			if want != "" && item.Type != want {
				continue
			}
			dst = append(dst, item)
			break
		}
	}
	return dst
}

func sharesTag(a, b Item) bool {
	for _, tag := range b.Tags {
		if a.HasTag(tag) {
			return true
		}
	}
	return false
}
