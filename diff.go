package glosa

// DiffResult represents the difference between the segments of two versions
// of a source file.
type DiffResult struct {
	// Added contains segments that are new (not in the previous version).
	Added []TranslationSegment

	// Removed contains segments that were removed (not in the new version).
	Removed []TranslationSegment

	// Unchanged contains segments that exist in both versions.
	Unchanged []TranslationSegment

	// Modified contains pairs of segments of the same type and ordinal
	// position whose text changed.
	Modified []ModifiedSegment
}

// ModifiedSegment represents a segment whose text changed.
type ModifiedSegment struct {
	Old TranslationSegment
	New TranslationSegment
}

// DiffStats contains summary statistics for a diff.
type DiffStats struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
	Modified  int `json:"modified"`
}

// Stats returns summary statistics for the diff.
func (d *DiffResult) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Unchanged: len(d.Unchanged),
		Modified:  len(d.Modified),
	}
}

// HasChanges returns true if there are any differences.
func (d *DiffResult) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Modified) > 0
}

// NeedsTranslation returns the new-version segments whose text is new or changed.
func (d *DiffResult) NeedsTranslation() []TranslationSegment {
	result := make([]TranslationSegment, 0, len(d.Added)+len(d.Modified))
	result = append(result, d.Added...)
	for _, m := range d.Modified {
		result = append(result, m.New)
	}
	return result
}

// ordinalSegment is a segment with its position among segments of the same type.
type ordinalSegment struct {
	seg     TranslationSegment
	ordinal int
}

func withOrdinals(segments []TranslationSegment) []ordinalSegment {
	counts := make(map[SpanKind]int)
	out := make([]ordinalSegment, len(segments))
	for i, s := range segments {
		out[i] = ordinalSegment{seg: s, ordinal: counts[s.Type]}
		counts[s.Type]++
	}
	return out
}

// segmentID identifies a segment by type and trimmed original text.
func segmentID(s TranslationSegment) string {
	return string(s.Type) + ":" + HashText(s.Original)
}

// DiffSegments compares the segments of two versions. Segments are matched by
// type and original text (surrounding whitespace ignored); leftover removed
// and added segments with the same type and ordinal position are reported as
// modified. Order follows the input slices.
func DiffSegments(oldSegments, newSegments []TranslationSegment) *DiffResult {
	result := &DiffResult{}

	oldIDs := make(map[string]bool)
	newIDs := make(map[string]bool)
	for _, s := range oldSegments {
		oldIDs[segmentID(s)] = true
	}
	for _, s := range newSegments {
		newIDs[segmentID(s)] = true
	}

	var removed, added []ordinalSegment
	seen := make(map[string]bool)
	for _, prev := range withOrdinals(oldSegments) {
		id := segmentID(prev.seg)
		if newIDs[id] {
			if !seen[id] {
				result.Unchanged = append(result.Unchanged, prev.seg)
				seen[id] = true
			}
			continue
		}
		removed = append(removed, prev)
	}
	for _, next := range withOrdinals(newSegments) {
		if !oldIDs[segmentID(next.seg)] {
			added = append(added, next)
		}
	}

	// Pair leftovers at the same position
	addedMatched := make(map[int]bool)
	for _, r := range removed {
		paired := false
		for ai, a := range added {
			if addedMatched[ai] || a.seg.Type != r.seg.Type || a.ordinal != r.ordinal {
				continue
			}
			result.Modified = append(result.Modified, ModifiedSegment{Old: r.seg, New: a.seg})
			addedMatched[ai] = true
			paired = true
			break
		}
		if !paired {
			result.Removed = append(result.Removed, r.seg)
		}
	}
	for ai, a := range added {
		if !addedMatched[ai] {
			result.Added = append(result.Added, a.seg)
		}
	}

	return result
}
