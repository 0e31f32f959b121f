package textscan

import "strings"

var dateLabel = Any("FECHA")

// FindLineIndex returns the index of the first line carrying one of labels, or -1.
func FindLineIndex(lines []string, labels Labels) int {
	for i, line := range lines {
		if labels.Matches(line) {
			return i
		}
	}
	return -1
}

// ValueBelow returns the line offset positions below the first label
// occurrence that has such a line. The line is returned exactly as read,
// even when it is blank.
func ValueBelow(lines []string, labels Labels, offset int) (string, bool) {
	for i, line := range lines {
		if !labels.Matches(line) {
			continue
		}
		if j := i + offset; j >= 0 && j < len(lines) {
			return lines[j], true
		}
	}
	return "", false
}

// ValueAbove returns the line offset positions above the first label
// occurrence that has such a line, exactly as read. Holographic layouts print
// the value over its caption.
func ValueAbove(lines []string, labels Labels, offset int) (string, bool) {
	for i, line := range lines {
		if !labels.Matches(line) {
			continue
		}
		if j := i - offset; j >= 0 && j < len(lines) {
			return lines[j], true
		}
	}
	return "", false
}

// ValueAboveMulti works like ValueAbove with offset 1, but joins the line two
// above the label in front of the value when that line holds no digits and is
// not a date caption.
func ValueAboveMulti(lines []string, labels Labels) (string, bool) {
	for i, line := range lines {
		if i < 1 || !labels.Matches(line) {
			continue
		}
		value := lines[i-1]
		if i >= 2 && !HasDigit(lines[i-2]) && !dateLabel.Matches(lines[i-2]) {
			value = lines[i-2] + " " + value
		}
		return value, true
	}
	return "", false
}

// CollectUntilStop gathers up to maxSpan consecutive lines after a label and
// joins them with a single space. Collection ends at a stop label or at the
// first line accept rejects.
func CollectUntilStop(lines []string, labels, stops Labels, maxSpan int, accept func(string) bool) (string, bool) {
	for i, line := range lines {
		if !labels.Matches(line) {
			continue
		}
		var parts []string
		for j := i + 1; j <= i+maxSpan && j < len(lines); j++ {
			candidate := strings.TrimSpace(lines[j])
			if stops.Matches(candidate) || candidate == "" || !accept(candidate) {
				break
			}
			parts = append(parts, candidate)
		}
		if len(parts) > 0 {
			return strings.Join(parts, " "), true
		}
	}
	return "", false
}

// FirstBelow returns the first line within maxSpan lines after a label that
// accept approves, skipping rejected lines and stopping at a stop label.
func FirstBelow(lines []string, labels, stops Labels, maxSpan int, accept func(string) bool) (string, bool) {
	for i, line := range lines {
		if !labels.Matches(line) {
			continue
		}
		for j := i + 1; j <= i+maxSpan && j < len(lines); j++ {
			candidate := strings.TrimSpace(lines[j])
			if stops.Matches(candidate) {
				break
			}
			if candidate != "" && accept(candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}

// WindowedPatternSearch applies match to lines i+start through
// i+start+span-1 around each label occurrence i.
func WindowedPatternSearch(lines []string, labels Labels, match Matcher, start, span int) (string, bool) {
	for i, line := range lines {
		if !labels.Matches(line) {
			continue
		}
		for j := i + start; j < i+start+span && j < len(lines); j++ {
			if j < 0 {
				continue
			}
			if v, ok := match(lines[j]); ok {
				return v, true
			}
		}
	}
	return "", false
}

// WindowedPatternSearchAbove applies match to the span lines above each
// label occurrence, nearest first.
func WindowedPatternSearchAbove(lines []string, labels Labels, match Matcher, span int) (string, bool) {
	for i, line := range lines {
		if !labels.Matches(line) {
			continue
		}
		for k := 1; k <= span && i-k >= 0; k++ {
			if v, ok := match(lines[i-k]); ok {
				return v, true
			}
		}
	}
	return "", false
}

// DirectPatternSearch returns the first match anywhere in the corpus.
func DirectPatternSearch(lines []string, match Matcher) (string, bool) {
	for _, line := range lines {
		if v, ok := match(line); ok {
			return v, true
		}
	}
	return "", false
}
