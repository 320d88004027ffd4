package listing

import "time"

const (
	standardWindow = 30 * 24 * time.Hour
	featuredWindow = 365 * 24 * time.Hour
)

// Window computes the promotion interval for a feature type from the
// consumption instant. It is pure; the caller invokes it exactly once per
// consumption and persists the result, so the window is never recomputed
// on later reads.
func Window(t FeatureType, now time.Time) (start, end time.Time) {
	switch t {
	case FeatureFeatured:
		return now, now.Add(featuredWindow)
	case FeatureStandard:
		return now, now.Add(standardWindow)
	default:
		return now, now
	}
}
