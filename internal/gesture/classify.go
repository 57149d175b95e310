package gesture

import "github.com/ayusman/airpuck/internal/detector"

// Classify names the pose of hand from which fingers are raised. Poses
// that match none of the known shapes are KindNone.
func Classify(hand *detector.HandLandmarks) Kind {
	if hand == nil {
		return KindNone
	}

	thumb := hand.ThumbExtended()
	index := hand.FingerExtended(detector.Index)
	middle := hand.FingerExtended(detector.Middle)
	ring := hand.FingerExtended(detector.Ring)
	pinky := hand.FingerExtended(detector.Pinky)

	switch {
	case index && middle && ring && pinky:
		return KindOpenPalm
	case index && middle && !ring && !pinky:
		return KindVictory
	case index && !middle && !ring && !pinky:
		return KindPoint
	case !index && !middle && !ring && !pinky && thumb:
		return KindThumbsUp
	case !index && !middle && !ring && !pinky:
		return KindFist
	default:
		return KindNone
	}
}
