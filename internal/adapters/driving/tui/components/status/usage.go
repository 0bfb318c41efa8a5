package status

// Level describes how much of the token budget a selection consumes.
type Level string

const (
	LevelVeryLow   Level = "VERY LOW"
	LevelLow       Level = "LOW"
	LevelMedium    Level = "MEDIUM"
	LevelHigh      Level = "HIGH"
	LevelVeryHigh  Level = "VERY HIGH"
	LevelOverLimit Level = "OVER LIMIT"
)

// LevelFor maps a usage percentage onto a Level. The budget is
// advisory, so OVER LIMIT is a warning rather than an error.
func LevelFor(percent float64) Level {
	switch {
	case percent >= 100:
		return LevelOverLimit
	case percent >= 90:
		return LevelVeryHigh
	case percent >= 75:
		return LevelHigh
	case percent >= 50:
		return LevelMedium
	case percent >= 25:
		return LevelLow
	default:
		return LevelVeryLow
	}
}
