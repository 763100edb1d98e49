package engine

// Profile is the persisted player state the engine reads.
type Profile struct {
	Gold           int
	HardMode       bool
	SmoothMovement bool
	Colorblind     bool
	Highscore      int
	AverageScore   float64
	GamesPlayed    int
}

// RunRecord is what the engine hands to the store when a run ends.
type RunRecord struct {
	Score       int
	Counted     int // Score gained since the last revive, used for the running average
	Apples      int
	GoldBalance int
	Turns       int
	Revives     int
	HardMode    bool
}

// ProfileStore persists the profile between sessions. A nil store is allowed;
// the engine then keeps everything in memory.
type ProfileStore interface {
	LoadProfile() (Profile, error)
	RecordRun(rec RunRecord) error
}
