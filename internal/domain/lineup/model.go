package lineup

// Selection is one requested pick in a lineup submission.
type Selection struct {
	PlayerID  int64
	IsCaptain bool
}

// Entry is one stored (user, day, player) pick. Locked flips to true once
// the player's match has started and never flips back; a locked entry keeps
// its captaincy. Points caches the last scored value for this user's
// captaincy.
type Entry struct {
	ID        int64
	UserID    string
	Day       int
	PlayerID  int64
	IsCaptain bool
	Locked    bool
	Points    float64
}
