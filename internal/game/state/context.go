package state

// Context carries the per-room state handles into every engine entry point.
// The engine never resolves room ids itself; the outermost layer builds a
// Context once per call and hands it down.
type Context struct {
	RoomID    string
	PlayerID  string
	Players   Map
	GameState Map
}

// ForPlayer returns a copy of the context acting as a different player.
func (c Context) ForPlayer(playerID string) Context {
	c.PlayerID = playerID
	return c
}
