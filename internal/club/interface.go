package club

// ClubStore defines the interface for interacting with the club's players.
type ClubStore interface {
	AddPlayer(player PlayerInfo) error
	UpsertPlayers(players []PlayerInfo) error
	GetPlayer(playerID string) (*PlayerInfo, error)
	GetPlayers(playerIDs []string) ([]PlayerInfo, error)
	GetAllPlayers() ([]PlayerInfo, error)
	IsKnownPlayer(playerID string) bool
	RemovePlayer(playerID string) error
}
