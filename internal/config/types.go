package config

// Config holds all configuration for the application.
type Config struct {
	DBName          string
	Port            string
	Slack           SlackConfig
	Turso           TursoConfig
	ProjectID       string
	TeamName        string
	MaxFieldPlayers int
}
type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

// TursoConfig points at a remote libSQL database. An empty PrimaryURL means
// the local sqlite file named by DBName is used.
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
