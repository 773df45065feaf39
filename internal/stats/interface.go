package stats

// RecordStore holds the per-player statistics of the match being edited.
// Every record it returns has its derived fields up to date.
type RecordStore interface {
	Get(playerID string) (Record, bool)
	Set(playerID string, f Field, value int) (Record, error)
	Create(playerID string) Record
	Put(playerID string, rec Record) Record
	Delete(playerID string)
	HasStats(playerID string) bool
	IDs() []string
	Snapshot() map[string]Record
}
