package api

// Signal kinds carried by the broadcast channel. The wire names are part of
// the protocol and must not change: every client, whatever its age, reacts
// to these three strings.
const (
	SignalMessage      = "message"        // project chat updated
	SignalChanged      = "isChanged"      // board structure (columns/cards) changed
	SignalModalChanged = "isModalChanged" // single-card detail/comments changed
)

// Signal is an invalidation cue, not a diff. It carries no entity state;
// receivers refetch from the store. ProjectId/CardId scope the signal so
// subscribers can skip refetches for views they don't have open. Seq is
// stamped by the hub, monotonically increasing per process, and lets a
// subscriber discard refetch responses that were triggered by an older
// signal than the newest one it has seen.
type Signal struct {
	Kind      string `json:"kind"`
	ProjectId int64  `json:"project_id,omitempty"`
	CardId    int64  `json:"card_id,omitempty"`
	Seq       uint64 `json:"seq,omitempty"`
}

func ValidSignalKind(kind string) bool {
	switch kind {
	case SignalMessage, SignalChanged, SignalModalChanged:
		return true
	}
	return false
}
