package chat

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// normalizeParticipants deduplicates the set, always including the requester,
// and returns it sorted.
func normalizeParticipants(requester uuid.UUID, others []uuid.UUID) []uuid.UUID {
	seen := map[uuid.UUID]struct{}{requester: {}}
	out := []uuid.UUID{requester}
	for _, id := range others {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

// participantKey hashes the sorted participant IDs. Two conversations with
// the same participant set always produce the same key, which the unique
// index enforces.
func participantKey(participants []uuid.UUID) string {
	ids := make([]string, 0, len(participants))
	for _, id := range participants {
		ids = append(ids, id.String())
	}
	sum := sha256.Sum256([]byte(strings.Join(ids, ":")))
	return hex.EncodeToString(sum[:])
}
