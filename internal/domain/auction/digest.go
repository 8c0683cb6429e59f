package auction

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Digest fingerprints the ordered outcome of a round. Two resolutions of the same
// inputs always produce the same digest.
func Digest(leagueID string, round int, awards []Award) string {
	sorted := append([]Award(nil), awards...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CyclistID < sorted[j].CyclistID })

	var b strings.Builder
	b.WriteString(leagueID)
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(round))
	for _, a := range sorted {
		b.WriteByte('|')
		b.WriteString(a.CyclistID)
		b.WriteByte(':')
		b.WriteString(a.TeamID)
		b.WriteByte(':')
		b.WriteString(a.Price.StringFixed(2))
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
