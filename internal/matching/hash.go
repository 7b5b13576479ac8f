package matching

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"rozgar-workers/internal/models"
)

// ProfileHash fingerprints the profile fields the classifier and scorer
// consume. A stored hash that no longer matches the live profile means the
// cached recommendations were computed from stale inputs.
func ProfileHash(p *models.WorkerProfile) string {
	parts := []string{
		p.Name,
		p.JobTitle,
		p.ShiftTime,
		intPtrString(p.ExperienceYears),
		p.Address,
		intPtrString(p.SalaryExpectation),
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

func intPtrString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
