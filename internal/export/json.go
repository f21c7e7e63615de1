package export

import (
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/dataprof-cli/internal/profile"
	"github.com/KaramelBytes/dataprof-cli/internal/utils"
)

// Envelope wraps a report with run metadata for machine consumers.
type Envelope struct {
	RunID       string          `json:"run_id"`
	Source      string          `json:"source"`
	GeneratedAt string          `json:"generated_at"`
	Report      *profile.Report `json:"report"`
}

// NewEnvelope stamps r with a fresh run id.
func NewEnvelope(r *profile.Report, source string, at time.Time) Envelope {
	return Envelope{
		RunID:       uuid.NewString(),
		Source:      source,
		GeneratedAt: at.UTC().Format(time.RFC3339),
		Report:      r,
	}
}

// JSON renders the envelope as indented JSON.
func JSON(r *profile.Report, source string, at time.Time) ([]byte, error) {
	return utils.PrettyJSON(NewEnvelope(r, source, at))
}
