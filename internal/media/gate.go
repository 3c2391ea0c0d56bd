package media

import (
	"encoding/base64"
	"strings"

	"github.com/spec-kit/civic-report/internal/domain"
)

// MinPhotoBytes is the smallest decoded photo payload accepted as evidence.
// The size check is a placeholder heuristic standing in for a genuine
// anti-fraud classifier; swapping it out must not change the Gate interface.
const MinPhotoBytes = 10000

// Rejection reasons surfaced to callers.
const (
	ReasonNoMedia     = "no media"
	ReasonInvalidData = "invalid media data"
	ReasonTooSmall    = "image too small"
)

// Assessment is the outcome of an authenticity check.
type Assessment struct {
	Accepted bool
	Reason   string
}

// Gate decides whether submitted media counts as credible evidence.
type Gate interface {
	Assess(media *domain.Media) Assessment
}

type heuristicGate struct{}

// NewGate returns the default size-heuristic gate.
func NewGate() Gate {
	return heuristicGate{}
}

// Assess applies the reference heuristic: absent media is rejected, payloads
// that fail to decode are rejected, and photos below MinPhotoBytes are
// rejected. Everything else is accepted.
func (heuristicGate) Assess(m *domain.Media) Assessment {
	if m == nil {
		return Assessment{Accepted: false, Reason: ReasonNoMedia}
	}

	payload, err := decodePayload(m.Data)
	if err != nil {
		return Assessment{Accepted: false, Reason: ReasonInvalidData}
	}

	if m.Kind == domain.MediaKindPhoto && len(payload) < MinPhotoBytes {
		return Assessment{Accepted: false, Reason: ReasonTooSmall}
	}

	return Assessment{Accepted: true}
}

// decodePayload accepts both bare base64 and data-URL payloads
// ("data:image/jpeg;base64,...") as produced by browser capture APIs.
func decodePayload(data string) ([]byte, error) {
	if idx := strings.Index(data, ","); idx >= 0 && strings.HasPrefix(data, "data:") {
		data = data[idx+1:]
	}
	return base64.StdEncoding.DecodeString(data)
}
