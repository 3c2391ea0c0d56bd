package domain

// MediaKind distinguishes the attachment types a report can carry.
type MediaKind string

const (
	MediaKindPhoto MediaKind = "photo"
	MediaKindVideo MediaKind = "video"
	MediaKindAudio MediaKind = "audio"
)

// Media is an attachment blob as submitted by the client: a declared kind
// plus a base64-encoded payload. The payload is stored as received; decoding
// happens only in the authenticity gate.
type Media struct {
	Kind MediaKind `json:"kind"`
	Data string    `json:"data"`
}
