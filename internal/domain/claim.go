package domain

// ClaimKind discriminates the identity keys a caller can prove knowledge of.
type ClaimKind string

const (
	ClaimEmail ClaimKind = "email"
	ClaimPhone ClaimKind = "phone"
)

// IdentityClaim is the ephemeral proof supplied with a reveal request. It is
// matched against the registry and discarded; never stored.
type IdentityClaim struct {
	Kind  ClaimKind `json:"kind"`
	Value string    `json:"value"`
}
