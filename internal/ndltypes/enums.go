package ndltypes

// ContentType distinguishes the four layers of content in the provenance
// DAG.
type ContentType int

const (
	// ContentL0 is raw content: a single self-referential provenance root.
	ContentL0 ContentType = iota
	// ContentL1 is extracted mentions derived from L0 content.
	ContentL1
	// ContentL2 is a personal graph; always Private, always free.
	ContentL2
	// ContentL3 is a synthesized insight derived from one or more sources.
	ContentL3
)

// String renders the content type for logging and JSON.
func (c ContentType) String() string {
	switch c {
	case ContentL0:
		return "L0"
	case ContentL1:
		return "L1"
	case ContentL2:
		return "L2"
	case ContentL3:
		return "L3"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c ContentType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ContentType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "L0":
		*c = ContentL0
	case "L1":
		*c = ContentL1
	case "L2":
		*c = ContentL2
	case "L3":
		*c = ContentL3
	default:
		return ErrInvalidEnum
	}
	return nil
}

// Visibility controls who may discover and retrieve a manifest.
type Visibility int

const (
	// VisibilityPrivate serves only the owner; local only.
	VisibilityPrivate Visibility = iota
	// VisibilityUnlisted serves any requester who already knows the
	// hash, but is not announced to discovery.
	VisibilityUnlisted
	// VisibilityShared is announced to discovery.
	VisibilityShared
)

// String renders the visibility for logging and JSON.
func (v Visibility) String() string {
	switch v {
	case VisibilityPrivate:
		return "private"
	case VisibilityUnlisted:
		return "unlisted"
	case VisibilityShared:
		return "shared"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Visibility) UnmarshalText(text []byte) error {
	switch string(text) {
	case "private":
		*v = VisibilityPrivate
	case "unlisted":
		*v = VisibilityUnlisted
	case "shared":
		*v = VisibilityShared
	default:
		return ErrInvalidEnum
	}
	return nil
}

// Max returns the more permissive of two visibilities, used when merging
// provenance entries.
func (v Visibility) Max(other Visibility) Visibility {
	if other > v {
		return other
	}
	return v
}

// ChannelState enumerates the payment channel lifecycle.
type ChannelState int

const (
	ChannelOpening ChannelState = iota
	ChannelOpen
	ChannelClosing
	ChannelClosed
	ChannelDisputed
)

// String renders the channel state for logging and JSON.
func (s ChannelState) String() string {
	switch s {
	case ChannelOpening:
		return "opening"
	case ChannelOpen:
		return "open"
	case ChannelClosing:
		return "closing"
	case ChannelClosed:
		return "closed"
	case ChannelDisputed:
		return "disputed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s ChannelState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ChannelState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "opening":
		*s = ChannelOpening
	case "open":
		*s = ChannelOpen
	case "closing":
		*s = ChannelClosing
	case "closed":
		*s = ChannelClosed
	case "disputed":
		*s = ChannelDisputed
	default:
		return ErrInvalidEnum
	}
	return nil
}
