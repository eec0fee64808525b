package brushwork

import "strings"

// Mode selects the kind of generation being requested.
type Mode string

const (
	// ModeTextToImage generates a fresh image from the prompt alone.
	ModeTextToImage Mode = "text-to-image"
	// ModeImageEdit transforms one or two host-supplied images guided by
	// the prompt.
	ModeImageEdit Mode = "image-edit"
)

// ResolutionTier is a coarse megapixel budget. The concrete pixel
// dimensions are derived from the tier and the aspect ratio by
// ResolveDimensions.
type ResolutionTier string

const (
	TierLow  ResolutionTier = "low"  // ~1 MP
	TierMid  ResolutionTier = "mid"  // ~4 MP
	TierHigh ResolutionTier = "high" // ~16 MP
)

// Request is the host-agnostic description of one generation call,
// independent of which provider will serve it. Image fields carry raw
// bytes already exported by the host's own canvas/layer logic.
type Request struct {
	Prompt      string
	AspectRatio string // "W:H", e.g. "16:9"
	Tier        ResolutionTier
	Mode        Mode
	WebSearch   bool

	// PrimaryImage is the single input of a one-image edit. It is mutually
	// exclusive with the SourceImage/ReferenceImage pair.
	PrimaryImage []byte

	// SourceImage is the layer being edited in a two-image edit.
	SourceImage []byte

	// ReferenceImage supplies style/content guidance in a two-image edit.
	ReferenceImage []byte
}

// Validate enforces the request invariants shared by every family.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return NewConfigError("prompt is empty", nil)
	}
	if len(r.PrimaryImage) > 0 && (len(r.SourceImage) > 0 || len(r.ReferenceImage) > 0) {
		return NewConfigError("primary image is mutually exclusive with the source/reference pair", nil)
	}
	return nil
}

// LayerRole names the function of one input image in an edit.
type LayerRole string

const (
	RoleReference LayerRole = "reference"
	RoleSource    LayerRole = "source"
)

// Label returns the human-facing layer name used in synthetic role
// instructions.
func (r LayerRole) Label() string {
	if r == RoleReference {
		return "Reference Layer"
	}
	return "Source Layer"
}

// Describe returns the parenthetical explanation of the role.
func (r LayerRole) Describe() string {
	if r == RoleReference {
		return "style and content guidance, do not edit"
	}
	return "the image to be edited"
}

// LayerImage is one input image together with its role.
type LayerImage struct {
	Role LayerRole
	Data []byte
}

// EditImages returns the input images in transmission order. When both a
// reference and a source image are present the reference always comes
// first, regardless of which was supplied; a lone primary image is treated
// as the source.
func (r Request) EditImages() []LayerImage {
	var layers []LayerImage
	if len(r.ReferenceImage) > 0 {
		layers = append(layers, LayerImage{Role: RoleReference, Data: r.ReferenceImage})
	}
	if len(r.SourceImage) > 0 {
		layers = append(layers, LayerImage{Role: RoleSource, Data: r.SourceImage})
	} else if len(r.PrimaryImage) > 0 {
		layers = append(layers, LayerImage{Role: RoleSource, Data: r.PrimaryImage})
	}
	return layers
}

// Result is the terminal value of a generation call. Exactly one of Bytes
// or URL is guaranteed to be set; adapters that receive a remote reference
// fetch it, so Bytes is populated whenever the fetch succeeded.
type Result struct {
	Bytes    []byte
	URL      string
	MIMEType string
}
