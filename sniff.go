package brushwork

// SniffImageMIME detects the MIME type of raw image bytes from their magic
// numbers. It recognizes PNG, JPEG, GIF and WebP and returns "image/png"
// as the default for anything else, since that is what every supported
// backend emits when undeclared.
func SniffImageMIME(data []byte) string {
	switch {
	case len(data) >= 4 && string(data[0:4]) == "\x89PNG":
		return "image/png"
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8:
		return "image/jpeg"
	case len(data) >= 6 && (string(data[0:6]) == "GIF87a" || string(data[0:6]) == "GIF89a"):
		return "image/gif"
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "image/webp"
	default:
		return "image/png"
	}
}
