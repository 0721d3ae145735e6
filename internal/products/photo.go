package products

import "strings"

const defaultPhotoPrefix = "data:image/webp;base64,"

// NormalizePhoto turns a bare base64 photo into a data URI. URLs and data
// URIs pass through.
func NormalizePhoto(photo string) string {
	photo = strings.TrimSpace(photo)
	if photo == "" || strings.HasPrefix(photo, "data:") || strings.HasPrefix(photo, "http") {
		return photo
	}
	return defaultPhotoPrefix + photo
}

// Cover returns the first photo, normalized, or "".
func (p Product) Cover() string {
	if len(p.Photos) == 0 {
		return ""
	}
	return NormalizePhoto(p.Photos[0])
}
