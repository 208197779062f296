package normalize

import "strings"

// PlaceholderImageURL is served whenever a product has no usable image.
const PlaceholderImageURL = "https://images.pexels.com/photos/18105/pexels-photo.jpg?auto=compress&cs=tinysrgb&w=400"

// ImageURL picks the image to display: first entry of images, else the
// singular image field, else the placeholder. Seeded catalogs are full of
// example.com and placeholder URLs, and admin product creation uploads
// blob: object URLs; none of those render, so they are rejected here. Every
// surface that shows a product image goes through this function.
func ImageURL(images []string, single string) string {
	if len(images) > 0 && usableImage(images[0]) {
		return images[0]
	}
	if usableImage(single) {
		return single
	}
	return PlaceholderImageURL
}

func usableImage(u string) bool {
	if u == "" {
		return false
	}
	if strings.Contains(u, "example.com") || strings.Contains(u, "placeholder") {
		return false
	}
	if strings.HasPrefix(u, "blob:") {
		return false
	}
	return true
}
