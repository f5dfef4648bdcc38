// Package pixel implements the RGB565 color models and images used by TFT LCD controllers, and the
// conversions needed to push them over buses that expect a different pixel encoding.
//
// The color models and images are compatible with Go's native [color.Color] and [image.Image] /
// [draw.Image] interfaces.
package pixel
