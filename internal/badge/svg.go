// internal/badge/svg.go
package badge

import "fmt"

// charWidth approximates the average glyph width of the badge font at 11px.
const charWidth = 7

// PlaceholderSVG renders a two-segment shields-style badge entirely locally,
// used when the real badge is stale, unknown, or failed to download.
func PlaceholderSVG(label, message, color string) []byte {
	labelW := len(label)*charWidth + 10
	messageW := len(message)*charWidth + 10
	total := labelW + messageW

	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="20" role="img" aria-label="%s: %s">
<rect width="%d" height="20" fill="#555"/>
<rect x="%d" width="%d" height="20" fill="%s"/>
<g fill="#fff" text-anchor="middle" font-family="Verdana,Geneva,sans-serif" font-size="11">
<text x="%d" y="14">%s</text>
<text x="%d" y="14">%s</text>
</g>
</svg>
`, total, label, message,
		labelW,
		labelW, messageW, color,
		labelW/2, label,
		labelW+messageW/2, message)
	return []byte(svg)
}

// OutOfSyncSVG is the placeholder for a badge older than its category's
// staleness threshold.
func OutOfSyncSVG(label string) []byte {
	return PlaceholderSVG(label, "out of sync", "#e05d44")
}

// UnknownSVG is the placeholder used when no sync timestamp is available.
func UnknownSVG(label string) []byte {
	return PlaceholderSVG(label, "status unknown", "#9f9f9f")
}
