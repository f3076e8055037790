package welcome

import (
	"github.com/abhisek/flashmath/internal/ui/components"
)

const bannerText = "FlashMath"

// RenderBanner returns the FlashMath banner in block letters, or a spaced
// out compact version when the terminal is too narrow.
func RenderBanner(width int) string {
	return components.Banner(bannerText, width)
}
