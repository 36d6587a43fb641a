package card

// Sizes at scale 1, in pixels.
const (
	DefaultWidth  = 672.0
	PreviewWidth  = 620.0
	PreviewHeight = 340.0

	borderWidth   = 1.0
	cornerRadius  = 8.0
	paddingX      = 24.0
	paddingY      = 16.0
	quoteMarginY  = 16.0
	avatarSize    = 48.0
	avatarGap     = 16.0
	badgeSize     = 16.0
	badgeGap      = 4.0
	logoSize      = 24.0
	fontSize      = 16.0
	smallFontSize = 14.0
	nameLineH     = 20.0
	bodyLineH     = 24.0
	smallLineH    = 20.0
	textMarginTop = 16.0
	textMarginBot = 4.0
	mediaGap      = 8.0
	metricsTop    = 8.0
	metricIcon    = 18.0
	metricIconGap = 8.0
	metricGap     = 16.0
	tileRadius    = 16.0
	playSize      = 48.0
)

// Colors used by the card.
const (
	colorBackground  = "#ffffff"
	colorBorder      = "#e5e7eb"
	colorName        = "#111827"
	colorBody        = "#374151"
	colorMuted       = "#6b7280"
	colorIcon        = "#666666"
	colorVerified    = "#3b82f6"
	colorLogo        = "#3ba9ee"
	colorPlayBadge   = "#1d9bf0"
	colorWhite       = "#ffffff"
	colorPlaceholder = "#e5e7eb"
)
