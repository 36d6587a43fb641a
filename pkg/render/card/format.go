package card

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// linkRE matches a link and the whitespace that follows it.
var linkRE = regexp.MustCompile(`https://\S+\s*`)

// FormatText prepares body text for display: links are removed together
// with the whitespace after them, the first "&amp;" is unescaped and the
// result is trimmed.
//
//	FormatText("check this out https://example.com/x\nmore text") // "check this out more text"
func FormatText(s string) string {
	s = linkRE.ReplaceAllString(s, "")
	s = strings.Replace(s, "&amp;", "&", 1)
	return strings.TrimSpace(s)
}

var compactUnits = []struct {
	size   int64
	suffix string
}{
	{1_000_000_000_000, "T"},
	{1_000_000_000, "B"},
	{1_000_000, "M"},
	{1_000, "K"},
}

// FormatCompact abbreviates n the way English compact notation does: values
// below 10 of a unit keep two significant digits, larger ones are rounded to
// an integer, halves round away from zero and trailing zeros are dropped.
//
//	FormatCompact(34)    // "34"
//	FormatCompact(1200)  // "1.2K"
//	FormatCompact(98765) // "99K"
func FormatCompact(n int64) string {
	if n < 0 {
		return "-" + FormatCompact(-n)
	}
	if n < 1000 {
		return strconv.FormatInt(n, 10)
	}

	i := 0
	for n < compactUnits[i].size {
		i++
	}
	for {
		unit := compactUnits[i]
		if n < 10*unit.size {
			tenths := (n*10 + unit.size/2) / unit.size
			if tenths < 100 {
				if tenths%10 == 0 {
					return strconv.FormatInt(tenths/10, 10) + unit.suffix
				}
				return strconv.FormatInt(tenths/10, 10) + "." + strconv.FormatInt(tenths%10, 10) + unit.suffix
			}
			return "10" + unit.suffix
		}
		whole := (n + unit.size/2) / unit.size
		if whole >= 1000 && i > 0 {
			i--
			continue
		}
		return strconv.FormatInt(whole, 10) + unit.suffix
	}
}

// TimestampLayout is the display format of creation times.
const TimestampLayout = "3:04 PM - Jan 2, 2006"

// FormatTimestamp formats t in loc. A nil loc means UTC.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(TimestampLayout)
}

// TimestampTitle is the tooltip of a timestamp: "Time Posted: " followed by
// the UTC time in RFC 1123 form with a GMT zone.
func TimestampTitle(t time.Time) string {
	return "Time Posted: " + t.UTC().Format(http.TimeFormat)
}
