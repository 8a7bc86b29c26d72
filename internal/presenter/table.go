// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/wneessen/sunspot/internal/service"
)

const (
	labelWidth    = 12
	nameWidth     = 48
	sunnyIcon     = "☀️"
	shadedIcon    = "🌥️"
	ellipsis      = "…"
	clockFormat   = "15:04 MST"
	noSunriseText = "none (polar day or night)"
)

// Table writes a column aligned, human readable rendition of the report to w. Column
// widths are computed in terminal cells so that wide and combining characters line up.
func (p *Presenter) Table(w io.Writer, report *service.Report) error {
	var b strings.Builder

	status := "no"
	if report.SunlightPresent {
		status = "yes"
	}
	row(&b, "Location", report.LocationName)
	row(&b, "Coordinates", report.Coordinate.String())
	row(&b, "Sun", fmt.Sprintf("%selevation %.2f°, azimuth %.2f°", EmojiWithSpace(icon(report.SunlightPresent)),
		report.Solar.Elevation, report.Solar.Azimuth))
	row(&b, "Sunrise", clock(report.Solar.Sunrise))
	row(&b, "Sunset", clock(report.Solar.Sunset))
	row(&b, "Street", fmt.Sprintf("width %.1f m, buildings %.1f m, shadow %s", report.StreetWidth,
		report.BuildingHeight, meters(report.ShadowLength)))
	row(&b, "Sunlight", fmt.Sprintf("%s (confidence %.2f)", status, report.Confidence))
	b.WriteString("\n")

	if len(report.Nearby) == 0 {
		fmt.Fprintf(&b, "No sunny spots found within %.0f m.\n", report.Radius)
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "Sunny spots within %.0f m:\n", report.Radius)
	fmt.Fprintf(&b, "%s  %s  %s  %s\n", cell("#", 2), cell("Location", nameWidth), cell("Conf.", 5), "Coordinates")
	for i, spot := range report.Nearby {
		fmt.Fprintf(&b, "%s  %s  %s  %s\n", cell(fmt.Sprintf("%d", i+1), 2), cell(spot.LocationName, nameWidth),
			cell(fmt.Sprintf("%.2f", spot.Confidence), 5), spot.Coordinate.String())
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// EmojiWithSpace pads an emoji so that the following text starts at the same column
// regardless of how many cells the emoji occupies.
func EmojiWithSpace(emoji string) string {
	width := runewidth.StringWidth(emoji)
	return emoji + strings.Repeat(" ", max(3-width, 1))
}

func row(b *strings.Builder, label, value string) {
	b.WriteString(cell(label, labelWidth))
	b.WriteString(value)
	b.WriteString("\n")
}

// cell truncates or pads s to exactly width terminal cells.
func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, ellipsis), width)
}

func icon(sunny bool) string {
	if sunny {
		return sunnyIcon
	}
	return shadedIcon
}

func clock(t time.Time) string {
	if t.IsZero() {
		return noSunriseText
	}
	return t.Format(clockFormat)
}

func meters(val float64) string {
	if v, ok := finite(val).(float64); ok {
		return fmt.Sprintf("%.2f m", v)
	}
	return "infinite"
}
