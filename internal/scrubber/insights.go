package scrubber

import (
	"fmt"
	"strconv"
	"strings"
)

// Insight is a plain-language explanation of what a piece of metadata can
// reveal, shown alongside the raw scan details.
type Insight struct {
	Kind    string
	Message string
}

// BuildInsights turns scan details into user-facing privacy insights.
func BuildInsights(details []Detail) []Insight {
	if len(details) == 0 {
		return nil
	}

	values := flattenDetails(details)
	var insights []Insight

	if gps := gpsInsight(values); gps != nil {
		insights = append(insights, *gps)
		insights = append(insights, Insight{
			Kind:    "Location",
			Message: "Exact coordinates can reveal home, workplace, or travel patterns.",
		})
	}

	if device := deviceInsight(values); device != nil {
		insights = append(insights, *device)
	}

	if ts := timestampInsight(values); ts != nil {
		insights = append(insights, *ts)
	}

	if hasSerial(values) {
		insights = append(insights, Insight{
			Kind:    "Identifier",
			Message: "Unique device identifiers (serial numbers) are present.",
		})
	}

	return insights
}

func flattenDetails(details []Detail) map[string][]string {
	values := make(map[string][]string)
	for _, detail := range details {
		for _, entry := range detail.Values {
			key, value, ok := strings.Cut(entry, "=")
			if !ok || key == "" {
				continue
			}
			values[strings.TrimSpace(key)] = append(values[strings.TrimSpace(key)], strings.TrimSpace(value))
		}
	}
	return values
}

func firstValue(values map[string][]string, key string) string {
	if list, ok := values[key]; ok && len(list) > 0 {
		return list[0]
	}
	return ""
}

func gpsInsight(values map[string][]string) *Insight {
	latRaw := firstValue(values, "GPSLatitude")
	lonRaw := firstValue(values, "GPSLongitude")
	if latRaw == "" || lonRaw == "" {
		return nil
	}

	lat, okLat := parseGPSCoordinate(latRaw)
	lon, okLon := parseGPSCoordinate(lonRaw)
	if !okLat || !okLon {
		return nil
	}

	if firstValue(values, "GPSLatitudeRef") == "S" {
		lat = -lat
	}
	if firstValue(values, "GPSLongitudeRef") == "W" {
		lon = -lon
	}

	return &Insight{Kind: "Location", Message: fmt.Sprintf("Approx location: %.5f, %.5f", lat, lon)}
}

func deviceInsight(values map[string][]string) *Insight {
	device := strings.TrimSpace(firstValue(values, "Make") + " " + firstValue(values, "Model"))
	if device == "" {
		device = firstValue(values, "CameraModelName")
	}
	if device == "" {
		return nil
	}

	msg := "Device: " + device
	if kind := inferDeviceType(strings.ToLower(device)); kind != "" {
		msg += " (" + kind + ")"
	}
	return &Insight{Kind: "Device", Message: msg}
}

func timestampInsight(values map[string][]string) *Insight {
	ts := firstValue(values, "DateTimeOriginal")
	if ts == "" {
		ts = firstValue(values, "DateTimeDigitized")
	}
	if ts == "" {
		ts = firstValue(values, "DateTime")
	}
	if ts == "" {
		return nil
	}

	// EXIF dates use colons in the date part; make it read like a date.
	formatted := replaceFirstN(ts, ":", "-", 2)
	return &Insight{Kind: "Timeline", Message: fmt.Sprintf("Captured: %s (timezone unknown)", formatted)}
}

func hasSerial(values map[string][]string) bool {
	for key, vals := range values {
		if strings.Contains(strings.ToLower(key), "serial") && len(vals) > 0 {
			return true
		}
	}
	return false
}

// parseGPSCoordinate handles both plain decimals and EXIF rational triplets
// like "[57/1 38/1 5683/100]".
func parseGPSCoordinate(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	parts := strings.Fields(raw)
	if len(parts) == 0 {
		return 0, false
	}

	if len(parts) == 1 && !strings.Contains(parts[0], "/") {
		v, err := strconv.ParseFloat(parts[0], 64)
		return v, err == nil
	}

	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		value, ok := parseRational(part)
		if !ok {
			return 0, false
		}
		values = append(values, value)
	}

	switch len(values) {
	case 3:
		return values[0] + values[1]/60.0 + values[2]/3600.0, true
	case 2:
		return values[0] + values[1]/60.0, true
	default:
		return values[0], true
	}
}

func parseRational(part string) (float64, bool) {
	part = strings.TrimSpace(part)
	if part == "" {
		return 0, false
	}

	num, den, ok := strings.Cut(part, "/")
	if !ok {
		v, err := strconv.ParseFloat(part, 64)
		return v, err == nil
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}

func inferDeviceType(device string) string {
	switch {
	case strings.Contains(device, "iphone"),
		strings.Contains(device, "pixel"),
		strings.Contains(device, "galaxy"),
		strings.Contains(device, "android"):
		return "smartphone"
	case strings.Contains(device, "ipad"),
		strings.Contains(device, "tablet"):
		return "tablet"
	case strings.Contains(device, "gopro"):
		return "action camera"
	case strings.Contains(device, "dji"):
		return "drone"
	case strings.Contains(device, "canon"),
		strings.Contains(device, "nikon"),
		strings.Contains(device, "sony"),
		strings.Contains(device, "fujifilm"),
		strings.Contains(device, "panasonic"),
		strings.Contains(device, "olympus"),
		strings.Contains(device, "leica"):
		return "camera"
	default:
		return ""
	}
}

func replaceFirstN(s, old, new string, n int) string {
	out := s
	for i := 0; i < n; i++ {
		idx := strings.Index(out, old)
		if idx < 0 {
			break
		}
		out = out[:idx] + new + out[idx+len(old):]
	}
	return out
}
