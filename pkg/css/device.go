package css

// Device describes the output device lengths are resolved for. It is passed
// explicitly wherever physical units are converted.
type Device struct {
	PixelsPerInch float64
}

// ScreenDevice is a typical 96 dpi screen.
var ScreenDevice = Device{PixelsPerInch: 96}

// ToPixels converts a value in the given absolute unit to pixels. Unitless
// values and px pass through unchanged.
func (d Device) ToPixels(value float64, unit string) float64 {
	ppi := d.PixelsPerInch
	if ppi <= 0 {
		ppi = ScreenDevice.PixelsPerInch
	}
	switch unit {
	case "in":
		return value * ppi
	case "cm":
		return value * ppi / 2.54
	case "mm":
		return value * ppi / 25.4
	case "pt":
		return value * ppi / 72
	case "pc":
		return value * ppi / 6
	}
	return value
}
