package layout

// Fit scales image of natural size (w, h) to fit into box (boxW, boxH)
// keeping aspect ratio. Landscape images are fitted by width first, others by
// height, result is clamped against both box dimensions.
func Fit(w, h, boxW, boxH float64) (float64, float64) {
	if w <= 0 || h <= 0 || boxW <= 0 || boxH <= 0 {
		return 0, 0
	}
	ratio := w / h

	var fw, fh float64
	if w > h {
		fw = boxW
		fh = fw / ratio
		if fh > boxH {
			fh = boxH
			fw = fh * ratio
		}
	} else {
		fh = boxH
		fw = fh * ratio
		if fw > boxW {
			fw = boxW
			fh = fw / ratio
		}
	}

	if fw > boxW {
		fw = boxW
		fh = fw / ratio
	}
	if fh > boxH {
		fh = boxH
		fw = fh * ratio
	}
	if fw > boxW {
		fw = boxW
		fh = fw / ratio
	}
	return fw, fh
}

// FitInt is Fit for integer pixel sizes. Result is never less than 1x1 for
// non empty input.
func FitInt(w, h, boxW, boxH int) (int, int) {
	fw, fh := Fit(float64(w), float64(h), float64(boxW), float64(boxH))
	if fw == 0 || fh == 0 {
		return 0, 0
	}
	return max(int(fw), 1), max(int(fh), 1)
}
