package world

import "math"

// Path-loss / Shannon-capacity model constants for the BLE-like
// radio: reference distance 1 m, loss at reference 40 dB, path-loss
// exponent 2.0, channel bandwidth 1 MHz, TX power 0 dBm, noise floor
// -85 dBm.
const (
	refDistance  = 1.0
	lossAtRef    = 40.0
	pathLossExp  = 2.0
	bandwidthHz  = 1.0e6
	txPowerDBm   = 0.0
	noiseDBm     = -85.0
	maxBitrate   = 1.0e6
)

// capacityScale normalizes raw Shannon capacity so that the rate at
// the reference distance (1 m) is exactly maxBitrate; computed once
// from the model constants above.
var capacityScale = maxBitrate / shannonCapacity(refDistance)

func pathLoss(d float64) float64 {
	return lossAtRef + 10*pathLossExp*math.Log10(d/refDistance)
}

func shannonCapacity(d float64) float64 {
	receivedDBm := txPowerDBm - pathLoss(d)
	snrDB := receivedDBm - noiseDBm
	snr := math.Pow(10, snrDB/10)
	return bandwidthHz * math.Log2(1+snr)
}

// Bitrate returns the achievable bps at distance d (meters) within
// range r (meters). Distances below 1 m are clamped up to 1 m; for
// d >= r the reported rate is 0.
func Bitrate(d, r float64) float64 {
	if d >= r {
		return 0
	}

	clamped := d
	if clamped < refDistance {
		clamped = refDistance
	}

	rate := shannonCapacity(clamped) * capacityScale
	if rate > maxBitrate {
		rate = maxBitrate
	}

	return rate
}
