package host

import "time"

// Beep tone settings shared by the front ends.
const (
	BeepFrequency = 440
	BeepDuration  = 120 * time.Millisecond
	BeepAmplitude = 32
)

// BeepSamples returns a signed mono square wave of BeepFrequency lasting
// BeepDuration at the given sample rate.
func BeepSamples(sampleRate int) []int8 {
	n := int(int64(sampleRate) * int64(BeepDuration) / int64(time.Second))
	period := sampleRate / BeepFrequency
	if period < 2 {
		period = 2
	}

	samples := make([]int8, n)
	for i := range samples {
		if i%period < period/2 {
			samples[i] = BeepAmplitude
		} else {
			samples[i] = -BeepAmplitude
		}
	}
	return samples
}
