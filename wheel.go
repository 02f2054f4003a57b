package main

import (
	"math"
	"time"
)

// Wheel deltas are device-dependent: a notched mouse reports one fixed
// magnitude per click while a touchpad streams many small pixel deltas. The
// scaler watches the first events to tell the two apart and maps either kind
// to a zoom step of comparable size, so one wheel click and one short
// touchpad swipe move the camera about the same amount.

const (
	wheelCalibrationEvents = 4
	wheelBaseRate          = 10
	wheelStepScale         = 250
	wheelMaxInterval       = 0.1
)

type wheelDevice int

const (
	wheelDeviceUnknown wheelDevice = iota
	wheelDeviceNotched
	wheelDeviceContinuous
)

type wheelScaler struct {
	device wheelDevice
	seen   int

	lastAbs float64
	repeats int

	peakRate float64
	pending  float64
	lastAt   time.Time
}

// step converts a raw wheel delta to a zoom step. ok is false until enough
// events have been observed to classify the device; the caller decides what
// to do with uncalibrated input.
func (s *wheelScaler) step(d float64) (float64, bool) {
	calibrated := s.seen > wheelCalibrationEvents
	if !calibrated {
		s.seen++
	}
	abs := math.Abs(d)
	if abs == 0 {
		return 0, calibrated
	}
	s.classify(abs)
	s.trackRate(d)

	if s.device == wheelDeviceNotched {
		return math.Copysign(1, d), calibrated
	}
	return d * wheelStepScale / s.peakRate, calibrated
}

// classify marks the device notched once the same nonzero magnitude repeats
// often enough. A device change resets the rate estimate.
func (s *wheelScaler) classify(abs float64) {
	if abs == s.lastAbs {
		s.repeats++
	} else {
		s.repeats = 0
	}
	s.lastAbs = abs

	device := wheelDeviceContinuous
	if s.repeats > wheelCalibrationEvents {
		device = wheelDeviceNotched
	}
	if device != s.device {
		s.device = device
		s.peakRate = wheelBaseRate
	}
}

// trackRate maintains a decaying peak of the delta rate, used to scale
// continuous devices down to step-sized output.
func (s *wheelScaler) trackRate(d float64) {
	s.pending += d
	now := time.Now()
	dt := now.Sub(s.lastAt).Seconds()
	if dt <= 0 {
		return
	}
	if dt > wheelMaxInterval {
		dt = wheelMaxInterval
	}
	rate := math.Abs(s.pending / dt)
	s.pending = 0
	s.lastAt = now

	if s.peakRate < rate {
		// Low-pass to suppress spikes.
		s.peakRate = (s.peakRate + rate) / 2
	}
	s.peakRate *= 0.95
	if s.peakRate < 1 {
		s.peakRate = 1
	}
}
