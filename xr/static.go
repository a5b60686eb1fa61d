// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package xr

// Static is a runtime whose answers are fixed up front, used when the
// requirements of a headset are known in advance and in tests.
// Any non-nil error field makes the corresponding query fail.
type Static struct {
	Enabled bool
	Handle  interface{}
	System  uint64

	MinAPIVersion uint32
	MaxAPIVersion uint32
	BoundsErr     error

	InstanceExts    []string
	InstanceExtsErr error

	DeviceExts    []string
	DeviceExtsErr error

	// Recommend picks a physical device for the given instance.
	// When nil the runtime makes no recommendation.
	Recommend func(instance interface{}) (interface{}, error)
}

var _ Runtime = (*Static)(nil)

// Valid implements interface
func (s *Static) Valid() bool {
	return s != nil && s.Enabled
}

// Instance implements interface
func (s *Static) Instance() interface{} {
	if !s.Valid() {
		return nil
	}
	return s.Handle
}

// SystemID implements interface
func (s *Static) SystemID() uint64 {
	if !s.Valid() {
		return 0
	}
	return s.System
}

// APIVersionBounds implements interface
func (s *Static) APIVersionBounds() (uint32, uint32, error) {
	if !s.Valid() {
		return 0, 0, ErrUnavailable
	}
	if s.BoundsErr != nil {
		return 0, 0, s.BoundsErr
	}
	return s.MinAPIVersion, s.MaxAPIVersion, nil
}

// InstanceExtensions implements interface
func (s *Static) InstanceExtensions() ([]string, error) {
	if !s.Valid() {
		return nil, ErrUnavailable
	}
	if s.InstanceExtsErr != nil {
		return nil, s.InstanceExtsErr
	}
	return append([]string(nil), s.InstanceExts...), nil
}

// DeviceExtensions implements interface
func (s *Static) DeviceExtensions() ([]string, error) {
	if !s.Valid() {
		return nil, ErrUnavailable
	}
	if s.DeviceExtsErr != nil {
		return nil, s.DeviceExtsErr
	}
	return append([]string(nil), s.DeviceExts...), nil
}

// RecommendedPhysicalDevice implements interface
func (s *Static) RecommendedPhysicalDevice(instance interface{}) (interface{}, error) {
	if !s.Valid() {
		return nil, ErrUnavailable
	}
	if s.Recommend == nil {
		return nil, ErrNoRecommendation
	}
	return s.Recommend(instance)
}
