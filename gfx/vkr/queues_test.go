// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/koru3d/koruxr/device"
	"github.com/koru3d/koruxr/gfx"
)

const (
	qG = device.QueueGraphics
	qC = device.QueueCompute
	qT = device.QueueTransfer
	qS = device.QueueSparseBinding
)

func families(flags ...device.QueueFlags) []device.QueueFamilyInfo {
	fams := make([]device.QueueFamilyInfo, len(flags))
	for i, f := range flags {
		fams[i] = device.QueueFamilyInfo{Index: uint32(i), Flags: f, Count: 1}
	}
	return fams
}

func presentOn(indices ...uint32) func(uint32) bool {
	return func(family uint32) bool {
		for _, i := range indices {
			if i == family {
				return true
			}
		}
		return false
	}
}

func TestSelectQueues(t *testing.T) {
	for _, tc := range []struct {
		name     string
		families []device.QueueFamilyInfo
		present  func(uint32) bool
		want     QueueSelection
	}{{
		name:     "single universal family",
		families: families(qG | qC | qT),
		want:     QueueSelection{Graphics: 0, Compute: 0, Transfer: 0, HasTransfer: true},
	}, {
		name:     "dedicated compute and transfer",
		families: families(qG|qC|qT, qC|qT, qT|qS),
		want:     QueueSelection{Graphics: 0, Compute: 1, Transfer: 2, HasTransfer: true},
	}, {
		name:     "compute falls back to graphics family",
		families: families(qT, qG|qC),
		want:     QueueSelection{Graphics: 1, Compute: 1, Transfer: 0, HasTransfer: true},
	}, {
		name:     "transfer falls back",
		families: families(qG|qC|qT, qC|qT),
		want:     QueueSelection{Graphics: 0, Compute: 1, Transfer: 0, HasTransfer: true},
	}, {
		name:     "no transfer",
		families: families(qG | qC),
		want:     QueueSelection{},
	}, {
		name:     "graphics must present",
		families: families(qG|qC, qG|qC, qC),
		present:  presentOn(1),
		want:     QueueSelection{Graphics: 1, Compute: 2, Present: 1, HasPresent: true},
	}, {
		name:     "present reuses graphics",
		families: families(qG|qC|qT, qC),
		present:  presentOn(0, 1),
		want:     QueueSelection{Graphics: 0, Compute: 1, Present: 0, HasPresent: true, Transfer: 0, HasTransfer: true},
	}} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SelectQueues(tc.families, tc.present)
			qt.Assert(t, err, qt.IsNil)
			qt.Assert(t, got, qt.Equals, tc.want)
		})
	}
}

func TestSelectQueuesFailures(t *testing.T) {
	c := qt.New(t)

	_, err := SelectQueues(nil, nil)
	c.Assert(err, qt.ErrorIs, gfx.ErrNoQueueFamily)

	_, err = SelectQueues(families(qC, qT), nil)
	c.Assert(err, qt.ErrorMatches, "graphics: .*")

	empty := families(qG|qC, qC)
	empty[0].Count = 0
	_, err = SelectQueues(empty, nil)
	c.Assert(err, qt.ErrorIs, gfx.ErrNoQueueFamily)

	_, err = SelectQueues(families(qG, qT), nil)
	c.Assert(err, qt.ErrorMatches, "compute: .*")

	_, err = SelectQueues(families(qG|qC, qG|qC), presentOn())
	c.Assert(err, qt.ErrorMatches, "graphics: .*")
}

func TestSelectQueuesIsDeterministic(t *testing.T) {
	c := qt.New(t)
	fams := families(qT, qC|qT, qG|qC|qT, qG|qC|qT|qS, qC)
	first, err := SelectQueues(fams, presentOn(3))
	c.Assert(err, qt.IsNil)
	for i := 0; i < 10; i++ {
		again, err := SelectQueues(fams, presentOn(3))
		c.Assert(err, qt.IsNil)
		c.Assert(again, qt.Equals, first)
	}
	c.Assert(first.Graphics, qt.Equals, uint32(3))
	c.Assert(first.Compute, qt.Equals, uint32(1))
	c.Assert(first.Transfer, qt.Equals, uint32(0))
}

func TestQueueFamilies(t *testing.T) {
	c := qt.New(t)
	c.Assert(QueueSelection{Graphics: 0, Compute: 0}.Families(), qt.DeepEquals, []uint32{0})
	c.Assert(QueueSelection{Graphics: 0, Compute: 2, Present: 1, HasPresent: true}.Families(), qt.DeepEquals, []uint32{0, 2, 1})
	c.Assert(QueueSelection{Graphics: 1, Compute: 2, Present: 4}.Families(), qt.DeepEquals, []uint32{1, 2})
}
