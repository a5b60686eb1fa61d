// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build !noopengl
// +build !noopengl

package backends

import (
	"github.com/koru3d/koruxr/gfx"
	"github.com/koru3d/koruxr/gfx/glr"
	"github.com/koru3d/koruxr/window"
)

func init() {
	gfx.Register(gfx.Descriptor{
		Name:        glr.Name,
		Rank:        RankOpenGL,
		WindowFlags: window.FlagOpenGL,
	}, func(c gfx.Collaborators) gfx.Backend {
		return glr.New(c)
	})
}
