// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build darwin && metal
// +build darwin,metal

package backends

import (
	"github.com/koru3d/koruxr/gfx"
	"github.com/koru3d/koruxr/gfx/mtlr"
	"github.com/koru3d/koruxr/window"
)

func init() {
	gfx.Register(gfx.Descriptor{
		Name:        mtlr.Name,
		Rank:        RankMetal,
		WindowFlags: window.FlagMetal,
	}, func(c gfx.Collaborators) gfx.Backend {
		return mtlr.New(c)
	})
}
