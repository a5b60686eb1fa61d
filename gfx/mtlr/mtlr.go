// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build darwin && metal
// +build darwin,metal

// Package mtlr is the Metal backend, available on macOS when
// built with the metal tag.
package mtlr

import (
	"errors"

	"dmitri.shuralyov.com/gpu/mtl"
	"github.com/koru3d/koruxr/gfx"
	"github.com/koru3d/koruxr/window"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Name identifies the backend.
const Name = "Metal"

// New creates a Metal backend that is not yet initialised.
func New(c gfx.Collaborators) *Backend {
	logger := c.Log
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Backend{log: logger.WithField("backend", Name)}
}

// Backend is the Metal implementation of gfx.Backend.
type Backend struct {
	log log.FieldLogger

	initialised  bool
	device       mtl.Device
	commandQueue mtl.CommandQueue
}

// Name implements gfx.Backend
func (b *Backend) Name() string {
	return Name
}

// WindowFlags implements gfx.Backend
func (b *Backend) WindowFlags() window.Flags {
	return window.FlagMetal
}

// Version implements gfx.Backend. Metal follows the OS release,
// so the macOS product version is reported.
func (b *Backend) Version() gfx.Version {
	release, err := unix.Sysctl("kern.osproductversion")
	if err != nil {
		return gfx.Version{}
	}
	return gfx.ParseVersion(release)
}

// Initialize implements gfx.Backend
func (b *Backend) Initialize() error {
	device, err := mtl.CreateSystemDefaultDevice()
	if err != nil {
		return gfx.NewFatal(Name, gfx.StageDevice, errors.New("mtl.CreateSystemDefaultDevice(): "+err.Error()))
	}
	b.device = device
	b.commandQueue = device.MakeCommandQueue()
	b.initialised = true

	b.log.WithFields(log.Fields{
		"device":    device.Name,
		"headless":  device.Headless,
		"lowPower":  device.LowPower,
		"removable": device.Removable,
	}).Info("Metal device created")
	return nil
}

// Cleanup implements gfx.Backend
func (b *Backend) Cleanup() error {
	if !b.initialised {
		return nil
	}
	b.commandQueue = mtl.CommandQueue{}
	b.device = mtl.Device{}
	b.initialised = false
	b.log.Debug("Metal device released")
	return nil
}
