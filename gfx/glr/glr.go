// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package glr is the OpenGL backend. It needs a window that can
// host an OpenGL context.
package glr

import (
	"errors"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/koru3d/koruxr/gfx"
	"github.com/koru3d/koruxr/window"
	log "github.com/sirupsen/logrus"
)

// Name identifies the backend.
const Name = "OpenGL"

// ErrNoContextSupport is returned when the window cannot host an OpenGL context.
var ErrNoContextSupport = errors.New("glr: window cannot create OpenGL contexts")

// Loader binds OpenGL functions for the current context
// and reads implementation strings.
type Loader interface {
	Init() error
	String(name uint32) string
}

type nativeLoader struct{}

func (nativeLoader) Init() error {
	return gl.Init()
}

func (nativeLoader) String(name uint32) string {
	s := gl.GetString(name)
	if s == nil {
		return ""
	}
	return gl.GoStr(s)
}

// New creates an OpenGL backend that is not yet initialised.
func New(c gfx.Collaborators) *Backend {
	return NewWithLoader(c, nativeLoader{})
}

// NewWithLoader creates an OpenGL backend with a custom function loader.
func NewWithLoader(c gfx.Collaborators, loader Loader) *Backend {
	logger := c.Log
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Backend{
		window: c.Window,
		loader: loader,
		log:    logger.WithField("backend", Name),
	}
}

// Backend is the OpenGL implementation of gfx.Backend.
type Backend struct {
	window window.Window
	loader Loader
	log    log.FieldLogger

	context  interface{}
	version  gfx.Version
	renderer string
	vendor   string
}

// Name implements gfx.Backend
func (b *Backend) Name() string {
	return Name
}

// WindowFlags implements gfx.Backend
func (b *Backend) WindowFlags() window.Flags {
	return window.FlagOpenGL
}

// Version implements gfx.Backend. It is zero until a context exists.
func (b *Backend) Version() gfx.Version {
	return b.version
}

// Renderer returns the GL_RENDERER string of the current context.
func (b *Backend) Renderer() string {
	return b.renderer
}

// Initialize implements gfx.Backend
func (b *Backend) Initialize() error {
	if b.window == nil || !b.window.Valid() {
		return gfx.NewFatal(Name, gfx.StageContext, gfx.ErrNoWindow)
	}
	contexter, ok := b.window.(window.GLContexter)
	if !ok {
		return gfx.NewFatal(Name, gfx.StageContext, ErrNoContextSupport)
	}

	ctx, err := contexter.CreateGLContext()
	if err != nil {
		return gfx.NewFatal(Name, gfx.StageContext, err)
	}
	b.context = ctx

	if err := b.loader.Init(); err != nil {
		b.Cleanup()
		return gfx.NewFatal(Name, gfx.StageContext, errors.New("gl.Init(): "+err.Error()))
	}

	versionString := b.loader.String(gl.VERSION)
	b.version = gfx.ParseVersion(versionString)
	b.renderer = b.loader.String(gl.RENDERER)
	b.vendor = b.loader.String(gl.VENDOR)
	if b.version.IsZero() {
		b.log.WithField("version", versionString).Warn("Failed to read OpenGL version")
	}

	b.log.WithFields(log.Fields{
		"version":  versionString,
		"renderer": b.renderer,
		"vendor":   b.vendor,
	}).Info("OpenGL context created")
	return nil
}

// Cleanup implements gfx.Backend
func (b *Backend) Cleanup() error {
	if b.context == nil {
		return nil
	}
	if contexter, ok := b.window.(window.GLContexter); ok {
		contexter.DeleteGLContext(b.context)
	}
	b.context = nil
	b.version = gfx.Version{}
	b.renderer, b.vendor = "", ""
	b.log.Debug("OpenGL context deleted")
	return nil
}
