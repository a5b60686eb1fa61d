// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"flag"
	"os"
	"runtime"
	"sort"
	"unsafe"

	"github.com/koru3d/koruxr/core"
	"github.com/koru3d/koruxr/gfx"
	"github.com/koru3d/koruxr/gfx/backends"
	"github.com/koru3d/koruxr/window"
	"github.com/koru3d/koruxr/window/sdlwin"
	log "github.com/sirupsen/logrus"
)

func init() {
	runtime.LockOSThread()
}

var (
	configPath = flag.String("config", "", "TOML configuration file")
	envPath    = flag.String("env", ".env", "dotenv file with KORU_* overrides")
	backend    = flag.String("backend", "", "preferred graphics backend, overrides the configuration")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	configuration, err := core.LoadConfiguration(*configPath, *envPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		return 1
	}
	if *backend != "" {
		configuration.Graphics.Backend = *backend
	}

	logger, logFile, err := core.NewLogger(configuration.Log)
	if err != nil {
		log.WithError(err).Error("Failed to create logger")
		return 1
	}
	defer logFile.Close()

	win, err := sdlwin.New(configuration.Application.Title, logger.WithField("component", "window"))
	if err != nil {
		logger.WithError(err).Error("Failed to initialise windowing")
		return 1
	}
	defer win.Close()

	backends.VulkanProcAddr = func() unsafe.Pointer {
		procAddr, err := win.LoadVulkan()
		if err != nil {
			logger.WithError(err).Warn("Falling back to the system Vulkan loader")
			return nil
		}
		return procAddr
	}

	xrRuntime := configuration.XR.Runtime()
	candidates := gfx.NewBackends(gfx.Collaborators{
		Window:  win,
		Runtime: xrRuntime,
		Log:     logger,
		Debug:   configuration.Graphics.Debug,
	})
	manager := gfx.NewManager(
		configuration.Graphics.ManagerConfiguration(),
		win,
		xrRuntime,
		logger.WithField("component", "graphics"),
		candidates,
	)
	defer manager.Close()

	if err := manager.Select(configuration.Graphics.Backend); err != nil {
		logger.WithError(err).Error("No graphics backend could be brought up")
		return 1
	}
	logVersions(logger, manager)

	eventLoop(logger, win, core.NewTime(configuration.Time))
	return 0
}

func logVersions(logger log.FieldLogger, manager *gfx.Manager) {
	versions := manager.Versions()
	names := make([]string, 0, len(versions))
	for name := range versions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		logger.WithFields(log.Fields{
			"backend": name,
			"version": versions[name].String(),
			"active":  name == manager.ActiveName(),
		}).Info("Graphics backend")
	}
}

func eventLoop(logger log.FieldLogger, win window.Window, time core.Time) {
	defer time.Stop()

EventLoop:
	for {
		select {
		case <-time.Deadline():
			logger.Info("Run time elapsed")
			break EventLoop
		case <-time.EventTicker().C:
			for event, ok := win.PollEvent(); ok; event, ok = win.PollEvent() {
				switch {
				case event.Type == window.EventQuit:
					break EventLoop
				case event.Type == window.EventKeyDown && event.Key == window.KeyEscape:
					break EventLoop
				}
			}
		}
	}
	logger.Info("Event loop exited")
}
