// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/koru3d/koruxr/gfx/vkr"
	"github.com/koru3d/koruxr/gfx/vkr/vkdrv"
	log "github.com/sirupsen/logrus"
)

var (
	debug  = flag.Bool("debug", false, "enable the validation layer")
	indent = flag.Bool("indent", false, "indent the JSON output")
)

func main() {
	flag.Parse()

	drv, err := vkdrv.New(nil)
	if err != nil {
		log.Fatal(err)
	}

	info := vkr.InstanceInfo{
		ApplicationName: "korucli",
		EngineName:      "Koru3D",
		APIVersion:      vkr.DefaultAPIVersion,
	}
	if *debug {
		info.Extensions = []string{vkr.DebugReportExtensionName}
		info.Layers = []string{vkr.ValidationLayerName}
	}

	reports, err := vkdrv.Inventory(drv, info)
	if err != nil {
		log.Fatal(err)
	}

	var bytes []byte
	if *indent {
		bytes, err = json.MarshalIndent(reports, "", "  ")
	} else {
		bytes, err = json.Marshal(reports)
	}
	if err != nil {
		log.Fatal(err)
	}
	fmt.Fprintf(os.Stdout, "%s\n", bytes)
}
