package cmd

import (
	"fmt"
	"log"

	"github.com/WenkChr/nbl-experimental/polycut"
	"github.com/cheggaaa/pb"
)

type CmdCut struct {
	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("cut",
		"Cut building polygons",
		"Split building footprints along the configured cut geometry and write splits, line network and slivers",
		&CmdCut{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdCut) Execute(args []string) error {
	cfg, err := cmd.global.ReadConfig()
	if err != nil {
		return err
	}

	log.Println("Loading inputs")
	buildings, err := polycut.LoadBuildings(cfg)
	if err != nil {
		return fmt.Errorf("Failed to load buildings: %s", err)
	}
	cut, err := polycut.LoadCutFeatures(cfg)
	if err != nil {
		return fmt.Errorf("Failed to load cut geometry: %s", err)
	}
	points, err := polycut.LoadPoints(cfg)
	if err != nil {
		return fmt.Errorf("Failed to load points: %s", err)
	}

	log.Printf("Cutting %d buildings with %d cut features", len(buildings), len(cut))
	bar := pb.New(len(buildings))
	bar.Start()

	pipe := polycut.NewPipeline(cfg).
		Buildings(buildings).
		CutGeometry(cut).
		Points(points).
		Progress(func() { bar.Increment() })

	result, err := pipe.Run()
	bar.Finish()
	if err != nil {
		return fmt.Errorf("Failed to cut: %s", err)
	}

	result.Report.Log()

	err = polycut.WriteResult(cfg, result)
	if err != nil {
		return fmt.Errorf("Failed to write outputs: %s", err)
	}

	log.Printf("Done: %d splits, %d slivers, %d segments", len(result.Splits), len(result.Slivers), len(result.Network))
	return nil
}
