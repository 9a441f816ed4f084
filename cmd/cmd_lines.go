package cmd

import (
	"fmt"
	"log"

	"github.com/WenkChr/nbl-experimental/polycut"
)

type CmdLines struct {
	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("lines",
		"Build the line network",
		"Decompose the configured cut geometry into its atomic line network and write it, without cutting",
		&CmdLines{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdLines) Execute(args []string) error {
	cfg, err := cmd.global.ReadConfig()
	if err != nil {
		return err
	}

	cut, err := polycut.LoadCutFeatures(cfg)
	if err != nil {
		return fmt.Errorf("Failed to load cut geometry: %s", err)
	}

	network, report, err := polycut.BuildNetworkOnly(cfg, cut)
	if err != nil {
		return fmt.Errorf("Failed to build network: %s", err)
	}
	report.Log()

	err = polycut.WriteNetwork(cfg, network)
	if err != nil {
		return fmt.Errorf("Failed to write network: %s", err)
	}

	log.Printf("Done: %d segments", len(network))
	return nil
}
