package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/WenkChr/nbl-experimental/polycut"
	flags "github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

type GlobalOptions struct {
	Config  string `short:"c" long:"config" description:"Configuration file (required)"`
	EnvFile string `short:"e" long:"env" description:"Dotenv file loaded before reading the configuration"`
}

var globalOpts = GlobalOptions{}
var parser = flags.NewParser(&globalOpts, flags.HelpFlag|flags.PassDoubleDash)

func Run() error {
	_, err := parser.Parse()
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		parser.WriteHelp(os.Stdout)
		return nil
	}
	return err
}

func (g *GlobalOptions) ReadConfig() (*polycut.Config, error) {
	if g.EnvFile != "" {
		err := godotenv.Load(g.EnvFile)
		if err != nil {
			return nil, fmt.Errorf("Failed to load %s: %s", g.EnvFile, err)
		}
	}

	if g.Config == "" {
		return nil, errors.New("No configuration specified")
	}

	cfg, err := polycut.ReadConfig(g.Config)
	if err != nil {
		return nil, fmt.Errorf("Failed to read configuration: %s", err)
	}
	cfg.ExpandEnv()
	return cfg, nil
}
