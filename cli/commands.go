package cli

import (
	"github.com/go-barry/sumpage"
	"github.com/go-barry/sumpage/core"

	"github.com/urfave/cli/v2"
)

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "path to the site config file",
	Value:   core.ConfigFile,
	EnvVars: []string{"SUMPAGE_CONFIG"},
}

var portFlag = &cli.IntFlag{
	Name:    "port",
	Aliases: []string{"p"},
	Usage:   "port to listen on",
	Value:   8080,
	EnvVars: []string{"SUMPAGE_PORT"},
}

var DevCommand = &cli.Command{
	Name:  "dev",
	Usage: "Start the site in dev mode (no caching, live reload)",
	Flags: []cli.Flag{portFlag, configFlag},
	Action: func(c *cli.Context) error {
		cfg := sumpage.RuntimeConfig{
			Env:         "dev",
			EnableCache: false,
			Port:        c.Int("port"),
			ConfigPath:  c.String("config"),
		}
		sumpage.Start(cfg)
		return nil
	},
}

var ProdCommand = &cli.Command{
	Name:  "prod",
	Usage: "Start the site in production mode (page cache on)",
	Flags: []cli.Flag{portFlag, configFlag},
	Action: func(c *cli.Context) error {
		cfg := sumpage.RuntimeConfig{
			Env:         "prod",
			EnableCache: true,
			Port:        c.Int("port"),
			ConfigPath:  c.String("config"),
		}
		sumpage.Start(cfg)
		return nil
	},
}
