package main

import (
	"os"

	sumpagecli "github.com/go-barry/sumpage/cli"
	"github.com/sirupsen/logrus"
	clilib "github.com/urfave/cli/v2"
)

func runApp(args []string) error {
	app := &clilib.App{
		Name:  "sumpage",
		Usage: "Greeting and calculator site",
		Commands: []*clilib.Command{
			sumpagecli.DevCommand,
			sumpagecli.ProdCommand,
			sumpagecli.CleanCommand,
			sumpagecli.CheckCommand,
			sumpagecli.InfoCommand,
		},
	}
	return app.Run(args)
}

func main() {
	if err := runApp(os.Args); err != nil {
		logrus.Fatal(err)
	}
}
