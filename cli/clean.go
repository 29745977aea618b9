package cli

import (
	"fmt"

	"github.com/go-barry/sumpage/core"
	"github.com/urfave/cli/v2"
)

var CleanCommand = &cli.Command{
	Name:      "clean",
	Usage:     "Delete cached pages from the output directory",
	ArgsUsage: "[route (optional)]",
	Flags:     []cli.Flag{configFlag},
	Action: func(c *cli.Context) error {
		config := core.LoadConfig(c.String("config"))

		target, err := core.ClearCache(config, c.Args().First())
		if core.IsNotFoundError(err) {
			fmt.Println("🧼 Nothing to clean:", target)
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Println("🧹 Cleaned:", target)
		fmt.Println("✅ Done.")
		return nil
	},
}
