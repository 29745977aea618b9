package cli

import (
	"bytes"
	"fmt"

	"github.com/go-barry/sumpage/core"
	"github.com/urfave/cli/v2"
)

var CheckCommand = &cli.Command{
	Name:  "check",
	Usage: "Parse and execute every view with an empty context",
	Flags: []cli.Flag{configFlag},
	Action: func(c *cli.Context) error {
		config := core.LoadConfig(c.String("config"))

		renderer := core.NewTemplateRenderer(core.RendererConfig{
			Views:  config.ViewsFS(),
			Funcs:  core.TemplateFuncs("dev", config.OutputDir, config.PublicFS()),
			Reload: true,
		})

		names, err := renderer.ViewNames()
		if err != nil {
			return fmt.Errorf("failed to list views: %w", err)
		}
		if len(names) == 0 {
			return cli.Exit("no views found", 1)
		}

		var failed bool
		for _, name := range names {
			var buf bytes.Buffer
			if err := renderer.Render(&buf, name, map[string]interface{}{}); err != nil {
				failed = true
				fmt.Printf("❌ %s → %v\n", name, err)
				continue
			}
			fmt.Printf("✅ %s\n", name)
		}

		if failed {
			return cli.Exit("some views failed to render", 1)
		}

		fmt.Println("✅ All views validated successfully.")
		return nil
	},
}
