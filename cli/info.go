package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-barry/sumpage/core"
	"github.com/urfave/cli/v2"
)

var InfoCommand = &cli.Command{
	Name:  "info",
	Usage: "Print config, route table and cache summary",
	Flags: []cli.Flag{configFlag},
	Action: func(c *cli.Context) error {
		config := core.LoadConfig(c.String("config"))

		fmt.Println("📁 Output Directory:", config.OutputDir)
		fmt.Println("🔁 Cache Enabled:", config.CacheEnabled)
		fmt.Println("🔁 Debug Headers Enabled:", config.DebugHeaders)
		fmt.Println("🔁 Debug Logs Enabled:", config.DebugLogs)
		fmt.Println("🖼️  Views:", sourceLabel(config.ViewsDir))
		fmt.Println("🗃️  Static Assets:", sourceLabel(config.PublicDir))
		fmt.Println()

		routes := core.DefaultRoutes(core.NewCalculator(core.Add))
		fmt.Println("🗂️  Routes Found:", len(routes))
		for _, r := range routes {
			method := r.Method
			if method == "" {
				method = "ANY"
			}
			fmt.Printf("   %-4s %-16s %s\n", method, r.Path, r.Name)
		}

		cacheCount := 0
		filepath.Walk(config.OutputDir, func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() && strings.HasSuffix(path, ".html") {
				cacheCount++
			}
			return nil
		})
		fmt.Println("💾 Cached Pages:", cacheCount)

		return nil
	},
}

func sourceLabel(dir string) string {
	if dir == "" {
		return "embedded"
	}
	return dir
}
