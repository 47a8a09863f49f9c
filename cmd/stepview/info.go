package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show entity statistics",
	Long:  `Parse the file and print entity counts grouped by type.`,
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

var infoTop int

func init() {
	infoCmd.Flags().IntVarP(&infoTop, "n", "n", 0, "Limit output to the N most frequent types")
}

func runInfo(cmd *cobra.Command, args []string) {
	m, cfg := loadModel(args[0])
	router := newRouter(cfg)

	type typeCount struct {
		name  string
		count int
	}
	var counts []typeCount
	geometric := 0
	for _, name := range m.Types() {
		n := len(m.FindByType(name))
		counts = append(counts, typeCount{name, n})
		if router.Supported(name) {
			geometric += n
		}
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].name < counts[j].name
	})
	if infoTop > 0 && len(counts) > infoTop {
		counts = counts[:infoTop]
	}

	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	bold.Printf("File: %s\n", args[0])
	fmt.Printf("Entities: %d\n", m.Len())
	fmt.Printf("Types: %d\n", len(m.Types()))
	fmt.Printf("Geometric: %d\n\n", geometric)

	for _, tc := range counts {
		cyan.Printf("%8d ", tc.count)
		fmt.Println(tc.name)
	}
}
