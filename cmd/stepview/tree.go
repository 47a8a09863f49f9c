package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/meshgrid/stepmesh/model"
)

var treeCmd = &cobra.Command{
	Use:   "tree <file>",
	Short: "Show the spatial containment tree",
	Long:  `Parse the file and print the project/site/building/storey/element hierarchy.`,
	Args:  cobra.ExactArgs(1),
	Run:   runTree,
}

func runTree(cmd *cobra.Command, args []string) {
	m, _ := loadModel(args[0])

	root := m.Spatial()
	if root == nil {
		exitError("no spatial structure in %s", args[0])
	}

	green := color.New(color.FgGreen)
	faint := color.New(color.Faint)

	root.Walk(func(n *model.SpatialNode, depth int) {
		fmt.Print(strings.Repeat("  ", depth))
		green.Printf("#%d ", n.ID)
		fmt.Print(n.Type)
		if name := entityName(m, n.ID); name != "" {
			fmt.Printf(" %q", name)
		}
		faint.Printf(" [%s]", n.Kind)
		fmt.Println()
	})
}
