package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/meshgrid/stepmesh/model"
	"github.com/meshgrid/stepmesh/step"
)

var propsCmd = &cobra.Command{
	Use:   "props <file> <entity-id>",
	Short: "Show an element's property sets",
	Long:  `Parse the file and print every property set attached to the given entity id.`,
	Args:  cobra.ExactArgs(2),
	Run:   runProps,
}

func runProps(cmd *cobra.Command, args []string) {
	id, err := strconv.ParseUint(strings.TrimPrefix(args[1], "#"), 10, 32)
	if err != nil {
		exitError("invalid entity id %q", args[1])
	}

	m, _ := loadModel(args[0])
	eid := step.EntityID(id)

	typeName, ok := m.TypeOf(eid)
	if !ok {
		exitError("entity #%d not found", id)
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	bold.Printf("#%d %s", id, typeName)
	if name := entityName(m, eid); name != "" {
		fmt.Printf(" %q", name)
	}
	fmt.Println()

	sets := m.PropertySets(eid)
	if len(sets) == 0 {
		fmt.Println("No property sets.")
		return
	}

	for _, set := range sets {
		fmt.Println()
		bold.Printf("%s", set.Name)
		faint.Printf(" (#%d)\n", set.ID)
		for _, p := range set.Properties {
			fmt.Printf("  %-30s %s", p.Name, formatValue(p.Value))
			if p.Quantity != model.QuantityNone {
				faint.Printf(" [%s]", p.Quantity)
			}
			fmt.Println()
		}
	}
}

func formatValue(v model.AttributeValue) string {
	switch v.Kind {
	case model.AttrString:
		return strconv.Quote(v.Str)
	case model.AttrInt:
		return strconv.FormatInt(v.Int, 10)
	case model.AttrFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case model.AttrEnum:
		return "." + v.Str + "."
	case model.AttrRef:
		return fmt.Sprintf("#%d", v.Ref)
	case model.AttrNull:
		return "$"
	case model.AttrDerived:
		return "*"
	case model.AttrTyped:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = formatValue(e)
		}
		return v.Str + "(" + strings.Join(parts, ",") + ")"
	case model.AttrList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = formatValue(e)
		}
		return "(" + strings.Join(parts, ",") + ")"
	}
	return "?"
}
