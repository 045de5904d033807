package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates [template-id]",
	Short: "List templates, or show one template's fields",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTemplates,
}

func runTemplates(cmd *cobra.Command, args []string) error {
	store, _ := openStore()
	defer store.Close()

	if len(args) == 0 {
		tpls, err := store.ListTemplates()
		if err != nil {
			return err
		}
		if len(tpls) == 0 {
			fmt.Println("no templates")
			return nil
		}
		for _, t := range tpls {
			active := " "
			if t.Active {
				active = "*"
			}
			fmt.Printf("%s %s  v%d  %s (%s)\n", active, t.ID, t.Version, t.Name, t.InstrumentType)
		}
		return nil
	}

	tpl, err := store.GetTemplate(args[0])
	if err != nil {
		return err
	}
	fields, err := store.FieldsForTemplate(tpl.ID)
	if err != nil {
		return err
	}
	fmt.Printf("%s v%d (%s)\n", tpl.Name, tpl.Version, tpl.InstrumentType)
	for _, f := range fields {
		line := fmt.Sprintf("  %-24s %-10s", f.Name, f.DataType)
		if f.CalcType != "" {
			line += "  calc=" + f.CalcType
		}
		if f.ToleranceType != "" {
			line += "  tol=" + f.ToleranceType
		}
		if f.ToleranceEquation != "" {
			line += "  eq=" + f.ToleranceEquation
		}
		fmt.Println(line)
	}
	return nil
}
