package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/fx-ratekeeper/internal/model"
)

var exportCmd = &cobra.Command{
	Use:   "export <currency>",
	Short: "Export a currency series to an Excel workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		currency := strings.ToUpper(args[0])
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = fmt.Sprintf("SBI_REFERENCE_RATES_%s.xlsx", currency)
		}

		writer := buildWriter()
		rows, err := writer.Load(currency)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return eris.Errorf("export: no series data for %s", currency)
		}

		f := xlsx.NewFile()
		sheet, err := f.AddSheet(currency)
		if err != nil {
			return eris.Wrap(err, "export: add sheet")
		}

		header := sheet.AddRow()
		for _, col := range model.SeriesHeader() {
			header.AddCell().SetString(col)
		}
		for _, row := range rows {
			r := sheet.AddRow()
			for _, val := range row {
				r.AddCell().SetString(val)
			}
		}

		if err := f.Save(out); err != nil {
			return eris.Wrapf(err, "export: save %s", out)
		}

		fmt.Printf("Wrote %d rows to %s\n", len(rows), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("out", "", "output path (default SBI_REFERENCE_RATES_<CCY>.xlsx)")
	rootCmd.AddCommand(exportCmd)
}
