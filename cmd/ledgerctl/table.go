package main

import (
	"fmt"
	"strconv"

	"ai-storyboard-be/internal/constant"
	"ai-storyboard-be/internal/dto"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func newTable(headers ...interface{}) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row(headers))
	return tw
}

func renderHistory(res *dto.TransactionHistoryResponse) string {
	tw := newTable("When", "Type", "Amount", "Balance", "Reference", "Description")
	for _, t := range res.Transactions {
		ref := ""
		if t.ReferenceId != nil {
			ref = *t.ReferenceId
		}
		tw.AppendRow(table.Row{
			t.CreatedAt.Format("2006-01-02 15:04:05"),
			t.Type,
			fmt.Sprintf("%+d", t.Amount),
			strconv.Itoa(t.BalanceAfter),
			ref,
			t.Description,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	return tw.Render()
}

func renderPacks(packs []constant.TokenPack) string {
	tw := newTable("Id", "Tokens", "IDR", "USD cents", "Description")
	for _, p := range packs {
		tw.AppendRow(table.Row{p.Id, p.Tokens, p.PriceIdr, p.PriceInCents, p.Description})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	return tw.Render()
}
