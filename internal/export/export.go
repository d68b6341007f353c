// Package export renders the current filtered order view as downloadable
// reports, XLSX and CSV, with the same columns as the persisted table.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jcargnielo/designacao-pedidos/internal/models"
	"github.com/jcargnielo/designacao-pedidos/internal/store"
)

const sheetName = "Pedidos"

// OrdersXLSX builds a one-sheet workbook from the given orders.
func OrdersXLSX(orders []models.Order) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}
	header := make([]interface{}, len(store.OrderColumns))
	for i, c := range store.OrderColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, err
	}
	for i, o := range orders {
		row := []interface{}{o.ID, o.Number, o.Assignee, string(o.Status), o.StartedAt, o.CompletedAt}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// OrdersCSV writes the orders in the same layout as the backing table.
func OrdersCSV(orders []models.Order) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(store.OrderColumns); err != nil {
		return nil, err
	}
	for _, o := range orders {
		if err := w.Write(store.OrderRecord(o)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
