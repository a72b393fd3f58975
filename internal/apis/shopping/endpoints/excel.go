package endpoints

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"shopsearch/internal/apis/shopping/responses"
)

type saveResp struct {
	envelope
	TotalSaved int `json:"totalSaved"`
}

type saveManyReq struct {
	Products []responses.SpreadsheetRow `json:"products"`
}

type countResp struct {
	Count int `json:"count"`
}

// SaveToExcel appends one product body. The backend flattens it.
func (c *Client) SaveToExcel(ctx context.Context, product any) (int, error) {
	var out saveResp
	status, err := c.doJSON(ctx, http.MethodPost, "/api/save-to-excel", product, &out)
	if err != nil {
		return 0, err
	}
	if err := out.check(status, ""); err != nil {
		return 0, err
	}
	return out.TotalSaved, nil
}

func (c *Client) SaveMultipleToExcel(ctx context.Context, rows []responses.SpreadsheetRow) (int, error) {
	if rows == nil {
		rows = []responses.SpreadsheetRow{}
	}
	var out saveResp
	status, err := c.doJSON(ctx, http.MethodPost, "/api/save-multiple-to-excel", saveManyReq{Products: rows}, &out)
	if err != nil {
		return 0, err
	}
	if err := out.check(status, ""); err != nil {
		return 0, err
	}
	return out.TotalSaved, nil
}

func (c *Client) ExcelDataCount(ctx context.Context) (int, error) {
	var out countResp
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/excel-data-count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// ExportExcel streams the workbook into w and returns the bytes copied.
func (c *Client) ExportExcel(ctx context.Context, w io.Writer) (int64, error) {
	req, err := c.newReq(ctx, http.MethodGet, "/api/export-excel", nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet, */*")

	resp, err := c.Doer.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return 0, ParseAPIError(resp.StatusCode, []byte(strings.TrimSpace(string(b))))
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("export-excel: copy body: %w", err)
	}
	return n, nil
}

func (c *Client) ClearExcelData(ctx context.Context) error {
	var out envelope
	status, err := c.doJSON(ctx, http.MethodDelete, "/api/excel-data", nil, &out)
	if err != nil {
		return err
	}
	return out.check(status, "")
}
