package http

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/opdss/xltable/contracts/sheet"
	"github.com/opdss/xltable/csvsheet"
	"github.com/opdss/xltable/schema"
	"github.com/opdss/xltable/style"
	"github.com/opdss/xltable/table"
	"github.com/opdss/xltable/workbook"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler 一个表格定义对应的接口
type Handler struct {
	name   string
	table  *table.Table
	styles *style.Set
	logger *zap.Logger
}

func NewHandler(sch *schema.Schema, logger *zap.Logger) (*Handler, error) {
	tbl, err := sch.Table()
	if err != nil {
		return nil, err
	}
	set, err := sch.Styles()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{name: sch.Name(), table: tbl, styles: set, logger: logger}, nil
}

// Register 注册路由
//
//	GET  /styles    样式名称
//	GET  /template  下载空白模板
//	POST /check     上传文件检查，表单字段 file
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/styles", h.Styles)
	r.GET("/template", h.Template)
	r.POST("/check", h.Check)
}

func (h *Handler) Styles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default": h.styles.Default(),
		"styles":  h.styles.Names(),
	})
}

func (h *Handler) Template(c *gin.Context) {
	wb, err := workbook.New(workbook.WithStyles(h.styles), workbook.WithLogger(h.logger))
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	defer func() { _ = wb.Close() }()
	ts, err := wb.AddTable(h.name, h.table, workbook.Active())
	if err == nil {
		err = ts.WriteTemplate(table.WithTitle(c.Query("title")), table.WithDescription(c.Query("description")))
	}
	var data []byte
	if err == nil {
		data, err = wb.Bytes()
	}
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, h.name))
	c.Data(http.StatusOK, xlsxContentType, data)
}

type rowReport struct {
	Row   int      `json:"row"`
	Cells []string `json:"cells"`
}

type checkReport struct {
	Sheet  string      `json:"sheet"`
	Valid  int         `json:"valid"`
	Errors []rowReport `json:"errors,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Check 按 policy 参数读取上传的文件，默认收集所有出错的行
func (h *Handler) Check(c *gin.Context) {
	policy := table.RaiseSheetException
	if p := c.Query("policy"); p != "" {
		var err error
		if policy, err = table.ParsePolicy(p); err != nil {
			h.fail(c, http.StatusBadRequest, err)
			return
		}
	}
	fh, err := c.FormFile("file")
	if err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}
	defer func() { _ = f.Close() }()

	var sh sheet.Sheet
	if strings.EqualFold(filepath.Ext(fh.Filename), ".csv") {
		sh, err = csvsheet.Read(f, h.name, csvsheet.WithStyles(h.styles), csvsheet.WithLogger(h.logger))
	} else {
		var wb *workbook.Workbook
		if wb, err = workbook.OpenReader(f, workbook.WithStyles(h.styles), workbook.WithLogger(h.logger)); err == nil {
			defer func() { _ = wb.Close() }()
			name := c.Query("sheet")
			if name == "" {
				name = wb.SheetNames()[0]
			}
			sh = wb.Sheet(name)
		}
	}
	if err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}

	report := checkReport{Sheet: sh.Name()}
	reader := h.table.Read(sh, table.WithPolicy(policy))
	defer func() { _ = reader.Close() }()
	for reader.Next() {
		report.Valid++
	}
	if err = reader.Err(); err == nil {
		c.JSON(http.StatusOK, report)
		return
	}
	var sheetErr *table.SheetError
	var rowErr *table.RowError
	switch {
	case errors.As(err, &sheetErr):
		for _, r := range sheetErr.Rows {
			report.Errors = append(report.Errors, newRowReport(r))
		}
	case errors.As(err, &rowErr):
		report.Errors = append(report.Errors, newRowReport(rowErr))
	default:
		report.Error = err.Error()
	}
	h.logger.Debug("check failed", zap.String("file", fh.Filename), zap.Error(err))
	c.JSON(http.StatusUnprocessableEntity, report)
}

func newRowReport(e *table.RowError) rowReport {
	r := rowReport{Row: e.Row, Cells: make([]string, len(e.Cells))}
	for i, err := range e.Cells {
		r.Cells[i] = err.Error()
	}
	return r
}

func (h *Handler) fail(c *gin.Context, code int, err error) {
	if code >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(code, gin.H{"error": err.Error()})
}
