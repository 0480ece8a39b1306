package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opdss/xltable/column"
	"github.com/opdss/xltable/contracts/event"
	"github.com/opdss/xltable/csvsheet"
	"github.com/opdss/xltable/iterator"
	"github.com/opdss/xltable/storage"
	"github.com/opdss/xltable/table"
	"github.com/opdss/xltable/workbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New([]*column.Column{
		column.Char("name", column.WithHeader("Name")),
		column.Int("age", column.WithHeader("Age")),
	})
	require.NoError(t, err)
	return tbl
}

func members(n int) DataProvider {
	rows := make([]map[string]any, n)
	for i := range rows {
		rows[i] = map[string]any{"name": fmt.Sprintf("m%d", i+1), "age": 20 + i}
	}
	return iterator.Objects(rows)
}

func readNames(t *testing.T, wb *workbook.Workbook) []string {
	t.Helper()
	records, err := memberTable(t).Read(wb.Sheet(DefaultSheetName)).All()
	require.NoError(t, err)
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = fmt.Sprint(r.Get("name"))
	}
	return names
}

func TestExcelSingleFile(t *testing.T) {
	dir := t.TempDir()
	path, err := NewExcel(memberTable(t), members(3), WithDir(dir), WithFilename("members"), WithTitle("Members")).
		Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "members_0.xlsx"), path)

	wb, err := workbook.Open(path)
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()
	v, err := wb.File().GetCellValue(DefaultSheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Members", v)
	assert.Equal(t, []string{"m1", "m2", "m3"}, readNames(t, wb))
}

func TestExcelSplitZip(t *testing.T) {
	dir := t.TempDir()
	path, err := NewExcel(memberTable(t), members(5), WithDir(dir), WithFilename("members"), WithSingleFileMaxRows(2)).
		Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "members_0.zip"), path)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer func() { _ = zr.Close() }()
	require.Len(t, zr.File, 3)

	var all []string
	for i, f := range zr.File {
		assert.Equal(t, fmt.Sprintf("members_%d.xlsx", i), f.Name)
		rc, err := f.Open()
		require.NoError(t, err)
		wb, err := workbook.OpenReader(rc)
		_ = rc.Close()
		require.NoError(t, err)
		all = append(all, readNames(t, wb)...)
		_ = wb.Close()
	}
	assert.Equal(t, []string{"m1", "m2", "m3", "m4", "m5"}, all)
}

func TestForceSingleFileAndZip(t *testing.T) {
	dir := t.TempDir()
	path, err := NewExcel(memberTable(t), members(5), WithDir(dir), WithFilename("one"),
		WithSingleFileMaxRows(2), WithForceSingleFile()).Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "one_0.xlsx"), path)

	path, err = NewExcel(memberTable(t), members(1), WithDir(dir), WithFilename("zipped"), WithForceZip()).
		Export(context.Background())
	require.NoError(t, err)
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer func() { _ = zr.Close() }()
	require.Len(t, zr.File, 1)
	assert.Equal(t, "zipped_0.xlsx", zr.File[0].Name)
}

func TestMaximumLimit(t *testing.T) {
	dir := t.TempDir()
	_, err := NewExcel(memberTable(t), members(5), WithDir(dir), WithFilename("members"),
		WithMaxRows(3), WithSingleFileMaxRows(2)).Export(context.Background())
	assert.ErrorIs(t, err, ErrMaximumLimit)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCsv(memberTable(t), members(2)).ExportTo(ctx, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCsvExportTo(t *testing.T) {
	var buf bytes.Buffer
	n, err := ToCsvStream(context.Background(), memberTable(t), members(2), &buf, WithComma(';'), WithTitle("ignored"))
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, "Name;Age\nm1;20\nm2;21\n", buf.String())

	sh, err := csvsheet.Read(strings.NewReader(buf.String()), DefaultSheetName, csvsheet.WithComma(';'))
	require.NoError(t, err)
	records, err := memberTable(t).Read(sh).All()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "m2", records[1].Get("name"))
}

func TestExportToStorage(t *testing.T) {
	root := t.TempDir()
	store, err := storage.NewLocal(storage.LocalConfig{Endpoint: "http://files/", Root: root})
	require.NoError(t, err)

	url, err := ToCsvStorage(context.Background(), memberTable(t), members(2), store,
		WithDir(t.TempDir()), WithFilename("members"))
	require.NoError(t, err)
	assert.Equal(t, "http://files/members_0.csv", url)

	data, err := os.ReadFile(filepath.Join(root, "members_0.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Name,Age\n"))
}

func TestProgress(t *testing.T) {
	var got []Progress
	sub := event.SubscribeFunc(func(evt event.Event) {
		got = append(got, evt.Payload().(Progress))
	})
	path, err := NewCsv(memberTable(t), members(5), WithDir(t.TempDir()), WithFilename("members"),
		WithSingleFileMaxRows(2), WithSubscriber(sub)).Export(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 4)
	for i, p := range got[:3] {
		assert.Equal(t, TopicPart, p.Topic())
		assert.Equal(t, i, p.Part)
		assert.True(t, strings.HasSuffix(p.File, fmt.Sprintf("members_%d.csv", i)))
	}
	assert.Equal(t, []int{2, 2, 1}, []int{got[0].Rows, got[1].Rows, got[2].Rows})
	assert.Equal(t, 5, got[2].Total)
	assert.Equal(t, TopicDone, got[3].Topic())
	assert.Equal(t, 3, got[3].Part)
	assert.Equal(t, 5, got[3].Total)
	assert.Equal(t, path, got[3].File)
}
