package export

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/opdss/xltable/contracts/storage"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

type exportFile interface {
	Filepath() string //本地文件路径
	WriteTo(w io.Writer) (n int64, err error)
	// Close 释放资源，没有 Save 的临时文件会被删除
	Close() error
	Save() (string, error)
}

// part 把一批数据写成一个文件
type part func(b *batch, idx int) (exportFile, error)

// run 先导出第一个文件，还有数据或者强制压缩时把所有文件打包成 zip
func run(ctx context.Context, o *options, dp DataProvider, suffix string, write part) (ef exportFile, err error) {
	src := newSource(ctx, dp, o.maxRows)
	write = o.notify(write)
	parts := 1
	defer func() {
		if err == nil {
			o.publish(Progress{topic: TopicDone, Part: parts, Total: src.total, File: ef.Filepath()})
		}
	}()
	first, err := write(src.batch(o.batchSize()), 0)
	if err != nil {
		return nil, err
	}
	hasMore := src.more()
	if err = src.Err(); err != nil {
		_ = first.Close()
		return nil, err
	}
	if !hasMore && !o.forceZip {
		return first, nil
	}
	defer func() {
		_ = first.Close()
	}()
	return exportZip(o, src, first, suffix, write, &parts)
}

func exportZip(o *options, src *source, first exportFile, suffix string, write part, parts *int) (_ exportFile, err error) {
	zf, err := newExportTmpFile(getFilename(o, 0, ZipSuffix))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = zf.Close()
		}
	}()
	zw := zip.NewWriter(zf)
	add := func(ef exportFile, idx int) error {
		w, err := newZipWriter(zw, getFilename(o, idx, suffix))
		if err != nil {
			return Error.Wrap(err)
		}
		_, err = ef.WriteTo(w)
		return err
	}
	if err = add(first, 0); err != nil {
		return nil, err
	}
	for idx := 1; src.more(); idx++ {
		ef, err := write(src.batch(o.batchSize()), idx)
		if err != nil {
			return nil, err
		}
		*parts = idx + 1
		err = add(ef, idx)
		_ = ef.Close()
		if err != nil {
			return nil, err
		}
	}
	if err = src.Err(); err != nil {
		return nil, err
	}
	if err = zw.Close(); err != nil {
		return nil, Error.Wrap(err)
	}
	o.logger.Debug("export zipped", zap.String("file", zf.Filepath()), zap.Int("rows", src.total))
	return zf, nil
}

// toStorage 边写边上传，返回下载地址
func toStorage(ctx context.Context, logger *zap.Logger, ef exportFile, store storage.Store) (string, error) {
	fk := filepath.Base(ef.Filepath())
	fr, fw := io.Pipe()
	wg := sync.WaitGroup{}
	wg.Add(2)
	var werr, perr error
	go func() {
		defer wg.Done()
		_, werr = ef.WriteTo(fw)
		_ = fw.CloseWithError(werr)
	}()
	go func() {
		defer wg.Done()
		perr = store.PutStream(ctx, fk, fr)
		_ = fr.CloseWithError(perr)
	}()
	wg.Wait()
	if err := errs.Combine(werr, perr); err != nil {
		logger.Error("export to storage failed", zap.String("key", fk), zap.Error(err))
		return "", Error.Wrap(err)
	}
	return store.Url(fk), nil
}

var _ exportFile = (*exportTmpFile)(nil)

// exportTmpFile 临时文件
type exportTmpFile struct {
	filepath string
	saved    bool
	*os.File
}

func newExportTmpFile(filepath string) (*exportTmpFile, error) {
	ef := &exportTmpFile{filepath: filepath}
	var err error
	ef.File, err = os.Create(filepath)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return ef, nil
}

func (e *exportTmpFile) Filepath() string {
	return e.filepath
}

func (e *exportTmpFile) WriteTo(w io.Writer) (n int64, err error) {
	_, err = e.File.Seek(0, io.SeekStart)
	if err != nil {
		return 0, Error.Wrap(err)
	}
	n, err = io.Copy(w, e.File)
	return n, Error.Wrap(err)
}

func (e *exportTmpFile) Close() error {
	err := e.File.Close()
	if !e.saved {
		err = errs.Combine(err, os.Remove(e.filepath))
	}
	return Error.Wrap(err)
}

func (e *exportTmpFile) Save() (string, error) {
	e.saved = true
	return e.filepath, nil
}

// getFilename 生成导出文件名
func getFilename(o *options, idx int, suf string) string {
	dir := o.dir
	if dir == "" {
		dir = os.TempDir()
	}
	if o.filename == "" {
		return filepath.Join(dir,
			fmt.Sprintf("export_%s_%d_%d.%s",
				time.Now().Format("20060102_150405"),
				randInt(1000, 9999),
				idx,
				suf))
	}
	if filepath.IsAbs(o.filename) {
		return fmt.Sprintf("%s_%d.%s", o.filename, idx, suf)
	}
	return fmt.Sprintf("%s_%d.%s", filepath.Join(dir, o.filename), idx, suf)
}

func randInt(min, max int) int {
	return rand.Intn(max-min) + min
}

func newZipWriter(zw *zip.Writer, file string) (io.Writer, error) {
	return zw.CreateHeader(&zip.FileHeader{
		Name:     filepath.Base(file),
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
}
