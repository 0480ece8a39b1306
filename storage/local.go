package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/opdss/xltable/contracts/storage"
	"github.com/zeebo/errs"
)

var ErrLocal = errs.Class("storage.local")

type LocalConfig struct {
	Endpoint string `help:"访问地址" default:"http://localhost" json:"endpoint"`
	Root     string `help:"根目录" default:"$ROOT/exports" json:"root"`
}

var _ storage.Store = (*Local)(nil)

type Local struct {
	root     string
	endpoint string
}

func NewLocal(config LocalConfig) (*Local, error) {
	if config.Root == "" {
		return nil, ErrLocal.New("please set root")
	}
	return &Local{
		root:     config.Root,
		endpoint: strings.TrimSuffix(config.Endpoint, "/"),
	}, nil
}

func (r *Local) Delete(ctx context.Context, files ...string) error {
	for _, file := range files {
		fileInfo, err := os.Stat(r.fullPath(file))
		if err != nil {
			return ErrLocal.Wrap(err)
		}
		if fileInfo.IsDir() {
			return ErrLocal.New("%s: can't delete directory", file)
		}
	}
	var group errs.Group
	for _, file := range files {
		group.Add(os.Remove(r.fullPath(file)))
	}
	return ErrLocal.Wrap(group.Err())
}

func (r *Local) Exists(ctx context.Context, file string) bool {
	_, err := os.Stat(r.fullPath(file))
	return err == nil
}

func (r *Local) GetStream(ctx context.Context, file string) (io.ReadCloser, error) {
	f, err := os.Open(r.fullPath(file))
	if err != nil {
		return nil, ErrLocal.Wrap(err)
	}
	return f, nil
}

func (r *Local) Path(file string) string {
	return r.fullPath(file)
}

// PutStream 先写临时文件再改名，写入失败时不会留下不完整的文件
func (r *Local) PutStream(ctx context.Context, file string, rs io.Reader) (err error) {
	if err = ctx.Err(); err != nil {
		return ErrLocal.Wrap(err)
	}
	file = r.fullPath(file)
	if err = os.MkdirAll(filepath.Dir(file), os.ModePerm); err != nil {
		return ErrLocal.Wrap(err)
	}
	f, err := os.CreateTemp(filepath.Dir(file), "."+filepath.Base(file)+".*")
	if err != nil {
		return ErrLocal.Wrap(err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if _, err = io.Copy(f, rs); err != nil {
		_ = f.Close()
		return ErrLocal.Wrap(err)
	}
	if err = f.Close(); err != nil {
		return ErrLocal.Wrap(err)
	}
	return ErrLocal.Wrap(os.Rename(f.Name(), file))
}

func (r *Local) Url(file string) string {
	return r.endpoint + "/" + strings.TrimPrefix(filepath.ToSlash(file), "/")
}

func (r *Local) fullPath(path string) string {
	realPath := filepath.Clean(path)
	if realPath == "." {
		return r.root
	}
	return filepath.Join(r.root, realPath)
}
