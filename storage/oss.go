package storage

import (
	"context"
	"io"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/opdss/xltable/contracts/storage"
	"github.com/zeebo/errs"
)

var ErrOss = errs.Class("storage.oss")

type OssConfig struct {
	AccessKeyId     string `help:"accessKeyId" default:"" json:"access_key_id"`
	AccessKeySecret string `help:"accessKeySecret" default:"" json:"access_key_secret"`

	Bucket   string `help:"存储桶" default:"" json:"bucket"`
	Url      string `help:"加速访问地址" default:"" json:"url"`
	Endpoint string `help:"api入口" default:"" json:"endpoint"`
}

var _ storage.Store = (*Oss)(nil)

/*
 * Oss 阿里云对象存储
 * Document: https://help.aliyun.com/document_detail/32144.html
 */
type Oss struct {
	config         OssConfig
	bucketInstance *oss.Bucket
}

func NewOss(config OssConfig) (*Oss, error) {
	if config.AccessKeyId == "" || config.AccessKeySecret == "" || config.Bucket == "" || config.Endpoint == "" {
		return nil, ErrOss.New("please set configuration")
	}

	client, err := oss.New(config.Endpoint, config.AccessKeyId, config.AccessKeySecret)
	if err != nil {
		return nil, ErrOss.Wrap(err)
	}

	bucketInstance, err := client.Bucket(config.Bucket)
	if err != nil {
		return nil, ErrOss.Wrap(err)
	}

	if config.Url == "" {
		config.Url = config.Endpoint
	}
	config.Url = strings.TrimSuffix(config.Url, "/")
	return &Oss{
		config:         config,
		bucketInstance: bucketInstance,
	}, nil
}

func (r *Oss) Delete(ctx context.Context, files ...string) error {
	if len(files) == 0 {
		return nil
	}
	keys := make([]string, len(files))
	for i, file := range files {
		keys[i] = objectKey(file)
	}
	_, err := r.bucketInstance.DeleteObjects(keys, oss.DeleteObjectsQuiet(true), oss.WithContext(ctx))
	return ErrOss.Wrap(err)
}

func (r *Oss) Exists(ctx context.Context, file string) bool {
	exist, err := r.bucketInstance.IsObjectExist(objectKey(file), oss.WithContext(ctx))
	if err != nil {
		return false
	}
	return exist
}

func (r *Oss) GetStream(ctx context.Context, file string) (io.ReadCloser, error) {
	body, err := r.bucketInstance.GetObject(objectKey(file), oss.WithContext(ctx))
	if err != nil {
		return nil, ErrOss.Wrap(err)
	}
	return body, nil
}

func (r *Oss) PutStream(ctx context.Context, file string, rs io.Reader) error {
	ct, body, err := detect(rs)
	if err != nil {
		return ErrOss.Wrap(err)
	}
	return ErrOss.Wrap(r.bucketInstance.PutObject(objectKey(file), body, oss.ContentType(ct), oss.WithContext(ctx)))
}

func (r *Oss) Url(file string) string {
	return r.config.Url + "/" + objectKey(file)
}
