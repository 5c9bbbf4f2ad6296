package data

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/afero"

	"productmanagement/cmd/product-service/internal/domain"
	"productmanagement/pkg/monitoring"
	"productmanagement/pkg/observability"
)

const tracerName = "product-service/data"

// DocumentStore 整个数据文档的加载与保存
type DocumentStore interface {
	// Initialize 文档缺失或为空时写入空文档，可重复调用
	Initialize(ctx context.Context) error
	// Load 读取并解析完整文档
	Load(ctx context.Context) (*Document, error)
	// Save 完整覆盖写入文档
	Save(ctx context.Context, doc *Document) error
}

// XMLFileStore 基于 afero 文件系统的 XML 文档存储
type XMLFileStore struct {
	fs   afero.Fs
	path string
	log  *log.Helper
}

// NewXMLFileStore 创建 XML 文档存储
func NewXMLFileStore(fs afero.Fs, path string, logger log.Logger) *XMLFileStore {
	return &XMLFileStore{
		fs:   fs,
		path: path,
		log:  log.NewHelper(log.With(logger, "module", "data/store")),
	}
}

// Path 文档路径
func (s *XMLFileStore) Path() string {
	return s.path
}

// Initialize 初始化数据文档
func (s *XMLFileStore) Initialize(ctx context.Context) error {
	info, err := s.fs.Stat(s.path)
	switch {
	case err == nil && info.Size() > 0:
		return nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("stat document %s: %w", s.path, err)
	}

	if err := s.Save(ctx, NewDocument()); err != nil {
		return fmt.Errorf("initialize document: %w", err)
	}
	s.log.WithContext(ctx).Infof("initialized empty document at %s", s.path)
	return nil
}

// Load 加载数据文档
func (s *XMLFileStore) Load(ctx context.Context) (doc *Document, err error) {
	ctx, span := observability.StartSpan(ctx, tracerName, "DocumentStore.Load")
	observability.SetAttributes(span, observability.DocumentAttributes(s.path, "load")...)
	start := time.Now()
	defer func() {
		monitoring.DocumentOperationDuration.WithLabelValues("load", monitoring.Status(err)).Observe(time.Since(start).Seconds())
		observability.RecordError(span, err)
		span.End()
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", s.path, err)
	}

	doc, err = parseDocument(raw)
	if err != nil {
		return nil, &domain.ParseError{Path: s.path, Err: err}
	}

	for collection, n := range doc.Counts() {
		monitoring.DocumentRecords.WithLabelValues(collection).Set(float64(n))
	}
	return doc, nil
}

// Save 写入临时文件后替换目标文件
func (s *XMLFileStore) Save(ctx context.Context, doc *Document) (err error) {
	ctx, span := observability.StartSpan(ctx, tracerName, "DocumentStore.Save")
	observability.SetAttributes(span, observability.DocumentAttributes(s.path, "save")...)
	start := time.Now()
	defer func() {
		monitoring.DocumentOperationDuration.WithLabelValues("save", monitoring.Status(err)).Observe(time.Since(start).Seconds())
		observability.RecordError(span, err)
		span.End()
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = s.fs.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = s.fs.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = s.fs.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace document %s: %w", s.path, err)
	}
	return nil
}
