package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/spf13/afero"

	"productmanagement/cmd/product-service/internal/conf"
	"productmanagement/cmd/product-service/internal/domain"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewFilesystem,
	NewEventPublisher,
	NewLocker,
	NewDocumentStore,
	NewData,
	NewCategoryRepo,
	NewProductRepo,
	NewSupplierRepo,
	NewOrderRepo,
	NewRedisClient,
)

// Data 数据访问层，所有读写都经由 View / Update 进入临界区
type Data struct {
	store       DocumentStore
	locker      Locker
	lockTimeout time.Duration
	log         *log.Helper
}

// NewFilesystem 数据文件所在的文件系统
func NewFilesystem() afero.Fs {
	return afero.NewOsFs()
}

// NewLocker 按配置创建文档锁
func NewLocker(c *conf.Config) (Locker, error) {
	switch c.Data.Locker {
	case "", "file":
		return NewFileLocker(c.Data.PathData+".lock", c.Data.LockRetryDelay), nil
	case "memory":
		return NewMutexLocker(), nil
	default:
		return nil, fmt.Errorf("unknown locker %q", c.Data.Locker)
	}
}

// NewDocumentStore 创建 XML 文档存储
func NewDocumentStore(fs afero.Fs, c *conf.Config, logger log.Logger) DocumentStore {
	return NewXMLFileStore(fs, c.Data.PathData, logger)
}

// NewData 创建 Data 并确保数据文档存在
func NewData(store DocumentStore, locker Locker, c *conf.Config, logger log.Logger) (*Data, func(), error) {
	d := newData(store, locker, c.Data.LockTimeout, logger)
	if err := d.Initialize(context.Background()); err != nil {
		_ = locker.Close()
		return nil, nil, err
	}

	cleanup := func() {
		d.log.Info("closing the data resources")
		if err := locker.Close(); err != nil {
			d.log.Errorf("close locker: %v", err)
		}
	}
	return d, cleanup, nil
}

func newData(store DocumentStore, locker Locker, lockTimeout time.Duration, logger log.Logger) *Data {
	return &Data{
		store:       store,
		locker:      locker,
		lockTimeout: lockTimeout,
		log:         log.NewHelper(log.With(logger, "module", "data")),
	}
}

// Initialize 在独占锁内初始化数据文档
func (d *Data) Initialize(ctx context.Context) error {
	ctx, cancel := d.lockContext(ctx)
	defer cancel()

	unlock, err := d.locker.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	return d.store.Initialize(ctx)
}

// View 在共享锁内加载文档并执行只读操作
func (d *Data) View(ctx context.Context, fn func(doc *Document) error) error {
	lockCtx, cancel := d.lockContext(ctx)
	unlock, err := d.locker.RLock(lockCtx)
	cancel()
	if err != nil {
		return d.lockError(ctx, err)
	}
	defer unlock()

	doc, err := d.store.Load(ctx)
	if err != nil {
		return err
	}
	return fn(doc)
}

// Update 在独占锁内加载、修改并保存文档。
// fn 返回 false 时不写回，文件保持不变。
func (d *Data) Update(ctx context.Context, fn func(doc *Document) (bool, error)) error {
	lockCtx, cancel := d.lockContext(ctx)
	unlock, err := d.locker.Lock(lockCtx)
	cancel()
	if err != nil {
		return d.lockError(ctx, err)
	}
	defer unlock()

	doc, err := d.store.Load(ctx)
	if err != nil {
		return err
	}

	changed, err := fn(doc)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return d.store.Save(ctx, doc)
}

// Ping 检查数据文档可读
func (d *Data) Ping(ctx context.Context) error {
	return d.View(ctx, func(*Document) error { return nil })
}

// lockError 调用方未取消而锁等待超时时，返回 ErrDocumentBusy
func (d *Data) lockError(ctx context.Context, err error) error {
	if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		d.log.WithContext(ctx).Warnf("document lock wait exceeded %s", d.lockTimeout)
		return fmt.Errorf("%w: %v", domain.ErrDocumentBusy, err)
	}
	return err
}

func (d *Data) lockContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.lockTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.lockTimeout)
}
