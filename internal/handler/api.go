package handler

import (
	"github.com/xujunlin/mydjango/internal/captcha"
	"github.com/xujunlin/mydjango/internal/search"
	"github.com/xujunlin/mydjango/internal/service"
	"github.com/xujunlin/mydjango/internal/sms"
	"github.com/xujunlin/mydjango/internal/storage"
	"github.com/xujunlin/mydjango/internal/verify"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options 汇总 API 依赖的外部协作方，未设置的项使用开发环境默认实现。
type Options struct {
	Logger        *zap.Logger
	VerifyStore   verify.Store
	Captcha       *captcha.Generator
	SMS           sms.Sender
	Uploader      storage.Uploader
	StorageDomain string
	Fetcher       storage.Fetcher
	SiteDomain    string
	Indexer       search.Indexer
	IndexTagIDs   []uint
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	logger   *zap.Logger
	tags     *service.TagService
	news     *service.NewsService
	hotNews  *service.HotNewsService
	banners  *service.BannerService
	comments *service.CommentService
	docs     *service.DocService
	courses  *service.CourseService
	users    *service.UserService
	verify   *service.VerifyService

	uploader      storage.Uploader
	storageDomain string
	fetcher       storage.Fetcher
	siteDomain    string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, opts Options) *API {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := opts.VerifyStore
	if store == nil {
		memory, err := verify.NewMemoryStore(0)
		if err != nil {
			logger.Fatal("failed to create verification store", zap.Error(err))
		}
		store = memory
	}
	uploader := opts.Uploader
	if uploader == nil {
		uploader = storage.NewLocalUploader("")
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = storage.NewHTTPFetcher(nil)
	}

	return &API{
		db:            gdb,
		logger:        logger,
		tags:          service.NewTagService(gdb),
		news:          service.NewNewsService(gdb, opts.Indexer, logger, opts.IndexTagIDs),
		hotNews:       service.NewHotNewsService(gdb),
		banners:       service.NewBannerService(gdb),
		comments:      service.NewCommentService(gdb),
		docs:          service.NewDocService(gdb),
		courses:       service.NewCourseService(gdb),
		users:         service.NewUserService(gdb),
		verify:        service.NewVerifyService(store, opts.Captcha, opts.SMS, logger),
		uploader:      uploader,
		storageDomain: opts.StorageDomain,
		fetcher:       fetcher,
		siteDomain:    opts.SiteDomain,
	}
}

// News exposes the news service, used by the reindex task.
func (a *API) News() *service.NewsService {
	return a.news
}
