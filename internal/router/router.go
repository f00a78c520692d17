package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/xujunlin/mydjango/internal/config"
	"github.com/xujunlin/mydjango/internal/handler"
	"github.com/xujunlin/mydjango/internal/logger"
	"go.uber.org/zap"
)

const sessionName = "mydjango_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, cfg config.AppConfig, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware(log))

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders:     []string{"Origin", "Content-Type", "X-CSRFToken"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions(sessionName, store), api.LoadUser())

	// 本地存储上传的文件
	if cfg.StorageProvider == "" || cfg.StorageProvider == "local" {
		r.Static(cfg.UploadURLPath, cfg.UploadDir)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// 前台
	r.GET("/", api.Index)
	r.GET("/news/", api.GetNewsList)
	r.GET("/news/banners/", api.GetNewsBanners)
	r.GET("/news/:id/", api.GetNewsDetail)
	r.POST("/news/:id/comments/", api.CreateComment)
	r.GET("/search/", api.Search)

	r.GET("/image_codes/:uuid/", api.GetImageCode)
	r.GET("/usernames/:username/", api.CheckUsername)
	r.GET("/mobiles/:mobile/", api.CheckMobile)
	r.POST("/sms_codes/", api.SendSMSCode)

	users := r.Group("/users")
	{
		users.POST("/register/", api.Register)
		users.POST("/login/", api.Login)
		users.GET("/logout/", api.Logout)
	}

	r.GET("/doc/", api.GetDocs)
	r.GET("/doc/:id/", api.DownloadDoc)
	r.GET("/course/", api.GetCourses)
	r.GET("/course/:id/", api.GetCourseDetail)

	// 后台管理路由，需要后台权限
	admin := r.Group("/admin")
	admin.Use(handler.StaffRequired())
	{
		admin.GET("/", api.AdminIndex)

		admin.GET("/tags/", api.GetTags)
		admin.POST("/tags/", api.CreateTag)
		admin.PUT("/tags/:id/", api.UpdateTag)
		admin.DELETE("/tags/:id/", api.DeleteTag)
		admin.GET("/tags/:id/news/", api.GetTagNews)

		admin.GET("/hotnews/", api.GetHotNews)
		admin.GET("/hotnews/add/", api.GetHotNewsAdd)
		admin.POST("/hotnews/add/", api.AddHotNews)
		admin.PUT("/hotnews/:id/", api.UpdateHotNews)
		admin.DELETE("/hotnews/:id/", api.DeleteHotNews)

		admin.GET("/news/", api.GetNewsManage)
		admin.GET("/news/pub/", api.GetNewsPub)
		admin.POST("/news/pub/", api.CreateNews)
		admin.GET("/news/:id/", api.GetNewsEdit)
		admin.PUT("/news/:id/", api.UpdateNews)
		admin.DELETE("/news/:id/", api.DeleteNews)
		admin.POST("/news/images/", api.UploadNewsImage)
		admin.POST("/markdown/images/", api.UploadMarkdownImage)
		admin.GET("/token/", api.GetUploadToken)

		admin.GET("/banners/", api.GetBanners)
		admin.GET("/banners/add/", api.GetBannerAdd)
		admin.POST("/banners/add/", api.AddBanner)
		admin.PUT("/banners/:id/", api.UpdateBanner)
		admin.DELETE("/banners/:id/", api.DeleteBanner)

		admin.GET("/docs/", api.GetDocsManage)
		admin.POST("/docs/pub/", api.CreateDoc)
		admin.GET("/docs/:id/", api.GetDocEdit)
		admin.PUT("/docs/:id/", api.UpdateDoc)
		admin.DELETE("/docs/:id/", api.DeleteDoc)
		admin.POST("/docs/files/", api.UploadDocFile)

		admin.GET("/courses/", api.GetCoursesManage)
		admin.GET("/courses/pub/", api.GetCoursePub)
		admin.POST("/courses/pub/", api.CreateCourse)
		admin.GET("/courses/:id/", api.GetCourseEdit)
		admin.PUT("/courses/:id/", api.UpdateCourse)
		admin.DELETE("/courses/:id/", api.DeleteCourse)
	}

	return r
}
