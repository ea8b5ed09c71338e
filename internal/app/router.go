package app

import (
	"health_survey_backend/docs"
	"health_survey_backend/internal/config"
	"health_survey_backend/internal/util"
	"health_survey_backend/pkg/monitoring"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)
		api.POST("/submit", c.submission.Submit)

		api.GET("/survey", c.survey.GetSurvey)
		api.GET("/survey/comparisons/:index", c.survey.GetComparison)
		api.GET("/stats", c.survey.GetStats)
	}

	// 前端构建产物，未匹配的页面路由交给 index.html
	router.NoRoute(spaHandler(cfg.Server.StaticDir))
}

func spaHandler(staticDir string) gin.HandlerFunc {
	index := filepath.Join(staticDir, "index.html")

	return func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		method := ctx.Request.Method
		if (method != http.MethodGet && method != http.MethodHead) || path == "/api" || strings.HasPrefix(path, "/api/") {
			util.NotFound(ctx)
			return
		}

		// 路径先按根目录清理，不会越出 staticDir
		file := filepath.Join(staticDir, filepath.FromSlash(filepath.Clean("/"+path)))
		if serveStatic(ctx, file) {
			return
		}

		shell, err := os.ReadFile(index)
		if err != nil {
			util.NotFound(ctx)
			return
		}
		ctx.Data(http.StatusOK, "text/html; charset=utf-8", shell)
	}
}

// serveStatic 用 ServeContent 输出文件，http.ServeFile 会拒绝含 ".." 的请求路径
func serveStatic(ctx *gin.Context, file string) bool {
	f, err := os.Open(file)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}

	http.ServeContent(ctx.Writer, ctx.Request, info.Name(), info.ModTime(), f)
	return true
}
