package api

import (
	"errors"
	"net/http"

	"filmoteca/backend/go/internal/catalog_service/service"
	"filmoteca/backend/go/internal/catalog_service/store"
	"filmoteca/backend/go/internal/models"
	"filmoteca/backend/go/pkg/httpmiddleware"
	"filmoteca/backend/go/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handler 封装了所有页面的处理函数。
type Handler struct {
	service *service.Service
	log     *logger.Logger
}

// NewHandler 创建一个新的 Handler 实例。
func NewHandler(s *service.Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.New("catalog_service", "", "")
	}
	return &Handler{service: s, log: log}
}

// --- Page handlers ---

// MovieList 处理首页和类型页，支持 ?ordem=desc 倒序。
func (h *Handler) MovieList(c *gin.Context) {
	order := store.ParseOrder(c.Query("ordem"))
	page, err := h.service.ListMovies(c.Request.Context(), c.Param("slug"), order)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "movie_list.html", pageData{Title: page.Title, Page: page})
}

// ActorDetail 处理演员详情页。
func (h *Handler) ActorDetail(c *gin.Context) {
	page, err := h.service.ActorDetail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "actor_detail.html", pageData{Title: page.Actor.Name, Page: page})
}

// MovieDetail 处理影片详情页。
func (h *Handler) MovieDetail(c *gin.Context) {
	page, err := h.service.MovieDetail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "movie_detail.html", pageData{Title: page.Movie.Name, Page: page})
}

// NotFound 处理未匹配的路由。
func (h *Handler) NotFound(c *gin.Context) {
	h.renderError(c, service.ErrNotFound)
}

// Health 返回数据库和缓存的健康状况。
func (h *Handler) Health(c *gin.Context) {
	status := h.service.Health(c.Request.Context())
	code := http.StatusOK
	label := "ok"
	if !status.OK() {
		code = http.StatusServiceUnavailable
		label = "degraded"
	}
	c.JSON(code, gin.H{"status": label, "database": status.Database, "cache": status.Cache})
}

// renderError 将错误转换为 404 或 500 页面，并记录日志。
func (h *Handler) renderError(c *gin.Context, err error) {
	log := httpmiddleware.LoggerFrom(c, h.log)
	if errors.Is(err, service.ErrNotFound) {
		c.HTML(http.StatusNotFound, "error.html", pageData{
			Title: "Página não encontrada",
			Page:  "O endereço " + c.Request.URL.Path + " não existe.",
		})
		return
	}

	log.WithError(models.ErrorInfo{
		Message:    err.Error(),
		Type:       "internal_error",
		StatusCode: http.StatusInternalServerError,
	}).Error("page rendering failed")
	c.HTML(http.StatusInternalServerError, "error.html", pageData{
		Title: "Erro interno",
		Page:  "Não foi possível carregar a página. Tente novamente mais tarde.",
	})
}
