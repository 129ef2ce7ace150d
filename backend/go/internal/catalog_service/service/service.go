package service

import (
	"context"
	"errors"
	"fmt"

	"filmoteca/backend/go/internal/catalog_service/store"
	"filmoteca/backend/go/internal/models"
	"filmoteca/backend/go/pkg/logger"
	"filmoteca/backend/go/pkg/ranking"
)

// ErrNotFound 表示请求的影片、演员或类型不存在。
var ErrNotFound = errors.New("not found")

// Catalog 是 Service 依赖的数据访问接口，由 store.Store 实现。
type Catalog interface {
	ListMovies(ctx context.Context, order store.Order) ([]*models.Movie, error)
	ListMoviesByGenre(ctx context.Context, genreID uint, order store.Order) ([]*models.Movie, error)
	GetGenreBySlug(ctx context.Context, slug string) (*models.Genre, error)
	GetActorBySlug(ctx context.Context, slug string) (*models.Actor, error)
	GetMovieBySlug(ctx context.Context, slug string) (*models.Movie, error)
	ActorMovies(ctx context.Context, actorID uint, limit int) ([]*models.Movie, error)
	RelatedCandidates(ctx context.Context, movie *models.Movie) ([]*models.Movie, error)
	MoviesByIDs(ctx context.Context, ids []uint) ([]*models.Movie, error)
	Ping(ctx context.Context) error
}

// Limits 是各详情页的数量上限。
type Limits struct {
	ActorMovies   int
	RelatedMovies int
}

// Service 封装了影片目录的业务逻辑。
type Service struct {
	catalog Catalog
	cache   RelatedCache
	limits  Limits
	log     *logger.Logger
}

// NewService 创建一个新的 Service 实例。cache 为 nil 时不缓存。
func NewService(catalog Catalog, cache RelatedCache, limits Limits, log *logger.Logger) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	if log == nil {
		log = logger.New("catalog_service", "", "")
	}
	return &Service{catalog: catalog, cache: cache, limits: limits, log: log}
}

// --- Page models ---

// MovieListPage 是影片列表页（首页和类型页）的数据。
type MovieListPage struct {
	Title  string
	Genre  *models.Genre // 首页为 nil
	Movies []*models.Movie
	Order  store.Order
}

// ActorPage 是演员详情页的数据。
type ActorPage struct {
	Actor  *models.Actor
	Movies []*models.Movie
}

// MoviePage 是影片详情页的数据。
type MoviePage struct {
	Movie   *models.Movie
	Related []*models.Movie
}

// HealthStatus 汇总依赖的健康状况。
type HealthStatus struct {
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// OK 在所有依赖都正常时返回 true。
func (h HealthStatus) OK() bool {
	return h.Database == "ok" && h.Cache == "ok"
}

// --- Operations ---

// ListMovies 返回首页（genreSlug 为空）或某一类型的影片列表。
func (s *Service) ListMovies(ctx context.Context, genreSlug string, order store.Order) (*MovieListPage, error) {
	if genreSlug == "" {
		movies, err := s.catalog.ListMovies(ctx, order)
		if err != nil {
			return nil, fmt.Errorf("list movies: %w", err)
		}
		return &MovieListPage{Title: "Listagem de Filmes", Movies: movies, Order: order}, nil
	}

	genre, err := s.catalog.GetGenreBySlug(ctx, genreSlug)
	if err != nil {
		return nil, translate(err)
	}
	movies, err := s.catalog.ListMoviesByGenre(ctx, genre.ID, order)
	if err != nil {
		return nil, fmt.Errorf("list movies of genre %q: %w", genreSlug, err)
	}
	return &MovieListPage{Title: "Filmes de " + genre.Name, Genre: genre, Movies: movies, Order: order}, nil
}

// ActorDetail 返回演员及其最多 Limits.ActorMovies 部影片。
func (s *Service) ActorDetail(ctx context.Context, slug string) (*ActorPage, error) {
	actor, err := s.catalog.GetActorBySlug(ctx, slug)
	if err != nil {
		return nil, translate(err)
	}
	movies, err := s.catalog.ActorMovies(ctx, actor.ID, s.limits.ActorMovies)
	if err != nil {
		return nil, fmt.Errorf("movies of actor %q: %w", slug, err)
	}
	return &ActorPage{Actor: actor, Movies: movies}, nil
}

// MovieDetail 返回影片及按重合度排序的最多 Limits.RelatedMovies 部相关影片。
func (s *Service) MovieDetail(ctx context.Context, slug string) (*MoviePage, error) {
	movie, err := s.catalog.GetMovieBySlug(ctx, slug)
	if err != nil {
		return nil, translate(err)
	}
	related, err := s.relatedMovies(ctx, movie)
	if err != nil {
		return nil, err
	}
	return &MoviePage{Movie: movie, Related: related}, nil
}

// RankedRelated 返回相关影片及其重合度，不经过缓存（命令行工具使用）。
func (s *Service) RankedRelated(ctx context.Context, slug string) (*models.Movie, []ranking.Scored[*models.Movie], error) {
	movie, err := s.catalog.GetMovieBySlug(ctx, slug)
	if err != nil {
		return nil, nil, translate(err)
	}
	candidates, err := s.catalog.RelatedCandidates(ctx, movie)
	if err != nil {
		return nil, nil, fmt.Errorf("related candidates of %q: %w", slug, err)
	}
	return movie, ranking.Rank(movie, candidates, s.limits.RelatedMovies, (*models.Movie).Relations), nil
}

// Health 检查数据库和缓存。
func (s *Service) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{Database: "ok", Cache: "ok"}
	if err := s.catalog.Ping(ctx); err != nil {
		status.Database = err.Error()
	}
	if err := s.cache.Ping(ctx); err != nil {
		status.Cache = err.Error()
	}
	return status
}

func (s *Service) relatedMovies(ctx context.Context, movie *models.Movie) ([]*models.Movie, error) {
	ids, ok, err := s.cache.Get(ctx, movie.ID)
	if err != nil {
		s.log.WithPayload(map[string]interface{}{"movie_id": movie.ID, "error": err.Error()}).
			Warn("related cache read failed")
	}
	if ok && (s.limits.RelatedMovies < 0 || len(ids) <= s.limits.RelatedMovies) {
		return s.catalog.MoviesByIDs(ctx, ids)
	}

	candidates, err := s.catalog.RelatedCandidates(ctx, movie)
	if err != nil {
		return nil, fmt.Errorf("related candidates of %q: %w", movie.Slug, err)
	}
	related := ranking.Top(movie, candidates, s.limits.RelatedMovies, (*models.Movie).Relations)

	ids = make([]uint, len(related))
	for i, m := range related {
		ids[i] = m.ID
	}
	if err := s.cache.Set(ctx, movie.ID, ids); err != nil {
		s.log.WithPayload(map[string]interface{}{"movie_id": movie.ID, "error": err.Error()}).
			Warn("related cache write failed")
	}
	return related, nil
}

func translate(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
