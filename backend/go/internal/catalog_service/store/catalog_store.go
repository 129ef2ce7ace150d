package store

import (
	"context"
	"errors"
	"fmt"

	"filmoteca/backend/go/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound 表示按 slug 或 ID 查询的记录不存在。
var ErrNotFound = errors.New("record not found")

// Order 是影片列表的排序方向。
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseOrder 解析查询参数 "ordem"，除 "desc" 以外的值都视为升序。
func ParseOrder(s string) Order {
	if s == string(OrderDesc) {
		return OrderDesc
	}
	return OrderAsc
}

func (o Order) clause(column string) string {
	if o == OrderDesc {
		return column + " DESC"
	}
	return column + " ASC"
}

// Store 封装了所有与影片目录相关的数据库操作。
type Store struct {
	DB *gorm.DB
}

// NewStore 创建一个新的 Store 实例。
func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// Ping 检查数据库连接。
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return fmt.Errorf("无法获取底层 SQL DB 实例: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// --- Movie queries ---

// ListMovies 返回所有影片，按名称排序。
func (s *Store) ListMovies(ctx context.Context, order Order) ([]*models.Movie, error) {
	var movies []*models.Movie
	err := s.DB.WithContext(ctx).
		Preload("Genres", byName("genres")).
		Order(order.clause("movies.name")).
		Order("movies.id").
		Find(&movies).Error
	return movies, err
}

// ListMoviesByGenre 返回属于指定类型的影片，按名称排序。
func (s *Store) ListMoviesByGenre(ctx context.Context, genreID uint, order Order) ([]*models.Movie, error) {
	var movies []*models.Movie
	err := s.DB.WithContext(ctx).
		Preload("Genres", byName("genres")).
		Joins("JOIN movie_genres ON movie_genres.movie_id = movies.id").
		Where("movie_genres.genre_id = ?", genreID).
		Order(order.clause("movies.name")).
		Order("movies.id").
		Find(&movies).Error
	return movies, err
}

// GetMovieBySlug 通过 slug 查找影片，并预加载演员和类型。
func (s *Store) GetMovieBySlug(ctx context.Context, slug string) (*models.Movie, error) {
	var movie models.Movie
	err := s.DB.WithContext(ctx).
		Preload("Actors", byName("actors")).
		Preload("Genres", byName("genres")).
		Where("slug = ?", slug).
		First(&movie).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &movie, nil
}

// RelatedCandidates 返回与指定影片至少共享一位演员或一个类型的其他影片，
// 按 ID（即创建顺序）排列，并预加载演员和类型以便计算重合度。
func (s *Store) RelatedCandidates(ctx context.Context, movie *models.Movie) ([]*models.Movie, error) {
	relations := movie.Relations()
	actorIDs := relations[models.RelationActors]
	genreIDs := relations[models.RelationGenres]
	if len(actorIDs) == 0 && len(genreIDs) == 0 {
		return []*models.Movie{}, nil
	}

	db := s.DB.WithContext(ctx)
	byActor := db.Table("movie_actors").Select("movie_id").Where("actor_id IN ?", nonEmpty(actorIDs))
	byGenre := db.Table("movie_genres").Select("movie_id").Where("genre_id IN ?", nonEmpty(genreIDs))

	var movies []*models.Movie
	err := db.
		Preload("Actors").
		Preload("Genres", byName("genres")).
		Where("movies.id <> ?", movie.ID).
		Where(db.Where("movies.id IN (?)", byActor).Or("movies.id IN (?)", byGenre)).
		Order("movies.id").
		Find(&movies).Error
	return movies, err
}

// MoviesByIDs 按给定 ID 的顺序返回影片，不存在的 ID 会被跳过。
func (s *Store) MoviesByIDs(ctx context.Context, ids []uint) ([]*models.Movie, error) {
	if len(ids) == 0 {
		return []*models.Movie{}, nil
	}
	var found []*models.Movie
	if err := s.DB.WithContext(ctx).Preload("Genres", byName("genres")).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.Movie, len(found))
	for _, m := range found {
		byID[m.ID] = m
	}
	movies := make([]*models.Movie, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			movies = append(movies, m)
		}
	}
	return movies, nil
}

// --- Genre & Actor queries ---

// GetGenreBySlug 通过 slug 查找类型。
func (s *Store) GetGenreBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	var genre models.Genre
	if err := s.DB.WithContext(ctx).Where("slug = ?", slug).First(&genre).Error; err != nil {
		return nil, notFound(err)
	}
	return &genre, nil
}

// GetActorBySlug 通过 slug 查找演员。
func (s *Store) GetActorBySlug(ctx context.Context, slug string) (*models.Actor, error) {
	var actor models.Actor
	if err := s.DB.WithContext(ctx).Where("slug = ?", slug).First(&actor).Error; err != nil {
		return nil, notFound(err)
	}
	return &actor, nil
}

// ActorMovies 返回演员参演的影片，按名称排序，最多 limit 部。
func (s *Store) ActorMovies(ctx context.Context, actorID uint, limit int) ([]*models.Movie, error) {
	var movies []*models.Movie
	err := s.DB.WithContext(ctx).
		Preload("Genres", byName("genres")).
		Joins("JOIN movie_actors ON movie_actors.movie_id = movies.id").
		Where("movie_actors.actor_id = ?", actorID).
		Order("movies.name").
		Order("movies.id").
		Limit(limit).
		Find(&movies).Error
	return movies, err
}

// byName 让预加载的关联按名称排序。
func byName(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".name").Order(table + ".id")
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// nonEmpty 避免生成 "IN ()" 这样的非法 SQL。
func nonEmpty(ids []uint) []uint {
	if len(ids) == 0 {
		return []uint{0}
	}
	return ids
}
