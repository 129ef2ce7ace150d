package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"filmoteca/backend/go/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CatalogFixture 是导入文件的根结构（YAML）。
// 影片通过名称或 slug 引用演员和类型，未在 genres/actors 中声明的会被自动创建。
type CatalogFixture struct {
	Genres []NamedFixture `yaml:"genres"`
	Actors []NamedFixture `yaml:"actors"`
	Movies []MovieFixture `yaml:"movies"`
}

// NamedFixture 描述一个类型或演员。
type NamedFixture struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

// MovieFixture 描述一部影片。
type MovieFixture struct {
	Name     string         `yaml:"name"`
	Slug     string         `yaml:"slug"`
	Year     int            `yaml:"year"`
	Synopsis string         `yaml:"synopsis"`
	Details  map[string]any `yaml:"details"`
	Actors   []string       `yaml:"actors"`
	Genres   []string       `yaml:"genres"`
}

// ImportStats 汇总导入的记录数量。
type ImportStats struct {
	Genres int
	Actors int
	Movies int
}

// ParseFixture 解析 YAML 格式的导入文件。
func ParseFixture(data []byte) (*CatalogFixture, error) {
	var fixture CatalogFixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("解析导入文件失败: %w", err)
	}
	return &fixture, nil
}

// Import 在一个事务中按 slug 插入或更新类型、演员和影片，并替换影片的关联关系。
func (s *Store) Import(ctx context.Context, fixture *CatalogFixture) (ImportStats, error) {
	var stats ImportStats
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		genres := newRefIndex[models.Genre]()
		actors := newRefIndex[models.Actor]()

		for _, g := range fixture.Genres {
			genre, err := upsertGenre(tx, g.Name, g.Slug)
			if err != nil {
				return err
			}
			genres.add(genre.Slug, genre.Name, genre)
		}
		for _, a := range fixture.Actors {
			actor, err := upsertActor(tx, a.Name, a.Slug)
			if err != nil {
				return err
			}
			actors.add(actor.Slug, actor.Name, actor)
		}

		for _, mf := range fixture.Movies {
			if mf.Name == "" {
				return errors.New("影片名称不能为空")
			}
			movieActors := make([]*models.Actor, 0, len(mf.Actors))
			for _, ref := range mf.Actors {
				actor, ok := actors.lookup(ref)
				if !ok {
					var err error
					if actor, err = upsertActor(tx, ref, ""); err != nil {
						return err
					}
					actors.add(actor.Slug, actor.Name, actor)
				}
				movieActors = append(movieActors, actor)
			}
			movieGenres := make([]*models.Genre, 0, len(mf.Genres))
			for _, ref := range mf.Genres {
				genre, ok := genres.lookup(ref)
				if !ok {
					var err error
					if genre, err = upsertGenre(tx, ref, ""); err != nil {
						return err
					}
					genres.add(genre.Slug, genre.Name, genre)
				}
				movieGenres = append(movieGenres, genre)
			}

			if err := upsertMovie(tx, mf, movieActors, movieGenres); err != nil {
				return err
			}
			stats.Movies++
		}

		stats.Genres = genres.count()
		stats.Actors = actors.count()
		return nil
	})
	return stats, err
}

// refIndex 按 slug 和名称派生的 slug 两个键索引已导入的记录。
// 声明了自定义 slug 的记录也可以通过名称引用。
type refIndex[T any] struct {
	byKey map[string]*T
	slugs map[string]struct{}
}

func newRefIndex[T any]() *refIndex[T] {
	return &refIndex[T]{byKey: map[string]*T{}, slugs: map[string]struct{}{}}
}

func (idx *refIndex[T]) add(slug, name string, v *T) {
	idx.slugs[slug] = struct{}{}
	idx.byKey[slug] = v
	if key := models.Slugify(name); key != slug {
		if _, taken := idx.byKey[key]; !taken {
			idx.byKey[key] = v
		}
	}
}

func (idx *refIndex[T]) lookup(ref string) (*T, bool) {
	if v, ok := idx.byKey[ref]; ok {
		return v, true
	}
	v, ok := idx.byKey[models.Slugify(ref)]
	return v, ok
}

// count 返回不同 slug 的数量。
func (idx *refIndex[T]) count() int { return len(idx.slugs) }

func upsertGenre(tx *gorm.DB, name, slug string) (*models.Genre, error) {
	if slug == "" {
		slug = models.Slugify(name)
	}
	var genre models.Genre
	err := tx.Where(models.Genre{Slug: slug}).Assign(models.Genre{Name: name}).FirstOrCreate(&genre).Error
	if err != nil {
		return nil, fmt.Errorf("导入类型 %q 失败: %w", name, err)
	}
	return &genre, nil
}

func upsertActor(tx *gorm.DB, name, slug string) (*models.Actor, error) {
	if slug == "" {
		slug = models.Slugify(name)
	}
	var actor models.Actor
	err := tx.Where(models.Actor{Slug: slug}).Assign(models.Actor{Name: name}).FirstOrCreate(&actor).Error
	if err != nil {
		return nil, fmt.Errorf("导入演员 %q 失败: %w", name, err)
	}
	return &actor, nil
}

func upsertMovie(tx *gorm.DB, mf MovieFixture, actors []*models.Actor, genres []*models.Genre) error {
	slug := mf.Slug
	if slug == "" {
		slug = models.Slugify(mf.Name)
	}

	var details datatypes.JSON
	if len(mf.Details) > 0 {
		raw, err := json.Marshal(mf.Details)
		if err != nil {
			return fmt.Errorf("影片 %q 的 details 无法编码: %w", mf.Name, err)
		}
		details = datatypes.JSON(raw)
	}

	var movie models.Movie
	err := tx.Where(models.Movie{Slug: slug}).
		Assign(map[string]any{
			"name":     mf.Name,
			"year":     mf.Year,
			"synopsis": mf.Synopsis,
			"details":  details,
		}).
		FirstOrCreate(&movie).Error
	if err != nil {
		return fmt.Errorf("导入影片 %q 失败: %w", mf.Name, err)
	}

	if err := tx.Model(&movie).Association("Actors").Replace(actors); err != nil {
		return fmt.Errorf("更新影片 %q 的演员失败: %w", mf.Name, err)
	}
	if err := tx.Model(&movie).Association("Genres").Replace(genres); err != nil {
		return fmt.Errorf("更新影片 %q 的类型失败: %w", mf.Name, err)
	}
	return nil
}
