package models

import (
	"encoding/json"
	"sort"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 关系集合名称，用于相关影片排序。
const (
	RelationActors = "actors"
	RelationGenres = "genres"
)

// Genre 代表一个影片类型，例如 "Drama"。
type Genre struct {
	gorm.Model
	Name   string   `gorm:"not null;size:255"`
	Slug   string   `gorm:"uniqueIndex;not null;size:255"`
	Movies []*Movie `gorm:"many2many:movie_genres;"`
}

// Actor 代表一位演员。
type Actor struct {
	gorm.Model
	Name   string   `gorm:"not null;size:255"`
	Slug   string   `gorm:"uniqueIndex;not null;size:255"`
	Movies []*Movie `gorm:"many2many:movie_actors;"`
}

// Movie 代表目录中的一部影片。
type Movie struct {
	gorm.Model
	Name     string `gorm:"not null;size:255;index"`
	Slug     string `gorm:"uniqueIndex;not null;size:255"`
	Year     int
	Synopsis string `gorm:"type:text"`
	// Details 保存影片的附加信息（导演、片长等），以 JSON 形式存储。
	Details datatypes.JSON

	Actors []*Actor `gorm:"many2many:movie_actors;"`
	Genres []*Genre `gorm:"many2many:movie_genres;"`
}

// --- 自定义表名 ---

func (Genre) TableName() string {
	return "genres"
}

func (Actor) TableName() string {
	return "actors"
}

func (Movie) TableName() string {
	return "movies"
}

// --- 显示名称与 URL ---

func (g *Genre) DisplayName() string { return g.Name }
func (a *Actor) DisplayName() string { return a.Name }
func (m *Movie) DisplayName() string { return m.Name }

// AbsoluteURL 返回类型页面的地址。
func (g *Genre) AbsoluteURL() string { return "/genero/" + g.Slug + "/" }

// AbsoluteURL 返回演员详情页的地址。
func (a *Actor) AbsoluteURL() string { return "/ator/" + a.Slug + "/" }

// AbsoluteURL 返回影片详情页的地址。
func (m *Movie) AbsoluteURL() string { return "/filme/" + m.Slug + "/" }

// --- 钩子 ---

// BeforeSave 在名称已知而 slug 为空时生成 slug。
func (g *Genre) BeforeSave(tx *gorm.DB) error {
	if g.Slug == "" {
		g.Slug = Slugify(g.Name)
	}
	return nil
}

func (a *Actor) BeforeSave(tx *gorm.DB) error {
	if a.Slug == "" {
		a.Slug = Slugify(a.Name)
	}
	return nil
}

func (m *Movie) BeforeSave(tx *gorm.DB) error {
	if m.Slug == "" {
		m.Slug = Slugify(m.Name)
	}
	return nil
}

// Relations 返回影片的关系集合，用于计算与其他影片的重合度。
// 调用前需要预加载 Actors 和 Genres。
func (m *Movie) Relations() map[string][]uint {
	actors := make([]uint, len(m.Actors))
	for i, a := range m.Actors {
		actors[i] = a.ID
	}
	genres := make([]uint, len(m.Genres))
	for i, g := range m.Genres {
		genres[i] = g.ID
	}
	return map[string][]uint{
		RelationActors: actors,
		RelationGenres: genres,
	}
}

// DetailField 是 Details 中的一个键值对。
type DetailField struct {
	Key   string
	Value any
}

// DetailFields 按键名排序返回 Details 的内容，JSON 无法解析时返回 nil。
func (m *Movie) DetailFields() []DetailField {
	if len(m.Details) == 0 {
		return nil
	}
	var raw map[string]any
	if err := json.Unmarshal(m.Details, &raw); err != nil {
		return nil
	}
	fields := make([]DetailField, 0, len(raw))
	for k, v := range raw {
		fields = append(fields, DetailField{Key: k, Value: v})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })
	return fields
}
