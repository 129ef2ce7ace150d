package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"foo", "foo"},
		{"Cidade de Deus", "cidade-de-deus"},
		{"Ação & Aventura", "acao-aventura"},
		{"  Ficção Científica!  ", "ficcao-cientifica"},
		{"2001: Uma Odisseia no Espaço", "2001-uma-odisseia-no-espaco"},
		{"---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestAbsoluteURLs(t *testing.T) {
	assert.Equal(t, "/genero/drama/", (&Genre{Slug: "drama"}).AbsoluteURL())
	assert.Equal(t, "/ator/foo/", (&Actor{Slug: "foo"}).AbsoluteURL())
	assert.Equal(t, "/filme/cidade-de-deus/", (&Movie{Slug: "cidade-de-deus"}).AbsoluteURL())
}

func TestBeforeSave_DerivesSlugOnlyWhenEmpty(t *testing.T) {
	g := &Genre{Name: "Comédia"}
	assert.NoError(t, g.BeforeSave(nil))
	assert.Equal(t, "comedia", g.Slug)

	a := &Actor{Name: "Fernanda Montenegro", Slug: "fernanda"}
	assert.NoError(t, a.BeforeSave(nil))
	assert.Equal(t, "fernanda", a.Slug)
}

func TestMovieRelations(t *testing.T) {
	m := &Movie{
		Actors: []*Actor{{}, {}},
		Genres: []*Genre{{}},
	}
	m.Actors[0].ID, m.Actors[1].ID = 3, 4
	m.Genres[0].ID = 9

	assert.Equal(t, map[string][]uint{
		RelationActors: {3, 4},
		RelationGenres: {9},
	}, m.Relations())

	assert.Equal(t, map[string][]uint{
		RelationActors: {},
		RelationGenres: {},
	}, (&Movie{}).Relations())
}

func TestMovieDetailFields(t *testing.T) {
	m := &Movie{Details: []byte(`{"runtime": 113, "director": "Walter Salles"}`)}
	assert.Equal(t, []DetailField{
		{Key: "director", Value: "Walter Salles"},
		{Key: "runtime", Value: float64(113)},
	}, m.DetailFields())

	assert.Nil(t, (&Movie{}).DetailFields())
	assert.Nil(t, (&Movie{Details: []byte("{broken")}).DetailFields())
}
