package store

import (
	"context"
	"encoding/json"
	"testing"

	"filmoteca/backend/go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureYAML = `
genres:
  - name: Drama
  - name: Comédia
actors:
  - name: Fernanda Montenegro
movies:
  - name: Central do Brasil
    year: 1998
    synopsis: Dora escreve cartas na estação.
    details:
      director: Walter Salles
      runtime: 113
    actors: [Fernanda Montenegro, Vinícius de Oliveira]
    genres: [Drama]
  - name: O Auto da Compadecida
    year: 2000
    actors: [Selton Mello]
    genres: [Comédia]
`

func TestParseFixture(t *testing.T) {
	fixture, err := ParseFixture([]byte(fixtureYAML))
	require.NoError(t, err)

	require.Len(t, fixture.Movies, 2)
	assert.Equal(t, "Central do Brasil", fixture.Movies[0].Name)
	assert.Equal(t, []string{"Fernanda Montenegro", "Vinícius de Oliveira"}, fixture.Movies[0].Actors)
	assert.Equal(t, "Walter Salles", fixture.Movies[0].Details["director"])

	_, err = ParseFixture([]byte("movies: {"))
	assert.Error(t, err)
}

func TestImport(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	fixture, err := ParseFixture([]byte(fixtureYAML))
	require.NoError(t, err)

	stats, err := s.Import(ctx, fixture)
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Genres: 2, Actors: 3, Movies: 2}, stats)

	movie, err := s.GetMovieBySlug(ctx, "central-do-brasil")
	require.NoError(t, err)
	assert.Equal(t, 1998, movie.Year)
	assert.Len(t, movie.Actors, 2)
	require.Len(t, movie.Genres, 1)
	assert.Equal(t, "drama", movie.Genres[0].Slug)

	var details map[string]any
	require.NoError(t, json.Unmarshal(movie.Details, &details))
	assert.Equal(t, "Walter Salles", details["director"])

	_, err = s.GetActorBySlug(ctx, "selton-mello")
	assert.NoError(t, err, "actors referenced only by movies are created")
	_, err = s.GetGenreBySlug(ctx, "comedia")
	assert.NoError(t, err)
}

func TestImport_IsIdempotentAndReplacesRelations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	fixture, err := ParseFixture([]byte(fixtureYAML))
	require.NoError(t, err)
	_, err = s.Import(ctx, fixture)
	require.NoError(t, err)

	fixture.Movies[0].Actors = []string{"Fernanda Montenegro"}
	fixture.Movies[0].Synopsis = "Nova sinopse."
	_, err = s.Import(ctx, fixture)
	require.NoError(t, err)

	var count int64
	require.NoError(t, s.DB.Model(&models.Movie{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
	require.NoError(t, s.DB.Model(&models.Actor{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)

	movie, err := s.GetMovieBySlug(ctx, "central-do-brasil")
	require.NoError(t, err)
	assert.Equal(t, "Nova sinopse.", movie.Synopsis)
	require.Len(t, movie.Actors, 1)
	assert.Equal(t, "Fernanda Montenegro", movie.Actors[0].Name)
}

func TestImport_RejectsNamelessMovie(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Import(context.Background(), &CatalogFixture{Movies: []MovieFixture{{Year: 1999}}})
	assert.Error(t, err)

	var count int64
	require.NoError(t, s.DB.Model(&models.Movie{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestImport_ResolvesDeclaredSlugByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	fixture, err := ParseFixture([]byte(`
genres:
  - name: Ficção Científica
    slug: sci-fi
actors:
  - name: Natalya Bondarchuk
    slug: bondarchuk
movies:
  - name: Solaris
    year: 1972
    genres: [Ficção Científica]
    actors: [Natalya Bondarchuk, bondarchuk]
`))
	require.NoError(t, err)

	stats, err := s.Import(ctx, fixture)
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Genres: 1, Actors: 1, Movies: 1}, stats)

	movie, err := s.GetMovieBySlug(ctx, "solaris")
	require.NoError(t, err)
	require.Len(t, movie.Genres, 1)
	assert.Equal(t, "sci-fi", movie.Genres[0].Slug)
	require.Len(t, movie.Actors, 1)
	assert.Equal(t, "bondarchuk", movie.Actors[0].Slug)

	var count int64
	require.NoError(t, s.DB.Model(&models.Genre{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	require.NoError(t, s.DB.Model(&models.Actor{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestImport_ReimportClearsRemovedFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	fixture, err := ParseFixture([]byte(fixtureYAML))
	require.NoError(t, err)
	_, err = s.Import(ctx, fixture)
	require.NoError(t, err)

	fixture.Movies[0].Year = 0
	fixture.Movies[0].Synopsis = ""
	fixture.Movies[0].Details = nil
	_, err = s.Import(ctx, fixture)
	require.NoError(t, err)

	movie, err := s.GetMovieBySlug(ctx, "central-do-brasil")
	require.NoError(t, err)
	assert.Zero(t, movie.Year)
	assert.Empty(t, movie.Synopsis)
	assert.Empty(t, movie.Details)
	assert.Nil(t, movie.DetailFields())
}
