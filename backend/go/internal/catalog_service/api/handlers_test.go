package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"filmoteca/backend/go/internal/catalog_service/service"
	"filmoteca/backend/go/internal/catalog_service/store"
	"filmoteca/backend/go/internal/config"
	"filmoteca/backend/go/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	db     *gorm.DB
	router *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "catalog.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Genre{}, &models.Actor{}, &models.Movie{}))

	cfg := &config.AppConfig{}
	cfg.ApplyDefaults()

	svc := service.NewService(store.NewStore(db), nil, service.Limits{
		ActorMovies:   cfg.Catalog.ActorMovieLimit,
		RelatedMovies: cfg.Catalog.RelatedMovieLimit,
	}, nil)
	router, err := SetupRouter(NewHandler(svc, nil), cfg, nil)
	require.NoError(t, err)

	return &testApp{db: db, router: router}
}

func (a *testApp) create(t *testing.T, value any) {
	t.Helper()
	require.NoError(t, a.db.Create(value).Error)
}

func (a *testApp) get(t *testing.T, path string) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	return w, doc
}

func listed(doc *goquery.Document, selector string) []string {
	var names []string
	doc.Find(selector + " li.movie > a").Each(func(_ int, s *goquery.Selection) {
		names = append(names, s.Text())
	})
	return names
}

func TestMovieList_ShowsEveryMovie(t *testing.T) {
	app := newTestApp(t)
	for i := 0; i < 30; i++ {
		app.create(t, &models.Movie{Name: fmt.Sprintf("filme %02d", i)})
	}

	w, doc := app.get(t, "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, listed(doc, ".movie-list"), 30)
}

func TestMovieList_Heading(t *testing.T) {
	app := newTestApp(t)

	_, doc := app.get(t, "/")

	heading := doc.Find("h1.fl")
	require.Equal(t, 1, heading.Length())
	assert.Equal(t, "Listagem de Filmes", heading.Text())
}

func TestMovieList_Ordering(t *testing.T) {
	app := newTestApp(t)
	app.create(t, &models.Movie{Name: "BBB"})
	app.create(t, &models.Movie{Name: "AAA"})
	app.create(t, &models.Movie{Name: "CCC"})

	_, doc := app.get(t, "/")
	assert.Equal(t, []string{"AAA", "BBB", "CCC"}, listed(doc, ".movie-list"))

	_, doc = app.get(t, "/?ordem=desc")
	assert.Equal(t, []string{"CCC", "BBB", "AAA"}, listed(doc, ".movie-list"))
}

func TestMovieList_FilteredByGenre(t *testing.T) {
	app := newTestApp(t)
	gen1 := &models.Genre{Name: "gen1"}
	gen2 := &models.Genre{Name: "gen2"}
	app.create(t, gen1)
	app.create(t, gen2)
	app.create(t, &models.Movie{Name: "um", Genres: []*models.Genre{gen1}})
	app.create(t, &models.Movie{Name: "dois", Genres: []*models.Genre{gen2}})
	app.create(t, &models.Movie{Name: "ambos", Genres: []*models.Genre{gen1, gen2}})

	w, doc := app.get(t, "/genero/gen1/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, listed(doc, ".movie-list"), 2)
	assert.Equal(t, "Filmes de gen1", doc.Find("h1.fl").Text())

	_, doc = app.get(t, "/genero/gen2/")
	assert.Len(t, listed(doc, ".movie-list"), 2)

	// genres of each movie are joined into one sentence
	html, err := doc.Find(".movie-list li.movie").First().Find(".genres").Html()
	require.NoError(t, err)
	assert.Equal(t, `<a href="/genero/gen1/">gen1</a> e <a href="/genero/gen2/">gen2</a>`, html)
}

func TestActorDetail_ListsAtMost20Movies(t *testing.T) {
	app := newTestApp(t)
	actor := &models.Actor{Name: "foo"}
	app.create(t, actor)
	for i := 0; i < 30; i++ {
		app.create(t, &models.Movie{Name: fmt.Sprintf("filme %02d", i), Actors: []*models.Actor{actor}})
	}

	w, doc := app.get(t, "/ator/foo/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "foo", doc.Find("h1").Text())
	assert.Len(t, listed(doc, ".movie-list"), 20)
}

func TestMovieDetail_ListsAtMost10RelatedMovies(t *testing.T) {
	app := newTestApp(t)
	actor := &models.Actor{Name: "ator"}
	app.create(t, actor)
	movies := make([]*models.Movie, 12)
	for i := range movies {
		movies[i] = &models.Movie{Name: fmt.Sprintf("filme %02d", i), Actors: []*models.Actor{actor}}
		app.create(t, movies[i])
	}

	w, doc := app.get(t, movies[0].AbsoluteURL())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, listed(doc, ".related-list"), 10)
}

func TestMovieDetail_RelatedOrderedByRelationship(t *testing.T) {
	app := newTestApp(t)
	actors := make([]*models.Actor, 3)
	genres := make([]*models.Genre, 3)
	for i := range actors {
		actors[i] = &models.Actor{Name: fmt.Sprintf("ator %d", i)}
		genres[i] = &models.Genre{Name: fmt.Sprintf("genero %d", i)}
		app.create(t, actors[i])
		app.create(t, genres[i])
	}
	filme1 := &models.Movie{Name: "filme1", Actors: actors, Genres: genres}
	filme2 := &models.Movie{Name: "filme2", Actors: actors[:2], Genres: genres[:2]}
	filme3 := &models.Movie{Name: "filme3", Actors: actors[:1], Genres: genres[:1]}
	app.create(t, filme1)
	app.create(t, filme2)
	app.create(t, filme3)

	_, doc := app.get(t, filme3.AbsoluteURL())
	assert.Equal(t, []string{"filme1", "filme2"}, listed(doc, ".related-list"))

	_, doc = app.get(t, filme1.AbsoluteURL())
	assert.Equal(t, []string{"filme2", "filme3"}, listed(doc, ".related-list"))

	cast, err := doc.Find("p.actors").Html()
	require.NoError(t, err)
	assert.Equal(t,
		`Elenco: <a href="/ator/ator-0/">ator 0</a>, <a href="/ator/ator-1/">ator 1</a> e <a href="/ator/ator-2/">ator 2</a>`,
		cast)
}

func TestMovieDetail_ShowsDetails(t *testing.T) {
	app := newTestApp(t)
	app.create(t, &models.Movie{
		Name:     "Central do Brasil",
		Year:     1998,
		Synopsis: "Dora & Josué",
		Details:  []byte(`{"director": "Walter Salles"}`),
	})

	w, doc := app.get(t, "/filme/central-do-brasil/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dora & Josué", doc.Find("p.synopsis").Text())
	assert.Equal(t, "director", doc.Find("dl.details dt").Text())
	assert.Equal(t, "Walter Salles", doc.Find("dl.details dd").Text())
	assert.Equal(t, 0, doc.Find(".related-list").Length())
}

func TestNotFound(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/filme/nope/", "/ator/nope/", "/genero/nope/", "/nada"} {
		t.Run(path, func(t *testing.T) {
			w, doc := app.get(t, path)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, "Página não encontrada", doc.Find("h1").Text())
		})
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	w, _ := app.get(t, "/healthz")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","database":"ok","cache":"ok"}`, w.Body.String())
}
