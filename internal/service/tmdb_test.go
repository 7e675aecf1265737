package service

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/siamlacorns/internal/model"
	"github.com/user/siamlacorns/internal/repository"
	"github.com/user/siamlacorns/internal/testutil"
)

const tmdbTVDetailsBody = `{
	"id": 96102,
	"name": "以你的心诠释我的爱",
	"overview": "普吉岛少年的故事",
	"first_air_date": "2020-10-11",
	"episode_run_time": [50],
	"number_of_episodes": 13,
	"vote_average": 8.6,
	"status": "Ended",
	"adult": false,
	"poster_path": "/poster.jpg",
	"genres": [{"name": "Drama"}, {"name": "Romance"}],
	"origin_country": ["TH"],
	"credits": {"cast": [
		{"name": "Billkin", "character": "Teh", "profile_path": "/billkin.jpg"},
		{"name": "PP Krit", "character": "Oh-aew", "profile_path": "/pp.jpg"}
	]},
	"videos": {"results": [
		{"key": "abc123", "site": "YouTube", "type": "Teaser"},
		{"key": "def456", "site": "YouTube", "type": "Trailer"}
	]}
}`

func newTMDBFixture(t *testing.T, handler http.Handler) (*TMDBService, *repository.Repositories, *httptest.Server) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := NewTMDBService(repos.Lacorn, repos.Actor, "test-key", server.URL, "https://image.tmdb.org/t/p")
	return svc, repos, server
}

func TestImportTV(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/tv/96102", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		w.Write([]byte(tmdbTVDetailsBody))
	})
	svc, repos, _ := newTMDBFixture(t, handler)

	lacorn, err := svc.Import("tv", 96102)
	assert.NoError(t, err)
	assert.Equal(t, "以你的心诠释我的爱", lacorn.Title)
	assert.Equal(t, 2020, lacorn.ReleaseYear)
	assert.Equal(t, 13, lacorn.TotalEpisodes)
	assert.Equal(t, 50*60, lacorn.EpisodeDuration)
	assert.Equal(t, model.StatusCompleted, lacorn.Status)
	assert.Equal(t, "PG-13", lacorn.AgeRating)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/poster.jpg", lacorn.PosterURL)
	assert.Equal(t, "https://www.youtube.com/watch?v=def456", lacorn.TrailerURL)

	detail, err := repos.Lacorn.FindByID(lacorn.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Drama", "Romance"}, detail.GenreNames())
	assert.Equal(t, []string{"TH"}, detail.CountryNames())
	assert.Len(t, detail.Actors, 2)

	// 二次导入不再访问 TMDB，直接返回现有记录
	again, err := svc.Import("tv", 96102)
	assert.NoError(t, err)
	assert.Equal(t, lacorn.ID, again.ID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestImportMovieDefaults(t *testing.T) {
	body := `{
		"id": 555,
		"title": "某部电影",
		"overview": "剧情简介",
		"release_date": "2019-05-01",
		"runtime": 0,
		"vote_average": 7.0,
		"status": "Released",
		"adult": true,
		"production_countries": [{"name": "Thailand"}],
		"credits": {"cast": []},
		"videos": {"results": []}
	}`
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/555", r.URL.Path)
		w.Write([]byte(body))
	})
	svc, _, _ := newTMDBFixture(t, handler)

	lacorn, err := svc.Import("movie", 555)
	assert.NoError(t, err)
	assert.Equal(t, 1, lacorn.TotalEpisodes)
	assert.Equal(t, "R", lacorn.AgeRating)
	assert.Equal(t, model.StatusCompleted, lacorn.Status)
	assert.Equal(t, "", lacorn.TrailerURL)
}

func TestImportTVRuntimeFallback(t *testing.T) {
	body := `{
		"id": 777,
		"name": "没有时长的剧",
		"first_air_date": "2024-01-01",
		"episode_run_time": [],
		"status": "Returning Series",
		"credits": {"cast": []},
		"videos": {"results": []}
	}`
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})
	svc, _, _ := newTMDBFixture(t, handler)

	lacorn, err := svc.Import("tv", 777)
	assert.NoError(t, err)
	assert.Equal(t, 45*60, lacorn.EpisodeDuration)
	assert.Equal(t, model.StatusOngoing, lacorn.Status)
}

func TestImportValidation(t *testing.T) {
	svc, _, _ := newTMDBFixture(t, http.NotFoundHandler())

	var svcErr *Error
	_, err := svc.Import("book", 1)
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindValidation, svcErr.Kind)

	_, err = svc.Import("tv", 0)
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindValidation, svcErr.Kind)
}

func TestImportUpstreamError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	svc, _, _ := newTMDBFixture(t, handler)

	var svcErr *Error
	_, err := svc.Import("tv", 1)
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindIntegration, svcErr.Kind)
}

func TestImportCastDedup(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tmdbTVDetailsBody))
	})
	svc, repos, _ := newTMDBFixture(t, handler)

	// 预先存在同名同角色演员，导入时复用而不是新建
	existing := &model.Actor{Name: "Billkin", CharacterName: "Teh"}
	assert.NoError(t, repos.Actor.Create(existing))

	_, err := svc.Import("tv", 96102)
	assert.NoError(t, err)

	actors, err := repos.Actor.List()
	assert.NoError(t, err)
	assert.Len(t, actors, 2)
}

func TestSearchCachesResults(t *testing.T) {
	var calls int32
	body := `{"results": [
		{"id": 1, "media_type": "tv", "name": "剧一", "first_air_date": "2021-01-01", "vote_average": 8.0},
		{"id": 2, "media_type": "person", "name": "路人"}
	]}`
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/search/multi", r.URL.Path)
		w.Write([]byte(body))
	})
	svc, _, _ := newTMDBFixture(t, handler)

	results, err := svc.Search("剧一", 0)
	assert.NoError(t, err)
	assert.Len(t, results, 1) // person 条目被过滤
	assert.Equal(t, "剧一", results[0].Title)

	_, err = svc.Search("剧一", 0)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// 指定年份是不同的缓存键，并透传给上游
	_, err = svc.Search("剧一", 2021)
	assert.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	var svcErr *Error
	_, err = svc.Search("  ", 0)
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindValidation, svcErr.Kind)
}

func TestDetailsDoesNotPersist(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tv/96102", r.URL.Path)
		w.Write([]byte(tmdbTVDetailsBody))
	})
	svc, repos, _ := newTMDBFixture(t, handler)

	view, err := svc.Details("tv", 96102)
	assert.NoError(t, err)
	assert.Equal(t, "以你的心诠释我的爱", view.Title)
	assert.Equal(t, []string{"Drama", "Romance"}, view.Genres)

	// 详情预览不落库
	existing, err := repos.Lacorn.FindByTmdbID(96102)
	assert.NoError(t, err)
	assert.Nil(t, existing)

	var svcErr *Error
	_, err = svc.Details("book", 96102)
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindValidation, svcErr.Kind)
}

func TestAutoImport(t *testing.T) {
	searchBody := `{"results": [
		{"id": 96102, "media_type": "tv", "name": "以你的心诠释我的爱", "first_air_date": "2020-10-11", "vote_average": 8.6}
	]}`
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/multi":
			w.Write([]byte(searchBody))
		case "/tv/96102":
			w.Write([]byte(tmdbTVDetailsBody))
		default:
			t.Errorf("意料之外的请求: %s", r.URL.Path)
		}
	})
	svc, repos, _ := newTMDBFixture(t, handler)

	lacorn, err := svc.AutoImport("以你的心诠释我的爱", 2020)
	assert.NoError(t, err)
	assert.Equal(t, "以你的心诠释我的爱", lacorn.Title)

	saved, err := repos.Lacorn.FindByTmdbID(96102)
	assert.NoError(t, err)
	assert.NotNil(t, saved)
}

func TestAutoImportNoResults(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": []}`))
	})
	svc, _, _ := newTMDBFixture(t, handler)

	var svcErr *Error
	_, err := svc.AutoImport("不存在的剧", 0)
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindNotFound, svcErr.Kind)
}
