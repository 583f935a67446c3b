package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmorate/internal/apperrors"
	"filmorate/internal/events"
	"filmorate/internal/models"
	"filmorate/internal/storage/memory"
	"filmorate/internal/validation"
)

var testNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	films   FilmService
	users   UserService
	catalog CatalogService
	pub     *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	v := validation.New(validation.WithClock(func() time.Time { return testNow }))
	pub := &recordingPublisher{}
	return &fixture{
		films:   NewFilmService(store, v, pub),
		users:   NewUserService(store, v, pub),
		catalog: NewCatalogService(store),
		pub:     pub,
	}
}

func film(name string, y int, m time.Month, d int, duration int) models.Film {
	return models.Film{Name: name, ReleaseDate: models.NewDate(y, m, d), Duration: duration}
}

func (f *fixture) mustFilm(t *testing.T, name string) *models.Film {
	t.Helper()
	created, err := f.films.CreateFilm(context.Background(), film(name, 2000, time.January, 1, 100))
	require.NoError(t, err)
	return created
}

func (f *fixture) mustUser(t *testing.T, login string) *models.User {
	t.Helper()
	created, err := f.users.CreateUser(context.Background(), models.User{
		Email:    login + "@example.com",
		Login:    login,
		Birthday: models.NewDate(1990, time.May, 5),
	})
	require.NoError(t, err)
	return created
}

func userIDs(users []models.User) []uint {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

func TestPopularFilmsScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inception, err := f.films.CreateFilm(ctx, film("Inception", 2010, time.July, 16, 148))
	require.NoError(t, err)
	assert.Equal(t, uint(1), inception.ID)

	interstellar, err := f.films.CreateFilm(ctx, film("Interstellar", 2014, time.November, 7, 169))
	require.NoError(t, err)
	assert.Equal(t, uint(2), interstellar.ID)

	u1 := f.mustUser(t, "u1")
	u2 := f.mustUser(t, "u2")

	require.NoError(t, f.films.LikeFilm(ctx, 1, u1.ID))
	require.NoError(t, f.films.LikeFilm(ctx, 2, u1.ID))
	require.NoError(t, f.films.LikeFilm(ctx, 2, u2.ID))

	top, err := f.films.TopFilms(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Interstellar", top[0].Name)
	assert.Equal(t, 2, top[0].Likes)
}

func TestCreateFilm_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.films.CreateFilm(ctx, film("", 2020, time.January, 1, 10))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = f.films.CreateFilm(ctx, film("X", 1800, time.January, 1, 10))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	films, err := f.films.ListFilms(ctx)
	require.NoError(t, err)
	assert.Empty(t, films, "nothing is stored when validation fails")

	created := f.mustFilm(t, "First")
	assert.Equal(t, uint(1), created.ID, "rejected creates do not consume ids")
}

func TestAddFriend_AlreadyFriends(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.mustUser(t, "a")
	b := f.mustUser(t, "b")

	require.NoError(t, f.users.AddFriend(ctx, a.ID, b.ID))

	err := f.users.AddFriend(ctx, a.ID, b.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyFriends))
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	err = f.users.AddFriend(ctx, b.ID, a.ID)
	assert.True(t, errors.Is(err, ErrAlreadyFriends), "the edge is symmetric")

	friendsOfA, err := f.users.Friends(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, userIDs(friendsOfA))
	friendsOfB, err := f.users.Friends(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID}, userIDs(friendsOfB))
}

func TestFriendshipSymmetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.mustUser(t, "a")
	b := f.mustUser(t, "b")
	c := f.mustUser(t, "c")

	require.NoError(t, f.users.AddFriend(ctx, a.ID, b.ID))
	require.NoError(t, f.users.AddFriend(ctx, c.ID, a.ID))

	friendsOfA, err := f.users.Friends(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID, c.ID}, userIDs(friendsOfA))

	require.NoError(t, f.users.RemoveFriend(ctx, b.ID, a.ID))
	for _, pair := range [][2]uint{{a.ID, b.ID}, {b.ID, a.ID}} {
		friends, err := f.users.Friends(ctx, pair[0])
		require.NoError(t, err)
		assert.NotContains(t, userIDs(friends), pair[1])
	}

	// 删除不存在的好友关系是无操作
	require.NoError(t, f.users.RemoveFriend(ctx, a.ID, b.ID))
}

func TestAddFriend_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.mustUser(t, "a")

	err := f.users.AddFriend(ctx, a.ID, a.ID)
	assert.True(t, errors.Is(err, ErrSelfFriendship))
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidArgument))

	err = f.users.AddFriend(ctx, a.ID, 99)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	err = f.users.RemoveFriend(ctx, 99, a.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	_, err = f.users.Friends(ctx, 99)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	_, err = f.users.CommonFriends(ctx, a.ID, 99)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestCommonFriends(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.mustUser(t, "a")
	b := f.mustUser(t, "b")
	c := f.mustUser(t, "c")
	d := f.mustUser(t, "d")
	e := f.mustUser(t, "e")

	for _, pair := range [][2]uint{{a.ID, b.ID}, {a.ID, c.ID}, {b.ID, c.ID}, {a.ID, d.ID}, {b.ID, e.ID}} {
		require.NoError(t, f.users.AddFriend(ctx, pair[0], pair[1]))
	}

	common, err := f.users.CommonFriends(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{c.ID}, userIDs(common), "a and b are friends but never appear in their own result")

	common, err = f.users.CommonFriends(ctx, d.ID, e.ID)
	require.NoError(t, err)
	assert.Empty(t, common)
}

func TestLikeFilm_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.mustFilm(t, "Movie")
	u := f.mustUser(t, "u")

	require.NoError(t, f.films.LikeFilm(ctx, m.ID, u.ID))
	require.NoError(t, f.films.LikeFilm(ctx, m.ID, u.ID))

	likers, err := f.films.Likers(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{u.ID}, userIDs(likers))

	top, err := f.films.TopFilms(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, top[0].Likes)

	liked := 0
	for _, typ := range f.pub.types() {
		if typ == events.FilmLiked {
			liked++
		}
	}
	assert.Equal(t, 1, liked, "duplicate like publishes nothing")
}

func TestUnlikeFilm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.mustFilm(t, "Movie")
	u := f.mustUser(t, "u")

	err := f.films.UnlikeFilm(ctx, m.ID, u.ID)
	assert.True(t, errors.Is(err, ErrNotLiked))
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	require.NoError(t, f.films.LikeFilm(ctx, m.ID, u.ID))
	require.NoError(t, f.films.UnlikeFilm(ctx, m.ID, u.ID))

	err = f.films.UnlikeFilm(ctx, m.ID, 42)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	err = f.films.LikeFilm(ctx, 42, u.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestTopFilms_InvalidCount(t *testing.T) {
	f := newFixture(t)
	for _, count := range []int{0, -3} {
		_, err := f.films.TopFilms(context.Background(), count)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidArgument))
	}
}

func TestTopFilms_Deterministic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, name := range []string{"A", "B", "C", "D"} {
		f.mustFilm(t, name)
	}
	u := f.mustUser(t, "u")
	require.NoError(t, f.films.LikeFilm(ctx, 3, u.ID))

	first, err := f.films.TopFilms(ctx, 3)
	require.NoError(t, err)
	second, err := f.films.TopFilms(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "C", first[0].Name)
	assert.Equal(t, "A", first[1].Name)
	assert.Equal(t, "B", first[2].Name)
}

func TestUpdate_RequiresExistence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ghost := film("Ghost", 2000, time.January, 1, 90)
	ghost.ID = 5
	_, err := f.films.UpdateFilm(ctx, ghost)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	ghostUser := models.User{Email: "g@example.com", Login: "ghost"}
	ghostUser.ID = 5
	_, err = f.users.UpdateUser(ctx, ghostUser)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	films, err := f.films.ListFilms(ctx)
	require.NoError(t, err)
	assert.Empty(t, films)
	users, err := f.users.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	m := f.mustFilm(t, "Real")
	_, err = f.films.DeleteFilm(ctx, m.ID)
	require.NoError(t, err)
	updated := film("Real again", 2000, time.January, 1, 90)
	updated.ID = m.ID
	_, err = f.films.UpdateFilm(ctx, updated)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound), "deleted ids cannot be updated")
}

func TestUpdateFilm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.mustFilm(t, "Draft")

	changed := film("Final", 2001, time.February, 2, 120)
	changed.ID = m.ID
	changed.Mpa = &models.Mpa{ID: 4}
	changed.Genres = []models.Genre{{ID: 6}, {ID: 2}, {ID: 6}}

	updated, err := f.films.UpdateFilm(ctx, changed)
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Name)
	assert.Equal(t, "R", updated.Mpa.Name)
	assert.Equal(t, []uint{2, 6}, updated.GenreIDs())

	stored, err := f.films.GetFilm(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Драма", stored.Genres[0].Name)

	invalid := film("", 2001, time.February, 2, 120)
	invalid.ID = m.ID
	_, err = f.films.UpdateFilm(ctx, invalid)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestCreateFilm_UnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	withMpa := film("Rated", 2000, time.January, 1, 90)
	withMpa.Mpa = &models.Mpa{ID: 77}
	_, err := f.films.CreateFilm(ctx, withMpa)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	withGenre := film("Genred", 2000, time.January, 1, 90)
	withGenre.Genres = []models.Genre{{ID: 1}, {ID: 50}}
	_, err = f.films.CreateFilm(ctx, withGenre)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	films, err := f.films.ListFilms(ctx)
	require.NoError(t, err)
	assert.Empty(t, films)
}

func TestCreateUser_NameNormalization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.users.CreateUser(ctx, models.User{Email: "n@example.com", Login: "nemo", Name: "  "})
	require.NoError(t, err)

	got, err := f.users.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "nemo", got.Name)

	_, err = f.users.CreateUser(ctx, models.User{Email: "bad", Login: "x"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = f.users.CreateUser(ctx, models.User{
		Email:    "future@example.com",
		Login:    "future",
		Birthday: models.NewDate(2024, time.June, 2),
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestDeleteUser_Cascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.mustFilm(t, "Movie")
	a := f.mustUser(t, "a")
	b := f.mustUser(t, "b")

	require.NoError(t, f.films.LikeFilm(ctx, m.ID, a.ID))
	require.NoError(t, f.films.LikeFilm(ctx, m.ID, b.ID))
	require.NoError(t, f.users.AddFriend(ctx, a.ID, b.ID))

	removed, err := f.users.DeleteUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", removed.Login)

	_, err = f.users.GetUser(ctx, a.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	likers, err := f.films.Likers(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, userIDs(likers))

	friends, err := f.users.Friends(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)

	_, err = f.users.DeleteUser(ctx, a.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	c := f.mustUser(t, "c")
	assert.Equal(t, uint(3), c.ID, "user ids are not reused")
}

func TestDeleteFilm_Cascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	keep := f.mustFilm(t, "Keep")
	drop := f.mustFilm(t, "Drop")
	u := f.mustUser(t, "u")

	require.NoError(t, f.films.LikeFilm(ctx, keep.ID, u.ID))
	require.NoError(t, f.films.LikeFilm(ctx, drop.ID, u.ID))

	removed, err := f.films.DeleteFilm(ctx, drop.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drop", removed.Name)

	top, err := f.films.TopFilms(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, keep.ID, top[0].ID)

	_, err = f.films.Likers(ctx, drop.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	f := newFixture(t)
	f.pub.err = errors.New("kafka unavailable")

	created, err := f.films.CreateFilm(context.Background(), film("Still saved", 2000, time.January, 1, 90))
	require.NoError(t, err)

	got, err := f.films.GetFilm(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Still saved", got.Name)
}

func TestEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.mustFilm(t, "Movie")
	a := f.mustUser(t, "a")
	b := f.mustUser(t, "b")
	require.NoError(t, f.users.AddFriend(ctx, a.ID, b.ID))
	require.NoError(t, f.films.LikeFilm(ctx, m.ID, a.ID))

	assert.Equal(t, []events.Type{
		events.FilmCreated,
		events.UserCreated,
		events.UserCreated,
		events.FriendAdded,
		events.FilmLiked,
	}, f.pub.types())

	like := f.pub.events[4]
	assert.Equal(t, []uint{a.ID, b.ID}, like.Audience, "likes are pushed to the user and their friends")
}

func TestConcurrentCreatesAndFriendships(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const n = 50

	var wg sync.WaitGroup
	ids := make(chan uint, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := f.films.CreateFilm(ctx, film("Parallel", 2000, time.January, 1, 90))
			if assert.NoError(t, err) {
				ids <- created.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint]bool)
	for id := range ids {
		assert.False(t, seen[id])
		seen[id] = true
	}
	assert.Len(t, seen, n)

	a := f.mustUser(t, "a")
	b := f.mustUser(t, "b")
	var (
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			from, to := a.ID, b.ID
			if i%2 == 1 {
				from, to = to, from
			}
			err := f.users.AddFriend(ctx, from, to)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrAlreadyFriends):
				conflicts++
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)
}

func TestCatalogService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	genres, err := f.catalog.ListGenres(ctx)
	require.NoError(t, err)
	assert.Len(t, genres, 6)

	genre, err := f.catalog.GetGenre(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Комедия", genre.Name)

	ratings, err := f.catalog.ListMpa(ctx)
	require.NoError(t, err)
	assert.Len(t, ratings, 5)

	_, err = f.catalog.GetMpa(ctx, 9)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
