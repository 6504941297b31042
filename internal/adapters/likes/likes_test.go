package likes_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/okian/vibecheck/internal/adapters/likes"
	"github.com/redis/go-redis/v9"
	. "github.com/smartystreets/goconvey/convey"
)

// exerciseStore runs the shared Store contract.
func exerciseStore(store likes.Store, a, b string) {
	ctx := context.Background()

	Convey("Then a fresh pair has no likes", func() {
		ok, err := store.Likes(ctx, a, b)
		So(err, ShouldBeNil)
		So(ok, ShouldBeFalse)
	})

	Convey("Then a like is one-directional and idempotent", func() {
		So(store.Like(ctx, a, b), ShouldBeNil)
		So(store.Like(ctx, a, b), ShouldBeNil)

		ok, err := store.Likes(ctx, a, b)
		So(err, ShouldBeNil)
		So(ok, ShouldBeTrue)

		ok, err = store.Likes(ctx, b, a)
		So(err, ShouldBeNil)
		So(ok, ShouldBeFalse)
	})

	Convey("Then liking yourself is rejected", func() {
		So(errors.Is(store.Like(ctx, a, a), likes.ErrSelfLike), ShouldBeTrue)
	})

	Convey("Then forgetting clears outgoing likes", func() {
		So(store.Like(ctx, a, b), ShouldBeNil)
		So(store.Forget(ctx, a), ShouldBeNil)
		ok, err := store.Likes(ctx, a, b)
		So(err, ShouldBeNil)
		So(ok, ShouldBeFalse)
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a memory likes store", t, func() {
		exerciseStore(likes.NewMemoryStore(), "a", "b")
	})
}

// TestRedisStore needs a Redis server at VIBE_TEST_REDIS_ADDR.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("VIBE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("VIBE_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	Convey("Given a redis likes store", t, func() {
		a, b := uuid.NewString(), uuid.NewString()
		Reset(func() { client.Del(context.Background(), likes.KeyPrefix+a, likes.KeyPrefix+b) })
		exerciseStore(likes.NewRedisStore(client), a, b)
	})
}

func TestPolicies(t *testing.T) {
	Convey("Given a likes store", t, func() {
		ctx := context.Background()
		store := likes.NewMemoryStore()

		Convey("When using the always policy", func() {
			p, err := likes.NewPolicy("", nil)
			So(err, ShouldBeNil)

			Convey("Then every pair matches", func() {
				ok, err := p.IsMatch(ctx, "a", "b")
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When using the mutual like policy", func() {
			p, err := likes.NewPolicy("mutual_like", store)
			So(err, ShouldBeNil)

			Convey("Then a one-sided like is not a match", func() {
				So(store.Like(ctx, "a", "b"), ShouldBeNil)
				ok, err := p.IsMatch(ctx, "a", "b")
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})

			Convey("Then likes both ways match from either side", func() {
				So(store.Like(ctx, "a", "b"), ShouldBeNil)
				So(store.Like(ctx, "b", "a"), ShouldBeNil)
				ok, _ := p.IsMatch(ctx, "a", "b")
				So(ok, ShouldBeTrue)
				ok, _ = p.IsMatch(ctx, "b", "a")
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When the store fails", func() {
			boom := errors.New("boom")
			failing := failingStore{err: boom}
			_, err := likes.NewMutualLike(failing).IsMatch(ctx, "a", "b")
			So(errors.Is(err, boom), ShouldBeTrue)
		})

		Convey("When the policy is unknown or misconfigured", func() {
			_, err := likes.NewPolicy("random", store)
			So(err, ShouldNotBeNil)
			_, err = likes.NewPolicy("mutual_like", nil)
			So(err, ShouldNotBeNil)
		})
	})
}

type failingStore struct{ err error }

func (f failingStore) Like(context.Context, string, string) error { return f.err }
func (f failingStore) Likes(context.Context, string, string) (bool, error) {
	return false, f.err
}
func (f failingStore) Forget(context.Context, string) error { return f.err }
