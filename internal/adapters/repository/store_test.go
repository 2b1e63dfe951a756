package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	. "github.com/smartystreets/goconvey/convey"
)

// exerciseStore runs the shared Load/Save contract against s.
func exerciseStore(ctx context.Context, s Store) {
	_, err := s.Load(ctx)
	So(errors.Is(err, ErrSnapshotMissing), ShouldBeTrue)

	So(s.Save(ctx, []byte(`{"1507":[]}`)), ShouldBeNil)
	data, err := s.Load(ctx)
	So(err, ShouldBeNil)
	So(string(data), ShouldEqual, `{"1507":[]}`)

	So(s.Save(ctx, []byte(`[]`)), ShouldBeNil)
	data, err = s.Load(ctx)
	So(err, ShouldBeNil)
	So(string(data), ShouldEqual, `[]`)
}

func TestFileStore(t *testing.T) {
	Convey("Given a file store in a temp dir", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "team_notes.json")
		s := NewFileStore("notes", path)

		Convey("Then it honours the snapshot contract", func() {
			exerciseStore(ctx, s)
		})

		Convey("Then saved files are private and no temp files are left", func() {
			So(s.Save(ctx, []byte(`{}`)), ShouldBeNil)
			info, err := os.Stat(path)
			So(err, ShouldBeNil)
			So(info.Mode().Perm(), ShouldEqual, os.FileMode(0o600))

			entries, err := os.ReadDir(filepath.Dir(path))
			So(err, ShouldBeNil)
			So(len(entries), ShouldEqual, 1)
		})

		Convey("Then WithFileMode overrides the permissions", func() {
			s := NewFileStore("notes", path, WithFileMode(0o640))
			So(s.Save(ctx, []byte(`{}`)), ShouldBeNil)
			info, err := os.Stat(path)
			So(err, ShouldBeNil)
			So(info.Mode().Perm(), ShouldEqual, os.FileMode(0o640))
		})

		Convey("Then a missing directory is reported, not treated as empty", func() {
			s := NewFileStore("notes", filepath.Join(t.TempDir(), "nope", "x.json"))
			err := s.Save(ctx, []byte(`{}`))
			So(err, ShouldNotBeNil)
			So(errors.Is(err, ErrSnapshotMissing), ShouldBeFalse)
		})
	})
}

func TestRedisStore(t *testing.T) {
	Convey("Given a redis store against miniredis", t, func() {
		ctx := context.Background()
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer func() { _ = client.Close() }()

		s := NewRedisStore("favorites", client, "favorites", WithKeyPrefix("frcscout:"))
		So(s.Key(), ShouldEqual, "frcscout:favorites")

		Convey("Then it honours the snapshot contract", func() {
			exerciseStore(ctx, s)
			got, err := mr.Get("frcscout:favorites")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, `[]`)
		})

		Convey("Then a dead server surfaces as an error", func() {
			mr.Close()
			_, err := s.Load(ctx)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, ErrSnapshotMissing), ShouldBeFalse)
		})
	})
}

func TestMemoryStoreAndNew(t *testing.T) {
	Convey("Given a memory store", t, func() {
		ctx := context.Background()
		s := NewMemoryStore("notes")
		exerciseStore(ctx, s)

		Convey("Then loaded bytes are copies", func() {
			data, _ := s.Load(ctx)
			data[0] = 'x'
			again, _ := s.Load(ctx)
			So(string(again), ShouldEqual, `[]`)
		})
	})

	Convey("Given backend names", t, func() {
		target := Target{Name: "notes", FilePath: filepath.Join(t.TempDir(), "n.json"), RedisKey: "notes"}

		s, err := New(BackendMemory, target, nil)
		So(err, ShouldBeNil)
		So(s.Name(), ShouldEqual, "notes")
		exerciseStore(context.Background(), s)

		s, err = New(BackendFile, target, nil)
		So(err, ShouldBeNil)
		So(Instrument(s), ShouldEqual, s)

		_, err = New(BackendRedis, target, nil)
		So(errors.Is(err, ErrUnknownBackend), ShouldBeTrue)

		_, err = New("etcd", target, nil)
		So(errors.Is(err, ErrUnknownBackend), ShouldBeTrue)
	})
}
