package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/certcredit/internal/adapters/repository"
	"github.com/okian/certcredit/internal/domain/catalog"
	"github.com/okian/certcredit/internal/domain/model"
	"github.com/okian/certcredit/internal/domain/scoring"
)

func openStore(t *testing.T) *repository.Store {
	t.Helper()
	s, err := repository.Open(filepath.Join(t.TempDir(), "certs.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a migrated empty store", t, func() {
		s := openStore(t)

		Convey("Then it should list no entries", func() {
			got, err := s.Entries(ctx)
			So(err, ShouldBeNil)
			So(got, ShouldBeEmpty)
		})

		Convey("Then migrating again should be a no-op", func() {
			So(s.Migrate(ctx), ShouldBeNil)
		})

		Convey("When seeded with the default records", func() {
			So(s.Seed(ctx, repository.DefaultSeed()), ShouldBeNil)

			Convey("Then entries should come back in insertion order", func() {
				got, err := s.Entries(ctx)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, repository.DefaultSeed())
				So(len(got), ShouldEqual, 14)
			})

			Convey("Then the store should work as a catalog source", func() {
				cat, err := catalog.Load(ctx, s)
				So(err, ShouldBeNil)

				res := scoring.Match("AWS Certified AI Practitioner", cat)
				So(res.Matched, ShouldBeTrue)
				So(res.Entry.Points, ShouldEqual, 2.5)
			})
		})

		Convey("When a row has no points", func() {
			So(s.Seed(ctx, []model.CatalogEntry{{Name: "Good", Points: 1}}), ShouldBeNil)
			So(s.ExecForTest(ctx, `INSERT INTO certifications_data (cert_name, points) VALUES ('Broken', NULL)`), ShouldBeNil)

			Convey("Then listing should fail as malformed", func() {
				_, err := s.Entries(ctx)
				So(errors.Is(err, repository.ErrMalformedRow), ShouldBeTrue)
			})

			Convey("Then loading a catalog should report it unavailable", func() {
				_, err := catalog.Load(ctx, s)
				So(errors.Is(err, catalog.ErrCatalogUnavailable), ShouldBeTrue)
			})
		})

		Convey("When a row has a blank name", func() {
			So(s.Seed(ctx, []model.CatalogEntry{{Name: "   ", Points: 3}}), ShouldBeNil)

			Convey("Then listing should fail as malformed", func() {
				_, err := s.Entries(ctx)
				So(errors.Is(err, repository.ErrMalformedRow), ShouldBeTrue)
			})
		})
	})

	Convey("Given a closed store", t, func() {
		var s *repository.Store

		Convey("Then every operation should fail cleanly", func() {
			So(s.Close(), ShouldBeNil)
			So(errors.Is(s.Migrate(ctx), repository.ErrClosed), ShouldBeTrue)
			_, err := s.Entries(ctx)
			So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
		})
	})
}
