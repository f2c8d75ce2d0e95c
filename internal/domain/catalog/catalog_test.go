package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/certcredit/internal/domain/catalog"
	"github.com/okian/certcredit/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func writeCatalogFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given a JSON catalog file", t, func() {
		path := writeCatalogFile(t, "certifications.json", `[
  {"certificate_name": "HashiCorp Certified: Terraform Associate", "credit_points": 5.0},
  {"certificate_name": "AWS Certified AI Practitioner", "credit_points": 2.5}
]`)

		Convey("When loading it", func() {
			cat, err := catalog.Load(ctx, catalog.FileSource{Path: path})

			Convey("Then entries should keep file order", func() {
				So(err, ShouldBeNil)
				So(cat.Len(), ShouldEqual, 2)
				So(cat.At(0).Name, ShouldEqual, "HashiCorp Certified: Terraform Associate")
				So(cat.At(1).Points, ShouldEqual, 2.5)
			})
		})
	})

	Convey("Given a YAML catalog file", t, func() {
		path := writeCatalogFile(t, "certifications.yaml", `
- certificate_name: CompTIA Security+
  credit_points: 4.5
- certificate_name: Certified Kubernetes Administrator (CKA)
  credit_points: 7
`)

		Convey("When loading it", func() {
			cat, err := catalog.Load(ctx, catalog.FileSource{Path: path})

			Convey("Then it should be parsed as YAML", func() {
				So(err, ShouldBeNil)
				So(cat.Len(), ShouldEqual, 2)
				So(cat.At(1).Points, ShouldEqual, 7.0)
			})
		})
	})

	Convey("Given broken catalog sources", t, func() {
		cases := []struct {
			name string
			src  catalog.Source
		}{
			{"missing file", catalog.FileSource{Path: filepath.Join(t.TempDir(), "nope.json")}},
			{"empty file", catalog.FileSource{Path: writeCatalogFile(t, "empty.json", "  \n")}},
			{"not a list", catalog.FileSource{Path: writeCatalogFile(t, "obj.json", `{"certificate_name":"x","credit_points":1}`)}},
			{"null document", catalog.FileSource{Path: writeCatalogFile(t, "null.json", `null`)}},
			{"list of scalars", catalog.FileSource{Path: writeCatalogFile(t, "scalars.json", `["a","b"]`)}},
			{"missing points", catalog.FileSource{Path: writeCatalogFile(t, "nopoints.json", `[{"certificate_name":"x"}]`)}},
			{"missing name", catalog.FileSource{Path: writeCatalogFile(t, "noname.yaml", "- credit_points: 3\n")}},
			{"blank name", catalog.SliceSource{{Name: "  ", Points: 1}}},
			{"nil source", nil},
		}

		for _, tc := range cases {
			Convey("When loading a source with "+tc.name, func() {
				cat, err := catalog.Load(ctx, tc.src)

				Convey("Then it should fail with ErrCatalogUnavailable", func() {
					So(cat, ShouldBeNil)
					So(errors.Is(err, catalog.ErrCatalogUnavailable), ShouldBeTrue)
				})
			})
		}
	})

	Convey("Given an empty JSON list", t, func() {
		path := writeCatalogFile(t, "none.json", `[]`)

		Convey("When loading it", func() {
			cat, err := catalog.Load(ctx, catalog.FileSource{Path: path})

			Convey("Then it should load as a well-formed empty catalog", func() {
				So(err, ShouldBeNil)
				So(cat.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestCatalogImmutability(t *testing.T) {
	Convey("Given a catalog built from a slice", t, func() {
		entries := []model.CatalogEntry{{Name: "A", Points: 1}, {Name: "A", Points: 2}}
		cat := catalog.New(entries)

		Convey("When the caller mutates the original slice", func() {
			entries[0].Name = "changed"

			Convey("Then the catalog should be unaffected", func() {
				So(cat.At(0).Name, ShouldEqual, "A")
			})
		})

		Convey("When the caller mutates a copy from Entries", func() {
			out := cat.Entries()
			out[1].Points = 99

			Convey("Then the catalog should be unaffected", func() {
				So(cat.At(1).Points, ShouldEqual, 2.0)
			})
		})

		Convey("Then duplicate names should be preserved in order", func() {
			So(cat.Len(), ShouldEqual, 2)
			So(cat.At(0).Points, ShouldEqual, 1.0)
		})
	})

	Convey("Given a nil catalog", t, func() {
		var cat *catalog.Catalog

		Convey("Then it should behave as empty", func() {
			So(cat.Len(), ShouldEqual, 0)
			So(cat.Entries(), ShouldBeNil)
		})
	})
}
